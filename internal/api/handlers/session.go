package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gometeo/widget/internal/view"
	"github.com/gometeo/widget/internal/widget"
)

var upgrader = websocket.Upgrader{
	// Страница и сокет отдаются одним сервером; чужой origin не пускаем
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// clientEvent - действие пользователя из браузера
type clientEvent struct {
	Type  string `json:"type"` // "click" | "keydown"
	Key   string `json:"key"`
	Value string `json:"value"`
}

// serverMessage - изменения документа для браузера
type serverMessage struct {
	Type    string       `json:"type"` // "snapshot" | "patch"
	Patches []view.Patch `json:"patches"`
}

// SessionHandler держит по одному документу и контроллеру на WebSocket соединение
type SessionHandler struct {
	page         *Page
	fetcher      widget.Fetcher
	apiKey       string
	errorTimeout time.Duration
	logger       *slog.Logger
}

func NewSessionHandler(page *Page, fetcher widget.Fetcher, apiKey string, errorTimeout time.Duration, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		page:         page,
		fetcher:      fetcher,
		apiKey:       apiKey,
		errorTimeout: errorTimeout,
		logger:       logger,
	}
}

// ServeWS обрабатывает WebSocket подключения страницы виджета
func (h *SessionHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Ошибка обновления WebSocket соединения", "error", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.New().String()
	logger := h.logger.With("session", sessionID)

	doc := h.page.Document()
	ctrl, err := widget.New(doc, h.fetcher, widget.Options{
		APIKey:       h.apiKey,
		ErrorTimeout: h.errorTimeout,
		Logger:       logger,
	})
	if err != nil {
		logger.Error("Не удалось запустить контроллер", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	out := make(chan serverMessage, 64)
	done := make(chan struct{})

	// Слушатель вызывается под блокировкой документа: только кладём в канал
	doc.OnChange(func(p view.Patch) {
		select {
		case out <- serverMessage{Type: "patch", Patches: []view.Patch{p}}:
		case <-done:
		}
	})
	out <- serverMessage{Type: "snapshot", Patches: doc.Snapshot()}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case msg := <-out:
				conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteJSON(msg); err != nil {
					logger.Warn("Ошибка записи в WebSocket", "error", err)
					cancel()
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	logger.Info("Страница виджета подключена")

	input, _ := doc.Element(widget.IDCityInput)
	for {
		var in clientEvent
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("WebSocket ошибка", "error", err)
			}
			break
		}

		ev, ok := toEvent(in)
		if !ok {
			continue
		}
		input.SetValue(in.Value)
		city, ok := ctrl.Trigger(ev)
		if !ok {
			continue
		}

		// Город снят до запуска горутины; из ответов побеждает пришедший последним
		go ctrl.SearchCity(ctx, city)
	}

	cancel()
	close(done)
	wg.Wait()
	logger.Info("Страница виджета отключена")
}

func toEvent(in clientEvent) (widget.Event, bool) {
	switch in.Type {
	case "click":
		return widget.Event{Kind: widget.EventClick, Target: widget.IDSearchBtn}, true
	case "keydown":
		return widget.Event{Kind: widget.EventKey, Target: widget.IDCityInput, Key: in.Key}, true
	default:
		return widget.Event{}, false
	}
}
