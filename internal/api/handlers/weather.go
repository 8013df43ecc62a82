package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/gometeo/widget/internal/model"
	"github.com/gometeo/widget/internal/storage"
	"github.com/gometeo/widget/internal/weather"
	"github.com/gometeo/widget/internal/widget"
)

// History - последние сохранённые наблюдения
type History interface {
	GetByCity(ctx context.Context, city string) (*model.Observation, error)
	GetAllCities(ctx context.Context) ([]string, error)
}

// Pinger - зависимость, доступность которой видна в health check
type Pinger interface {
	Ping(ctx context.Context) error
}

type WeatherHandler struct {
	fetcher widget.Fetcher
	apiKey  string
	history History
	checks  map[string]Pinger
	logger  *slog.Logger
}

// NewWeatherHandler: history может быть nil, если Postgres недоступен
func NewWeatherHandler(fetcher widget.Fetcher, apiKey string, history History, logger *slog.Logger) *WeatherHandler {
	return &WeatherHandler{
		fetcher: fetcher,
		apiKey:  apiKey,
		history: history,
		checks:  make(map[string]Pinger),
		logger:  logger,
	}
}

// AddCheck добавляет зависимость в health check
func (h *WeatherHandler) AddCheck(name string, p Pinger) {
	h.checks[name] = p
}

// GetWeather возвращает готовое к отображению представление погоды для города
func (h *WeatherHandler) GetWeather(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	city := mux.Vars(r)["city"]

	h.logger.Info("Запрос погоды", "city", city, "method", r.Method)

	view, err := widget.Lookup(r.Context(), h.fetcher, h.apiKey, city)
	if err != nil {
		status := lookupStatus(err)
		msg := widget.UserMessage(err)
		if errors.Is(err, widget.ErrEmptyQuery) {
			msg = "Please enter a city name."
		}
		h.logger.Warn("Поиск погоды не удался", "city", city, "status", status, "error", err)
		sendError(w, status, msg, "")
		return
	}

	sendJSON(w, http.StatusOK, view)

	h.logger.Info("Погода отдана",
		"city", city,
		"duration_ms", time.Since(start).Milliseconds())
}

// GetAllCities возвращает список городов, по которым есть наблюдения
func (h *WeatherHandler) GetAllCities(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		sendError(w, http.StatusServiceUnavailable, "История недоступна", "")
		return
	}

	cities, err := h.history.GetAllCities(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения городов из БД", "error", err)
		sendError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера", "")
		return
	}

	sendJSON(w, http.StatusOK, model.CitiesResponse{
		Cities: cities,
		Total:  len(cities),
	})
}

// GetObservation возвращает последнее сохранённое наблюдение по городу
func (h *WeatherHandler) GetObservation(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		sendError(w, http.StatusServiceUnavailable, "История недоступна", "")
		return
	}

	city := mux.Vars(r)["city"]
	obs, err := h.history.GetByCity(r.Context(), city)
	if errors.Is(err, storage.ErrNotFound) {
		sendError(w, http.StatusNotFound, "Город не найден", "")
		return
	}
	if err != nil {
		h.logger.Error("Ошибка чтения из БД", "city", city, "error", err)
		sendError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера", "")
		return
	}

	sendJSON(w, http.StatusOK, obs)
}

// HealthCheck проверяет доступность сервисов
func (h *WeatherHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	health := map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	}

	if h.apiKey == "" {
		health["weather_api"] = "not configured"
		health["status"] = "degraded"
	} else {
		health["weather_api"] = "configured"
	}

	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			health[name] = "unhealthy"
			health["status"] = "degraded"
			h.logger.Error("Health check: зависимость недоступна", "name", name, "error", err)
		} else {
			health[name] = "healthy"
		}
	}

	status := http.StatusOK
	if health["status"] == "degraded" {
		status = http.StatusServiceUnavailable
	}

	sendJSON(w, status, health)
}

func lookupStatus(err error) int {
	switch {
	case errors.Is(err, widget.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, widget.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, weather.ErrCityNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// Вспомогательные функции
func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func sendError(w http.ResponseWriter, status int, errorMsg, details string) {
	sendJSON(w, status, model.ErrorResponse{
		Error:   errorMsg,
		Message: details,
	})
}
