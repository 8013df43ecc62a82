package widget

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gometeo/widget/internal/model"
	"github.com/gometeo/widget/internal/view"
)

// Идентификаторы элементов страницы
const (
	IDCityInput        = "cityInput"
	IDSearchBtn        = "searchBtn"
	IDWeatherContainer = "weatherContainer"
	IDLoadingSpinner   = "loadingSpinner"
	IDErrorContainer   = "errorContainer"
	IDErrorMessage     = "errorMessage"
	IDBackground       = "background"
	IDCityName         = "cityName"
	IDCountry          = "country"
	IDTemperature      = "temperature"
	IDDescription      = "description"
	IDFeelsLike        = "feelsLike"
	IDTempRange        = "tempRange"
	IDWeatherIcon      = "weatherIcon"
	IDHumidity         = "humidity"
	IDWindSpeed        = "windSpeed"
	IDPressure         = "pressure"
	IDVisibility       = "visibility"
)

// ElementIDs - все элементы, без которых контроллер не запускается
var ElementIDs = []string{
	IDCityInput, IDSearchBtn, IDWeatherContainer, IDLoadingSpinner,
	IDErrorContainer, IDErrorMessage, IDBackground,
	IDCityName, IDCountry, IDTemperature, IDDescription, IDFeelsLike,
	IDTempRange, IDWeatherIcon, IDHumidity, IDWindSpeed, IDPressure, IDVisibility,
}

// ErrMissingElement - на странице нет обязательного элемента
var ErrMissingElement = errors.New("required element is missing")

const DefaultErrorTimeout = 5 * time.Second

// KeyEnter - клавиша подтверждения в поле ввода
const KeyEnter = "Enter"

type EventKind int

const (
	EventClick EventKind = iota
	EventKey
)

// Event - действие пользователя на странице
type Event struct {
	Kind   EventKind
	Target string
	Key    string
}

type Options struct {
	APIKey       string
	ErrorTimeout time.Duration
	Clock        Clock
	Logger       *slog.Logger
}

// Controller связывает элементы страницы с запросом погоды
type Controller struct {
	fetcher Fetcher
	apiKey  string
	timeout time.Duration
	clock   Clock
	logger  *slog.Logger

	mu      sync.Mutex
	display display
	els     map[string]view.Element
}

// New находит все обязательные элементы. Если какого-то нет, контроллер не создаётся.
func New(surface view.Surface, fetcher Fetcher, opts Options) (*Controller, error) {
	els := make(map[string]view.Element, len(ElementIDs))
	var missing []string
	for _, id := range ElementIDs {
		el, ok := surface.Element(id)
		if !ok {
			missing = append(missing, id)
			continue
		}
		els[id] = el
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingElement, strings.Join(missing, ", "))
	}

	if opts.ErrorTimeout <= 0 {
		opts.ErrorTimeout = DefaultErrorTimeout
	}
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &Controller{
		fetcher: fetcher,
		apiKey:  opts.APIKey,
		timeout: opts.ErrorTimeout,
		clock:   opts.Clock,
		logger:  opts.Logger,
		els:     els,
		display: display{
			loading: els[IDLoadingSpinner],
			weather: els[IDWeatherContainer],
			failure: els[IDErrorContainer],
		},
	}
	c.display.set(PhaseIdle)
	return c, nil
}

// Phase возвращает текущую фазу отображения
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.display.phase
}

// HandleEvent запускает поиск по клику на кнопку или Enter в поле ввода.
// Остальные события игнорируются.
func (c *Controller) HandleEvent(ctx context.Context, ev Event) {
	city, ok := c.Trigger(ev)
	if !ok {
		return
	}
	_ = c.SearchCity(ctx, city)
}

// Trigger сообщает, запускает ли событие поиск, и сразу снимает значение поля ввода.
// Город фиксируется в момент события, даже если сам поиск выполнится позже.
func (c *Controller) Trigger(ev Event) (string, bool) {
	switch {
	case ev.Kind == EventClick && ev.Target == IDSearchBtn:
	case ev.Kind == EventKey && ev.Target == IDCityInput && ev.Key == KeyEnter:
	default:
		return "", false
	}
	return c.els[IDCityInput].Value(), true
}

// Search выполняет один поиск по текущему значению поля ввода.
func (c *Controller) Search(ctx context.Context) error {
	return c.SearchCity(ctx, c.els[IDCityInput].Value())
}

// SearchCity выполняет один поиск по переданному городу.
// Пустой ввод молча игнорируется и возвращает ErrEmptyQuery.
// Остальные ошибки уже показаны пользователю и возвращаются только для логов и тестов.
func (c *Controller) SearchCity(ctx context.Context, input string) error {
	city := strings.TrimSpace(input)
	if city == "" {
		return ErrEmptyQuery
	}

	if c.apiKey == "" {
		c.showError(ErrNotConfigured)
		return ErrNotConfigured
	}

	c.mu.Lock()
	c.display.set(PhaseLoading)
	c.mu.Unlock()

	start := time.Now()
	resp, err := c.fetcher.Current(ctx, city)
	if err == nil {
		var v model.WeatherView
		if v, err = Project(resp); err == nil {
			c.render(v)
			c.logger.Info("Погода показана",
				"city", city,
				"condition", resp.Weather[0].Main,
				"duration_ms", time.Since(start).Milliseconds())
			return nil
		}
	}

	c.logger.Warn("Поиск погоды не удался", "city", city, "error", err)
	c.showError(err)
	return err
}

func (c *Controller) render(v model.WeatherView) {
	c.mu.Lock()
	defer c.mu.Unlock()

	texts := map[string]string{
		IDCityName:    v.CityName,
		IDCountry:     v.Country,
		IDTemperature: v.Temperature,
		IDDescription: v.Description,
		IDFeelsLike:   v.FeelsLike,
		IDTempRange:   v.TempRange,
		IDWeatherIcon: v.Icon,
		IDHumidity:    v.Humidity,
		IDWindSpeed:   v.WindSpeed,
		IDPressure:    v.Pressure,
		IDVisibility:  v.Visibility,
	}
	for id, text := range texts {
		c.els[id].SetText(text)
	}

	bg := c.els[IDBackground]
	bg.RemoveClass(Themes...)
	bg.AddClass(v.Theme)

	c.display.set(PhaseWeather)
}

// showError показывает сообщение и сам планирует его скрытие.
// Отложенное скрытие не отменяется и трогает только фазу ошибки.
func (c *Controller) showError(err error) {
	c.mu.Lock()
	c.els[IDErrorMessage].SetText(UserMessage(err))
	c.display.set(PhaseError)
	c.mu.Unlock()

	c.clock.AfterFunc(c.timeout, c.dismissError)
}

func (c *Controller) dismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.display.phase == PhaseError {
		c.display.set(PhaseIdle)
	}
}
