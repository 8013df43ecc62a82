package widget

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gometeo/widget/internal/model"
	"github.com/gometeo/widget/internal/view"
	"github.com/gometeo/widget/internal/weather"
)

// manualClock выполняет отложенные функции только при Advance
type manualClock struct {
	mu      sync.Mutex
	now     time.Duration
	pending []scheduled
}

type scheduled struct {
	at time.Duration
	fn func()
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, scheduled{at: c.now + d, fn: f})
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []func()
	rest := c.pending[:0]
	for _, s := range c.pending {
		if s.at <= c.now {
			due = append(due, s.fn)
		} else {
			rest = append(rest, s)
		}
	}
	c.pending = rest
	c.mu.Unlock()

	for _, fn := range due {
		fn()
	}
}

type fakeFetcher struct {
	mu    sync.Mutex
	resp  *model.WeatherResponse
	err   error
	calls []string
}

func (f *fakeFetcher) Current(_ context.Context, city string) (*model.WeatherResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, city)
	return f.resp, f.err
}

type fixture struct {
	doc     *view.Document
	fetcher *fakeFetcher
	clock   *manualClock
	ctrl    *Controller
}

func newFixture(t *testing.T, apiKey string) *fixture {
	t.Helper()
	f := &fixture{
		doc:     view.NewDocument(ElementIDs...),
		fetcher: &fakeFetcher{},
		clock:   &manualClock{},
	}
	ctrl, err := New(f.doc, f.fetcher, Options{APIKey: apiKey, Clock: f.clock})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	f.ctrl = ctrl
	return f
}

func (f *fixture) el(id string) view.Element {
	el, _ := f.doc.Element(id)
	return el
}

func (f *fixture) typeCity(city string) {
	f.el(IDCityInput).SetValue(city)
}

// visiblePanels возвращает количество видимых панелей из трёх
func (f *fixture) visiblePanels() int {
	n := 0
	for _, id := range []string{IDLoadingSpinner, IDWeatherContainer, IDErrorContainer} {
		if view.Visible(f.el(id)) {
			n++
		}
	}
	return n
}

func TestNewFailsOnMissingElements(t *testing.T) {
	doc := view.NewDocument(IDCityInput, IDSearchBtn)

	ctrl, err := New(doc, &fakeFetcher{}, Options{APIKey: "k"})
	if !errors.Is(err, ErrMissingElement) {
		t.Fatalf("expected ErrMissingElement, got %v", err)
	}
	if ctrl != nil {
		t.Fatal("controller must not be returned on failure")
	}
	if !strings.Contains(err.Error(), IDWeatherContainer) {
		t.Fatalf("expected missing id in error, got %v", err)
	}
}

func TestNewStartsIdle(t *testing.T) {
	f := newFixture(t, "k")
	if f.ctrl.Phase() != PhaseIdle || f.visiblePanels() != 0 {
		t.Fatalf("expected idle with no panels, got %v / %d", f.ctrl.Phase(), f.visiblePanels())
	}
}

func TestWhitespaceInputIsIgnored(t *testing.T) {
	for _, input := range []string{"", " ", "\t\n  "} {
		f := newFixture(t, "k")
		f.typeCity(input)

		f.ctrl.HandleEvent(context.Background(), Event{Kind: EventClick, Target: IDSearchBtn})

		if len(f.fetcher.calls) != 0 {
			t.Fatalf("input %q: request must not be issued", input)
		}
		if view.Visible(f.el(IDErrorContainer)) || f.el(IDErrorMessage).Text() != "" {
			t.Fatalf("input %q: no error must be shown", input)
		}
		if err := f.ctrl.Search(context.Background()); !errors.Is(err, ErrEmptyQuery) {
			t.Fatalf("input %q: expected ErrEmptyQuery, got %v", input, err)
		}
	}
}

func TestEventsThatStartSearch(t *testing.T) {
	f := newFixture(t, "k")
	f.fetcher.resp = sampleResponse("Clear", 10)
	f.typeCity("  Oslo ")
	ctx := context.Background()

	f.ctrl.HandleEvent(ctx, Event{Kind: EventKey, Target: IDCityInput, Key: "a"})
	f.ctrl.HandleEvent(ctx, Event{Kind: EventClick, Target: IDCityName})
	f.ctrl.HandleEvent(ctx, Event{Kind: EventKey, Target: IDSearchBtn, Key: KeyEnter})
	if len(f.fetcher.calls) != 0 {
		t.Fatalf("unexpected requests: %v", f.fetcher.calls)
	}

	f.ctrl.HandleEvent(ctx, Event{Kind: EventKey, Target: IDCityInput, Key: KeyEnter})
	f.ctrl.HandleEvent(ctx, Event{Kind: EventClick, Target: IDSearchBtn})
	if len(f.fetcher.calls) != 2 || f.fetcher.calls[0] != "Oslo" {
		t.Fatalf("expected two trimmed requests, got %v", f.fetcher.calls)
	}
}

func TestTriggerCapturesInputAtEventTime(t *testing.T) {
	f := newFixture(t, "k")
	f.fetcher.err = weather.ErrCityNotFound

	f.typeCity("London")
	first, ok := f.ctrl.Trigger(Event{Kind: EventClick, Target: IDSearchBtn})
	if !ok {
		t.Fatal("click on search button must trigger")
	}
	f.typeCity("Paris")
	second, _ := f.ctrl.Trigger(Event{Kind: EventKey, Target: IDCityInput, Key: KeyEnter})

	if _, ok := f.ctrl.Trigger(Event{Kind: EventClick, Target: IDCityName}); ok {
		t.Fatal("click outside the button must not trigger")
	}

	// Поиски выполняются после того, как поле уже изменилось
	ctx := context.Background()
	f.ctrl.SearchCity(ctx, second)
	f.ctrl.SearchCity(ctx, first)

	if len(f.fetcher.calls) != 2 || f.fetcher.calls[0] != "Paris" || f.fetcher.calls[1] != "London" {
		t.Fatalf("expected [Paris London], got %v", f.fetcher.calls)
	}
}

func TestSearchSuccessEndToEnd(t *testing.T) {
	f := newFixture(t, "k")
	f.fetcher.resp = sampleResponse("Clear", 15.4)
	f.typeCity("London")

	if err := f.ctrl.Search(context.Background()); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if got := f.el(IDTemperature).Text(); got != "15°" {
		t.Fatalf("temperature = %q", got)
	}
	if got := f.el(IDWeatherIcon).Text(); got != "☀️" {
		t.Fatalf("icon = %q", got)
	}
	if got := f.el(IDTempRange).Text(); got != "18° / 12°" {
		t.Fatalf("range = %q", got)
	}
	if got := f.el(IDCityName).Text() + "," + f.el(IDCountry).Text(); got != "London,GB" {
		t.Fatalf("city = %q", got)
	}
	if !view.HasOnly(f.el(IDBackground), ThemeClear, Themes) {
		t.Fatalf("expected only clear theme, got %v", f.el(IDBackground).Classes())
	}
	if !view.Visible(f.el(IDWeatherContainer)) || view.Visible(f.el(IDErrorContainer)) || view.Visible(f.el(IDLoadingSpinner)) {
		t.Fatal("expected only the weather panel visible")
	}
	if f.ctrl.Phase() != PhaseWeather {
		t.Fatalf("phase = %v", f.ctrl.Phase())
	}
}

func TestThemeReplacedOnEverySearch(t *testing.T) {
	f := newFixture(t, "k")
	f.typeCity("Anywhere")
	bg := f.el(IDBackground)
	bg.AddClass("layout")

	for _, label := range []string{"Rain", "Tornado", "Snow", "Unknown", "Drizzle"} {
		f.fetcher.resp = sampleResponse(label, 1)
		if err := f.ctrl.Search(context.Background()); err != nil {
			t.Fatalf("%s: %v", label, err)
		}
		if !view.HasOnly(bg, ThemeFor(label), Themes) {
			t.Fatalf("%s: expected exactly one theme %q, got %v", label, ThemeFor(label), bg.Classes())
		}
	}
	if !bg.HasClass("layout") {
		t.Fatal("non-theme classes must be kept")
	}
}

func TestSearchNotFoundThenDismiss(t *testing.T) {
	f := newFixture(t, "k")
	f.fetcher.err = weather.ErrCityNotFound
	f.typeCity("Qwxyz")

	err := f.ctrl.Search(context.Background())
	if !errors.Is(err, weather.ErrCityNotFound) {
		t.Fatalf("expected ErrCityNotFound, got %v", err)
	}

	msg := f.el(IDErrorMessage).Text()
	if !strings.HasPrefix(msg, "City not found") || !strings.Contains(msg, "not found") {
		t.Fatalf("unexpected message %q", msg)
	}
	if !view.Visible(f.el(IDErrorContainer)) || view.Visible(f.el(IDWeatherContainer)) || view.Visible(f.el(IDLoadingSpinner)) {
		t.Fatal("expected only the error panel visible")
	}

	f.clock.Advance(4 * time.Second)
	if !view.Visible(f.el(IDErrorContainer)) {
		t.Fatal("error dismissed too early")
	}
	f.clock.Advance(time.Second)
	if view.Visible(f.el(IDErrorContainer)) || view.Visible(f.el(IDWeatherContainer)) {
		t.Fatal("expected error panel hidden after 5s, weather still hidden")
	}
	if f.ctrl.Phase() != PhaseIdle {
		t.Fatalf("phase = %v", f.ctrl.Phase())
	}
}

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		name   string
		resp   *model.WeatherResponse
		err    error
		substr string
	}{
		{"auth", nil, weather.ErrInvalidAPIKey, "API key"},
		{"status", nil, &weather.StatusError{Code: 500}, "Failed to fetch"},
		{"network", nil, weather.ErrUpstream, "Failed to fetch"},
		{"other", nil, errors.New("boom"), "Failed to fetch"},
		{"malformed", nil, weather.ErrInvalidPayload, "Invalid weather data"},
		{"empty conditions", &model.WeatherResponse{Name: "X"}, nil, "Invalid weather data"},
	}

	for _, tc := range cases {
		f := newFixture(t, "k")
		f.fetcher.resp, f.fetcher.err = tc.resp, tc.err
		f.typeCity("Paris")

		if err := f.ctrl.Search(context.Background()); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if msg := f.el(IDErrorMessage).Text(); !strings.Contains(msg, tc.substr) {
			t.Errorf("%s: message %q does not contain %q", tc.name, msg, tc.substr)
		}
		if f.el(IDTemperature).Text() != "" {
			t.Errorf("%s: weather fields must stay empty", tc.name)
		}
		if f.visiblePanels() != 1 || view.Visible(f.el(IDLoadingSpinner)) {
			t.Errorf("%s: expected only the error panel", tc.name)
		}
	}
}

func TestMissingAPIKeySkipsRequest(t *testing.T) {
	f := newFixture(t, "")
	f.typeCity("Berlin")

	err := f.ctrl.Search(context.Background())
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if len(f.fetcher.calls) != 0 {
		t.Fatal("request must not be issued without API key")
	}
	if msg := f.el(IDErrorMessage).Text(); !strings.Contains(msg, "API key") {
		t.Fatalf("unexpected message %q", msg)
	}
}

// blockingFetcher держит запрос до сигнала, чтобы проверить состояние загрузки
type blockingFetcher struct {
	started chan struct{}
	release chan struct{}
	resp    *model.WeatherResponse
}

func (b *blockingFetcher) Current(ctx context.Context, _ string) (*model.WeatherResponse, error) {
	close(b.started)
	<-b.release
	return b.resp, nil
}

func TestLoadingHidesStaleWeather(t *testing.T) {
	f := newFixture(t, "k")
	f.fetcher.resp = sampleResponse("Rain", 8)
	f.typeCity("Leeds")
	if err := f.ctrl.Search(context.Background()); err != nil {
		t.Fatal(err)
	}

	bf := &blockingFetcher{started: make(chan struct{}), release: make(chan struct{}), resp: sampleResponse("Snow", -3)}
	f.ctrl.fetcher = bf

	done := make(chan error, 1)
	go func() { done <- f.ctrl.Search(context.Background()) }()
	<-bf.started

	if f.ctrl.Phase() != PhaseLoading || !view.Visible(f.el(IDLoadingSpinner)) || f.visiblePanels() != 1 {
		t.Fatal("expected only the spinner while loading")
	}

	close(bf.release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if f.el(IDTemperature).Text() != "-3°" || view.Visible(f.el(IDLoadingSpinner)) {
		t.Fatal("expected new weather after loading")
	}
}

func TestStaleDismissDoesNotHideWeather(t *testing.T) {
	f := newFixture(t, "k")
	f.typeCity("Rome")

	f.fetcher.err = weather.ErrUpstream
	_ = f.ctrl.Search(context.Background())

	f.fetcher.err = nil
	f.fetcher.resp = sampleResponse("Clear", 25)
	if err := f.ctrl.Search(context.Background()); err != nil {
		t.Fatal(err)
	}

	f.clock.Advance(5 * time.Second)
	if !view.Visible(f.el(IDWeatherContainer)) || f.ctrl.Phase() != PhaseWeather {
		t.Fatal("earlier error dismissal must not hide fresh weather")
	}
}
