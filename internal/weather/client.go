package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gometeo/widget/internal/model"
)

const Provider = "OpenWeatherMap"

var (
	ErrCityNotFound   = errors.New("city not found")
	ErrInvalidAPIKey  = errors.New("invalid api key")
	ErrUpstream       = errors.New("weather provider unavailable")
	ErrInvalidPayload = errors.New("invalid weather payload")
)

// StatusError - неуспешный HTTP статус, отличный от 404/401
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("weather API error (status %d): %s", e.Code, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrUpstream }

// Client клиент для текущей погоды по названию города
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Current выполняет один GET запрос: q=<город>, units=metric, appid=<ключ>
func (c *Client) Current(ctx context.Context, city string) (*model.WeatherResponse, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("неверный адрес провайдера: %w", err)
	}
	q := u.Query()
	q.Set("q", city)
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Ответ провайдера погоды",
		"city", city,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrCityNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrInvalidAPIKey
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var data model.WeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	return &data, nil
}
