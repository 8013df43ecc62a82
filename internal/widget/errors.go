package widget

import (
	"context"
	"errors"
	"strings"

	"github.com/gometeo/widget/internal/model"
	"github.com/gometeo/widget/internal/weather"
)

var (
	ErrEmptyQuery    = errors.New("empty city query")
	ErrNotConfigured = errors.New("weather api key is not configured")
)

// Сообщения для пользователя
const (
	MsgNotConfigured = "API key is not configured. Please set your OpenWeatherMap API key."
	MsgCityNotFound  = "City not found. Please check the spelling and try again."
	MsgInvalidKey    = "Invalid API key. Please check your configuration."
	MsgInvalidData   = "Invalid weather data received. Please try again."
	MsgFetchFailed   = "Failed to fetch weather data. Please try again later."
)

// Fetcher - источник текущей погоды по названию города
type Fetcher interface {
	Current(ctx context.Context, city string) (*model.WeatherResponse, error)
}

// UserMessage переводит любую ошибку поиска в одно сообщение для пользователя
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotConfigured):
		return MsgNotConfigured
	case errors.Is(err, weather.ErrCityNotFound):
		return MsgCityNotFound
	case errors.Is(err, weather.ErrInvalidAPIKey):
		return MsgInvalidKey
	case errors.Is(err, ErrNoConditions), errors.Is(err, weather.ErrInvalidPayload):
		return MsgInvalidData
	default:
		return MsgFetchFailed
	}
}

// Lookup - тот же конвейер, что и у контроллера, но без поверхности отображения
func Lookup(ctx context.Context, fetcher Fetcher, apiKey, city string) (model.WeatherView, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return model.WeatherView{}, ErrEmptyQuery
	}
	if apiKey == "" {
		return model.WeatherView{}, ErrNotConfigured
	}

	resp, err := fetcher.Current(ctx, city)
	if err != nil {
		return model.WeatherView{}, err
	}
	return Project(resp)
}
