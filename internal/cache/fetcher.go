package cache

import (
	"context"
	"log/slog"

	"github.com/gometeo/widget/internal/model"
)

// Store - то, что нужно кэширующему источнику от хранилища
type Store interface {
	Get(ctx context.Context, key string) (*model.WeatherResponse, error)
	Set(ctx context.Context, key string, data *model.WeatherResponse) error
}

// Source - провайдер погоды за кэшем
type Source interface {
	Current(ctx context.Context, city string) (*model.WeatherResponse, error)
}

// Fetcher отдаёт погоду из кэша, а при промахе идёт к провайдеру.
// Ошибки кэша не критичны: запрос просто уходит дальше.
type Fetcher struct {
	next   Source
	store  Store
	logger *slog.Logger
}

func NewFetcher(next Source, store Store, logger *slog.Logger) *Fetcher {
	return &Fetcher{next: next, store: store, logger: logger}
}

func (f *Fetcher) Current(ctx context.Context, city string) (*model.WeatherResponse, error) {
	key := CityKey(city)

	cached, err := f.store.Get(ctx, key)
	if err != nil {
		f.logger.Error("Ошибка чтения из кэша", "city", city, "error", err)
	}
	if cached != nil {
		f.logger.Debug("Данные из кэша", "city", city)
		return cached, nil
	}

	resp, err := f.next.Current(ctx, city)
	if err != nil {
		return nil, err
	}

	// Ответ без условий погоды не кэшируем
	if len(resp.Weather) > 0 {
		if err := f.store.Set(ctx, key, resp); err != nil {
			f.logger.Warn("Не удалось сохранить в кэш", "city", city, "error", err)
		}
	}
	return resp, nil
}
