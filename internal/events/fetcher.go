package events

import (
	"context"
	"log/slog"

	"github.com/gometeo/widget/internal/model"
)

// ObservationPublisher - получатель наблюдений
type ObservationPublisher interface {
	Publish(ctx context.Context, obs model.Observation) error
}

// Source - провайдер погоды
type Source interface {
	Current(ctx context.Context, city string) (*model.WeatherResponse, error)
}

// PublishingFetcher после каждого удачного поиска отправляет наблюдение.
// Ошибки отправки только логируются, пользователь их не видит.
type PublishingFetcher struct {
	next      Source
	publisher ObservationPublisher
	provider  string
	logger    *slog.Logger
}

func NewPublishingFetcher(next Source, publisher ObservationPublisher, provider string, logger *slog.Logger) *PublishingFetcher {
	return &PublishingFetcher{next: next, publisher: publisher, provider: provider, logger: logger}
}

func (f *PublishingFetcher) Current(ctx context.Context, city string) (*model.WeatherResponse, error) {
	resp, err := f.next.Current(ctx, city)
	if err != nil {
		return nil, err
	}

	if obs, ok := model.NewObservation(resp, f.provider); ok {
		if err := f.publisher.Publish(ctx, obs); err != nil {
			f.logger.Error("Не удалось отправить наблюдение", "city", obs.City, "error", err)
		}
	}
	return resp, nil
}
