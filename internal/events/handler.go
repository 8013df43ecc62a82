package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/IBM/sarama"
	"github.com/gometeo/widget/internal/model"
)

// ObservationStore - куда агрегатор сохраняет наблюдения
type ObservationStore interface {
	Save(ctx context.Context, data model.Observation) error
}

// Handler читает наблюдения из Kafka и пишет их в базу
type Handler struct {
	logger *slog.Logger
	store  ObservationStore
}

func NewHandler(store ObservationStore, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, store: store}
}

func (h *Handler) Setup(_ sarama.ConsumerGroupSession) error   { return nil }
func (h *Handler) Cleanup(_ sarama.ConsumerGroupSession) error { return nil }

func (h *Handler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var data model.Observation
		if err := json.Unmarshal(msg.Value, &data); err != nil {
			// Битое сообщение не исправится при повторе, помечаем и идём дальше
			h.logger.Error("Битый JSON", "offset", msg.Offset, "error", err)
			sess.MarkMessage(msg, "")
			continue
		}

		// Используем контекст сессии, чтобы отменить запись, если Kafka отвалилась
		if err := h.store.Save(sess.Context(), data); err != nil {
			// Если БД лежит, не помечаем сообщение как прочитанное,
			// чтобы Kafka отдала его нам снова позже.
			h.logger.Error("Ошибка записи в БД", "city", data.City, "error", err)
			continue
		}

		h.logger.Info("Данные сохранены в БД",
			"city", data.City,
			"temp", data.Temp)

		sess.MarkMessage(msg, "")
	}
	return nil
}
