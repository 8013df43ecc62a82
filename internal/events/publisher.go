package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/IBM/sarama"
	"github.com/gometeo/widget/internal/model"
)

// Publisher отправляет наблюдения в Kafka
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
}

// NewProducer создаёт синхронного продюсера, который ждёт подтверждения записи от всех реплик
func NewProducer(brokers []string) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к Kafka: %w", err)
	}
	return producer, nil
}

func NewPublisher(producer sarama.SyncProducer, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{producer: producer, topic: topic, logger: logger}
}

// Publish отправляет наблюдение; ключ сообщения - город, чтобы данные города шли в одну партицию
func (p *Publisher) Publish(ctx context.Context, obs model.Observation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bytes, err := json.Marshal(obs)
	if err != nil {
		return fmt.Errorf("ошибка сериализации: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strings.ToLower(obs.City)),
		Value: sarama.ByteEncoder(bytes),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("не удалось отправить сообщение: %w", err)
	}

	p.logger.Debug("Наблюдение отправлено",
		"city", obs.City,
		"temp", obs.Temp,
		"partition", partition,
		"offset", offset)
	return nil
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}
