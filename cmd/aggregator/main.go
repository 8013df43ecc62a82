package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/IBM/sarama"

	"github.com/gometeo/widget/internal/config"
	"github.com/gometeo/widget/internal/events"
	"github.com/gometeo/widget/internal/storage"
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger(cfg)
	logger.Info("Запуск Weather Aggregator...")

	// 1. Подключение к Postgres
	var store *storage.WeatherStorage
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		store, err = storage.New(cfg.DBDSN, logger)
		if err == nil {
			break
		}
		logger.Warn("Не удалось подключиться к БД. Повторная попытка через 3с...",
			"попытка", i+1, "всего", maxRetries, "error", err)
		time.Sleep(3 * time.Second)
	}

	if store == nil {
		logger.Error("Не удалось подключиться к БД после всех попыток. Выход.", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("Успешное подключение к Postgres")

	// 2. Настройка Kafka Consumer
	config := sarama.NewConfig()
	config.Consumer.Return.Errors = true
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	consumer, err := sarama.NewConsumerGroup(cfg.KafkaBrokers, cfg.ConsumerGroup, config)
	if err != nil {
		logger.Error("Ошибка создания Kafka consumer", "error", err)
		os.Exit(1)
	}

	// 3. Запуск цикла чтения
	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	wg.Add(2)

	go func() {
		defer wg.Done()
		handler := events.NewHandler(store, logger)
		for {
			if err := consumer.Consume(ctx, []string{cfg.KafkaTopic}, handler); err != nil {
				logger.Error("Ошибка при чтении Kafka", "error", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	go func() {
		defer wg.Done()
		for {
			select {
			case err, ok := <-consumer.Errors():
				if !ok {
					return
				}
				logger.Error("Ошибка consumer group", "error", err)
			case <-ctx.Done():
				return
			}
		}
	}()

	// 4. Graceful Shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Остановка сервиса...")
	cancel()
	wg.Wait()
	if err := consumer.Close(); err != nil {
		logger.Error("Ошибка при закрытии consumer", "error", err)
	}
}
