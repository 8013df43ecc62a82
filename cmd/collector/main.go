package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gometeo/widget/internal/config"
	"github.com/gometeo/widget/internal/events"
	"github.com/gometeo/widget/internal/model"
	"github.com/gometeo/widget/internal/weather"
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger(cfg)
	logger.Info("Запуск Weather Collector...",
		"cities", cfg.CollectCities,
		"interval", cfg.CollectInterval)

	if cfg.APIKey == "" {
		logger.Error("OPENWEATHER_API_KEY не задан, собирать нечего")
		os.Exit(1)
	}

	// 1. Настройка Kafka Producer
	producer, err := events.NewProducer(cfg.KafkaBrokers)
	if err != nil {
		logger.Error("Ошибка подключения к Kafka", "error", err)
		os.Exit(1)
	}
	publisher := events.NewPublisher(producer, cfg.KafkaTopic, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Ошибка при закрытии продюсера", "error", err)
		}
	}()

	client := weather.NewClient(cfg.WeatherURL, cfg.APIKey, cfg.WeatherTimeout, logger)

	// 2. Контекст для Graceful Shutdown (Ctrl+C)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Тикер вместо CRON
	ticker := time.NewTicker(cfg.CollectInterval)
	defer ticker.Stop()

	logger.Info("Начинаем сбор данных...")
	collect(ctx, client, publisher, cfg.CollectCities, logger)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Получен сигнал завершения. Остановка...")
			return
		case <-ticker.C:
			collect(ctx, client, publisher, cfg.CollectCities, logger)
		}
	}
}

// collect опрашивает провайдера по каждому городу и отправляет наблюдения в Kafka
func collect(ctx context.Context, client *weather.Client, publisher *events.Publisher, cities []string, logger *slog.Logger) {
	for _, city := range cities {
		if ctx.Err() != nil {
			return
		}

		resp, err := client.Current(ctx, city)
		if err != nil {
			logger.Error("Не удалось получить погоду", "city", city, "error", err)
			continue
		}

		obs, ok := model.NewObservation(resp, weather.Provider)
		if !ok {
			logger.Warn("Ответ без условий погоды", "city", city)
			continue
		}

		if err := publisher.Publish(ctx, obs); err != nil {
			logger.Error("Не удалось отправить сообщение", "city", city, "error", err)
			continue
		}

		logger.Info("Погода отправлена",
			"city", obs.City,
			"temp", int(obs.Temp),
			"condition", obs.Condition)
	}
}
