package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gometeo/widget/internal/api/handlers"
	"github.com/gometeo/widget/internal/cache"
	"github.com/gometeo/widget/internal/config"
	"github.com/gometeo/widget/internal/events"
	"github.com/gometeo/widget/internal/storage"
	"github.com/gometeo/widget/internal/weather"
	"github.com/gometeo/widget/internal/widget"
)

func main() {
	// Загрузка конфигурации и логирование
	cfg := config.Load()
	logger := config.NewLogger(cfg)
	logger.Info("Запуск Weather Widget сервиса...")
	logger.Info("Конфигурация загружена",
		"port", cfg.HTTPPort,
		"redis", cfg.RedisAddr,
		"kafka", cfg.KafkaBrokers,
		"cache_ttl", cfg.CacheTTL,
		"api_key_set", cfg.APIKey != "")

	if cfg.APIKey == "" {
		logger.Warn("OPENWEATHER_API_KEY не задан, поиск будет показывать ошибку конфигурации")
	}

	// 1. Страница виджета: без обязательных элементов запускаться нельзя
	page, err := handlers.LoadPage()
	if err != nil {
		logger.Error("Страница виджета повреждена", "error", err)
		os.Exit(1)
	}

	// 2. Провайдер погоды и цепочка источников: кэш -> публикация -> HTTP
	client := weather.NewClient(cfg.WeatherURL, cfg.APIKey, cfg.WeatherTimeout, logger)
	var fetcher widget.Fetcher = client

	producer, err := events.NewProducer(cfg.KafkaBrokers)
	if err != nil {
		logger.Warn("Kafka недоступна, наблюдения не публикуются", "error", err)
	} else {
		publisher := events.NewPublisher(producer, cfg.KafkaTopic, logger)
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Error("Ошибка при закрытии продюсера", "error", err)
			}
		}()
		fetcher = events.NewPublishingFetcher(fetcher, publisher, weather.Provider, logger)
		logger.Info("Успешное подключение к Kafka")
	}

	var redisCache *cache.WeatherCache
	if cfg.CacheTTL > 0 {
		redisCache, err = cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL, logger)
		if err != nil {
			logger.Warn("Redis недоступен, работаем без кэша", "error", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
			fetcher = cache.NewFetcher(fetcher, redisCache, logger)
		}
	}

	// 3. История наблюдений в Postgres (пишет агрегатор)
	var history handlers.History
	store, err := storage.New(cfg.DBDSN, logger)
	if err != nil {
		logger.Warn("Postgres недоступен, история отключена", "error", err)
	} else {
		defer store.Close()
		history = store
		logger.Info("Успешное подключение к Postgres")
	}

	// 4. Маршрутизатор
	weatherHandler := handlers.NewWeatherHandler(fetcher, cfg.APIKey, history, logger)
	if store != nil {
		weatherHandler.AddCheck("database", store)
	}
	if redisCache != nil {
		weatherHandler.AddCheck("redis", redisCache)
	}
	sessionHandler := handlers.NewSessionHandler(page, fetcher, cfg.APIKey, cfg.ErrorDismiss, logger)
	router := handlers.NewRouter(page, sessionHandler, weatherHandler, logger)

	// 5. Настройка HTTP сервера
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 6. Graceful shutdown
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("Сервер запущен", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Ошибка сервера", "error", err)
		}
	}()

	// Ожидание сигнала завершения
	<-stopChan
	logger.Info("Получен сигнал завершения...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Ошибка при остановке сервера", "error", err)
	} else {
		logger.Info("Сервер остановлен")
	}
}
