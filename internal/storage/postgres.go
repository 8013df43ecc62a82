package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gometeo/widget/internal/model"
	_ "github.com/jackc/pgx/v5/stdlib" // Регистрируем драйвер pgx
)

// ErrNotFound - по городу ещё нет наблюдений
var ErrNotFound = errors.New("city not found")

type WeatherStorage struct {
	db     *sql.DB
	logger *slog.Logger
}

func New(dsn string, logger *slog.Logger) (*WeatherStorage, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия БД: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	// Автоматическая миграция (создание таблицы) для простоты
	query := `
	CREATE TABLE IF NOT EXISTS weather (
		city VARCHAR(100) PRIMARY KEY,
		country VARCHAR(8),
		temp DOUBLE PRECISION,
		condition VARCHAR(64),
		description VARCHAR(255),
		humidity DOUBLE PRECISION,
		wind_speed DOUBLE PRECISION,
		provider VARCHAR(100),
		observed_at TIMESTAMP,
		updated_at TIMESTAMP
	);`

	if _, err := db.ExecContext(ctx, query); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка создания таблицы: %w", err)
	}

	return &WeatherStorage{db: db, logger: logger}, nil
}

func (s *WeatherStorage) Close() {
	s.db.Close()
}

func (s *WeatherStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Save обновляет последнее наблюдение по городу или создает новую запись (Upsert)
func (s *WeatherStorage) Save(ctx context.Context, data model.Observation) error {
	query := `
		INSERT INTO weather (city, country, temp, condition, description, humidity, wind_speed, provider, observed_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (city) DO UPDATE
		SET country = EXCLUDED.country,
			temp = EXCLUDED.temp,
			condition = EXCLUDED.condition,
			description = EXCLUDED.description,
			humidity = EXCLUDED.humidity,
			wind_speed = EXCLUDED.wind_speed,
			provider = EXCLUDED.provider,
			observed_at = EXCLUDED.observed_at,
			updated_at = EXCLUDED.updated_at;
	`

	_, err := s.db.ExecContext(ctx, query,
		cityKey(data.City),
		data.Country,
		data.Temp,
		data.Condition,
		data.Description,
		data.Humidity,
		data.WindSpeed,
		data.Provider,
		data.Timestamp,
		time.Now(), // Записываем время сохранения
	)

	if err != nil {
		return fmt.Errorf("ошибка сохранения погоды для %s: %w", data.City, err)
	}

	return nil
}

// GetByCity возвращает последнее наблюдение по городу
func (s *WeatherStorage) GetByCity(ctx context.Context, city string) (*model.Observation, error) {
	query := `
		SELECT city, country, temp, condition, description, humidity, wind_speed, provider, observed_at
		FROM weather WHERE city = $1;
	`

	var data model.Observation
	err := s.db.QueryRowContext(ctx, query, cityKey(city)).Scan(
		&data.City,
		&data.Country,
		&data.Temp,
		&data.Condition,
		&data.Description,
		&data.Humidity,
		&data.WindSpeed,
		&data.Provider,
		&data.Timestamp,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения погоды для %s: %w", city, err)
	}

	return &data, nil
}

// GetAllCities возвращает города, начиная с недавно обновлённых
func (s *WeatherStorage) GetAllCities(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT city FROM weather ORDER BY updated_at DESC;`)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения списка городов: %w", err)
	}
	defer rows.Close()

	cities := make([]string, 0)
	for rows.Next() {
		var city string
		if err := rows.Scan(&city); err != nil {
			return nil, fmt.Errorf("ошибка чтения строки: %w", err)
		}
		cities = append(cities, city)
	}
	return cities, rows.Err()
}

func cityKey(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}
