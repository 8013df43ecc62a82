package model

import "time"

// WeatherResponse - ответ провайдера "текущая погода по городу"
type WeatherResponse struct {
	Name       string      `json:"name"`
	Dt         int64       `json:"dt"`
	Visibility float64     `json:"visibility"`
	Main       MainBlock   `json:"main"`
	Weather    []Condition `json:"weather"`
	Wind       Wind        `json:"wind"`
	Sys        Sys         `json:"sys"`
}

type MainBlock struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Humidity  float64 `json:"humidity"`
	Pressure  float64 `json:"pressure"`
}

// Condition - категория погоды ("Rain", "Clear", ...) и её описание
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type Wind struct {
	Speed float64 `json:"speed"` // м/с
	Deg   float64 `json:"deg"`
}

type Sys struct {
	Country string `json:"country"`
	Sunrise int64  `json:"sunrise"`
	Sunset  int64  `json:"sunset"`
}

// WeatherView - готовые к отображению строки для одного успешного поиска
type WeatherView struct {
	CityName    string `json:"city_name"`
	Country     string `json:"country"`
	Temperature string `json:"temperature"`
	Description string `json:"description"`
	FeelsLike   string `json:"feels_like"`
	TempRange   string `json:"temp_range"`
	Icon        string `json:"icon"`
	Humidity    string `json:"humidity"`
	WindSpeed   string `json:"wind_speed"`
	Pressure    string `json:"pressure"`
	Visibility  string `json:"visibility"`
	Theme       string `json:"theme"`
}

// Observation - структура, которая летает через Kafka и хранится в Postgres
type Observation struct {
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Temp        float64   `json:"temperature"`
	Condition   string    `json:"condition"`
	Description string    `json:"description"`
	Humidity    float64   `json:"humidity"`
	WindSpeed   float64   `json:"wind_speed"`
	Provider    string    `json:"provider"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewObservation собирает Observation из ответа провайдера.
// Ответ без условий погоды не даёт наблюдения.
func NewObservation(resp *WeatherResponse, provider string) (Observation, bool) {
	if resp == nil || len(resp.Weather) == 0 {
		return Observation{}, false
	}

	ts := time.Now().UTC()
	if resp.Dt > 0 {
		ts = time.Unix(resp.Dt, 0).UTC()
	}

	return Observation{
		City:        resp.Name,
		Country:     resp.Sys.Country,
		Temp:        resp.Main.Temp,
		Condition:   resp.Weather[0].Main,
		Description: resp.Weather[0].Description,
		Humidity:    resp.Main.Humidity,
		WindSpeed:   resp.Wind.Speed,
		Provider:    provider,
		Timestamp:   ts,
	}, true
}

type CitiesResponse struct {
	Cities []string `json:"cities"`
	Total  int      `json:"total"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
