package widget

import (
	"errors"
	"math"
	"strconv"

	"github.com/gometeo/widget/internal/model"
)

// ErrNoConditions - успешный ответ без списка условий погоды
var ErrNoConditions = errors.New("weather payload has no conditions")

// Project переводит ответ провайдера в строки для отображения
func Project(resp *model.WeatherResponse) (model.WeatherView, error) {
	if resp == nil || len(resp.Weather) == 0 {
		return model.WeatherView{}, ErrNoConditions
	}
	cond := resp.Weather[0]

	return model.WeatherView{
		CityName:    resp.Name,
		Country:     resp.Sys.Country,
		Temperature: degrees(resp.Main.Temp),
		Description: cond.Description,
		FeelsLike:   degrees(resp.Main.FeelsLike),
		TempRange:   degrees(resp.Main.TempMax) + " / " + degrees(resp.Main.TempMin),
		Icon:        IconFor(cond.Main),
		Humidity:    strconv.Itoa(round(resp.Main.Humidity)) + "%",
		WindSpeed:   strconv.Itoa(round(resp.Wind.Speed*3.6)) + " km/h",
		Pressure:    strconv.Itoa(round(resp.Main.Pressure)) + " hPa",
		Visibility:  kilometres(resp.Visibility) + " km",
		Theme:       ThemeFor(cond.Main),
	}, nil
}

// round - половина округляется вверх: 21.5 -> 22, -2.5 -> -2
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// kilometres - метры в километры с одним знаком, половина вверх: 1250 -> "1.3"
func kilometres(metres float64) string {
	tenths := math.Floor(metres/100 + 0.5)
	return strconv.FormatFloat(tenths/10, 'f', 1, 64)
}

func degrees(v float64) string {
	return strconv.Itoa(round(v)) + "°"
}
