package widget

// Классы темы фона
const (
	ThemeClear        = "clear"
	ThemeClouds       = "clouds"
	ThemeRain         = "rain"
	ThemeThunderstorm = "thunderstorm"
	ThemeSnow         = "snow"
)

// Themes - все классы темы; перед установкой новой снимаются все
var Themes = []string{ThemeClear, ThemeClouds, ThemeRain, ThemeThunderstorm, ThemeSnow}

// Неизвестная категория получает значок и тему "Clear".
var icons = map[string]string{
	"Clear":        "☀️",
	"Clouds":       "☁️",
	"Rain":         "🌧️",
	"Drizzle":      "🌦️",
	"Thunderstorm": "⛈️",
	"Snow":         "❄️",
	"Mist":         "🌫️",
	"Smoke":        "🌫️",
	"Haze":         "🌫️",
	"Dust":         "🌪️",
	"Fog":          "🌫️",
	"Sand":         "🌪️",
	"Ash":          "🌋",
	"Squall":       "💨",
	"Tornado":      "🌪️",
}

var themes = map[string]string{
	"Clear":        ThemeClear,
	"Clouds":       ThemeClouds,
	"Rain":         ThemeRain,
	"Drizzle":      ThemeRain,
	"Thunderstorm": ThemeThunderstorm,
	"Snow":         ThemeSnow,
	"Mist":         ThemeClouds,
	"Smoke":        ThemeClouds,
	"Haze":         ThemeClouds,
	"Dust":         ThemeClouds,
	"Fog":          ThemeClouds,
	"Sand":         ThemeClouds,
	"Ash":          ThemeClouds,
	"Squall":       ThemeClouds,
	"Tornado":      ThemeThunderstorm,
}

// IconFor возвращает значок категории погоды
func IconFor(label string) string {
	if icon, ok := icons[label]; ok {
		return icon
	}
	return icons["Clear"]
}

// ThemeFor возвращает класс темы фона для категории погоды
func ThemeFor(label string) string {
	if theme, ok := themes[label]; ok {
		return theme
	}
	return ThemeClear
}
