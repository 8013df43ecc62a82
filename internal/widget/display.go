package widget

import "github.com/gometeo/widget/internal/view"

// Phase - что сейчас видно пользователю. Панели взаимоисключающие.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseWeather
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseWeather:
		return "weather"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// display - конечный автомат видимости спиннера, панели погоды и панели ошибки
type display struct {
	loading view.Element
	weather view.Element
	failure view.Element
	phase   Phase
}

// set скрывает всё, что не соответствует фазе, и только потом показывает нужную панель
func (d *display) set(p Phase) {
	panels := []struct {
		el    view.Element
		phase Phase
	}{
		{d.loading, PhaseLoading},
		{d.weather, PhaseWeather},
		{d.failure, PhaseError},
	}
	for _, panel := range panels {
		if panel.phase != p {
			view.SetVisible(panel.el, false)
		}
	}
	for _, panel := range panels {
		if panel.phase == p {
			view.SetVisible(panel.el, true)
		}
	}
	d.phase = p
}
