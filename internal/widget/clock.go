package widget

import "time"

// Clock откладывает вызов функции. В тестах подменяется ручными часами.
type Clock interface {
	AfterFunc(d time.Duration, f func())
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) { time.AfterFunc(d, f) }
