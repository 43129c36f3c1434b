// Package navigation delivers session navigation intents to whatever
// surface the companion runs.
package navigation

import (
	"github.com/dtroode/medcompanion/internal/logger"
	"github.com/dtroode/medcompanion/internal/model"
)

var (
	_ model.Navigator = Func(nil)
	_ model.Navigator = (*Log)(nil)
	_ model.Navigator = (*Channel)(nil)
)

// Func adapts a plain function to model.Navigator.
type Func func(route model.Route)

func (f Func) Replace(route model.Route) {
	f(route)
}

// Log writes every intent to the logger.
type Log struct {
	logger *logger.Logger
}

func NewLog(logger *logger.Logger) *Log {
	return &Log{logger: logger}
}

func (n *Log) Replace(route model.Route) {
	n.logger.Info("Navigator: replace",
		"route", string(route))
}

// Channel forwards intents to a buffered channel. When the buffer is full
// the intent is dropped and logged; Replace never blocks.
type Channel struct {
	routes chan model.Route
	logger *logger.Logger
}

func NewChannel(size int, logger *logger.Logger) *Channel {
	if size < 1 {
		size = 1
	}
	return &Channel{routes: make(chan model.Route, size), logger: logger}
}

func (n *Channel) Replace(route model.Route) {
	select {
	case n.routes <- route:
	default:
		n.logger.Warn("Navigator: route dropped, consumer is not keeping up",
			"route", string(route))
	}
}

// Routes returns the receiving end of the channel.
func (n *Channel) Routes() <-chan model.Route {
	return n.routes
}

// Multi fans intents out to every navigator in order.
type Multi []model.Navigator

func (m Multi) Replace(route model.Route) {
	for _, n := range m {
		n.Replace(route)
	}
}
