package client

import (
	"github.com/rs/zerolog"
)

// Observable fans out change notifications to subscribed observers. It is
// composed into the Collection rather than mixed in at runtime. Observers are
// invoked synchronously in subscription order and carry no payload; they
// re-read whatever state they need.
type Observable struct {
	observers []observer
	nextToken int
	logger    zerolog.Logger
}

type observer struct {
	token int
	fn    func()
}

// Subscribe registers an observer and returns a token for Unsubscribe.
func (o *Observable) Subscribe(fn func()) int {
	o.nextToken++
	o.observers = append(o.observers, observer{token: o.nextToken, fn: fn})
	return o.nextToken
}

// Unsubscribe removes the observer registered under the given token.
func (o *Observable) Unsubscribe(token int) {
	for i, obs := range o.observers {
		if obs.token == token {
			o.observers = append(o.observers[:i], o.observers[i+1:]...)
			return
		}
	}
}

// Notify runs every observer. A panicking observer is recovered and logged so
// it cannot prevent the remaining observers from running.
func (o *Observable) Notify() {
	for _, obs := range o.observers {
		o.safeNotify(obs)
	}
}

func (o *Observable) safeNotify(obs observer) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error().Interface("panic", r).Int("observer", obs.token).Msg("observer panicked during notification")
		}
	}()
	obs.fn()
}
