// Package notify is a small generic observer list used for route-table
// change notification: the daemon notifies an Observable[routetable.Table]
// whenever SPF recomputes next hops, and the control plane subscribes to
// log the change.
package notify

import "slices"

// Observer receives values pushed by an Observable it is subscribed to.
type Observer[T any] interface {
	Update(data T)
}

// Observable is a plain, unbuffered multicast point: every subscribed
// Observer's Update is called synchronously, in subscription order, on
// Notify.
type Observable[T any] struct {
	observers []Observer[T]
}

// New returns an Observable with no subscribers.
func New[T any]() *Observable[T] {
	return &Observable[T]{}
}

// Subscribe registers observer to receive every future Notify.
func (o *Observable[T]) Subscribe(observer Observer[T]) {
	o.observers = append(o.observers, observer)
}

// Unsubscribe removes observer, if present.
func (o *Observable[T]) Unsubscribe(observer Observer[T]) {
	for i, obs := range o.observers {
		if obs == observer {
			o.observers = slices.Delete(o.observers, i, i+1)
			return
		}
	}
}

// Notify pushes data to every current subscriber.
func (o *Observable[T]) Notify(data T) {
	for _, observer := range o.observers {
		observer.Update(data)
	}
}

// ObserverFunc adapts a plain function to the Observer interface, the way
// most Notify subscribers in this daemon are one-off closures rather than
// dedicated types.
type ObserverFunc[T any] func(data T)

func (f ObserverFunc[T]) Update(data T) { f(data) }
