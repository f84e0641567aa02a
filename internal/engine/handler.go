package engine

import "fmt"

// Handler processes one event.
type Handler interface {
	Handle(ev Event, ctx *Context) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ev Event, ctx *Context) error

// Handle calls f.
func (f HandlerFunc) Handle(ev Event, ctx *Context) error {
	return f(ev, ctx)
}

// Typed adapts a handler for a single event type. Dispatching any other event
// type to it is an error.
func Typed[E Event](fn func(ev E, ctx *Context) error) Handler {
	return HandlerFunc(func(ev Event, ctx *Context) error {
		typed, ok := ev.(E)
		if !ok {
			return fmt.Errorf("handler for %T received %T", *new(E), ev)
		}
		return fn(typed, ctx)
	})
}
