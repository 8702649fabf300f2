package canvas

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type options struct {
	sink   Sink
	log    zerolog.Logger
	origin Point
	newID  func() string
	newTag func() string
	now    func() time.Time
}

type Option func(*options)

func defaultOptions() options {
	return options{
		sink:   discardSink{},
		log:    zerolog.Nop(),
		newID:  uuid.NewString,
		newTag: func() string { return "group-" + uuid.NewString() },
		now:    time.Now,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithSink sends committed mutations to s.
func WithSink(s Sink) Option {
	return func(o *options) {
		if s != nil {
			o.sink = s
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithOrigin sets the screen position of the canvas' top-left corner.
func WithOrigin(p Point) Option {
	return func(o *options) {
		o.origin = p
	}
}

// WithIDGenerator replaces uuid-based note and board ids.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// WithTagGenerator replaces uuid-based group tags.
func WithTagGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newTag = fn
		}
	}
}

func WithClock(fn func() time.Time) Option {
	return func(o *options) {
		if fn != nil {
			o.now = fn
		}
	}
}
