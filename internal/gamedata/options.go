package gamedata

import "go.uber.org/zap"

// Option configures loading and registry construction.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger used for load warnings. The default discards.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
