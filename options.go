package rxtemplate

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jacoelho/rxtemplate/errors"
	"github.com/jacoelho/rxtemplate/internal/compose"
)

type intOption struct {
	value int
	set   bool
}

func (o intOption) resolved() int {
	if !o.set {
		return 0
	}
	return o.value
}

type durationOption struct {
	value time.Duration
	set   bool
}

func (o durationOption) resolved() time.Duration {
	if !o.set {
		return 0
	}
	return o.value
}

// Options configures a Composer.
type Options struct {
	logger        *slog.Logger
	infoCacheSize intOption
	matchTimeout  durationOption
}

type resolvedOptions struct {
	logger        *slog.Logger
	infoCacheSize int
	matchTimeout  time.Duration
}

// NewOptions returns a default, valid options value.
func NewOptions() Options {
	return Options{}
}

// Validate validates options values.
func (o Options) Validate() error {
	_, err := o.withDefaults()
	return err
}

// WithInfoCacheSize sets how many literal skeletons keep their analysis (0 uses default).
func (o Options) WithInfoCacheSize(value int) Options {
	o.infoCacheSize = intOption{value: value, set: true}
	return o
}

// WithMatchTimeout sets the match timeout of compiled patterns (0 disables it).
func (o Options) WithMatchTimeout(value time.Duration) Options {
	o.matchTimeout = durationOption{value: value, set: true}
	return o
}

// WithLogger sets the logger for debug records (nil discards them).
func (o Options) WithLogger(value *slog.Logger) Options {
	o.logger = value
	return o
}

func (o Options) withDefaults() (resolvedOptions, error) {
	size := o.infoCacheSize.resolved()
	switch {
	case size < 0:
		return resolvedOptions{}, fmt.Errorf("info cache size: %w",
			errors.Newf(errors.ErrInvalidOptions, "must not be negative, got %d", size))
	case size == 0:
		size = compose.DefaultInfoCacheSize
	}
	timeout := o.matchTimeout.resolved()
	if timeout < 0 {
		return resolvedOptions{}, fmt.Errorf("match timeout: %w",
			errors.Newf(errors.ErrInvalidOptions, "must not be negative, got %s", timeout))
	}
	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return resolvedOptions{
		logger:        logger,
		infoCacheSize: size,
		matchTimeout:  timeout,
	}, nil
}
