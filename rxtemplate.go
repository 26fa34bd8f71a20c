// Package rxtemplate composes regular expressions from literal skeletons and
// interpolated values. Text values are escaped for the context they land in,
// fragments are merged by meaning: inside a charset a fragment contributes
// the characters it can match, and at the top level its capturing groups are
// renumbered and its backreferences rewritten to follow them.
package rxtemplate

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jacoelho/rxtemplate/errors"
	"github.com/jacoelho/rxtemplate/internal/compose"
	"github.com/jacoelho/rxtemplate/internal/scan"
)

// Composer composes patterns. It is safe for concurrent use; the analysis
// of each literal skeleton is cached and shared between calls.
type Composer struct {
	infos        *compose.InfoCache
	composer     *compose.Composer
	logger       *slog.Logger
	matchTimeout time.Duration
}

// New returns a composer configured by opts.
func New(opts Options) (*Composer, error) {
	resolved, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	scanner := scan.New(scan.NewMatcherCache())
	infos, err := compose.NewInfoCache(resolved.infoCacheSize, scanner, resolved.logger)
	if err != nil {
		return nil, err
	}
	return &Composer{
		infos:        infos,
		composer:     compose.New(scanner, resolved.logger),
		logger:       resolved.logger,
		matchTimeout: resolved.matchTimeout,
	}, nil
}

// Compose builds a pattern with flags from literals interleaved with values.
// There must be exactly one more literal than values.
//
// Values may be strings, byte slices, fmt.Stringers, numbers and booleans,
// which are interpolated as text, or a Fragment or *Pattern, which are
// interpolated as regular-expression source. nil is the empty string.
func (c *Composer) Compose(flags string, literals []string, values ...any) (*Pattern, error) {
	if len(literals) != len(values)+1 {
		return nil, errors.Newf(errors.ErrArity, "%d literals need %d values, got %d",
			len(literals), max(len(literals)-1, 0), len(values))
	}
	info, err := c.infos.Get(literals)
	if err != nil {
		return nil, fmt.Errorf("analyze literals: %w", err)
	}
	converted := make([]compose.Value, len(values))
	for i, v := range values {
		converted[i] = valueOf(v)
	}
	source, groups, err := c.composer.Compose(info, flags, converted)
	if err != nil {
		return nil, err
	}
	if source == "" {
		source = emptySource
	}
	c.logger.Debug("composed pattern", slog.String("source", source), slog.Int("groups", len(groups)-1))
	return &Pattern{
		Source:       source,
		Flags:        flags,
		Groups:       groups,
		matchTimeout: c.matchTimeout,
	}, nil
}

var defaultComposer = sync.OnceValue(func() *Composer {
	c, err := New(NewOptions())
	if err != nil {
		panic(err)
	}
	return c
})

// Make composes a pattern without flags using the default composer.
func Make(literals []string, values ...any) (*Pattern, error) {
	return defaultComposer().Compose("", literals, values...)
}

// MakeFlags composes a pattern with flags using the default composer.
func MakeFlags(flags string, literals []string, values ...any) (*Pattern, error) {
	return defaultComposer().Compose(flags, literals, values...)
}

// MustMake is like Make but panics on error.
func MustMake(literals []string, values ...any) *Pattern {
	p, err := Make(literals, values...)
	if err != nil {
		panic(err)
	}
	return p
}
