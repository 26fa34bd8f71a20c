package compose

import (
	"log/slog"
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"

	"github.com/jacoelho/rxtemplate/errors"
	"github.com/jacoelho/rxtemplate/internal/scan"
)

// DefaultInfoCacheSize is the number of skeletons an InfoCache keeps when
// no size is given.
const DefaultInfoCacheSize = 512

// InfoCache memoizes StaticInfo by skeleton. Entries are keyed by a hash of
// the literals and hold the literals themselves, so a hash collision costs
// a recomputation rather than a wrong answer. Concurrent misses on the same
// skeleton are collapsed into one analysis.
type InfoCache struct {
	entries *lru.Cache
	scanner *scan.Scanner
	logger  *slog.Logger
	flight  singleflight.Group
}

type infoEntry struct {
	info     *StaticInfo
	literals []string
}

// NewInfoCache returns a cache holding up to size skeletons.
func NewInfoCache(size int, s *scan.Scanner, logger *slog.Logger) (*InfoCache, error) {
	if size <= 0 {
		return nil, errors.Newf(errors.ErrInvalidOptions, "info cache size must be positive, got %d", size)
	}
	entries, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = scan.New(nil)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &InfoCache{entries: entries, scanner: s, logger: logger}, nil
}

// Get returns the StaticInfo for literals, analyzing them on a miss.
// Analysis errors are returned and not cached.
func (c *InfoCache) Get(literals []string) (*StaticInfo, error) {
	key := skeletonKey(literals)
	if e, ok := c.lookup(key, literals); ok {
		return e.info, nil
	}

	v, err, _ := c.flight.Do(strconv.FormatUint(key, 16), func() (any, error) {
		if e, ok := c.lookup(key, literals); ok {
			return e, nil
		}
		c.logger.Debug("analyzing skeleton", slog.Int("literals", len(literals)))
		info, err := Analyze(literals, c.scanner)
		if err != nil {
			return nil, err
		}
		e := &infoEntry{info: info, literals: slices.Clone(literals)}
		c.entries.Add(key, e)
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	if e := v.(*infoEntry); slices.Equal(e.literals, literals) {
		return e.info, nil
	}
	return Analyze(literals, c.scanner)
}

// lookup returns the entry for key when it was built from literals.
func (c *InfoCache) lookup(key uint64, literals []string) (*infoEntry, bool) {
	v, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	e := v.(*infoEntry)
	return e, slices.Equal(e.literals, literals)
}

// Len returns the number of cached skeletons.
func (c *InfoCache) Len() int {
	return c.entries.Len()
}

// skeletonKey hashes the literals with length prefixes, so different splits
// of the same text hash differently.
func skeletonKey(literals []string) uint64 {
	d := xxhash.New()
	var n [20]byte
	for _, lit := range literals {
		d.Write(strconv.AppendInt(n[:0], int64(len(lit)), 10))
		d.WriteString(":")
		d.WriteString(lit)
	}
	return d.Sum64()
}
