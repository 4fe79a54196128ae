// Package dlog recovers small exponents m from G^m by walking the powers of
// the base and remembering every value it has seen.
package dlog

import (
	"encoding/binary"
	"math/big"
	"sync"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/ballotcrypt/group"
	"github.com/sirupsen/logrus"
)

// Logger is used to report growth of the cache.
var Logger = logrus.StandardLogger()

// DefaultMaxExponent bounds the search of solvers built by ForContext. It is
// far above any tally a single election produces.
const DefaultMaxExponent = 1000000

// Solver maps base^m back to m for 0 <= m <= a fixed ceiling. Results are
// cached, so repeated queries are lookups; a Solver may be shared between
// goroutines.
//
// The cache is keyed by the low 64 bits of each power and every hit is
// confirmed against the target, so a 3072-bit solver costs a few dozen bytes
// per cached exponent rather than the full width of an element.
type Solver struct {
	base *group.ElementModP
	max  uint64

	mu      sync.Mutex
	cache   map[uint64]uint64
	current *group.ElementModP // base^highest
	highest uint64
}

// New creates a solver for powers of base up to base^maxExponent. The
// ceiling is lowered to the order of base minus one as soon as the powers
// are seen to wrap around.
func New(base *group.ElementModP, maxExponent uint64) *Solver {
	one := base.Context().OneModP()
	return &Solver{
		base:    base,
		max:     maxExponent,
		cache:   map[uint64]uint64{key(one): 0},
		current: one,
	}
}

// ForContext returns a solver for powers of the generator of ctx, bounded by
// DefaultMaxExponent.
func ForContext(ctx *group.Context) *Solver {
	return New(ctx.GModP(), DefaultMaxExponent)
}

// MaxExponent returns the largest exponent the solver will search for.
func (s *Solver) MaxExponent() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.max
}

// Solve returns m such that base^m = target, or false if no such
// m <= MaxExponent exists. It panics if target belongs to another context.
func (s *Solver) Solve(target *group.ElementModP) (uint64, bool) {
	ctx := s.base.Context()
	if !ctx.Compatible(target.Context()) {
		panic(errors.WrapPrefix(group.ErrIncompatibleContext, "dlog: target from "+target.Context().Name(), 0))
	}
	k := key(target)

	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.cache[k]; ok && s.confirm(m, target) {
		return m, true
	}
	start := s.highest
	one := ctx.OneModP()
	for s.highest < s.max {
		next := s.current.Mul(s.base)
		if next.Equal(one) {
			// every power of base is cached now
			s.max = s.highest
			Logger.WithField("order", s.highest+1).Debug("discrete log base order reached")
			break
		}
		s.highest++
		s.current = next
		ck := key(next)
		if _, taken := s.cache[ck]; !taken {
			s.cache[ck] = s.highest
		}
		if ck == k && next.Equal(target) {
			Logger.WithFields(logrus.Fields{"from": start, "to": s.highest}).Trace("extended discrete log cache")
			return s.highest, true
		}
	}
	Logger.WithField("ceiling", s.max).Trace("discrete log not found")
	return 0, false
}

// confirm checks a cache hit, since distinct powers may share a key.
func (s *Solver) confirm(m uint64, target *group.ElementModP) bool {
	if m == s.highest {
		return s.current.Equal(target)
	}
	p := s.base.Context().P()
	x := new(big.Int).Exp(s.base.Big(), new(big.Int).SetUint64(m), p)
	return x.Cmp(target.Big()) == 0
}

func key(e *group.ElementModP) uint64 {
	var buf [8]byte
	b := e.Bytes()
	if len(b) > len(buf) {
		b = b[len(b)-len(buf):]
	}
	copy(buf[len(buf)-len(b):], b)
	return binary.BigEndian.Uint64(buf[:])
}
