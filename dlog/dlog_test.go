package dlog

import (
	"math/big"
	"sync"
	"testing"

	"github.com/privacybydesign/ballotcrypt/group"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func init() {
	Logger = logrus.StandardLogger()
	Logger.SetLevel(logrus.FatalLevel)
}

func testCtx(t *testing.T) *group.Context {
	ctx, err := group.ContextByName(group.ContextTest)
	require.NoError(t, err)
	return ctx
}

func TestSolve(t *testing.T) {
	ctx := testCtx(t)
	s := ForContext(ctx)
	assert.Equal(t, uint64(DefaultMaxExponent), s.MaxExponent())

	rapid.Check(t, func(t *rapid.T) {
		m := rapid.Uint64Range(0, 5000).Draw(t, "m")
		got, ok := s.Solve(ctx.GPowUint(m))
		assert.True(t, ok)
		assert.Equal(t, m, got)
	})
}

func TestCeiling(t *testing.T) {
	ctx := testCtx(t)
	s := New(ctx.GModP(), 100)

	m, ok := s.Solve(ctx.GPowUint(100))
	assert.True(t, ok)
	assert.Equal(t, uint64(100), m)

	m, ok = s.Solve(ctx.GPowUint(101))
	assert.False(t, ok)
	assert.Equal(t, uint64(0), m)

	// a second miss does not change the cached range
	_, ok = s.Solve(ctx.GPowUint(1000))
	assert.False(t, ok)
	m, ok = s.Solve(ctx.GPowUint(37))
	assert.True(t, ok)
	assert.Equal(t, uint64(37), m)
}

func TestOtherBase(t *testing.T) {
	ctx := testCtx(t)
	base := ctx.GPowUint(7)
	s := New(base, 1000)
	m, ok := s.Solve(base.Exp(ctx.UintModQ(321)))
	assert.True(t, ok)
	assert.Equal(t, uint64(321), m)
}

func TestConcurrentSolve(t *testing.T) {
	ctx := testCtx(t)
	s := New(ctx.GModP(), 10000)

	var wg sync.WaitGroup
	results := make([]uint64, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, ok := s.Solve(ctx.GPowUint(uint64(i * 150)))
			if ok {
				results[i] = m
			}
		}(i)
	}
	wg.Wait()
	for i, m := range results {
		assert.Equal(t, uint64(i*150), m)
	}
}

func TestForeignTargetPanics(t *testing.T) {
	ctx := testCtx(t)
	other, err := group.NewContext("other", ctx.P(), ctx.Q(), ctx.G(), group.AccelerationNone)
	require.NoError(t, err)
	s := ForContext(ctx)
	assert.Panics(t, func() { s.Solve(other.GPowUint(3)) })
}

func TestSolveSmallGroup(t *testing.T) {
	// G = 4 has order 11 modulo 23, far below the ceiling.
	ctx, err := group.NewContext("tiny", big.NewInt(23), big.NewInt(11), big.NewInt(4), group.AccelerationNone)
	require.NoError(t, err)
	s := New(ctx.GModP(), 100)

	// 5 is not a power of 4 modulo 23
	_, ok := s.Solve(ctx.UintModP(5))
	assert.False(t, ok)
	assert.Equal(t, uint64(10), s.MaxExponent())

	for m := uint64(0); m <= 10; m++ {
		got, ok := s.Solve(ctx.GPowUint(m))
		assert.True(t, ok)
		assert.Equal(t, m, got)
	}
	_, ok = s.Solve(ctx.UintModP(5))
	assert.False(t, ok)
	got, ok := s.Solve(ctx.OneModP())
	assert.True(t, ok)
	assert.Equal(t, uint64(0), got)
}

func TestSolveKeyCollision(t *testing.T) {
	ctx := testCtx(t)
	s := New(ctx.GModP(), 50)
	target := ctx.GPowUint(20)
	_, ok := s.Solve(target)
	require.True(t, ok)

	// Poison the key of an uncached value; the hit must be rejected.
	other := ctx.GPowUint(1000)
	s.mu.Lock()
	s.cache[key(other)] = 20
	s.mu.Unlock()
	_, ok = s.Solve(other)
	assert.False(t, ok)

	m, ok := s.Solve(target)
	assert.True(t, ok)
	assert.Equal(t, uint64(20), m)
}
