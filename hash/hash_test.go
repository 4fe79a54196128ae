package hash

import (
	"math/big"
	"testing"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/ballotcrypt/group"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type hashable struct {
	h *group.ElementModQ
}

func (x hashable) CryptoHash() *group.ElementModQ { return x.h }

func testCtx(t *testing.T) *group.Context {
	ctx, err := group.ContextByName(group.ContextTest)
	require.NoError(t, err)
	return ctx
}

func TestKnownValues(t *testing.T) {
	ctx := testCtx(t)

	// SHA-256 of the pipe-joined strings, reduced mod Q
	assert.Equal(t, "54329521", Elems(ctx).String())
	assert.Equal(t, "189932649", Elems(ctx, nil).String())
	assert.Equal(t, "574174221", Elems(ctx, "a", 1, ctx.UintModQ(0xab)).String())
	nested := []*group.ElementModQ{ctx.UintModQ(10), ctx.UintModQ(11)}
	assert.Equal(t, "864534559", Elems(ctx, nested).String())
	assert.Equal(t, "1103687573", Elems(ctx, "x", nested).String())
}

func TestNullMarkers(t *testing.T) {
	ctx := testCtx(t)
	null := Elems(ctx, nil)

	assert.True(t, null.Equal(Elems(ctx, "")))
	assert.True(t, null.Equal(Elems(ctx, []interface{}{})))
	assert.True(t, null.Equal(Elems(ctx, []*group.ElementModP{})))
	assert.True(t, null.Equal(Elems(ctx, (*big.Int)(nil))))
	assert.True(t, null.Equal(Elems(ctx, (*group.ElementModQ)(nil))))
	assert.True(t, null.Equal(Elems(ctx, "null")), "the marker is plain text")
	assert.False(t, null.Equal(Elems(ctx)))
}

func TestEquivalentRenderings(t *testing.T) {
	ctx := testCtx(t)

	assert.True(t, Elems(ctx, 42).Equal(Elems(ctx, "42")))
	assert.True(t, Elems(ctx, uint64(42)).Equal(Elems(ctx, big.NewInt(42))))
	assert.True(t, Elems(ctx, int64(-3)).Equal(Elems(ctx, "-3")))

	e := ctx.GPowUint(9)
	assert.True(t, Elems(ctx, e).Equal(Elems(ctx, e.CryptoHashString())))
	assert.True(t, Elems(ctx, hashable{ctx.UintModQ(10)}).Equal(Elems(ctx, "0A")))

	list := []interface{}{"a", ctx.UintModQ(1)}
	assert.True(t, Elems(ctx, list).Equal(Elems(ctx, Elems(ctx, list...))))
}

func TestOrderMatters(t *testing.T) {
	ctx := testCtx(t)
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Uint64().Draw(t, "a")
		b := rapid.Uint64().Draw(t, "b")
		if a == b {
			t.Skip("equal inputs")
		}
		assert.False(t, Elems(ctx, a, b).Equal(Elems(ctx, b, a)))
		assert.True(t, Elems(ctx, a, b).Equal(Elems(ctx, a, b)))
	})
}

func TestUnsupportedTypePanics(t *testing.T) {
	ctx := testCtx(t)
	assert.Panics(t, func() { Elems(ctx, 1.5) })
	assert.Panics(t, func() { Elems(ctx, []byte{1}) })
	assert.Panics(t, func() { Elems(ctx, []interface{}{"ok", struct{}{}}) })
}

func TestForeignElementPanics(t *testing.T) {
	ctx := testCtx(t)
	other, err := group.NewContext("other", ctx.P(), ctx.Q(), ctx.G(), group.AccelerationNone)
	require.NoError(t, err)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		assert.True(t, errors.Is(r.(error), group.ErrIncompatibleContext))
	}()
	Elems(ctx, other.UintModQ(1))
}

func TestNonces(t *testing.T) {
	ctx := testCtx(t)
	seed := ctx.UintModQ(1234)

	n := NewNonces(seed, "contest", 2)
	first := n.Take(5)
	require.Len(t, first, 5)
	for i, x := range first {
		assert.True(t, x.Equal(NewNonces(seed, "contest", 2).Get(uint64(i))))
	}
	assert.False(t, first[0].Equal(first[1]))
	assert.True(t, first[3].Equal(Elems(ctx, Elems(ctx, seed, "contest", 2), uint64(3))))

	other := NewNonces(seed, "contest", 3)
	assert.False(t, first[0].Equal(other.Get(0)), "headers separate sequences")
}
