// Package group implements the multiplicative group of integers modulo a large
// prime P with a prime-order subgroup of order Q generated by G, together with
// the two element types living in it: exponents (ElementModQ) and group
// values (ElementModP).
//
// All elements carry a reference to the Context that produced them. Mixing
// elements of different contexts in one operation is a programming error and
// panics.
package group

import (
	"fmt"
	"math/big"

	"github.com/bwesterb/go-exptable"
	"github.com/go-errors/errors"
	"github.com/privacybydesign/ballotcrypt/internal/common"
	"github.com/privacybydesign/ballotcrypt/safeprime"
	"github.com/sirupsen/logrus"
)

// Logger is used for diagnostics of table construction.
var Logger = logrus.StandardLogger()

var (
	ErrIncompatibleContext = errors.New("group: elements from incompatible contexts")
	ErrInvalidParameters   = errors.New("group: invalid group parameters")
	ErrContextMismatch     = errors.New("group: encoded value belongs to another context")
)

// gTableWindow is the window size of the exptable used for powers of G.
const gTableWindow = 7

// Context holds the parameters P, Q and G of a group, the derived constants,
// and the precomputed tables for fast exponentiation of G. A Context is
// immutable after construction and may be shared between goroutines.
type Context struct {
	name string

	p, q, g, r *big.Int
	pLen, qLen int // byte widths of the fixed-size encodings
	safe       bool

	pMod, qMod   *common.FastMod
	gTable       exptable.Table
	acceleration PowRadixLevel

	zeroQ, oneQ, twoQ                  *ElementModQ
	zeroP, oneP, twoP, gP, g2P, gInvP *ElementModP
}

// NewContext validates the parameters and builds a context. Q must be a prime
// dividing P-1 and G must generate the subgroup of order Q. Public keys
// created in this context are accelerated at the given level.
func NewContext(name string, p, q, g *big.Int, acceleration PowRadixLevel) (*Context, error) {
	if name == "" {
		return nil, errors.WrapPrefix(ErrInvalidParameters, "empty name", 0)
	}
	if p == nil || q == nil || g == nil {
		return nil, errors.WrapPrefix(ErrInvalidParameters, "missing parameter", 0)
	}
	if !p.ProbablyPrime(32) {
		return nil, errors.WrapPrefix(ErrInvalidParameters, "P is not prime", 0)
	}
	if !q.ProbablyPrime(32) {
		return nil, errors.WrapPrefix(ErrInvalidParameters, "Q is not prime", 0)
	}
	pMinusOne := new(big.Int).Sub(p, big.NewInt(1))
	r, rem := new(big.Int).QuoRem(pMinusOne, q, new(big.Int))
	if rem.Sign() != 0 {
		return nil, errors.WrapPrefix(ErrInvalidParameters, "Q does not divide P-1", 0)
	}
	if g.Cmp(big.NewInt(1)) <= 0 || g.Cmp(p) >= 0 {
		return nil, errors.WrapPrefix(ErrInvalidParameters, "G out of range", 0)
	}
	if new(big.Int).Exp(g, q, p).Cmp(big.NewInt(1)) != 0 {
		return nil, errors.WrapPrefix(ErrInvalidParameters, "G does not generate the order Q subgroup", 0)
	}
	if !acceleration.valid() {
		return nil, errors.WrapPrefix(ErrInvalidParameters, fmt.Sprintf("unsupported acceleration level %d", acceleration), 0)
	}
	return newContext(name, p, q, g, r, acceleration), nil
}

// GenerateContext creates a context over a fresh safe prime of the given bit
// size, with generator 4. Meant for tests and experiments, not for elections.
func GenerateContext(name string, bits int) (*Context, error) {
	p, err := safeprime.Generate(bits, nil)
	if err != nil {
		return nil, errors.WrapPrefix(err, "generating group", 0)
	}
	q := new(big.Int).Rsh(p, 1)
	return NewContext(name, p, q, big.NewInt(4), AccelerationMedium)
}

func newContext(name string, p, q, g, r *big.Int, acceleration PowRadixLevel) *Context {
	ctx := &Context{
		name:         name,
		p:            new(big.Int).Set(p),
		q:            new(big.Int).Set(q),
		g:            new(big.Int).Set(g),
		r:            r,
		pLen:         (p.BitLen() + 7) / 8,
		qLen:         (q.BitLen() + 7) / 8,
		pMod:         common.NewFastMod(p),
		qMod:         common.NewFastMod(q),
		acceleration: acceleration,
	}
	// p and q are known prime here
	ctx.safe = r.Cmp(big.NewInt(2)) == 0

	ctx.gTable.Compute(ctx.g, ctx.p, gTableWindow)
	Logger.WithFields(logrus.Fields{
		"context": name,
		"bits":    p.BitLen(),
		"window":  gTableWindow,
	}).Debug("computed generator table")

	ctx.zeroQ = ctx.uintModQ(0)
	ctx.oneQ = ctx.uintModQ(1)
	ctx.twoQ = ctx.uintModQ(2)
	ctx.zeroP = ctx.newP(big.NewInt(0))
	ctx.oneP = ctx.newP(big.NewInt(1))
	ctx.twoP = ctx.newP(big.NewInt(2))
	ctx.gP = ctx.newP(ctx.g)
	ctx.g2P = ctx.newP(new(big.Int).Exp(ctx.g, big.NewInt(2), ctx.p))
	ctx.gInvP = ctx.newP(new(big.Int).ModInverse(ctx.g, ctx.p))
	return ctx
}

func (ctx *Context) Name() string { return ctx.name }

// P returns a copy of the modulus.
func (ctx *Context) P() *big.Int { return new(big.Int).Set(ctx.p) }

// Q returns a copy of the subgroup order.
func (ctx *Context) Q() *big.Int { return new(big.Int).Set(ctx.q) }

// G returns a copy of the generator.
func (ctx *Context) G() *big.Int { return new(big.Int).Set(ctx.g) }

// Cofactor returns (P-1)/Q.
func (ctx *Context) Cofactor() *big.Int { return new(big.Int).Set(ctx.r) }

// PBytes is the width of the fixed-size big-endian encoding of an ElementModP.
func (ctx *Context) PBytes() int { return ctx.pLen }

// QBytes is the width of the fixed-size big-endian encoding of an ElementModQ.
func (ctx *Context) QBytes() int { return ctx.qLen }

// Acceleration is the PowRadix level used for public keys in this context.
func (ctx *Context) Acceleration() PowRadixLevel { return ctx.acceleration }

func (ctx *Context) ZeroModQ() *ElementModQ     { return ctx.zeroQ }
func (ctx *Context) OneModQ() *ElementModQ      { return ctx.oneQ }
func (ctx *Context) TwoModQ() *ElementModQ      { return ctx.twoQ }
func (ctx *Context) ZeroModP() *ElementModP     { return ctx.zeroP }
func (ctx *Context) OneModP() *ElementModP      { return ctx.oneP }
func (ctx *Context) TwoModP() *ElementModP      { return ctx.twoP }
func (ctx *Context) GModP() *ElementModP        { return ctx.gP }
func (ctx *Context) GSquaredModP() *ElementModP { return ctx.g2P }
func (ctx *Context) GInverseModP() *ElementModP { return ctx.gInvP }

// Compatible reports whether elements of ctx and other may be combined: they
// must be the same instance, or carry the same name and modulus.
func (ctx *Context) Compatible(other *Context) bool {
	if ctx == other {
		return true
	}
	if ctx == nil || other == nil {
		return false
	}
	return ctx.name == other.name && ctx.p.Cmp(other.p) == 0 &&
		ctx.q.Cmp(other.q) == 0 && ctx.g.Cmp(other.g) == 0
}

// mustMatch panics when other is not compatible with ctx.
func (ctx *Context) mustMatch(other *Context) {
	if !ctx.Compatible(other) {
		panic(errors.WrapPrefix(ErrIncompatibleContext,
			fmt.Sprintf("%s vs %s", contextName(ctx), contextName(other)), 2))
	}
}

func contextName(ctx *Context) string {
	if ctx == nil {
		return "<nil>"
	}
	return ctx.name
}

func (ctx *Context) String() string {
	return fmt.Sprintf("%s (P: %d bits, Q: %d bits)", ctx.name, ctx.p.BitLen(), ctx.q.BitLen())
}

// GPow computes G^e using the precomputed generator table.
func (ctx *Context) GPow(e *ElementModQ) *ElementModP {
	ctx.mustMatch(e.ctx)
	ret := new(big.Int)
	ctx.gTable.Exp(ret, &e.v)
	return ctx.newP(ret)
}

// GPowUint computes G^m for a small non-negative integer, reducing m mod Q.
func (ctx *Context) GPowUint(m uint64) *ElementModP {
	return ctx.GPow(ctx.uintModQ(m))
}

// Pow computes base^e mod P, using the acceleration table of base if it has
// one.
func (ctx *Context) Pow(base *ElementModP, e *ElementModQ) *ElementModP {
	ctx.mustMatch(base.ctx)
	return base.Exp(e)
}

// RandQ draws a uniformly random ElementModQ in [minimum, Q) from a
// cryptographically secure source. It panics if minimum >= Q.
func (ctx *Context) RandQ(minimum int64) *ElementModQ {
	return ctx.RandRangeQ(big.NewInt(minimum), ctx.q)
}

// RandRangeQ draws a uniformly random ElementModQ in [lo, hi), with hi <= Q.
func (ctx *Context) RandRangeQ(lo, hi *big.Int) *ElementModQ {
	if lo.Sign() < 0 || hi.Cmp(ctx.q) > 0 {
		panic(errors.Errorf("group: random range [%v, %v) outside [0, Q)", lo, hi))
	}
	return ctx.newQ(common.RandomInRange(lo, hi))
}

// IsSafePrime reports whether P = 2Q+1; subgroup membership then reduces to
// the Legendre symbol.
func (ctx *Context) IsSafePrime() bool { return ctx.safe }
