package group

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/go-errors/errors"
)

// ElementModQ is an immutable integer in [0, Q), used as exponent, nonce,
// secret key, challenge and response.
type ElementModQ struct {
	ctx *Context
	v   big.Int
}

// ElementModP is an immutable integer in [0, P). It may carry a fixed-base
// exponentiation table, see Accelerate.
type ElementModP struct {
	ctx   *Context
	v     big.Int
	radix *PowRadix
}

func (ctx *Context) newQ(x *big.Int) *ElementModQ {
	e := &ElementModQ{ctx: ctx}
	e.v.Set(x)
	return e
}

func (ctx *Context) newP(x *big.Int) *ElementModP {
	e := &ElementModP{ctx: ctx}
	e.v.Set(x)
	return e
}

func (ctx *Context) uintModQ(m uint64) *ElementModQ {
	x := new(big.Int).SetUint64(m)
	ctx.qMod.Mod(x, x)
	return ctx.newQ(x)
}

// ElementModQ returns x as an element of Z_Q, or false if x is nil or not in
// [0, Q).
func (ctx *Context) ElementModQ(x *big.Int) (*ElementModQ, bool) {
	if x == nil || x.Sign() < 0 || x.Cmp(ctx.q) >= 0 {
		return nil, false
	}
	return ctx.newQ(x), true
}

// ElementModQSafe reduces x into [0, Q); it never fails. Negative values are
// reduced to their non-negative representative.
func (ctx *Context) ElementModQSafe(x *big.Int) *ElementModQ {
	r := new(big.Int)
	ctx.qMod.Mod(r, x)
	return ctx.newQ(r)
}

// UintModQ returns m mod Q.
func (ctx *Context) UintModQ(m uint64) *ElementModQ {
	return ctx.uintModQ(m)
}

// ElementModQFromString parses a base 10 integer.
func (ctx *Context) ElementModQFromString(s string) (*ElementModQ, bool) {
	x, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, false
	}
	return ctx.ElementModQ(x)
}

// ElementModQFromHex parses a hexadecimal integer, with or without leading
// zeros, in either case.
func (ctx *Context) ElementModQFromHex(s string) (*ElementModQ, bool) {
	x, ok := parseHex(s)
	if !ok {
		return nil, false
	}
	return ctx.ElementModQ(x)
}

// ElementModQFromBytes decodes the fixed-width big-endian encoding produced by
// ElementModQ.Bytes.
func (ctx *Context) ElementModQFromBytes(b []byte) (*ElementModQ, bool) {
	if len(b) != ctx.qLen {
		return nil, false
	}
	return ctx.ElementModQ(new(big.Int).SetBytes(b))
}

// ElementModP returns x as an element of Z_P, or false if x is nil or not in
// [0, P). It does not check subgroup membership, see IsValidResidue.
func (ctx *Context) ElementModP(x *big.Int) (*ElementModP, bool) {
	if x == nil || x.Sign() < 0 || x.Cmp(ctx.p) >= 0 {
		return nil, false
	}
	return ctx.newP(x), true
}

// ElementModPSafe reduces x into [0, P); it never fails.
func (ctx *Context) ElementModPSafe(x *big.Int) *ElementModP {
	r := new(big.Int)
	ctx.pMod.Mod(r, x)
	return ctx.newP(r)
}

// UintModP returns m mod P.
func (ctx *Context) UintModP(m uint64) *ElementModP {
	return ctx.ElementModPSafe(new(big.Int).SetUint64(m))
}

func (ctx *Context) ElementModPFromString(s string) (*ElementModP, bool) {
	x, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, false
	}
	return ctx.ElementModP(x)
}

func (ctx *Context) ElementModPFromHex(s string) (*ElementModP, bool) {
	x, ok := parseHex(s)
	if !ok {
		return nil, false
	}
	return ctx.ElementModP(x)
}

// ElementModPFromBytes decodes the fixed-width big-endian encoding produced by
// ElementModP.Bytes.
func (ctx *Context) ElementModPFromBytes(b []byte) (*ElementModP, bool) {
	if len(b) != ctx.pLen {
		return nil, false
	}
	return ctx.ElementModP(new(big.Int).SetBytes(b))
}

func parseHex(s string) (*big.Int, bool) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return nil, false
	}
	return new(big.Int).SetString(s, 16)
}

// hashHex is the uppercase hex encoding without leading zeros, padded to an
// even number of digits.
func hashHex(x *big.Int) string {
	h := strings.ToUpper(x.Text(16))
	if len(h)%2 == 1 {
		h = "0" + h
	}
	return h
}

func fixedBytes(x *big.Int, width int) []byte {
	return x.FillBytes(make([]byte, width))
}

// ElementModQ

func (e *ElementModQ) Context() *Context { return e.ctx }

// Big returns a copy of the value.
func (e *ElementModQ) Big() *big.Int { return new(big.Int).Set(&e.v) }

// Bytes returns the big-endian encoding, left-padded to Context.QBytes.
func (e *ElementModQ) Bytes() []byte { return fixedBytes(&e.v, e.ctx.qLen) }

// Hex returns the uppercase hex encoding of Bytes.
func (e *ElementModQ) Hex() string { return strings.ToUpper(hex.EncodeToString(e.Bytes())) }

// CryptoHashString is the representation of e used by the hash function.
func (e *ElementModQ) CryptoHashString() string { return hashHex(&e.v) }

func (e *ElementModQ) String() string { return e.v.String() }

// Format lets fmt print the value in any integer verb.
func (e *ElementModQ) Format(s fmt.State, ch rune) { e.v.Format(s, ch) }

func (e *ElementModQ) IsZero() bool { return e.v.Sign() == 0 }

// Equal reports whether e and o are the same value in compatible contexts.
func (e *ElementModQ) Equal(o *ElementModQ) bool {
	if e == nil || o == nil {
		return e == o
	}
	return e.ctx.Compatible(o.ctx) && e.v.Cmp(&o.v) == 0
}

// Cmp compares the integer values of e and o.
func (e *ElementModQ) Cmp(o *ElementModQ) int {
	e.ctx.mustMatch(o.ctx)
	return e.v.Cmp(&o.v)
}

// CmpInt compares e with a small integer.
func (e *ElementModQ) CmpInt(x int64) int {
	return e.v.Cmp(big.NewInt(x))
}

func (e *ElementModQ) Add(o *ElementModQ) *ElementModQ {
	e.ctx.mustMatch(o.ctx)
	r := new(big.Int).Add(&e.v, &o.v)
	e.ctx.qMod.Mod(r, r)
	return e.ctx.newQ(r)
}

func (e *ElementModQ) Sub(o *ElementModQ) *ElementModQ {
	e.ctx.mustMatch(o.ctx)
	r := new(big.Int).Sub(&e.v, &o.v)
	r.Mod(r, e.ctx.q)
	return e.ctx.newQ(r)
}

func (e *ElementModQ) Mul(o *ElementModQ) *ElementModQ {
	e.ctx.mustMatch(o.ctx)
	r := new(big.Int).Mul(&e.v, &o.v)
	e.ctx.qMod.Mod(r, r)
	return e.ctx.newQ(r)
}

// Div multiplies e by the inverse of o mod Q. It panics if o is zero.
func (e *ElementModQ) Div(o *ElementModQ) *ElementModQ {
	e.ctx.mustMatch(o.ctx)
	return e.Mul(o.Inverse())
}

// Neg returns Q - e mod Q.
func (e *ElementModQ) Neg() *ElementModQ {
	r := new(big.Int).Neg(&e.v)
	r.Mod(r, e.ctx.q)
	return e.ctx.newQ(r)
}

// Inverse returns the multiplicative inverse mod Q. It panics if e is zero.
func (e *ElementModQ) Inverse() *ElementModQ {
	r := new(big.Int).ModInverse(&e.v, e.ctx.q)
	if r == nil {
		panic(errors.Errorf("group: %s has no inverse mod Q", e.v.String()))
	}
	return e.ctx.newQ(r)
}

// ElementModP

func (e *ElementModP) Context() *Context { return e.ctx }

// Big returns a copy of the value.
func (e *ElementModP) Big() *big.Int { return new(big.Int).Set(&e.v) }

// Bytes returns the big-endian encoding, left-padded to Context.PBytes.
func (e *ElementModP) Bytes() []byte { return fixedBytes(&e.v, e.ctx.pLen) }

// Hex returns the uppercase hex encoding of Bytes.
func (e *ElementModP) Hex() string { return strings.ToUpper(hex.EncodeToString(e.Bytes())) }

// CryptoHashString is the representation of e used by the hash function.
func (e *ElementModP) CryptoHashString() string { return hashHex(&e.v) }

func (e *ElementModP) String() string { return e.v.String() }

func (e *ElementModP) Format(s fmt.State, ch rune) { e.v.Format(s, ch) }

func (e *ElementModP) IsZero() bool { return e.v.Sign() == 0 }

// Equal reports whether e and o are the same value in compatible contexts.
// Acceleration does not affect equality.
func (e *ElementModP) Equal(o *ElementModP) bool {
	if e == nil || o == nil {
		return e == o
	}
	return e.ctx.Compatible(o.ctx) && e.v.Cmp(&o.v) == 0
}

// IsValidResidue reports whether e lies in the order Q subgroup, i.e.
// 0 < e < P and e^Q = 1 mod P.
func (e *ElementModP) IsValidResidue() bool {
	if e.v.Sign() <= 0 || e.v.Cmp(e.ctx.p) >= 0 {
		return false
	}
	if e.ctx.safe {
		// the order Q subgroup of Z_P* is exactly the quadratic residues
		return big.Jacobi(&e.v, e.ctx.p) == 1
	}
	return new(big.Int).Exp(&e.v, e.ctx.q, e.ctx.p).Cmp(big.NewInt(1)) == 0
}

func (e *ElementModP) Add(o *ElementModP) *ElementModP {
	e.ctx.mustMatch(o.ctx)
	r := new(big.Int).Add(&e.v, &o.v)
	e.ctx.pMod.Mod(r, r)
	return e.ctx.newP(r)
}

func (e *ElementModP) Sub(o *ElementModP) *ElementModP {
	e.ctx.mustMatch(o.ctx)
	r := new(big.Int).Sub(&e.v, &o.v)
	r.Mod(r, e.ctx.p)
	return e.ctx.newP(r)
}

func (e *ElementModP) Mul(o *ElementModP) *ElementModP {
	e.ctx.mustMatch(o.ctx)
	r := new(big.Int).Mul(&e.v, &o.v)
	e.ctx.pMod.Mod(r, r)
	return e.ctx.newP(r)
}

// Div multiplies e by the inverse of o mod P. It panics if o is zero.
func (e *ElementModP) Div(o *ElementModP) *ElementModP {
	e.ctx.mustMatch(o.ctx)
	return e.Mul(o.Inverse())
}

// Inverse returns the multiplicative inverse mod P. It panics if e is zero.
func (e *ElementModP) Inverse() *ElementModP {
	r := new(big.Int).ModInverse(&e.v, e.ctx.p)
	if r == nil {
		panic(errors.Errorf("group: %s has no inverse mod P", e.v.String()))
	}
	return e.ctx.newP(r)
}

// Exp computes e^x mod P, through the PowRadix table when e is accelerated.
func (e *ElementModP) Exp(x *ElementModQ) *ElementModP {
	e.ctx.mustMatch(x.ctx)
	if e.radix != nil {
		return e.ctx.newP(e.radix.Exp(&x.v))
	}
	return e.ctx.newP(new(big.Int).Exp(&e.v, &x.v, e.ctx.p))
}

// ExpNeg computes e^(-x) mod P as the inverse of e^x. It panics if e is zero.
func (e *ElementModP) ExpNeg(x *ElementModQ) *ElementModP {
	return e.Exp(x).Inverse()
}

// Accelerate returns a copy of e carrying a fixed-base table of the given
// level, so that subsequent calls to Exp are table lookups. Accelerating with
// AccelerationNone, or an already accelerated element at the same level,
// returns e itself.
func (e *ElementModP) Accelerate(level PowRadixLevel) *ElementModP {
	if level == AccelerationNone || (e.radix != nil && e.radix.Level() == level) {
		return e
	}
	acc := e.ctx.newP(&e.v)
	acc.radix = NewPowRadix(&e.v, e.ctx.p, e.ctx.q, level)
	return acc
}

// IsAccelerated reports whether e carries a fixed-base table.
func (e *ElementModP) IsAccelerated() bool { return e.radix != nil }
