package common

import "math/big"

// FastMod reduces modulo p. When p = 2^b - c for a small c (below 2^60) the
// reduction is done by folding the high bits, otherwise it falls back to
// big.Int.Mod.
type FastMod struct {
	enabled bool
	p       big.Int
	c       big.Int
	b       uint
	mask    big.Int // (1 << b) - 1
}

func NewFastMod(p *big.Int) *FastMod {
	m := new(FastMod)
	m.Set(p)
	return m
}

func (m *FastMod) Set(p *big.Int) {
	var tmp big.Int
	m.p.Set(p)
	m.b = uint(p.BitLen())
	tmp.Lsh(big.NewInt(1), m.b)
	m.c.Sub(&tmp, &m.p)
	m.enabled = m.c.BitLen() < 60
	if m.enabled {
		m.mask.Sub(&tmp, big.NewInt(1))
	}
}

// Modulus returns the modulus. The caller must not modify it.
func (m *FastMod) Modulus() *big.Int {
	return &m.p
}

// Enabled reports whether the folding reduction is in use.
func (m *FastMod) Enabled() bool {
	return m.enabled
}

func (m *FastMod) Mod(ret, x *big.Int) *big.Int {
	if !m.enabled || x.Sign() == -1 {
		return ret.Mod(x, &m.p)
	}
	if x.Cmp(&m.p) < 0 {
		return ret.Set(x)
	}

	cur := x
	var tmp, carry big.Int
	folded := false
	for {
		carry.Rsh(cur, m.b)
		if carry.Sign() == 0 {
			break
		}
		folded = true
		ret.And(cur, &m.mask)
		tmp.Mul(&carry, &m.c)
		ret.Add(ret, &tmp)
		cur = ret
	}

	if !folded {
		// x has exactly b bits and p <= x < 2^b
		return ret.Sub(x, &m.p)
	}
	if ret.Cmp(&m.p) >= 0 {
		ret.Sub(ret, &m.p)
	}
	return ret
}
