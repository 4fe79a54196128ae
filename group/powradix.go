package group

import (
	"math/big"

	"github.com/privacybydesign/ballotcrypt/internal/common"
	"github.com/sirupsen/logrus"
)

// PowRadixLevel selects the digit width of a PowRadix table, trading memory
// for fewer multiplications per exponentiation.
type PowRadixLevel int

const (
	AccelerationNone   PowRadixLevel = 0
	AccelerationLow    PowRadixLevel = 4
	AccelerationMedium PowRadixLevel = 8
	AccelerationHigh   PowRadixLevel = 12
)

func (l PowRadixLevel) valid() bool {
	switch l {
	case AccelerationNone, AccelerationLow, AccelerationMedium, AccelerationHigh:
		return true
	}
	return false
}

func (l PowRadixLevel) String() string {
	switch l {
	case AccelerationNone:
		return "none"
	case AccelerationLow:
		return "low"
	case AccelerationMedium:
		return "medium"
	case AccelerationHigh:
		return "high"
	}
	return "invalid"
}

// PowRadix is a fixed-base exponentiation table. Row i holds
// base^(d * 2^(k*i)) for every k-bit digit d, so that base^x is the product of
// one entry per row, selected by the little-endian k-bit digits of x.
// A PowRadix is immutable after construction.
type PowRadix struct {
	level PowRadixLevel
	mod   *common.FastMod
	rows  [][]*big.Int
}

// NewPowRadix builds a table for base modulo p, covering exponents below q.
// It panics if level is AccelerationNone or not a supported level.
func NewPowRadix(base, p, q *big.Int, level PowRadixLevel) *PowRadix {
	if level == AccelerationNone || !level.valid() {
		panic("group: cannot build PowRadix table at level " + level.String())
	}
	k := int(level)
	width := 1 << uint(k)
	numRows := (q.BitLen() + k - 1) / k

	pr := &PowRadix{
		level: level,
		mod:   common.NewFastMod(p),
		rows:  make([][]*big.Int, numRows),
	}

	rowBase := new(big.Int).Mod(base, p)
	for i := 0; i < numRows; i++ {
		row := make([]*big.Int, width)
		row[0] = big.NewInt(1)
		for d := 1; d < width; d++ {
			row[d] = new(big.Int).Mul(row[d-1], rowBase)
			pr.mod.Mod(row[d], row[d])
		}
		pr.rows[i] = row
		// base^(2^(k*(i+1))) = (base^(2^(k*i)))^(2^k) = row[width-1] * rowBase
		rowBase = new(big.Int).Mul(row[width-1], rowBase)
		pr.mod.Mod(rowBase, rowBase)
	}

	Logger.WithFields(logrus.Fields{
		"level": level.String(),
		"rows":  numRows,
		"width": width,
	}).Debug("computed PowRadix table")
	return pr
}

// Level returns the digit width of the table.
func (pr *PowRadix) Level() PowRadixLevel { return pr.level }

// Exp computes base^x mod p for 0 <= x < q. Larger exponents are reduced with
// a plain modular exponentiation for the bits beyond the table.
func (pr *PowRadix) Exp(x *big.Int) *big.Int {
	k := int(pr.level)
	ret := big.NewInt(1)
	for i, row := range pr.rows {
		d := digit(x, i*k, k)
		if d == 0 {
			continue
		}
		ret.Mul(ret, row[d])
		pr.mod.Mod(ret, ret)
	}
	if x.BitLen() > len(pr.rows)*k {
		// exponent not covered by the table: the highest row base raised once more
		last := pr.rows[len(pr.rows)-1]
		top := new(big.Int).Mul(last[len(last)-1], last[1])
		pr.mod.Mod(top, top)
		high := new(big.Int).Rsh(x, uint(len(pr.rows)*k))
		top.Exp(top, high, pr.mod.Modulus())
		ret.Mul(ret, top)
		pr.mod.Mod(ret, ret)
	}
	return ret
}

// digit returns the k-bit little-endian digit of x starting at bit offset.
func digit(x *big.Int, offset, k int) int {
	d := 0
	for j := 0; j < k; j++ {
		d |= int(x.Bit(offset+j)) << uint(j)
	}
	return d
}
