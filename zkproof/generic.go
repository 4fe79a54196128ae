// Package zkproof implements non-interactive Chaum-Pedersen proofs over a
// group.Context: the generic proof that two pairs (g, g^x) and (h, h^x) share
// the exponent x, and the two ElGamal specific forms built on it, proving
// that a ciphertext encrypts a given constant, or encrypts either 0 or 1.
//
// Challenges are computed with hash.Elems, so proofs are bound to every value
// passed as header.
package zkproof

import (
	"github.com/privacybydesign/ballotcrypt/group"
	"github.com/privacybydesign/ballotcrypt/hash"
	"github.com/sirupsen/logrus"
)

// Logger reports proofs that fail their create-time self check and the
// reason a verification fails.
var Logger = logrus.StandardLogger()

// Statement is the public part of a generic proof: GX = G^x and HX = H^x for
// the same secret x.
type Statement struct {
	G, GX, H, HX *group.ElementModP
}

// GenericProof is a Chaum-Pedersen proof in expanded form: commitments
// A = G^w and B = H^w, challenge C and response R = w + C*x.
type GenericProof struct {
	A, B *group.ElementModP
	C, R *group.ElementModQ
}

// CompactGenericProof holds only the challenge and response. The commitments
// follow from the statement, see Expand.
type CompactGenericProof struct {
	C, R *group.ElementModQ
}

func (s Statement) context() *group.Context { return s.G.Context() }

// valid reports whether all four values lie in the order Q subgroup.
func (s Statement) valid() bool {
	for _, e := range []*group.ElementModP{s.G, s.GX, s.H, s.HX} {
		if e == nil || !e.IsValidResidue() {
			return false
		}
	}
	return true
}

// pow uses the generator table when base is the generator of its context.
func pow(base *group.ElementModP, e *group.ElementModQ) *group.ElementModP {
	ctx := base.Context()
	if !base.IsAccelerated() && base.Equal(ctx.GModP()) {
		return ctx.GPow(e)
	}
	return base.Exp(e)
}

// commitments computes base^r * x^(-c) for both pairs of the statement.
func (s Statement) commitments(c, r *group.ElementModQ) (*group.ElementModP, *group.ElementModP) {
	a := pow(s.G, r).Mul(s.GX.ExpNeg(c))
	b := pow(s.H, r).Mul(s.HX.ExpNeg(c))
	return a, b
}

func challenge(ctx *group.Context, header []interface{}, a, b *group.ElementModP) *group.ElementModQ {
	items := make([]interface{}, 0, len(header)+2)
	items = append(items, header...)
	items = append(items, a, b)
	return hash.Elems(ctx, items...)
}

// NewGenericProof proves knowledge of x for stmt, using the commitment
// exponent w. The challenge is the hash of header followed by both
// commitments.
func NewGenericProof(stmt Statement, x, w *group.ElementModQ, header ...interface{}) *GenericProof {
	a := pow(stmt.G, w)
	b := pow(stmt.H, w)
	c := challenge(stmt.context(), header, a, b)
	return &GenericProof{A: a, B: b, C: c, R: w.Add(c.Mul(x))}
}

// IsValid recomputes the commitments from the response and checks them and
// the challenge.
func (p *GenericProof) IsValid(stmt Statement, header ...interface{}) bool {
	return p.verify(stmt, true, true, header)
}

// IsValidUnchecked is IsValid without the challenge check, for proofs whose
// challenge is derived by an enclosing proof.
func (p *GenericProof) IsValidUnchecked(stmt Statement) bool {
	return p.verify(stmt, true, false, nil)
}

// HashesOnlyValid checks only the challenge. It is meant for proofs obtained
// from Expand, whose commitments are consistent with the response by
// construction.
func (p *GenericProof) HashesOnlyValid(stmt Statement, header ...interface{}) bool {
	return p.verify(stmt, false, true, header)
}

func (p *GenericProof) verify(stmt Statement, recompute, checkHash bool, header []interface{}) bool {
	if p == nil || p.A == nil || p.B == nil || p.C == nil || p.R == nil {
		return false
	}
	if recompute {
		if !stmt.valid() {
			Logger.Debug("generic proof: statement outside the subgroup")
			return false
		}
		a, b := stmt.commitments(p.C, p.R)
		if !a.Equal(p.A) || !b.Equal(p.B) {
			Logger.Debug("generic proof: commitments do not match response")
			return false
		}
	}
	if checkHash && !challenge(stmt.context(), header, p.A, p.B).Equal(p.C) {
		Logger.Debug("generic proof: challenge mismatch")
		return false
	}
	return true
}

// Compact drops the commitments.
func (p *GenericProof) Compact() *CompactGenericProof {
	return &CompactGenericProof{C: p.C, R: p.R}
}

// Expand recomputes the commitments from stmt. It returns nil if stmt has
// values outside the subgroup.
func (p *CompactGenericProof) Expand(stmt Statement) *GenericProof {
	if !stmt.valid() {
		return nil
	}
	a, b := stmt.commitments(p.C, p.R)
	return &GenericProof{A: a, B: b, C: p.C, R: p.R}
}

// Equal reports whether all four values match.
func (p *GenericProof) Equal(o *GenericProof) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.A.Equal(o.A) && p.B.Equal(o.B) && p.C.Equal(o.C) && p.R.Equal(o.R)
}
