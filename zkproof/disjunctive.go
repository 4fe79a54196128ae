package zkproof

import (
	"github.com/go-errors/errors"
	"github.com/privacybydesign/ballotcrypt/elgamal"
	"github.com/privacybydesign/ballotcrypt/group"
	"github.com/privacybydesign/ballotcrypt/hash"
)

var ErrPlaintextNotBinary = errors.New("zkproof: disjunctive proofs cover plaintexts 0 and 1 only")

// DisjunctiveProof shows that an ElGamal ciphertext encrypts 0 or 1 without
// revealing which. Proof0 covers "encrypts 0", Proof1 covers "encrypts 1";
// one of them is simulated. Their challenges sum to C, the hash of the
// ciphertext and all four commitments.
type DisjunctiveProof struct {
	Proof0, Proof1 *GenericProof
	C              *group.ElementModQ
}

// CompactDisjunctiveProof is a DisjunctiveProof without commitments.
type CompactDisjunctiveProof struct {
	Proof0, Proof1 *CompactGenericProof
	C              *group.ElementModQ
}

const disjunctiveNonceHeader = "disjoint-chaum-pedersen-proof"

// disjunctiveStatements returns the statement for plaintext 0, on
// (G, pad, K, data), and for plaintext 1, on (G, pad, K, data/G).
func disjunctiveStatements(ct *elgamal.Ciphertext, pk *elgamal.PublicKey) (Statement, Statement) {
	ctx := ct.Context()
	g := ctx.GModP()
	k := pk.Element()
	return Statement{G: g, GX: ct.Pad, H: k, HX: ct.Data},
		Statement{G: g, GX: ct.Pad, H: k, HX: ct.Data.Mul(ctx.GInverseModP())}
}

func disjunctiveChallenge(ct *elgamal.Ciphertext, qbar *group.ElementModQ, a0, b0, a1, b1 *group.ElementModP) *group.ElementModQ {
	return hash.Elems(ct.Context(), qbar, ct.Pad, ct.Data, a0, b0, a1, b1)
}

// NewDisjunctiveProof proves that ct = Encrypt(pk, plaintext, nonce) with
// plaintext 0 or 1. The random values of the proof are derived from seed,
// so equal inputs give equal proofs; a nil seed gives a randomized proof.
func NewDisjunctiveProof(ct *elgamal.Ciphertext, plaintext uint64, nonce *group.ElementModQ,
	pk *elgamal.PublicKey, seed, qbar *group.ElementModQ) (*DisjunctiveProof, error) {
	p, ok, err := NewDisjunctiveProofChecked(ct, plaintext, nonce, pk, seed, qbar)
	if err != nil {
		return nil, err
	}
	if !ok {
		Logger.WithField("plaintext", plaintext).Warn("disjunctive proof fails its own verification")
	}
	return p, nil
}

// NewDisjunctiveProofChecked is NewDisjunctiveProof that reports the outcome
// of the self check to the caller instead of logging it.
func NewDisjunctiveProofChecked(ct *elgamal.Ciphertext, plaintext uint64, nonce *group.ElementModQ,
	pk *elgamal.PublicKey, seed, qbar *group.ElementModQ) (*DisjunctiveProof, bool, error) {
	if plaintext > 1 {
		return nil, false, ErrPlaintextNotBinary
	}
	if nonce == nil {
		return nil, false, ErrMissingNonce
	}
	ctx := ct.Context()
	if seed == nil {
		seed = ctx.RandQ(0)
	}
	nonces := hash.NewNonces(seed, disjunctiveNonceHeader).Take(3)
	// nonces[0] commits the honest branch; nonces[1] and nonces[2] are the
	// challenge and response of the simulated one.
	u, cs, vs := nonces[0], nonces[1], nonces[2]

	stmt0, stmt1 := disjunctiveStatements(ct, pk)
	var p *DisjunctiveProof
	if plaintext == 0 {
		a0, b0 := ctx.GPow(u), pk.Element().Exp(u)
		a1, b1 := stmt1.commitments(cs, vs)
		c := disjunctiveChallenge(ct, qbar, a0, b0, a1, b1)
		c0 := c.Sub(cs)
		p = &DisjunctiveProof{
			Proof0: &GenericProof{A: a0, B: b0, C: c0, R: u.Add(c0.Mul(nonce))},
			Proof1: &GenericProof{A: a1, B: b1, C: cs, R: vs},
			C:      c,
		}
	} else {
		a0, b0 := stmt0.commitments(cs, vs)
		a1, b1 := ctx.GPow(u), pk.Element().Exp(u)
		c := disjunctiveChallenge(ct, qbar, a0, b0, a1, b1)
		c1 := c.Sub(cs)
		p = &DisjunctiveProof{
			Proof0: &GenericProof{A: a0, B: b0, C: cs, R: vs},
			Proof1: &GenericProof{A: a1, B: b1, C: c1, R: u.Add(c1.Mul(nonce))},
			C:      c,
		}
	}

	return p, p.IsValid(ct, pk, qbar), nil
}

// IsValid verifies the proof against ct, pk and qbar.
func (p *DisjunctiveProof) IsValid(ct *elgamal.Ciphertext, pk *elgamal.PublicKey, qbar *group.ElementModQ) bool {
	if p == nil || p.C == nil || ct == nil || pk == nil {
		return false
	}
	if !ct.IsValidResidue() {
		Logger.Debug("disjunctive proof: ciphertext outside the subgroup")
		return false
	}
	stmt0, stmt1 := disjunctiveStatements(ct, pk)
	if !p.Proof0.IsValidUnchecked(stmt0) || !p.Proof1.IsValidUnchecked(stmt1) {
		return false
	}
	c := disjunctiveChallenge(ct, qbar, p.Proof0.A, p.Proof0.B, p.Proof1.A, p.Proof1.B)
	if !c.Equal(p.C) {
		Logger.Debug("disjunctive proof: challenge mismatch")
		return false
	}
	if !p.Proof0.C.Add(p.Proof1.C).Equal(c) {
		Logger.Debug("disjunctive proof: branch challenges do not sum to the challenge")
		return false
	}
	return true
}

// Compact drops the commitments of both branches.
func (p *DisjunctiveProof) Compact() *CompactDisjunctiveProof {
	return &CompactDisjunctiveProof{Proof0: p.Proof0.Compact(), Proof1: p.Proof1.Compact(), C: p.C}
}

// Expand recomputes the commitments for ct and pk. It returns nil if the
// ciphertext or key lies outside the subgroup.
func (p *CompactDisjunctiveProof) Expand(ct *elgamal.Ciphertext, pk *elgamal.PublicKey) *DisjunctiveProof {
	stmt0, stmt1 := disjunctiveStatements(ct, pk)
	p0 := p.Proof0.Expand(stmt0)
	p1 := p.Proof1.Expand(stmt1)
	if p0 == nil || p1 == nil {
		return nil
	}
	return &DisjunctiveProof{Proof0: p0, Proof1: p1, C: p.C}
}
