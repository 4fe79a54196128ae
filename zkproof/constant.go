package zkproof

import (
	"github.com/go-errors/errors"
	"github.com/privacybydesign/ballotcrypt/elgamal"
	"github.com/privacybydesign/ballotcrypt/group"
	"github.com/privacybydesign/ballotcrypt/hash"
	"github.com/sirupsen/logrus"
)

var ErrMissingNonce = errors.New("zkproof: nonce or secret key is required")

// ConstantKind tells which secret a ConstantProof proves knowledge of.
type ConstantKind uint8

const (
	// KnownNonce proves with the (aggregate) encryption nonce, as an
	// encrypting device does.
	KnownNonce ConstantKind = iota + 1
	// KnownSecretKey proves with the secret key, as a decrypting trustee does.
	KnownSecretKey
)

func (k ConstantKind) String() string {
	switch k {
	case KnownNonce:
		return "known nonce"
	case KnownSecretKey:
		return "known secret key"
	}
	return "unknown"
}

// ConstantProof shows that an ElGamal ciphertext encrypts Constant.
type ConstantProof struct {
	Proof    *GenericProof
	Constant uint64
	Kind     ConstantKind
}

// CompactConstantProof is a ConstantProof without commitments.
type CompactConstantProof struct {
	Proof    *CompactGenericProof
	Constant uint64
	Kind     ConstantKind
}

const constantNonceHeader = "constant-chaum-pedersen-proof"

// constantStatement divides G^constant out of the data so that the
// statement is an encryption of zero.
func constantStatement(kind ConstantKind, ct *elgamal.Ciphertext, pk *elgamal.PublicKey, constant uint64) Statement {
	ctx := ct.Context()
	data := ct.Data.Div(ctx.GPowUint(constant))
	if kind == KnownNonce {
		return Statement{G: ctx.GModP(), GX: ct.Pad, H: pk.Element(), HX: data}
	}
	return Statement{G: ctx.GModP(), GX: pk.Element(), H: ct.Pad, HX: data}
}

func constantHeader(ct *elgamal.Ciphertext, constant uint64, qbar *group.ElementModQ) []interface{} {
	return []interface{}{qbar, ct.Pad, ct.Data, constant}
}

// commitNonce derives the commitment exponent from seed, or draws one when
// seed is nil.
func commitNonce(ctx *group.Context, seed *group.ElementModQ, header string) *group.ElementModQ {
	if seed == nil {
		return ctx.RandQ(0)
	}
	return hash.NewNonces(seed, header).Get(0)
}

// NewConstantProofKnownNonce proves that ct = Encrypt(pk, constant, nonce).
// The commitment is derived from seed, so equal inputs give equal proofs; a
// nil seed gives a randomized proof. qbar is the extended base hash of the
// election the ciphertext belongs to.
func NewConstantProofKnownNonce(ct *elgamal.Ciphertext, constant uint64, nonce *group.ElementModQ,
	pk *elgamal.PublicKey, seed, qbar *group.ElementModQ) (*ConstantProof, error) {
	p, ok, err := NewConstantProofKnownNonceChecked(ct, constant, nonce, pk, seed, qbar)
	if err != nil {
		return nil, err
	}
	warnSelfCheck(p, ok)
	return p, nil
}

// NewConstantProofKnownNonceChecked is NewConstantProofKnownNonce that
// reports the outcome of the self check to the caller instead of logging it.
func NewConstantProofKnownNonceChecked(ct *elgamal.Ciphertext, constant uint64, nonce *group.ElementModQ,
	pk *elgamal.PublicKey, seed, qbar *group.ElementModQ) (*ConstantProof, bool, error) {
	if nonce == nil {
		return nil, false, ErrMissingNonce
	}
	p, ok := newConstantProof(KnownNonce, ct, constant, nonce, pk, seed, qbar)
	return p, ok, nil
}

// NewConstantProofKnownSecretKey proves that ct decrypts to constant under
// the secret key of kp.
func NewConstantProofKnownSecretKey(ct *elgamal.Ciphertext, constant uint64, kp *elgamal.Keypair,
	seed, qbar *group.ElementModQ) (*ConstantProof, error) {
	if kp == nil || kp.Secret == nil {
		return nil, ErrMissingNonce
	}
	p, ok := newConstantProof(KnownSecretKey, ct, constant, kp.Secret.Element(), kp.Public, seed, qbar)
	warnSelfCheck(p, ok)
	return p, nil
}

func warnSelfCheck(p *ConstantProof, ok bool) {
	if !ok {
		Logger.WithFields(logrus.Fields{"kind": p.Kind.String(), "constant": p.Constant}).
			Warn("constant proof fails its own verification")
	}
}

func newConstantProof(kind ConstantKind, ct *elgamal.Ciphertext, constant uint64, x *group.ElementModQ,
	pk *elgamal.PublicKey, seed, qbar *group.ElementModQ) (*ConstantProof, bool) {
	ctx := ct.Context()
	w := commitNonce(ctx, seed, constantNonceHeader)
	stmt := constantStatement(kind, ct, pk, constant)
	p := &ConstantProof{
		Proof:    NewGenericProof(stmt, x, w, constantHeader(ct, constant, qbar)...),
		Constant: constant,
		Kind:     kind,
	}
	return p, p.IsValid(ct, pk, qbar)
}

// IsValid verifies the proof against ct, pk and qbar for the constant
// embedded in the proof.
func (p *ConstantProof) IsValid(ct *elgamal.Ciphertext, pk *elgamal.PublicKey, qbar *group.ElementModQ) bool {
	if p == nil || ct == nil || pk == nil {
		return false
	}
	if p.Kind != KnownNonce && p.Kind != KnownSecretKey {
		return false
	}
	if !ct.IsValidResidue() {
		Logger.Debug("constant proof: ciphertext outside the subgroup")
		return false
	}
	stmt := constantStatement(p.Kind, ct, pk, p.Constant)
	return p.Proof.IsValid(stmt, constantHeader(ct, p.Constant, qbar)...)
}

// IsValidConstant is IsValid that additionally requires the embedded
// constant to equal expected.
func (p *ConstantProof) IsValidConstant(ct *elgamal.Ciphertext, pk *elgamal.PublicKey, qbar *group.ElementModQ, expected uint64) bool {
	if p == nil || p.Constant != expected {
		return false
	}
	return p.IsValid(ct, pk, qbar)
}

// Compact drops the commitments.
func (p *ConstantProof) Compact() *CompactConstantProof {
	return &CompactConstantProof{Proof: p.Proof.Compact(), Constant: p.Constant, Kind: p.Kind}
}

// Expand recomputes the commitments for ct and pk. It returns nil if the
// ciphertext or key lies outside the subgroup.
func (p *CompactConstantProof) Expand(ct *elgamal.Ciphertext, pk *elgamal.PublicKey) *ConstantProof {
	if p.Kind != KnownNonce && p.Kind != KnownSecretKey {
		return nil
	}
	proof := p.Proof.Expand(constantStatement(p.Kind, ct, pk, p.Constant))
	if proof == nil {
		return nil
	}
	return &ConstantProof{Proof: proof, Constant: p.Constant, Kind: p.Kind}
}
