// Package elgamal implements exponential ElGamal over a group.Context:
// a plaintext m is encrypted as (G^r, G^m * K^r) for public key K and nonce r,
// so that multiplying ciphertexts adds their plaintexts. It also provides a
// hashed ElGamal stream cipher for byte strings of arbitrary length.
package elgamal

import (
	"github.com/go-errors/errors"
	"github.com/multiformats/go-multihash"
	"github.com/privacybydesign/ballotcrypt/group"
	"github.com/sirupsen/logrus"
)

// Logger is used for key generation and decryption diagnostics. Secret
// values are never logged.
var Logger = logrus.StandardLogger()

var (
	ErrInvalidSecretKey = errors.New("elgamal: secret key must be at least 2")
	ErrInvalidPublicKey = errors.New("elgamal: public key is not a valid residue")
	ErrInvalidNonce     = errors.New("elgamal: nonce must be at least 2")
	ErrInvalidPlaintext = errors.New("elgamal: plaintext out of range")
	ErrNoCiphertexts    = errors.New("elgamal: no ciphertexts to add")
)

// PublicKey is an ElGamal public key K = G^s. It carries a fixed-base table
// for K, since every encryption raises K to a fresh nonce, and a cached
// inverse for proof verification.
type PublicKey struct {
	key     *group.ElementModP
	inverse *group.ElementModP
}

// SecretKey is an ElGamal secret exponent s >= 2.
type SecretKey struct {
	key *group.ElementModQ
}

// Keypair couples a secret key with its public key.
type Keypair struct {
	Secret *SecretKey
	Public *PublicKey
}

// NewPublicKey validates that k lies in the order Q subgroup and accelerates
// it at the level configured for its context.
func NewPublicKey(k *group.ElementModP) (*PublicKey, error) {
	if k == nil || !k.IsValidResidue() || k.Equal(k.Context().OneModP()) {
		return nil, ErrInvalidPublicKey
	}
	return newPublicKey(k), nil
}

func newPublicKey(k *group.ElementModP) *PublicKey {
	return &PublicKey{
		key:     k.Accelerate(k.Context().Acceleration()),
		inverse: k.Inverse(),
	}
}

// NewSecretKey wraps s, which must be at least 2.
func NewSecretKey(s *group.ElementModQ) (*SecretKey, error) {
	if s == nil || s.CmpInt(2) < 0 {
		return nil, ErrInvalidSecretKey
	}
	return &SecretKey{key: s}, nil
}

// NewKeypair derives the public key G^s from s.
func NewKeypair(s *group.ElementModQ) (*Keypair, error) {
	sk, err := NewSecretKey(s)
	if err != nil {
		return nil, err
	}
	return &Keypair{Secret: sk, Public: sk.PublicKey()}, nil
}

// GenerateKeypair draws a random secret key in [2, Q).
func GenerateKeypair(ctx *group.Context) *Keypair {
	kp, err := NewKeypair(ctx.RandQ(2))
	if err != nil {
		// RandQ(2) never returns a value below 2
		panic(err)
	}
	Logger.WithFields(logrus.Fields{
		"context":     ctx.Name(),
		"fingerprint": kp.Public.Fingerprint(),
	}).Debug("generated ElGamal keypair")
	return kp
}

// Element returns the secret exponent.
func (sk *SecretKey) Element() *group.ElementModQ { return sk.key }

func (sk *SecretKey) Context() *group.Context { return sk.key.Context() }

// PublicKey computes G^s.
func (sk *SecretKey) PublicKey() *PublicKey {
	return newPublicKey(sk.key.Context().GPow(sk.key))
}

// Element returns K. The returned element is accelerated.
func (pk *PublicKey) Element() *group.ElementModP { return pk.key }

// Inverse returns K^-1.
func (pk *PublicKey) Inverse() *group.ElementModP { return pk.inverse }

func (pk *PublicKey) Context() *group.Context { return pk.key.Context() }

// Equal reports whether pk and o are the same key.
func (pk *PublicKey) Equal(o *PublicKey) bool {
	if pk == nil || o == nil {
		return pk == o
	}
	return pk.key.Equal(o.key)
}

// Fingerprint identifies the key in logs: the base58 form of the SHA2-256
// multihash of its fixed-width encoding.
func (pk *PublicKey) Fingerprint() string {
	mh, err := multihash.Sum(pk.key.Bytes(), multihash.SHA2_256, -1)
	if err != nil {
		// SHA2_256 is always registered
		panic(err)
	}
	return mh.B58String()
}

func (pk *PublicKey) String() string { return pk.Fingerprint() }
