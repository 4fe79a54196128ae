package elgamal

import (
	"math/big"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/ballotcrypt/dlog"
	"github.com/privacybydesign/ballotcrypt/group"
	"github.com/privacybydesign/ballotcrypt/hash"
)

// Ciphertext is an exponential ElGamal ciphertext (G^r, G^m * K^r).
type Ciphertext struct {
	Pad  *group.ElementModP
	Data *group.ElementModP
}

// Encrypt encrypts m under pk. A nil nonce is replaced by a random one in
// [2, Q); an explicit nonce below 2 is rejected, as is m >= Q.
func Encrypt(pk *PublicKey, m uint64, nonce *group.ElementModQ) (*Ciphertext, error) {
	return EncryptBig(pk, new(big.Int).SetUint64(m), nonce)
}

// EncryptBig is Encrypt for plaintexts given as big integers; m must lie in
// [0, Q).
func EncryptBig(pk *PublicKey, m *big.Int, nonce *group.ElementModQ) (*Ciphertext, error) {
	e, ok := pk.Context().ElementModQ(m)
	if !ok {
		return nil, errors.WrapPrefix(ErrInvalidPlaintext, "EncryptBig", 0)
	}
	return encrypt(pk, e, nonce)
}

func encrypt(pk *PublicKey, m, nonce *group.ElementModQ) (*Ciphertext, error) {
	ctx := pk.Context()
	if nonce == nil {
		nonce = ctx.RandQ(2)
	} else if nonce.CmpInt(2) < 0 {
		return nil, ErrInvalidNonce
	}
	return &Ciphertext{
		Pad:  ctx.GPow(nonce),
		Data: ctx.GPow(m).Mul(pk.key.Exp(nonce)),
	}, nil
}

// Context returns the context of the pad.
func (c *Ciphertext) Context() *group.Context { return c.Pad.Context() }

// IsValidResidue reports whether both components lie in the order Q
// subgroup.
func (c *Ciphertext) IsValidResidue() bool {
	return c.Pad.IsValidResidue() && c.Data.IsValidResidue()
}

// PartialDecrypt removes the blinding factor pad^s and returns G^m.
func (c *Ciphertext) PartialDecrypt(sk *SecretKey) *group.ElementModP {
	return c.Data.Div(c.Pad.Exp(sk.key))
}

// Decrypt recovers m using the secret key. It returns false when m exceeds the
// search bound of solver. A nil solver searches up to
// dlog.DefaultMaxExponent with a fresh cache.
func (c *Ciphertext) Decrypt(sk *SecretKey, solver *dlog.Solver) (uint64, bool) {
	return solve(c.PartialDecrypt(sk), solver)
}

// DecryptWithNonce recovers m from the encryption nonce instead of the secret
// key. It returns false when the nonce does not match the pad or m exceeds
// the search bound of solver.
func (c *Ciphertext) DecryptWithNonce(pk *PublicKey, nonce *group.ElementModQ, solver *dlog.Solver) (uint64, bool) {
	ctx := pk.Context()
	if !ctx.GPow(nonce).Equal(c.Pad) {
		return 0, false
	}
	return solve(c.Data.Div(pk.key.Exp(nonce)), solver)
}

func solve(gm *group.ElementModP, solver *dlog.Solver) (uint64, bool) {
	if solver == nil {
		solver = dlog.ForContext(gm.Context())
	}
	m, ok := solver.Solve(gm)
	if !ok {
		Logger.WithField("ceiling", solver.MaxExponent()).Info("plaintext beyond discrete log search bound")
	}
	return m, ok
}

// Add multiplies c and o component-wise; the result encrypts the sum of
// their plaintexts.
func (c *Ciphertext) Add(o *Ciphertext) *Ciphertext {
	return &Ciphertext{
		Pad:  c.Pad.Mul(o.Pad),
		Data: c.Data.Mul(o.Data),
	}
}

// Add folds cts into one ciphertext encrypting the sum of their plaintexts.
// It requires at least one ciphertext and panics on mixed contexts.
func Add(cts ...*Ciphertext) (*Ciphertext, error) {
	if len(cts) == 0 {
		return nil, ErrNoCiphertexts
	}
	sum := cts[0]
	for _, c := range cts[1:] {
		sum = sum.Add(c)
	}
	return sum, nil
}

// Equal reports whether both components match.
func (c *Ciphertext) Equal(o *Ciphertext) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.Pad.Equal(o.Pad) && c.Data.Equal(o.Data)
}

// CryptoHash is the hash of (pad, data).
func (c *Ciphertext) CryptoHash() *group.ElementModQ {
	return hash.Elems(c.Context(), c.Pad, c.Data)
}
