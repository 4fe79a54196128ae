// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ballotcrypt

import (
	"context"
	"fmt"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/ballotcrypt/dlog"
	"github.com/privacybydesign/ballotcrypt/elgamal"
	"github.com/privacybydesign/ballotcrypt/group"
	"github.com/privacybydesign/ballotcrypt/zkproof"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	ErrSelfCheck        = errors.New("ballotcrypt: proof fails its own verification")
	ErrLengthMismatch   = errors.New("ballotcrypt: number of selections and nonces differ")
	ErrInvalidSelection = errors.New("ballotcrypt: selection proof does not verify")
	ErrDecryption       = errors.New("ballotcrypt: plaintext beyond discrete log search bound")
)

// Core encrypts, proves and decrypts in one group context. It holds the
// context and a discrete log solver shared by all decryptions; a Core may be
// used from multiple goroutines.
type Core struct {
	params *Parameters
	ctx    *group.Context
	solver *dlog.Solver
}

// Selection is an encrypted vote for one option, with the proof that it
// encrypts 0 or 1.
type Selection struct {
	Ciphertext *elgamal.Ciphertext
	Proof      *zkproof.DisjunctiveProof
}

// New builds a Core from params.
func New(params *Parameters) (*Core, error) {
	if params == nil {
		return nil, errors.WrapPrefix(ErrUnknownParameters, "nil parameters", 0)
	}
	ctx, err := group.ContextByName(params.Context)
	if err != nil {
		return nil, err
	}
	max := params.MaxExponent
	if max == 0 {
		max = dlog.DefaultMaxExponent
	}
	cp := *params
	cp.MaxExponent = max
	if cp.Workers < 1 {
		cp.Workers = 1
	}
	Logger.WithFields(logrus.Fields{
		"context": ctx.String(),
		"strict":  cp.StrictProofs,
		"workers": cp.Workers,
	}).Debug("created core")
	return &Core{
		params: &cp,
		ctx:    ctx,
		solver: dlog.New(ctx.GModP(), max),
	}, nil
}

// Context returns the group context of the core.
func (c *Core) Context() *group.Context { return c.ctx }

// Parameters returns a copy of the parameters the core was built with.
func (c *Core) Parameters() Parameters { return *c.params }

// selfCheck applies the proof policy to a failed create-time check.
func (c *Core) selfCheck(ok bool, what string) error {
	if ok {
		return nil
	}
	if c.params.StrictProofs {
		return errors.WrapPrefix(ErrSelfCheck, what, 0)
	}
	Logger.WithField("proof", what).Warn("proof fails its own verification")
	return nil
}

// EncryptSelection encrypts vote (0 or 1) under pk with the given nonce and
// proves it is 0 or 1. The proof randomness is derived from seed. A nil
// nonce is drawn at random; such a selection cannot take part in
// ProveContestLimit.
func (c *Core) EncryptSelection(pk *elgamal.PublicKey, vote uint64, nonce, seed, qbar *group.ElementModQ) (*Selection, error) {
	if vote > 1 {
		return nil, zkproof.ErrPlaintextNotBinary
	}
	if nonce == nil {
		nonce = c.ctx.RandQ(2)
	}
	ct, err := elgamal.Encrypt(pk, vote, nonce)
	if err != nil {
		return nil, err
	}
	proof, ok, err := zkproof.NewDisjunctiveProofChecked(ct, vote, nonce, pk, seed, qbar)
	if err != nil {
		return nil, err
	}
	if err = c.selfCheck(ok, "selection"); err != nil {
		return nil, err
	}
	return &Selection{Ciphertext: ct, Proof: proof}, nil
}

// VerifySelection reports whether the proof of sel holds for pk and qbar.
func (c *Core) VerifySelection(pk *elgamal.PublicKey, sel *Selection, qbar *group.ElementModQ) bool {
	if sel == nil {
		return false
	}
	return sel.Proof.IsValid(sel.Ciphertext, pk, qbar)
}

// VerifySelections verifies sels concurrently, using at most
// Parameters.Workers goroutines. It returns -1 if all selections verify, and
// otherwise the lowest index of a failing selection together with an error
// wrapping ErrInvalidSelection. Cancelling ctx aborts the batch.
func (c *Core) VerifySelections(ctx context.Context, pk *elgamal.PublicKey, sels []*Selection, qbar *group.ElementModQ) (int, error) {
	valid := make([]bool, len(sels))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.params.Workers)
	for i := range sels {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			valid[i] = c.VerifySelection(pk, sels[i], qbar)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return -1, errors.WrapPrefix(err, "verifying selections", 0)
	}

	for i, ok := range valid {
		if !ok {
			Logger.WithField("index", i).Info("selection proof does not verify")
			return i, errors.WrapPrefix(ErrInvalidSelection, fmt.Sprintf("selection %d", i), 0)
		}
	}
	return -1, nil
}

func ciphertexts(sels []*Selection) []*elgamal.Ciphertext {
	cts := make([]*elgamal.Ciphertext, len(sels))
	for i, s := range sels {
		cts[i] = s.Ciphertext
	}
	return cts
}

// ProveContestLimit proves that the selections of a contest sum to limit.
// nonces[i] must be the nonce selection i was encrypted with. The
// homomorphic sum of the selections is encrypted under the sum of the nonces,
// so the proof is a known-nonce constant proof on that sum.
func (c *Core) ProveContestLimit(pk *elgamal.PublicKey, sels []*Selection, nonces []*group.ElementModQ,
	limit uint64, seed, qbar *group.ElementModQ) (*zkproof.ConstantProof, error) {
	if len(sels) != len(nonces) {
		return nil, ErrLengthMismatch
	}
	total, err := elgamal.Add(ciphertexts(sels)...)
	if err != nil {
		return nil, err
	}
	nonce := c.ctx.ZeroModQ()
	for _, n := range nonces {
		nonce = nonce.Add(n)
	}
	proof, ok, err := zkproof.NewConstantProofKnownNonceChecked(total, limit, nonce, pk, seed, qbar)
	if err != nil {
		return nil, err
	}
	if err = c.selfCheck(ok, "contest limit"); err != nil {
		return nil, err
	}
	return proof, nil
}

// VerifyContestLimit reports whether proof shows that sels sum to limit.
func (c *Core) VerifyContestLimit(pk *elgamal.PublicKey, sels []*Selection, proof *zkproof.ConstantProof,
	limit uint64, qbar *group.ElementModQ) bool {
	total, err := elgamal.Add(ciphertexts(sels)...)
	if err != nil {
		return false
	}
	return proof.IsValidConstant(total, pk, qbar, limit)
}

// Decrypt recovers the plaintext of ct, using the shared solver.
func (c *Core) Decrypt(sk *elgamal.SecretKey, ct *elgamal.Ciphertext) (uint64, error) {
	m, ok := ct.Decrypt(sk, c.solver)
	if !ok {
		return 0, errors.WrapPrefix(ErrDecryption, fmt.Sprintf("bound %d", c.solver.MaxExponent()), 0)
	}
	return m, nil
}

// DecryptTally adds cts homomorphically and decrypts the sum.
func (c *Core) DecryptTally(sk *elgamal.SecretKey, cts ...*elgamal.Ciphertext) (uint64, error) {
	total, err := elgamal.Add(cts...)
	if err != nil {
		return 0, err
	}
	return c.Decrypt(sk, total)
}
