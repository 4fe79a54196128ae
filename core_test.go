// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ballotcrypt

import (
	"context"
	"testing"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/ballotcrypt/elgamal"
	"github.com/privacybydesign/ballotcrypt/group"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	l := logrus.New()
	l.SetLevel(logrus.FatalLevel)
	SetLogger(l)
}

func testCore(t *testing.T) *Core {
	params, err := ParametersFor(group.ContextTest)
	require.NoError(t, err)
	core, err := New(params)
	require.NoError(t, err)
	return core
}

// encryptContest encrypts votes with nonces 10, 11, ... so that they can be
// reused for a contest limit proof.
func encryptContest(t *testing.T, core *Core, kp *elgamal.Keypair, qbar *group.ElementModQ, votes ...uint64) ([]*Selection, []*group.ElementModQ) {
	ctx := core.Context()
	sels := make([]*Selection, len(votes))
	nonces := make([]*group.ElementModQ, len(votes))
	for i, v := range votes {
		nonces[i] = ctx.UintModQ(uint64(10 + i))
		sel, err := core.EncryptSelection(kp.Public, v, nonces[i], ctx.UintModQ(uint64(100+i)), qbar)
		require.NoError(t, err)
		sels[i] = sel
	}
	return sels, nonces
}

func TestParameters(t *testing.T) {
	assert.Equal(t, []string{group.Context3072, group.Context4096, group.ContextTest}, DefaultContexts)

	p, err := ParametersFor(group.ContextTest)
	require.NoError(t, err)
	p.Workers = 100
	assert.Equal(t, 4, DefaultParameters[group.ContextTest].Workers, "ParametersFor must return a copy")

	_, err = ParametersFor("nope")
	assert.True(t, errors.Is(err, ErrUnknownParameters))
}

func TestNewCore(t *testing.T) {
	core := testCore(t)
	assert.Equal(t, group.ContextTest, core.Context().Name())
	assert.Equal(t, uint64(100000), core.Parameters().MaxExponent)

	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(&Parameters{Context: "nope"})
	assert.True(t, errors.Is(err, group.ErrUnknownContext))

	core, err = New(&Parameters{Context: group.ContextTest})
	require.NoError(t, err)
	assert.Equal(t, 1, core.Parameters().Workers)
	assert.NotZero(t, core.Parameters().MaxExponent)
}

func TestSelections(t *testing.T) {
	core := testCore(t)
	ctx := core.Context()
	kp := elgamal.GenerateKeypair(ctx)
	qbar := ctx.UintModQ(42)

	for _, vote := range []uint64{0, 1} {
		sel, err := core.EncryptSelection(kp.Public, vote, nil, nil, qbar)
		require.NoError(t, err)
		assert.True(t, core.VerifySelection(kp.Public, sel, qbar))
		assert.False(t, core.VerifySelection(kp.Public, sel, ctx.UintModQ(43)))

		m, err := core.Decrypt(kp.Secret, sel.Ciphertext)
		require.NoError(t, err)
		assert.Equal(t, vote, m)
	}

	_, err := core.EncryptSelection(kp.Public, 2, nil, nil, qbar)
	assert.Error(t, err)
	assert.False(t, core.VerifySelection(kp.Public, nil, qbar))
}

func TestVerifySelections(t *testing.T) {
	core := testCore(t)
	kp := elgamal.GenerateKeypair(core.Context())
	qbar := core.Context().UintModQ(7)

	sels, _ := encryptContest(t, core, kp, qbar, 1, 0, 0, 1, 0, 1, 1, 0, 0, 0)
	idx, err := core.VerifySelections(context.Background(), kp.Public, sels, qbar)
	require.NoError(t, err)
	assert.Equal(t, -1, idx)

	// Swap the proofs of two selections with different plaintexts; the
	// lowest broken index must be reported.
	sels[5].Proof, sels[7].Proof = sels[7].Proof, sels[5].Proof
	idx, err = core.VerifySelections(context.Background(), kp.Public, sels, qbar)
	assert.True(t, errors.Is(err, ErrInvalidSelection))
	assert.Equal(t, 5, idx)

	idx, err = core.VerifySelections(context.Background(), kp.Public, nil, qbar)
	require.NoError(t, err)
	assert.Equal(t, -1, idx)
}

func TestVerifySelectionsCancelled(t *testing.T) {
	core := testCore(t)
	kp := elgamal.GenerateKeypair(core.Context())
	qbar := core.Context().UintModQ(7)
	sels, _ := encryptContest(t, core, kp, qbar, 1, 0, 1)

	cctx, cancel := context.WithCancel(context.Background())
	cancel()
	idx, err := core.VerifySelections(cctx, kp.Public, sels, qbar)
	assert.Error(t, err)
	assert.Equal(t, -1, idx)
}

func TestContestLimit(t *testing.T) {
	core := testCore(t)
	ctx := core.Context()
	kp := elgamal.GenerateKeypair(ctx)
	qbar := ctx.UintModQ(99)

	sels, nonces := encryptContest(t, core, kp, qbar, 0, 1, 1, 0)
	proof, err := core.ProveContestLimit(kp.Public, sels, nonces, 2, ctx.UintModQ(5), qbar)
	require.NoError(t, err)
	assert.True(t, core.VerifyContestLimit(kp.Public, sels, proof, 2, qbar))
	assert.False(t, core.VerifyContestLimit(kp.Public, sels, proof, 3, qbar))
	assert.False(t, core.VerifyContestLimit(kp.Public, sels[:3], proof, 2, qbar))
	assert.False(t, core.VerifyContestLimit(kp.Public, nil, proof, 2, qbar))

	_, err = core.ProveContestLimit(kp.Public, sels, nonces[:2], 2, nil, qbar)
	assert.True(t, errors.Is(err, ErrLengthMismatch))
}

func TestContestLimitStrict(t *testing.T) {
	params, err := ParametersFor(group.ContextTest)
	require.NoError(t, err)
	params.StrictProofs = true
	core, err := New(params)
	require.NoError(t, err)
	ctx := core.Context()
	kp := elgamal.GenerateKeypair(ctx)
	qbar := ctx.UintModQ(3)

	sels, nonces := encryptContest(t, core, kp, qbar, 1, 1, 0)

	// Claiming the wrong total gives a proof that fails its own check.
	_, err = core.ProveContestLimit(kp.Public, sels, nonces, 1, nil, qbar)
	assert.True(t, errors.Is(err, ErrSelfCheck))

	proof, err := core.ProveContestLimit(kp.Public, sels, nonces, 2, nil, qbar)
	require.NoError(t, err)
	assert.True(t, core.VerifyContestLimit(kp.Public, sels, proof, 2, qbar))

	// Without strict proofs the broken proof is returned and fails to verify.
	lax := testCore(t)
	proof, err = lax.ProveContestLimit(kp.Public, sels, nonces, 1, nil, qbar)
	require.NoError(t, err)
	assert.False(t, lax.VerifyContestLimit(kp.Public, sels, proof, 1, qbar))
}

func TestDecryptTally(t *testing.T) {
	core := testCore(t)
	ctx := core.Context()
	kp := elgamal.GenerateKeypair(ctx)

	var cts []*elgamal.Ciphertext
	for i := uint64(0); i < 20; i++ {
		ct, err := elgamal.Encrypt(kp.Public, i%2, nil)
		require.NoError(t, err)
		cts = append(cts, ct)
	}
	total, err := core.DecryptTally(kp.Secret, cts...)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), total)

	_, err = core.DecryptTally(kp.Secret)
	assert.True(t, errors.Is(err, elgamal.ErrNoCiphertexts))
}

func TestDecryptBound(t *testing.T) {
	core, err := New(&Parameters{Context: group.ContextTest, MaxExponent: 10, Workers: 1})
	require.NoError(t, err)
	kp := elgamal.GenerateKeypair(core.Context())

	ct, err := elgamal.Encrypt(kp.Public, 10, nil)
	require.NoError(t, err)
	m, err := core.Decrypt(kp.Secret, ct)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), m)

	ct, err = elgamal.Encrypt(kp.Public, 11, nil)
	require.NoError(t, err)
	_, err = core.Decrypt(kp.Secret, ct)
	assert.True(t, errors.Is(err, ErrDecryption))
}
