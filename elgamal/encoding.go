package elgamal

import (
	"github.com/go-errors/errors"
	"github.com/privacybydesign/ballotcrypt/cbor"
	"github.com/privacybydesign/ballotcrypt/group"
)

type encodedPublicKey struct {
	Context string `cbor:"0,keyasint"`
	Key     []byte `cbor:"1,keyasint"`
}

type encodedCiphertext struct {
	Context string `cbor:"0,keyasint"`
	Pad     []byte `cbor:"1,keyasint"`
	Data    []byte `cbor:"2,keyasint"`
}

type encodedHashedCiphertext struct {
	Context  string `cbor:"0,keyasint"`
	Pad      []byte `cbor:"1,keyasint"`
	Data     []byte `cbor:"2,keyasint"`
	Mac      []byte `cbor:"3,keyasint"`
	NumBytes int    `cbor:"4,keyasint"`
}

// EncodePublicKey returns the CBOR encoding of pk, tagged with its context.
func EncodePublicKey(pk *PublicKey) ([]byte, error) {
	return cbor.Marshal(encodedPublicKey{Context: pk.Context().Name(), Key: pk.key.Bytes()})
}

// DecodePublicKey decodes and validates a public key encoded in ctx.
func DecodePublicKey(ctx *group.Context, data []byte) (*PublicKey, error) {
	var enc encodedPublicKey
	if err := cbor.Unmarshal(data, &enc); err != nil {
		return nil, errors.WrapPrefix(err, "decoding public key", 0)
	}
	if err := ctx.CheckName(enc.Context); err != nil {
		return nil, err
	}
	k, err := ctx.DecodeModPBytes("public key", enc.Key)
	if err != nil {
		return nil, err
	}
	return NewPublicKey(k)
}

// EncodeCiphertext returns the CBOR encoding of c, tagged with its context.
func EncodeCiphertext(c *Ciphertext) ([]byte, error) {
	return cbor.Marshal(encodedCiphertext{
		Context: c.Context().Name(),
		Pad:     c.Pad.Bytes(),
		Data:    c.Data.Bytes(),
	})
}

// DecodeCiphertext decodes a ciphertext encoded in ctx. Components are range
// checked; residue membership is left to the proofs that cover them.
func DecodeCiphertext(ctx *group.Context, data []byte) (*Ciphertext, error) {
	var enc encodedCiphertext
	if err := cbor.Unmarshal(data, &enc); err != nil {
		return nil, errors.WrapPrefix(err, "decoding ciphertext", 0)
	}
	if err := ctx.CheckName(enc.Context); err != nil {
		return nil, err
	}
	pad, err := ctx.DecodeModPBytes("pad", enc.Pad)
	if err != nil {
		return nil, err
	}
	d, err := ctx.DecodeModPBytes("data", enc.Data)
	if err != nil {
		return nil, err
	}
	return &Ciphertext{Pad: pad, Data: d}, nil
}

// EncodeHashedCiphertext returns the CBOR encoding of c, tagged with its
// context.
func EncodeHashedCiphertext(c *HashedCiphertext) ([]byte, error) {
	return cbor.Marshal(encodedHashedCiphertext{
		Context:  c.Context().Name(),
		Pad:      c.Pad.Bytes(),
		Data:     c.Data,
		Mac:      c.Mac,
		NumBytes: c.NumBytes,
	})
}

// DecodeHashedCiphertext decodes a hashed ciphertext encoded in ctx. The
// payload is only authenticated by Decrypt.
func DecodeHashedCiphertext(ctx *group.Context, data []byte) (*HashedCiphertext, error) {
	var enc encodedHashedCiphertext
	if err := cbor.Unmarshal(data, &enc); err != nil {
		return nil, errors.WrapPrefix(err, "decoding hashed ciphertext", 0)
	}
	if err := ctx.CheckName(enc.Context); err != nil {
		return nil, err
	}
	pad, err := ctx.DecodeModPBytes("pad", enc.Pad)
	if err != nil {
		return nil, err
	}
	return &HashedCiphertext{
		Pad:      pad,
		Data:     enc.Data,
		Mac:      enc.Mac,
		NumBytes: enc.NumBytes,
	}, nil
}
