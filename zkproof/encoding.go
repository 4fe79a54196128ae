package zkproof

import (
	"github.com/go-errors/errors"
	"github.com/privacybydesign/ballotcrypt/cbor"
	"github.com/privacybydesign/ballotcrypt/group"
)

// Proofs travel in compact form: the verifier expands them against the
// ciphertext it already holds.

type encodedGeneric struct {
	C []byte `cbor:"0,keyasint"`
	R []byte `cbor:"1,keyasint"`
}

type encodedGenericProof struct {
	Context string         `cbor:"0,keyasint"`
	Proof   encodedGeneric `cbor:"1,keyasint"`
}

type encodedConstantProof struct {
	Context  string         `cbor:"0,keyasint"`
	Proof    encodedGeneric `cbor:"1,keyasint"`
	Constant uint64         `cbor:"2,keyasint"`
	Kind     ConstantKind   `cbor:"3,keyasint"`
}

type encodedDisjunctiveProof struct {
	Context string         `cbor:"0,keyasint"`
	Proof0  encodedGeneric `cbor:"1,keyasint"`
	Proof1  encodedGeneric `cbor:"2,keyasint"`
	C       []byte         `cbor:"3,keyasint"`
}

func encodeGeneric(p *CompactGenericProof) encodedGeneric {
	return encodedGeneric{C: p.C.Bytes(), R: p.R.Bytes()}
}

func decodeGeneric(ctx *group.Context, enc encodedGeneric) (*CompactGenericProof, error) {
	c, err := ctx.DecodeModQBytes("challenge", enc.C)
	if err != nil {
		return nil, err
	}
	r, err := ctx.DecodeModQBytes("response", enc.R)
	if err != nil {
		return nil, err
	}
	return &CompactGenericProof{C: c, R: r}, nil
}

// EncodeGenericProof returns the CBOR encoding of the compact form of p.
func EncodeGenericProof(p *CompactGenericProof) ([]byte, error) {
	return cbor.Marshal(encodedGenericProof{Context: p.C.Context().Name(), Proof: encodeGeneric(p)})
}

// DecodeGenericProof decodes a compact generic proof encoded in ctx.
func DecodeGenericProof(ctx *group.Context, data []byte) (*CompactGenericProof, error) {
	var enc encodedGenericProof
	if err := cbor.Unmarshal(data, &enc); err != nil {
		return nil, errors.WrapPrefix(err, "decoding generic proof", 0)
	}
	if err := ctx.CheckName(enc.Context); err != nil {
		return nil, err
	}
	return decodeGeneric(ctx, enc.Proof)
}

// EncodeConstantProof returns the CBOR encoding of the compact form of p.
func EncodeConstantProof(p *CompactConstantProof) ([]byte, error) {
	return cbor.Marshal(encodedConstantProof{
		Context:  p.Proof.C.Context().Name(),
		Proof:    encodeGeneric(p.Proof),
		Constant: p.Constant,
		Kind:     p.Kind,
	})
}

// DecodeConstantProof decodes a compact constant proof encoded in ctx.
func DecodeConstantProof(ctx *group.Context, data []byte) (*CompactConstantProof, error) {
	var enc encodedConstantProof
	if err := cbor.Unmarshal(data, &enc); err != nil {
		return nil, errors.WrapPrefix(err, "decoding constant proof", 0)
	}
	if err := ctx.CheckName(enc.Context); err != nil {
		return nil, err
	}
	if enc.Kind != KnownNonce && enc.Kind != KnownSecretKey {
		return nil, errors.Errorf("zkproof: unknown constant proof kind %d", enc.Kind)
	}
	proof, err := decodeGeneric(ctx, enc.Proof)
	if err != nil {
		return nil, err
	}
	return &CompactConstantProof{Proof: proof, Constant: enc.Constant, Kind: enc.Kind}, nil
}

// EncodeDisjunctiveProof returns the CBOR encoding of the compact form of p.
func EncodeDisjunctiveProof(p *CompactDisjunctiveProof) ([]byte, error) {
	return cbor.Marshal(encodedDisjunctiveProof{
		Context: p.C.Context().Name(),
		Proof0:  encodeGeneric(p.Proof0),
		Proof1:  encodeGeneric(p.Proof1),
		C:       p.C.Bytes(),
	})
}

// DecodeDisjunctiveProof decodes a compact disjunctive proof encoded in ctx.
func DecodeDisjunctiveProof(ctx *group.Context, data []byte) (*CompactDisjunctiveProof, error) {
	var enc encodedDisjunctiveProof
	if err := cbor.Unmarshal(data, &enc); err != nil {
		return nil, errors.WrapPrefix(err, "decoding disjunctive proof", 0)
	}
	if err := ctx.CheckName(enc.Context); err != nil {
		return nil, err
	}
	p0, err := decodeGeneric(ctx, enc.Proof0)
	if err != nil {
		return nil, err
	}
	p1, err := decodeGeneric(ctx, enc.Proof1)
	if err != nil {
		return nil, err
	}
	c, err := ctx.DecodeModQBytes("challenge", enc.C)
	if err != nil {
		return nil, err
	}
	return &CompactDisjunctiveProof{Proof0: p0, Proof1: p1, C: c}, nil
}
