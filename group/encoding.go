package group

import (
	"fmt"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/ballotcrypt/cbor"
)

// ErrMalformedElement is returned when an encoded element has the wrong width
// or lies outside its range.
var ErrMalformedElement = errors.New("group: malformed element encoding")

type elementKind uint8

const (
	kindModQ elementKind = 'q'
	kindModP elementKind = 'p'
)

// encodedElement is the CBOR wire form of a single element. The value is the
// fixed-width big-endian encoding.
type encodedElement struct {
	Context string      `cbor:"0,keyasint"`
	Kind    elementKind `cbor:"1,keyasint"`
	Value   []byte      `cbor:"2,keyasint"`
}

// CheckName returns an error wrapping ErrContextMismatch when name is not the
// name of ctx. Decoders of composite values use it on their context field.
func (ctx *Context) CheckName(name string) error {
	if name != ctx.name {
		return errors.WrapPrefix(ErrContextMismatch, fmt.Sprintf("got %q, want %q", name, ctx.name), 0)
	}
	return nil
}

// DecodeModQBytes converts a fixed-width field of a decoded structure into an
// element, or returns an error wrapping ErrMalformedElement.
func (ctx *Context) DecodeModQBytes(field string, b []byte) (*ElementModQ, error) {
	e, ok := ctx.ElementModQFromBytes(b)
	if !ok {
		return nil, errors.WrapPrefix(ErrMalformedElement, field, 0)
	}
	return e, nil
}

// DecodeModPBytes converts a fixed-width field of a decoded structure into an
// element, or returns an error wrapping ErrMalformedElement.
func (ctx *Context) DecodeModPBytes(field string, b []byte) (*ElementModP, error) {
	e, ok := ctx.ElementModPFromBytes(b)
	if !ok {
		return nil, errors.WrapPrefix(ErrMalformedElement, field, 0)
	}
	return e, nil
}

// EncodeElementModQ returns the CBOR encoding of e, tagged with its context.
func EncodeElementModQ(e *ElementModQ) ([]byte, error) {
	return cbor.Marshal(encodedElement{Context: e.ctx.name, Kind: kindModQ, Value: e.Bytes()})
}

// EncodeElementModP returns the CBOR encoding of e, tagged with its context.
// Acceleration tables are not encoded.
func EncodeElementModP(e *ElementModP) ([]byte, error) {
	return cbor.Marshal(encodedElement{Context: e.ctx.name, Kind: kindModP, Value: e.Bytes()})
}

func decodeElement(ctx *Context, data []byte, kind elementKind) ([]byte, error) {
	var enc encodedElement
	if err := cbor.Unmarshal(data, &enc); err != nil {
		return nil, errors.WrapPrefix(err, "decoding element", 0)
	}
	if err := ctx.CheckName(enc.Context); err != nil {
		return nil, err
	}
	if enc.Kind != kind {
		return nil, errors.WrapPrefix(ErrMalformedElement, fmt.Sprintf("kind %q, want %q", enc.Kind, kind), 0)
	}
	return enc.Value, nil
}

// DecodeElementModQ decodes the output of EncodeElementModQ in ctx.
func DecodeElementModQ(ctx *Context, data []byte) (*ElementModQ, error) {
	b, err := decodeElement(ctx, data, kindModQ)
	if err != nil {
		return nil, err
	}
	return ctx.DecodeModQBytes("value", b)
}

// DecodeElementModP decodes the output of EncodeElementModP in ctx. The
// result is range checked but not checked for subgroup membership.
func DecodeElementModP(ctx *Context, data []byte) (*ElementModP, error) {
	b, err := decodeElement(ctx, data, kindModP)
	if err != nil {
		return nil, err
	}
	return ctx.DecodeModPBytes("value", b)
}
