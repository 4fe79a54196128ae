// Package cbor is the codec behind every wire value of this module: group
// elements, public keys, ciphertexts, hashed ciphertexts and compact proofs.
// Each of those is a map with small integer keys whose first entry names the
// group context, followed by fixed-width big-endian element bytes.
//
// A ciphertext or proof is hashed and verified as decoded, so two encoders
// must never disagree on the bytes and a decoder must never accept more than
// one reading of them. Encoding therefore sorts map keys canonically and
// forbids indefinite lengths and tags, and decoding rejects duplicate keys,
// unknown fields and oversized containers.
package cbor

import (
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Limits on decoded containers. No wire value has more than a handful of map
// entries; byte strings are not affected.
const (
	MaxArrayElements = 1024 * 16
	MaxMapPairs      = 1024
)

var (
	encOptions = cbor.EncOptions{
		IndefLength:   cbor.IndefLengthForbidden,
		InfConvert:    cbor.InfConvertFloat16,
		NaNConvert:    cbor.NaNConvert7e00,
		ShortestFloat: cbor.ShortestFloat16,
		Sort:          cbor.SortCoreDeterministic,
		TagsMd:        cbor.TagsForbidden,
	}

	decOptions = cbor.DecOptions{
		IndefLength:      cbor.IndefLengthForbidden,
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		MaxArrayElements: MaxArrayElements,
		MaxMapPairs:      MaxMapPairs,
		TagsMd:           cbor.TagsForbidden,
		TimeTag:          cbor.DecTagIgnored,
		// Unknown fields are an error: a proof or ciphertext carrying extra
		// data is not the value the verifier thinks it is.
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}

	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = encOptions.EncMode(); err != nil {
		panic(err)
	}
	if decMode, err = decOptions.DecMode(); err != nil {
		panic(err)
	}
}

// Marshal encodes src into a CBOR-encoded byte slice.
func Marshal(src interface{}) ([]byte, error) {
	return encMode.Marshal(src)
}

// Unmarshal decodes CBOR in data into dst.
func Unmarshal(data []byte, dst interface{}) error {
	return decMode.Unmarshal(data, dst)
}

// NewEncoder creates a new CBOR encoder that writes to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder creates a new CBOR decoder that reads from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}
