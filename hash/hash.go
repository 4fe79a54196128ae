// Package hash maps ordered lists of strings, integers, group elements and
// nested lists to an ElementModQ. It is the challenge function of every proof
// and the seed derivation of hashed ElGamal, so its output must be stable
// across implementations: inputs are rendered as text, joined with '|' and
// hashed with SHA-256.
package hash

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/go-errors/errors"
	sha256 "github.com/minio/sha256-simd"
	"github.com/privacybydesign/ballotcrypt/group"
)

// CryptoHashable is implemented by composite values (ciphertexts, proofs)
// that hash as a single element.
type CryptoHashable interface {
	CryptoHash() *group.ElementModQ
}

const nullMarker = "null"

// Elems hashes items in order. Each item is rendered as:
//
//   - nil, the empty string, or an empty list: "null"
//   - a string: itself
//   - an integer or *big.Int: its decimal representation
//   - an ElementModP or ElementModQ: its uppercase hex, even number of digits
//   - a CryptoHashable: the hex of its CryptoHash
//   - a list: the hex of Elems applied to its members
//
// and the result is SHA-256("|" + s1 + "|" + s2 + ... + "|") reduced mod Q.
// Elems panics on any other type, or on an element from a context
// incompatible with ctx.
func Elems(ctx *group.Context, items ...interface{}) *group.ElementModQ {
	var sb strings.Builder
	sb.WriteByte('|')
	for _, item := range items {
		sb.WriteString(render(ctx, item))
		sb.WriteByte('|')
	}
	digest := sha256.Sum256([]byte(sb.String()))
	return ctx.ElementModQSafe(new(big.Int).SetBytes(digest[:]))
}

func render(ctx *group.Context, item interface{}) string {
	switch t := item.(type) {
	case nil:
		return nullMarker
	case string:
		if t == "" {
			return nullMarker
		}
		return t
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case *big.Int:
		if t == nil {
			return nullMarker
		}
		return t.String()
	case *group.ElementModP:
		if t == nil {
			return nullMarker
		}
		mustMatch(ctx, t.Context())
		return t.CryptoHashString()
	case *group.ElementModQ:
		if t == nil {
			return nullMarker
		}
		mustMatch(ctx, t.Context())
		return t.CryptoHashString()
	case []*group.ElementModP:
		list := make([]interface{}, len(t))
		for i := range t {
			list[i] = t[i]
		}
		return renderList(ctx, list)
	case []*group.ElementModQ:
		list := make([]interface{}, len(t))
		for i := range t {
			list[i] = t[i]
		}
		return renderList(ctx, list)
	case []string:
		list := make([]interface{}, len(t))
		for i := range t {
			list[i] = t[i]
		}
		return renderList(ctx, list)
	case []interface{}:
		return renderList(ctx, t)
	case CryptoHashable:
		h := t.CryptoHash()
		if h == nil {
			return nullMarker
		}
		return h.CryptoHashString()
	default:
		panic(fmt.Sprintf("hash: unsupported type %T", item))
	}
}

// renderList hashes a nested list. An empty list renders like nil, so
// Elems(ctx, []interface{}{}) equals Elems(ctx, nil).
func renderList(ctx *group.Context, list []interface{}) string {
	if len(list) == 0 {
		return nullMarker
	}
	return Elems(ctx, list...).CryptoHashString()
}

func mustMatch(ctx *group.Context, other *group.Context) {
	if !ctx.Compatible(other) {
		panic(errors.WrapPrefix(group.ErrIncompatibleContext,
			fmt.Sprintf("hash: element of %s hashed in %s", other.Name(), ctx.Name()), 0))
	}
}
