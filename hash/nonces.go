package hash

import "github.com/privacybydesign/ballotcrypt/group"

// Nonces is a deterministic sequence of ElementModQ derived from a seed and
// optional headers: element i is Elems(Elems(seed, headers...), i). Two
// sequences built from the same seed and headers are identical.
type Nonces struct {
	ctx  *group.Context
	seed *group.ElementModQ
}

// NewNonces starts a sequence. The headers domain-separate sequences that
// share a seed.
func NewNonces(seed *group.ElementModQ, headers ...interface{}) *Nonces {
	ctx := seed.Context()
	items := append([]interface{}{seed}, headers...)
	return &Nonces{ctx: ctx, seed: Elems(ctx, items...)}
}

// Get returns element i of the sequence.
func (n *Nonces) Get(i uint64) *group.ElementModQ {
	return Elems(n.ctx, n.seed, i)
}

// Take returns the first count elements.
func (n *Nonces) Take(count int) []*group.ElementModQ {
	out := make([]*group.ElementModQ, count)
	for i := range out {
		out[i] = n.Get(uint64(i))
	}
	return out
}
