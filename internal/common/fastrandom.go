package common

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math/big"
	"sync/atomic"
)

var globalCprng *CPRNG

// CPRNG is a simple thread-safe cryptographically secure pseudo-random number generator.
// Implemented with AES in counter mode with the seed as key and an
// atomic uint64 as counter.
type CPRNG struct {
	block   cipher.Block
	counter uint64
}

func NewCPRNG(seed *[32]byte) (*CPRNG, error) {
	c, err := aes.NewCipher(seed[:])
	if err != nil {
		return nil, err
	}
	return &CPRNG{block: c}, nil
}

func init() {
	var seed [32]byte
	if _, err := rand.Reader.Read(seed[:]); err != nil {
		panic(fmt.Sprintf("Failed to generate seed for CPRNG: %v", err))
	}
	cprng, err := NewCPRNG(&seed)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize CPRNG: %v", err))
	}
	globalCprng = cprng
}

func (c *CPRNG) Read(buf []byte) (n int, err error) {
	var pt, ct [16]byte
	n = len(buf)
	if n == 0 {
		return
	}

	nBlocks := uint64(((len(buf) - 1) / 16) + 1)

	// Reserve nBlocks counter values; concurrent readers never share a block.
	iv := atomic.AddUint64(&c.counter, nBlocks) - nBlocks
	for len(buf) > 0 {
		binary.LittleEndian.PutUint64(pt[:], iv)
		iv++
		if len(buf) >= 16 {
			c.block.Encrypt(buf, pt[:])
			buf = buf[16:]
			continue
		}
		c.block.Encrypt(ct[:], pt[:])
		copy(buf, ct[:len(buf)])
		buf = buf[len(buf):]
	}
	return
}

// RandomBelow returns a number chosen uniformly from [0, limit), drawn from a
// generator seeded with 256 bits of system randomness at startup.
// It panics if limit <= 0.
func RandomBelow(limit *big.Int) *big.Int {
	res, err := rand.Int(globalCprng, limit)
	if err != nil {
		panic(fmt.Sprintf("rand.Int failed: %v", err))
	}
	return res
}

// RandomInRange returns a number chosen uniformly from [lo, hi).
// It panics if hi <= lo.
func RandomInRange(lo, hi *big.Int) *big.Int {
	width := new(big.Int).Sub(hi, lo)
	if width.Sign() <= 0 {
		panic(fmt.Sprintf("empty range [%v, %v)", lo, hi))
	}
	res := RandomBelow(width)
	return res.Add(res, lo)
}
