// Package safeprime computes safe primes, i.e. primes of the form 2q+1 where q is also prime.
package safeprime

import (
	"crypto/rand"
	"math/big"

	"github.com/go-errors/errors"
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// Generate a safe prime of the given size, using the fact that:
//
//	If q is prime and 2^(2q) = 1 mod (2q+1), then 2q+1 is a safe prime.
//
// We take a random bigint q; if the above formula holds and q is prime, then we return 2q+1.
// (See https://www.ijipbangalore.org/abstracts_2(1)/p5.pdf)
//
// In order to cancel the generation algorithm, send a struct{} on the stop parameter or close() it.
// (Passing nil is allowed; then the algorithm cannot be cancelled). A cancelled
// generation returns nil, nil.
func Generate(bitsize int, stop chan struct{}) (*big.Int, error) {
	if bitsize < 3 {
		return nil, errors.Errorf("safeprime: bit size %d too small", bitsize)
	}

	var (
		max        = new(big.Int).Lsh(one, uint(bitsize-1)) // q has bitsize-1 bits
		twoq       = new(big.Int)
		twoqone    = new(big.Int)
		twoexptwoq = new(big.Int)
		q          *big.Int
		err        error
	)

	for i := 0; ; i++ {
		if stop != nil && i%1000 == 0 {
			select {
			case <-stop:
				return nil, nil
			default:
			}
		}

		if q, err = rand.Int(rand.Reader, max); err != nil {
			return nil, errors.WrapPrefix(err, "safeprime: reading randomness", 0)
		}
		// force the top bit so that 2q+1 has exactly bitsize bits, and q odd
		q.SetBit(q, bitsize-2, 1)
		q.SetBit(q, 0, 1)

		twoq.Mul(two, q)
		twoqone.Add(twoq, one)
		twoexptwoq.Exp(two, twoq, twoqone) // 2^(2q) mod (2q+1)

		if twoexptwoq.Cmp(one) == 0 && q.ProbablyPrime(40) {
			break
		}
	}

	if !ProbablySafePrime(twoqone, 40) {
		return nil, errors.New("safeprime: generation returned non-safeprime")
	}
	return twoqone, nil
}

// ProbablySafePrime reports whether x is probably safe prime, by calling big.Int.ProbablyPrime(n)
// on x as well as on (x-1)/2.
//
// If x is safe prime, ProbablySafePrime returns true.
// If x is chosen randomly and not safe prime, ProbablyPrime probably returns false.
func ProbablySafePrime(x *big.Int, n int) bool {
	if x.Cmp(two) <= 0 {
		return false
	}
	if !x.ProbablyPrime(n) {
		return false
	}
	y := new(big.Int).Rsh(x, 1)
	return y.ProbablyPrime(n)
}
