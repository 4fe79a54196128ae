// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ballotcrypt is the cryptographic core of an end-to-end verifiable
// ballot encryption scheme. It encrypts selections with exponential ElGamal,
// proves each selection is 0 or 1 and each contest within its limit with
// Chaum-Pedersen proofs, and decrypts homomorphic tallies.
//
// The building blocks live in subpackages: group (arithmetic mod P and Q),
// hash, dlog, elgamal and zkproof. Core ties them together for one group
// context; see core_test.go for a complete round.
package ballotcrypt
