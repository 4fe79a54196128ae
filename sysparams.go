// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ballotcrypt

import (
	"sort"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/ballotcrypt/dlog"
	"github.com/privacybydesign/ballotcrypt/group"
)

// Parameters configures a Core.
type Parameters struct {
	// Context is the name of a group context in the group registry.
	Context string
	// MaxExponent bounds the discrete log search when decrypting.
	MaxExponent uint64
	// StrictProofs turns a proof that fails its create-time self check into
	// an error instead of a logged warning.
	StrictProofs bool
	// Workers bounds the number of goroutines used for batch verification.
	Workers int
}

// DefaultParameters holds per context name the parameters currently in use.
var DefaultParameters = map[string]*Parameters{
	group.Context3072: {
		Context:      group.Context3072,
		MaxExponent:  dlog.DefaultMaxExponent,
		StrictProofs: true,
		Workers:      8,
	},
	group.Context4096: {
		Context:      group.Context4096,
		MaxExponent:  dlog.DefaultMaxExponent,
		StrictProofs: true,
		Workers:      8,
	},
	group.ContextTest: {
		Context:      group.ContextTest,
		MaxExponent:  100000,
		StrictProofs: false,
		Workers:      4,
	},
}

var ErrUnknownParameters = errors.New("ballotcrypt: no parameters for context")

// getAvailableContexts returns the context names of the provided parameter
// map.
func getAvailableContexts(params map[string]*Parameters) []string {
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// DefaultContexts holds the names of the contexts for which parameters are
// available.
var DefaultContexts = getAvailableContexts(DefaultParameters)

// ParametersFor returns a copy of the default parameters of a context.
func ParametersFor(name string) (*Parameters, error) {
	p, ok := DefaultParameters[name]
	if !ok {
		return nil, errors.WrapPrefix(ErrUnknownParameters, name, 0)
	}
	cp := *p
	return &cp, nil
}
