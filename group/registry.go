package group

import (
	"math/big"
	"sort"
	"sync"

	"github.com/go-errors/errors"
)

// Names of the built-in contexts.
const (
	Context3072 = "3072-bit"
	Context4096 = "4096-bit"
	ContextTest = "test"
)

// ErrUnknownContext is returned by ContextByName for names not in the registry.
var ErrUnknownContext = errors.New("group: unknown context")

// RFC 3526 MODP group 15.
const modp3072Hex = "" +
	"FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD129024E088A67CC74" +
	"020BBEA63B139B22514A08798E3404DDEF9519B3CD3A431B302B0A6DF25F1437" +
	"4FE1356D6D51C245E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7ED" +
	"EE386BFB5A899FA5AE9F24117C4B1FE649286651ECE45B3DC2007CB8A163BF05" +
	"98DA48361C55D39A69163FA8FD24CF5F83655D23DCA3AD961C62F356208552BB" +
	"9ED529077096966D670C354E4ABC9804F1746C08CA18217C32905E462E36CE3B" +
	"E39E772C180E86039B2783A2EC07A28FB5C55DF06F4C52C9DE2BCBF695581718" +
	"3995497CEA956AE515D2261898FA051015728E5A8AAAC42DAD33170D04507A33" +
	"A85521ABDF1CBA64ECFB850458DBEF0A8AEA71575D060C7DB3970F85A6E1E4C7" +
	"ABF5AE8CDB0933D71E8C94E04A25619DCEE3D2261AD2EE6BF12FFA06D98A0864" +
	"D87602733EC86A64521F2B18177B200CBBE117577A615D6C770988C0BAD946E2" +
	"08E24FA074E5AB3143DB5BFCE0FD108E4B82D120A93AD2CAFFFFFFFFFFFFFFFF"

// RFC 3526 MODP group 16.
const modp4096Hex = "" +
	"FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD129024E088A67CC74" +
	"020BBEA63B139B22514A08798E3404DDEF9519B3CD3A431B302B0A6DF25F1437" +
	"4FE1356D6D51C245E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7ED" +
	"EE386BFB5A899FA5AE9F24117C4B1FE649286651ECE45B3DC2007CB8A163BF05" +
	"98DA48361C55D39A69163FA8FD24CF5F83655D23DCA3AD961C62F356208552BB" +
	"9ED529077096966D670C354E4ABC9804F1746C08CA18217C32905E462E36CE3B" +
	"E39E772C180E86039B2783A2EC07A28FB5C55DF06F4C52C9DE2BCBF695581718" +
	"3995497CEA956AE515D2261898FA051015728E5A8AAAC42DAD33170D04507A33" +
	"A85521ABDF1CBA64ECFB850458DBEF0A8AEA71575D060C7DB3970F85A6E1E4C7" +
	"ABF5AE8CDB0933D71E8C94E04A25619DCEE3D2261AD2EE6BF12FFA06D98A0864" +
	"D87602733EC86A64521F2B18177B200CBBE117577A615D6C770988C0BAD946E2" +
	"08E24FA074E5AB3143DB5BFCE0FD108E4B82D120A92108011A723C12A787E6D7" +
	"88719A10BDBA5B2699C327186AF4E23C1A946834B6150BDA2583E9CA2AD44CE8" +
	"DBBBC2DB04DE8EF92E8EFC141FBECAA6287C59474E6BC05D99B2964FA090C3A2" +
	"233BA186515BE7ED1F612970CEE2D7AFB81BDD762170481CD0069127D5B05AA9" +
	"93B4EA988D8FDDC186FFB7DC90A6C08F4DF435C934063199FFFFFFFFFFFFFFFF"

type registryEntry struct {
	once  sync.Once
	build func() *Context
	ctx   *Context
}

func (e *registryEntry) get() *Context {
	e.once.Do(func() { e.ctx = e.build() })
	return e.ctx
}

var registry = map[string]*registryEntry{
	Context3072: {build: func() *Context { return modpContext(Context3072, modp3072Hex) }},
	Context4096: {build: func() *Context { return modpContext(Context4096, modp4096Hex) }},
	ContextTest: {build: testContext},
}

// modpContext builds a context over a safe prime with G = 2. The 2^k table
// rows of a full-size Q are large, so public keys use the low level.
func modpContext(name, pHex string) *Context {
	p, ok := new(big.Int).SetString(pHex, 16)
	if !ok {
		panic("group: malformed built-in modulus for " + name)
	}
	q := new(big.Int).Rsh(p, 1)
	r := big.NewInt(2)
	return newContext(name, p, q, big.NewInt(2), r, AccelerationLow)
}

// testContext is a 32-bit safe prime group, only meant for tests.
func testContext() *Context {
	p := big.NewInt(2306179907)
	q := big.NewInt(1153089953)
	return newContext(ContextTest, p, q, big.NewInt(4), big.NewInt(2), AccelerationMedium)
}

// ContextByName returns the built-in context with the given name, building
// it on first use. Subsequent calls return the same instance.
func ContextByName(name string) (*Context, error) {
	e, ok := registry[name]
	if !ok {
		return nil, errors.WrapPrefix(ErrUnknownContext, name, 0)
	}
	return e.get(), nil
}

// MustContext is like ContextByName but panics on an unknown name.
func MustContext(name string) *Context {
	ctx, err := ContextByName(name)
	if err != nil {
		panic(err)
	}
	return ctx
}

// ContextNames lists the names of the built-in contexts in sorted order.
func ContextNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
