// Package seed derives per-record seed material from a root seed.
//
// Every value handed out here is a pure function of its inputs: record i's
// seed comes from the key "<root>-<i>", never from advancing a shared
// generator i times, so records can be computed in any order or in parallel.
package seed

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strconv"
)

// expandStream selects the PCG stream used to expand a hashed derivation key.
const expandStream = 0x9e3779b97f4a7c15

// Local is the seed material for a single record index.
type Local uint64

func (l Local) String() string {
	return fmt.Sprintf("0x%016x", uint64(l))
}

func (l Local) GoString() string {
	return fmt.Sprintf("Local(0x%016x)", uint64(l))
}

// Key returns the derivation key for a record index.
func Key(root string, index int64) string {
	return root + "-" + strconv.FormatInt(index, 10)
}

// Derive maps (root, index) to the record-local seed. It panics on a
// negative index; callers validate ranges before deriving.
func Derive(root string, index int64) Local {
	if index < 0 {
		panic(fmt.Sprintf("seed: negative index %d", index))
	}
	r := rand.New(rand.NewPCG(hash(Key(root, index)), expandStream))
	return Local(r.Uint64())
}

// Source returns the PCG stream for a label. Distinct labels give independent
// streams, so the order in which fields are drawn never matters.
func (l Local) Source(label string) rand.Source {
	return rand.NewPCG(uint64(l), hash(label))
}

// Rand wraps Source in a *rand.Rand.
func (l Local) Rand(label string) *rand.Rand {
	return rand.New(l.Source(label))
}

// Float64 is the first uniform draw in [0,1) of the labelled stream.
func (l Local) Float64(label string) float64 {
	return l.Rand(label).Float64()
}

// Uint64 is the first 64-bit draw of the labelled stream.
func (l Local) Uint64(label string) uint64 {
	return l.Rand(label).Uint64()
}

// IntN is the first draw in [0,n) of the labelled stream.
func (l Local) IntN(label string, n int) int {
	return l.Rand(label).IntN(n)
}

// Label builds an indexed sub-draw label such as "review-3".
func Label(prefix string, i int) string {
	return prefix + "-" + strconv.Itoa(i)
}

func hash(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
