package seed

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "abc-0", Key("abc", 0))
	assert.Equal(t, "abc-42", Key("abc", 42))
	assert.Equal(t, "-7", Key("", 7))
}

// Literal values pin the derivation across processes, releases and
// machines. A change here changes every generated sequence.
func TestDerive_Golden(t *testing.T) {
	tests := []struct {
		root  string
		index int64
		want  Local
	}{
		{root: "abc", index: 0, want: 0x37ca1bfea2c1c2ee},
		{root: "abc", index: 1, want: 0x7dbaf52740e77f83},
		{root: "abc", index: 41, want: 0x868c9f6440dae9c8},
		{root: "", index: 0, want: 0xec22a297b4104e46},
		{root: "seed", index: 7, want: 0x2ad756893c921bf1},
	}

	for _, tt := range tests {
		t.Run(Key(tt.root, tt.index), func(t *testing.T) {
			assert.Equal(t, tt.want, Derive(tt.root, tt.index))
		})
	}
}

func TestLocal_Golden(t *testing.T) {
	l := Derive("abc", 0)
	require.Equal(t, "0x37ca1bfea2c1c2ee", l.String())

	assert.Equal(t, 0.8835567859440719, l.Float64("likes"))
	assert.Equal(t, 0.12217040254019418, l.Float64("reviews"))
	assert.Equal(t, 0.3031131265872655, l.Float64("authors"))
	assert.Equal(t, 0.3173136880879188, l.Float64("x"))
	assert.Equal(t, uint64(7334479865919492678), l.Uint64("title"))
	assert.Equal(t, 3, l.IntN("publisher", 8))
	assert.Equal(t, 1, l.IntN("publisher", 7))
	assert.Equal(t, 2, l.IntN("review-0", 5))
	assert.Equal(t, 9, l.IntN("x", 10))
}

func TestDerive(t *testing.T) {
	t.Run("stable", func(t *testing.T) {
		assert.Equal(t, Derive("abc", 3), Derive("abc", 3))
	})

	t.Run("different index", func(t *testing.T) {
		assert.NotEqual(t, Derive("abc", 3), Derive("abc", 4))
	})

	t.Run("different root", func(t *testing.T) {
		assert.NotEqual(t, Derive("abc", 3), Derive("abd", 3))
	})

	t.Run("negative index panics", func(t *testing.T) {
		assert.Panics(t, func() { Derive("abc", -1) })
	})
}

func TestDerive_OrderIndependent(t *testing.T) {
	sequential := make([]Local, 10)
	for i := range sequential {
		sequential[i] = Derive("order", int64(i))
	}

	for _, i := range []int64{5, 2, 9} {
		assert.Equal(t, sequential[i], Derive("order", i))
	}
}

func TestDerive_Concurrent(t *testing.T) {
	const n = 256
	want := make([]Local, n)
	for i := range want {
		want[i] = Derive("parallel", int64(i))
	}

	got := make([]Local, n)
	var wg sync.WaitGroup
	for i := n - 1; i >= 0; i-- {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = Derive("parallel", int64(i))
		}(i)
	}
	wg.Wait()

	require.Equal(t, want, got)
}

func TestLocal_SubDraws(t *testing.T) {
	l := Derive("abc", 0)

	t.Run("same label same value", func(t *testing.T) {
		assert.Equal(t, l.Float64("likes"), l.Float64("likes"))
		assert.Equal(t, l.Uint64("title"), l.Uint64("title"))
	})

	t.Run("labels are independent", func(t *testing.T) {
		assert.NotEqual(t, l.Uint64("likes"), l.Uint64("reviews"))
	})

	t.Run("draw order does not matter", func(t *testing.T) {
		a := l.Float64("likes")
		_ = l.Float64("reviews")
		_ = l.Uint64("authors")
		assert.Equal(t, a, l.Float64("likes"))
	})

	t.Run("ranges", func(t *testing.T) {
		u := l.Float64("u")
		assert.GreaterOrEqual(t, u, 0.0)
		assert.Less(t, u, 1.0)
		n := l.IntN("n", 3)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 3)
	})
}

func TestLocal_String(t *testing.T) {
	assert.Equal(t, "0x00000000000000ff", Local(255).String())
	assert.Equal(t, "Local(0x00000000000000ff)", Local(255).GoString())
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "review-3", Label("review", 3))
}

func TestRandom(t *testing.T) {
	s := Random()
	assert.Len(t, s, randomLength)
	for _, c := range s {
		assert.Contains(t, randomAlphabet, string(c))
	}
}

func TestProperty_DeriveIsPure(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		root := rapid.String().Draw(t, "root")
		indices := rapid.SliceOfN(rapid.Int64Range(0, 1<<40), 1, 20).Draw(t, "indices")

		first := make(map[int64]Local, len(indices))
		for _, i := range indices {
			first[i] = Derive(root, i)
		}
		for j := len(indices) - 1; j >= 0; j-- {
			i := indices[j]
			if got := Derive(root, i); got != first[i] {
				t.Fatalf("Derive(%q, %d) = %v, want %v", root, i, got, first[i])
			}
		}
	})
}
