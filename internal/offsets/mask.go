package offsets

import (
	"math/big"
)

// Mask is an arbitrary precision bit set. The zero value is empty. Masks
// are immutable; every operation returns a new value.
type Mask struct {
	n *big.Int
}

// Bit returns a mask with only bit pos set.
func Bit(pos int) Mask {
	return Mask{n: new(big.Int).Lsh(big.NewInt(1), uint(pos))}
}

func (m Mask) int() *big.Int {
	if m.n == nil {
		return new(big.Int)
	}
	return m.n
}

// Or returns m | o.
func (m Mask) Or(o Mask) Mask {
	return Mask{n: new(big.Int).Or(m.int(), o.int())}
}

// And returns m & o.
func (m Mask) And(o Mask) Mask {
	return Mask{n: new(big.Int).And(m.int(), o.int())}
}

// AndNot returns m &^ o.
func (m Mask) AndNot(o Mask) Mask {
	return Mask{n: new(big.Int).AndNot(m.int(), o.int())}
}

// Lsh shifts the mask left by n bits.
func (m Mask) Lsh(n int) Mask {
	return Mask{n: new(big.Int).Lsh(m.int(), uint(n))}
}

// Below returns a mask of every bit lower than the highest bit of m,
// together with that bit (m | m-1 for a single bit mask).
func (m Mask) Below() Mask {
	if m.IsZero() {
		return Mask{}
	}
	minus := new(big.Int).Sub(m.int(), big.NewInt(1))
	return Mask{n: new(big.Int).Or(m.int(), minus)}
}

// Cmp compares masks numerically.
func (m Mask) Cmp(o Mask) int {
	return m.int().Cmp(o.int())
}

// Equal reports m == o.
func (m Mask) Equal(o Mask) bool {
	return m.Cmp(o) == 0
}

// IsZero reports whether no bit is set.
func (m Mask) IsZero() bool {
	return m.n == nil || m.n.Sign() == 0
}

// Has reports whether bit pos is set.
func (m Mask) Has(pos int) bool {
	return m.int().Bit(pos) == 1
}

// Bits returns the set bit positions in ascending order.
func (m Mask) Bits() []int {
	var out []int
	n := m.int()
	for i := 0; i < n.BitLen(); i++ {
		if n.Bit(i) == 1 {
			out = append(out, i)
		}
	}
	return out
}

// Max returns the larger of two masks.
func Max(a, b Mask) Mask {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// Permutation maps old bit positions to new ones.
type Permutation map[int]int

// Permute rewrites every set bit found in p to its new position; other
// bits are kept.
func (m Mask) Permute(p Permutation) Mask {
	if len(p) == 0 || m.IsZero() {
		return m
	}
	var oldBits, newBits Mask
	for from, to := range p {
		if m.Has(from) {
			oldBits = oldBits.Or(Bit(from))
			newBits = newBits.Or(Bit(to))
		}
	}
	return m.AndNot(oldBits).Or(newBits)
}

func (m Mask) String() string {
	return m.int().Text(2)
}
