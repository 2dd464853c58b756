// Package offsets assigns ordering keys to generated rules and defines the
// total order the stylesheet is emitted in.
package offsets

import (
	"fmt"
	"sort"
	"strings"
)

// Layer is a coarse output bucket.
type Layer int

const (
	Defaults Layer = iota
	Base
	Components
	Utilities
	User
	Variants
)

var layerNames = map[Layer]string{
	Defaults:   "defaults",
	Base:       "base",
	Components: "components",
	Utilities:  "utilities",
	User:       "user",
	Variants:   "variants",
}

func (l Layer) String() string {
	return layerNames[l]
}

// ParseLayer maps a layer name to its Layer.
func ParseLayer(name string) (Layer, bool) {
	for l, n := range layerNames {
		if n == name {
			return l, true
		}
	}
	return 0, false
}

// SortValue is what a variant comparator sees of each side.
type SortValue struct {
	Value    string
	Modifier string
}

// SortFunc orders two values of the same variant.
type SortFunc func(a, b SortValue) int

// SortOption attaches a value comparator to the variant bit it was
// applied with.
type SortOption struct {
	ID       string
	Variant  Mask
	Sort     SortFunc
	Value    string
	Modifier string
}

// Key is the ordering key of one rule.
type Key struct {
	Layer          Layer
	ParentLayer    Layer
	Arbitrary      int
	Variants       Mask
	ParallelIndex  int
	Index          int64
	Property       string
	PropertyOffset int
	Options        []SortOption

	// Candidate and Fragment break remaining ties so the order is total.
	Candidate string
	Fragment  int
}

// Tracker allocates keys and variant bits for one build context.
type Tracker struct {
	next     map[Layer]int64
	reserved int
	variants map[string]Mask
	order    []string
}

// New returns an empty tracker.
func New() *Tracker {
	return &Tracker{
		next:     map[Layer]int64{},
		variants: map[string]Mask{},
	}
}

// Create returns a fresh key in layer with the next declaration index.
func (t *Tracker) Create(layer Layer) Key {
	k := Key{Layer: layer, ParentLayer: layer, Index: t.next[layer]}
	t.next[layer]++
	return k
}

// ArbitraryProperty returns a utilities key for an arbitrary [prop:value]
// candidate. It takes no declaration index, so arbitrary properties order
// by property name and then candidate, never by discovery.
func (t *Tracker) ArbitraryProperty(property string) Key {
	return Key{Layer: Utilities, ParentLayer: Utilities, Arbitrary: 1, Property: property}
}

// RecordVariant reserves fnCount bits for variant and returns its key.
func (t *Tracker) RecordVariant(name string, fnCount int) Key {
	if fnCount < 1 {
		fnCount = 1
	}
	if _, seen := t.variants[name]; !seen {
		t.order = append(t.order, name)
	}
	t.variants[name] = Bit(t.reserved)
	t.reserved += fnCount
	k := t.Create(Variants)
	k.Variants = t.variants[name]
	return k
}

// HasVariant reports whether name was recorded.
func (t *Tracker) HasVariant(name string) bool {
	_, ok := t.variants[name]
	return ok
}

// ForVariant returns a key for the idx-th function of variant name.
func (t *Tracker) ForVariant(name string, idx int) (Key, error) {
	m, ok := t.variants[name]
	if !ok {
		return Key{}, fmt.Errorf("cannot find offset for unknown variant %s", name)
	}
	k := t.Create(Variants)
	k.Variants = m.Lsh(idx)
	return k, nil
}

// ApplyVariant moves rule into the variants layer, remembering its
// original layer, and merges the variant bits and sort option.
func ApplyVariant(rule, variant Key, opt SortOption) Key {
	out := rule
	out.Layer = Variants
	if rule.Layer != Variants {
		out.ParentLayer = rule.Layer
	}
	out.Variants = rule.Variants.Or(variant.Variants)
	if opt.Sort != nil {
		opt.Variant = variant.Variants
		out.Options = append([]SortOption{opt}, rule.Options...)
	} else {
		out.Options = append([]SortOption(nil), rule.Options...)
	}
	out.ParallelIndex = max(rule.ParallelIndex, variant.ParallelIndex)
	return out
}

// ApplyParallel sets the parallel index of a forked rule.
func ApplyParallel(k Key, idx int) Key {
	k.ParallelIndex = idx
	return k
}

// Compare orders two keys: layer, parent layer, shared variant value
// comparators, variant bits, parallel index, arbitrary flag, arbitrary
// property name, declaration index, then candidate and fragment.
func (t *Tracker) Compare(a, b Key) int {
	if a.Layer != b.Layer {
		return sign(int(a.Layer) - int(b.Layer))
	}
	if a.ParentLayer != b.ParentLayer {
		return sign(int(a.ParentLayer) - int(b.ParentLayer))
	}

	for _, ao := range a.Options {
		for _, bo := range b.Options {
			if ao.ID != bo.ID || ao.Sort == nil || bo.Sort == nil {
				continue
			}
			// Only compare values when everything applied on top of this
			// variant is the same on both sides.
			mask := Max(ao.Variant, bo.Variant).Below()
			if !a.Variants.AndNot(mask).Equal(b.Variants.AndNot(mask)) {
				continue
			}
			if r := ao.Sort(SortValue{ao.Value, ao.Modifier}, SortValue{bo.Value, bo.Modifier}); r != 0 {
				return sign(r)
			}
		}
	}

	if c := a.Variants.Cmp(b.Variants); c != 0 {
		return c
	}
	if a.ParallelIndex != b.ParallelIndex {
		return sign(a.ParallelIndex - b.ParallelIndex)
	}
	if a.Arbitrary != b.Arbitrary {
		return sign(a.Arbitrary - b.Arbitrary)
	}
	if a.PropertyOffset != b.PropertyOffset {
		return sign(a.PropertyOffset - b.PropertyOffset)
	}
	if a.Index != b.Index {
		if a.Index < b.Index {
			return -1
		}
		return 1
	}
	if c := strings.Compare(a.Candidate, b.Candidate); c != 0 {
		return c
	}
	return sign(a.Fragment - b.Fragment)
}

// ArbitraryPermutation reorders the bits of arbitrary variants (names
// starting with "[") so they follow the lexical order of their names
// instead of discovery order.
func (t *Tracker) ArbitraryPermutation() Permutation {
	var names []string
	for _, n := range t.order {
		if strings.HasPrefix(n, "[") {
			names = append(names, n)
		}
	}
	if len(names) < 2 {
		return nil
	}
	positions := make([]int, len(names))
	for i, n := range names {
		positions[i] = t.variants[n].Bits()[0]
	}
	sorted := append([]int(nil), positions...)
	sort.Ints(sorted)

	byName := append([]string(nil), names...)
	sort.Strings(byName)
	perm := Permutation{}
	for i, n := range byName {
		old := t.variants[n].Bits()[0]
		if old != sorted[i] {
			perm[old] = sorted[i]
		}
	}
	return perm
}

// Sort returns the indices of keys in emission order. Arbitrary variant
// bits are remapped and arbitrary properties ranked by name first; the
// keys passed in are not modified.
func (t *Tracker) Sort(keys []Key) []int {
	perm := t.ArbitraryPermutation()

	props := map[string]int{}
	for _, k := range keys {
		if k.Arbitrary == 1 {
			props[k.Property] = 0
		}
	}
	names := make([]string, 0, len(props))
	for p := range props {
		names = append(names, p)
	}
	sort.Strings(names)
	for i, p := range names {
		props[p] = i
	}

	work := make([]Key, len(keys))
	for i, k := range keys {
		k.Variants = k.Variants.Permute(perm)
		if len(k.Options) > 0 && len(perm) > 0 {
			opts := make([]SortOption, len(k.Options))
			for j, o := range k.Options {
				o.Variant = o.Variant.Permute(perm)
				opts[j] = o
			}
			k.Options = opts
		}
		if k.Arbitrary == 1 {
			k.PropertyOffset = props[k.Property]
		}
		work[i] = k
	}

	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return t.Compare(work[idx[i]], work[idx[j]]) < 0
	})
	return idx
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
