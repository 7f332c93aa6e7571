package material

import "sort"

// Table is the scene's material array, kept sorted by NameHash so lookup
// by hash is a binary search, matching spec section 4.2: "materials live
// in an array sorted by a 32-bit hash; mesh meta holds the hash; lookup is
// binary search. Missing match -> the default material."
type Table struct {
	materials []Material
	sorted    bool
}

// NewTable builds a lookup table over materials, sorting them by
// NameHash. The caller does not need to pre-sort its input.
func NewTable(materials []Material) *Table {
	t := &Table{materials: append([]Material(nil), materials...)}
	sort.Slice(t.materials, func(i, j int) bool {
		return t.materials[i].NameHash < t.materials[j].NameHash
	})
	t.sorted = true
	return t
}

// Lookup resolves hash to a Material via binary search, falling back to
// DefaultMaterial on a miss rather than returning an error: an unresolved
// material reference is a baking-time data problem, not a render-time
// fault, so the kernel always has something safe to shade with.
func (t *Table) Lookup(hash uint32) Material {
	materials := t.materials
	i := sort.Search(len(materials), func(i int) bool {
		return materials[i].NameHash >= hash
	})
	if i < len(materials) && materials[i].NameHash == hash {
		return materials[i]
	}
	return DefaultMaterial()
}

// Len returns the number of materials in the table.
func (t *Table) Len() int {
	return len(t.materials)
}

// KnownIOR holds commonly used dielectric indices of refraction, used by
// the baker to resolve a named IOR (e.g. "glass") to a scalar when a scene
// file specifies one symbolically instead of numerically.
var KnownIOR = map[string]float32{
	"vacuum":   1.0,
	"air":      1.000277,
	"water":    1.333,
	"glass":    1.5,
	"diamond":  2.419,
	"sapphire": 1.77,
}
