package schema

import "strconv"

// hashSeedInit is the fixed accumulator starting value for every type's
// compile-time seed fold (spec §3/§4.C).
const hashSeedInit uint64 = 0x12345678

// foldString folds the bytes of s into acc with a rolling multiply-add,
// the mechanism spec §3 prescribes for building a type's compile-time seed.
func foldString(acc uint64, s string) uint64 {
	for i := 0; i < len(s); i++ {
		acc = acc*0x100000001b3 + uint64(s[i])
	}
	return acc
}

// rotateLeft1 is the hash finalization step shared by every type: a single
// left rotate through the sign bit, matching the reference generator's
// `(hash<<1) + ((hash>>63)&1)`.
func rotateLeft1(hash uint64) uint64 {
	return (hash << 1) | (hash >> 63)
}

// dimensionCode returns a compact, order-sensitive code for one array
// dimension so CONST and VAR dimensions (and their sizes/field names) fold
// distinctly into the seed.
func dimensionCode(d Dimension) string {
	if d.Kind == DimConst {
		return "C" + strconv.Itoa(d.Size)
	}
	return "V" + d.Field
}

// typeCode returns a compact code for a member's type, used only in the
// seed fold; it does not by itself pull in a referenced type's hash (that
// happens separately, recursively, at hash time).
func typeCode(t TypeRef) string {
	switch v := t.(type) {
	case *ScalarType:
		return "s:" + v.Name
	case *NamedType:
		if v.Package != "" {
			return "u:" + v.Package + "." + v.Name
		}
		return "u:" + v.Name
	default:
		return "?"
	}
}

// structSeed folds a struct's own name, constants, and ordered member
// shapes into a compile-time accumulator. It does not include any nested
// type's hash; that contribution is added at Hash time so cross-schema
// edits to a referenced type still change this struct's hash.
func structSeed(s *Struct) uint64 {
	acc := hashSeedInit
	acc = foldString(acc, s.Name)

	for _, c := range s.Constants {
		acc = foldString(acc, c.Name)
		acc = foldString(acc, c.Type)
		acc = foldString(acc, c.Value)
	}

	for _, m := range s.Members {
		acc = foldString(acc, m.Name)
		acc = foldString(acc, typeCode(m.Type))
		for _, d := range m.Dims {
			acc = foldString(acc, dimensionCode(d))
		}
	}

	return acc
}

// enumSeed folds an enum's name and its (name, value) pairs into a
// compile-time accumulator. Enums have no nested types, so their hash is
// this seed, rotated once, with no runtime recursion (spec §4.B: "legacy
// construct", wire representation always i32).
func enumSeed(e *Enum) uint64 {
	acc := hashSeedInit
	acc = foldString(acc, e.Name)
	for _, v := range e.Values {
		acc = foldString(acc, v.Name)
		acc = foldString(acc, strconv.FormatInt(int64(v.Value), 10))
	}
	return rotateLeft1(acc)
}

// Hasher computes deterministic 64-bit type hashes across a set of related
// schemas, resolving NamedType member references (including cross-package
// ones) to fold in each nested type's own hash.
type Hasher struct {
	structs map[string]*Struct
	enums   map[string]*Enum
}

// NewHasher creates an empty Hasher.
func NewHasher() *Hasher {
	return &Hasher{
		structs: make(map[string]*Struct),
		enums:   make(map[string]*Enum),
	}
}

// AddSchema registers every struct and enum in s under its qualified name
// (pkg.Name, or bare Name if pkg is empty) so later Hash calls can resolve
// references to it.
func (h *Hasher) AddSchema(pkg string, s *Schema) {
	for _, st := range s.Structs {
		h.structs[st.QualifiedName(pkg)] = st
	}
	for _, e := range s.Enums {
		h.enums[e.QualifiedName(pkg)] = e
	}
}

// qualify resolves a NamedType against defaultPkg (the package of the
// struct doing the referencing) when the reference carries no explicit
// package prefix.
func qualify(t *NamedType, defaultPkg string) string {
	if t.Package != "" {
		return t.Package + "." + t.Name
	}
	if defaultPkg == "" {
		return t.Name
	}
	return defaultPkg + "." + t.Name
}

// HashStruct computes the type hash of the named struct. pkg is the
// package that owns it, used to resolve unqualified member references.
func (h *Hasher) HashStruct(pkg, name string) (uint64, bool) {
	qn := name
	if pkg != "" {
		qn = pkg + "." + name
	}
	s, ok := h.structs[qn]
	if !ok {
		return 0, false
	}
	hash := h.hashStructRecursive(qn, s, pkg, map[string]bool{})
	return hash, true
}

// hashStructRecursive implements the seed-plus-nested-sum-then-rotate
// algorithm (spec §4.C), breaking composition cycles by treating a type
// already on the recursion stack as contributing 0 — mirroring the
// reference generator's __TYPE_hash_recursive parent-chain check.
func (h *Hasher) hashStructRecursive(qn string, s *Struct, pkg string, onStack map[string]bool) uint64 {
	if onStack[qn] {
		return 0
	}
	onStack[qn] = true
	defer delete(onStack, qn)

	hash := structSeed(s)

	for _, m := range s.Members {
		named, ok := m.Type.(*NamedType)
		if !ok {
			continue // scalar members contribute nothing beyond the seed
		}
		nestedQN := qualify(named, pkg)
		if nestedStruct, ok := h.structs[nestedQN]; ok {
			nestedPkg := pkg
			if named.Package != "" {
				nestedPkg = named.Package
			}
			hash += h.hashStructRecursive(nestedQN, nestedStruct, nestedPkg, onStack)
			continue
		}
		if nestedEnum, ok := h.enums[nestedQN]; ok {
			hash += enumSeed(nestedEnum)
		}
	}

	return rotateLeft1(hash)
}

// HashEnum computes the type hash of the named enum.
func (h *Hasher) HashEnum(pkg, name string) (uint64, bool) {
	qn := name
	if pkg != "" {
		qn = pkg + "." + name
	}
	e, ok := h.enums[qn]
	if !ok {
		return 0, false
	}
	return enumSeed(e), true
}

// Hash computes a struct's type hash given only its own schema (no
// cross-schema imports). It is a convenience wrapper around Hasher for the
// common single-file case.
func (s *Struct) Hash(pkg string, schema *Schema) uint64 {
	h := NewHasher()
	h.AddSchema(pkg, schema)
	hash, _ := h.HashStruct(pkg, s.Name)
	return hash
}

// Hash computes an enum's type hash.
func (e *Enum) Hash() uint64 {
	return enumSeed(e)
}
