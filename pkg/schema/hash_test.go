package schema

import "testing"

func TestHashDeterministic(t *testing.T) {
	sch := mustParse(t, `struct point_t {
  i64 utime;
  double pos[3];
  i32 n;
  float r[n];
}`)
	h1 := sch.Structs[0].Hash("demo", sch)
	h2 := sch.Structs[0].Hash("demo", sch)
	if h1 != h2 {
		t.Errorf("hash not deterministic: %x != %x", h1, h2)
	}
	if h1 == 0 {
		t.Error("hash should not be zero for a non-trivial struct")
	}
}

func TestHashChangesWithMemberOrder(t *testing.T) {
	a := mustParse(t, `struct s_t { i32 x; i32 y; }`)
	b := mustParse(t, `struct s_t { i32 y; i32 x; }`)
	if a.Structs[0].Hash("", a) == b.Structs[0].Hash("", b) {
		t.Error("reordering members should change the hash")
	}
}

func TestHashChangesWithMemberName(t *testing.T) {
	a := mustParse(t, `struct s_t { i32 x; }`)
	b := mustParse(t, `struct s_t { i32 renamed; }`)
	if a.Structs[0].Hash("", a) == b.Structs[0].Hash("", b) {
		t.Error("renaming a member should change the hash")
	}
}

func TestHashChangesWithDimensionShape(t *testing.T) {
	a := mustParse(t, `struct s_t { f64 v[4]; }`)
	b := mustParse(t, `struct s_t { i32 n; f64 v[n]; }`)
	if a.Structs[0].Hash("", a) == b.Structs[0].Hash("", b) {
		t.Error("CONST vs VAR dimensions should produce different hashes")
	}
}

func TestHashIncludesNestedStructHash(t *testing.T) {
	a := mustParse(t, `struct inner_t { i32 x; }
struct outer_t { inner_t child; }`)
	b := mustParse(t, `struct inner_t { i32 x; i32 extra; }
struct outer_t { inner_t child; }`)

	ha := NewHasher()
	ha.AddSchema("demo", a)
	outerHashA, _ := ha.HashStruct("demo", "outer_t")

	hb := NewHasher()
	hb.AddSchema("demo", b)
	outerHashB, _ := hb.HashStruct("demo", "outer_t")

	if outerHashA == outerHashB {
		t.Error("changing a nested struct's shape should change the containing struct's hash")
	}
}

func TestHashBreaksSelfCompositionCycleDefensively(t *testing.T) {
	s := &Struct{
		Name: "cyclic_t",
		Members: []*Member{
			{Name: "self", Type: &NamedType{Name: "cyclic_t"}},
		},
	}
	schema := &Schema{Structs: []*Struct{s}}

	h := NewHasher()
	h.AddSchema("", schema)

	if _, ok := h.HashStruct("", "cyclic_t"); !ok {
		t.Fatal("expected HashStruct to resolve despite the self-referencing member")
	}
}

func TestEnumHashStable(t *testing.T) {
	sch := mustParse(t, `enum color_t { RED = 0; GREEN = 1; BLUE = 2; }`)
	if sch.Enums[0].Hash() != sch.Enums[0].Hash() {
		t.Error("enum hash should be stable across calls")
	}
}
