package schema

import "testing"

func TestParseStructWithMixedDimensions(t *testing.T) {
	src := `package demo;
struct point_t {
  i64 utime;
  double pos[3];
  i32 n;
  float readings[n];
  const i32 MAX_N = 16;
}`

	sch, errs := ParseFile("test.lcm", src)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if sch.Package != "demo" {
		t.Errorf("Package = %q, want demo", sch.Package)
	}
	if len(sch.Structs) != 1 {
		t.Fatalf("len(Structs) = %d, want 1", len(sch.Structs))
	}

	s := sch.Structs[0]
	if s.Name != "point_t" {
		t.Errorf("Name = %q, want point_t", s.Name)
	}
	if len(s.Members) != 4 {
		t.Fatalf("len(Members) = %d, want 4", len(s.Members))
	}

	pos := s.Members[1]
	if pos.Name != "pos" || len(pos.Dims) != 1 || pos.Dims[0].Kind != DimConst || pos.Dims[0].Size != 3 {
		t.Errorf("pos member = %+v, want CONST(3) dimension", pos)
	}

	readings := s.Members[3]
	if readings.Name != "readings" || len(readings.Dims) != 1 || readings.Dims[0].Kind != DimVar || readings.Dims[0].Field != "n" {
		t.Errorf("readings member = %+v, want VAR(n) dimension", readings)
	}

	if len(s.Constants) != 1 || s.Constants[0].Name != "MAX_N" || s.Constants[0].Value != "16" {
		t.Errorf("Constants = %+v, want [MAX_N=16]", s.Constants)
	}
}

func TestParseMultiDimensionalArray(t *testing.T) {
	src := `struct grid_t {
  i32 rows;
  i32 cols;
  f64 cells[rows][cols];
}`
	sch, errs := ParseFile("t", src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	cells := sch.Structs[0].Members[2]
	if len(cells.Dims) != 2 {
		t.Fatalf("len(Dims) = %d, want 2", len(cells.Dims))
	}
	if cells.Dims[0].Field != "rows" || cells.Dims[1].Field != "cols" {
		t.Errorf("Dims = %+v, want [rows, cols]", cells.Dims)
	}
}

func TestParseNestedUserType(t *testing.T) {
	src := `struct inner_t { i32 x; }
struct outer_t { inner_t child; other.pkg_t cross; }`
	sch, errs := ParseFile("t", src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	outer := sch.Structs[1]
	childType, ok := outer.Members[0].Type.(*NamedType)
	if !ok || childType.Name != "inner_t" {
		t.Errorf("child type = %+v, want NamedType(inner_t)", outer.Members[0].Type)
	}
	crossType, ok := outer.Members[1].Type.(*NamedType)
	if !ok || crossType.Package != "other" || crossType.Name != "pkg_t" {
		t.Errorf("cross type = %+v, want NamedType(other.pkg_t)", outer.Members[1].Type)
	}
}

func TestParseEnum(t *testing.T) {
	src := `enum color_t {
  RED = 0;
  GREEN = 1;
  BLUE = 2;
}`
	sch, errs := ParseFile("t", src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(sch.Enums) != 1 || len(sch.Enums[0].Values) != 3 {
		t.Fatalf("enum = %+v", sch.Enums)
	}
	if sch.Enums[0].Values[2].Name != "BLUE" || sch.Enums[0].Values[2].Value != 2 {
		t.Errorf("third value = %+v", sch.Enums[0].Values[2])
	}
}

func TestParseImport(t *testing.T) {
	src := `import "other.lcm";
struct s_t { i32 x; }`
	sch, errs := ParseFile("t", src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(sch.Imports) != 1 || sch.Imports[0].Path != "other.lcm" {
		t.Errorf("Imports = %+v", sch.Imports)
	}
}

func TestParseErrorRecovery(t *testing.T) {
	src := `struct broken_t { i32 ; }
struct ok_t { i32 x; }`
	sch, errs := ParseFile("t", src)
	if len(errs) == 0 {
		t.Fatal("expected a parse error for the malformed member")
	}
	found := false
	for _, s := range sch.Structs {
		if s.Name == "ok_t" {
			found = true
		}
	}
	if !found {
		t.Error("parser did not recover to parse ok_t after the error in broken_t")
	}
}
