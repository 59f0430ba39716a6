package schema

import "testing"

func TestDiffTypeHashesDetectsMemberAdded(t *testing.T) {
	oldS := mustParse(t, `struct s_t { i32 x; }`)
	newS := mustParse(t, `struct s_t { i32 x; i32 y; }`)

	changes := DiffTypeHashes("", oldS, newS)
	if !hasChangeKind(changes, MemberAdded) {
		t.Errorf("expected a MemberAdded change, got %+v", changes)
	}
	if !hasChangeKind(changes, HashChanged) {
		t.Errorf("expected a HashChanged change, got %+v", changes)
	}
}

func TestDiffTypeHashesDetectsReorder(t *testing.T) {
	oldS := mustParse(t, `struct s_t { i32 x; i32 y; }`)
	newS := mustParse(t, `struct s_t { i32 y; i32 x; }`)

	changes := DiffTypeHashes("", oldS, newS)
	if !hasChangeKind(changes, MemberReordered) {
		t.Errorf("expected a MemberReordered change, got %+v", changes)
	}
}

func TestDiffTypeHashesDetectsRetype(t *testing.T) {
	oldS := mustParse(t, `struct s_t { i32 x; }`)
	newS := mustParse(t, `struct s_t { i64 x; }`)

	changes := DiffTypeHashes("", oldS, newS)
	if !hasChangeKind(changes, MemberRetyped) {
		t.Errorf("expected a MemberRetyped change, got %+v", changes)
	}
}

func TestDiffTypeHashesDetectsStructRemoved(t *testing.T) {
	oldS := mustParse(t, `struct a_t { i32 x; } struct b_t { i32 y; }`)
	newS := mustParse(t, `struct a_t { i32 x; }`)

	changes := DiffTypeHashes("", oldS, newS)
	if !hasChangeKind(changes, StructRemoved) {
		t.Errorf("expected a StructRemoved change, got %+v", changes)
	}
}

func TestDiffTypeHashesNoChangesForIdenticalSchemas(t *testing.T) {
	a := mustParse(t, `struct s_t { i32 x; f64 y[3]; }`)
	b := mustParse(t, `struct s_t { i32 x; f64 y[3]; }`)

	changes := DiffTypeHashes("", a, b)
	if len(changes) != 0 {
		t.Errorf("expected no changes for identical schemas, got %+v", changes)
	}
}

func TestDiffTypeHashesDetectsEnumValueRename(t *testing.T) {
	oldS := mustParse(t, `enum color_t { RED = 0; GREEN = 1; }`)
	newS := mustParse(t, `enum color_t { RED = 0; GREENISH = 1; }`)

	changes := DiffTypeHashes("", oldS, newS)
	if !hasChangeKind(changes, EnumValueChanged) {
		t.Errorf("expected an EnumValueChanged change, got %+v", changes)
	}
}

func hasChangeKind(changes []HashChange, kind ChangeKind) bool {
	for _, c := range changes {
		if c.Kind == kind {
			return true
		}
	}
	return false
}
