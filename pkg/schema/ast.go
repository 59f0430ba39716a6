// Package schema provides types and parsing for LCM message schema files.
//
// Schema files define the structure of structs (messages) and enums used
// for code generation and deterministic type hashing across languages.
package schema

// Position represents a position in source code.
type Position struct {
	Filename string
	Line     int
	Column   int
	Offset   int
}

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Position
	End() Position
}

// Schema represents a complete parsed schema file.
type Schema struct {
	Position Position
	Package  string
	Imports  []*Import
	Structs  []*Struct
	Enums    []*Enum
	Comments []*Comment
}

func (s *Schema) Pos() Position { return s.Position }
func (s *Schema) End() Position {
	if len(s.Structs) > 0 {
		return s.Structs[len(s.Structs)-1].End()
	}
	if len(s.Enums) > 0 {
		return s.Enums[len(s.Enums)-1].End()
	}
	return s.Position
}

// Import imports definitions from another schema file.
type Import struct {
	Position Position
	EndPos   Position
	Path     string
}

func (i *Import) Pos() Position { return i.Position }
func (i *Import) End() Position { return i.EndPos }

// Struct represents a struct (message) definition. Member order is wire
// order: it participates in both encoding and the type hash, so reordering
// members is a wire-breaking change.
type Struct struct {
	Position  Position
	EndPos    Position
	Name      string
	Members   []*Member
	Constants []*Constant
	Comments  []*Comment
}

func (s *Struct) Pos() Position { return s.Position }
func (s *Struct) End() Position { return s.EndPos }

// QualifiedName returns "pkg.Name" for use in hashing and cross-schema
// references.
func (s *Struct) QualifiedName(pkg string) string {
	if pkg == "" {
		return s.Name
	}
	return pkg + "." + s.Name
}

// Member represents one field of a struct, in declaration (= wire) order.
// Dims is empty for a scalar member; one entry per array dimension
// otherwise, outermost first.
type Member struct {
	Position Position
	EndPos   Position
	Name     string
	Type     TypeRef
	Dims     []Dimension
	Comments []*Comment
}

func (m *Member) Pos() Position { return m.Position }
func (m *Member) End() Position { return m.EndPos }

// IsArray reports whether the member has at least one dimension.
func (m *Member) IsArray() bool { return len(m.Dims) > 0 }

// DimKind distinguishes a fixed-size array dimension from one sized by a
// sibling member's runtime value.
type DimKind int

const (
	// DimConst is a literal, compile-time-fixed array length.
	DimConst DimKind = iota
	// DimVar is a length read from a sibling integer member at runtime.
	DimVar
)

// Dimension is one axis of a (possibly multi-dimensional) array member.
// CONST(n) and VAR(field) may be freely mixed across a member's dimensions.
type Dimension struct {
	Kind  DimKind
	Size  int    // valid when Kind == DimConst
	Field string // valid when Kind == DimVar: name of the sibling length member
}

// Constant represents a typed, compile-time constant declared inside a
// struct (e.g. `const i32 K = 42;`).
type Constant struct {
	Position Position
	EndPos   Position
	Name     string
	Type     string // scalar type name, e.g. "i32"
	Value    string // literal text, parsed against Type during validation
	Comments []*Comment
}

func (c *Constant) Pos() Position { return c.Position }
func (c *Constant) End() Position { return c.EndPos }

// TypeRef represents a reference to a member's type: either a built-in
// scalar or a user-defined struct/enum, optionally package-qualified.
type TypeRef interface {
	Node
	typeRefNode()
	String() string
}

// ScalarType is a built-in fixed-width type.
type ScalarType struct {
	Position Position
	EndPos   Position
	Name     string // bool, i8, i16, i32, i64, f32, f64, byte, string
}

func (t *ScalarType) Pos() Position  { return t.Position }
func (t *ScalarType) End() Position  { return t.EndPos }
func (t *ScalarType) typeRefNode()   {}
func (t *ScalarType) String() string { return t.Name }

// NamedType references a user-defined struct or enum, optionally qualified
// by a dotted package path (spec §3 "user(path)").
type NamedType struct {
	Position Position
	EndPos   Position
	Package  string
	Name     string
}

func (t *NamedType) Pos() Position { return t.Position }
func (t *NamedType) End() Position { return t.EndPos }
func (t *NamedType) typeRefNode()  {}
func (t *NamedType) String() string {
	if t.Package != "" {
		return t.Package + "." + t.Name
	}
	return t.Name
}

// Enum represents an enum definition. Enums are a legacy construct retained
// for schema compatibility; their wire representation is always i32.
type Enum struct {
	Position Position
	EndPos   Position
	Name     string
	Values   []*EnumValue
	Comments []*Comment
}

func (e *Enum) Pos() Position { return e.Position }
func (e *Enum) End() Position { return e.EndPos }

// QualifiedName returns "pkg.Name" for use in hashing and cross-schema
// references.
func (e *Enum) QualifiedName(pkg string) string {
	if pkg == "" {
		return e.Name
	}
	return pkg + "." + e.Name
}

// EnumValue is a single named (name, integer) pair within an Enum.
type EnumValue struct {
	Position Position
	EndPos   Position
	Name     string
	Value    int32
	Comments []*Comment
}

func (v *EnumValue) Pos() Position { return v.Position }
func (v *EnumValue) End() Position { return v.EndPos }

// Comment represents a comment attached to a nearby declaration.
type Comment struct {
	Position Position
	EndPos   Position
	Text     string
	IsDoc    bool // true for a doc comment (///)
}

func (c *Comment) Pos() Position { return c.Position }
func (c *Comment) End() Position { return c.EndPos }

// ScalarTypes enumerates the built-in scalar type names (spec §3).
var ScalarTypes = map[string]bool{
	"bool":   true,
	"i8":     true,
	"i16":    true,
	"i32":    true,
	"i64":    true,
	"f32":    true,
	"f64":    true,
	"byte":   true,
	"string": true,
}

// IsScalar returns true if name is a built-in scalar type.
func IsScalar(name string) bool {
	return ScalarTypes[name]
}

// scalarAliases maps surface spellings used in schema source (matching the
// original IDL's float/double keywords) onto the canonical f32/f64 names
// used everywhere else in this package.
var scalarAliases = map[string]string{
	"float":  "f32",
	"double": "f64",
}

// CanonicalScalarName resolves a surface type name to its canonical scalar
// name, following aliases. Returns ("", false) if name is not a scalar.
func CanonicalScalarName(name string) (string, bool) {
	if canon, ok := scalarAliases[name]; ok {
		return canon, true
	}
	if IsScalar(name) {
		return name, true
	}
	return "", false
}

// ReservedNames are type names a user struct, enum, or member may not use
// (spec §4.B edge cases).
var ReservedNames = map[string]bool{
	"byte":    true,
	"boolean": true,
	"string":  true,
}

// IsIntegerScalar reports whether name is one of the fixed-width integer
// scalar types eligible to back a VAR array dimension.
func IsIntegerScalar(name string) bool {
	switch name {
	case "i8", "i16", "i32", "i64", "byte":
		return true
	default:
		return false
	}
}
