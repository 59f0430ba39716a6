package codegen

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/lcm-go/lcm/pkg/schema"
)

// GoGenerator generates Go code from LCM schemas: a struct per message type,
// positional fixed-width encode/decode routines, and the hash-prefixed
// frame codec described in spec §4.D.
type GoGenerator struct{}

// NewGoGenerator creates a new Go code generator.
func NewGoGenerator() *GoGenerator {
	return &GoGenerator{}
}

func (g *GoGenerator) Language() Language { return LanguageGo }
func (g *GoGenerator) FileExtension() string { return ".go" }

// Generate produces Go code from a schema.
func (g *GoGenerator) Generate(w io.Writer, s *schema.Schema, opts Options) error {
	hasher := schema.NewHasher()
	pkg := s.Package
	hasher.AddSchema(pkg, s)
	for alias, imp := range opts.ImportedSchemas {
		hasher.AddSchema(alias, imp)
	}

	ctx := &goContext{
		Schema:  s,
		Options: opts,
		hasher:  hasher,
	}

	tmpl, err := template.New("go").Funcs(ctx.funcMap()).Parse(goTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return tmpl.Execute(w, ctx)
}

type goContext struct {
	Schema  *schema.Schema
	Options Options
	hasher  *schema.Hasher
}

func (c *goContext) funcMap() template.FuncMap {
	return template.FuncMap{
		"goPackage":        c.goPackage,
		"goStructType":     c.goStructType,
		"goEnumType":       c.goEnumType,
		"goFieldType":      c.goFieldType,
		"goFieldName":      c.goFieldName,
		"goEnumValueName":  c.goEnumValueName,
		"structHash":       c.structHash,
		"comment":          GoComment,
		"indent":           Indent,
		"generateComments": func() bool { return c.Options.GenerateComments },
		"encodeNoHashBody": c.encodeNoHashBody,
		"decodeNoHashBody": c.decodeNoHashBody,
		"sizeNoHashBody":   c.sizeNoHashBody,
	}
}

func (c *goContext) goPackage() string {
	if c.Options.Package != "" {
		return c.Options.Package
	}
	if c.Schema.Package != "" {
		return c.Schema.Package
	}
	return "generated"
}

func (c *goContext) goStructType(s *schema.Struct) string {
	return c.Options.TypePrefix + ToPascalCase(s.Name) + c.Options.TypeSuffix
}

func (c *goContext) goEnumType(e *schema.Enum) string {
	return c.Options.TypePrefix + ToPascalCase(e.Name) + c.Options.TypeSuffix
}

func (c *goContext) goEnumValueName(e *schema.Enum, v *schema.EnumValue) string {
	return c.goEnumType(e) + ToPascalCase(v.Name)
}

func (c *goContext) goFieldName(m *schema.Member) string {
	return ToPascalCase(m.Name)
}

// structHash returns the struct's precomputed 64-bit type hash as a Go hex
// literal, baked in at generation time rather than recomputed at runtime.
func (c *goContext) structHash(s *schema.Struct) string {
	h, ok := c.hasher.HashStruct(c.Schema.Package, s.Name)
	if !ok {
		return "0x0"
	}
	return fmt.Sprintf("0x%016x", h)
}

var goScalarNames = map[string]string{
	"bool":   "bool",
	"i8":     "int8",
	"i16":    "int16",
	"i32":    "int32",
	"i64":    "int64",
	"f32":    "float32",
	"f64":    "float64",
	"byte":   "byte",
	"string": "string",
}

func (c *goContext) goBaseType(t schema.TypeRef) string {
	switch typ := t.(type) {
	case *schema.ScalarType:
		return goScalarNames[typ.Name]
	case *schema.NamedType:
		name := c.Options.TypePrefix + ToPascalCase(typ.Name) + c.Options.TypeSuffix
		if typ.Package != "" && typ.Package != c.Schema.Package {
			if path, ok := c.Options.ImportPaths[typ.Package]; ok {
				return path + "." + name
			}
			return typ.Package + "." + name
		}
		return name
	default:
		return "interface{}"
	}
}

// goFieldType renders a member's full Go type, nesting array/slice wrappers
// per its dimension list (outermost dimension first).
func (c *goContext) goFieldType(m *schema.Member) string {
	t := c.goBaseType(m.Type)
	for i := len(m.Dims) - 1; i >= 0; i-- {
		d := m.Dims[i]
		if d.Kind == schema.DimConst {
			t = fmt.Sprintf("[%d]%s", d.Size, t)
		} else {
			t = "[]" + t
		}
	}
	return t
}

// arrayWireFunc returns the bulk EncodeXxxArray/DecodeXxxArray suffix for a
// scalar type, or "" if the type has no bulk codec (string, named types).
func arrayWireFunc(name string) string {
	switch name {
	case "bool":
		return "Bool"
	case "i8":
		return "Int8"
	case "i16":
		return "Int16"
	case "i32":
		return "Int32"
	case "i64":
		return "Int64"
	case "f32":
		return "Float32"
	case "f64":
		return "Float64"
	case "byte":
		return "Byte"
	default:
		return ""
	}
}

// memberGen carries the generator context through the recursive per-member
// code generators.
type memberGen struct {
	c *goContext
}

// encodeNoHashBody generates the full body of _encodeNoHash for a struct.
func (c *goContext) encodeNoHashBody(s *schema.Struct) string {
	var b strings.Builder
	g := &memberGen{c: c}
	for _, m := range s.Members {
		// Each member gets its own block so its n/err do not collide with
		// the next member's.
		b.WriteString("{\n" + Indent(g.encodeMember(m, "m."+c.goFieldName(m), m.Dims), 1) + "\n}")
		b.WriteString("\n")
	}
	return Indent(strings.TrimRight(b.String(), "\n"), 1)
}

func (c *goContext) decodeNoHashBody(s *schema.Struct) string {
	var b strings.Builder
	g := &memberGen{c: c}
	for _, m := range s.Members {
		code := g.decodeMember(m, "m."+c.goFieldName(m), m.Dims)
		if !strings.HasPrefix(code, "{") {
			code = "{\n" + Indent(code, 1) + "\n}"
		}
		b.WriteString(code)
		b.WriteString("\n")
	}
	return Indent(strings.TrimRight(b.String(), "\n"), 1)
}

func (c *goContext) sizeNoHashBody(s *schema.Struct) string {
	var b strings.Builder
	g := &memberGen{c: c}
	for _, m := range s.Members {
		b.WriteString(fmt.Sprintf("size += %s\n", g.sizeOfMember(m, "m."+c.goFieldName(m), m.Dims)))
	}
	return Indent(strings.TrimRight(b.String(), "\n"), 1)
}

// encodeMember emits encode code for a member with the given remaining
// dimension list. Recursing strips one dimension per nested loop; the base
// case (no remaining dims) emits the scalar/string/named-type encode.
func (g *memberGen) encodeMember(m *schema.Member, expr string, dims []schema.Dimension) string {
	if len(dims) == 0 {
		return g.encodeScalar(m.Type, expr)
	}

	// Bulk path: a single CONST or VAR dimension over a plain scalar uses
	// the array codec directly instead of a loop (spec §4.D).
	if len(dims) == 1 {
		if scal, ok := m.Type.(*schema.ScalarType); ok {
			if fn := arrayWireFunc(scal.Name); fn != "" {
				slice := expr
				if dims[0].Kind == schema.DimConst {
					slice = expr + "[:]"
				}
				return fmt.Sprintf(`n, err := wire.Encode%sArray(buf, pos, maxlen-pos+offset, %s)
if err != nil {
	return 0, err
}
pos += n`, fn, slice)
			}
		}
	}

	bound := dimBound(dims[0])
	idx := fmt.Sprintf("i%d", len(dims))
	inner := g.encodeMember(m, expr+"["+idx+"]", dims[1:])
	return fmt.Sprintf(`for %s := 0; %s < %s; %s++ {
%s
}`, idx, idx, bound, idx, Indent(inner, 1))
}

func (g *memberGen) decodeMember(m *schema.Member, expr string, dims []schema.Dimension) string {
	if len(dims) == 0 {
		return g.decodeScalar(m.Type, expr)
	}

	if len(dims) == 1 {
		if scal, ok := m.Type.(*schema.ScalarType); ok {
			if fn := arrayWireFunc(scal.Name); fn != "" {
				if dims[0].Kind == schema.DimVar {
					bound := dimBound(dims[0])
					return fmt.Sprintf(`%s = make(%s, %s)
n, err := wire.Decode%sArray(buf, pos, maxlen-pos+offset, %s)
if err != nil {
	return 0, err
}
pos += n`, expr, g.c.goFieldType(&schema.Member{Type: m.Type, Dims: dims}), bound, fn, expr)
				}
				return fmt.Sprintf(`n, err := wire.Decode%sArray(buf, pos, maxlen-pos+offset, %s[:])
if err != nil {
	return 0, err
}
pos += n`, fn, expr)
			}
		}
	}

	bound := dimBound(dims[0])
	if dims[0].Kind == schema.DimVar {
		elemType := g.c.goFieldType(&schema.Member{Type: m.Type, Dims: dims[1:]})
		idx := fmt.Sprintf("i%d", len(dims))
		inner := g.decodeMember(m, expr+"["+idx+"]", dims[1:])
		return fmt.Sprintf(`%s = make([]%s, %s)
for %s := 0; %s < %s; %s++ {
%s
}`, expr, elemType, bound, idx, idx, bound, idx, Indent(inner, 1))
	}
	idx := fmt.Sprintf("i%d", len(dims))
	inner := g.decodeMember(m, expr+"["+idx+"]", dims[1:])
	return fmt.Sprintf(`for %s := 0; %s < %s; %s++ {
%s
}`, idx, idx, bound, idx, Indent(inner, 1))
}

func (g *memberGen) sizeOfMember(m *schema.Member, expr string, dims []schema.Dimension) string {
	if len(dims) == 0 {
		return g.sizeOfScalar(m.Type, expr)
	}
	if len(dims) == 1 {
		if scal, ok := m.Type.(*schema.ScalarType); ok {
			if fn := arrayWireFunc(scal.Name); fn != "" {
				_ = fn
				return fmt.Sprintf("len(%s)*wire.%sSize", expr, scalarSizeConst(scal.Name))
			}
		}
	}
	// Variable-shaped or compound element: sum per-element.
	idx := "v"
	inner := g.sizeOfMember(m, idx, dims[1:])
	return fmt.Sprintf("func() int { s := 0; for _, %s := range %s { s += %s }; return s }()", idx, expr, inner)
}

func scalarSizeConst(name string) string {
	switch name {
	case "bool":
		return "Bool"
	case "i8":
		return "Int8"
	case "i16":
		return "Int16"
	case "i32":
		return "Int32"
	case "i64":
		return "Int64"
	case "f32":
		return "Float32"
	case "f64":
		return "Float64"
	case "byte":
		return "Byte"
	default:
		return ""
	}
}

func dimBound(d schema.Dimension) string {
	if d.Kind == schema.DimConst {
		return fmt.Sprintf("%d", d.Size)
	}
	return "int(m." + ToPascalCase(d.Field) + ")"
}

// resolveNamed looks up whether a NamedType refers to a struct or an enum,
// searching the local schema first and then the imported schema named by
// its package qualifier. Enums have no _encodeNoHash method of their own
// (they are never published directly); they wire as a bare i32.
func (c *goContext) resolveNamed(t *schema.NamedType) (isEnum bool, found bool) {
	sch := c.Schema
	if t.Package != "" && t.Package != c.Schema.Package {
		imp, ok := c.Options.ImportedSchemas[t.Package]
		if !ok {
			return false, false
		}
		sch = imp
	}
	for _, e := range sch.Enums {
		if e.Name == t.Name {
			return true, true
		}
	}
	for _, s := range sch.Structs {
		if s.Name == t.Name {
			return false, true
		}
	}
	return false, false
}

func (g *memberGen) encodeScalar(t schema.TypeRef, expr string) string {
	switch typ := t.(type) {
	case *schema.ScalarType:
		if typ.Name == "string" {
			return fmt.Sprintf(`n, err := wire.EncodeString(buf, pos, maxlen-pos+offset, %s)
if err != nil {
	return 0, err
}
pos += n`, expr)
		}
		fn := arrayWireFunc(typ.Name)
		return fmt.Sprintf(`n, err := wire.Encode%sArray(buf, pos, maxlen-pos+offset, []%s{%s})
if err != nil {
	return 0, err
}
pos += n`, fn, goScalarNames[typ.Name], expr)
	case *schema.NamedType:
		if isEnum, _ := g.c.resolveNamed(typ); isEnum {
			return fmt.Sprintf(`n, err := wire.EncodeInt32Array(buf, pos, maxlen-pos+offset, []int32{int32(%s)})
if err != nil {
	return 0, err
}
pos += n`, expr)
		}
		return fmt.Sprintf(`n, err := %s._encodeNoHash(buf, pos, maxlen-pos+offset)
if err != nil {
	return 0, err
}
pos += n`, addressable(expr))
	default:
		return "// unsupported member type"
	}
}

func (g *memberGen) decodeScalar(t schema.TypeRef, expr string) string {
	switch typ := t.(type) {
	case *schema.ScalarType:
		if typ.Name == "string" {
			return fmt.Sprintf(`{
	v, n, err := wire.DecodeString(buf, pos, maxlen-pos+offset)
	if err != nil {
		return 0, err
	}
	%s = v
	pos += n
}`, expr)
		}
		fn := arrayWireFunc(typ.Name)
		return fmt.Sprintf(`{
	var tmp [1]%s
	n, err := wire.Decode%sArray(buf, pos, maxlen-pos+offset, tmp[:])
	if err != nil {
		return 0, err
	}
	%s = tmp[0]
	pos += n
}`, goScalarNames[typ.Name], fn, expr)
	case *schema.NamedType:
		if isEnum, _ := g.c.resolveNamed(typ); isEnum {
			enumType := g.c.goBaseType(typ)
			return fmt.Sprintf(`{
	var tmp [1]int32
	n, err := wire.DecodeInt32Array(buf, pos, maxlen-pos+offset, tmp[:])
	if err != nil {
		return 0, err
	}
	%s = %s(tmp[0])
	pos += n
}`, expr, enumType)
		}
		return fmt.Sprintf(`n, err := %s._decodeNoHash(buf, pos, maxlen-pos+offset)
if err != nil {
	return 0, err
}
pos += n`, addressable(expr))
	default:
		return "// unsupported member type"
	}
}

func (g *memberGen) sizeOfScalar(t schema.TypeRef, expr string) string {
	switch typ := t.(type) {
	case *schema.ScalarType:
		if typ.Name == "string" {
			return fmt.Sprintf("wire.StringSize(%s)", expr)
		}
		return "wire." + scalarSizeConst(typ.Name) + "Size"
	case *schema.NamedType:
		if isEnum, _ := g.c.resolveNamed(typ); isEnum {
			return "wire.Int32Size"
		}
		return fmt.Sprintf("%s._getEncodedSizeNoHash()", addressable(expr))
	default:
		return "0"
	}
}

// addressable prefixes expr with '&' when it names a value (not already an
// index into a slice of pointers) so pointer-receiver methods can be called.
func addressable(expr string) string {
	return "(&" + expr + ")"
}

func init() {
	Register(NewGoGenerator())
}

const goTemplate = `// Code generated by lcmgen. DO NOT EDIT.
// Source: {{.Schema.Position.Filename}}

package {{goPackage}}
{{if .Schema.Structs}}
import (
	"log"

	"github.com/lcm-go/lcm/internal/wire"
	"github.com/lcm-go/lcm/pkg/lcm"
	"github.com/lcm-go/lcm/pkg/lcmerr"
)
{{end}}
{{$ctx := .}}
{{range $enum := .Schema.Enums}}
{{if generateComments}}{{range $enum.Comments}}{{if .IsDoc}}{{comment .Text}}
{{end}}{{end}}{{end -}}
type {{goEnumType $enum}} int32

const (
{{- range $v := $enum.Values}}
	{{goEnumValueName $enum $v}} {{goEnumType $enum}} = {{$v.Value}}
{{- end}}
)

func (e {{goEnumType $enum}}) String() string {
	switch e {
{{- range $enum.Values}}
	case {{goEnumValueName $enum .}}:
		return "{{.Name}}"
{{- end}}
	default:
		return "UNKNOWN"
	}
}
{{end}}
{{range $s := .Schema.Structs}}
{{if generateComments}}{{range $s.Comments}}{{if .IsDoc}}{{comment .Text}}
{{end}}{{end}}{{end -}}
type {{goStructType $s}} struct {
{{- range $s.Members}}
{{if generateComments}}{{range .Comments}}{{if .IsDoc}}	{{comment .Text}}
{{end}}{{end}}{{end -}}
	{{goFieldName .}} {{goFieldType .}}
{{- end}}
}

const {{goStructType $s}}Hash uint64 = {{structHash $s}}

// Hash returns this type's 64-bit wire hash, computed once at generation
// time from the schema (spec §4.C/§4.D).
func (m *{{goStructType $s}}) Hash() uint64 {
	return {{goStructType $s}}Hash
}

// Encode writes the hash-prefixed frame for m into buf at offset.
func (m *{{goStructType $s}}) Encode(buf []byte, offset, maxlen int) (int, error) {
	if maxlen < 8 {
		return 0, lcmerr.New(lcmerr.EncodeOverflow, "{{goStructType $s}}.Encode", "buffer too small for type hash")
	}
	wire.PutHash(buf[offset:], {{goStructType $s}}Hash)
	n, err := m._encodeNoHash(buf, offset+8, maxlen-8)
	if err != nil {
		return 0, err
	}
	return 8 + n, nil
}

// _encodeNoHash writes m's body (without the leading type hash) so nested
// encoders can reuse this recursion without re-emitting the hash per level.
func (m *{{goStructType $s}}) _encodeNoHash(buf []byte, offset, maxlen int) (int, error) {
	pos := offset
{{encodeNoHashBody $s}}
	return pos - offset, nil
}

// Decode reads a hash-prefixed frame into m, verifying the type hash first.
func (m *{{goStructType $s}}) Decode(buf []byte, offset, maxlen int) (int, error) {
	if maxlen < 8 {
		return 0, lcmerr.New(lcmerr.DecodeTruncated, "{{goStructType $s}}.Decode", "buffer too small for type hash")
	}
	got := wire.GetHash(buf[offset:])
	if got != {{goStructType $s}}Hash {
		return 0, lcmerr.Wrapf(lcmerr.HashMismatch, "{{goStructType $s}}.Decode", nil, "got %#x, want %#x", got, {{goStructType $s}}Hash)
	}
	n, err := m._decodeNoHash(buf, offset+8, maxlen-8)
	if err != nil {
		return 0, err
	}
	return 8 + n, nil
}

// _decodeNoHash reads m's body (without the leading type hash).
func (m *{{goStructType $s}}) _decodeNoHash(buf []byte, offset, maxlen int) (int, error) {
	pos := offset
{{decodeNoHashBody $s}}
	return pos - offset, nil
}

// EncodedSize returns the exact byte count Encode will write for m.
func (m *{{goStructType $s}}) EncodedSize() int {
	return 8 + m._getEncodedSizeNoHash()
}

func (m *{{goStructType $s}}) _getEncodedSizeNoHash() int {
	size := 0
{{sizeNoHashBody $s}}
	return size
}

// Publish{{goStructType $s}} encodes m and publishes it on channel (spec §4.H).
func Publish{{goStructType $s}}(l *lcm.LCM, channel string, m *{{goStructType $s}}) error {
	buf := make([]byte, m.EncodedSize())
	if _, err := m.Encode(buf, 0, len(buf)); err != nil {
		return err
	}
	return l.Publish(channel, buf)
}

// Subscribe{{goStructType $s}} registers a trampoline that decodes every
// frame matching pattern into a {{goStructType $s}} before calling fn. A
// decode failure (including a hash mismatch) is logged via logf — or
// log.Printf if logf is nil — and the frame is dropped; it is never
// propagated to fn or to the caller (spec §4.H).
func Subscribe{{goStructType $s}}(l *lcm.LCM, pattern string, fn func(channel string, msg *{{goStructType $s}}), logf func(format string, args ...any)) (*lcm.Subscription, error) {
	if logf == nil {
		logf = log.Printf
	}
	return l.Subscribe(pattern, func(channel string, data []byte) {
		var msg {{goStructType $s}}
		if _, err := msg.Decode(data, 0, len(data)); err != nil {
			logf("{{goStructType $s}}: dropping frame on %s: %v", channel, err)
			return
		}
		fn(channel, &msg)
	})
}
{{end}}
`
