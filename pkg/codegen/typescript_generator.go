package codegen

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/lcm-go/lcm/pkg/schema"
)

// TypeScriptGenerator generates TypeScript code from LCM schemas. Generated
// modules are self-contained (no runtime package dependency): every message
// gets static encode/decode/getEncodedSize functions built directly on
// DataView, since DataView's set*/get* methods default to big-endian when
// the littleEndian argument is omitted.
type TypeScriptGenerator struct{}

func NewTypeScriptGenerator() *TypeScriptGenerator { return &TypeScriptGenerator{} }

func (g *TypeScriptGenerator) Language() Language    { return LanguageTypeScript }
func (g *TypeScriptGenerator) FileExtension() string { return ".ts" }

func (g *TypeScriptGenerator) Generate(w io.Writer, s *schema.Schema, opts Options) error {
	hasher := schema.NewHasher()
	hasher.AddSchema(s.Package, s)
	for alias, imp := range opts.ImportedSchemas {
		hasher.AddSchema(alias, imp)
	}

	ctx := &tsContext{Schema: s, Options: opts, hasher: hasher}
	tmpl, err := template.New("typescript").Funcs(ctx.funcMap()).Parse(tsTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return tmpl.Execute(w, ctx)
}

type tsContext struct {
	Schema  *schema.Schema
	Options Options
	hasher  *schema.Hasher
}

func (c *tsContext) funcMap() template.FuncMap {
	return template.FuncMap{
		"tsStructType":     c.tsStructType,
		"tsEnumType":       c.tsEnumType,
		"tsFieldType":      c.tsFieldType,
		"tsFieldName":      c.tsFieldName,
		"tsEnumValueName":  c.tsEnumValueName,
		"structHash":       c.structHash,
		"comment":          c.tsComment,
		"generateComments": func() bool { return c.Options.GenerateComments },
		"encodeBody":       c.encodeBody,
		"decodeBody":       c.decodeBody,
		"sizeBody":         c.sizeBody,
	}
}

func (c *tsContext) structHash(s *schema.Struct) string {
	h, ok := c.hasher.HashStruct(c.Schema.Package, s.Name)
	if !ok {
		return "0n"
	}
	return fmt.Sprintf("0x%016xn", h)
}

func (c *tsContext) tsStructType(s *schema.Struct) string {
	return c.Options.TypePrefix + ToPascalCase(s.Name) + c.Options.TypeSuffix
}

func (c *tsContext) tsEnumType(e *schema.Enum) string {
	return c.Options.TypePrefix + ToPascalCase(e.Name) + c.Options.TypeSuffix
}

func (c *tsContext) tsEnumValueName(v *schema.EnumValue) string { return ToPascalCase(v.Name) }
func (c *tsContext) tsFieldName(m *schema.Member) string        { return ToCamelCase(m.Name) }

func (c *tsContext) tsComment(text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		return "/** " + text + " */"
	}
	var b strings.Builder
	b.WriteString("/**\n")
	for _, l := range lines {
		b.WriteString(" * " + l + "\n")
	}
	b.WriteString(" */")
	return b.String()
}

var tsScalarNames = map[string]string{
	"bool": "boolean", "i8": "number", "i16": "number", "i32": "number",
	"i64": "bigint", "f32": "number", "f64": "number", "byte": "number",
	"string": "string",
}

func (c *tsContext) tsBaseType(t schema.TypeRef) string {
	switch typ := t.(type) {
	case *schema.ScalarType:
		return tsScalarNames[typ.Name]
	case *schema.NamedType:
		name := c.Options.TypePrefix + ToPascalCase(typ.Name) + c.Options.TypeSuffix
		if typ.Package != "" && typ.Package != c.Schema.Package {
			return typ.Package + "." + name
		}
		return name
	default:
		return "unknown"
	}
}

func (c *tsContext) tsFieldType(m *schema.Member) string {
	t := c.tsBaseType(m.Type)
	for range m.Dims {
		t += "[]"
	}
	return t
}

// dataViewAccessor maps a scalar name to its DataView get/set method suffix
// and byte width. byte and bool ride on a single Uint8; i8 on a single Int8.
func dataViewAccessor(name string) (method string, size int) {
	switch name {
	case "bool", "byte":
		return "Uint8", 1
	case "i8":
		return "Int8", 1
	case "i16":
		return "Int16", 2
	case "i32":
		return "Int32", 4
	case "i64":
		return "BigInt64", 8
	case "f32":
		return "Float32", 4
	case "f64":
		return "Float64", 8
	default:
		return "", 0
	}
}

func (c *tsContext) encodeBody(s *schema.Struct) string {
	var b strings.Builder
	for _, m := range s.Members {
		b.WriteString(c.encodeMember(m, "msg."+c.tsFieldName(m), m.Dims))
		b.WriteString("\n")
	}
	return Indent(strings.TrimRight(b.String(), "\n"), 1)
}

func (c *tsContext) decodeBody(s *schema.Struct) string {
	var b strings.Builder
	for _, m := range s.Members {
		b.WriteString(c.decodeMember(m, "result."+c.tsFieldName(m), m.Dims))
		b.WriteString("\n")
	}
	return Indent(strings.TrimRight(b.String(), "\n"), 1)
}

func (c *tsContext) sizeBody(s *schema.Struct) string {
	var b strings.Builder
	for _, m := range s.Members {
		b.WriteString(fmt.Sprintf("size += %s;\n", c.sizeOfMember(m, "msg."+c.tsFieldName(m), m.Dims)))
	}
	return Indent(strings.TrimRight(b.String(), "\n"), 1)
}

func (c *tsContext) encodeMember(m *schema.Member, expr string, dims []schema.Dimension) string {
	if len(dims) == 0 {
		return c.encodeScalar(m.Type, expr)
	}
	bound := c.dimBound(dims[0])
	idx := fmt.Sprintf("i%d", len(dims))
	inner := c.encodeMember(m, expr+"["+idx+"]", dims[1:])
	return fmt.Sprintf("for (let %s = 0; %s < %s; %s++) {\n%s\n}", idx, idx, bound, idx, Indent(inner, 1))
}

func (c *tsContext) decodeMember(m *schema.Member, expr string, dims []schema.Dimension) string {
	if len(dims) == 0 {
		return c.decodeScalar(m.Type, expr)
	}
	bound := c.dimBound(dims[0])
	idx := fmt.Sprintf("i%d", len(dims))
	elemType := c.tsBaseType(m.Type)
	for range dims[1:] {
		elemType += "[]"
	}
	inner := c.decodeMember(m, expr+"["+idx+"]", dims[1:])
	return fmt.Sprintf(`%s = new Array(%s);
for (let %s = 0; %s < %s; %s++) {
%s
}`, expr, bound, idx, idx, bound, idx, Indent(inner, 1))
}

func (c *tsContext) sizeOfMember(m *schema.Member, expr string, dims []schema.Dimension) string {
	if len(dims) == 0 {
		return c.sizeOfScalar(m.Type, expr)
	}
	idx := "v"
	inner := c.sizeOfMember(m, idx, dims[1:])
	return fmt.Sprintf("%s.reduce((acc: number, %s: any) => acc + (%s), 0)", expr, idx, inner)
}

func (c *tsContext) dimBound(d schema.Dimension) string {
	if d.Kind == schema.DimConst {
		return fmt.Sprintf("%d", d.Size)
	}
	return "Number(msg." + ToCamelCase(d.Field) + ")"
}

func (c *tsContext) resolveNamed(t *schema.NamedType) (isEnum, found bool) {
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

func (c *tsContext) encodeScalar(t schema.TypeRef, expr string) string {
	switch typ := t.(type) {
	case *schema.ScalarType:
		if typ.Name == "string" {
			return fmt.Sprintf(`{
  const bytes = textEncoder.encode(%s);
  view.setUint32(pos, bytes.length + 1);
  pos += 4;
  new Uint8Array(view.buffer, view.byteOffset + pos, bytes.length).set(bytes);
  pos += bytes.length;
  view.setUint8(pos, 0);
  pos += 1;
}`, expr)
		}
		method, size := dataViewAccessor(typ.Name)
		val := expr
		if typ.Name == "bool" {
			val = "(" + expr + " ? 1 : 0)"
		}
		return fmt.Sprintf("view.set%s(pos, %s); pos += %d;", method, val, size)
	case *schema.NamedType:
		if isEnum, _ := c.resolveNamed(typ); isEnum {
			return fmt.Sprintf("view.setInt32(pos, %s); pos += 4;", expr)
		}
		return fmt.Sprintf("pos = encode%s(%s, view, pos);", c.tsBaseType(typ), expr)
	default:
		return "// unsupported member type"
	}
}

func (c *tsContext) decodeScalar(t schema.TypeRef, expr string) string {
	switch typ := t.(type) {
	case *schema.ScalarType:
		if typ.Name == "string" {
			return fmt.Sprintf(`{
  const total = view.getUint32(pos);
  pos += 4;
  const strLen = total - 1;
  %s = textDecoder.decode(new Uint8Array(view.buffer, view.byteOffset + pos, strLen));
  pos += total;
}`, expr)
		}
		method, size := dataViewAccessor(typ.Name)
		if typ.Name == "bool" {
			return fmt.Sprintf("%s = view.getInt8(pos) !== 0; pos += 1;", expr)
		}
		return fmt.Sprintf("%s = view.get%s(pos); pos += %d;", expr, method, size)
	case *schema.NamedType:
		if isEnum, _ := c.resolveNamed(typ); isEnum {
			return fmt.Sprintf("%s = view.getInt32(pos); pos += 4;", expr)
		}
		return fmt.Sprintf(`{
  const [v, next] = decode%s(view, pos);
  %s = v;
  pos = next;
}`, c.tsBaseType(typ), expr)
	default:
		return "// unsupported member type"
	}
}

func (c *tsContext) sizeOfScalar(t schema.TypeRef, expr string) string {
	switch typ := t.(type) {
	case *schema.ScalarType:
		if typ.Name == "string" {
			return fmt.Sprintf("4 + textEncoder.encode(%s).length + 1", expr)
		}
		_, size := dataViewAccessor(typ.Name)
		return fmt.Sprintf("%d", size)
	case *schema.NamedType:
		if isEnum, _ := c.resolveNamed(typ); isEnum {
			return "4"
		}
		return fmt.Sprintf("getEncodedSize%s(%s)", c.tsBaseType(typ), expr)
	default:
		return "0"
	}
}

func init() {
	Register(NewTypeScriptGenerator())
}

const tsTemplate = `// Code generated by lcmgen. DO NOT EDIT.
// Source: {{.Schema.Position.Filename}}

const textEncoder = new TextEncoder();
const textDecoder = new TextDecoder();
{{$ctx := .}}
{{range $enum := .Schema.Enums}}
{{if generateComments}}{{range $enum.Comments}}{{if .IsDoc}}{{comment .Text}}
{{end}}{{end}}{{end -}}
export enum {{tsEnumType $enum}} {
{{- range $enum.Values}}
  {{tsEnumValueName .}} = {{.Value}},
{{- end}}
}
{{end}}
{{range $s := .Schema.Structs}}
{{if generateComments}}{{range $s.Comments}}{{if .IsDoc}}{{comment .Text}}
{{end}}{{end}}{{end -}}
export interface {{tsStructType $s}} {
{{- range $s.Members}}
  {{tsFieldName .}}: {{tsFieldType .}};
{{- end}}
}

export const {{tsStructType $s}}Hash: bigint = {{structHash $s}};

export function getEncodedSize{{tsStructType $s}}(msg: {{tsStructType $s}}): number {
  let size = 0;
{{sizeBody $s}}
  return size;
}

export function encode{{tsStructType $s}}(msg: {{tsStructType $s}}, view?: DataView, startPos?: number): Uint8Array | number {
  if (view !== undefined) {
    let pos = startPos ?? 0;
{{encodeBody $s}}
    return pos;
  }
  const size = getEncodedSize{{tsStructType $s}}(msg);
  const buf = new ArrayBuffer(8 + size);
  const dv = new DataView(buf);
  dv.setBigUint64(0, {{tsStructType $s}}Hash);
  encode{{tsStructType $s}}(msg, dv, 8);
  return new Uint8Array(buf);
}

export function decode{{tsStructType $s}}(view: DataView, startPos: number): [{{tsStructType $s}}, number] {
  let pos = startPos;
  const result = {} as {{tsStructType $s}};
{{decodeBody $s}}
  return [result, pos];
}

export function unmarshal{{tsStructType $s}}(data: Uint8Array): {{tsStructType $s}} {
  const view = new DataView(data.buffer, data.byteOffset, data.byteLength);
  const hash = view.getBigUint64(0);
  if (hash !== {{tsStructType $s}}Hash) {
    throw new Error('hash mismatch decoding {{tsStructType $s}}: got ' + hash.toString(16) + ', want ' + {{tsStructType $s}}Hash.toString(16));
  }
  const [msg] = decode{{tsStructType $s}}(view, 8);
  return msg;
}
{{end}}
`
