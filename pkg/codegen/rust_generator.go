package codegen

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/lcm-go/lcm/pkg/schema"
)

// RustGenerator generates Rust code from LCM schemas: a struct per message
// type plus inherent encode/decode/encoded_size/hash methods built directly
// on big-endian byte slices (no external wire-format crate dependency).
type RustGenerator struct{}

func NewRustGenerator() *RustGenerator { return &RustGenerator{} }

func (g *RustGenerator) Language() Language    { return LanguageRust }
func (g *RustGenerator) FileExtension() string { return ".rs" }

func (g *RustGenerator) Generate(w io.Writer, s *schema.Schema, opts Options) error {
	hasher := schema.NewHasher()
	hasher.AddSchema(s.Package, s)
	for alias, imp := range opts.ImportedSchemas {
		hasher.AddSchema(alias, imp)
	}

	ctx := &rustContext{Schema: s, Options: opts, hasher: hasher}
	tmpl, err := template.New("rust").Funcs(ctx.funcMap()).Parse(rustTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return tmpl.Execute(w, ctx)
}

type rustContext struct {
	Schema  *schema.Schema
	Options Options
	hasher  *schema.Hasher
}

func (c *rustContext) funcMap() template.FuncMap {
	return template.FuncMap{
		"rustStructType":   c.rustStructType,
		"rustEnumType":     c.rustEnumType,
		"rustFieldType":    c.rustFieldType,
		"rustFieldName":    c.rustFieldName,
		"rustEnumValue":    c.rustEnumValue,
		"structHash":       c.structHash,
		"comment":          c.rustComment,
		"generateComments": func() bool { return c.Options.GenerateComments },
		"encodeBody":       c.encodeBody,
		"decodeBody":       c.decodeBody,
		"sizeBody":         c.sizeBody,
		"firstEnumValue":   c.firstEnumValue,
	}
}

// firstEnumValue returns the name of an enum's first declared value, used as
// the fallback arm of from_i32 for an out-of-range raw value.
func (c *rustContext) firstEnumValue(e *schema.Enum) string {
	if len(e.Values) == 0 {
		return ""
	}
	return ToPascalCase(e.Values[0].Name)
}

func (c *rustContext) structHash(s *schema.Struct) string {
	h, ok := c.hasher.HashStruct(c.Schema.Package, s.Name)
	if !ok {
		return "0"
	}
	return fmt.Sprintf("0x%016x", h)
}

func (c *rustContext) rustStructType(s *schema.Struct) string {
	return c.Options.TypePrefix + ToPascalCase(s.Name) + c.Options.TypeSuffix
}

func (c *rustContext) rustEnumType(e *schema.Enum) string {
	return c.Options.TypePrefix + ToPascalCase(e.Name) + c.Options.TypeSuffix
}

func (c *rustContext) rustEnumValue(v *schema.EnumValue) string { return ToPascalCase(v.Name) }
func (c *rustContext) rustFieldName(m *schema.Member) string    { return ToSnakeCase(m.Name) }

func (c *rustContext) rustComment(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	for i, l := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("/// " + l)
	}
	return b.String()
}

var rustScalarNames = map[string]string{
	"bool": "bool", "i8": "i8", "i16": "i16", "i32": "i32", "i64": "i64",
	"f32": "f32", "f64": "f64", "byte": "u8", "string": "String",
}

func (c *rustContext) rustBaseType(t schema.TypeRef) string {
	switch typ := t.(type) {
	case *schema.ScalarType:
		return rustScalarNames[typ.Name]
	case *schema.NamedType:
		name := c.Options.TypePrefix + ToPascalCase(typ.Name) + c.Options.TypeSuffix
		if typ.Package != "" && typ.Package != c.Schema.Package {
			return typ.Package + "::" + name
		}
		return name
	default:
		return "()"
	}
}

func (c *rustContext) rustFieldType(m *schema.Member) string {
	base := c.rustBaseType(m.Type)
	if len(m.Dims) == 0 {
		return base
	}
	t := base
	for _, d := range m.Dims {
		if d.Kind == schema.DimConst {
			t = fmt.Sprintf("[%s; %d]", t, d.Size)
		} else {
			t = "Vec<" + t + ">"
		}
	}
	return t
}

func (c *rustContext) resolveNamed(t *schema.NamedType) (isEnum, found bool) {
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

func (c *rustContext) encodeBody(s *schema.Struct) string {
	var b strings.Builder
	for _, m := range s.Members {
		b.WriteString(c.encodeMember(m, "self."+c.rustFieldName(m), m.Dims))
		b.WriteString("\n")
	}
	return Indent(strings.TrimRight(b.String(), "\n"), 2)
}

func (c *rustContext) decodeBody(s *schema.Struct) string {
	var b strings.Builder
	for _, m := range s.Members {
		name := c.rustFieldName(m)
		b.WriteString(fmt.Sprintf("let %s = {\n%s\n};\n", name, Indent(c.decodeMember(m, name, m.Dims), 1)))
	}
	return Indent(strings.TrimRight(b.String(), "\n"), 2)
}

func (c *rustContext) sizeBody(s *schema.Struct) string {
	var b strings.Builder
	for _, m := range s.Members {
		b.WriteString(fmt.Sprintf("size += %s;\n", c.sizeOfMember(m, "self."+c.rustFieldName(m), m.Dims)))
	}
	return Indent(strings.TrimRight(b.String(), "\n"), 2)
}

func (c *rustContext) dimBound(d schema.Dimension) string {
	if d.Kind == schema.DimConst {
		return fmt.Sprintf("%d", d.Size)
	}
	return "self." + ToSnakeCase(d.Field) + " as usize"
}

func (c *rustContext) encodeMember(m *schema.Member, expr string, dims []schema.Dimension) string {
	if len(dims) == 0 {
		return c.encodeScalar(m.Type, expr)
	}
	idx := fmt.Sprintf("elem%d", len(dims))
	inner := c.encodeMember(m, idx, dims[1:])
	return fmt.Sprintf("for %s in %s.iter() {\n%s\n}", idx, expr, Indent(inner, 1))
}

func (c *rustContext) decodeMember(m *schema.Member, name string, dims []schema.Dimension) string {
	if len(dims) == 0 {
		return c.decodeScalar(m.Type)
	}
	bound := c.dimBound(dims[0])
	if dims[0].Kind == schema.DimConst {
		elemType := c.rustBaseType(m.Type)
		for _, d := range dims[1:] {
			if d.Kind == schema.DimConst {
				elemType = fmt.Sprintf("[%s; %d]", elemType, d.Size)
			} else {
				elemType = "Vec<" + elemType + ">"
			}
		}
		inner := c.decodeMember(m, name, dims[1:])
		return fmt.Sprintf(`let mut arr: Vec<%s> = Vec::with_capacity(%s);
for _ in 0..%s {
    arr.push({
%s
    });
}
let arr: [%s; %s] = arr.try_into().unwrap();
arr`, elemType, bound, bound, Indent(inner, 2), elemType, bound)
	}
	inner := c.decodeMember(m, name, dims[1:])
	return fmt.Sprintf(`let mut v = Vec::with_capacity(%s);
for _ in 0..%s {
    v.push({
%s
    });
}
v`, bound, bound, Indent(inner, 2))
}

func (c *rustContext) sizeOfMember(m *schema.Member, expr string, dims []schema.Dimension) string {
	if len(dims) == 0 {
		return c.sizeOfScalar(m.Type, expr)
	}
	idx := "elem"
	inner := c.sizeOfMember(m, idx, dims[1:])
	return fmt.Sprintf("%s.iter().map(|%s| %s).sum::<usize>()", expr, idx, inner)
}

func (c *rustContext) encodeScalar(t schema.TypeRef, expr string) string {
	switch typ := t.(type) {
	case *schema.ScalarType:
		switch typ.Name {
		case "string":
			return fmt.Sprintf(`let bytes = %s.as_bytes();
buf.extend_from_slice(&((bytes.len() as u32) + 1).to_be_bytes());
buf.extend_from_slice(bytes);
buf.push(0);`, expr)
		case "bool":
			return fmt.Sprintf("buf.push(if %s { 1 } else { 0 });", expr)
		case "i8", "byte":
			return fmt.Sprintf("buf.push(%s as u8);", expr)
		default:
			return fmt.Sprintf("buf.extend_from_slice(&%s.to_be_bytes());", expr)
		}
	case *schema.NamedType:
		if isEnum, _ := c.resolveNamed(typ); isEnum {
			return fmt.Sprintf("buf.extend_from_slice(&(%s as i32).to_be_bytes());", expr)
		}
		return fmt.Sprintf("%s.encode_no_hash(buf);", expr)
	default:
		return "// unsupported member type"
	}
}

func (c *rustContext) decodeScalar(t schema.TypeRef) string {
	switch typ := t.(type) {
	case *schema.ScalarType:
		switch typ.Name {
		case "string":
			return `let total = u32::from_be_bytes(buf[*pos..*pos+4].try_into().unwrap()) as usize;
*pos += 4;
let str_len = total - 1;
let s = String::from_utf8_lossy(&buf[*pos..*pos+str_len]).into_owned();
*pos += total;
s`
		case "bool":
			return `let v = buf[*pos] != 0;
*pos += 1;
v`
		case "byte", "i8":
			return fmt.Sprintf(`let v = buf[*pos] as %s;
*pos += 1;
v`, rustScalarNames[typ.Name])
		default:
			size := map[string]int{"i16": 2, "i32": 4, "i64": 8, "f32": 4, "f64": 8}[typ.Name]
			rt := rustScalarNames[typ.Name]
			fn := "from_be_bytes"
			return fmt.Sprintf(`let v = %s::%s(buf[*pos..*pos+%d].try_into().unwrap());
*pos += %d;
v`, rt, fn, size, size)
		}
	case *schema.NamedType:
		if isEnum, _ := c.resolveNamed(typ); isEnum {
			enumType := c.rustBaseType(typ)
			return fmt.Sprintf(`let raw = i32::from_be_bytes(buf[*pos..*pos+4].try_into().unwrap());
*pos += 4;
%s::from_i32(raw)`, enumType)
		}
		structType := c.rustBaseType(typ)
		return fmt.Sprintf("%s::decode_no_hash(buf, pos)", structType)
	default:
		return "unimplemented!()"
	}
}

func (c *rustContext) sizeOfScalar(t schema.TypeRef, expr string) string {
	switch typ := t.(type) {
	case *schema.ScalarType:
		if typ.Name == "string" {
			return fmt.Sprintf("4 + %s.len() + 1", expr)
		}
		size := map[string]int{"bool": 1, "byte": 1, "i8": 1, "i16": 2, "i32": 4, "i64": 8, "f32": 4, "f64": 8}[typ.Name]
		return fmt.Sprintf("%d", size)
	case *schema.NamedType:
		if isEnum, _ := c.resolveNamed(typ); isEnum {
			return "4"
		}
		return fmt.Sprintf("%s.encoded_size_no_hash()", expr)
	default:
		return "0"
	}
}

func init() {
	Register(NewRustGenerator())
}

const rustTemplate = `// Code generated by lcmgen. DO NOT EDIT.
// Source: {{.Schema.Position.Filename}}
{{$ctx := .}}
{{range $enum := .Schema.Enums}}
{{if generateComments}}{{range $enum.Comments}}{{if .IsDoc}}{{comment .Text}}
{{end}}{{end}}{{end -}}
#[derive(Debug, Clone, Copy, PartialEq, Eq)]
#[repr(i32)]
pub enum {{rustEnumType $enum}} {
{{- range $enum.Values}}
    {{rustEnumValue .}} = {{.Value}},
{{- end}}
}

impl {{rustEnumType $enum}} {
    pub fn from_i32(v: i32) -> Self {
        match v {
{{- range $enum.Values}}
            {{.Value}} => {{rustEnumType $enum}}::{{rustEnumValue .}},
{{- end}}
            _ => {{rustEnumType $enum}}::{{firstEnumValue $enum}},
        }
    }
}
{{end}}
{{range $s := .Schema.Structs}}
{{if generateComments}}{{range $s.Comments}}{{if .IsDoc}}{{comment .Text}}
{{end}}{{end}}{{end -}}
#[derive(Debug, Clone, PartialEq)]
pub struct {{rustStructType $s}} {
{{- range $s.Members}}
    pub {{rustFieldName .}}: {{rustFieldType .}},
{{- end}}
}

impl {{rustStructType $s}} {
    pub const HASH: u64 = {{structHash $s}};

    pub fn hash(&self) -> u64 {
        Self::HASH
    }

    pub fn encode(&self) -> Vec<u8> {
        let mut buf = Vec::with_capacity(8 + self.encoded_size_no_hash());
        buf.extend_from_slice(&Self::HASH.to_be_bytes());
        self.encode_no_hash(&mut buf);
        buf
    }

    pub fn encode_no_hash(&self, buf: &mut Vec<u8>) {
{{encodeBody $s}}
    }

    pub fn decode(buf: &[u8]) -> Result<Self, String> {
        if buf.len() < 8 {
            return Err("buffer too small for type hash".to_string());
        }
        let got = u64::from_be_bytes(buf[0..8].try_into().unwrap());
        if got != Self::HASH {
            return Err(format!("hash mismatch: got {:#x}, want {:#x}", got, Self::HASH));
        }
        let mut pos = 8usize;
        Ok(Self::decode_no_hash(buf, &mut pos))
    }

    pub fn decode_no_hash(buf: &[u8], pos: &mut usize) -> Self {
{{decodeBody $s}}
        Self {
{{- range $s.Members}}
            {{rustFieldName .}},
{{- end}}
        }
    }

    pub fn encoded_size_no_hash(&self) -> usize {
        let mut size = 0usize;
{{sizeBody $s}}
        size
    }
}
{{end}}
`
