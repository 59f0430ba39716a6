package extract

import (
	"fmt"
	"go/types"
	"sort"
	"strings"

	"github.com/lcm-go/lcm/pkg/schema"
)

// SchemaBuilder converts collected Go type information into an LCM schema.
// LCM has no polymorphic/interface types and no field numbers, so unlike a
// protobuf-shaped builder this only ever produces structs and enums, and a
// member's wire position comes from its Go struct declaration order rather
// than an assigned number.
type SchemaBuilder struct {
	types    map[string]*TypeInfo
	enums    map[string]*EnumInfo
	schema   *schema.Schema
	warnings []string
}

// NewSchemaBuilder creates a new schema builder.
func NewSchemaBuilder(types map[string]*TypeInfo, enums map[string]*EnumInfo) *SchemaBuilder {
	return &SchemaBuilder{
		types: types,
		enums: enums,
	}
}

// Warnings returns any warnings generated during schema building.
func (b *SchemaBuilder) Warnings() []string {
	return b.warnings
}

func (b *SchemaBuilder) addWarning(msg string) {
	b.warnings = append(b.warnings, msg)
}

// Build constructs a schema from the collected types.
func (b *SchemaBuilder) Build(packageName string) (*schema.Schema, error) {
	b.schema = &schema.Schema{
		Package: packageName,
	}

	b.buildEnums()
	b.buildStructs()

	return b.schema, nil
}

func (b *SchemaBuilder) buildEnums() {
	var names []string
	for name := range b.enums {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		enum := b.enums[name]
		schemaEnum := &schema.Enum{Name: enum.Name}

		if enum.Doc != "" {
			schemaEnum.Comments = []*schema.Comment{{Text: enum.Doc, IsDoc: true}}
		}

		values := make([]*EnumValueInfo, len(enum.Values))
		copy(values, enum.Values)
		sort.Slice(values, func(i, j int) bool { return values[i].Number < values[j].Number })

		for _, val := range values {
			enumVal := &schema.EnumValue{
				Name:  val.Name,
				Value: int32(val.Number),
			}
			if val.Doc != "" {
				enumVal.Comments = []*schema.Comment{{Text: val.Doc, IsDoc: true}}
			}
			schemaEnum.Values = append(schemaEnum.Values, enumVal)
		}

		b.schema.Enums = append(b.schema.Enums, schemaEnum)
	}
}

func (b *SchemaBuilder) buildStructs() {
	var names []string
	for name := range b.types {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		typ := b.types[name]
		st := &schema.Struct{Name: typ.Name}

		if typ.Doc != "" {
			st.Comments = []*schema.Comment{{Text: typ.Doc, IsDoc: true}}
		}

		// Go's declared field order is already the wire order LCM expects;
		// there is no field-number sort to apply here.
		for _, field := range typ.Fields {
			dimArgs := field.Tag.DimArgs
			typeRef, dims, err := b.resolveMemberType(field.GoType, dimArgs)
			if err != nil {
				b.addWarning(fmt.Sprintf("skipping field %s.%s: %v", typ.Name, field.Name, err))
				continue
			}

			member := &schema.Member{
				Name: toSnakeCase(field.Name),
				Type: typeRef,
				Dims: dims,
			}
			if field.Doc != "" {
				member.Comments = []*schema.Comment{{Text: field.Doc, IsDoc: true}}
			}
			st.Members = append(st.Members, member)
		}

		b.schema.Structs = append(b.schema.Structs, st)
	}
}

// resolveMemberType peels pointer/array/slice/named layers off a Go field
// type and returns the scalar or struct/enum type underneath plus the array
// dimensions collected along the way (outermost first). A Go array
// contributes a DimConst dimension from its own length; a Go slice
// contributes a DimVar dimension that must be supplied by the field's next
// unconsumed lcm struct tag entry, naming the sibling length member.
func (b *SchemaBuilder) resolveMemberType(t types.Type, dimArgs []string) (schema.TypeRef, []schema.Dimension, error) {
	switch tt := t.(type) {
	case *types.Pointer:
		return nil, nil, fmt.Errorf("pointer fields are not representable as LCM members")

	case *types.Array:
		elemType, elemDims, err := b.resolveMemberType(tt.Elem(), dimArgs)
		if err != nil {
			return nil, nil, err
		}
		dims := append([]schema.Dimension{{Kind: schema.DimConst, Size: int(tt.Len())}}, elemDims...)
		return elemType, dims, nil

	case *types.Slice:
		if len(dimArgs) == 0 {
			return nil, nil, fmt.Errorf(`slice field needs an lcm:"<length field>" tag naming its sibling length member`)
		}
		elemType, elemDims, err := b.resolveMemberType(tt.Elem(), dimArgs[1:])
		if err != nil {
			return nil, nil, err
		}
		// dimArgs names the sibling length field using its Go name; the
		// schema itself refers to members by their snake_case schema name.
		dims := append([]schema.Dimension{{Kind: schema.DimVar, Field: toSnakeCase(dimArgs[0])}}, elemDims...)
		return elemType, dims, nil

	case *types.Named:
		typeName := tt.Obj().Name()
		pkgPath := ""
		if tt.Obj().Pkg() != nil {
			pkgPath = tt.Obj().Pkg().Path()
		}
		qualifiedName := pkgPath + "." + typeName

		// NamedType.Name must match the referenced schema.Struct/Enum.Name
		// exactly, which buildStructs/buildEnums set to the Go type name
		// unchanged (only member names get the snake_case treatment).
		if _, isEnum := b.enums[qualifiedName]; isEnum {
			return &schema.NamedType{Name: typeName}, nil, nil
		}
		if _, isStruct := b.types[qualifiedName]; isStruct {
			return &schema.NamedType{Name: typeName}, nil, nil
		}
		return b.resolveMemberType(tt.Underlying(), dimArgs)

	case *types.Basic:
		scalar, err := b.basicTypeToScalar(tt)
		if err != nil {
			return nil, nil, err
		}
		return scalar, nil, nil

	case *types.Map:
		return nil, nil, fmt.Errorf("map fields have no LCM wire representation")

	case *types.Interface:
		return nil, nil, fmt.Errorf("interface fields have no LCM wire representation")

	default:
		return nil, nil, fmt.Errorf("unsupported Go type %s", t.String())
	}
}

func (b *SchemaBuilder) basicTypeToScalar(t *types.Basic) (*schema.ScalarType, error) {
	switch t.Kind() {
	case types.Bool:
		return &schema.ScalarType{Name: "bool"}, nil
	case types.Int8:
		return &schema.ScalarType{Name: "i8"}, nil
	case types.Int16:
		return &schema.ScalarType{Name: "i16"}, nil
	case types.Int:
		b.addWarning("type 'int' is platform-dependent; mapped to i32")
		return &schema.ScalarType{Name: "i32"}, nil
	case types.Int32:
		return &schema.ScalarType{Name: "i32"}, nil
	case types.Int64:
		return &schema.ScalarType{Name: "i64"}, nil
	case types.Uint8:
		return &schema.ScalarType{Name: "byte"}, nil
	case types.Uint16:
		b.addWarning("type 'uint16' has no LCM scalar equivalent; mapped to i32")
		return &schema.ScalarType{Name: "i32"}, nil
	case types.Uint, types.Uint32:
		b.addWarning("type '" + t.String() + "' has no unsigned LCM scalar equivalent; mapped to i32")
		return &schema.ScalarType{Name: "i32"}, nil
	case types.Uint64:
		b.addWarning("type 'uint64' has no unsigned LCM scalar equivalent; mapped to i64")
		return &schema.ScalarType{Name: "i64"}, nil
	case types.Float32:
		return &schema.ScalarType{Name: "f32"}, nil
	case types.Float64:
		return &schema.ScalarType{Name: "f64"}, nil
	case types.String:
		return &schema.ScalarType{Name: "string"}, nil
	default:
		return nil, fmt.Errorf("unsupported basic type %s", t.String())
	}
}

// toSnakeCase converts CamelCase to snake_case, matching the member and
// struct naming schema.ParseFile expects from hand-written IDL. It handles
// runs of uppercase letters (e.g. "HTTPServer" -> "http_server").
func toSnakeCase(s string) string {
	if s == "" {
		return ""
	}

	var result strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				prev := runes[i-1]
				isLowerPrev := prev >= 'a' && prev <= 'z'
				isUpperNext := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
				if isLowerPrev || isUpperNext {
					result.WriteByte('_')
				}
			}
			result.WriteRune(r + 32)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
