package schema

import (
	"fmt"
	"sort"
	"strconv"
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Position Position
	Message  string
	Severity Severity
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s",
		e.Position.Filename, e.Position.Line, e.Position.Column,
		e.Severity, e.Message)
}

// Severity indicates the severity of a validation error.
type Severity int

const (
	// SeverityError is a fatal error that prevents code generation.
	SeverityError Severity = iota
	// SeverityWarning is a non-fatal issue.
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Validator validates schema definitions.
type Validator struct {
	schema  *Schema
	errors  []ValidationError
	types   map[string]TypeDef  // all defined types, local and imported (by qualified name)
	imports map[string]*Schema  // imported schemas by package name
}

// TypeDef represents a type definition (struct or enum).
type TypeDef struct {
	Name     string
	Kind     TypeDefKind
	Position Position
	Struct   *Struct
	Enum     *Enum
}

// TypeDefKind indicates the kind of type definition.
type TypeDefKind int

const (
	TypeDefStruct TypeDefKind = iota
	TypeDefEnum
)

func (k TypeDefKind) String() string {
	switch k {
	case TypeDefStruct:
		return "struct"
	case TypeDefEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// NewValidator creates a new validator for the given schema.
func NewValidator(schema *Schema) *Validator {
	return &Validator{
		schema:  schema,
		types:   make(map[string]TypeDef),
		imports: make(map[string]*Schema),
	}
}

// AddImport registers an imported schema under the package name that
// qualified member types (`pkg.type_t`) use to refer to it.
func (v *Validator) AddImport(pkg string, schema *Schema) {
	v.imports[pkg] = schema
}

// Validate performs validation and returns any errors, sorted by position.
func (v *Validator) Validate() []ValidationError {
	v.errors = nil

	v.collectTypes()

	for _, s := range v.schema.Structs {
		v.validateStruct(s)
	}
	for _, e := range v.schema.Enums {
		v.validateEnum(e)
	}
	for _, s := range v.schema.Structs {
		v.checkCompositionCycle(s, map[string]bool{})
	}

	sort.Slice(v.errors, func(i, j int) bool {
		if v.errors[i].Position.Line != v.errors[j].Position.Line {
			return v.errors[i].Position.Line < v.errors[j].Position.Line
		}
		return v.errors[i].Position.Column < v.errors[j].Position.Column
	})

	return v.errors
}

// collectTypes collects all local type definitions for reference checking.
func (v *Validator) collectTypes() {
	for _, s := range v.schema.Structs {
		if existing, ok := v.types[s.Name]; ok {
			v.addError(s.Position, "duplicate type name %q (previously defined at %d:%d)",
				s.Name, existing.Position.Line, existing.Position.Column)
			continue
		}
		v.types[s.Name] = TypeDef{Name: s.Name, Kind: TypeDefStruct, Position: s.Position, Struct: s}
	}

	for _, e := range v.schema.Enums {
		if existing, ok := v.types[e.Name]; ok {
			v.addError(e.Position, "duplicate type name %q (previously defined at %d:%d)",
				e.Name, existing.Position.Line, existing.Position.Column)
			continue
		}
		v.types[e.Name] = TypeDef{Name: e.Name, Kind: TypeDefEnum, Position: e.Position, Enum: e}
	}
}

// validateStruct validates a struct definition: reserved/duplicate names,
// type references, and VAR dimension bindings.
func (v *Validator) validateStruct(s *Struct) {
	if ReservedNames[s.Name] {
		v.addError(s.Position, "%q is a reserved name and cannot be used as a struct name", s.Name)
	}

	memberNames := make(map[string]bool)
	integerMembers := make(map[string]bool)

	for _, m := range s.Members {
		if ReservedNames[m.Name] {
			v.addError(m.Position, "%q is a reserved name and cannot be used as a member name", m.Name)
		}
		if memberNames[m.Name] {
			v.addError(m.Position, "duplicate member name %q", m.Name)
		} else {
			memberNames[m.Name] = true
		}
		if scalar, ok := m.Type.(*ScalarType); ok && IsIntegerScalar(scalar.Name) && len(m.Dims) == 0 {
			integerMembers[m.Name] = true
		}

		v.validateTypeRef(m.Type, s.Name, m.Name)
	}

	// VAR dimensions must name a prior sibling integer member (spec §4.B
	// edge case): the length field must appear earlier in declaration order
	// and be a non-array integer scalar.
	seen := make(map[string]bool)
	for _, m := range s.Members {
		for _, d := range m.Dims {
			if d.Kind != DimVar {
				continue
			}
			if !seen[d.Field] {
				if memberNames[d.Field] {
					v.addError(m.Position, "VAR dimension %q on member %q must name a member declared earlier",
						d.Field, m.Name)
				} else {
					v.addError(m.Position, "VAR dimension on member %q names undefined member %q", m.Name, d.Field)
				}
				continue
			}
			if !integerMembers[d.Field] {
				v.addError(m.Position, "VAR dimension on member %q must name an integer scalar member, got %q", m.Name, d.Field)
			}
		}
		seen[m.Name] = true
	}

	for _, c := range s.Constants {
		v.validateConstant(c)
	}
}

// validateConstant checks that a constant's declared type is a legal
// primitive and its literal value parses at that type (spec §4.B edge
// cases).
func (v *Validator) validateConstant(c *Constant) {
	if !IsScalar(c.Type) || c.Type == "string" || c.Type == "byte" {
		v.addError(c.Position, "constant %q has unsupported type %q", c.Name, c.Type)
		return
	}

	switch c.Type {
	case "bool":
		if c.Value != "true" && c.Value != "false" {
			v.addError(c.Position, "constant %q: %q is not a valid bool literal", c.Name, c.Value)
		}
	case "i8", "i16", "i32", "i64":
		bits := map[string]int{"i8": 8, "i16": 16, "i32": 32, "i64": 64}[c.Type]
		if _, err := strconv.ParseInt(c.Value, 10, bits); err != nil {
			v.addError(c.Position, "constant %q: %q does not fit in %s", c.Name, c.Value, c.Type)
		}
	case "f32":
		if _, err := strconv.ParseFloat(c.Value, 32); err != nil {
			v.addError(c.Position, "constant %q: %q is not a valid f32 literal", c.Name, c.Value)
		}
	case "f64":
		if _, err := strconv.ParseFloat(c.Value, 64); err != nil {
			v.addError(c.Position, "constant %q: %q is not a valid f64 literal", c.Name, c.Value)
		}
	}
}

// validateEnum validates an enum definition.
func (v *Validator) validateEnum(e *Enum) {
	if ReservedNames[e.Name] {
		v.addError(e.Position, "%q is a reserved name and cannot be used as an enum name", e.Name)
	}

	valueNumbers := make(map[int32]string)
	valueNames := make(map[string]bool)

	for _, val := range e.Values {
		if existing, ok := valueNumbers[val.Value]; ok {
			v.addError(val.Position, "duplicate enum value %d (also used by %q)", val.Value, existing)
		} else {
			valueNumbers[val.Value] = val.Name
		}

		if valueNames[val.Name] {
			v.addError(val.Position, "duplicate enum value name %q", val.Name)
		} else {
			valueNames[val.Name] = true
		}
	}
}

// validateTypeRef validates a member's type reference, resolving named
// types against local and imported schemas.
func (v *Validator) validateTypeRef(typeRef TypeRef, structName, memberName string) {
	switch t := typeRef.(type) {
	case *ScalarType:
		// Always valid; scalar names are fixed during parsing.

	case *NamedType:
		if ReservedNames[t.Name] {
			v.addError(t.Position, "%q is a reserved name and cannot be used as a type reference", t.Name)
			return
		}
		if t.Package != "" {
			imported, ok := v.imports[t.Package]
			if !ok {
				v.addError(t.Position, "unknown package %q in member %s.%s", t.Package, structName, memberName)
				return
			}
			if !schemaDefines(imported, t.Name) {
				v.addError(t.Position, "type %q not found in package %q", t.Name, t.Package)
			}
			return
		}
		if _, ok := v.types[t.Name]; !ok {
			v.addError(t.Position, "undefined type %q in member %s.%s", t.Name, structName, memberName)
		}
	}
}

func schemaDefines(s *Schema, name string) bool {
	for _, st := range s.Structs {
		if st.Name == name {
			return true
		}
	}
	for _, e := range s.Enums {
		if e.Name == name {
			return true
		}
	}
	return false
}

// checkCompositionCycle walks a struct's nested user-type members looking
// for a composition cycle. Composition is by value, so a genuine
// self-referencing member is impossible to construct with this grammar;
// this check exists defensively against future grammar extensions (e.g. a
// pointer/optional member) and against malformed cross-file imports.
func (v *Validator) checkCompositionCycle(s *Struct, onStack map[string]bool) {
	if onStack[s.Name] {
		v.addError(s.Position, "struct %q is involved in a composition cycle", s.Name)
		return
	}
	onStack[s.Name] = true
	defer delete(onStack, s.Name)

	for _, m := range s.Members {
		named, ok := m.Type.(*NamedType)
		if !ok || named.Package != "" {
			continue
		}
		def, ok := v.types[named.Name]
		if !ok || def.Kind != TypeDefStruct {
			continue
		}
		v.checkCompositionCycle(def.Struct, onStack)
	}
}

func (v *Validator) addError(pos Position, format string, args ...any) {
	v.errors = append(v.errors, ValidationError{
		Position: pos,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityError,
	})
}

func (v *Validator) addWarning(pos Position, format string, args ...any) {
	v.errors = append(v.errors, ValidationError{
		Position: pos,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityWarning,
	})
}

// HasErrors returns true if there are any error-severity issues.
func (v *Validator) HasErrors() bool {
	for _, err := range v.errors {
		if err.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only the error-severity issues.
func (v *Validator) Errors() []ValidationError {
	var errors []ValidationError
	for _, err := range v.errors {
		if err.Severity == SeverityError {
			errors = append(errors, err)
		}
	}
	return errors
}

// Warnings returns only the warning-severity issues.
func (v *Validator) Warnings() []ValidationError {
	var warnings []ValidationError
	for _, err := range v.errors {
		if err.Severity == SeverityWarning {
			warnings = append(warnings, err)
		}
	}
	return warnings
}

// Validate is a convenience function that validates a schema with no
// imports.
func Validate(schema *Schema) []ValidationError {
	validator := NewValidator(schema)
	return validator.Validate()
}

// ValidateWithImports validates a schema against a set of already-parsed
// imported schemas, keyed by package name.
func ValidateWithImports(schema *Schema, imports map[string]*Schema) []ValidationError {
	validator := NewValidator(schema)
	for path, s := range imports {
		validator.AddImport(path, s)
	}
	return validator.Validate()
}
