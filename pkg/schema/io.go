package schema

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Loader loads and resolves schema files, following imports and caching
// results by resolved path.
type Loader struct {
	// SearchPaths are directories to search for imported schemas.
	SearchPaths []string

	loaded       map[string]*Schema
	loadedErrors map[string][]error
}

// NewLoader creates a new schema loader with the given search paths.
func NewLoader(searchPaths ...string) *Loader {
	return &Loader{
		SearchPaths:  searchPaths,
		loaded:       make(map[string]*Schema),
		loadedErrors: make(map[string][]error),
	}
}

// LoadFile loads a schema file and all its imports.
func (l *Loader) LoadFile(path string) (*Schema, []error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, []error{fmt.Errorf("failed to resolve path: %w", err)}
	}

	return l.loadFileInternal(absPath, nil)
}

// loadFileInternal loads a schema file, tracking the import chain to detect
// cycles.
func (l *Loader) loadFileInternal(absPath string, importChain []string) (*Schema, []error) {
	for _, p := range importChain {
		if p == absPath {
			return nil, []error{fmt.Errorf("circular import detected: %s", strings.Join(append(importChain, absPath), " -> "))}
		}
	}

	if schema, ok := l.loaded[absPath]; ok {
		return schema, l.loadedErrors[absPath]
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, []error{fmt.Errorf("failed to read file %s: %w", absPath, err)}
	}

	schema, parseErrors := ParseFile(absPath, string(content))
	var allErrors []error
	for _, e := range parseErrors {
		allErrors = append(allErrors, e)
	}

	if len(parseErrors) > 0 {
		l.loaded[absPath] = schema
		l.loadedErrors[absPath] = allErrors
		return schema, allErrors
	}

	// Cache early so a (would-be) recursive import resolves against a
	// partially built schema rather than re-parsing.
	l.loaded[absPath] = schema

	baseDir := filepath.Dir(absPath)
	importedSchemas := make(map[string]*Schema)
	newChain := append(importChain, absPath)

	for _, imp := range schema.Imports {
		importPath := l.resolveImportPath(imp.Path, baseDir)
		if importPath == "" {
			allErrors = append(allErrors, fmt.Errorf("%s:%d: import not found: %s",
				absPath, imp.Position.Line, imp.Path))
			continue
		}

		importedSchema, importErrors := l.loadFileInternal(importPath, newChain)
		if len(importErrors) > 0 {
			allErrors = append(allErrors, importErrors...)
		}
		if importedSchema != nil {
			key := importedSchema.Package
			if key == "" {
				key = imp.Path
			}
			importedSchemas[key] = importedSchema
		}
	}

	valErrors := ValidateWithImports(schema, importedSchemas)
	for _, e := range valErrors {
		if e.Severity == SeverityError {
			allErrors = append(allErrors, e)
		}
	}

	l.loadedErrors[absPath] = allErrors
	return schema, allErrors
}

// resolveImportPath resolves an import path to an absolute file path,
// checking the importing file's directory first, then SearchPaths in order.
func (l *Loader) resolveImportPath(importPath, baseDir string) string {
	candidate := filepath.Join(baseDir, importPath)
	if _, err := os.Stat(candidate); err == nil {
		absPath, _ := filepath.Abs(candidate)
		return absPath
	}

	for _, searchPath := range l.SearchPaths {
		candidate := filepath.Join(searchPath, importPath)
		if _, err := os.Stat(candidate); err == nil {
			absPath, _ := filepath.Abs(candidate)
			return absPath
		}
	}

	return ""
}

// GetSchema returns a loaded schema by its path.
func (l *Loader) GetSchema(path string) *Schema {
	absPath, _ := filepath.Abs(path)
	return l.loaded[absPath]
}

// AllSchemas returns all loaded schemas, keyed by resolved path.
func (l *Loader) AllSchemas() map[string]*Schema {
	result := make(map[string]*Schema, len(l.loaded))
	for k, v := range l.loaded {
		result[k] = v
	}
	return result
}

// GetImportedSchemas returns the imported schemas for a given schema file,
// keyed by each imported schema's package name (or by the import path as
// written in the source when that schema declares no package). Code
// generators use this to decide whether a referenced type is local or
// cross-package.
func (l *Loader) GetImportedSchemas(path string) map[string]*Schema {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil
	}

	s := l.loaded[absPath]
	if s == nil {
		return nil
	}

	result := make(map[string]*Schema)
	baseDir := filepath.Dir(absPath)

	for _, imp := range s.Imports {
		importPath := l.resolveImportPath(imp.Path, baseDir)
		if importPath == "" {
			continue
		}
		if importedSchema := l.loaded[importPath]; importedSchema != nil {
			key := importedSchema.Package
			if key == "" {
				key = imp.Path
			}
			result[key] = importedSchema
		}
	}

	return result
}

// Writer writes schemas back out in the source IDL format.
type Writer struct {
	indent string
}

// NewWriter creates a new schema writer.
func NewWriter() *Writer {
	return &Writer{indent: "  "}
}

// SetIndent sets the indentation string (default is two spaces).
func (w *Writer) SetIndent(indent string) {
	w.indent = indent
}

// WriteSchema writes a schema to out.
func (w *Writer) WriteSchema(out io.Writer, schema *Schema) error {
	if schema.Package != "" {
		fmt.Fprintf(out, "package %s;\n\n", schema.Package)
	}

	for _, imp := range schema.Imports {
		fmt.Fprintf(out, "import %q;\n", imp.Path)
	}
	if len(schema.Imports) > 0 {
		fmt.Fprintln(out)
	}

	for i, s := range schema.Structs {
		w.writeStruct(out, s)
		if i < len(schema.Structs)-1 || len(schema.Enums) > 0 {
			fmt.Fprintln(out)
		}
	}

	for i, e := range schema.Enums {
		w.writeEnum(out, e)
		if i < len(schema.Enums)-1 {
			fmt.Fprintln(out)
		}
	}

	return nil
}

func (w *Writer) writeStruct(out io.Writer, s *Struct) {
	for _, comment := range s.Comments {
		if comment.IsDoc {
			fmt.Fprintf(out, "/// %s\n", comment.Text)
		}
	}

	fmt.Fprintf(out, "struct %s {\n", s.Name)

	for _, c := range s.Constants {
		w.writeConstant(out, c)
	}
	for _, m := range s.Members {
		w.writeMember(out, m)
	}

	fmt.Fprintln(out, "}")
}

func (w *Writer) writeConstant(out io.Writer, c *Constant) {
	for _, comment := range c.Comments {
		if comment.IsDoc {
			fmt.Fprintf(out, "%s/// %s\n", w.indent, comment.Text)
		}
	}
	fmt.Fprintf(out, "%sconst %s %s = %s;\n", w.indent, c.Type, c.Name, c.Value)
}

func (w *Writer) writeMember(out io.Writer, m *Member) {
	for _, comment := range m.Comments {
		if comment.IsDoc {
			fmt.Fprintf(out, "%s/// %s\n", w.indent, comment.Text)
		}
	}

	var dims strings.Builder
	for _, d := range m.Dims {
		if d.Kind == DimConst {
			dims.WriteString("[" + strconv.Itoa(d.Size) + "]")
		} else {
			dims.WriteString("[" + d.Field + "]")
		}
	}

	fmt.Fprintf(out, "%s%s %s%s;\n", w.indent, m.Type.String(), m.Name, dims.String())
}

func (w *Writer) writeEnum(out io.Writer, e *Enum) {
	for _, comment := range e.Comments {
		if comment.IsDoc {
			fmt.Fprintf(out, "/// %s\n", comment.Text)
		}
	}

	fmt.Fprintf(out, "enum %s {\n", e.Name)
	for _, val := range e.Values {
		for _, comment := range val.Comments {
			if comment.IsDoc {
				fmt.Fprintf(out, "%s/// %s\n", w.indent, comment.Text)
			}
		}
		fmt.Fprintf(out, "%s%s = %d;\n", w.indent, val.Name, val.Value)
	}
	fmt.Fprintln(out, "}")
}

// WriteToFile writes a schema to a file.
func WriteToFile(path string, schema *Schema) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := NewWriter()
	return writer.WriteSchema(f, schema)
}

// FormatSchema returns a formatted string representation of a schema.
func FormatSchema(schema *Schema) string {
	var sb strings.Builder
	writer := NewWriter()
	_ = writer.WriteSchema(&sb, schema) // strings.Builder never errors
	return sb.String()
}

// LoadAndValidate is a convenience function that loads a schema file and
// returns all errors (parse + validation).
func LoadAndValidate(path string, searchPaths ...string) (*Schema, []error) {
	loader := NewLoader(searchPaths...)
	return loader.LoadFile(path)
}
