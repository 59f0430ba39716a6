// Package extract extracts an LCM schema from annotated Go structs, the
// reverse direction of pkg/codegen: instead of generating Go from a .lcm
// file, it walks Go source with golang.org/x/tools/go/packages and builds
// the same *schema.Schema the parser would have produced from hand-written
// IDL. Wired into the lcmgen CLI as the `schema` subcommand.
package extract

import (
	"fmt"
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/packages"
)

// PackageLoader loads Go packages for analysis.
type PackageLoader struct {
	config *packages.Config
}

// NewPackageLoader creates a new package loader.
func NewPackageLoader() *PackageLoader {
	return &PackageLoader{
		config: &packages.Config{
			Mode: packages.NeedName |
				packages.NeedTypes |
				packages.NeedTypesInfo |
				packages.NeedSyntax |
				packages.NeedImports |
				packages.NeedDeps,
		},
	}
}

// Load loads packages matching the given patterns.
func (l *PackageLoader) Load(patterns []string) ([]*packages.Package, error) {
	pkgs, err := packages.Load(l.config, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, err := range pkg.Errors {
			errs = append(errs, err)
		}
	})

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs[0])
	}

	return pkgs, nil
}

// TypeInfo contains information about an extracted struct type. LCM has no
// polymorphic/interface types, so unlike a protobuf-shaped extractor there
// is no Implements list or type-ID here: wire identity comes entirely from
// the type's member list via the schema hash.
type TypeInfo struct {
	Name       string
	Package    string
	PkgPath    string
	Doc        string
	Fields     []*FieldInfo
	GoType     types.Type
	IsExported bool
}

// FieldInfo contains information about a struct field. Member order follows
// Go's declared field order directly: LCM has no field numbers, so the
// struct's declaration order IS the wire order.
type FieldInfo struct {
	Name     string
	GoType   types.Type
	TypeName string
	Tag      *StructTag
	Doc      string
}

// EnumInfo contains information about an enum type: a named Go integer type
// with associated constants of that type, wired as an i32-backed schema.Enum.
type EnumInfo struct {
	Name    string
	Package string
	PkgPath string
	Doc     string
	Values  []*EnumValueInfo
	GoType  types.Type
}

// EnumValueInfo contains information about a single enum constant.
type EnumValueInfo struct {
	Name   string
	Number int64
	Doc    string
}

// StructTag represents a parsed `lcm:"..."` struct tag. A slice field needs
// one DimArgs entry per array dimension it introduces, naming the sibling
// integer field that carries that dimension's length at runtime (LCM's VAR
// array form); a fixed-size Go array ([N]T) needs no tag since its length
// is already known at compile time (LCM's CONST array form).
type StructTag struct {
	Skip    bool
	DimArgs []string
}

// extractDoc extracts documentation from an AST node.
func extractDoc(cg *ast.CommentGroup) string {
	if cg == nil {
		return ""
	}
	return cg.Text()
}
