package extract

import (
	"go/types"
	"strings"
	"testing"
)

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"ID", "id"},
		{"UserName", "user_name"},
		{"FirstName", "first_name"},
		{"HTTPRequest", "http_request"},
		{"HTTPServer", "http_server"},
		{"XMLParser", "xml_parser"},
		{"simple", "simple"},
		{"userID", "user_id"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := toSnakeCase(tt.input)
			if result != tt.expected {
				t.Errorf("toSnakeCase(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		pattern  string
		name     string
		expected bool
	}{
		{"Reading*", "Reading", true},
		{"Reading*", "ReadingSet", true},
		{"Reading*", "Batch", false},
		{"*Set", "ReadingSet", true},
		{"*Set", "Reading", false},
		{"*", "Anything", true},
		{"Batch", "Batch", true},
		{"Batch", "Reading", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"_"+tt.name, func(t *testing.T) {
			result := matchGlob(tt.pattern, tt.name)
			if result != tt.expected {
				t.Errorf("matchGlob(%q, %q) = %v, want %v", tt.pattern, tt.name, result, tt.expected)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}
	if cfg.IncludePrivate {
		t.Error("IncludePrivate should be false by default")
	}
	if len(cfg.IncludePatterns) != 0 {
		t.Error("IncludePatterns should be empty by default")
	}
	if len(cfg.ExcludePatterns) != 0 {
		t.Error("ExcludePatterns should be empty by default")
	}
}

func TestSchemaBuilderBuildEmpty(t *testing.T) {
	types := make(map[string]*TypeInfo)
	enums := make(map[string]*EnumInfo)

	builder := NewSchemaBuilder(types, enums)
	s, err := builder.Build("testpackage")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if s == nil {
		t.Fatal("Build() returned nil schema")
	}
	if s.Package != "testpackage" {
		t.Errorf("Build() package name = %q, want %q", s.Package, "testpackage")
	}
}

func TestExtractorConfig(t *testing.T) {
	cfg := &ExtractorConfig{
		Config:     DefaultConfig(),
		Patterns:   []string{"./..."},
		OutputPath: "test.lcm",
		Package:    "testpkg",
	}

	if cfg.Config == nil {
		t.Error("Config should not be nil")
	}
	if len(cfg.Patterns) != 1 {
		t.Error("Patterns should have one element")
	}
	if cfg.OutputPath != "test.lcm" {
		t.Error("OutputPath mismatch")
	}
	if cfg.Package != "testpkg" {
		t.Error("Package mismatch")
	}
}

// TestExtractToString exercises the full pipeline against testdata/models.go.
func TestExtractToString(t *testing.T) {
	result, err := ExtractToString([]string{"github.com/lcm-go/lcm/pkg/extract/testdata"}, DefaultConfig())
	if err != nil {
		t.Fatalf("ExtractToString() error = %v", err)
	}
	if result == "" {
		t.Error("ExtractToString() returned empty string")
	}
	if !strings.Contains(result, "package") {
		t.Error("ExtractToString() result should contain 'package'")
	}

	for _, want := range []string{"struct Reading", "struct Batch", "struct Grid", "enum Status"} {
		if !strings.Contains(result, want) {
			t.Errorf("result missing %q:\n%s", want, result)
		}
	}

	// Skipped and unexported fields must not leak into the schema.
	if strings.Contains(result, "scratch") {
		t.Error("result should NOT contain 'scratch' (lcm:\"-\" skipped)")
	}
	if strings.Contains(result, "internal") {
		t.Error("result should NOT contain 'internal' (unexported)")
	}
}

// TestExtractWithPrivate tests extraction including unexported types.
func TestExtractWithPrivate(t *testing.T) {
	cfg := &Config{IncludePrivate: true}
	result, err := ExtractToString([]string{"github.com/lcm-go/lcm/pkg/extract/testdata"}, cfg)
	if err != nil {
		t.Fatalf("ExtractToString() error = %v", err)
	}
	if !strings.Contains(result, "struct Reading") {
		t.Error("result should still contain exported types")
	}
}

// TestExtractWithPatterns tests extraction with include/exclude patterns.
func TestExtractWithPatterns(t *testing.T) {
	cfg := &Config{IncludePatterns: []string{"Reading"}}
	result, err := ExtractToString([]string{"github.com/lcm-go/lcm/pkg/extract/testdata"}, cfg)
	if err != nil {
		t.Fatalf("ExtractToString() error = %v", err)
	}

	if !strings.Contains(result, "struct Reading") {
		t.Error("result should contain 'Reading'")
	}
	if strings.Contains(result, "struct Batch") {
		t.Error("result should NOT contain 'Batch' (not matching Reading pattern)")
	}
}

// TestExtractWithExclude tests extraction with exclude patterns.
func TestExtractWithExclude(t *testing.T) {
	cfg := &Config{ExcludePatterns: []string{"Batch"}}
	result, err := ExtractToString([]string{"github.com/lcm-go/lcm/pkg/extract/testdata"}, cfg)
	if err != nil {
		t.Fatalf("ExtractToString() error = %v", err)
	}

	if strings.Contains(result, "struct Batch") {
		t.Error("result should NOT contain 'Batch' (excluded by pattern)")
	}
	if !strings.Contains(result, "struct Reading") {
		t.Error("result should contain 'Reading'")
	}
}

// TestExtractor tests the extractor directly, and that the VAR dimension
// on Batch.Readings correctly names Batch.NumReadings's schema name.
func TestExtractor(t *testing.T) {
	extractor := NewExtractor()
	cfg := &ExtractorConfig{
		Config:   DefaultConfig(),
		Patterns: []string{"github.com/lcm-go/lcm/pkg/extract/testdata"},
		Package:  "custompackage",
	}

	s, err := extractor.Extract(cfg)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if s == nil {
		t.Fatal("Extract() returned nil schema")
	}
	if s.Package != "custompackage" {
		t.Errorf("Package name = %q, want %q", s.Package, "custompackage")
	}

	foundBatch := false
	for _, st := range s.Structs {
		if st.Name != "Batch" {
			continue
		}
		foundBatch = true
		for _, m := range st.Members {
			if m.Name != "readings" {
				continue
			}
			if len(m.Dims) != 1 || m.Dims[0].Field != "num_readings" {
				t.Errorf("Batch.readings dims = %+v, want a single VAR(num_readings) dimension", m.Dims)
			}
		}
	}
	if !foundBatch {
		t.Fatal("expected a Batch struct in the extracted schema")
	}
}

func TestMultiDimensionalConstArray(t *testing.T) {
	result, err := ExtractToString([]string{"github.com/lcm-go/lcm/pkg/extract/testdata"}, DefaultConfig())
	if err != nil {
		t.Fatalf("ExtractToString() error = %v", err)
	}
	if !strings.Contains(result, "cells") {
		t.Error("result should contain the Grid.cells member")
	}
}

func TestEnumDetection(t *testing.T) {
	result, err := ExtractToString([]string{"github.com/lcm-go/lcm/pkg/extract/testdata"}, DefaultConfig())
	if err != nil {
		t.Fatalf("ExtractToString() error = %v", err)
	}

	if !strings.Contains(result, "enum Status") {
		t.Error("result should contain 'Status' enum")
	}
	if !strings.Contains(result, "StatusUnknown") || !strings.Contains(result, "StatusActive") {
		t.Error("result should contain Status enum values")
	}
}

func TestPlatformDependentTypeWarning(t *testing.T) {
	builder := NewSchemaBuilder(nil, nil)
	if _, err := builder.basicTypeToScalar(types.Typ[types.Int]); err != nil {
		t.Fatalf("basicTypeToScalar: %v", err)
	}
	found := false
	for _, w := range builder.Warnings() {
		if strings.Contains(w, "platform-dependent") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a platform-dependent warning, got: %v", builder.Warnings())
	}
}

func TestPointerFieldRejected(t *testing.T) {
	builder := NewSchemaBuilder(nil, nil)
	ptr := types.NewPointer(types.Typ[types.Int32])
	_, _, err := builder.resolveMemberType(ptr, nil)
	if err == nil {
		t.Fatal("expected an error for a pointer field")
	}
}

func TestSliceWithoutDimTagRejected(t *testing.T) {
	builder := NewSchemaBuilder(nil, nil)
	slice := types.NewSlice(types.Typ[types.Int32])
	_, _, err := builder.resolveMemberType(slice, nil)
	if err == nil {
		t.Fatal("expected an error for a slice field with no lcm dim tag")
	}
}
