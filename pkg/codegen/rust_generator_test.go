package codegen

import (
	"bytes"
	"strings"
	"testing"
)

func TestRustGeneratorEmitsStructAndCodec(t *testing.T) {
	sch := mustParseSchema(t, `package demo;
struct point_t {
  i64 utime;
  f64 pos[3];
  i32 n;
  f32 readings[n];
  string label;
}`)

	gen := NewRustGenerator()
	var buf bytes.Buffer
	if err := gen.Generate(&buf, sch, DefaultOptions()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"pub struct PointT {",
		"pub utime: i64,",
		"pub pos: [f64; 3],",
		"pub readings: Vec<f32>,",
		"pub label: String,",
		"pub const HASH: u64 =",
		"pub fn encode(&self) -> Vec<u8>",
		"pub fn decode(buf: &[u8]) -> Result<Self, String>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("generated output missing %q\n--- output ---\n%s", want, out)
		}
	}
}

func TestRustGeneratorEnum(t *testing.T) {
	sch := mustParseSchema(t, `enum color_t { RED = 0; GREEN = 1; }`)
	gen := NewRustGenerator()
	var buf bytes.Buffer
	if err := gen.Generate(&buf, sch, DefaultOptions()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "pub enum ColorT {") {
		t.Errorf("missing enum:\n%s", out)
	}
	if !strings.Contains(out, "fn from_i32(v: i32) -> Self") {
		t.Errorf("missing from_i32:\n%s", out)
	}
}
