package schema

import "testing"

func TestTokenizeBasics(t *testing.T) {
	src := `package demo;
struct example_t {
  i64 utime;
  double pos[3];
  i32 n;
  float r[n];
  const i32 MAX_N = 16;
}
enum color_t {
  RED = 0;
  GREEN = 1;
}`

	tokens := Tokenize("test.lcm", src)
	if len(tokens) == 0 {
		t.Fatal("expected tokens, got none")
	}
	last := tokens[len(tokens)-1]
	if last.Type != TokenEOF {
		t.Fatalf("last token = %v, want EOF", last)
	}
	for _, tok := range tokens {
		if tok.Type == TokenError {
			t.Fatalf("unexpected lexer error: %v", tok)
		}
	}
}

func TestTokenizeKeywords(t *testing.T) {
	tests := []struct {
		input string
		want  TokenType
	}{
		{"package", TokenPackage},
		{"import", TokenImport},
		{"struct", TokenStruct},
		{"enum", TokenEnum},
		{"const", TokenConst},
		{"true", TokenTrue},
		{"false", TokenFalse},
		{"some_ident", TokenIdent},
	}
	for _, tc := range tests {
		toks := Tokenize("t", tc.input)
		if toks[0].Type != tc.want {
			t.Errorf("Tokenize(%q)[0].Type = %v, want %v", tc.input, toks[0].Type, tc.want)
		}
	}
}

func TestTokenizeNumbers(t *testing.T) {
	toks := Tokenize("t", "42 -7 3.14 -1.5 1e10")
	want := []TokenType{TokenInt, TokenInt, TokenFloat, TokenFloat, TokenFloat, TokenEOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token[%d] = %v, want %v", i, toks[i].Type, w)
		}
	}
}

func TestTokenizeDocComment(t *testing.T) {
	toks := Tokenize("t", "/// a doc comment\nstruct s {}")
	if toks[0].Type != TokenDocComment {
		t.Fatalf("toks[0].Type = %v, want TokenDocComment", toks[0].Type)
	}
	if toks[0].Value != "a doc comment" {
		t.Errorf("toks[0].Value = %q, want %q", toks[0].Value, "a doc comment")
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	toks := Tokenize("t", `import "unterminated`)
	last := toks[len(toks)-1]
	if last.Type != TokenError {
		t.Fatalf("expected TokenError for unterminated string, got %v", last.Type)
	}
}
