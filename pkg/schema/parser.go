package schema

import (
	"fmt"
	"strconv"
)

// Parser parses schema source code into an AST.
type Parser struct {
	lexer    *Lexer
	current  Token
	previous Token
	errors   []ParseError
	comments []*Comment // collected doc comments awaiting a declaration
}

// ParseError represents a parsing error.
type ParseError struct {
	Position Position
	Message  string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Position.Filename, e.Position.Line, e.Position.Column, e.Message)
}

// NewParser creates a new parser for the given input.
func NewParser(filename, input string) *Parser {
	p := &Parser{
		lexer: NewLexer(filename, input),
	}
	p.advance() // load first token
	return p
}

// Parse parses the entire schema file: `package p; import "x"; struct S {
// ... } enum E { ... }`.
func (p *Parser) Parse() (*Schema, []ParseError) {
	schema := &Schema{
		Position: p.current.Position,
	}

	p.collectComments()

	if p.check(TokenPackage) {
		name, err := p.parsePackage()
		if err != nil {
			p.errors = append(p.errors, *err)
		} else {
			schema.Package = name
		}
	}

	for p.check(TokenImport) {
		imp, err := p.parseImport()
		if err != nil {
			p.errors = append(p.errors, *err)
			p.synchronize()
		} else {
			schema.Imports = append(schema.Imports, imp)
		}
	}

	for !p.check(TokenEOF) {
		p.collectComments()

		switch {
		case p.check(TokenStruct):
			s, err := p.parseStruct()
			if err != nil {
				p.errors = append(p.errors, *err)
				p.synchronize()
			} else {
				schema.Structs = append(schema.Structs, s)
			}
		case p.check(TokenEnum):
			e, err := p.parseEnum()
			if err != nil {
				p.errors = append(p.errors, *err)
				p.synchronize()
			} else {
				schema.Enums = append(schema.Enums, e)
			}
		case p.check(TokenEOF):
			break
		default:
			p.errors = append(p.errors, ParseError{
				Position: p.current.Position,
				Message:  fmt.Sprintf("unexpected token: %s", p.current.Type),
			})
			p.advance()
		}
	}

	schema.Comments = p.comments
	return schema, p.errors
}

// parsePackage parses: 'package' identifier ';'
func (p *Parser) parsePackage() (string, *ParseError) {
	p.advance() // consume 'package'

	if !p.check(TokenIdent) {
		return "", p.error("expected package name")
	}
	name := p.current.Value
	p.advance()

	if !p.consume(TokenSemicolon, "expected ';' after package name") {
		return "", p.error("expected ';' after package name")
	}

	return name, nil
}

// parseImport parses: 'import' string ';'
func (p *Parser) parseImport() (*Import, *ParseError) {
	startPos := p.current.Position
	p.advance() // consume 'import'

	if !p.check(TokenString) {
		return nil, p.error("expected import path string")
	}
	path := p.current.Value
	p.advance()

	endPos := p.current.Position
	if !p.consume(TokenSemicolon, "expected ';' after import") {
		return nil, p.error("expected ';' after import")
	}

	return &Import{
		Position: startPos,
		EndPos:   endPos,
		Path:     path,
	}, nil
}

// parseStruct parses: 'struct' identifier '{' (member | constant)* '}'
func (p *Parser) parseStruct() (*Struct, *ParseError) {
	docComments := p.getDocComments()
	startPos := p.current.Position
	p.advance() // consume 'struct'

	if !p.check(TokenIdent) {
		return nil, p.error("expected struct name")
	}
	name := p.current.Value
	p.advance()

	if !p.consume(TokenLBrace, "expected '{' after struct name") {
		return nil, p.error("expected '{' after struct name")
	}

	var members []*Member
	var constants []*Constant
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		p.collectComments()
		if p.check(TokenRBrace) {
			break
		}
		if p.check(TokenConst) {
			c, err := p.parseConstant()
			if err != nil {
				return nil, err
			}
			constants = append(constants, c)
			continue
		}
		m, err := p.parseMember()
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	endPos := p.current.Position
	if !p.consume(TokenRBrace, "expected '}'") {
		return nil, p.error("expected '}'")
	}

	return &Struct{
		Position:  startPos,
		EndPos:    endPos,
		Name:      name,
		Members:   members,
		Constants: constants,
		Comments:  docComments,
	}, nil
}

// parseConstant parses: 'const' type identifier '=' literal ';'
func (p *Parser) parseConstant() (*Constant, *ParseError) {
	docComments := p.getDocComments()
	startPos := p.current.Position
	p.advance() // consume 'const'

	if !p.check(TokenIdent) {
		return nil, p.error("expected constant type")
	}
	typeName := p.current.Value
	p.advance()

	if !p.check(TokenIdent) {
		return nil, p.error("expected constant name")
	}
	name := p.current.Value
	p.advance()

	if !p.consume(TokenEquals, "expected '=' after constant name") {
		return nil, p.error("expected '=' after constant name")
	}

	value, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}

	endPos := p.current.Position
	if !p.consume(TokenSemicolon, "expected ';' after constant") {
		return nil, p.error("expected ';' after constant")
	}

	return &Constant{
		Position: startPos,
		EndPos:   endPos,
		Name:     name,
		Type:     typeName,
		Value:    value,
		Comments: docComments,
	}, nil
}

// parseLiteral parses a numeric or boolean literal's source text verbatim;
// its type-specific parsing is deferred to the validator.
func (p *Parser) parseLiteral() (string, *ParseError) {
	switch p.current.Type {
	case TokenInt, TokenFloat:
		v := p.current.Value
		p.advance()
		return v, nil
	case TokenTrue:
		p.advance()
		return "true", nil
	case TokenFalse:
		p.advance()
		return "false", nil
	default:
		return "", p.error("expected a literal value")
	}
}

// parseMember parses: type identifier ('[' (int|ident) ']')* ';'
func (p *Parser) parseMember() (*Member, *ParseError) {
	docComments := p.getDocComments()
	startPos := p.current.Position

	typeRef, err := p.parseTypeRef()
	if err != nil {
		return nil, err
	}

	if !p.check(TokenIdent) {
		return nil, p.error("expected member name")
	}
	name := p.current.Value
	p.advance()

	var dims []Dimension
	for p.check(TokenLBracket) {
		p.advance() // consume '['
		switch {
		case p.check(TokenInt):
			size, convErr := strconv.Atoi(p.current.Value)
			if convErr != nil {
				return nil, p.error("invalid array size")
			}
			p.advance()
			dims = append(dims, Dimension{Kind: DimConst, Size: size})
		case p.check(TokenIdent):
			field := p.current.Value
			p.advance()
			dims = append(dims, Dimension{Kind: DimVar, Field: field})
		default:
			return nil, p.error("expected array size or sibling field name")
		}
		if !p.consume(TokenRBracket, "expected ']'") {
			return nil, p.error("expected ']'")
		}
	}

	endPos := p.current.Position
	if !p.consume(TokenSemicolon, "expected ';' after member") {
		return nil, p.error("expected ';' after member")
	}

	return &Member{
		Position: startPos,
		EndPos:   endPos,
		Name:     name,
		Type:     typeRef,
		Dims:     dims,
		Comments: docComments,
	}, nil
}

// parseTypeRef parses a scalar or named (possibly package-qualified) type.
func (p *Parser) parseTypeRef() (TypeRef, *ParseError) {
	startPos := p.current.Position

	if !p.check(TokenIdent) {
		return nil, p.error("expected type name")
	}

	name := p.current.Value
	endPos := p.current.Position
	endPos.Column += len(name)
	p.advance()

	if canon, ok := CanonicalScalarName(name); ok {
		return &ScalarType{
			Position: startPos,
			EndPos:   endPos,
			Name:     canon,
		}, nil
	}

	var pkg string
	if p.check(TokenDot) {
		p.advance()
		if !p.check(TokenIdent) {
			return nil, p.error("expected type name after '.'")
		}
		pkg = name
		name = p.current.Value
		endPos = p.current.Position
		endPos.Column += len(name)
		p.advance()
	}

	return &NamedType{
		Position: startPos,
		EndPos:   endPos,
		Package:  pkg,
		Name:     name,
	}, nil
}

// parseEnum parses: 'enum' identifier '{' enumValue* '}'
func (p *Parser) parseEnum() (*Enum, *ParseError) {
	docComments := p.getDocComments()
	startPos := p.current.Position
	p.advance() // consume 'enum'

	if !p.check(TokenIdent) {
		return nil, p.error("expected enum name")
	}
	name := p.current.Value
	p.advance()

	if !p.consume(TokenLBrace, "expected '{' after enum name") {
		return nil, p.error("expected '{' after enum name")
	}

	var values []*EnumValue
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		p.collectComments()
		if p.check(TokenRBrace) {
			break
		}
		val, err := p.parseEnumValue()
		if err != nil {
			return nil, err
		}
		values = append(values, val)
	}

	endPos := p.current.Position
	if !p.consume(TokenRBrace, "expected '}'") {
		return nil, p.error("expected '}'")
	}

	return &Enum{
		Position: startPos,
		EndPos:   endPos,
		Name:     name,
		Values:   values,
		Comments: docComments,
	}, nil
}

// parseEnumValue parses: identifier '=' integer ';'
func (p *Parser) parseEnumValue() (*EnumValue, *ParseError) {
	docComments := p.getDocComments()
	startPos := p.current.Position

	if !p.check(TokenIdent) {
		return nil, p.error("expected enum value name")
	}
	name := p.current.Value
	p.advance()

	if !p.consume(TokenEquals, "expected '=' after enum value name") {
		return nil, p.error("expected '=' after enum value name")
	}

	if !p.check(TokenInt) {
		return nil, p.error("expected enum value number")
	}
	num, err := strconv.ParseInt(p.current.Value, 10, 32)
	if err != nil {
		return nil, p.error("invalid enum value number")
	}
	p.advance()

	endPos := p.current.Position
	if !p.consume(TokenSemicolon, "expected ';' after enum value") {
		return nil, p.error("expected ';' after enum value")
	}

	return &EnumValue{
		Position: startPos,
		EndPos:   endPos,
		Name:     name,
		Value:    int32(num),
		Comments: docComments,
	}, nil
}

// Helper methods

func (p *Parser) advance() {
	p.previous = p.current
	p.current = p.lexer.Next()

	for p.current.Type == TokenComment {
		p.current = p.lexer.Next()
	}
}

func (p *Parser) check(typ TokenType) bool {
	return p.current.Type == typ
}

func (p *Parser) consume(typ TokenType, _ string) bool {
	if p.check(typ) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) error(msg string) *ParseError {
	return &ParseError{
		Position: p.current.Position,
		Message:  msg,
	}
}

// synchronize skips tokens until a likely recovery point: the statement
// boundary after an error, or the start of the next top-level declaration.
func (p *Parser) synchronize() {
	for !p.check(TokenEOF) {
		if p.previous.Type == TokenSemicolon || p.previous.Type == TokenRBrace {
			return
		}
		switch p.current.Type {
		case TokenPackage, TokenImport, TokenStruct, TokenEnum:
			return
		}
		p.advance()
	}
}

// collectComments gathers doc comments preceding the current position.
func (p *Parser) collectComments() {
	for p.current.Type == TokenDocComment || p.current.Type == TokenComment {
		if p.current.Type == TokenDocComment {
			p.comments = append(p.comments, &Comment{
				Position: p.current.Position,
				EndPos:   p.current.Position,
				Text:     p.current.Value,
				IsDoc:    true,
			})
		}
		p.current = p.lexer.Next()
	}
}

// getDocComments returns doc comments collected since the last declaration
// and clears the pending set.
func (p *Parser) getDocComments() []*Comment {
	result := make([]*Comment, len(p.comments))
	copy(result, p.comments)
	p.comments = nil
	return result
}

// ParseFile is a convenience function that parses a schema file.
func ParseFile(filename, input string) (*Schema, []ParseError) {
	parser := NewParser(filename, input)
	return parser.Parse()
}
