package main

import (
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"
)

// Parser consumes the token sequence by recursive descent: one procedure per
// grammar rule, with precedence encoded by the calling order of the
// expression procedures (logical, comparison, additive, multiplicative,
// primary).
type Parser struct {
	tokens []Token
	pos    int
}

func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) has(offset int) bool {
	return p.pos+offset < len(p.tokens)
}

func (p *Parser) at(offset int) Token {
	return p.tokens[p.pos+offset]
}

func (p *Parser) advance() {
	p.pos++
}

// peek reports whether the next tokens match the given patterns in order.
// A TokenType pattern matches the token's type; a string pattern matches
// its literal text.
func (p *Parser) peek(patterns ...any) bool {
	for i, pattern := range patterns {
		if !p.has(i) {
			return false
		}
		switch pattern := pattern.(type) {
		case TokenType:
			if p.at(i).Type != pattern {
				return false
			}
		case string:
			if p.at(i).Literal != pattern {
				return false
			}
		default:
			panic(fmt.Sprintf("invalid pattern %T", pattern))
		}
	}
	return true
}

// match is peek plus advancing past all matched tokens.
func (p *Parser) match(patterns ...any) bool {
	if !p.peek(patterns...) {
		return false
	}
	p.pos += len(patterns)
	return true
}

// fail builds a parse fault at the offset of the token that was found
// instead of the expected one, or the last token's offset if input ran out.
func (p *Parser) fail(msg string) error {
	offset := 0
	if p.has(0) {
		offset = p.at(0).Offset
	} else if len(p.tokens) > 0 {
		offset = p.tokens[len(p.tokens)-1].Offset
	}
	return &SourceError{Msg: msg, Offset: offset}
}

// ParseSource parses a whole program: any interleaving of globals and
// functions at the top level.
func (p *Parser) ParseSource() (*Source, error) {
	src := &Source{}
	for p.has(0) {
		if p.peek("FUN") {
			f, err := p.parseFunction()
			if err != nil {
				return nil, err
			}
			src.Functions = append(src.Functions, f)
		} else {
			g, err := p.parseGlobal()
			if err != nil {
				return nil, err
			}
			src.Globals = append(src.Globals, g)
		}
	}
	return src, nil
}

func (p *Parser) parseGlobal() (*Global, error) {
	var g *Global
	var err error
	switch {
	case p.peek("LIST"):
		g, err = p.parseList()
	case p.peek("VAR"):
		g, err = p.parseMutable()
	case p.peek("VAL"):
		g, err = p.parseImmutable()
	default:
		return nil, p.fail("expected a global declaration")
	}
	if err != nil {
		return nil, err
	}
	if !p.match(";") {
		return nil, p.fail("missing semicolon")
	}
	return g, nil
}

// parseList parses LIST name : Type = [ expr (, expr)* ] with [] allowed.
func (p *Parser) parseList() (*Global, error) {
	p.advance()
	if !p.peek(IDENTIFIER) {
		return nil, p.fail("missing identifier")
	}
	name := p.at(0).Literal
	p.advance()
	if !p.match(":") {
		return nil, p.fail("missing colon")
	}
	if !p.peek(IDENTIFIER) {
		return nil, p.fail("missing type")
	}
	typeName := p.at(0).Literal
	p.advance()
	if !p.match("=", "[") {
		return nil, p.fail("missing opening bracket")
	}
	list := &ListLiteral{}
	if p.match("]") {
		return &Global{Name: name, TypeName: typeName, Mutable: true, Value: list}, nil
	}
	for {
		el, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		list.Elements = append(list.Elements, el)
		if !p.match(",") {
			break
		}
	}
	if !p.match("]") {
		return nil, p.fail("missing closing bracket")
	}
	return &Global{Name: name, TypeName: typeName, Mutable: true, Value: list}, nil
}

func (p *Parser) parseMutable() (*Global, error) {
	p.advance()
	name, typeName, err := p.parseNameAndType()
	if err != nil {
		return nil, err
	}
	g := &Global{Name: name, TypeName: typeName, Mutable: true}
	if p.match("=") {
		if g.Value, err = p.ParseExpression(); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (p *Parser) parseImmutable() (*Global, error) {
	p.advance()
	name, typeName, err := p.parseNameAndType()
	if err != nil {
		return nil, err
	}
	if !p.match("=") {
		return nil, p.fail("missing equals sign")
	}
	value, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return &Global{Name: name, TypeName: typeName, Mutable: false, Value: value}, nil
}

func (p *Parser) parseNameAndType() (string, string, error) {
	if !p.peek(IDENTIFIER) {
		return "", "", p.fail("missing identifier")
	}
	name := p.at(0).Literal
	p.advance()
	if !p.match(":") {
		return "", "", p.fail("missing colon")
	}
	if !p.peek(IDENTIFIER) {
		return "", "", p.fail("missing type")
	}
	typeName := p.at(0).Literal
	p.advance()
	return name, typeName, nil
}

func (p *Parser) parseFunction() (*Function, error) {
	p.advance()
	if !p.peek(IDENTIFIER) {
		return nil, p.fail("missing identifier")
	}
	f := &Function{Name: p.at(0).Literal}
	p.advance()
	if !p.match("(") {
		return nil, p.fail("missing opening parenthesis")
	}
	if !p.match(")") {
		for {
			if !p.peek(IDENTIFIER) {
				return nil, p.fail("missing identifier")
			}
			f.Parameters = append(f.Parameters, p.at(0).Literal)
			p.advance()
			if !p.match(":") {
				return nil, p.fail("missing colon")
			}
			if !p.peek(IDENTIFIER) {
				return nil, p.fail("missing type")
			}
			f.ParameterTypes = append(f.ParameterTypes, p.at(0).Literal)
			p.advance()
			if !p.match(",") {
				break
			}
		}
		if !p.match(")") {
			return nil, p.fail("missing closing parenthesis")
		}
	}
	if p.match(":") {
		if !p.peek(IDENTIFIER) {
			return nil, p.fail("missing type")
		}
		f.ReturnTypeName = p.at(0).Literal
		p.advance()
	}
	if !p.match("DO") {
		return nil, p.fail("missing 'DO'")
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	f.Body = body
	if !p.match("END") {
		return nil, p.fail("missing 'END'")
	}
	return f, nil
}

// parseBlock parses statements until one of the tokens that close or
// continue an enclosing construct, which it leaves unconsumed.
func (p *Parser) parseBlock() ([]Statement, error) {
	var statements []Statement
	for p.has(0) && !p.peek("END") && !p.peek("ELSE") && !p.peek("CASE") && !p.peek("DEFAULT") {
		s, err := p.ParseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, s)
	}
	return statements, nil
}

// ParseStatement parses one statement, delegating on the leading keyword;
// anything else is an expression statement or an assignment.
func (p *Parser) ParseStatement() (Statement, error) {
	if !p.has(0) {
		return nil, p.fail("missing statement")
	}
	switch p.at(0).Literal {
	case "LET":
		return p.parseDeclaration()
	case "SWITCH":
		return p.parseSwitch()
	case "IF":
		return p.parseIf()
	case "WHILE":
		return p.parseWhile()
	case "RETURN":
		return p.parseReturn()
	default:
		expr, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if p.match("=") {
			value, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			if !p.match(";") {
				return nil, p.fail("missing semicolon")
			}
			return &Assignment{Receiver: expr, Value: value}, nil
		}
		if !p.match(";") {
			return nil, p.fail("missing semicolon")
		}
		return &ExpressionStatement{Expr: expr}, nil
	}
}

func (p *Parser) parseDeclaration() (Statement, error) {
	p.advance()
	if !p.peek(IDENTIFIER) {
		return nil, p.fail("missing identifier")
	}
	d := &Declaration{Name: p.at(0).Literal}
	p.advance()
	if p.match(":") {
		if !p.peek(IDENTIFIER) {
			return nil, p.fail("missing type")
		}
		d.TypeName = p.at(0).Literal
		p.advance()
	}
	if p.match("=") {
		value, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		d.Value = value
	}
	if !p.match(";") {
		return nil, p.fail("missing semicolon")
	}
	return d, nil
}

func (p *Parser) parseIf() (Statement, error) {
	p.advance()
	cond, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if !p.match("DO") {
		return nil, p.fail("missing 'DO'")
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	s := &If{Condition: cond, Then: then}
	if p.match("ELSE") {
		if s.Else, err = p.parseBlock(); err != nil {
			return nil, err
		}
	}
	if !p.match("END") {
		return nil, p.fail("missing 'END'")
	}
	return s, nil
}

// parseSwitch requires at least the default case, which must be last.
func (p *Parser) parseSwitch() (Statement, error) {
	p.advance()
	cond, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	s := &Switch{Condition: cond}
	for p.peek("CASE") {
		c, err := p.parseCase()
		if err != nil {
			return nil, err
		}
		s.Cases = append(s.Cases, c)
	}
	if !p.peek("DEFAULT") {
		return nil, p.fail("missing default case")
	}
	c, err := p.parseCase()
	if err != nil {
		return nil, err
	}
	s.Cases = append(s.Cases, c)
	if !p.match("END") {
		return nil, p.fail("missing 'END'")
	}
	return s, nil
}

func (p *Parser) parseCase() (*Case, error) {
	c := &Case{}
	if p.match("CASE") {
		value, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		c.Value = value
	} else {
		p.advance() // DEFAULT
	}
	if !p.match(":") {
		return nil, p.fail("missing colon")
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	c.Body = body
	return c, nil
}

func (p *Parser) parseWhile() (Statement, error) {
	p.advance()
	cond, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if !p.match("DO") {
		return nil, p.fail("missing 'DO'")
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if !p.match("END") {
		return nil, p.fail("missing 'END'")
	}
	return &While{Condition: cond, Body: body}, nil
}

func (p *Parser) parseReturn() (Statement, error) {
	p.advance()
	value, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if !p.match(";") {
		return nil, p.fail("missing semicolon")
	}
	return &Return{Value: value}, nil
}

// ParseExpression parses at the lowest precedence tier. Each tier folds
// same-tier operators left-associatively onto an accumulator and calls the
// next-higher tier for operands.
func (p *Parser) ParseExpression() (Expression, error) {
	return p.parseLogical()
}

func (p *Parser) parseLogical() (Expression, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.peek("&&") || p.peek("||") {
		op := p.at(0).Literal
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseComparison() (Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.peek("<") || p.peek(">") || p.peek("==") || p.peek("!=") {
		op := p.at(0).Literal
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.peek("+") || p.peek("-") {
		op := p.at(0).Literal
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (Expression, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.peek("*") || p.peek("/") || p.peek("^") {
		op := p.at(0).Literal
		p.advance()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parsePrimary() (Expression, error) {
	switch {
	case p.match("NIL"):
		return &Literal{Value: nil}, nil
	case p.match("TRUE"):
		return &Literal{Value: true}, nil
	case p.match("FALSE"):
		return &Literal{Value: false}, nil
	case p.peek(INTEGER):
		i, ok := new(big.Int).SetString(p.at(0).Literal, 10)
		if !ok {
			return nil, p.fail("invalid integer literal")
		}
		p.advance()
		return &Literal{Value: i}, nil
	case p.peek(DECIMAL):
		f, err := parseDecimal(p.at(0).Literal)
		if err != nil {
			return nil, p.fail(err.Error())
		}
		p.advance()
		return &Literal{Value: f}, nil
	case p.peek(CHARACTER):
		r, _ := utf8.DecodeRuneInString(unescape(p.at(0).Literal))
		p.advance()
		return &Literal{Value: r}, nil
	case p.peek(STRING):
		s := unescape(p.at(0).Literal)
		p.advance()
		return &Literal{Value: s}, nil
	case p.match("("):
		inner, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if !p.match(")") {
			return nil, p.fail("missing closing parenthesis")
		}
		return &Group{Inner: inner}, nil
	case p.peek(IDENTIFIER):
		name := p.at(0).Literal
		p.advance()
		if p.match("(") {
			call := &Call{Name: name}
			if p.match(")") {
				return call, nil
			}
			for {
				arg, err := p.ParseExpression()
				if err != nil {
					return nil, err
				}
				call.Args = append(call.Args, arg)
				if !p.match(",") {
					break
				}
			}
			if !p.match(")") {
				return nil, p.fail("missing closing parenthesis")
			}
			return call, nil
		}
		if p.match("[") {
			index, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			if !p.match("]") {
				return nil, p.fail("missing closing bracket")
			}
			return &Access{Index: index, Name: name}, nil
		}
		return &Access{Name: name}, nil
	default:
		return nil, p.fail("invalid primary expression")
	}
}

// unescape strips the surrounding quotes from a character or string literal
// and expands the escapes the scanner accepted.
func unescape(literal string) string {
	body := literal[1 : len(literal)-1]
	if !strings.ContainsRune(body, '\\') {
		return body
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			b.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'b':
			b.WriteByte('\b')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '\'':
			b.WriteByte('\'')
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte(body[i])
		}
	}
	return b.String()
}
