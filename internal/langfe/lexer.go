package langfe

import (
	"fmt"
	"strconv"
	"strings"
)

type tokKind int

const (
	tEOF tokKind = iota
	tIdent
	tInt
	tFloat
	tString
	tKeyword
	tPunct
)

type token struct {
	kind tokKind
	text string
	line int
}

var keywords = map[string]bool{
	"func": true, "if": true, "else": true, "while": true, "return": true,
	"raise": true, "true": true, "false": true, "none": true,
	"and": true, "or": true, "not": true, "in": true, "is": true,
}

type lexer struct {
	src  []rune
	pos  int
	line int
}

func newLexer(src string) *lexer { return &lexer{src: []rune(src), line: 1} }

func (lx *lexer) peekRune() rune {
	if lx.pos >= len(lx.src) {
		return 0
	}
	return lx.src[lx.pos]
}

func (lx *lexer) tokens() ([]token, error) {
	var toks []token
	for {
		lx.skipWhitespaceAndComments()
		if lx.pos >= len(lx.src) {
			toks = append(toks, token{kind: tEOF, line: lx.line})
			return toks, nil
		}
		c := lx.src[lx.pos]
		switch {
		case isDigit(c):
			tok := lx.lexNumber()
			toks = append(toks, tok)
		case c == '"':
			tok, err := lx.lexString()
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		case isIdentStart(c):
			tok := lx.lexIdent()
			toks = append(toks, tok)
		default:
			tok, err := lx.lexPunct()
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		}
	}
}

func (lx *lexer) skipWhitespaceAndComments() {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if c == '\n' {
			lx.line++
			lx.pos++
			continue
		}
		if c == ' ' || c == '\t' || c == '\r' {
			lx.pos++
			continue
		}
		if c == '#' {
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
				lx.pos++
			}
			continue
		}
		break
	}
}

func isDigit(r rune) bool      { return r >= '0' && r <= '9' }
func isIdentStart(r rune) bool { return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
func isIdentPart(r rune) bool  { return isIdentStart(r) || isDigit(r) }

func (lx *lexer) lexNumber() token {
	start := lx.pos
	line := lx.line
	isFloat := false
	for lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
		lx.pos++
	}
	if lx.pos < len(lx.src) && lx.src[lx.pos] == '.' && lx.pos+1 < len(lx.src) && isDigit(lx.src[lx.pos+1]) {
		isFloat = true
		lx.pos++
		for lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
			lx.pos++
		}
	}
	text := string(lx.src[start:lx.pos])
	kind := tInt
	if isFloat {
		kind = tFloat
	}
	return token{kind: kind, text: text, line: line}
}

func (lx *lexer) lexString() (token, error) {
	line := lx.line
	lx.pos++ // skip opening quote
	var sb strings.Builder
	for {
		if lx.pos >= len(lx.src) {
			return token{}, fmt.Errorf("line %d: unterminated string", line)
		}
		c := lx.src[lx.pos]
		if c == '"' {
			lx.pos++
			break
		}
		if c == '\\' && lx.pos+1 < len(lx.src) {
			lx.pos++
			switch lx.src[lx.pos] {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case '"':
				sb.WriteRune('"')
			case '\\':
				sb.WriteRune('\\')
			default:
				sb.WriteRune(lx.src[lx.pos])
			}
			lx.pos++
			continue
		}
		sb.WriteRune(c)
		lx.pos++
	}
	return token{kind: tString, text: sb.String(), line: line}, nil
}

func (lx *lexer) lexIdent() token {
	start := lx.pos
	line := lx.line
	for lx.pos < len(lx.src) && isIdentPart(lx.src[lx.pos]) {
		lx.pos++
	}
	text := string(lx.src[start:lx.pos])
	kind := tIdent
	if keywords[text] {
		kind = tKeyword
	}
	return token{kind: kind, text: text, line: line}
}

var twoCharPuncts = []string{"==", "!=", "<=", ">="}

func (lx *lexer) lexPunct() (token, error) {
	line := lx.line
	if lx.pos+1 < len(lx.src) {
		two := string(lx.src[lx.pos : lx.pos+2])
		for _, p := range twoCharPuncts {
			if two == p {
				lx.pos += 2
				return token{kind: tPunct, text: two, line: line}, nil
			}
		}
	}
	c := lx.src[lx.pos]
	switch c {
	case '(', ')', '{', '}', '[', ']', ',', ':', '.', '+', '-', '*', '/', '%', '=', '<', '>':
		lx.pos++
		return token{kind: tPunct, text: string(c), line: line}, nil
	default:
		return token{}, fmt.Errorf("line %d: unexpected character %q", line, string(c))
	}
}

func atoiMust(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
