// Package jsonpath implements a small structural path language for locating
// one value inside a JSON document.
//
// A path starts with '$' (the document root) followed by any number of
// segments, applied left to right:
//
//	.name   object member; name is one or more of [A-Za-z0-9_]
//	[n]     array element; n is one or more decimal digits
//
// Wildcards, slices, quoted keys, negative indices and filters are not
// supported.
//
//	p, err := jsonpath.Parse("$.items[0].id")
//	if err != nil {
//	    return err
//	}
//	v, ok := jsonpath.Evaluate(doc, p)
package jsonpath

import (
	stderrors "errors"
	"math"
	"strconv"
	"strings"

	"github.com/mcncl/jsontree/internal/models"
)

// TokenKind is the variant of a path Token.
type TokenKind int

const (
	TokenRoot TokenKind = iota
	TokenProperty
	TokenIndex
)

// Token is one parsed segment of a path.
type Token struct {
	Kind TokenKind
	// Name is set for TokenProperty.
	Name string
	// Index is set for TokenIndex.
	Index int
}

// Root returns the token that starts every path.
func Root() Token { return Token{Kind: TokenRoot} }

// Property returns an object member token.
func Property(name string) Token { return Token{Kind: TokenProperty, Name: name} }

// Index returns an array element token.
func Index(i int) Token { return Token{Kind: TokenIndex, Index: i} }

func (t Token) String() string {
	switch t.Kind {
	case TokenRoot:
		return "$"
	case TokenProperty:
		return "." + t.Name
	case TokenIndex:
		return "[" + strconv.Itoa(t.Index) + "]"
	default:
		return "?"
	}
}

// Path is a parsed token sequence. Paths returned by Parse always begin with
// exactly one root token.
type Path []Token

// String returns the canonical text form of p.
func (p Path) String() string {
	var b strings.Builder
	for _, t := range p {
		b.WriteString(t.String())
	}
	return b.String()
}

// Parse tokenizes expr in a single left-to-right scan. Any malformed input
// yields a nil Path and an *Error; partial results are never returned.
func Parse(expr string) (Path, error) {
	if expr == "" {
		return nil, newError(ErrEmpty, 0, "path must not be empty")
	}
	if expr[0] != '$' {
		return nil, newError(ErrMissingRoot, 0, "path must start with '$'")
	}

	tokens := Path{Root()}
	i := 1
	for i < len(expr) {
		switch expr[i] {
		case '.':
			i++
			start := i
			for i < len(expr) && isIdentChar(expr[i]) {
				i++
			}
			if start == i {
				return nil, newError(ErrEmptyProperty, start, "expected property name after '.'")
			}
			tokens = append(tokens, Property(expr[start:i]))
		case '[':
			i++
			start := i
			for i < len(expr) && isDigit(expr[i]) {
				i++
			}
			if start == i {
				return nil, newError(ErrBadIndex, start, "expected digits after '['")
			}
			// Indices too large for an int saturate; they are never in range.
			n, err := strconv.Atoi(expr[start:i])
			if stderrors.Is(err, strconv.ErrRange) {
				n = math.MaxInt
			}
			if i >= len(expr) || expr[i] != ']' {
				return nil, newError(ErrUnclosedIndex, i, "expected ']' after index")
			}
			i++
			tokens = append(tokens, Index(n))
		default:
			return nil, newError(ErrUnexpectedChar, i, "unexpected character %q", expr[i])
		}
	}
	return tokens, nil
}

// MustParse is like Parse but panics on an invalid expression.
func MustParse(expr string) Path {
	p, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return p
}

func isIdentChar(c byte) bool {
	return c == '_' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Evaluate walks p from root. It reports false when a member is missing, an
// index is out of range, or a segment is applied to the wrong kind of value;
// the walk stops at the first such segment. A JSON null found at the end of
// the path is reported as found.
func Evaluate(root models.JSONValue, p Path) (models.JSONValue, bool) {
	if len(p) > 0 && p[0].Kind == TokenRoot {
		p = p[1:]
	}

	current := root
	for _, tok := range p {
		switch tok.Kind {
		case TokenProperty:
			obj, ok := current.(*models.Object)
			if !ok || obj == nil {
				return nil, false
			}
			if current, ok = obj.Get(tok.Name); !ok {
				return nil, false
			}
		case TokenIndex:
			arr, ok := current.(models.Array)
			if !ok || tok.Index < 0 || tok.Index >= len(arr) {
				return nil, false
			}
			current = arr[tok.Index]
		default:
			return nil, false
		}
	}
	return current, true
}

// Lookup parses expr and evaluates it against root. The error is non-nil only
// when expr is not a valid path.
func Lookup(root models.JSONValue, expr string) (models.JSONValue, bool, error) {
	p, err := Parse(expr)
	if err != nil {
		return nil, false, err
	}
	v, ok := Evaluate(root, p)
	return v, ok, nil
}
