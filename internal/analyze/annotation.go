package analyze

import (
	"strconv"
	"strings"
	"text/scanner"

	"github.com/cockroachdb/errors"

	"parcel-planner/internal/common"
)

// ValueKind represents the kind of an annotation element value.
type ValueKind int

const (
	ValueUnknown ValueKind = iota
	ValueString            // "text"
	ValueInt               // 42
	ValueBool              // true
	ValueIdent             // Serialization.BEAN, a constant reference
	ValueClass             // Foo.class, a type literal
	ValueArray             // {a, b}
)

// String returns a human-readable representation of the ValueKind.
func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueInt:
		return "int"
	case ValueBool:
		return "bool"
	case ValueIdent:
		return "ident"
	case ValueClass:
		return "class"
	case ValueArray:
		return "array"
	default:
		return common.UnknownStr
	}
}

// Value is one annotation element value.
type Value struct {
	Kind  ValueKind
	Text  string  // string literal, identifier, or the class name as written
	Int   int64   // ValueInt
	Bool  bool    // ValueBool
	Type  TypeRef // ValueClass after resolution
	Elems []Value // ValueArray
}

// Annotation is an annotation instance with its literal element values.
// A single unnamed argument is stored under the "value" key.
type Annotation struct {
	Name   string           // As written or qualified by the loader
	Values map[string]Value // Element values by name
}

// Get returns the element value for key.
func (a Annotation) Get(key string) (Value, bool) {
	v, ok := a.Values[key]
	return v, ok
}

// String returns a string element.
func (a Annotation) String(key string) (string, bool) {
	v, ok := a.Values[key]
	if !ok || v.Kind != ValueString {
		return "", false
	}

	return v.Text, true
}

// Int returns an integer element.
func (a Annotation) Int(key string) (int, bool) {
	v, ok := a.Values[key]
	if !ok || v.Kind != ValueInt {
		return 0, false
	}

	return int(v.Int), true
}

// Enum returns the constant name of an enum element, e.g. "BEAN" for
// "Parcel.Serialization.BEAN".
func (a Annotation) Enum(key string) (string, bool) {
	v, ok := a.Values[key]
	if !ok || v.Kind != ValueIdent {
		return "", false
	}

	return common.SimpleName(v.Text), true
}

// Type returns a class literal element.
func (a Annotation) Type(key string) (TypeRef, bool) {
	v, ok := a.Values[key]
	if !ok || v.Kind != ValueClass {
		return TypeRef{}, false
	}

	return v.Type, true
}

// Types returns the class literals of an element that holds either a single
// class literal or an array of them.
func (a Annotation) Types(key string) []TypeRef {
	v, ok := a.Values[key]
	if !ok {
		return nil
	}

	switch v.Kind {
	case ValueClass:
		return []TypeRef{v.Type}
	case ValueArray:
		var out []TypeRef
		for _, e := range v.Elems {
			if e.Kind == ValueClass {
				out = append(out, e.Type)
			}
		}

		return out
	default:
		return nil
	}
}

// ResolveTypes resolves every class literal with resolve.
func (a *Annotation) ResolveTypes(resolve func(raw string) TypeRef) {
	for k, v := range a.Values {
		a.Values[k] = resolveValue(v, resolve)
	}
}

func resolveValue(v Value, resolve func(string) TypeRef) Value {
	switch v.Kind {
	case ValueClass:
		v.Type = resolve(v.Text)
	case ValueArray:
		elems := make([]Value, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = resolveValue(e, resolve)
		}
		v.Elems = elems
	default:
	}

	return v
}

// Annotations is the ordered annotation list of one declaration.
type Annotations []Annotation

// Find returns the first annotation matching name. Qualified and simple names
// are matched as described by common.SameName.
func (as Annotations) Find(name string) (Annotation, bool) {
	for _, a := range as {
		if common.SameName(a.Name, name) {
			return a, true
		}
	}

	return Annotation{}, false
}

// Has returns true if an annotation matching name is present.
func (as Annotations) Has(name string) bool {
	_, ok := as.Find(name)
	return ok
}

// ParseAnnotation parses annotation source text such as
// `@Parcel(value = Parcel.Serialization.BEAN, analyze = {A.class, B.class})`
// or `ParcelProperty("value")`. The leading '@' is optional.
func ParseAnnotation(src string) (Annotation, error) {
	p := &annotationParser{toks: tokenize(src)}

	a, err := p.annotation()
	if err != nil {
		return Annotation{}, errors.Wrapf(err, "parse annotation %q", src)
	}

	if !p.done() {
		return Annotation{}, errors.Newf("parse annotation %q: unexpected %q", src, p.peek().text)
	}

	return a, nil
}

type token struct {
	tok  rune
	text string
}

func tokenize(src string) []token {
	var s scanner.Scanner
	s.Init(strings.NewReader(src))
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats |
		scanner.ScanStrings | scanner.ScanChars | scanner.ScanRawStrings | scanner.SkipComments | scanner.ScanComments
	s.Error = func(*scanner.Scanner, string) {}

	var toks []token
	for tok := s.Scan(); tok != scanner.EOF; tok = s.Scan() {
		toks = append(toks, token{tok: tok, text: s.TokenText()})
	}

	return toks
}

type annotationParser struct {
	toks []token
	pos  int
}

func (p *annotationParser) done() bool {
	return p.pos >= len(p.toks)
}

func (p *annotationParser) peek() token {
	if p.done() {
		return token{tok: scanner.EOF}
	}

	return p.toks[p.pos]
}

func (p *annotationParser) peekAt(offset int) token {
	if p.pos+offset >= len(p.toks) {
		return token{tok: scanner.EOF}
	}

	return p.toks[p.pos+offset]
}

func (p *annotationParser) next() token {
	t := p.peek()
	if !p.done() {
		p.pos++
	}

	return t
}

func (p *annotationParser) expect(r rune) error {
	if t := p.next(); t.tok != r {
		return errors.Newf("expected %q, found %q", string(r), t.text)
	}

	return nil
}

func (p *annotationParser) annotation() (Annotation, error) {
	if p.peek().tok == '@' {
		p.next()
	}

	name, err := p.qualifiedName()
	if err != nil {
		return Annotation{}, err
	}

	a := Annotation{Name: name, Values: map[string]Value{}}
	if p.peek().tok != '(' {
		return a, nil
	}

	p.next()
	if p.peek().tok == ')' {
		p.next()
		return a, nil
	}

	if p.peek().tok == scanner.Ident && p.peekAt(1).tok == '=' {
		for {
			key := p.next().text
			if err := p.expect('='); err != nil {
				return Annotation{}, err
			}

			v, err := p.value()
			if err != nil {
				return Annotation{}, err
			}
			a.Values[key] = v

			if p.peek().tok != ',' {
				break
			}
			p.next()
		}
	} else {
		v, err := p.value()
		if err != nil {
			return Annotation{}, err
		}
		a.Values["value"] = v
	}

	return a, p.expect(')')
}

func (p *annotationParser) qualifiedName() (string, error) {
	t := p.next()
	if t.tok != scanner.Ident {
		return "", errors.Newf("expected identifier, found %q", t.text)
	}

	parts := []string{t.text}
	for p.peek().tok == '.' && p.peekAt(1).tok == scanner.Ident && p.peekAt(1).text != "class" {
		p.next()
		parts = append(parts, p.next().text)
	}

	return strings.Join(parts, "."), nil
}

func (p *annotationParser) value() (Value, error) {
	t := p.peek()
	switch t.tok {
	case scanner.String, scanner.RawString:
		p.next()
		s, err := strconv.Unquote(t.text)
		if err != nil {
			return Value{}, errors.Wrapf(err, "string literal %s", t.text)
		}

		return Value{Kind: ValueString, Text: s}, nil
	case scanner.Char:
		p.next()
		return Value{Kind: ValueString, Text: strings.Trim(t.text, "'")}, nil
	case scanner.Int, '-':
		return p.intValue()
	case '{':
		return p.arrayValue()
	case '@':
		nested, err := p.annotation()
		if err != nil {
			return Value{}, err
		}

		return Value{Kind: ValueIdent, Text: "@" + nested.Name}, nil
	case scanner.Ident:
		name, err := p.qualifiedName()
		if err != nil {
			return Value{}, err
		}

		switch {
		case p.peek().tok == '.' && p.peekAt(1).text == "class":
			p.next()
			p.next()
			return Value{Kind: ValueClass, Text: name}, nil
		case name == "true" || name == "false":
			return Value{Kind: ValueBool, Bool: name == "true"}, nil
		default:
			return Value{Kind: ValueIdent, Text: name}, nil
		}
	default:
		return Value{}, errors.Newf("unexpected %q in annotation value", t.text)
	}
}

func (p *annotationParser) intValue() (Value, error) {
	sign := int64(1)
	if p.peek().tok == '-' {
		p.next()
		sign = -1
	}

	t := p.next()
	if t.tok != scanner.Int {
		return Value{}, errors.Newf("expected integer, found %q", t.text)
	}

	text := strings.TrimRight(t.text, "lL")
	n, err := strconv.ParseInt(strings.ReplaceAll(text, "_", ""), 0, 64)
	if err != nil {
		return Value{}, errors.Wrapf(err, "integer literal %s", t.text)
	}

	return Value{Kind: ValueInt, Int: sign * n}, nil
}

func (p *annotationParser) arrayValue() (Value, error) {
	p.next()

	v := Value{Kind: ValueArray}
	for p.peek().tok != '}' {
		e, err := p.value()
		if err != nil {
			return Value{}, err
		}
		v.Elems = append(v.Elems, e)

		if p.peek().tok != ',' {
			break
		}
		p.next()
	}

	return v, p.expect('}')
}
