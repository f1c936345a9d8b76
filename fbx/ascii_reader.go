package fbx

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

const (
	TOKEN_NAME = iota
	TOKEN_WORD
	TOKEN_NUMBER
	TOKEN_STRING
	TOKEN_ARRAY
	TOKEN_LBRACE
	TOKEN_RBRACE
	TOKEN_COMMA
	TOKEN_COMMENT
)

var lexer *lexmachine.Lexer

func init() {
	lexer = lexmachine.NewLexer()
	lexer.Add([]byte(`[a-zA-Z_][a-zA-Z0-9_]*:`), getToken(TOKEN_NAME))
	lexer.Add([]byte(`[a-zA-Z_][a-zA-Z0-9_]*`), getToken(TOKEN_WORD))
	lexer.Add([]byte(`[\+\-]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][\+\-]?[0-9]+)?`), getToken(TOKEN_NUMBER))
	lexer.Add([]byte(`"[^"]*"`), getToken(TOKEN_STRING))
	lexer.Add([]byte(`[*][0-9]+`), getToken(TOKEN_ARRAY))
	lexer.Add([]byte(`[{]`), getToken(TOKEN_LBRACE))
	lexer.Add([]byte(`[}]`), getToken(TOKEN_RBRACE))
	lexer.Add([]byte(`,`), getToken(TOKEN_COMMA))
	lexer.Add([]byte(`;[^\n]*`), getToken(TOKEN_COMMENT))
	lexer.Add([]byte(`\s+`), skip)
	if err := lexer.Compile(); err != nil {
		panic(err)
	}
}

func getToken(tokenType int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(tokenType, string(m.Bytes), m), nil
	}
}

func skip(scan *lexmachine.Scanner, match *machines.Match) (interface{}, error) {
	return nil, nil
}

type asciiParser struct {
	toks []*lexmachine.Token
	pos  int
}

func (p *asciiParser) peek() *lexmachine.Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return nil
}

func (p *asciiParser) next() *lexmachine.Token {
	t := p.peek()
	if t != nil {
		p.pos++
	}
	return t
}

func (p *asciiParser) peekType(tokenType int) bool {
	t := p.peek()
	return t != nil && t.Type == tokenType
}

func (p *asciiParser) expect(tokenType int, what string) *lexmachine.Token {
	t := p.next()
	if t == nil {
		panic(newError(ErrSyntax, nil, "expected %s, got end of file", what))
	}
	if t.Type != tokenType {
		panic(newError(ErrSyntax, nil, "expected %s on line %d, got %q", what, t.StartLine, t.Lexeme))
	}
	return t
}

// ReadASCII parses text container. Version comes from "; FBX 7.4.0 project file" line
func ReadASCII(data []byte) (f *File, err error) {
	scanner, err := lexer.Scanner(data)
	if err != nil {
		return nil, newError(ErrSyntax, err, "failed to create lexer scanner")
	}

	p := &asciiParser{}
	var version uint32
	for itok, err, eos := scanner.Next(); !eos; itok, err, eos = scanner.Next() {
		if err != nil {
			return nil, newError(ErrSyntax, err, "failed to parse token")
		}
		tok := itok.(*lexmachine.Token)
		if tok.Type == TOKEN_COMMENT {
			if version == 0 {
				version = parseVersionComment(string(tok.Lexeme))
			}
			continue
		}
		p.toks = append(p.toks, tok)
	}

	if version == 0 {
		log.Warnf("Missing FBX version line")
		return nil, newError(ErrNoVersion, nil, "missing FBX version line")
	}

	defer func() {
		if e := recoverError(recover()); e != nil {
			f, err = nil, e
		}
	}()

	f = NewFile(version)
	for p.peek() != nil {
		if n := p.parseNode(); !n.IsNull() {
			f.Nodes = append(f.Nodes, n)
		}
	}
	restoreFullNames(f)
	return f, nil
}

// restoreFullNames decodes "Class::Display" back into full names. Only
// records that store object names are touched, other strings keep "::"
func restoreFullNames(f *File) {
	parse := func(n *Node, i int) {
		if i < len(n.Properties) && n.Properties[i].typ == PropertyString {
			n.Properties[i].SetString(ParseASCIIName(n.Properties[i].StringValue()))
		}
	}
	for _, top := range f.Nodes {
		switch top.Name {
		case "Objects":
			for _, o := range top.Nodes {
				switch len(o.Properties) {
				case 3:
					parse(o, 1)
				case 2:
					parse(o, 0)
				}
			}
		case "Connections":
			for _, c := range top.GetNodes("Connect") {
				parse(c, 1)
				parse(c, 2)
			}
		case "FBXHeaderExtension":
			for _, info := range top.GetNodes("SceneInfo") {
				parse(info, 0)
			}
		}
	}
}

func parseVersionComment(s string) uint32 {
	var major, minor, patch uint32
	s = strings.TrimSpace(strings.TrimPrefix(s, ";"))
	if n, _ := fmt.Sscanf(s, "FBX %d.%d.%d", &major, &minor, &patch); n < 2 {
		return 0
	}
	return major*1000 + minor*100 + patch*10
}

func (p *asciiParser) parseNode() *Node {
	nameTok := p.expect(TOKEN_NAME, "node name")
	n := &Node{Name: strings.TrimSuffix(string(nameTok.Lexeme), ":")}

	for p.startsValue() {
		n.Properties = append(n.Properties, p.parseValue())
		if !p.peekType(TOKEN_COMMA) {
			break
		}
		p.next()
	}

	if p.peekType(TOKEN_LBRACE) {
		p.next()
		for !p.peekType(TOKEN_RBRACE) {
			if p.peek() == nil {
				panic(newError(ErrSyntax, nil, "unclosed node %q from line %d", n.Name, nameTok.StartLine))
			}
			if c := p.parseNode(); !c.IsNull() {
				n.AddNodes(c)
			}
		}
		p.next()
	}
	return n
}

func (p *asciiParser) startsValue() bool {
	t := p.peek()
	if t == nil {
		return false
	}
	switch t.Type {
	case TOKEN_STRING, TOKEN_NUMBER, TOKEN_WORD, TOKEN_ARRAY:
		return true
	}
	return false
}

func (p *asciiParser) parseValue() *Property {
	t := p.next()
	prop := &Property{}
	lexeme := string(t.Lexeme)

	switch t.Type {
	case TOKEN_STRING:
		s := asciiUnescaper.Replace(lexeme[1 : len(lexeme)-1])
		prop.SetString(s)
	case TOKEN_WORD:
		switch lexeme {
		case "Y":
			prop.setScalar(PropertyBool, 'Y')
		case "T":
			prop.setScalar(PropertyBool, 'T')
		default:
			prop.SetString(lexeme)
		}
	case TOKEN_NUMBER:
		p.parseNumber(prop, t)
	case TOKEN_ARRAY:
		p.parseArray(prop, t)
	}
	return prop
}

func isFloatLexeme(s string) bool {
	return strings.ContainsAny(s, ".eE")
}

func (p *asciiParser) parseNumber(prop *Property, t *lexmachine.Token) {
	s := string(t.Lexeme)
	if !isFloatLexeme(s) {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			if v >= math.MinInt32 && v <= math.MaxInt32 {
				prop.SetInt32(int32(v))
			} else {
				prop.SetInt64(v)
			}
			return
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		panic(newError(ErrSyntax, err, "bad number on line %d", t.StartLine))
	}
	prop.SetFloat64(v)
}

// parseArray reads "*N { a: v0,v1 }". Element type is float64 when any value
// has fraction or exponent, otherwise smallest of int32 and int64 that fits
func (p *asciiParser) parseArray(prop *Property, t *lexmachine.Token) {
	count, err := strconv.Atoi(string(t.Lexeme[1:]))
	if err != nil {
		panic(newError(ErrSyntax, err, "bad array size on line %d", t.StartLine))
	}
	p.expect(TOKEN_LBRACE, "array block")

	var values []string
	if p.peekType(TOKEN_NAME) {
		p.next()
		for p.peekType(TOKEN_NUMBER) {
			values = append(values, string(p.next().Lexeme))
			if !p.peekType(TOKEN_COMMA) {
				break
			}
			p.next()
		}
	}
	p.expect(TOKEN_RBRACE, "array end")

	if len(values) != count {
		log.Warnf("Array on line %d declares %d elements, has %d", t.StartLine, count, len(values))
	}

	isFloat, isLong := false, false
	ints := make([]int64, len(values))
	for i, s := range values {
		if isFloatLexeme(s) {
			isFloat = true
			break
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			isFloat = true
			break
		}
		if v < math.MinInt32 || v > math.MaxInt32 {
			isLong = true
		}
		ints[i] = v
	}

	switch {
	case isFloat:
		floats := make([]float64, len(values))
		for i, s := range values {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				panic(newError(ErrSyntax, err, "bad array element on line %d", t.StartLine))
			}
			floats[i] = v
		}
		prop.SetFloat64Array(floats)
	case isLong:
		prop.SetInt64Array(ints)
	default:
		i32 := make([]int32, len(ints))
		for i, v := range ints {
			i32[i] = int32(v)
		}
		prop.SetInt32Array(i32)
	}
}

// DecodeBase64Blob converts string property written from blob back to blob
func DecodeBase64Blob(p *Property) bool {
	if p.typ != PropertyString {
		return false
	}
	b, err := base64.StdEncoding.DecodeString(string(p.data))
	if err != nil {
		return false
	}
	p.SetBlob(b)
	return true
}
