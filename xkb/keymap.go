// Package xkb reads X keyboard keymaps as printed by `xkbcomp -xkb` or
// `xkbcli compile-keymap` and translates evdev key codes through them.
package xkb

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrSyntax = errors.New("xkb: syntax error")

// EvdevOffset is the distance between evdev codes and XKB keycodes.
const EvdevOffset = 8

// Keymap holds the parts of a keymap needed for translation: key names,
// keycodes and the keysyms of every group and level.
type Keymap struct {
	keycodes map[string]uint32
	groups   []string
	keys     map[uint32]*keySymbols
}

type keySymbols struct {
	// syms[group][level] is a keysym name.
	syms [][]string
	// types[group] is the explicit key type, if one was given.
	types []string
}

// NumGroups is the number of groups (layouts) in the keymap.
func (k *Keymap) NumGroups() int {
	n := len(k.groups)
	for _, key := range k.keys {
		n = max(n, len(key.syms))
	}
	return n
}

// GroupName returns the display name of a group, e.g. "English (US)".
func (k *Keymap) GroupName(group int) string {
	if group >= 0 && group < len(k.groups) && k.groups[group] != "" {
		return k.groups[group]
	}
	return fmt.Sprintf("Group%d", group+1)
}

// Keycode returns the keycode bound to a key name such as "AC01".
func (k *Keymap) Keycode(name string) (uint32, bool) {
	code, ok := k.keycodes[name]
	return code, ok
}

// Symbols returns the keysyms of a key in a group. Groups past the ones a
// key defines wrap around, as XKB does by default.
func (k *Keymap) Symbols(keycode uint32, group int) (syms []string, keyType string) {
	key := k.keys[keycode]
	if key == nil || len(key.syms) == 0 || group < 0 {
		return nil, ""
	}
	group %= len(key.syms)
	if group < len(key.types) {
		keyType = key.types[group]
	}
	return key.syms[group], keyType
}

// Parse reads a keymap. Only the keycodes and symbols sections are
// interpreted; everything else is skipped.
func Parse(r io.Reader) (*Keymap, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	p := &parser{
		lex: lexer{src: string(src)},
		km: &Keymap{
			keycodes: make(map[string]uint32),
			keys:     make(map[uint32]*keySymbols),
		},
		aliases: make(map[string]string),
		pending: make(map[string]*keySymbols),
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.km, nil
}

type parser struct {
	lex     lexer
	km      *Keymap
	aliases map[string]string
	// symbols by key name, bound to keycodes once all sections are read
	pending map[string]*keySymbols
}

func (p *parser) parse() error {
	for {
		tok := p.lex.next()
		switch tok {
		case "":
			return p.bind()
		case "xkb_keycodes":
			if err := p.section(p.keycodesStatement); err != nil {
				return fmt.Errorf("xkb_keycodes: %w", err)
			}
		case "xkb_symbols":
			if err := p.section(p.symbolsStatement); err != nil {
				return fmt.Errorf("xkb_symbols: %w", err)
			}
		case "xkb_types", "xkb_compatibility", "xkb_compat", "xkb_geometry":
			if err := p.section(nil); err != nil {
				return fmt.Errorf("%s: %w", tok, err)
			}
		}
	}
}

// section reads `"name" { statement; ... };` and hands every statement to fn.
func (p *parser) section(fn func([]string) error) error {
	tok := p.lex.next()
	if isString(tok) {
		tok = p.lex.next()
	}
	if tok != "{" {
		return fmt.Errorf("%w: expected { got %q", ErrSyntax, tok)
	}
	for {
		stmt, end, err := p.statement()
		if err != nil {
			return err
		}
		if len(stmt) > 0 && fn != nil {
			if err := fn(stmt); err != nil {
				return err
			}
		}
		if end {
			if p.lex.peek() == ";" {
				p.lex.next()
			}
			return nil
		}
	}
}

// statement collects tokens up to a top-level ';'. end reports that the
// enclosing section's closing brace was reached instead.
func (p *parser) statement() (stmt []string, end bool, err error) {
	depth := 0
	for {
		tok := p.lex.next()
		switch tok {
		case "":
			return nil, false, fmt.Errorf("%w: unexpected end of input", ErrSyntax)
		case "{", "[", "(":
			depth++
		case "]", ")":
			depth--
		case "}":
			if depth == 0 {
				return stmt, true, nil
			}
			depth--
		case ";":
			if depth == 0 {
				return stmt, false, nil
			}
		}
		stmt = append(stmt, tok)
	}
}

func (p *parser) keycodesStatement(stmt []string) error {
	switch {
	case len(stmt) == 3 && isKeyName(stmt[0]) && stmt[1] == "=":
		code, err := strconv.ParseUint(stmt[2], 10, 32)
		if err != nil {
			return fmt.Errorf("%w: keycode %s: %v", ErrSyntax, stmt[0], err)
		}
		p.km.keycodes[keyName(stmt[0])] = uint32(code)
	case len(stmt) == 4 && stmt[0] == "alias" && isKeyName(stmt[1]) && isKeyName(stmt[3]):
		p.aliases[keyName(stmt[1])] = keyName(stmt[3])
	}
	return nil
}

func (p *parser) symbolsStatement(stmt []string) error {
	switch {
	case len(stmt) >= 6 && stmt[0] == "name" && stmt[1] == "[" && stmt[4] == "=":
		group, ok := groupIndex(stmt[2])
		if !ok {
			return nil
		}
		for len(p.km.groups) <= group {
			p.km.groups = append(p.km.groups, "")
		}
		p.km.groups[group] = unquote(stmt[5])
	case len(stmt) >= 3 && stmt[0] == "key" && isKeyName(stmt[1]) && stmt[2] == "{":
		key, err := keyBody(stmt[3 : len(stmt)-1])
		if err != nil {
			return fmt.Errorf("key %s: %w", stmt[1], err)
		}
		p.pending[keyName(stmt[1])] = key
	}
	return nil
}

// keyBody parses the items between a key's braces, for example
// `type= "TWO_LEVEL", symbols[Group1]= [ a, A ]` or `[ a, A ], [ ae, AE ]`.
func keyBody(body []string) (*keySymbols, error) {
	key := &keySymbols{}
	anonymous := 0
	for _, item := range splitTop(body) {
		switch {
		case len(item) == 0:
		case item[0] == "[":
			key.setSyms(anonymous, list(item))
			anonymous++
		case item[0] == "symbols" && len(item) >= 5 && item[1] == "[" && item[4] == "=":
			group, ok := groupIndex(item[2])
			if !ok {
				return nil, fmt.Errorf("%w: bad group %q", ErrSyntax, item[2])
			}
			key.setSyms(group, list(item[5:]))
		case item[0] == "type" && len(item) >= 3 && item[1] == "=":
			key.defaultType(unquote(item[2]))
		case item[0] == "type" && len(item) >= 6 && item[1] == "[" && item[4] == "=":
			if group, ok := groupIndex(item[2]); ok {
				key.setType(group, unquote(item[5]))
			}
		}
	}
	return key, nil
}

func (k *keySymbols) setSyms(group int, syms []string) {
	for len(k.syms) <= group {
		k.syms = append(k.syms, nil)
	}
	k.syms[group] = syms
}

func (k *keySymbols) setType(group int, name string) {
	for len(k.types) <= group {
		k.types = append(k.types, "")
	}
	k.types[group] = name
}

// defaultType applies a group-less type to every group. Groups are not all
// known yet, so it is stored for up to four groups, the XKB maximum.
func (k *keySymbols) defaultType(name string) {
	for g := 0; g < 4; g++ {
		if g >= len(k.types) || k.types[g] == "" {
			k.setType(g, name)
		}
	}
}

// bind attaches symbols to keycodes, resolving aliases.
func (p *parser) bind() error {
	for name, key := range p.pending {
		for i := 0; i < 8; i++ {
			target, ok := p.aliases[name]
			if !ok {
				break
			}
			name = target
		}
		code, ok := p.km.keycodes[name]
		if !ok {
			continue
		}
		p.km.keys[code] = key
	}
	for alias, target := range p.aliases {
		if code, ok := p.km.keycodes[target]; ok {
			if _, taken := p.km.keycodes[alias]; !taken {
				p.km.keycodes[alias] = code
			}
		}
	}
	if len(p.km.keys) == 0 {
		return fmt.Errorf("%w: no key symbols found", ErrSyntax)
	}
	return nil
}

// splitTop splits tokens at commas outside brackets and parentheses.
func splitTop(tokens []string) [][]string {
	var items [][]string
	depth, start := 0, 0
	for i, tok := range tokens {
		switch tok {
		case "[", "(", "{":
			depth++
		case "]", ")", "}":
			depth--
		case ",":
			if depth == 0 {
				items = append(items, tokens[start:i])
				start = i + 1
			}
		}
	}
	return append(items, tokens[start:])
}

// list returns the comma separated names inside `[ ... ]`.
func list(tokens []string) []string {
	var out []string
	for _, tok := range tokens {
		switch tok {
		case "[", "]", ",":
		default:
			out = append(out, tok)
		}
	}
	return out
}

// groupIndex accepts Group2, group2 and the bare 2 written by newer
// libxkbcommon.
func groupIndex(tok string) (int, bool) {
	lower := strings.TrimPrefix(strings.ToLower(tok), "group")
	n, err := strconv.Atoi(lower)
	if err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}

func isKeyName(tok string) bool {
	return len(tok) > 2 && tok[0] == '<' && tok[len(tok)-1] == '>'
}

func keyName(tok string) string {
	return tok[1 : len(tok)-1]
}

func isString(tok string) bool {
	return len(tok) >= 2 && tok[0] == '"'
}

func unquote(tok string) string {
	if isString(tok) {
		return tok[1 : len(tok)-1]
	}
	return tok
}

type lexer struct {
	src     string
	pos     int
	peeked  string
	hasPeek bool
}

func (l *lexer) peek() string {
	if !l.hasPeek {
		l.peeked = l.scan()
		l.hasPeek = true
	}
	return l.peeked
}

func (l *lexer) next() string {
	if l.hasPeek {
		l.hasPeek = false
		return l.peeked
	}
	return l.scan()
}

// scan returns the next token: punctuation, a <KEYNAME>, a quoted string or
// a bare word. It returns "" at the end of input.
func (l *lexer) scan() string {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.pos++
		case strings.HasPrefix(l.src[l.pos:], "//") || c == '#':
			if i := strings.IndexByte(l.src[l.pos:], '\n'); i >= 0 {
				l.pos += i
			} else {
				l.pos = len(l.src)
			}
		case strings.HasPrefix(l.src[l.pos:], "/*"):
			if i := strings.Index(l.src[l.pos+2:], "*/"); i >= 0 {
				l.pos += i + 4
			} else {
				l.pos = len(l.src)
			}
		default:
			return l.token()
		}
	}
	return ""
}

func (l *lexer) token() string {
	start := l.pos
	switch c := l.src[l.pos]; c {
	case '{', '}', '[', ']', '(', ')', '=', ',', ';', '+', '-', '!', '.':
		l.pos++
		return l.src[start:l.pos]
	case '<':
		if i := strings.IndexByte(l.src[l.pos:], '>'); i > 0 {
			l.pos += i + 1
			return l.src[start:l.pos]
		}
		l.pos++
		return "<"
	case '"':
		if i := strings.IndexByte(l.src[l.pos+1:], '"'); i >= 0 {
			l.pos += i + 2
			return l.src[start:l.pos]
		}
		l.pos = len(l.src)
		return l.src[start:]
	}
	for l.pos < len(l.src) && !strings.ContainsRune(" \t\r\n{}[](),;=<\"", rune(l.src[l.pos])) {
		l.pos++
	}
	return l.src[start:l.pos]
}
