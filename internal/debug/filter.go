package debug

import (
	"fmt"
	"strconv"
	"strings"
)

// Filter is a compiled predicate evaluated per Event. The grammar is
// deliberately small (§4.5):
//
//	expr       := term (("AND" | "OR") term)*
//	term       := "kind" "=" kindName
//	            | "component" "=" componentName
//	            | "addr" range
//	            | "value" range
//	range      := "=" hex | "in" hex "-" hex
//
// AND binds tighter than OR; parentheses are not supported, keeping it
// to flat kind selectors joined by AND/OR plus address masks and value
// ranges. hex literals may be written with or without a leading "0x".
type Filter struct {
	root node
}

// Match reports whether ev satisfies the filter.
func (f *Filter) Match(ev Event) bool {
	if f == nil || f.root == nil {
		return false
	}
	return f.root.eval(ev)
}

type node interface {
	eval(Event) bool
}

type andNode struct{ lhs, rhs node }

func (n andNode) eval(ev Event) bool { return n.lhs.eval(ev) && n.rhs.eval(ev) }

type orNode struct{ lhs, rhs node }

func (n orNode) eval(ev Event) bool { return n.lhs.eval(ev) || n.rhs.eval(ev) }

type kindNode struct{ kind Kind }

func (n kindNode) eval(ev Event) bool { return ev.Kind == n.kind }

type componentNode struct{ component Component }

func (n componentNode) eval(ev Event) bool { return ev.Component == n.component }

type addrRangeNode struct{ lo, hi uint32 }

func (n addrRangeNode) eval(ev Event) bool { return ev.Address >= n.lo && ev.Address <= n.hi }

type valueRangeNode struct{ lo, hi uint32 }

func (n valueRangeNode) eval(ev Event) bool { return ev.Value >= n.lo && ev.Value <= n.hi }

var kindNames = map[string]Kind{
	"cpu_instruction":    KindCPUInstruction,
	"memory_read":        KindMemoryRead,
	"memory_write":       KindMemoryWrite,
	"ppu_scanline":       KindPPUScanline,
	"apu_port_write":     KindAPUPortWrite,
	"spc700_instruction": KindSPC700Instruction,
	"anomaly":            KindAnomaly,
}

var componentNames = map[string]Component{
	"cpu":       ComponentCPU,
	"ppu":       ComponentPPU,
	"apu":       ComponentAPU,
	"bus":       ComponentBus,
	"cartridge": ComponentCartridge,
}

// Compile parses a textual filter expression into a Filter.
func Compile(expr string) (*Filter, error) {
	toks := tokenize(expr)
	p := &parser{toks: toks}
	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("debug: unexpected token %q in filter %q", p.toks[p.pos], expr)
	}
	return &Filter{root: n}, nil
}

func tokenize(expr string) []string {
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range expr {
		switch {
		case r == ' ' || r == '\t' || r == '\n':
			flush()
		case r == '=' || r == '-':
			flush()
			toks = append(toks, string(r))
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}

type parser struct {
	toks []string
	pos  int
}

func (p *parser) peek() string {
	if p.pos >= len(p.toks) {
		return ""
	}
	return p.toks[p.pos]
}

func (p *parser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) parseExpr() (node, error) {
	lhs, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for strings.ToUpper(p.peek()) == "OR" {
		p.next()
		rhs, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		lhs = orNode{lhs, rhs}
	}
	return lhs, nil
}

func (p *parser) parseAnd() (node, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for strings.ToUpper(p.peek()) == "AND" {
		p.next()
		rhs, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		lhs = andNode{lhs, rhs}
	}
	return lhs, nil
}

func (p *parser) parseTerm() (node, error) {
	key := strings.ToLower(p.next())
	switch key {
	case "kind":
		if p.next() != "=" {
			return nil, fmt.Errorf("debug: expected '=' after kind")
		}
		name := strings.ToLower(p.next())
		k, ok := kindNames[name]
		if !ok {
			return nil, fmt.Errorf("debug: unknown kind %q", name)
		}
		return kindNode{k}, nil
	case "component":
		if p.next() != "=" {
			return nil, fmt.Errorf("debug: expected '=' after component")
		}
		name := strings.ToLower(p.next())
		c, ok := componentNames[name]
		if !ok {
			return nil, fmt.Errorf("debug: unknown component %q", name)
		}
		return componentNode{c}, nil
	case "addr", "address":
		lo, hi, err := p.parseRange()
		if err != nil {
			return nil, err
		}
		return addrRangeNode{lo, hi}, nil
	case "value":
		lo, hi, err := p.parseRange()
		if err != nil {
			return nil, err
		}
		return valueRangeNode{lo, hi}, nil
	default:
		return nil, fmt.Errorf("debug: unknown filter key %q", key)
	}
}

func (p *parser) parseRange() (lo, hi uint32, err error) {
	switch p.next() {
	case "=":
		v, err := parseHex(p.next())
		if err != nil {
			return 0, 0, err
		}
		return v, v, nil
	case "in":
		lo, err := parseHex(p.next())
		if err != nil {
			return 0, 0, err
		}
		if p.next() != "-" {
			return 0, 0, fmt.Errorf("debug: expected '-' in range")
		}
		hi, err := parseHex(p.next())
		if err != nil {
			return 0, 0, err
		}
		return lo, hi, nil
	default:
		return 0, 0, fmt.Errorf("debug: expected '=' or 'in'")
	}
}

func parseHex(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("debug: invalid hex literal %q: %w", s, err)
	}
	return uint32(v), nil
}
