package ccombinator

import "fmt"

// Grammar is a named collection of parsers, the hook point this port
// gives a future BNF front-end to build against without the core
// depending on one (see SPEC_FULL.md's "DOMAIN STACK" section).
//
// Grounded on original_source/internal.h's struct cc_grammar (a name
// -> parser table) and include/ccombinator.h's
// cc_parser_by_name/cc_grammar_free.
type Grammar struct {
	rules map[string]*Node
}

// NewGrammar returns an empty Grammar ready for Define calls.
func NewGrammar() *Grammar {
	return &Grammar{rules: make(map[string]*Node)}
}

// Define binds name to p, taking ownership of p's reference. Defining
// the same name twice releases the previous binding, mirroring
// cc_grammar's last-definition-wins behavior for a BNF front-end
// re-declaring a rule.
func (g *Grammar) Define(name string, p *Node) error {
	if name == "" {
		releaseAll(p)
		return fmt.Errorf("ccombinator: Grammar.Define requires a non-empty name")
	}
	if p == nil {
		return fmt.Errorf("ccombinator: Grammar.Define requires a non-nil parser")
	}
	if old, ok := g.rules[name]; ok {
		Release(old)
	}
	g.rules[name] = p
	return nil
}

// Lookup returns the parser bound to name without transferring
// ownership — the caller must Retain it before embedding it in
// another tree. Grounded on cc_parser_by_name.
func (g *Grammar) Lookup(name string) (*Node, bool) {
	p, ok := g.rules[name]
	return p, ok
}

// Release releases every rule g owns. Grounded on cc_grammar_free.
func (g *Grammar) Release() {
	for name, p := range g.rules {
		Release(p)
		delete(g.rules, name)
	}
}
