// Copyright © 2026 The jank authors

package repl

import (
	"sort"
	"strings"

	"github.com/jank-lang/jank-sub005/analyze"
	"github.com/jank-lang/jank-sub005/namespace"
)

// symbolCompleter implements readline.AutoCompleter with special form names
// and the vars visible from a namespace.
type symbolCompleter struct {
	registry  *namespace.Registry
	namespace string
}

func (c *symbolCompleter) Do(line []rune, pos int) ([][]rune, int) {
	start := pos
	for start > 0 && !strings.ContainsRune(" \t\n()[]{}'^", line[start-1]) {
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}
	candidates := c.collectSymbols(prefix)
	if len(candidates) == 0 {
		return nil, 0
	}
	result := make([][]rune, 0, len(candidates))
	for _, sym := range candidates {
		result = append(result, []rune(sym[len(prefix):]))
	}
	return result, len([]rune(prefix))
}

func (c *symbolCompleter) collectSymbols(prefix string) []string {
	seen := make(map[string]bool)
	var result []string
	add := func(name string) {
		if strings.HasPrefix(name, prefix) && !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}
	for _, sf := range analyze.SpecialForms() {
		add(sf.Name)
		for _, alias := range sf.Aliases {
			add(alias)
		}
	}
	if c.registry != nil {
		for _, name := range c.registry.Vars(c.namespace) {
			add(name)
		}
		for _, name := range c.registry.Vars(namespace.CoreNamespace) {
			add(name)
			add(namespace.CoreNamespace + "/" + name)
		}
	}
	sort.Strings(result)
	return result
}
