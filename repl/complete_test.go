// Copyright © 2026 The jank authors

package repl

import (
	"testing"

	"github.com/jank-lang/jank-sub005/namespace"
	"github.com/stretchr/testify/assert"
)

func TestSymbolCompleter(t *testing.T) {
	reg := namespace.NewRegistry([]string{"inc", "identity"})
	reg.Intern("user", "index")
	c := &symbolCompleter{registry: reg, namespace: "user"}

	// Special forms complete alongside vars.
	assert.Equal(t, []string{"identity", "if", "inc", "index"}, c.collectSymbols("i"))
	assert.Equal(t, []string{"let", "let*", "letfn", "letfn*"}, c.collectSymbols("let"))
	assert.Equal(t, []string{"cpp/new"}, c.collectSymbols("cpp/n"))
	assert.Equal(t, []string{"clojure.core/inc"}, c.collectSymbols("clojure.core/inc"))

	line := []rune("(do (ind")
	got, n := c.Do(line, len(line))
	assert.Equal(t, 3, n)
	assert.Equal(t, [][]rune{[]rune("ex")}, got)

	got, n = c.Do([]rune("(zzz"), 4)
	assert.Nil(t, got)
	assert.Zero(t, n)
}
