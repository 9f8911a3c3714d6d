// Copyright © 2026 The jank authors

package namespace

import (
	"sync"
	"testing"

	"github.com/jank-lang/jank-sub005/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_ResolveGlobal(t *testing.T) {
	reg := NewRegistry([]string{"inc"})
	res := reg.Resolver("user")

	v, ok := res.ResolveGlobal(form.MakeSymbol("inc"))
	require.True(t, ok)
	assert.Equal(t, CoreNamespace, v.Namespace)
	assert.True(t, v.Defined())

	_, ok = res.ResolveGlobal(form.MakeSymbol("nope"))
	assert.False(t, ok)

	v, ok = res.ResolveGlobal(form.MakeQualifiedSymbol(CoreNamespace, "inc"))
	require.True(t, ok)
	assert.Equal(t, "#'clojure.core/inc", v.String())
}

func TestResolver_InternShadowsCore(t *testing.T) {
	reg := NewRegistry([]string{"inc"})
	res := reg.Resolver("user")

	mine, err := res.InternGlobal(form.MakeSymbol("inc"))
	require.NoError(t, err)
	got, ok := res.ResolveGlobal(form.MakeSymbol("inc"))
	require.True(t, ok)
	assert.Same(t, mine, got)
	assert.Equal(t, "user", got.Namespace)

	again, err := res.InternGlobal(form.MakeQualifiedSymbol("user", "inc"))
	require.NoError(t, err)
	assert.Same(t, mine, again)

	_, err = res.InternGlobal(form.MakeQualifiedSymbol("other", "x"))
	assert.Error(t, err)
}

func TestResolver_Alias(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Intern("my.lib", "f")
	require.NoError(t, reg.Alias("user", "lib", "my.lib"))
	assert.Error(t, reg.Alias("user", "x", "missing"))

	res := reg.Resolver("user")
	v, ok := res.ResolveGlobal(form.MakeQualifiedSymbol("lib", "f"))
	require.True(t, ok)
	assert.Equal(t, "my.lib", v.Namespace)
}

func TestVar_SetMeta(t *testing.T) {
	reg := NewRegistry(nil)
	v := reg.Intern("user", "*out*")
	assert.False(t, v.Defined())
	v.SetMeta(form.MakeMap(form.MakeKeyword("dynamic"), form.MakeBool(true)))
	assert.True(t, v.Defined())
	assert.True(t, v.Dynamic())
	assert.Equal(t, 1, v.Meta().Len())
}

func TestRegistry_ConcurrentIntern(t *testing.T) {
	reg := NewRegistry(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := reg.Resolver("user")
			for j := 0; j < 100; j++ {
				_, _ = res.InternGlobal(form.MakeSymbol("x"))
				_, _ = res.ResolveGlobal(form.MakeSymbol("x"))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, []string{"x"}, reg.Vars("user"))
}
