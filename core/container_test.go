package core_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keelframework/keel/core"
)

type counter struct {
	n int
}

func countingFactory(made *int) core.Factory {
	return func(*core.Container) (any, error) {
		*made++
		return &counter{n: *made}, nil
	}
}

func TestContainer_SingletonSharedAcrossScopes(t *testing.T) {
	root := core.NewContainer()
	made := 0
	root.Register("db", countingFactory(&made), core.Singleton)

	scopeA := root.CreateScope()
	scopeB := root.CreateScope()

	a, err := scopeA.Resolve("db")
	require.NoError(t, err)
	b, err := scopeB.Resolve("db")
	require.NoError(t, err)

	assert.Same(t, a, b, "singleton must be one instance per container tree")
	assert.Equal(t, 1, made)
}

func TestContainer_SingletonComputedAgainstRoot(t *testing.T) {
	root := core.NewContainer()
	var factoryScope *core.Container
	root.Register("svc", func(c *core.Container) (any, error) {
		factoryScope = c
		return struct{}{}, nil
	}, core.Singleton)

	child := root.CreateScope().CreateScope()
	_, err := child.Resolve("svc")
	require.NoError(t, err)
	assert.Same(t, root, factoryScope, "singleton factory must run against the root scope")
}

func TestContainer_ScopedCachedPerScope(t *testing.T) {
	root := core.NewContainer()
	made := 0
	root.Register("session", countingFactory(&made), core.Scoped)

	scopeA := root.CreateScope()
	scopeB := root.CreateScope()

	a1, err := scopeA.Resolve("session")
	require.NoError(t, err)
	a2, err := scopeA.Resolve("session")
	require.NoError(t, err)
	b1, err := scopeB.Resolve("session")
	require.NoError(t, err)

	assert.Same(t, a1, a2, "repeated resolves in one scope reuse the instance")
	assert.NotSame(t, a1, b1, "independent scopes get distinct instances")
	assert.Equal(t, 2, made)
}

func TestContainer_ScopedChildGetsOwnInstance(t *testing.T) {
	root := core.NewContainer()
	made := 0
	root.Register("session", countingFactory(&made), core.Scoped)

	parent := root.CreateScope()
	fromParent, err := parent.Resolve("session")
	require.NoError(t, err)

	child := parent.CreateScope()
	fromChild, err := child.Resolve("session")
	require.NoError(t, err)

	assert.NotSame(t, fromParent, fromChild, "child scope does not see the parent's scoped cache")
}

func TestContainer_TransientAlwaysNew(t *testing.T) {
	c := core.NewContainer()
	made := 0
	c.Register("req", countingFactory(&made), core.Transient)

	first, err := c.Resolve("req")
	require.NoError(t, err)
	second, err := c.Resolve("req")
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 2, made)
}

func TestContainer_UnregisteredToken(t *testing.T) {
	c := core.NewContainer()

	_, err := c.Resolve("nothing-here")
	var notRegistered *core.ServiceNotRegisteredError
	require.ErrorAs(t, err, &notRegistered)
	assert.Equal(t, "nothing-here", notRegistered.Token)
	assert.Contains(t, err.Error(), "nothing-here")
}

func TestContainer_HasWalksChain(t *testing.T) {
	root := core.NewContainer()
	root.Register("inherited", func(*core.Container) (any, error) { return 1, nil }, core.Transient)

	child := root.CreateScope()
	child.Register("own", func(*core.Container) (any, error) { return 2, nil }, core.Transient)

	assert.True(t, child.Has("inherited"))
	assert.True(t, child.Has("own"))
	assert.False(t, root.Has("own"), "parent must not see child registrations")
	assert.False(t, child.Has("absent"))
}

func TestContainer_FactorySelfResolvesDependencies(t *testing.T) {
	c := core.NewContainer()
	c.Register("config", func(*core.Container) (any, error) {
		return "dsn://localhost", nil
	}, core.Singleton)
	c.Register("repo", func(rc *core.Container) (any, error) {
		dsn, err := rc.Resolve("config")
		if err != nil {
			return nil, err
		}
		return "repo(" + dsn.(string) + ")", nil
	}, core.Singleton)

	got, err := c.Resolve("repo")
	require.NoError(t, err)
	assert.Equal(t, "repo(dsn://localhost)", got)
}

func TestContainer_RebindDoesNotInvalidateCaches(t *testing.T) {
	c := core.NewContainer()
	c.Register("svc", func(*core.Container) (any, error) { return "old", nil }, core.Singleton)

	before, err := c.Resolve("svc")
	require.NoError(t, err)

	c.Register("svc", func(*core.Container) (any, error) { return "new", nil }, core.Singleton)
	after, err := c.Resolve("svc")
	require.NoError(t, err)

	// Stale instance persists; the rebind only takes effect for uncached tokens.
	assert.Equal(t, before, after)
}

func TestContainer_FactoryErrorPropagatesUncached(t *testing.T) {
	c := core.NewContainer()
	attempts := 0
	c.Register("flaky", func(*core.Container) (any, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("boom")
		}
		return "ok", nil
	}, core.Singleton)

	_, err := c.Resolve("flaky")
	require.Error(t, err)

	got, err := c.Resolve("flaky")
	require.NoError(t, err, "a failed factory result must not be cached")
	assert.Equal(t, "ok", got)
}

type closeRecorder struct {
	closed bool
	err    error
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return c.err
}

func TestContainer_DisposeClosesOwnCachesOnly(t *testing.T) {
	root := core.NewContainer()
	root.Register("conn", func(*core.Container) (any, error) {
		return &closeRecorder{}, nil
	}, core.Scoped)

	scope := root.CreateScope()
	fromScope, err := scope.Resolve("conn")
	require.NoError(t, err)
	fromRoot, err := root.Resolve("conn")
	require.NoError(t, err)

	require.NoError(t, scope.Dispose())
	assert.True(t, fromScope.(*closeRecorder).closed)
	assert.False(t, fromRoot.(*closeRecorder).closed, "parent caches must survive a child dispose")
}

func TestContainer_DisposeCollectsErrors(t *testing.T) {
	root := core.NewContainer()
	root.Register("bad", func(*core.Container) (any, error) {
		return &closeRecorder{err: errors.New("close failed")}, nil
	}, core.Singleton)
	root.Register("good", func(*core.Container) (any, error) {
		return &closeRecorder{}, nil
	}, core.Singleton)

	bad, err := root.Resolve("bad")
	require.NoError(t, err)
	good, err := root.Resolve("good")
	require.NoError(t, err)

	err = root.Dispose()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close failed")
	assert.True(t, bad.(*closeRecorder).closed)
	assert.True(t, good.(*closeRecorder).closed, "a failing Close must not block other disposals")
}

func TestContainer_TypedHelpers(t *testing.T) {
	c := core.NewContainer()

	type settings struct{ Addr string }
	core.ProvideValue(c, &settings{Addr: ":8080"})
	core.Provide(c, core.Transient, func(rc *core.Container) (fmt.Stringer, error) {
		return nil, errors.New("not wired")
	})

	got, err := core.ResolveAs[*settings](c)
	require.NoError(t, err)
	assert.Equal(t, ":8080", got.Addr)

	_, err = core.ResolveAs[fmt.Stringer](c)
	require.Error(t, err)

	_, err = core.ResolveAs[int](c)
	var notRegistered *core.ServiceNotRegisteredError
	require.ErrorAs(t, err, &notRegistered)

	assert.Equal(t, ":8080", core.MustResolve[*settings](c).Addr)
	assert.Panics(t, func() { core.MustResolve[int](c) })
}
