package uowtest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type counter struct {
	n int
}

func (c *counter) Snapshot() func() {
	saved := c.n
	return func() { c.n = saved }
}

func TestUnitOfWork_RestoresOnError(t *testing.T) {
	c := &counter{}
	u := New(c)

	require.NoError(t, u.Do(context.Background(), "inc", func(ctx context.Context) error {
		require.True(t, InUnitOfWork(ctx))
		c.n++
		return nil
	}))

	boom := errors.New("boom")
	err := u.Do(context.Background(), "inc", func(context.Context) error {
		c.n += 10
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, c.n)
	require.Equal(t, 1, u.Commits())
	require.Equal(t, 1, u.Rollbacks())
}

func TestUnitOfWork_RestoresOnPanic(t *testing.T) {
	c := &counter{n: 3}
	u := New(c)

	require.Panics(t, func() {
		_ = u.Do(context.Background(), "panic", func(context.Context) error {
			c.n = 100
			panic("boom")
		})
	})
	require.Equal(t, 3, c.n)
}

func TestUnitOfWork_NestedJoins(t *testing.T) {
	c := &counter{}
	u := New(c)

	err := u.Do(context.Background(), "outer", func(ctx context.Context) error {
		return u.Do(ctx, "inner", func(context.Context) error {
			c.n++
			return nil
		})
	})
	require.NoError(t, err)
	require.Equal(t, 1, c.n)
	require.Equal(t, 1, u.Commits())
}

func TestUnitOfWork_Serializes(t *testing.T) {
	c := &counter{}
	u := New(c)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = u.Do(context.Background(), "inc", func(context.Context) error {
				n := c.n
				c.n = n + 1
				return nil
			})
		}()
	}
	wg.Wait()
	require.Equal(t, 50, c.n)
}
