package internal

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cell is a minimal observable used to drive the runtime directly.
type cell struct {
	rt    *Runtime
	value int
}

func (c *cell) get() int {
	c.rt.Track(c, PropKey("value"))
	return c.value
}

func (c *cell) set(v int) {
	if c.value == v {
		return
	}
	c.value = v
	c.rt.Trigger(c, PropKey("value"))
}

func TestRuntime(t *testing.T) {
	t.Run("runs immediately and on trigger", func(t *testing.T) {
		rt := NewRuntime()
		c := &cell{rt: rt}
		log := []string{}

		e := rt.NewEffect(func() {
			log = append(log, fmt.Sprintf("value %d", c.get()))
		})

		c.set(1)
		c.set(1)
		c.set(2)

		assert.Equal(t, []string{"value 0", "value 1", "value 2"}, log)
		assert.Equal(t, 3, e.Runs())
		assert.Equal(t, 1, e.Deps())
	})

	t.Run("reads outside effects are not tracked", func(t *testing.T) {
		rt := NewRuntime()
		c := &cell{rt: rt}

		c.get()

		assert.Equal(t, 0, rt.Buckets())
	})

	t.Run("deps change between runs", func(t *testing.T) {
		rt := NewRuntime()
		toggle := &cell{rt: rt, value: 1}
		a := &cell{rt: rt}
		b := &cell{rt: rt}
		log := []string{}

		rt.NewEffect(func() {
			if toggle.get() == 1 {
				log = append(log, fmt.Sprintf("a %d", a.get()))
			} else {
				log = append(log, fmt.Sprintf("b %d", b.get()))
			}
		})

		toggle.set(0)
		a.set(5) // no longer a dependency
		b.set(7)

		assert.Equal(t, []string{"a 0", "b 0", "b 7"}, log)
		assert.Equal(t, 2, rt.Buckets())
	})

	t.Run("effects run in registration order", func(t *testing.T) {
		rt := NewRuntime()
		c := &cell{rt: rt}
		log := []string{}

		for _, name := range []string{"first", "second", "third"} {
			rt.NewEffect(func() {
				c.get()
				log = append(log, name)
			})
		}
		log = log[:0]

		c.set(1)

		assert.Equal(t, []string{"first", "second", "third"}, log)
	})

	t.Run("self triggering write does not recurse", func(t *testing.T) {
		rt := NewRuntime()
		c := &cell{rt: rt}

		e := rt.NewEffect(func() {
			c.set(c.get() + 1)
		})

		assert.Equal(t, 1, e.Runs())
		assert.Equal(t, 1, c.value)

		c.set(10)
		assert.Equal(t, 2, e.Runs())
		assert.Equal(t, 11, c.value)
	})

	t.Run("effect writing to another cell re-runs its dependents", func(t *testing.T) {
		rt := NewRuntime()
		count := &cell{rt: rt}
		double := &cell{rt: rt}
		log := []string{}

		rt.NewEffect(func() {
			double.set(count.get() * 2)
		})
		rt.NewEffect(func() {
			log = append(log, fmt.Sprintf("double %d", double.get()))
		})

		count.set(10)

		assert.Equal(t, []string{"double 0", "double 20"}, log)
	})

	t.Run("untracked reads", func(t *testing.T) {
		rt := NewRuntime()
		c := &cell{rt: rt}

		e := rt.NewEffect(func() {
			rt.Untrack(func() { c.get() })
		})
		c.set(1)

		assert.Equal(t, 1, e.Runs())
	})

	t.Run("max depth", func(t *testing.T) {
		rt := NewRuntime(func(c *Config) { c.MaxDepth = 3 })
		cells := make([]*cell, 5)
		for i := range cells {
			cells[i] = &cell{rt: rt}
		}

		// each effect feeds the next cell, so one write cascades four runs deep
		for i := range 4 {
			rt.NewEffect(func() { cells[i+1].set(cells[i].get() + 1) })
		}

		defer func() {
			err, ok := recover().(error)
			require.True(t, ok)
			assert.True(t, errors.Is(err, ErrMaxDepth))
			assert.Nil(t, rt.CurrentEffect())
		}()

		cells[0].set(100)
		t.Fatal("expected a panic")
	})
}

func TestEffectPanics(t *testing.T) {
	t.Run("stack is popped and panic propagates", func(t *testing.T) {
		rt := NewRuntime()
		c := &cell{rt: rt}

		assert.PanicsWithValue(t, "boom", func() {
			rt.NewEffect(func() {
				c.get()
				panic("boom")
			})
		})

		assert.Nil(t, rt.CurrentEffect())
		assert.Equal(t, 1, rt.Buckets())
	})

	t.Run("panic during re-run reaches the mutator", func(t *testing.T) {
		rt := NewRuntime()
		c := &cell{rt: rt}

		rt.NewEffect(func() {
			if c.get() == 1 {
				panic("one")
			}
		})

		assert.PanicsWithValue(t, "one", func() { c.set(1) })
		assert.Nil(t, rt.CurrentEffect())

		// the failed run still registered its read
		assert.NotPanics(t, func() { c.set(2) })
	})

	t.Run("catchers receive the panic", func(t *testing.T) {
		rt := NewRuntime()
		c := &cell{rt: rt}
		caught := []any{}

		rt.NewEffect(func() {
			rt.OnError(func(r any) { caught = append(caught, r) })
			if v := c.get(); v > 0 {
				panic(fmt.Sprintf("run %d", v))
			}
		})

		assert.NotPanics(t, func() { c.set(3) })
		assert.NotPanics(t, func() { c.set(4) })
		assert.Equal(t, []any{"run 3", "run 4"}, caught)
	})

	t.Run("catchers of the parent handle nested panics", func(t *testing.T) {
		rt := NewRuntime()
		c := &cell{rt: rt}
		caught := []any{}

		rt.NewEffect(func() {
			rt.OnError(func(r any) { caught = append(caught, r) })

			rt.NewEffect(func() {
				if c.get() == 1 {
					panic("nested")
				}
			})
		})

		assert.NotPanics(t, func() { c.set(1) })
		assert.Equal(t, []any{"nested"}, caught)
	})

	t.Run("panic is logged", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		rt := NewRuntime(func(c *Config) { c.Logger = logger })

		assert.Panics(t, func() {
			rt.NewEffect(func() { panic("logged") })
		})
		assert.Contains(t, buf.String(), "effect panicked")
		assert.Contains(t, buf.String(), "panic=logged")
	})
}

func TestOwnership(t *testing.T) {
	t.Run("nested effects are disposed when the parent re-runs", func(t *testing.T) {
		rt := NewRuntime()
		outer := &cell{rt: rt}
		inner := &cell{rt: rt}
		log := []string{}

		rt.NewEffect(func() {
			log = append(log, fmt.Sprintf("outer %d", outer.get()))

			rt.NewEffect(func() {
				log = append(log, fmt.Sprintf("inner %d", inner.get()))
				rt.OnCleanup(func() { log = append(log, "cleanup inner") })
			})
		})

		inner.set(1)
		outer.set(1)
		inner.set(2)

		assert.Equal(t, []string{
			"outer 0",
			"inner 0",
			"cleanup inner",
			"inner 1",
			"cleanup inner",
			"outer 1",
			"inner 1",
			"cleanup inner",
			"inner 2",
		}, log)
	})

	t.Run("dispose drops every dependency", func(t *testing.T) {
		rt := NewRuntime()
		c := &cell{rt: rt}
		cleaned := false

		e := rt.NewEffect(func() {
			c.get()
			rt.OnCleanup(func() { cleaned = true })
		})
		e.Dispose()
		c.set(1)

		assert.True(t, e.Disposed())
		assert.True(t, cleaned)
		assert.Equal(t, 1, e.Runs())
		assert.Equal(t, 0, rt.Buckets())
	})

	t.Run("runtime dispose", func(t *testing.T) {
		rt := NewRuntime()
		c := &cell{rt: rt}
		effects := []*Effect{
			rt.NewEffect(func() { c.get() }),
			rt.NewEffect(func() { c.get() }),
		}
		rt.Remember("raw", "proxy")

		rt.Dispose()

		for _, e := range effects {
			assert.True(t, e.Disposed())
		}
		assert.Equal(t, 0, rt.Buckets())
		_, ok := rt.Proxy("raw")
		assert.False(t, ok)
	})
}

type recordingHooks struct {
	BaseHooks
	log []string
}

func (h *recordingHooks) BeforeRun(e *Effect) {
	h.log = append(h.log, fmt.Sprintf("before %d", e.Runs()))
}

func (h *recordingHooks) AfterRun(e *Effect, elapsed time.Duration, recovered any) {
	h.log = append(h.log, fmt.Sprintf("after %d %v", e.Runs(), recovered))
}

func (h *recordingHooks) Triggered(key Key, effects int) {
	h.log = append(h.log, fmt.Sprintf("trigger %s %d", key, effects))
}

func TestHooks(t *testing.T) {
	hooks := &recordingHooks{}
	rt := NewRuntime(func(c *Config) { c.Hooks = append(c.Hooks, hooks) })
	c := &cell{rt: rt}

	rt.NewEffect(func() { c.get() })
	c.set(1)

	assert.Equal(t, []string{
		"before 1",
		"after 1 <nil>",
		"trigger prop(value) 1",
		"before 2",
		"after 2 <nil>",
	}, hooks.log)
}

func TestStore(t *testing.T) {
	rt := NewRuntime()
	s := NewStore()
	e := rt.NewEffect(func() {})

	assert.True(t, s.Add("t", SizeKey, e))
	assert.False(t, s.Add("t", SizeKey, e))
	assert.True(t, s.Add("t", IterateKey, e))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []*Effect{e}, s.Dependents("t", SizeKey))

	s.Cleanup(e)
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Dependents("t", SizeKey))
}
