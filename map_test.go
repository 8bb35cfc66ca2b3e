package observer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AnatoleLucet/observer/collection"
)

func TestMap(t *testing.T) {
	t.Run("observes key mutations", func(t *testing.T) {
		rt := NewRuntime()
		m := rt.ObservableMap(collection.NewMap())
		log := []string{}

		rt.Observe(func() {
			log = append(log, fmt.Sprintf("%v %v", m.Has("key"), m.Get("key")))
		})

		m.Set("key", "value")
		m.Set("key", "value")
		m.Set("key", "other")
		m.Delete("key")
		m.Delete("key")

		assert.Equal(t, []string{
			"false <nil>",
			"true value",
			"true other",
			"false <nil>",
		}, log)
	})

	t.Run("size only changes with new or removed keys", func(t *testing.T) {
		rt := NewRuntime()
		m := rt.ObservableMap(collection.NewMap())
		sizes := []int{}

		rt.Observe(func() { sizes = append(sizes, m.Size()) })

		m.Set("a", 1)
		m.Set("a", 2)
		m.Set("b", 1)
		m.Delete("c")
		m.Clear()
		m.Clear()

		assert.Equal(t, []int{0, 1, 2, 0}, sizes)
	})

	iterations := map[string]func(m *Map) int{
		"all": func(m *Map) int {
			sum := 0
			for _, v := range m.All() {
				sum += v.(int)
			}
			return sum
		},
		"entries": func(m *Map) int {
			sum := 0
			for _, v := range m.Entries() {
				sum += v.(int)
			}
			return sum
		},
		"forEach": func(m *Map) int {
			sum := 0
			m.ForEach(func(v, _ any) { sum += v.(int) })
			return sum
		},
		"values": func(m *Map) int {
			return sumInts(m.Values())
		},
	}

	for name, iterate := range iterations {
		t.Run("observes "+name+" iteration", func(t *testing.T) {
			rt := NewRuntime()
			m := rt.ObservableMap(collection.NewMap())
			var dummy int

			rt.Observe(func() { dummy = iterate(m) })

			assert.Equal(t, 0, dummy)
			m.Set("a", 3)
			assert.Equal(t, 3, dummy)
			m.Set("b", 2)
			assert.Equal(t, 5, dummy)
			m.Set("a", 10)
			assert.Equal(t, 12, dummy)
			m.Delete("b")
			assert.Equal(t, 10, dummy)
			m.Clear()
			assert.Equal(t, 0, dummy)
		})
	}

	for name, iterate := range iterations {
		t.Run(name+" iteration re-runs once per mutation", func(t *testing.T) {
			rt := NewRuntime()
			raw := collection.NewMap()
			raw.Set("a", 1)
			raw.Set("b", 2)
			m := rt.ObservableMap(raw)
			runs, dummy := 0, 0

			rt.Observe(func() {
				runs++
				dummy = iterate(m)
			})
			assert.Equal(t, 1, runs)

			m.Set("a", 5)
			assert.Equal(t, 2, runs)
			assert.Equal(t, 7, dummy)

			m.Delete("b")
			assert.Equal(t, 3, runs)
			assert.Equal(t, 5, dummy)

			m.Delete("missing")
			assert.Equal(t, 3, runs)

			m.Clear()
			assert.Equal(t, 4, runs)
			assert.Equal(t, 0, dummy)

			m.Clear()
			assert.Equal(t, 4, runs)
		})
	}

	t.Run("clear re-runs a reader of several keys once", func(t *testing.T) {
		rt := NewRuntime()
		raw := collection.NewMap()
		raw.Set("a", 1)
		raw.Set("b", 2)
		m := rt.ObservableMap(raw)
		runs := 0

		rt.Observe(func() {
			runs++
			m.Get("a")
			m.Has("b")
			m.Size()
		})

		m.Clear()

		assert.Equal(t, 2, runs)
	})

	t.Run("key iteration does not depend on values", func(t *testing.T) {
		rt := NewRuntime()
		m := rt.ObservableMap(collection.NewMap())
		log := []string{}

		rt.Observe(func() {
			keys := []any{}
			for k := range m.Keys() {
				keys = append(keys, k)
			}
			log = append(log, fmt.Sprint(keys))
		})

		m.Set("a", 1)
		m.Set("a", 2)
		m.Set("b", 1)

		assert.Equal(t, []string{"[]", "[a]", "[a b]"}, log)
	})

	t.Run("wraps object values", func(t *testing.T) {
		rt := NewRuntime()
		user := map[string]any{"name": "ada"}
		raw := collection.NewMap()
		raw.Set("user", user)
		m := rt.ObservableMap(raw)
		names := []any{}

		rt.Observe(func() {
			names = append(names, m.Get("user").(*Object).Get("name"))
		})

		rt.ObservableObject(user).Set("name", "grace")

		assert.Equal(t, []any{"ada", "grace"}, names)
		assert.Same(t, m.Get("user"), rt.ObservableObject(user))
	})

	t.Run("stores raw values when given wrappers", func(t *testing.T) {
		rt := NewRuntime()
		m := rt.ObservableMap(collection.NewMap())
		child := rt.ObservableObject(map[string]any{})

		m.Set("child", child)

		v, ok := m.Raw().Get("child")
		assert.True(t, ok)
		assert.IsType(t, map[string]any{}, v)
	})

	t.Run("custom properties", func(t *testing.T) {
		rt := NewRuntime()
		m := rt.ObservableMap(collection.NewMap())
		var dummy any
		var has bool

		rt.Observe(func() {
			dummy = m.Prop("customProp")
			has = m.HasProp("customProp")
		})

		m.Set("customProp", "member")
		assert.Nil(t, dummy)

		m.SetProp("customProp", "Hello World")
		assert.Equal(t, "Hello World", dummy)
		assert.True(t, has)

		assert.True(t, m.DeleteProp("customProp"))
		assert.False(t, m.DeleteProp("customProp"))
		assert.Nil(t, dummy)
		assert.False(t, has)
	})

	t.Run("raw access is invisible", func(t *testing.T) {
		rt := NewRuntime()
		m := rt.ObservableMap(collection.NewMap())
		runs := 0

		rt.Observe(func() {
			runs++
			m.Get("key")
			m.Raw().Len()
		})

		m.Raw().Set("key", 1)
		m.Raw().Delete("key")
		m.Set("other", 1)

		assert.Equal(t, 1, runs)
	})
}
