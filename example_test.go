package observer_test

import (
	"fmt"

	"github.com/AnatoleLucet/observer"
	"github.com/AnatoleLucet/observer/collection"
)

func ExampleObservableSet() {
	rt := observer.NewRuntime()
	todos := rt.ObservableSet(collection.NewSet())

	rt.Observe(func() {
		fmt.Println("todos:", todos.Size())
	})

	todos.Add("write docs")
	todos.Add("write docs")
	todos.Delete("write docs")

	// Output:
	// todos: 0
	// todos: 1
	// todos: 0
}

func ExampleObservableObject() {
	rt := observer.NewRuntime()
	user := rt.ObservableObject(map[string]any{"name": "ada"})

	rt.Observe(func() {
		fmt.Println("hello", user.Get("name"))
	})

	user.Set("name", "grace")
	user.Raw()["name"] = "nobody notices"
	user.Set("age", 36)

	// Output:
	// hello ada
	// hello grace
}

func ExampleRuntime_OnCleanup() {
	rt := observer.NewRuntime()
	m := rt.ObservableMap(collection.NewMap())

	e := rt.Observe(func() {
		key := m.Get("key")
		fmt.Println("watching", key)
		rt.OnCleanup(func() { fmt.Println("stop watching", key) })
	})

	m.Set("key", "a")
	rt.Unobserve(e)

	// Output:
	// watching <nil>
	// stop watching <nil>
	// watching a
	// stop watching a
}

func ExampleRuntime_Untrack() {
	rt := observer.NewRuntime()
	o := rt.ObservableObject(map[string]any{"shown": 1, "hidden": 1})

	rt.Observe(func() {
		var hidden any
		rt.Untrack(func() { hidden = o.Get("hidden") })
		fmt.Println(o.Get("shown"), hidden)
	})

	o.Set("hidden", 2)
	o.Set("shown", 2)

	// Output:
	// 1 1
	// 2 2
}
