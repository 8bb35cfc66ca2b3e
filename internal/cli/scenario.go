package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/AnatoleLucet/observer"
	"github.com/AnatoleLucet/observer/collection"
)

// transcript prints the mutations of a scenario and what effects saw in between.
type transcript struct {
	w io.Writer
}

func (t *transcript) step(format string, args ...any) {
	fmt.Fprintf(t.w, "> "+format+"\n", args...)
}

func (t *transcript) printf(format string, args ...any) {
	fmt.Fprintf(t.w, format+"\n", args...)
}

type scenario struct {
	name  string
	short string
	run   func(rt *observer.Runtime, out *transcript)
}

var scenarios = []scenario{
	{"set", "Membership of an observable set", runSet},
	{"map", "Totals over an observable map", runMap},
	{"todo", "A todo list of observable records", runTodo},
}

func newScenarioCommand(opts *RootOptions, s scenario) *cobra.Command {
	return &cobra.Command{
		Use:          s.name,
		Short:        s.short,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment(opts.Config, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.runtime.Dispose()

			s.run(env.runtime, &transcript{cmd.OutOrStdout()})

			if env.registry != nil {
				return writeMetrics(cmd.OutOrStdout(), env.registry)
			}
			return nil
		},
	}
}

func runSet(rt *observer.Runtime, out *transcript) {
	s := rt.ObservableSet(collection.NewSet())

	runs := 0
	e := rt.Observe(func() {
		runs++
		out.printf("run %d: has(value)=%v", runs, s.Has("value"))
	})

	out.step("add value")
	s.Add("value")
	out.step("add value again")
	s.Add("value")
	out.step("delete value")
	s.Delete("value")
	out.step("delete value again")
	s.Delete("value")

	out.printf("effect ran %d times", e.Runs())
}

func runMap(rt *observer.Runtime, out *transcript) {
	raw := collection.NewMap()
	raw.Set("apple", 3)
	prices := rt.ObservableMap(raw)

	rt.Observe(func() {
		total := 0
		for v := range prices.Values() {
			total += v.(int)
		}
		out.printf("total=%d", total)
	})
	rt.Observe(func() {
		out.printf("items=%d", prices.Size())
	})

	out.step("set pear=2")
	prices.Set("pear", 2)
	out.step("set apple=4")
	prices.Set("apple", 4)
	out.step("set apple=4 again")
	prices.Set("apple", 4)
	out.step("delete pear")
	prices.Delete("pear")
}

func runTodo(rt *observer.Runtime, out *transcript) {
	todos := rt.ObservableArray(&[]any{
		map[string]any{"title": "write docs", "done": false},
		map[string]any{"title": "ship", "done": false},
	})

	e := rt.Observe(func() {
		total, remaining := 0, 0
		for v := range todos.Values() {
			total++
			if v.(*observer.Object).Get("done") != true {
				remaining++
			}
		}
		out.printf("remaining %d/%d", remaining, total)
	})

	out.step("complete write docs")
	todos.Get(0).(*observer.Object).Set("done", true)
	out.step("add review")
	todos.Append(map[string]any{"title": "review", "done": false})
	out.step("delete ship")
	todos.Delete(1)

	out.printf("effect ran %d times", e.Runs())
}
