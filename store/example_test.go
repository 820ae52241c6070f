package store_test

import (
	"fmt"

	"github.com/grovetools/treestate/store"
)

type todo struct {
	Title string
	Done  bool
}

type appState struct {
	Filter string
	Todos  []todo
}

func ExampleStore_Update() {
	s := store.New(appState{Filter: "all", Todos: []todo{{Title: "milk"}}})

	sub := s.Subscribe(func(st appState) {
		fmt.Printf("%d todos, filter %s\n", len(st.Todos), st.Filter)
	})
	defer sub.Unsubscribe()

	before := s.GetState()
	_ = s.Update(func(d *appState) error {
		d.Todos = append(d.Todos, todo{Title: "eggs"})
		return nil
	})

	fmt.Println(len(before.Todos), "todo in the old snapshot")
	// Output:
	// 2 todos, filter all
	// 1 todo in the old snapshot
}

func ExampleUpdateAt() {
	s := store.New(appState{Filter: "all"})

	err := store.UpdateAt(s, "Filter", func(f *string) error {
		*f = "done"
		return nil
	})
	fmt.Println(s.GetState().Filter, err)

	err = store.UpdateAt(s, "Filtr", func(f *string) error { return nil })
	fmt.Println(err)
	// Output:
	// done <nil>
	// UNKNOWN_KEY: state has no key 'Filtr' (did you mean 'Filter'?)
}
