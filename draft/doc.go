// Package draft implements copy-on-write edits of immutable state snapshots.
//
// An edit function receives a pointer to a draft: a deep copy of the base
// value that it may mutate freely. When the function returns, the draft is
// reconciled against the base so that every sub-value the edit left alone is
// replaced by the corresponding sub-value of the base. The result therefore
// shares all untouched pointers, maps and slices with the base, and when
// nothing changed the base itself is returned.
//
//	next, err := draft.Produce(state, func(d *State) error {
//		d.Todos[2].Done = true
//		return nil
//	})
//	// next.Todos[0] == state.Todos[0], next.User == state.User
//
// The base is never modified. If the edit function returns an error or
// panics, the draft is discarded.
//
// Constraints on state values:
//   - The value graph must be acyclic; cycles are reported as CYCLIC_STATE.
//   - Unexported struct fields are copied shallowly and compared by identity.
//   - Functions and channels are shared by reference.
//   - Drafts must not be retained after the edit function returns.
package draft
