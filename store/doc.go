// Package store holds a single application snapshot and notifies
// subscribers whenever it is replaced.
//
// Snapshots are immutable. Update and UpdateAt hand an edit function a
// private draft of the current snapshot; when the function returns nil the
// draft is reconciled against the old snapshot so untouched branches keep
// their identity, committed, and announced to every subscriber. A failing
// or panicking edit commits nothing and notifies nobody.
//
// Subscribers are called newest first. Updates made from inside a
// subscriber are committed at once, so GetState always reflects them, but
// their notification waits until the current round has reached every
// subscriber. Each subscriber therefore sees snapshots in commit order.
package store
