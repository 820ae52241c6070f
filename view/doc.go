// Package view is the small component model the state packages render into.
//
// A Component turns Props into a string inside a Context. Context carries
// ambient values down the tree: a parent provides a value for a Slot and
// every descendant rendered with the derived Context can read it without
// prop threading. The nearest provided value wins.
package view
