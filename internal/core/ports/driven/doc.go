// Package driven defines the driven-side port of the binding: the abstract
// six-entry-point ABI of the native connector module. The cgo adapter and
// the in-process test fake both implement it.
package driven
