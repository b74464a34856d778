// Package model defines the simplified template structure produced by the
// transformation engine: a rooted tree of Field and Element nodes with typed
// value constraints. Every value is built fresh per transformation call and
// never mutated afterwards.
package model
