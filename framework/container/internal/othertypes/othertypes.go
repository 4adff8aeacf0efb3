// Package othertypes declares abstractions whose names clash with ones in
// package container tests.
package othertypes

// Greeter has the same name and method set as the Greeter used in tests.
type Greeter interface {
	Greet() string
}
