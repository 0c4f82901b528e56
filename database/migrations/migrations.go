// Package migrations contains the schema migrations. Each file registers
// itself through an init() so importing the package for side effects is
// enough to load the registry.
package migrations
