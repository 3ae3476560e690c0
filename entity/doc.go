// Package entity provides the component interfaces and embeddable base
// structs (identity, audited, full audited, composite, enumerator and
// hierarchy) that bun models are built from.
package entity
