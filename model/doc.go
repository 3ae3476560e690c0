// Package model provides transfer models matching the entity base types, for
// use at API boundaries where bun tags and persistence behaviour are not wanted.
package model
