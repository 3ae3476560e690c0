// Package dbcontext implements a unit of work over bun: entities are staged
// as added, modified or deleted, passed through the save interceptors and
// flushed in one transaction by SaveChanges.
package dbcontext
