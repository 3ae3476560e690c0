// Package repository provides generic repositories over bun. Writes of
// single entities are staged on a dbcontext.DbContext and flushed by its
// SaveChanges; bulk operations and reads run immediately.
package repository
