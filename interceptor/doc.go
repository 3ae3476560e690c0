// Package interceptor defines the save pipeline hooks run by the unit of work
// before staged entities are flushed: soft delete, time audit, user audit and
// struct validation.
package interceptor
