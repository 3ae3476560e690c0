// Package database provides connection management, the fluent model
// configuration (column types, indexes, foreign keys, seed data, history
// tables and query filters), migrations, logging, health checks and related
// utilities built on top of Bun.
package database
