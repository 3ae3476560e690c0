// Package bedrock bundles entity base types, generic repositories and save
// interceptors over bun. Service binds a repository and a unit of work to
// the global database opened with database.InitDB.
package bedrock
