// Package internal holds the eventdeck server internals.
//
// The internal tree is organized by responsibility:
// - api: HTTP handlers, middleware, response envelope, and routing
// - domain: business logic and domain models (users, events, ids)
// - storage: database access and repositories (pgx + Postgres)
// - auth, config, metrics, weather: shared infrastructure
//
// Code in internal/ is not meant for external import.
package internal
