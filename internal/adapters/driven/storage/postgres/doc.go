// Package postgres provides a unified PostgreSQL-based implementation of the
// driven store interfaces.
//
// This adapter uses the pgx driver through database/sql and the pgvector
// extension for similarity search. It implements multiple store interfaces
// through a single connection pool:
//
//   - DocumentStore: document records and status transitions
//   - ChunkStore: chunk persistence and nearest-neighbour queries
//   - UserStore: user account persistence
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. The embedding column dimension is substituted at
// migration time from the configured embedding dimension, so the database
// always matches the embedding model in use.
//
// # Thread Safety
//
// All operations are thread-safe. The store relies on database/sql pooling
// and row-level locking; the processing claim is a single compare-and-swap
// UPDATE, so two concurrent claims of one document can never both succeed.
package postgres
