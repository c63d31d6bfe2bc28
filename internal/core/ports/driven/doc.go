// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentStore: Document persistence and status transitions
//   - ChunkStore: Chunk persistence and nearest-neighbour lookup
//   - UserStore: User account persistence
//   - FileStore: Temporary storage for uploaded PDF payloads
//   - Extractor: Turns a stored PDF into ordered text chunks
//   - EmbeddingService: Generates vector embeddings
//   - LLMService: Streams tool-calling chat completions
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - OCREngine: Recovers text from image-only pages. Without it, sparse
//     pages are skipped during extraction.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
