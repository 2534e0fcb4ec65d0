/*
Package ports defines the driven ports (interfaces) for Canopy.

These interfaces decouple the compiler runtime from external
implementations, allowing the workflow document and persona records to
live in memory, Redis, or a file repository.

# Key Interfaces

  - DocumentStore: holds the single workflow document text plus its revision token.
  - PersonaStore: CRUD over agent persona records.
  - Watchable: optional change notification for stores backed by external media.
*/
package ports
