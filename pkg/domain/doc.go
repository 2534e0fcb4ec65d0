// Package domain defines the core value objects of Canopy: the typed
// workflow description decoded from a document, and the positioned graph
// produced by the compiler pipeline.
//
// Everything in this package is a plain value object. Entities are
// recreated from scratch on every compile; nothing here holds shared
// mutable state.
package domain
