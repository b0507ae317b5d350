// Package store provides the interface for path-indexed value stores shared by
// concurrent request handlers. It serves as an abstraction layer over the
// pathtree package, adding a concurrency contract and unified error handling.
//
// The package focuses on:
//   - A unified interface (IStore) for path operations across implementations
//   - A structured error type with return codes
//
// Key Components:
//
//   - IStore Interface: The core abstraction. Read operations (Get, Has,
//     GetAll, ListBranches, GetInfo) share access, mutating operations
//     (Insert, Clear, Delete) are exclusive. Every operation is linearizable:
//     a read that starts after a mutation returned observes that mutation.
//
//   - Error System: Errors carry a RetCode (e.g. RetCLockTimeout) so callers
//     can decide whether a request is worth retrying.
//
//   - Values: Values are stored by shared, immutable reference. A store copies
//     a value on insert and never modifies it afterwards. Readers must treat
//     returned values as read-only.
//
// Miss Semantics:
//
//	Get collapses "path does not exist" and "position exists without value"
//	into found == false. Callers that need to tell them apart use Has.
//
// Implementations:
//
//	- Local Store (lstore): A single PathTree guarded by a FIFO reader/writer
//	  lock with optional acquisition timeout.
//	  Available in the "github.com/ValentinKolb/ephemeral/lib/store/lstore" package.
//
// A shared test suite for IStore implementations lives in the
// "github.com/ValentinKolb/ephemeral/lib/store/testing" package.
package store
