package store

import (
	"fmt"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Path is an ordered sequence of key fragments. The empty path addresses the root.
type Path = []string

// Entry is a single position returned by GetAll. Value is nil if no value is stored at the position.
type Entry struct {
	Path  Path   `json:"path"`
	Value []byte `json:"value,omitempty"`
}

// Info contains metadata about the tree underlying a store.
type Info struct {
	Nodes        int    `json:"nodes"`         // Number of positions including the root
	Values       int    `json:"values"`        // Number of positions holding a value
	RootBranches int    `json:"root_branches"` // Number of immediate children of the root
	WriteIndex   uint64 `json:"write_index"`   // Number of mutating operations applied so far
}

// IStore is the interface for interacting with a path-indexed store.
// Read operations (Get, Has, GetAll, ListBranches, GetInfo) may run concurrently with each other,
// mutating operations (Insert, Clear, Delete) run exclusively.
//
// Values returned by read operations are shared with the store and must not be modified.
// A later mutation never changes a value a reader already obtained.
type IStore interface {
	// Insert stores a value at a path, creating every missing position on the way.
	// It returns the previous value and whether one existed.
	Insert(path Path, value []byte) (prev []byte, replaced bool, err error)
	// Clear removes the value at a path but keeps the position and its descendants.
	// Clearing a missing path is not an error.
	Clear(path Path) (err error)
	// Delete removes a path and every position beneath it. Deleting the empty path clears the root value.
	// Deleting a missing path is not an error.
	Delete(path Path) (err error)
	// Get returns the value at a path. The boolean return value is false if the path does not exist
	// or if the position exists but holds no value.
	Get(path Path) (value []byte, found bool, err error)
	// Has returns whether a position exists at the path, with or without a value.
	Has(path Path) (exists bool, err error)
	// GetAll returns one entry for the position at path and one for every descendant.
	// Paths are measured from the root. The order is unspecified.
	GetAll(path Path) (entries []Entry, err error)
	// ListBranches returns the fragments of the immediate children of the position at path.
	ListBranches(path Path) (branches []string, err error)
	// GetInfo returns metadata about the tree underlying the store.
	GetInfo() (info Info, err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("StoreError (code %s): %s", e.Code, e.Msg)
}

// NewError creates a new store Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess          RetCode = iota // 0: Command executed successfully.
	RetCInternalError                   // 1: Command failed due to an internal error.
	RetCLockTimeout                     // 2: The store lock could not be acquired in time.
	RetCInvalidOperation                // 3: Invalid operation.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCLockTimeout:
		return "LockTimeout"
	case RetCInvalidOperation:
		return "InvalidOperation"
	default:
		return "Unknown"
	}
}
