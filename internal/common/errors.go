// Package common defines shared constants and sentinel errors used across
// the FileKeeper server layers. Callers should use errors.Is to match
// these values.
//
// The set is deliberately finer-grained than the external HTTP error
// taxonomy: ownership mismatches, missing parents, and plain absence are
// distinct here so they can be logged precisely, and are collapsed to the
// coarser client-visible codes only at the HTTP boundary.
package common

import "errors"

var (
	// Repository / store level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Authorization errors.
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrorNotOwned marks a record that exists but belongs to another
	// user. Clients see it as ErrorNotFound.
	ErrorNotOwned = errors.New("not owned by caller")

	// Hierarchy validation errors on file creation.
	ErrorParentNotFound  = errors.New("parent not found")
	ErrorParentNotFolder = errors.New("parent is not a folder")

	// ErrorFolderNoContent is returned when content is requested for a
	// folder record.
	ErrorFolderNoContent = errors.New("folder has no content")

	// Generic internal failure (store unreachable and the like).
	ErrorInternal = errors.New("internal error")
)
