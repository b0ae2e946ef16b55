package service

import (
	"github.com/Laisky/errors/v2"
)

// Domain errors of the files API. The transport layer maps these onto
// status codes, error messages match the wire bodies clients see.
var (
	// ErrUnauthorized missing/invalid/expired token, or credential mismatch
	ErrUnauthorized = errors.New("Unauthorized")
	// ErrNotFound referenced entity or blob absent
	ErrNotFound = errors.New("Not found")
	// ErrForbidden reserved for ownership violations distinct from Unauthorized,
	// the current checks collapse those into ErrNotFound/ErrUnauthorized
	ErrForbidden = errors.New("Forbidden")

	ErrMissingEmail    = errors.New("Missing email")
	ErrMissingPassword = errors.New("Missing password")
	ErrEmailTaken      = errors.New("Already exist")

	ErrMissingName     = errors.New("Missing name")
	ErrMissingType     = errors.New("Missing type")
	ErrMissingData     = errors.New("Missing data")
	ErrInvalidData     = errors.New("Invalid data")
	ErrParentNotFound  = errors.New("Parent not found")
	ErrParentNotFolder = errors.New("Parent is not a folder")
	ErrInvalidNodeID   = errors.New("Invalid id")
	ErrFolderNoContent = errors.New("A folder doesn't have content")
	ErrInvalidSize     = errors.New("Invalid size")
)

// IsValidation reports whether err is a request validation failure (maps to 400).
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrMissingEmail, ErrMissingPassword, ErrEmailTaken,
		ErrMissingName, ErrMissingType, ErrMissingData, ErrInvalidData,
		ErrParentNotFound, ErrParentNotFolder, ErrInvalidNodeID,
		ErrFolderNoContent, ErrInvalidSize,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
