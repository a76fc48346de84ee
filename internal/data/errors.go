package data

import apperrors "github.com/target/q-inventory/internal/errors"

// Shared sentinel errors for data-layer repositories. They carry application
// error codes so services can branch on them without importing this package.
var (
	// Item repository sentinels.
	ErrItemNotFound = apperrors.NotFound("item not found")
	ErrItemIDExists = apperrors.Conflict("item id already exists")

	// Account repository sentinels.
	ErrAccountNotFound = apperrors.NotFound("account not found")
	ErrUsernameExists  = &apperrors.AppError{
		Code:    apperrors.ErrCodeDuplicateUsername,
		Message: "username already exists",
		Field:   "username",
	}
)
