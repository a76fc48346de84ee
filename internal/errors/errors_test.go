package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err:  &AppError{Code: ErrCodeNotFound, Message: "item not found"},
			want: "item not found",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeInternal,
				Message: "hash password",
				Cause:   errors.New("cost out of range"),
			},
			want: "hash password: cost out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(cause, ErrCodeInternal, "wrapped error")

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(Wrap(cause), cause) = false, want true")
	}
	if Wrap(nil, ErrCodeInternal, "wrapped error") != nil {
		t.Errorf("Wrap(nil) should return nil")
	}
}

func TestDomainConstructors(t *testing.T) {
	tests := []struct {
		name      string
		err       *AppError
		wantCode  ErrorCode
		wantField string
		wantMsg   string
	}{
		{
			name:     "invalid credentials",
			err:      InvalidCredentials(),
			wantCode: ErrCodeInvalidCredentials,
			wantMsg:  "invalid username or password",
		},
		{
			name:      "duplicate username",
			err:       DuplicateUsername("harmad"),
			wantCode:  ErrCodeDuplicateUsername,
			wantField: "username",
			wantMsg:   `username "harmad" is already taken`,
		},
		{
			name:      "mismatch",
			err:       Mismatch("confirm_password", "passwords do not match"),
			wantCode:  ErrCodeMismatch,
			wantField: "confirm_password",
			wantMsg:   "passwords do not match",
		},
		{
			name:      "too short",
			err:       TooShort("password", 4),
			wantCode:  ErrCodeTooShort,
			wantField: "password",
			wantMsg:   "password must be at least 4 characters",
		},
		{
			name:      "validation field",
			err:       ValidationField("name", "name is required"),
			wantCode:  ErrCodeValidation,
			wantField: "name",
			wantMsg:   "name is required",
		},
		{
			name:     "not found",
			err:      NotFoundf("item %s not found", "x"),
			wantCode: ErrCodeNotFound,
			wantMsg:  "item x not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %v, want %v", tt.err.Code, tt.wantCode)
			}
			if tt.err.Field != tt.wantField {
				t.Errorf("Field = %v, want %v", tt.err.Field, tt.wantField)
			}
			if tt.err.Message != tt.wantMsg {
				t.Errorf("Message = %v, want %v", tt.err.Message, tt.wantMsg)
			}
		})
	}
}

func TestIsHelpers(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", TooShort("password", 4))

	tests := []struct {
		name string
		is   func(error) bool
		err  error
		want bool
	}{
		{name: "not found", is: IsNotFound, err: NotFound("x"), want: true},
		{name: "conflict", is: IsConflict, err: Conflict("x"), want: true},
		{name: "validation", is: IsValidation, err: Validation("x"), want: true},
		{name: "internal", is: IsInternal, err: Wrap(errors.New("x"), ErrCodeInternal, "x"), want: true},
		{name: "credentials", is: IsInvalidCredentials, err: InvalidCredentials(), want: true},
		{name: "duplicate", is: IsDuplicateUsername, err: DuplicateUsername("a"), want: true},
		{name: "mismatch", is: IsMismatch, err: Mismatch("f", "m"), want: true},
		{name: "too short through wrap", is: IsTooShort, err: wrapped, want: true},
		{name: "other code", is: IsNotFound, err: Validation("x"), want: false},
		{name: "standard error", is: IsValidation, err: errors.New("plain"), want: false},
		{name: "nil error", is: IsConflict, err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.is(tt.err); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCodeAndField(t *testing.T) {
	if got := GetCode(DuplicateUsername("a")); got != ErrCodeDuplicateUsername {
		t.Errorf("GetCode() = %v", got)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
	if got := GetField(Mismatch("confirm_password", "m")); got != "confirm_password" {
		t.Errorf("GetField() = %v", got)
	}
	if got := GetField(nil); got != "" {
		t.Errorf("GetField(nil) = %v, want empty", got)
	}
}
