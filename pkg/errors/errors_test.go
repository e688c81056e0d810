package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("database connection failed")
	wrapped := Wrap(originalErr, CodeInternal, "internal error", http.StatusInternalServerError)

	if wrapped.Err != originalErr {
		t.Errorf("expected wrapped error to contain original error")
	}
	if wrapped.Code != CodeInternal {
		t.Errorf("expected code %s, got %s", CodeInternal, wrapped.Code)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "resource not found",
			},
			expected: "NOT_FOUND: resource not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("database connection failed"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: database connection failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Wrap(originalErr, CodeInternal, "wrapped", http.StatusInternalServerError)

	unwrapped := errors.Unwrap(appErr)
	if unwrapped != originalErr {
		t.Errorf("Unwrap() should return original error")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		appErr     *AppError
		wantCode   string
		wantStatus int
	}{
		{"not found", NotFound("Appointment"), CodeNotFound, http.StatusNotFound},
		{"not found with id", NotFoundWithID("Appointment", "abc123"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad payload", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("malformed id"), CodeInvalidInput, http.StatusBadRequest},
		{"conflict", Conflict("doctor already has a template"), CodeConflict, http.StatusConflict},
		{"unauthorized", Unauthorized("missing token"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("staff only"), CodeForbidden, http.StatusForbidden},
		{"slot conflict", SlotConflict("slot taken"), CodeSlotConflict, http.StatusConflict},
		{"cutoff violation", CutoffViolation("too late to cancel", nil), CodeCutoffViolation, http.StatusConflict},
		{"invalid transition", InvalidTransition("CANCELLED", "CONFIRMED"), CodeInvalidTransition, http.StatusBadRequest},
		{"internal", Internal("boom", errors.New("cause")), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("query timed out"), CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", Unavailable("appointments"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.appErr.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, tt.appErr.Code)
			}
			if tt.appErr.StatusCode() != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, tt.appErr.StatusCode())
			}
		})
	}
}

func TestInvalidTransition_Details(t *testing.T) {
	err := InvalidTransition("REJECTED", "CONFIRMED")

	if err.Details["from"] != "REJECTED" {
		t.Errorf("expected details.from REJECTED, got %v", err.Details["from"])
	}
	if err.Details["to"] != "CONFIRMED" {
		t.Errorf("expected details.to CONFIRMED, got %v", err.Details["to"])
	}
}

func TestWithDetails(t *testing.T) {
	err := SlotConflict("slot taken").WithDetails(map[string]any{"doctor_id": "dr-1"})

	if err.Details["doctor_id"] != "dr-1" {
		t.Errorf("expected details to carry doctor_id, got %v", err.Details)
	}
}

func TestIsAppError(t *testing.T) {
	if !IsAppError(NotFound("Appointment")) {
		t.Errorf("expected IsAppError true for AppError")
	}
	if IsAppError(errors.New("plain")) {
		t.Errorf("expected IsAppError false for plain error")
	}
}

func TestAsAppError(t *testing.T) {
	original := SlotConflict("slot taken")
	if got := AsAppError(original); got != original {
		t.Errorf("expected AsAppError to return the same AppError")
	}

	wrapped := AsAppError(errors.New("plain"))
	if wrapped.Code != CodeInternal {
		t.Errorf("expected plain errors to map to %s, got %s", CodeInternal, wrapped.Code)
	}
	if wrapped.StatusCode() != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, wrapped.StatusCode())
	}
}
