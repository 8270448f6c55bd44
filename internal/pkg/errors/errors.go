package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

const (
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeDuplicateSubdomain = "DUPLICATE_SUBDOMAIN"
	ErrCodeUserExists         = "USER_ALREADY_EXISTS"
	ErrCodeProvisioning       = "PROVISIONING_FAILED"
	ErrCodeRollbackFailed     = "PROVISIONING_ROLLBACK_FAILED"
	ErrCodePlanLimit          = "PLAN_LIMIT_EXCEEDED"
	ErrCodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// Registration conflicts. Recoverable by the caller picking another
// subdomain or email.
var (
	ErrDuplicateSubdomain = errors.New("subdomain already claimed")
	ErrUserAlreadyExists  = errors.New("user already exists")
)

// Authentication failures. The three cases are distinguished internally but
// all render as the same generic 401 body.
var (
	ErrAuthRequired         = errors.New("authentication required")
	ErrAuthInvalid          = errors.New("token verification failed")
	ErrAuthPrincipalMissing = errors.New("token principal no longer exists")
)

// Authorization failures.
var (
	ErrRoleForbidden    = errors.New("role not allowed")
	ErrPermissionDenied = errors.New("missing required permissions")
	ErrNotResourceOwner = errors.New("not the resource owner")
)

// ProvisioningPhase tells which half of the registration saga failed.
type ProvisioningPhase string

const (
	PhaseCatalog ProvisioningPhase = "catalog"
	PhaseTenant  ProvisioningPhase = "tenant"
)

// ProvisioningError is returned when organization registration fails after
// validation. For tenant-phase failures RolledBack reports whether the
// compensating catalog deletes succeeded; when it is false the catalog holds
// an orphaned organization and the error is operator-actionable.
type ProvisioningError struct {
	Phase          ProvisioningPhase
	OrganizationID string
	RolledBack     bool
	Err            error
	RollbackErr    error
}

func (e *ProvisioningError) Error() string {
	switch {
	case e.Phase == PhaseCatalog:
		return fmt.Sprintf("provisioning failed (catalog phase): %v", e.Err)
	case e.RolledBack:
		return fmt.Sprintf("provisioning failed (tenant phase, rolled back): %v", e.Err)
	default:
		return fmt.Sprintf("provisioning failed (tenant phase, ROLLBACK FAILED for %s): %v; rollback: %v",
			e.OrganizationID, e.Err, e.RollbackErr)
	}
}

func (e *ProvisioningError) Unwrap() error { return e.Err }

// ErrProvisioningUnresolved rejects a retry for a subdomain whose previous
// attempt ended in a failed rollback that has not been resolved by an
// operator yet.
var ErrProvisioningUnresolved = errors.New("previous provisioning attempt left unresolved state; operator intervention required")

// PlanLimitError reports a quota breach. The message names the resource kind
// and the numeric limit.
type PlanLimitError struct {
	Resource string
	Limit    int
}

func (e *PlanLimitError) Error() string {
	return fmt.Sprintf("plan limit exceeded for %s: current plan allows maximum %d", e.Resource, e.Limit)
}

func WriteError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    code,
		Details: details,
	})
}

// Render maps a classified error to its HTTP response. Unclassified errors
// render as a generic 500 without leaking internals.
func Render(w http.ResponseWriter, err error) {
	var planErr *PlanLimitError
	var provErr *ProvisioningError

	switch {
	case errors.Is(err, ErrDuplicateSubdomain):
		WriteError(w, http.StatusConflict, ErrCodeDuplicateSubdomain, "Subdomain is already taken", nil)
	case errors.Is(err, ErrUserAlreadyExists):
		WriteError(w, http.StatusConflict, ErrCodeUserExists, "User already exists", nil)
	case errors.Is(err, ErrAuthRequired), errors.Is(err, ErrAuthInvalid), errors.Is(err, ErrAuthPrincipalMissing):
		// One body for all auth sub-cases.
		WriteError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
	case errors.Is(err, ErrRoleForbidden), errors.Is(err, ErrPermissionDenied), errors.Is(err, ErrNotResourceOwner):
		WriteError(w, http.StatusForbidden, ErrCodeForbidden, "Insufficient permissions", nil)
	case errors.Is(err, ErrProvisioningUnresolved):
		WriteError(w, http.StatusConflict, ErrCodeRollbackFailed, "Registration for this subdomain requires operator intervention", nil)
	case errors.As(err, &planErr):
		WriteError(w, http.StatusForbidden, ErrCodePlanLimit, planErr.Error(), map[string]interface{}{
			"resource": planErr.Resource,
			"limit":    planErr.Limit,
		})
	case errors.As(err, &provErr):
		if provErr.Phase == PhaseTenant && !provErr.RolledBack {
			WriteError(w, http.StatusInternalServerError, ErrCodeRollbackFailed, "Registration failed and could not be rolled back", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, ErrCodeProvisioning, "Registration failed, no changes were kept", nil)
	default:
		WriteError(w, http.StatusInternalServerError, ErrCodeInternal, "Internal server error", nil)
	}
}
