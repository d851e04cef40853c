package services

import (
	"errors"
	"fmt"

	"github.com/mddrc-dev/training-service/internal/policy"
)

// ===== SENTINEL ERRORS =====

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrCompanyNotFound        = errors.New("company not found")
	ErrProgramNotFound        = errors.New("program not found")
	ErrSessionNotFound        = errors.New("session not found")
	ErrTestNotFound           = errors.New("test not found")
	ErrTemplateNotFound       = errors.New("template not found")
	ErrChecklistNotFound      = errors.New("checklist not found")
	ErrAttendanceNotFound     = errors.New("attendance record not found")
	ErrVehicleDetailsNotFound = errors.New("vehicle details not found")
	ErrReportNotFound         = errors.New("report not found")
	ErrResultNotFound         = errors.New("test result not found")

	ErrEmailTaken         = errors.New("email already registered")
	ErrIDNumberTaken      = errors.New("id number already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")

	ErrGateClosed        = errors.New("access to this feature is not released")
	ErrNotEnrolled       = errors.New("participant is not enrolled in this session")
	ErrNotEligible       = errors.New("participant is not eligible for a certificate")
	ErrNoCertificate     = errors.New("no certificate uploaded for this participant")
	ErrAlreadyClockedIn  = errors.New("already clocked in today")
	ErrAlreadyClockedOut = errors.New("already clocked out today")
	ErrNotClockedIn      = errors.New("must clock in before clocking out")
	ErrAnswerCountWrong  = errors.New("answer count does not match question count")
	ErrBadQuestionOrder  = errors.New("question order is not a valid permutation")
)

// ErrForbidden is re-exported so callers can match denials without importing
// the policy package.
var ErrForbidden = policy.ErrForbidden

// PermissionError carries denial context for logs. It unwraps to
// ErrForbidden so handlers map every variant to the same response.
type PermissionError struct {
	UserID   string
	Resource string
	Action   string
	Reason   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s denied %s on %s: %s", e.UserID, e.Action, e.Resource, e.Reason)
}

func (e *PermissionError) Unwrap() error {
	return policy.ErrForbidden
}

func NewPermissionError(userID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	for _, sentinel := range []error{
		ErrUserNotFound, ErrCompanyNotFound, ErrProgramNotFound,
		ErrSessionNotFound, ErrTestNotFound, ErrTemplateNotFound,
		ErrChecklistNotFound, ErrAttendanceNotFound, ErrVehicleDetailsNotFound,
		ErrReportNotFound, ErrResultNotFound, ErrNoCertificate,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// IsForbidden reports whether err is an authorization denial.
func IsForbidden(err error) bool {
	return errors.Is(err, policy.ErrForbidden)
}
