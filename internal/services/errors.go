package services

import (
	"errors"
	"fmt"
)

// Workflow error kinds. All are recoverable; handlers map each to an HTTP
// status and a user-facing message.
var (
	ErrUnauthenticated  = errors.New("authentication required")
	ErrUnauthorized     = errors.New("you are not allowed to perform this action")
	ErrReportNotFound   = errors.New("report not found")
	ErrClaimNotFound    = errors.New("claim not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidKind      = errors.New("only found items can be claimed")
	ErrSelfClaim        = errors.New("you cannot claim your own report")
	ErrNotClaimable     = errors.New("this report cannot be claimed right now")
	ErrDuplicateClaim   = errors.New("you already have a pending claim for this report")
	ErrAlreadyDecided   = errors.New("this claim has already been decided")
	ErrRemoteFailure    = errors.New("storage operation failed")
)

// remoteErr tags database/storage errors so handlers surface them as 500s
// while keeping the underlying cause in the message for logs.
func remoteErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrRemoteFailure, op, err)
}
