package usecase

import (
	"errors"
	"fmt"

	"github.com/niklvrr/codereviewbot/internal/domain"
	"github.com/niklvrr/codereviewbot/internal/infrastructure/repository"
)

const (
	CodeGuardSkipped    = "GUARD_SKIPPED"
	CodeNotFound        = "NOT_FOUND"
	CodeUnhandledAction = "UNHANDLED_ACTION"
	CodeMalformedInput  = "MALFORMED_INPUT"
	CodeUpstreamError   = "UPSTREAM_ERROR"
	CodeRateLimited     = "RATE_LIMITED"
	CodeChatSoftFailure = "CHAT_SOFT_FAILURE"
	CodeStorageError    = "STORAGE_ERROR"
	CodeNotAuthorized   = "NOT_AUTHORIZED"
)

type DomainError struct {
	Code    string
	Message string
	Err     error
}

func WrapError(domainError *DomainError, err error) error {
	return &DomainError{
		Code:    domainError.Code,
		Message: domainError.Message,
		Err:     err,
	}
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is сравнивает обернутые копии одной и той же ошибки
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// IsGuard сообщает, является ли err намеренным пропуском, а не сбоем
func IsGuard(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == CodeGuardSkipped
}

var (
	// GUARD_SKIPPED
	ErrDraftIgnored = &DomainError{
		Code:    CodeGuardSkipped,
		Message: "ignoring draft pull request",
	}
	ErrAutoHookIgnored = &DomainError{
		Code:    CodeGuardSkipped,
		Message: "ignoring for automatic webhook",
	}
	ErrSelfReview = &DomainError{
		Code:    CodeGuardSkipped,
		Message: "ignoring self review",
	}

	// NOT_FOUND
	ErrPrNotFound = &DomainError{
		Code:    CodeNotFound,
		Message: "pull request not found",
	}
	ErrRemoteNotFound = &DomainError{
		Code:    CodeNotFound,
		Message: "resource not found on code host",
	}
	ErrWebhookNotFound = &DomainError{
		Code:    CodeNotFound,
		Message: "webhook not found",
	}
	ErrAccountNotFound = &DomainError{
		Code:    CodeNotFound,
		Message: "account not found",
	}

	// UNHANDLED_ACTION
	ErrUnhandledAction = &DomainError{
		Code:    CodeUnhandledAction,
		Message: "unhandled action",
	}

	// MALFORMED_INPUT
	ErrMalformedInput = &DomainError{
		Code:    CodeMalformedInput,
		Message: "malformed input",
	}

	// NOT_AUTHORIZED
	ErrNotConnected = &DomainError{
		Code:    CodeNotAuthorized,
		Message: "account is not connected to github",
	}

	ErrUpstream = &DomainError{
		Code:    CodeUpstreamError,
		Message: "upstream request failed",
	}
	ErrRateLimited = &DomainError{
		Code:    CodeRateLimited,
		Message: "upstream rate limit exceeded",
	}
	ErrChatFailed = &DomainError{
		Code:    CodeChatSoftFailure,
		Message: "chat platform rejected the request",
	}
	ErrStorage = &DomainError{
		Code:    CodeStorageError,
		Message: "storage error",
	}
)

func gatewayError(err error) error {
	switch {
	case errors.Is(err, domain.ErrUpstreamNotFound):
		return WrapError(ErrRemoteNotFound, err)
	case errors.Is(err, domain.ErrRateLimited):
		return WrapError(ErrRateLimited, err)
	case errors.Is(err, domain.ErrChatSoftFailure):
		return WrapError(ErrChatFailed, err)
	case errors.Is(err, domain.ErrMalformedUrl):
		return WrapError(ErrMalformedInput, err)
	default:
		return WrapError(ErrUpstream, err)
	}
}

func storageError(err error) error {
	if errors.Is(err, repository.ErrInvalidInput) {
		return WrapError(ErrMalformedInput, err)
	}
	return WrapError(ErrStorage, err)
}
