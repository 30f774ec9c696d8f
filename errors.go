package slate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies every failure the type system can produce.
type ErrorCode uint16

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeTypeNotFound
	ErrCodeDuplicateRegistration
	ErrCodeNotSingleton
	ErrCodeFactoryReturnedNil
	ErrCodeRecursiveSingletonInit
	ErrCodeMemberNotFound
	ErrCodeNoMatchingOverload
	ErrCodeManifestInvalid
	ErrCodeEngineClosed
	ErrCodeFactoryResultInvalid
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:                "UNKNOWN",
	ErrCodeTypeNotFound:           "TYPE_NOT_FOUND",
	ErrCodeDuplicateRegistration:  "DUPLICATE_REGISTRATION",
	ErrCodeNotSingleton:           "NOT_SINGLETON",
	ErrCodeFactoryReturnedNil:     "FACTORY_RETURNED_NIL",
	ErrCodeRecursiveSingletonInit: "RECURSIVE_SINGLETON_INIT",
	ErrCodeMemberNotFound:         "MEMBER_NOT_FOUND",
	ErrCodeNoMatchingOverload:     "NO_MATCHING_OVERLOAD",
	ErrCodeManifestInvalid:        "MANIFEST_INVALID",
	ErrCodeEngineClosed:           "ENGINE_CLOSED",
	ErrCodeFactoryResultInvalid:   "FACTORY_RESULT_INVALID",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

// Error is the error type returned across the type system. Code drives
// errors.Is matching; Type carries the type identifier the failure is
// scoped to, so a resolution failure for one type never says anything
// about another.
type Error struct {
	Code    ErrorCode
	Message string
	Type    string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Type != "" {
		b.WriteString(fmt.Sprintf(" type=%q:", e.Type))
	}

	b.WriteString(" ")
	b.WriteString(e.Message)

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches two *Error values by code, so errors.Is(err, &Error{Code: c})
// and the predicates below work through wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) WithType(typeID string) *Error {
	e.Type = typeID
	return e
}

// NewError builds an *Error. The subpackages use the typed constructors
// below; NewError is for callers layering their own codes on top.
func NewError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ── Constructors ─────────────────────────────────────────────────────────────

func NewTypeNotFound(typeID string) *Error {
	return NewError(
		ErrCodeTypeNotFound,
		fmt.Sprintf("no type registered as %s", typeID),
		nil,
	).WithType(typeID)
}

func NewDuplicateRegistration(typeID string) *Error {
	return NewError(
		ErrCodeDuplicateRegistration,
		fmt.Sprintf("type %s is already registered", typeID),
		nil,
	).WithType(typeID)
}

func NewNotSingleton(typeID string) *Error {
	return NewError(
		ErrCodeNotSingleton,
		fmt.Sprintf("type %s is not a singleton", typeID),
		nil,
	).WithType(typeID)
}

func NewFactoryReturnedNil(typeID string) *Error {
	return NewError(
		ErrCodeFactoryReturnedNil,
		fmt.Sprintf("singleton factory for %s returned no instance", typeID),
		nil,
	).WithType(typeID)
}

func NewRecursiveSingletonInit(typeID string) *Error {
	return NewError(
		ErrCodeRecursiveSingletonInit,
		fmt.Sprintf("singleton %s requested while its factory is still running", typeID),
		nil,
	).WithType(typeID)
}

func NewMemberNotFound(typeID, member string) *Error {
	return NewError(
		ErrCodeMemberNotFound,
		fmt.Sprintf("type %s has no member %q", typeID, member),
		nil,
	).WithType(typeID)
}

func NewNoMatchingOverload(typeID, method string, argc int) *Error {
	return NewError(
		ErrCodeNoMatchingOverload,
		fmt.Sprintf("no overload of %s.%s accepts %d argument(s)", typeID, method, argc),
		nil,
	).WithType(typeID)
}

func NewManifestInvalid(module string, cause error) *Error {
	return NewError(
		ErrCodeManifestInvalid,
		fmt.Sprintf("manifest for module %s is invalid", module),
		cause,
	).WithType(module)
}

func NewFactoryResultInvalid(typeID, got string) *Error {
	return NewError(
		ErrCodeFactoryResultInvalid,
		fmt.Sprintf("singleton factory for %s returned %s, want a struct or pointer to struct", typeID, got),
		nil,
	).WithType(typeID)
}

func NewEngineClosed(engineID string) *Error {
	return NewError(
		ErrCodeEngineClosed,
		fmt.Sprintf("engine %s is closed", engineID),
		nil,
	)
}

// ── Predicates ───────────────────────────────────────────────────────────────

func IsTypeNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeTypeNotFound
}

func IsDuplicateRegistration(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeDuplicateRegistration
}

func IsNotSingleton(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeNotSingleton
}

func IsFactoryReturnedNil(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeFactoryReturnedNil
}

func IsRecursiveSingletonInit(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeRecursiveSingletonInit
}

func IsMemberNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeMemberNotFound
}

func IsNoMatchingOverload(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeNoMatchingOverload
}

func IsManifestInvalid(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeManifestInvalid
}

func IsEngineClosed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeEngineClosed
}

func IsFactoryResultInvalid(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeFactoryResultInvalid
}
