package access

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Kind classifies a failure for the caller: bad input, refused by policy,
// invariant violation at the store boundary, or store unreachable.
type Kind uint8

const (
	KindUsage Kind = iota + 1
	KindAccess
	KindIntegrity
	KindConnection
)

func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "usage"
	case KindAccess:
		return "access"
	case KindIntegrity:
		return "integrity"
	case KindConnection:
		return "connection"
	}
	return "unknown"
}

// Error carries a stable reason string. Callers compare with errors.Is
// against the exported sentinels.
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string { return e.Reason }

var (
	ErrNotFound       = &Error{KindUsage, "no such entity"}
	ErrBadArgument    = &Error{KindUsage, "missing or malformed argument"}
	ErrAlreadyExists  = &Error{KindUsage, "already exists"}
	ErrGroupCannotOwn = &Error{KindUsage, "a group cannot own a resource"}
	ErrNoInvitation   = &Error{KindUsage, "no pending invitation for user"}

	ErrInactiveUser          = &Error{KindAccess, "user is inactive"}
	ErrNotAdmin              = &Error{KindAccess, "user is not an administrator"}
	ErrNotOwner              = &Error{KindAccess, "user does not own the object"}
	ErrNotMember             = &Error{KindAccess, "user is not a member of the group"}
	ErrNoPrivilege           = &Error{KindAccess, "user has no privilege over the object"}
	ErrInsufficientPrivilege = &Error{KindAccess, "user has insufficient privilege over the object"}
	ErrNotShareable          = &Error{KindAccess, "object is not shareable by non-owners"}
	ErrLastOwner             = &Error{KindAccess, "cannot remove the last owner"}
	ErrSelfModification      = &Error{KindAccess, "cannot change own active or admin status"}
	ErrSelfInvite            = &Error{KindAccess, "cannot invite self"}
	ErrImmutable             = &Error{KindAccess, "resource is immutable"}

	ErrDuplicate = &Error{KindIntegrity, "duplicate record"}
	ErrStore     = &Error{KindConnection, "cannot reach store"}
)

// KindOf extracts the failure kind from any error in the chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// detail wraps a sentinel with context while keeping errors.Is working.
func detail(sentinel *Error, format string, a ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, a...))
}

// storeErr maps an unexpected gorm failure into the taxonomy. Record-not-found
// is handled at call sites where absence is meaningful; anywhere it leaks
// through it means the entity vanished mid-operation.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return detail(ErrDuplicate, "%v", err)
	}
	return detail(ErrStore, "%v", err)
}
