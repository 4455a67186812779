package classroom

import (
	"errors"
	"fmt"
)

// Kind groups errors by how the caller should surface them.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindDuplicate
	KindNoValidData
	KindNotFound
	KindConfirmation
	KindStorageCorruption
	KindImportStructure
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDuplicate:
		return "duplicate"
	case KindNoValidData:
		return "no_valid_data"
	case KindNotFound:
		return "not_found"
	case KindConfirmation:
		return "confirmation"
	case KindStorageCorruption:
		return "storage_corruption"
	case KindImportStructure:
		return "import_structure"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Error is a user-facing engine error. Two errors match under errors.Is when
// their codes are equal, so detailed messages still match the sentinels below.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrEmptyName         = &Error{Kind: KindValidation, Code: "EmptyName", Message: "class name cannot be empty"}
	ErrEmptyRoster       = &Error{Kind: KindValidation, Code: "EmptyRoster", Message: "student list cannot be empty"}
	ErrEmptyValue        = &Error{Kind: KindValidation, Code: "EmptyValue", Message: "value cannot be empty"}
	ErrInvalidID         = &Error{Kind: KindValidation, Code: "InvalidID", Message: "student id must be a positive integer"}
	ErrInvalidDimensions = &Error{Kind: KindValidation, Code: "InvalidDimensions", Message: "rows and columns must be between 1 and 20"}
	ErrInvalidCount      = &Error{Kind: KindValidation, Code: "InvalidCount", Message: "group count must be between 1 and 20"}
	ErrInvalidSeat       = &Error{Kind: KindValidation, Code: "InvalidSeat", Message: "seat is outside the seating chart"}
	ErrInvalidGroup      = &Error{Kind: KindValidation, Code: "InvalidGroup", Message: "group does not exist"}
	ErrNoGroupsGenerated = &Error{Kind: KindValidation, Code: "NoGroupsGenerated", Message: "generate groups first"}
	ErrNothingSelected   = &Error{Kind: KindValidation, Code: "NothingSelected", Message: "select at least one student to draw"}
	ErrNoData            = &Error{Kind: KindValidation, Code: "NoData", Message: "there is no data to export"}

	ErrDuplicateName = &Error{Kind: KindDuplicate, Code: "DuplicateName", Message: "class name already exists"}
	ErrDuplicateID   = &Error{Kind: KindDuplicate, Code: "DuplicateID", Message: "student id already exists"}

	ErrNoValidStudents = &Error{Kind: KindNoValidData, Code: "NoValidStudents", Message: "no valid student records; use one '<id> <name>' per line"}

	ErrClassNotFound   = &Error{Kind: KindNotFound, Code: "ClassNotFound", Message: "class not found"}
	ErrStudentNotFound = &Error{Kind: KindNotFound, Code: "StudentNotFound", Message: "student not found"}

	ErrNotConfirmed = &Error{Kind: KindConfirmation, Code: "NotConfirmed", Message: "confirmation required"}

	ErrCorruptStorage  = &Error{Kind: KindStorageCorruption, Code: "CorruptStorage", Message: "stored classroom data is not readable"}
	ErrImportStructure = &Error{Kind: KindImportStructure, Code: "ImportStructure", Message: "invalid import document"}
	ErrStorage         = &Error{Kind: KindStorage, Code: "Storage", Message: "failed to persist classroom data"}
)

// newError derives an error from a sentinel with a more specific message.
func newError(sentinel *Error, format string, args ...interface{}) *Error {
	return &Error{Kind: sentinel.Kind, Code: sentinel.Code, Message: fmt.Sprintf(format, args...)}
}

// wrapError derives an error from a sentinel that carries cause.
func wrapError(sentinel *Error, cause error) *Error {
	return &Error{Kind: sentinel.Kind, Code: sentinel.Code, Message: sentinel.Message, Err: cause}
}

// KindOf reports the kind of err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
