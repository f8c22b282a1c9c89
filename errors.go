package statv

import (
	"github.com/agilira/go-errors"
)

// Error codes for statv operations. All four are programmer-error class:
// they surface to the immediate caller and are never retried or recovered
// internally.
const (
	// ErrCodeMissingInitialValue is returned by New when a declared stat
	// has no literal default, no factory, and no entry in the init map.
	ErrCodeMissingInitialValue = "STATV_MISSING_INITIAL_VALUE"

	// ErrCodeUninitializedAccess is returned by reads and writes that
	// target a stat id absent from the container's value map.
	ErrCodeUninitializedAccess = "STATV_UNINITIALIZED_ACCESS"

	// ErrCodeDuplicateValidator is returned by SetValidator when the
	// descriptor already has a validator installed.
	ErrCodeDuplicateValidator = "STATV_DUPLICATE_VALIDATOR"

	// ErrCodeForeignStat is returned by UpdateMulti when an update names
	// a descriptor that is not part of the container's schema.
	ErrCodeForeignStat = "STATV_FOREIGN_STAT"
)

// ErrorCode extracts the statv error code from an error, or returns the
// empty string if the error carries none. go-errors renders codes as a
// "[CODE]: message" prefix.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	s := err.Error()
	if len(s) < 3 || s[0] != '[' {
		return ""
	}
	for i := 1; i < len(s); i++ {
		if s[i] == ']' {
			return s[1:i]
		}
	}
	return ""
}

func errMissingInitialValue(id string) error {
	return errors.New(ErrCodeMissingInitialValue, id+" is required but not initialized")
}

func errUninitializedAccess(id string) error {
	return errors.New(ErrCodeUninitializedAccess, id+" is not defined or not initialized")
}

func errDuplicateValidator(id string) error {
	return errors.New(ErrCodeDuplicateValidator, id+" already has a validator")
}

func errForeignStat(id string) error {
	return errors.New(ErrCodeForeignStat, "invalid ownership of stat definition "+id)
}
