package memutils

import (
	"github.com/pkg/errors"
)

// PowerOfTwoError is the error returned from CheckPow2 or other methods if the number being tested is not a power of two
var PowerOfTwoError error = errors.New("number must be a power of two")

// ResourceBusyError is returned when a one-time resource, such as the process heap, has already been claimed
var ResourceBusyError error = errors.New("resource busy")

// InvalidArgumentError is returned when a caller-supplied size, alignment, or region fails validation
var InvalidArgumentError error = errors.New("invalid argument")

// OutOfMemoryError is returned when no block can satisfy an allocation request
var OutOfMemoryError error = errors.New("out of memory")

// BadAddressError is returned when a pointer handed back to an allocator does not identify a live block
var BadAddressError error = errors.New("bad address")

// NotInitializedError is returned when the process heap is accessed before it has been initialized
var NotInitializedError error = errors.New("not initialized")

// ErrorCode is a coarse classification of the errors produced by this module. It exists so that
// callers which can only carry a status code across a boundary still have something to report.
type ErrorCode int32

const (
	ErrorCodeUnknown ErrorCode = iota
	ErrorCodeResourceBusy
	ErrorCodeInvalidArgument
	ErrorCodeOutOfMemory
	ErrorCodeBadAddress
	ErrorCodeNotInitialized
)

var errorCodeMapping = map[ErrorCode]string{
	ErrorCodeUnknown:         "Unknown",
	ErrorCodeResourceBusy:    "ResourceBusy",
	ErrorCodeInvalidArgument: "InvalidArgument",
	ErrorCodeOutOfMemory:     "OutOfMemory",
	ErrorCodeBadAddress:      "BadAddress",
	ErrorCodeNotInitialized:  "NotInitialized",
}

func (c ErrorCode) String() string {
	return errorCodeMapping[c]
}

var codeSentinels = []struct {
	code     ErrorCode
	sentinel error
}{
	{ErrorCodeResourceBusy, ResourceBusyError},
	{ErrorCodeInvalidArgument, InvalidArgumentError},
	{ErrorCodeOutOfMemory, OutOfMemoryError},
	{ErrorCodeBadAddress, BadAddressError},
	{ErrorCodeNotInitialized, NotInitializedError},
}

// CodeOf retrieves the ErrorCode for an error returned from this module. Wrapped errors are
// unwrapped until one of the sentinel errors above is found. A nil error has no code and returns
// ErrorCodeUnknown, as does any error that did not originate in this module.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ErrorCodeUnknown
	}

	for _, entry := range codeSentinels {
		if errors.Is(err, entry.sentinel) {
			return entry.code
		}
	}

	return ErrorCodeUnknown
}
