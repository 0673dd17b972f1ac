//go:build !debug_mem_utils

package memutils

const (
	// DebugPoisoning is true when freed blocks are filled with a marker that is checked on
	// CheckCorruption
	DebugPoisoning bool = false
)

// WriteMagicValue writes an easy-to-identify marker across every whole 4-byte word of the provided
// slice. This method no-ops unless the debug_mem_utils build tag is present.
func WriteMagicValue(data []byte) {
}

// ValidateMagicValue verifies that the easy-to-identify marker written by WriteMagicValue is still present.
// It returns true if the value is still present and false otherwise.
// This method no-ops unless the debug_mem_utils build tag is present.
func ValidateMagicValue(data []byte) bool {
	return true
}

// DebugValidate will call Validate on the provided object and panics if any errors are returned. This
// method no-ops unless the debug_mem_utils build tag is present
func DebugValidate(validatable Validatable) {
}

// DebugCheckPow2 will verify that the numerical value passed in is a power of two, and panics if it is not.
// This method no-ops unless the debug_mem_utils build tag is present.
func DebugCheckPow2[T Number](value T, name string) {
}
