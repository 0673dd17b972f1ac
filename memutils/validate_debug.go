//go:build debug_mem_utils

package memutils

import "encoding/binary"

const (
	// DebugPoisoning is true when freed blocks are filled with a marker that is checked on
	// CheckCorruption
	DebugPoisoning bool = true
	// corruptionDetectionMagicValue is a 4-byte pattern that is copied into freed blocks
	corruptionDetectionMagicValue uint32 = 0x7F84E666
)

// WriteMagicValue writes an easy-to-identify marker across every whole 4-byte word of the provided
// slice. This method no-ops unless the debug_mem_utils build tag is present.
func WriteMagicValue(data []byte) {
	for len(data) >= MagicValueSize {
		binary.LittleEndian.PutUint32(data, corruptionDetectionMagicValue)
		data = data[MagicValueSize:]
	}
}

// ValidateMagicValue verifies that the easy-to-identify marker written by WriteMagicValue is still present.
// It returns true if the value is still present and false otherwise.
// This method no-ops unless the debug_mem_utils build tag is present.
func ValidateMagicValue(data []byte) bool {
	for len(data) >= MagicValueSize {
		if binary.LittleEndian.Uint32(data) != corruptionDetectionMagicValue {
			return false
		}
		data = data[MagicValueSize:]
	}

	return true
}

// DebugValidate will call Validate on the provided object and panics if any errors are returned. This
// method no-ops unless the debug_mem_utils build tag is present
func DebugValidate(validatable Validatable) {
	err := validatable.Validate()
	if err != nil {
		panic(err)
	}
}

// DebugCheckPow2 will verify that the numerical value passed in is a power of two, and panics if it is not.
// This method no-ops unless the debug_mem_utils build tag is present.
func DebugCheckPow2[T Number](value T, name string) {
	err := CheckPow2[T](value, name)
	if err != nil {
		panic(err)
	}
}
