package memutils

// Validatable is used by the DebugValidate method to allow it to act upon
// all types with a Validate method
type Validatable interface {
	Validate() error
}

// MagicValueSize is the width in bytes of the repeating marker written by WriteMagicValue
const MagicValueSize int = 4
