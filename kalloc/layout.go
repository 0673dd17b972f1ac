package kalloc

import "unsafe"

// Layout describes the size and alignment of a block requested from an Allocator
type Layout struct {
	// Size is the number of bytes requested
	Size int
	// Align is the requested alignment of the block. It must be 0, 1, or a power of two.
	Align uint
}

// NewLayout creates a Layout from a size and alignment
func NewLayout(size int, align uint) Layout {
	return Layout{Size: size, Align: align}
}

// LayoutOf returns the Layout of a value of type T
func LayoutOf[T any]() Layout {
	var zero T
	return Layout{
		Size:  int(unsafe.Sizeof(zero)),
		Align: uint(unsafe.Alignof(zero)),
	}
}
