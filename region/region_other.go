//go:build !unix

package region

import (
	"unsafe"

	"github.com/vkngwrapper/slabheap/memutils"
)

func mapRegion(size int) ([]byte, func([]byte) error, error) {
	backing := make([]byte, size+int(MaxAlign))
	base := uintptr(unsafe.Pointer(unsafe.SliceData(backing)))
	offset := memutils.AlignUp(int(base), MaxAlign) - int(base)

	return backing[offset : offset+size], func([]byte) error {
		return nil
	}, nil
}
