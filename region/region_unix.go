//go:build unix

package region

import (
	"golang.org/x/sys/unix"
)

func mapRegion(size int) ([]byte, func([]byte) error, error) {
	pageSize := unix.Getpagesize()
	mapped := (size + pageSize - 1) / pageSize * pageSize

	data, err := unix.Mmap(-1, 0, mapped, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}

	return data, func([]byte) error {
		return unix.Munmap(data)
	}, nil
}
