//go:build linux

package artifact

import (
	"os"

	"golang.org/x/sys/unix"
)

// syncFile flushes file data without forcing a metadata write.
func syncFile(f *os.File) error {
	return unix.Fdatasync(int(f.Fd()))
}

// syncDir makes a rename in dir durable.
func syncDir(dir string) error {
	fd, err := unix.Open(dir, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return err
	}
	defer unix.Close(fd)
	return unix.Fsync(fd)
}
