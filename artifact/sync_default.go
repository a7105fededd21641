//go:build !linux

package artifact

import "os"

// syncFile flushes the file to stable storage (non-Linux fallback)
func syncFile(f *os.File) error {
	return f.Sync()
}

func syncDir(string) error {
	return nil
}
