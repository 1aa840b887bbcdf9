package fileutil

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// MoveFile renames src to dst. When the two paths live on different
// filesystems it falls back to a copy followed by removing src; verify
// selects the checksummed copy.
func MoveFile(src, dst string, verify bool) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !IsCrossDevice(err) {
		return err
	}
	if verify {
		err = CopyFileVerified(src, dst)
	} else {
		err = CopyFile(src, dst)
	}
	if err != nil {
		return fmt.Errorf("cross-device copy: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove source after cross-device copy: %w", err)
	}
	return nil
}

// IsCrossDevice reports whether err is a rename failure across filesystems.
func IsCrossDevice(err error) bool {
	return errors.Is(err, unix.EXDEV)
}
