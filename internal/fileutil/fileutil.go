package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CopyFile streams src to dst, keeping the source's permission bits.
// dst is written through a temporary file in the same directory and renamed
// into place, so an interrupted copy never leaves a partial target.
func CopyFile(src, dst string) error {
	return copyFile(src, dst, false)
}

// CopyFileVerified is CopyFile with SHA256 + size integrity verification.
// The target is not created on mismatch.
func CopyFileVerified(src, dst string) error {
	return copyFile(src, dst, true)
}

func copyFile(src, dst string, verify bool) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if !srcInfo.Mode().IsRegular() {
		return fmt.Errorf("copy %s: not a regular file", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.CreateTemp(filepath.Dir(dst), ".shelver-copy-*")
	if err != nil {
		return err
	}
	tmpName := out.Name()
	committed := false
	defer func() {
		if !committed {
			_ = out.Close()
			_ = os.Remove(tmpName)
		}
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	var (
		reader io.Reader = in
		writer io.Writer = out
	)
	if verify {
		reader = io.TeeReader(in, srcHasher)
		writer = io.MultiWriter(out, dstHasher)
	}

	written, err := io.Copy(writer, reader)
	if err != nil {
		return err
	}
	if err := out.Chmod(srcInfo.Mode().Perm()); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if verify {
		if written != srcInfo.Size() {
			return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcInfo.Size(), written)
		}
		if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
			return errors.New("copy hash mismatch: file corrupted during copy")
		}
	}

	if err := os.Rename(tmpName, dst); err != nil {
		return err
	}
	committed = true
	return nil
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
