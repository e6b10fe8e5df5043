package utils

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// BinaryExists reports whether binaryName resolves to an executable, either
// as a path or through PATH.
func BinaryExists(binaryName string) bool {
	_, err := exec.LookPath(binaryName)
	return err == nil
}

// WriteFileAtomic writes data to a temporary file next to filename and
// renames it into place, so readers never see a partial report.
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	// Create temporary file in the same directory as the target file
	dir := filepath.Dir(filename)
	tmpFile, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(filename)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // Clean up temp file on error
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temporary file: %w", err)
	}

	// Ensure data is flushed to disk
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set file permissions: %w", err)
	}

	// Atomic rename to final location
	if err := os.Rename(tmpPath, filename); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// WriteOutput sends data to w when filename is empty or "-", and otherwise
// writes it atomically to filename.
func WriteOutput(w io.Writer, filename string, data []byte) error {
	if filename == "" || filename == "-" {
		_, err := w.Write(data)
		return err
	}
	return WriteFileAtomic(filename, data, 0o644)
}
