// Package stubfile handles the file side of a merge: one read, one
// in-memory transform, one atomic write. A failed transform leaves the
// stub exactly as it was; no partial file is ever produced.
package stubfile

import (
	"os"
	"path/filepath"

	"stubdoc/internal/errors"
)

// Transform rewrites stub source text.
type Transform func(source string) (string, error)

// Rewrite reads the stub at src, applies the transform, and writes the
// result to dst. dst may equal src for an in-place rewrite. The result
// is written to a temporary file in dst's directory and renamed into
// place, so readers never observe a half-written stub.
func Rewrite(src, dst string, transform Transform) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return errors.Newf(errors.ConfigError, err, "reading stub %s", src)
	}

	out, err := transform(string(data))
	if err != nil {
		return err
	}

	return write(dst, out)
}

func write(dst, content string) error {
	dir := filepath.Dir(dst)
	tmp, err := os.CreateTemp(dir, ".stubdoc-*")
	if err != nil {
		return errors.Newf(errors.WriteFailed, err, "creating temp file in %s", dir)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return errors.Newf(errors.WriteFailed, err, "writing %s", tmpPath)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Newf(errors.WriteFailed, err, "closing %s", tmpPath)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Newf(errors.WriteFailed, err, "setting mode on %s", tmpPath)
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Newf(errors.WriteFailed, err, "replacing %s", dst)
	}
	return nil
}
