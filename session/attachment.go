package session

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Sink wraps the destination of a download; the CLI hangs a progress bar on it.
type Sink func(dst io.Writer, size int64) io.Writer

// downloadTarget picks dir/<base of name>, refusing to replace a file that is already there.
func downloadTarget(dir string, name string) (string, error) {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		return "", invalid("attachment name %q is empty", name)
	}

	dst := filepath.Join(dir, base)
	_, err := os.Stat(dst)
	if err == nil {
		return "", invalid("will not overwrite existing file %s", dst)
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("session: cannot stat '%s': %w", dst, err)
	}
	return dst, nil
}

func writeDownload(dst string, data []byte, sink Sink) error {
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0640)
	if errors.Is(err, os.ErrExist) {
		return invalid("will not overwrite existing file %s", dst)
	}
	if err != nil {
		return fmt.Errorf("session: couldn't create file %s: %w", dst, err)
	}
	defer f.Close()

	var w io.Writer = f
	if sink != nil {
		w = sink(f, int64(len(data)))
	}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("session: couldn't write to file %s: %w", dst, err)
	}
	return nil
}

func readUpload(file string) ([]byte, error) {
	if file == "" {
		return nil, invalid("no file given")
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("session: couldn't read %s: %w", file, err)
	}
	return data, nil
}
