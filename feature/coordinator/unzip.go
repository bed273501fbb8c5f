package coordinator

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// extractZip extracts src into dest and returns the member files, sorted by
// name, as paths relative to dest. A member escaping dest or failing to
// extract is logged and skipped; only an unreadable archive is an error.
func extractZip(src, dest string, log *zap.Logger) ([]string, error) {
	r, err := zip.OpenReader(src)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, fmt.Errorf("failed to open archive %s: %w", src, err)
	}
	defer r.Close()

	log = log.With(zap.String("archive", filepath.Base(src)))
	root := filepath.Clean(dest) + string(os.PathSeparator)
	var members []string
	for _, f := range r.File {
		path := filepath.Join(dest, f.Name)
		if !strings.HasPrefix(path, root) {
			log.Error("Skipping member with illegal path", zap.String("member", f.Name))
			continue
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(path, 0o755); err != nil {
				log.Error("Failed to create member directory", zap.String("member", f.Name), zap.Error(err))
			}
			continue
		}
		if err := extractMember(f, path); err != nil {
			log.Error("Skipping unreadable member", zap.String("member", f.Name), zap.Error(err))
			continue
		}
		members = append(members, filepath.ToSlash(strings.TrimPrefix(path, root)))
	}

	sort.Strings(members)
	return members, nil
}

// extractMember writes one member to path. A partial file is removed.
func extractMember(f *zip.File, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open member %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	_, err = io.Copy(out, rc)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to extract %s: %w", f.Name, err)
	}
	return nil
}
