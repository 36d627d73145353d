package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
)

// excludedNames are files/directories never copied into a package.
var excludedNames = map[string]bool{
	".git":        true,
	".DS_Store":   true,
	"__pycache__": true,
}

func joinData(dir string) string {
	return filepath.Join(dir, DataDir)
}

// copier copies a model tree, recording the checksum of each copied file
// and the entries it had to skip.
type copier struct {
	// root is the absolute destination root. It is never copied into
	// itself when it lies inside the source tree.
	root    string
	sums    map[string]string
	skipped []string
}

func newCopier(dst string) (*copier, error) {
	root, err := filepath.Abs(dst)
	if err != nil {
		return nil, err
	}
	return &copier{root: root, sums: make(map[string]string)}, nil
}

// copyDir recursively copies src to dst, excluding entries in excludedNames.
// Checksums are keyed by slash-separated path relative to the copy root
// (rel is the prefix for this level).
func (c *copier) copyDir(src, dst, rel string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()|0o700); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if shouldExclude(entry.Name()) {
			continue
		}

		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		relPath := path.Join(rel, entry.Name())

		switch {
		case entry.IsDir():
			abs, err := filepath.Abs(srcPath)
			if err != nil {
				return err
			}
			if abs == c.root {
				continue
			}
			if err := c.copyDir(srcPath, dstPath, relPath); err != nil {
				return err
			}
		case entry.Type().IsRegular():
			sum, err := copyFile(srcPath, dstPath)
			if err != nil {
				return err
			}
			c.sums[relPath] = sum
		default:
			c.skipped = append(c.skipped, relPath)
		}
	}

	return nil
}

// copyFile copies a single file, preserving permissions, and returns the
// hex SHA-256 of its contents.
func copyFile(src, dst string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return "", err
	}

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(out, h), in); err != nil {
		out.Close()
		return "", fmt.Errorf("copying %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// shouldExclude returns true if the name should be excluded during copy.
func shouldExclude(name string) bool {
	return excludedNames[name]
}

// Verify recomputes checksums for the files listed in d under the model
// asset directory dir and returns the sorted relative paths that are
// missing or differ.
func Verify(dir string, d Descriptor) ([]string, error) {
	var mismatched []string
	root := filepath.Join(dir, d.Data)

	for rel, want := range d.Files {
		f, err := os.Open(filepath.Join(root, filepath.FromSlash(rel)))
		if os.IsNotExist(err) {
			mismatched = append(mismatched, rel)
			continue
		}
		if err != nil {
			return nil, err
		}

		h := sha256.New()
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("hashing %s: %w", rel, err)
		}

		if hex.EncodeToString(h.Sum(nil)) != want {
			mismatched = append(mismatched, rel)
		}
	}

	slices.Sort(mismatched)
	return mismatched, nil
}
