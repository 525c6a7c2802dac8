// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FindFilesByExtension recursively searches the given root path for all files ending
// with the specified extension. It returns a slice of their full paths.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// CollectFiles expands paths into a flat, de-duplicated list of files with
// the given extension. Directories are searched recursively; plain files are
// kept when their extension matches. Paths that do not exist are skipped.
func CollectFiles(paths []string, extension string) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			all = append(all, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if strings.HasSuffix(path, extension) {
				add(path)
			}
			continue
		}
		files, err := FindFilesByExtension(path, extension)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			add(f)
		}
	}
	return all, nil
}

// FindProjectRoot walks up from start, at most maxDepth parents, and returns
// the first directory containing one of the marker entries. If none is found
// it returns start.
func FindProjectRoot(start string, maxDepth int, markers ...string) string {
	dir, err := filepath.Abs(start)
	if err != nil {
		return start
	}
	for i := 0; i <= maxDepth; i++ {
		for _, m := range markers {
			if _, err := os.Stat(filepath.Join(dir, m)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return start
}

// FirstExisting returns the first candidate that exists, or fallback.
func FirstExisting(fallback string, candidates ...string) string {
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return fallback
}
