// Copyright © 2026 The jank authors

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// sourceExt is the extension of jank source files.
const sourceExt = ".jank"

// expandArgs expands arguments, resolving patterns ending with "/..." to all
// .jank files found recursively under the given directory. Non-pattern
// arguments pass through unchanged.
func expandArgs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if dir, ok := strings.CutSuffix(arg, "/..."); ok {
			if dir == "" {
				dir = "."
			}
			files, err := findSourceFiles(dir)
			if err != nil {
				return nil, fmt.Errorf("expanding %s: %w", arg, err)
			}
			out = append(out, files...)
		} else {
			out = append(out, arg)
		}
	}
	return out, nil
}

func findSourceFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if filepath.Ext(path) == sourceExt {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// filterExcludes drops the paths matching any of the exclude patterns.
func filterExcludes(paths, excludes []string) []string {
	if len(excludes) == 0 {
		return paths
	}
	var out []string
	for _, p := range paths {
		if !matchesAny(p, excludes) {
			out = append(out, p)
		}
	}
	return out
}

// matchesAny reports whether path, its base name or one of its directory
// components matches a pattern.
func matchesAny(path string, patterns []string) bool {
	components := splitPath(path)
	for _, pat := range patterns {
		if ok, _ := filepath.Match(pat, path); ok {
			return true
		}
		for _, c := range components {
			if ok, _ := filepath.Match(pat, c); ok {
				return true
			}
		}
	}
	return false
}

func splitPath(path string) []string {
	var out []string
	for _, c := range strings.Split(filepath.ToSlash(filepath.Clean(path)), "/") {
		if c != "" && c != "." {
			out = append(out, c)
		}
	}
	return out
}

// moduleNamespace derives a namespace from a source path: directories
// become dotted segments and underscores become dashes, so
// src/foo/bar_baz.jank is src.foo.bar-baz.
func moduleNamespace(path string) string {
	path = strings.TrimSuffix(path, filepath.Ext(path))
	var segs []string
	for _, c := range splitPath(path) {
		if c == ".." {
			continue
		}
		segs = append(segs, strings.ReplaceAll(c, "_", "-"))
	}
	return strings.Join(segs, ".")
}
