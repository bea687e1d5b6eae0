package project

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Ext is the source file extension.
const Ext = ".isle"

// ListFiles returns the sources under root, sorted. With no patterns every
// *.isle file is taken; hidden directories are skipped.
func ListFiles(root string, cfg *ProjectConfig) ([]string, error) {
	var include, exclude []string
	if cfg != nil {
		include, exclude = cfg.Files, cfg.Exclude
	}
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if path != root && (strings.HasPrefix(d.Name(), ".") || matchAny(exclude, rel)) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != Ext || matchAny(exclude, rel) {
			return nil
		}
		if len(include) > 0 && !matchAny(include, rel) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if Match(p, rel) {
			return true
		}
	}
	return false
}

// Match reports whether the slash-separated rel matches pattern.
// `**` stands for zero or more path segments; other segments follow
// filepath.Match.
func Match(pattern, rel string) bool {
	return matchSegs(strings.Split(filepath.ToSlash(pattern), "/"), strings.Split(rel, "/"))
}

func matchSegs(pat, name []string) bool {
	for len(pat) > 0 {
		if pat[0] == "**" {
			for i := 0; i <= len(name); i++ {
				if matchSegs(pat[1:], name[i:]) {
					return true
				}
			}
			return false
		}
		if len(name) == 0 {
			return false
		}
		if ok, err := filepath.Match(pat[0], name[0]); err != nil || !ok {
			return false
		}
		pat, name = pat[1:], name[1:]
	}
	return len(name) == 0
}
