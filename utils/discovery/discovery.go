// Package discovery walks the filesystem to find tool documents and
// sub-workflow YAML files through FindToolDocs and FindWorkflowDocs,
// which return sorted file paths. The directory walk follows the shape of an existing
// codebase-indexing scan, with .wicignore filtering via
// github.com/sabhiram/go-gitignore the way codebaseindex used
// go-gitignore for .gitignore, and ~-expansion via utils/fileutil.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/foldedcode/wic/utils/config"
	"github.com/foldedcode/wic/utils/fileutil"
)

// DefaultIgnoreDirs mirrors a typical filesystem-scan skip list, trimmed
// to what's relevant for a workflow/tool repository.
var DefaultIgnoreDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	".hg":          true,
	".svn":         true,
	"dist":         true,
	"build":        true,
	".wic":         true,
}

// Options configures a discovery walk.
type Options struct {
	IgnoreDirs  map[string]bool
	ExtraIgnore []string // additional .wicignore-style glob patterns
}

func DefaultOptions() Options {
	dirs := make(map[string]bool, len(DefaultIgnoreDirs))
	for k, v := range DefaultIgnoreDirs {
		dirs[k] = v
	}
	return Options{IgnoreDirs: dirs}
}

func loadIgnore(root string, extra []string) *gitignore.GitIgnore {
	path := filepath.Join(root, ".wicignore")
	if gi, err := gitignore.CompileIgnoreFile(path); err == nil {
		return gi
	}
	if len(extra) > 0 {
		return gitignore.CompileIgnoreLines(extra...)
	}
	return nil
}

// FindToolDocs walks root and returns the path of every *.yml/*.yaml
// file directly under a "tools" directory, the convention the tool
// discoverer assumes, sorted for deterministic registry population
// order.
func FindToolDocs(root string, opts Options) ([]string, error) {
	return findYAML(root, opts, func(relPath string) bool {
		dir := filepath.Dir(relPath)
		return dir == "tools" || strings.HasSuffix(dir, string(filepath.Separator)+"tools")
	})
}

// FindWorkflowDocs walks root and returns every *.yml/*.yaml file that
// is not under a "tools" directory -- candidate root workflow documents.
func FindWorkflowDocs(root string, opts Options) ([]string, error) {
	return findYAML(root, opts, func(relPath string) bool {
		dir := filepath.Dir(relPath)
		return dir != "tools" && !strings.HasSuffix(dir, string(filepath.Separator)+"tools")
	})
}

func findYAML(root string, opts Options, keep func(relPath string) bool) ([]string, error) {
	root, err := fileutil.ExpandPath(root)
	if err != nil {
		return nil, fmt.Errorf("discovery: expanding %s: %w", root, err)
	}
	gi := loadIgnore(root, opts.ExtraIgnore)
	var out []string

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			config.DebugLog("discovery: walk error at %s: %v", path, err)
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if info.IsDir() {
			if rel != "." && opts.IgnoreDirs[info.Name()] {
				return filepath.SkipDir
			}
			if gi != nil && gi.MatchesPath(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yml" && ext != ".yaml" {
			return nil
		}
		if !keep(rel) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
