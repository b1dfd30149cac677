// Package scaffold writes the starter files for a new postcli project.
package scaffold

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/pixelvide/postcli/pkg/config"
)

//go:embed files
var files embed.FS

// Result reports what Init did with one file
type Result struct {
	Path    string // relative to the target directory
	Created bool   // false when the file already existed
}

// Files lists the scaffolded paths, relative to the target directory
func Files() []string {
	out := []string{".env.example", "contacts.csv", "links.json"}
	for _, role := range config.Roles {
		out = append(out, path.Join("templates", config.RoleTemplateFiles[role]))
	}
	return out
}

// source maps a target path onto its embedded copy. Dotfiles are not embedded by default.
func source(rel string) string {
	if rel == ".env.example" {
		return "files/env.example"
	}
	return path.Join("files", rel)
}

// Init writes every starter file into dir, leaving existing files untouched
func Init(dir string) ([]Result, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(Files()))
	for _, rel := range Files() {
		target := filepath.Join(dir, filepath.FromSlash(rel))

		if _, err := os.Stat(target); err == nil {
			results = append(results, Result{Path: rel})
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return results, err
		}

		data, err := files.ReadFile(source(rel))
		if err != nil {
			return results, err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return results, err
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return results, err
		}
		results = append(results, Result{Path: rel, Created: true})
	}
	return results, nil
}
