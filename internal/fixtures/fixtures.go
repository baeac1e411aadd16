package fixtures

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source is the read-only view of a snapshot that checks work against.
// Every read reports absence through ok=false; errors are reserved for unreadable or malformed artifacts.
type Source interface {
	Exists(rel string) bool
	ReadText(rel string) (string, bool, error)
	ReadJSON(rel string) (map[string]any, bool, error)
	DecodeJSON(rel string, v any) (bool, error)
	ReadTabular(rel string) ([]map[string]string, bool, error)
}

// Fixtures reads artifacts below a snapshot root. Nothing is cached.
type Fixtures struct {
	root string
}

// New returns a Fixtures rooted at root.
func New(root string) *Fixtures {
	return &Fixtures{root: root}
}

// Root returns the snapshot root directory.
func (f *Fixtures) Root() string {
	return f.root
}

func (f *Fixtures) path(rel string) string {
	return filepath.Join(f.root, filepath.FromSlash(rel))
}

// Exists reports whether rel is present under the root.
func (f *Fixtures) Exists(rel string) bool {
	_, err := os.Stat(f.path(rel))
	return err == nil
}

// ReadText returns the content of rel.
func (f *Fixtures) ReadText(rel string) (string, bool, error) {
	data, ok, err := f.read(rel)
	if !ok || err != nil {
		return "", ok, err
	}
	return string(data), true, nil
}

// ReadJSON parses rel as a JSON object.
func (f *Fixtures) ReadJSON(rel string) (map[string]any, bool, error) {
	var out map[string]any
	ok, err := f.DecodeJSON(rel, &out)
	if !ok || err != nil {
		return nil, ok, err
	}
	if out == nil {
		return nil, true, &ParseError{Path: rel, Format: "json", Err: fmt.Errorf("top-level value is not an object")}
	}
	return out, true, nil
}

// DecodeJSON unmarshals rel into v.
func (f *Fixtures) DecodeJSON(rel string, v any) (bool, error) {
	data, ok, err := f.read(rel)
	if !ok || err != nil {
		return ok, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, &ParseError{Path: rel, Format: "json", Err: err}
	}
	return true, nil
}

// ReadTabular parses rel as CSV. The header row provides the keys of every record;
// short rows leave the missing keys empty.
func (f *Fixtures) ReadTabular(rel string) ([]map[string]string, bool, error) {
	data, ok, err := f.read(rel)
	if !ok || err != nil {
		return nil, ok, err
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []map[string]string{}, true, nil
	}
	if err != nil {
		return nil, true, &ParseError{Path: rel, Format: "csv", Err: err}
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, true, &ParseError{Path: rel, Format: "csv", Err: err}
		}
		row := make(map[string]string, len(header))
		for i, key := range header {
			if i < len(record) {
				row[key] = record[i]
			} else {
				row[key] = ""
			}
		}
		rows = append(rows, row)
	}
	if rows == nil {
		rows = []map[string]string{}
	}
	return rows, true, nil
}

func (f *Fixtures) read(rel string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path(rel))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, true, fmt.Errorf("failed to read artifact %q: %w", rel, err)
	}
	return data, true, nil
}

// ListFiles returns every regular file below root as a sorted list of
// forward-slash paths relative to root. Symlinks count when their target is a regular file.
// A missing root yields an empty list.
//
// Entries that cannot be read are skipped; the listing of everything else is returned
// together with an error naming them. Only a failure on root itself yields no list.
func ListFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat snapshot root %q: %w", root, err)
	}
	if !info.IsDir() {
		return []string{}, nil
	}

	paths := []string{}
	var skipped []error
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("failed to read snapshot root %q: %w", root, err)
			}
			skipped = append(skipped, fmt.Errorf("skipped %q: %w", path, err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !isRegularFile(path, d) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, errors.Join(skipped...)
}

func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	target, err := os.Stat(path)
	return err == nil && target.Mode().IsRegular()
}
