// Package patterns reads and writes domain pattern sets as TOML files and
// normalises user-supplied patterns.
package patterns

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/fitz/taskflow/internal/models"
)

// ErrNameRequired is returned for a pattern without a name.
var ErrNameRequired = errors.New("pattern name is required")

// File is the on-disk layout:
//
//	[[pattern]]
//	name = "Gmail"
//	patterns = ["mail.google.com"]
//	keywords = ["mail"]
type File struct {
	Patterns []models.DomainPattern `toml:"pattern"`
}

var whitespace = regexp.MustCompile(`\s+`)

// SlugID derives an id from a pattern name: lowercased, whitespace runs
// replaced by "-".
func SlugID(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// Normalize trims fields, drops empty entries and fills in a missing id.
func Normalize(p models.DomainPattern) (models.DomainPattern, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return p, ErrNameRequired
	}
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		p.ID = SlugID(p.Name)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Patterns = clean(p.Patterns)
	p.Keywords = clean(p.Keywords)
	return p, nil
}

// NormalizeAll normalises a set and rejects duplicate ids.
func NormalizeAll(in []models.DomainPattern) ([]models.DomainPattern, error) {
	out := make([]models.DomainPattern, 0, len(in))
	seen := make(map[string]bool, len(in))
	for i, p := range in {
		n, err := Normalize(p)
		if err != nil {
			return nil, fmt.Errorf("pattern %d: %w", i, err)
		}
		if seen[n.ID] {
			return nil, fmt.Errorf("duplicate pattern id %q", n.ID)
		}
		seen[n.ID] = true
		out = append(out, n)
	}
	return out, nil
}

// Decode parses a TOML pattern set.
func Decode(r io.Reader) ([]models.DomainPattern, error) {
	var f File
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("parse patterns: %w", err)
	}
	return NormalizeAll(f.Patterns)
}

// LoadFile reads a TOML pattern file.
func LoadFile(path string) ([]models.DomainPattern, error) {
	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("parse patterns: %w", err)
	}
	return NormalizeAll(f.Patterns)
}

// Encode writes a pattern set as TOML.
func Encode(w io.Writer, ps []models.DomainPattern) error {
	return toml.NewEncoder(w).Encode(File{Patterns: ps})
}

// SaveFile writes a pattern set to path, creating parent directories.
func SaveFile(path string, ps []models.DomainPattern) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Encode(f, ps)
}

func clean(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
