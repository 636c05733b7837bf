package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const FileName = "ionic.config.json"

var ErrNotFound = errors.New("project config not found")

// Project is the ionic.config.json of the project being worked on.
type Project struct {
	Directory string `json:"-"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	AppID     string `json:"app_id,omitempty"`
}

// Path returns the location of the project config file.
func (p *Project) Path() string {
	return filepath.Join(p.Directory, FileName)
}

// Load reads dir/ionic.config.json.
func Load(dir string) (*Project, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}

	p := &Project{}
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := json5.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	p.Directory = dir
	return p, nil
}

// FindRoot walks up from start until it finds a directory holding
// ionic.config.json.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: searched from %s", ErrNotFound, start)
		}
		dir = parent
	}
}

// Resolve finds and loads the project containing cwd. When none exists it
// returns an empty project rooted at cwd so callers can still resolve paths.
func Resolve(cwd string) (*Project, error) {
	root, err := FindRoot(cwd)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &Project{Directory: cwd}, nil
		}
		return nil, err
	}
	return Load(root)
}
