package manifest

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidVersion    = errors.New("invalid snapshot version")
	ErrVersionRegression = errors.New("snapshot version older than current")
)

// Snapshot represents a generated declaration file recorded in the manifest.
type Snapshot struct {
	Name    string   `yaml:"name" json:"name"`
	Version string   `yaml:"version" json:"version"`
	File    string   `yaml:"file" json:"file"`
	Modules []string `yaml:"modules,omitempty" json:"modules,omitempty"`
}

// Manifest tracks the lifecycle of generated declaration snapshots.
type Manifest struct {
	CurrentVersion  string     `yaml:"current_version" json:"current_version"`
	PreviousVersion string     `yaml:"previous_version" json:"previous_version"`
	Snapshots       []Snapshot `yaml:"snapshots" json:"snapshots"`
}

// Load reads a manifest from the provided path. If the file does not exist,
// an empty manifest is returned.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read manifest")
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "unmarshal manifest")
	}

	return &m, nil
}

// Save writes the manifest to the provided path, creating parent directories as needed.
func (m *Manifest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create manifest directory")
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "marshal manifest")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "write manifest")
	}

	return nil
}

// AddSnapshot records a snapshot, updating version pointers and de-duplicating
// existing entries that share the same name and version. Versions are semver
// and may not go backwards.
func (m *Manifest) AddSnapshot(s Snapshot) error {
	v, err := semver.NewVersion(s.Version)
	if err != nil {
		return errors.WithHint(
			errors.Wrapf(ErrInvalidVersion, "%q", s.Version),
			"use a semantic version such as 1.2.0",
		)
	}
	s.Version = v.String()

	if m.CurrentVersion != "" {
		cur, err := semver.NewVersion(m.CurrentVersion)
		if err != nil {
			return errors.Wrapf(ErrInvalidVersion, "current version %q", m.CurrentVersion)
		}
		if v.LessThan(cur) {
			return errors.Wrapf(ErrVersionRegression, "%s < %s", v, cur)
		}
		if !v.Equal(cur) {
			m.PreviousVersion = m.CurrentVersion
		}
	}
	m.CurrentVersion = s.Version

	for i := range m.Snapshots {
		if m.Snapshots[i].Name == s.Name && m.Snapshots[i].Version == s.Version {
			m.Snapshots[i] = s
			return nil
		}
	}

	m.Snapshots = append(m.Snapshots, s)
	return nil
}

// SnapshotFile returns the path associated with the provided version, if present.
func (m *Manifest) SnapshotFile(version string) string {
	for _, s := range m.Snapshots {
		if s.Version == version {
			return s.File
		}
	}
	return ""
}

// Sorted returns the snapshots ordered by version, oldest first. Entries with
// unparseable versions sort last.
func (m *Manifest) Sorted() []Snapshot {
	out := slices.Clone(m.Snapshots)
	slices.SortStableFunc(out, func(a, b Snapshot) int {
		va, errA := semver.NewVersion(a.Version)
		vb, errB := semver.NewVersion(b.Version)
		switch {
		case errA != nil && errB != nil:
			return 0
		case errA != nil:
			return 1
		case errB != nil:
			return -1
		}
		return va.Compare(vb)
	})
	return out
}
