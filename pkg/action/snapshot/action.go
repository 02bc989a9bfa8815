package snapshot

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"

	"github.com/cmmoran/komodelgen/pkg/action/generate"
	"github.com/cmmoran/komodelgen/pkg/generator"
	"github.com/cmmoran/komodelgen/pkg/manifest"
)

var ErrNoPrevious = errors.New("no current/previous snapshots recorded")

// Generate writes a versioned snapshot of the declarations and records it in
// the manifest. The snapshot file is named after the output file with the
// version inserted before the extension, e.g. models.v1.2.0.d.ts.
func Generate(opts *generator.Options, manifestPath, snapshotName, snapshotVersion string) (string, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return "", err
	}

	o := *opts
	if err = o.Normalize(); err != nil {
		return "", err
	}
	// leave room for the document's own converters
	o.Converters = opts.Converters

	s := manifest.Snapshot{Name: snapshotName, Version: snapshotVersion}
	// validate before anything is written
	check := manifest.Manifest{
		CurrentVersion:  m.CurrentVersion,
		PreviousVersion: m.PreviousVersion,
		Snapshots:       slices.Clone(m.Snapshots),
	}
	if err = check.AddSnapshot(s); err != nil {
		return "", err
	}
	// file name and manifest entry share the normalized version
	s.Version = check.CurrentVersion
	o.OutFile = versionedName(o.OutFile, s.Version)

	res, err := generate.Generate(&o)
	if err != nil {
		return "", err
	}
	s.File, s.Modules = res.File, res.Modules
	if err = m.AddSnapshot(s); err != nil {
		return "", err
	}
	if err = m.Save(manifestPath); err != nil {
		return "", err
	}
	o.Logger.Info("recorded snapshot", "name", snapshotName, "version", m.CurrentVersion, "file", res.File)
	return res.File, nil
}

// List returns all snapshots recorded in the manifest.
func List(manifestPath string) (*manifest.Manifest, error) {
	return manifest.Load(manifestPath)
}

// DiffCurrentWithPrevious loads the manifest, locates the current and previous
// snapshot files, and returns a textual diff of their contents.
func DiffCurrentWithPrevious(manifestPath string) (string, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return "", err
	}

	if m.CurrentVersion == "" || m.PreviousVersion == "" {
		return "", ErrNoPrevious
	}

	currentPath := m.SnapshotFile(m.CurrentVersion)
	previousPath := m.SnapshotFile(m.PreviousVersion)

	if currentPath == "" || previousPath == "" {
		return "", errors.Newf("snapshot files not found in manifest for %s and %s", m.PreviousVersion, m.CurrentVersion)
	}

	current, err := os.ReadFile(currentPath)
	if err != nil {
		return "", errors.Wrap(err, "read current snapshot")
	}

	previous, err := os.ReadFile(previousPath)
	if err != nil {
		return "", errors.Wrap(err, "read previous snapshot")
	}

	return cmp.Diff(strings.Split(string(previous), "\n"), strings.Split(string(current), "\n")), nil
}

func versionedName(file, version string) string {
	version = "v" + strings.TrimPrefix(version, "v")
	base := filepath.Base(file)
	dir := filepath.Dir(file)
	ext := ""
	for _, e := range []string{".d.ts", ".ts"} {
		if strings.HasSuffix(base, e) {
			ext = e
			break
		}
	}
	if ext == "" {
		ext = filepath.Ext(base)
	}
	name := strings.TrimSuffix(base, ext) + "." + version + ext
	if dir == "." {
		return name
	}
	return filepath.Join(dir, name)
}
