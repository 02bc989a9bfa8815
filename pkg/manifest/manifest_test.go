package manifest

import (
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestAddSnapshot(t *testing.T) {
	m := &Manifest{}
	require.NoError(t, m.AddSnapshot(Snapshot{Name: "models", Version: "v1.0.0", File: "a"}))
	require.Equal(t, "1.0.0", m.CurrentVersion)
	require.Empty(t, m.PreviousVersion)

	require.NoError(t, m.AddSnapshot(Snapshot{Name: "models", Version: "1.1.0", File: "b"}))
	require.Equal(t, "1.1.0", m.CurrentVersion)
	require.Equal(t, "1.0.0", m.PreviousVersion)

	// same version again replaces the entry and keeps the pointers
	require.NoError(t, m.AddSnapshot(Snapshot{Name: "models", Version: "1.1.0", File: "c"}))
	require.Equal(t, "1.0.0", m.PreviousVersion)
	require.Len(t, m.Snapshots, 2)
	require.Equal(t, "c", m.SnapshotFile("1.1.0"))

	err := m.AddSnapshot(Snapshot{Name: "models", Version: "0.9.0"})
	require.True(t, errors.Is(err, ErrVersionRegression))

	err = m.AddSnapshot(Snapshot{Name: "models", Version: "latest"})
	require.True(t, errors.Is(err, ErrInvalidVersion))
	require.NotEmpty(t, errors.GetAllHints(err))
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "manifest.yaml")

	empty, err := Load(path)
	require.NoError(t, err)
	require.Empty(t, empty.Snapshots)

	m := &Manifest{}
	require.NoError(t, m.AddSnapshot(Snapshot{Name: "models", Version: "2.0.0", File: "x.d.ts", Modules: []string{"Shop"}}))
	require.NoError(t, m.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(m, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestSorted(t *testing.T) {
	m := &Manifest{Snapshots: []Snapshot{
		{Version: "1.10.0"},
		{Version: "garbage"},
		{Version: "1.2.0"},
		{Version: "1.2.0-rc.1"},
	}}
	got := make([]string, 0, len(m.Snapshots))
	for _, s := range m.Sorted() {
		got = append(got, s.Version)
	}
	require.Equal(t, []string{"1.2.0-rc.1", "1.2.0", "1.10.0", "garbage"}, got)
	require.Equal(t, "1.10.0", m.Snapshots[0].Version, "Sorted leaves the manifest untouched")
}
