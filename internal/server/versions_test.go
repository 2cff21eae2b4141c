package server

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *VersionStore {
	t.Helper()
	s, err := OpenVersionStore(filepath.Join(t.TempDir(), "versions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCompareVersions(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.1", "1.0.0", 1},
		{"1.0.0", "1.0.1", -1},
		{"2.0", "1.9.9", 1},
		{"1.10.0", "1.9.0", 1},
		{"1.0", "1.0.0", 0},
		{"1.0.1", "1.0", 1},
	}
	for _, tc := range cases {
		if got := CompareVersions(tc.a, tc.b); got != tc.want {
			t.Errorf("CompareVersions(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestVersionStoreCRUD(t *testing.T) {
	s := openTestStore(t)

	v := &Version{Version: "1.0.0", Platform: PlatformWindows, Description: "first", IsActive: true}
	require.NoError(t, s.Create(v))
	assert.NotZero(t, v.ID)

	got, err := s.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", got.Version)
	assert.True(t, got.IsActive)

	// Duplicate (version, platform) is rejected
	assert.Error(t, s.Create(&Version{Version: "1.0.0", Platform: PlatformWindows}))

	// Same version on another platform is fine
	require.NoError(t, s.Create(&Version{Version: "1.0.0", Platform: PlatformMacOS, IsActive: true}))

	desc := "updated"
	got, err = s.Update(v.ID, VersionChanges{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Description)

	require.NoError(t, s.Delete(v.ID))
	_, err = s.Get(v.ID)
	assert.ErrorIs(t, err, ErrVersionNotFound)
	assert.ErrorIs(t, s.Delete(v.ID), ErrVersionNotFound)
}

func TestVersionStoreList(t *testing.T) {
	s := openTestStore(t)

	for _, v := range []*Version{
		{Version: "1.0.0", Platform: PlatformWindows, IsActive: true},
		{Version: "1.1.0", Platform: PlatformWindows, IsActive: true},
		{Version: "1.0.0", Platform: PlatformMacOS, IsActive: true},
	} {
		require.NoError(t, s.Create(v))
	}

	all, err := s.List("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	windows, err := s.List(PlatformWindows)
	require.NoError(t, err)
	require.Len(t, windows, 2)
	for _, v := range windows {
		assert.Equal(t, PlatformWindows, v.Platform)
	}
}

func TestLatestActive(t *testing.T) {
	s := openTestStore(t)

	// No versions at all
	latest, err := s.LatestActive(PlatformWindows)
	require.NoError(t, err)
	assert.Nil(t, latest)

	require.NoError(t, s.Create(&Version{Version: "1.0.0", Platform: PlatformWindows, IsActive: true}))
	require.NoError(t, s.Create(&Version{Version: "2.0.0", Platform: PlatformWindows, IsActive: false}))
	require.NoError(t, s.Create(&Version{Version: "1.2.0", Platform: PlatformWindows, IsActive: true}))

	// Inactive versions are invisible to update checks
	latest, err = s.LatestActive(PlatformWindows)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "1.2.0", latest.Version)
}
