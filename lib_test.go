package gitcore

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibraryCandidatesExplicitWins(t *testing.T) {
	t.Setenv(EnvLibraryPath, "/env/libgit2.so")
	got, err := libraryCandidates(LoadOptions{LibraryPath: "/explicit/libgit2.so"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/explicit/libgit2.so"}, got)
}

func TestLibraryCandidatesEnvOverride(t *testing.T) {
	t.Setenv(EnvLibraryPath, "/env/libgit2.so")
	got, err := libraryCandidates(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"/env/libgit2.so"}, got)
}

func TestLibraryCandidatesConfigFile(t *testing.T) {
	t.Setenv(EnvLibraryPath, "")
	dir := t.TempDir()
	cfg := filepath.Join(dir, "gitcore.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("library = \"/from/toml/libgit2.so\"\n"), 0o644))

	got, err := libraryCandidates(LoadOptions{ConfigFile: cfg})
	require.NoError(t, err)
	assert.Equal(t, []string{"/from/toml/libgit2.so"}, got)
}

func TestLibraryCandidatesConfigFileViaEnv(t *testing.T) {
	t.Setenv(EnvLibraryPath, "")
	dir := t.TempDir()
	cfg := filepath.Join(dir, "gitcore.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("library = \"/env-toml/libgit2.so\"\n"), 0o644))
	t.Setenv(EnvConfigFile, cfg)

	got, err := libraryCandidates(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"/env-toml/libgit2.so"}, got)
}

func TestLibraryCandidatesBadConfigFile(t *testing.T) {
	t.Setenv(EnvLibraryPath, "")
	dir := t.TempDir()
	cfg := filepath.Join(dir, "gitcore.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("library = [not toml"), 0o644))

	_, err := libraryCandidates(LoadOptions{ConfigFile: cfg})
	var le *LoadError
	assert.ErrorAs(t, err, &le)
}

func TestLibraryCandidatesEmptyConfigFallsThrough(t *testing.T) {
	t.Setenv(EnvLibraryPath, "")
	t.Setenv(EnvConfigFile, "")
	dir := t.TempDir()
	cfg := filepath.Join(dir, "gitcore.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("# no library key\n"), 0o644))

	got, err := libraryCandidates(LoadOptions{ConfigFile: cfg})
	require.NoError(t, err)
	assert.Equal(t, sonameCandidates(runtime.GOOS), got)
}

func TestSonameCandidates(t *testing.T) {
	linux := sonameCandidates("linux")
	require.NotEmpty(t, linux)
	// Newest known soname first, plain soname last as the loader fallback.
	assert.Equal(t, "libgit2.so.1.9", linux[0])
	assert.Equal(t, "libgit2.so", linux[len(linux)-1])

	assert.Contains(t, sonameCandidates("darwin")[0], ".dylib")
	assert.Contains(t, sonameCandidates("windows"), "git2.dll")
}

func TestGetBeforeLoad(t *testing.T) {
	// Nothing in the test suite loads the native library.
	_, err := Get()
	var ue *UninitializedError
	assert.ErrorAs(t, err, &ue)
}

func TestUnloadWithoutLoadIsNoop(t *testing.T) {
	assert.NoError(t, Unload())
}

func TestOpenBeforeLoad(t *testing.T) {
	_, err := Open(t.TempDir())
	var ue *UninitializedError
	assert.ErrorAs(t, err, &ue)
}
