package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBodies_Text(t *testing.T) {
	out, err := execute(t, "bodies", "--data-dir", fixtureDir)
	require.NoError(t, err)

	assert.Contains(t, out, "ABBR")
	assert.Regexp(t, `ear\s+Earth\s+true`, out)
	assert.Regexp(t, `nep\s+Neptune\s+false`, out)
}

func TestBodies_CustomCatalog(t *testing.T) {
	dir := t.TempDir()
	catalog := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(catalog, []byte(`bodies:
  - abbr: emb
    name: Earth-Moon barycenter
    file: VSOP87D.ear
`), 0o644))

	out, err := execute(t, "bodies", "--data-dir", fixtureDir, "--catalog", catalog, "--format", "json")
	require.NoError(t, err)

	var statuses []BodyStatus
	decodeData(t, out, &statuses)
	require.Len(t, statuses, 1)
	assert.Equal(t, "emb", statuses[0].Abbr)
	assert.True(t, statuses[0].Available)
	assert.Equal(t, filepath.Join(fixtureDir, "VSOP87D.ear"), statuses[0].File)
}

func TestBodies_BadCatalog(t *testing.T) {
	_, err := execute(t, "bodies", "--catalog", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
