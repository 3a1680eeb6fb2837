package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KJHJason/GDrive-Downloader-CLI/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDownloadPathRoundTrip(t *testing.T) {
	origAppPath := utils.APP_PATH
	utils.APP_PATH = t.TempDir()
	t.Cleanup(func() { utils.APP_PATH = origAppPath })

	// nothing saved yet
	assert.Empty(t, GetDefaultDownloadPath())

	dir := t.TempDir()
	require.NoError(t, SetDefaultDownloadPath(dir))
	assert.Equal(t, dir, GetDefaultDownloadPath())

	// a saved path that no longer exists is ignored
	require.NoError(t, os.Remove(dir))
	assert.Empty(t, GetDefaultDownloadPath())

	assert.Error(t, SetDefaultDownloadPath(filepath.Join(dir, "missing")))
}

func TestValidateDownloadPath(t *testing.T) {
	t.Parallel()

	config := &Config{}
	assert.NoError(t, config.ValidateDownloadPath())

	config.DownloadPath = "-"
	assert.NoError(t, config.ValidateDownloadPath())

	config.DownloadPath = t.TempDir()
	assert.NoError(t, config.ValidateDownloadPath())

	filePath := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("x"), 0644))
	config.DownloadPath = filePath
	assert.Error(t, config.ValidateDownloadPath())
}
