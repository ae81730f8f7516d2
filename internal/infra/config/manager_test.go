package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zentasks/zentasks/internal/domain"
)

func TestManager_GetProjectConfigInfo(t *testing.T) {
	t.Run("returns info when file exists", func(t *testing.T) {
		projectDir := t.TempDir()
		configContent := "[log]\nlevel = \"debug\""
		writeFile(t, filepath.Join(projectDir, domain.ProjectConfigFileName), configContent)

		manager := NewManagerWithGlobalDir(projectDir, "")
		info := manager.GetProjectConfigInfo()

		assert.Equal(t, filepath.Join(projectDir, domain.ProjectConfigFileName), info.Path)
		assert.Equal(t, configContent, info.Content)
		assert.True(t, info.Exists)
	})

	t.Run("returns info when file does not exist", func(t *testing.T) {
		projectDir := t.TempDir()

		manager := NewManagerWithGlobalDir(projectDir, "")
		info := manager.GetProjectConfigInfo()

		assert.Equal(t, filepath.Join(projectDir, domain.ProjectConfigFileName), info.Path)
		assert.Empty(t, info.Content)
		assert.False(t, info.Exists)
	})
}

func TestManager_GetGlobalConfigInfo(t *testing.T) {
	t.Run("empty dir", func(t *testing.T) {
		info := NewManagerWithGlobalDir("", "").GetGlobalConfigInfo()
		assert.Empty(t, info.Path)
		assert.False(t, info.Exists)
	})

	t.Run("existing file", func(t *testing.T) {
		globalDir := t.TempDir()
		writeFile(t, filepath.Join(globalDir, domain.ConfigFileName), "[api]\n")

		info := NewManagerWithGlobalDir("", globalDir).GetGlobalConfigInfo()

		assert.True(t, info.Exists)
		assert.Equal(t, "[api]\n", info.Content)
	})
}

func TestManager_InitGlobalConfig(t *testing.T) {
	globalDir := filepath.Join(t.TempDir(), "nested", "zentasks")
	manager := NewManagerWithGlobalDir("", globalDir)

	require.NoError(t, manager.InitGlobalConfig())

	content, err := os.ReadFile(filepath.Join(globalDir, domain.ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, domain.RenderConfigTemplate(), string(content))

	assert.ErrorIs(t, manager.InitGlobalConfig(), domain.ErrConfigExists)
}

func TestManager_InitProjectConfig(t *testing.T) {
	projectDir := t.TempDir()
	manager := NewManagerWithGlobalDir(projectDir, "")

	require.NoError(t, manager.InitProjectConfig())
	assert.True(t, manager.GetProjectConfigInfo().Exists)
	assert.ErrorIs(t, manager.InitProjectConfig(), domain.ErrConfigExists)

	assert.Error(t, NewManagerWithGlobalDir("", "").InitProjectConfig())
	assert.Error(t, NewManagerWithGlobalDir("", "").InitGlobalConfig())
}
