package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeUserConfig(t *testing.T, dir string, content string) {
	t.Helper()
	confDir := filepath.Join(dir, userConfigDir)
	require.NoError(t, os.MkdirAll(confDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(confDir, configFileName), []byte(content), 0644))
}

func mockHomeDir(t *testing.T, dir string) {
	t.Helper()
	original := osUserHomeDir
	t.Cleanup(func() { osUserHomeDir = original })
	osUserHomeDir = func() (string, error) {
		return dir, nil
	}
}

func TestLoadConfig_DefaultOnly(t *testing.T) {
	mockHomeDir(t, t.TempDir()) // No config file present

	loaded, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, GetDefaultConfig(), loaded)
	assert.Equal(t, "127.0.0.1", loaded.Manager.Host)
	assert.Equal(t, 5038, loaded.Manager.Port)
	assert.Equal(t, "autotest", loaded.Lines.PeerPrefix)
}

func TestLoadConfig_UserOverride(t *testing.T) {
	tempDir := t.TempDir()
	writeUserConfig(t, tempDir, `
manager:
  host: ast1.example.com
  username: dialer
lines:
  peerPrefix: testline
`)
	mockHomeDir(t, tempDir)

	loaded, err := LoadConfig()
	require.NoError(t, err)

	// Overridden fields
	assert.Equal(t, "ast1.example.com", loaded.Manager.Host)
	assert.Equal(t, "dialer", loaded.Manager.Username)
	assert.Equal(t, "testline", loaded.Lines.PeerPrefix)

	// Unset fields keep their defaults
	assert.Equal(t, DefaultManagerPort, loaded.Manager.Port)
	assert.Equal(t, "01", loaded.Lines.PlarCode)
	assert.Equal(t, "idle", loaded.Lines.Context)
	assert.Equal(t, "9999", loaded.Lines.Extension)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	tempDir := t.TempDir()
	writeUserConfig(t, tempDir, "manager: [not a mapping")
	mockHomeDir(t, tempDir)

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestMergeConfigs(t *testing.T) {
	base := GetDefaultConfig()

	tests := []struct {
		name    string
		overlay DialerConfig
		check   func(t *testing.T, merged DialerConfig)
	}{
		{
			name:    "empty overlay keeps base",
			overlay: DialerConfig{},
			check: func(t *testing.T, merged DialerConfig) {
				assert.Equal(t, base, merged)
			},
		},
		{
			name:    "port override",
			overlay: DialerConfig{Manager: ManagerConfig{Port: 15038}},
			check: func(t *testing.T, merged DialerConfig) {
				assert.Equal(t, 15038, merged.Manager.Port)
				assert.Equal(t, base.Manager.Host, merged.Manager.Host)
			},
		},
		{
			name:    "dialplan override",
			overlay: DialerConfig{Lines: LinesConfig{Context: "waiting", Extension: "100"}},
			check: func(t *testing.T, merged DialerConfig) {
				assert.Equal(t, "waiting", merged.Lines.Context)
				assert.Equal(t, "100", merged.Lines.Extension)
				assert.Equal(t, base.Lines.PeerPrefix, merged.Lines.PeerPrefix)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, mergeConfigs(base, tt.overlay))
		})
	}
}
