package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManagerConf = `
[general]
enabled = yes
port = 5038
bindaddr = 0.0.0.0

[admin]
secret = changeme ; please do
read = all
write = all

[dialer](ami_template)
secret=s3cr3t
read = call,command
`

func mockManagerConf(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manager.conf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	original := managerConfPath
	t.Cleanup(func() { managerConfPath = original })
	managerConfPath = path
}

func TestDetectManagerSecret(t *testing.T) {
	mockManagerConf(t, sampleManagerConf)

	tests := []struct {
		name     string
		username string
		want     string
		wantErr  bool
	}{
		{"plain section", "admin", "changeme", false},
		{"templated section, no spaces", "dialer", "s3cr3t", false},
		{"unknown user", "nobody", "", true},
		{"general has no secret", "general", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secret, err := DetectManagerSecret(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, secret)
		})
	}
}

func TestDetectManagerSecret_MissingFile(t *testing.T) {
	original := managerConfPath
	t.Cleanup(func() { managerConfPath = original })
	managerConfPath = filepath.Join(t.TempDir(), "does-not-exist.conf")

	_, err := DetectManagerSecret("admin")
	assert.Error(t, err)
}
