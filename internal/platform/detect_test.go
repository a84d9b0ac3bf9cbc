package platform

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultModelDirFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		goos        string
		homeDir     string
		xdgDataHome string
		appData     string
		want        string
		wantErr     bool
	}{
		{
			name:    "linux without xdg",
			goos:    "linux",
			homeDir: "/home/eva",
			want:    filepath.Join("/home/eva", ".local", "share", "polyglot", "models"),
		},
		{
			name:        "linux with xdg",
			goos:        "linux",
			homeDir:     "/home/eva",
			xdgDataHome: "/data",
			want:        filepath.Join("/data", "polyglot", "models"),
		},
		{
			name:    "darwin",
			goos:    "darwin",
			homeDir: "/Users/eva",
			want:    filepath.Join("/Users/eva", "Library", "Application Support", "polyglot", "models"),
		},
		{
			name:    "windows",
			goos:    "windows",
			appData: `C:\Users\eva\AppData\Roaming`,
			want:    filepath.Join(`C:\Users\eva\AppData\Roaming`, "polyglot", "models"),
		},
		{
			name:    "windows without appdata",
			goos:    "windows",
			wantErr: true,
		},
		{
			name:    "linux without home",
			goos:    "linux",
			wantErr: true,
		},
		{
			name:    "unsupported",
			goos:    "plan9",
			homeDir: "/home/eva",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := DefaultModelDirFor(tt.goos, tt.homeDir, tt.xdgDataHome, tt.appData)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolveModelDirHonorsOverride(t *testing.T) {
	t.Parallel()

	got, err := ResolveModelDir("/opt/models/./whisper")
	require.NoError(t, err)
	require.Equal(t, filepath.Clean("/opt/models/whisper"), got)
}
