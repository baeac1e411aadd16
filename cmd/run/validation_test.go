package run

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRunArgs(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "df_h.txt")
	assert.NoError(t, os.WriteFile(tmpFile, []byte("Filesystem Use%\n"), 0o644))

	tests := []struct {
		name    string
		options RunOptions
		wantErr string
	}{
		{
			// valid: teardown run --fixtures /path/to/fixtures --out /path/to/docs
			name:    "Valid fixtures and output",
			options: RunOptions{FixturesDir: tmpDir, OutputDir: filepath.Join(tmpDir, "docs"), Title: "Report"},
		},
		{
			name:    "Missing fixtures flag",
			options: RunOptions{OutputDir: tmpDir, Title: "Report"},
			wantErr: "the 'fixtures' flag must be specified",
		},
		{
			name:    "Missing out flag",
			options: RunOptions{FixturesDir: tmpDir, Title: "Report"},
			wantErr: "the 'out' flag must be specified",
		},
		{
			name:    "Fixtures path does not exist",
			options: RunOptions{FixturesDir: filepath.Join(tmpDir, "missing"), OutputDir: tmpDir, Title: "Report"},
			wantErr: "invalid fixtures directory",
		},
		{
			name:    "Fixtures path is a file",
			options: RunOptions{FixturesDir: tmpFile, OutputDir: tmpDir, Title: "Report"},
			wantErr: "is not a directory",
		},
		{
			name:    "Blank title",
			options: RunOptions{FixturesDir: tmpDir, OutputDir: tmpDir, Title: "  "},
			wantErr: "the report title must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.options
			err := validateRunArgs(&opts)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
