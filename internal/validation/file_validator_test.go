package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileValidator_ValidateInputDirectory(t *testing.T) {
	tests := []struct {
		name            string
		setupFunc       func(t *testing.T) string
		requiredPattern string
		wantErr         bool
		errorContains   string
	}{
		{
			name: "valid directory with files",
			setupFunc: func(t *testing.T) string {
				dir := t.TempDir()
				file := filepath.Join(dir, "ledger.xlsx")
				require.NoError(t, os.WriteFile(file, []byte("test"), 0644))
				return dir
			},
			requiredPattern: "*.xlsx",
			wantErr:         false,
		},
		{
			name: "valid directory without files",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
			requiredPattern: "*.xlsx",
			wantErr:         false, // No files is not an error
		},
		{
			name: "non-existent directory",
			setupFunc: func(t *testing.T) string {
				return "/non/existent/path"
			},
			requiredPattern: "",
			wantErr:         true,
			errorContains:   "does not exist",
		},
		{
			name: "path is file not directory",
			setupFunc: func(t *testing.T) string {
				dir := t.TempDir()
				file := filepath.Join(dir, "ledger.csv")
				require.NoError(t, os.WriteFile(file, []byte("test"), 0644))
				return file
			},
			requiredPattern: "",
			wantErr:         true,
			errorContains:   "not a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewFileValidator(slog.Default())
			dir := tt.setupFunc(t)

			err := validator.ValidateInputDirectory(dir, tt.requiredPattern)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		wantErr   bool
	}{
		{
			name: "existing directory",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
			wantErr: false,
		},
		{
			name: "non-existent directory (should be created)",
			setupFunc: func(t *testing.T) string {
				base := t.TempDir()
				return filepath.Join(base, "new", "nested", "dir")
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewFileValidator(slog.Default())
			dir := tt.setupFunc(t)

			err := validator.ValidateOutputDirectory(dir)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				info, err := os.Stat(dir)
				assert.NoError(t, err)
				assert.True(t, info.IsDir())
			}
		})
	}
}

func TestFileValidator_ValidateSpreadsheetFile(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		wantErr       bool
		errorContains string
	}{
		{
			name: "xlsx file",
			setupFunc: func(t *testing.T) string {
				dir := t.TempDir()
				file := filepath.Join(dir, "ledger.xlsx")
				require.NoError(t, os.WriteFile(file, []byte("test"), 0644))
				return file
			},
			wantErr: false,
		},
		{
			name: "csv file",
			setupFunc: func(t *testing.T) string {
				dir := t.TempDir()
				file := filepath.Join(dir, "ledger.csv")
				require.NoError(t, os.WriteFile(file, []byte("test"), 0644))
				return file
			},
			wantErr: false,
		},
		{
			name: "temp Excel file",
			setupFunc: func(t *testing.T) string {
				dir := t.TempDir()
				file := filepath.Join(dir, "~$ledger.xlsx")
				require.NoError(t, os.WriteFile(file, []byte("test"), 0644))
				return file
			},
			wantErr:       true,
			errorContains: "temporary",
		},
		{
			name: "unsupported extension",
			setupFunc: func(t *testing.T) string {
				dir := t.TempDir()
				file := filepath.Join(dir, "notes.txt")
				require.NoError(t, os.WriteFile(file, []byte("test"), 0644))
				return file
			},
			wantErr:       true,
			errorContains: "not a supported spreadsheet",
		},
		{
			name: "non-existent file",
			setupFunc: func(t *testing.T) string {
				return "/non/existent/ledger.xlsx"
			},
			wantErr:       true,
			errorContains: "does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewFileValidator(slog.Default())
			file := tt.setupFunc(t)

			err := validator.ValidateSpreadsheetFile(file)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_CountFiles(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		pattern   string
		wantCount int
	}{
		{
			name: "count spreadsheet files",
			setupFunc: func(t *testing.T) string {
				dir := t.TempDir()
				for i := 0; i < 3; i++ {
					file := filepath.Join(dir, fmt.Sprintf("ledger%d.xlsx", i))
					require.NoError(t, os.WriteFile(file, []byte("test"), 0644))
				}
				require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("test"), 0644))
				return dir
			},
			pattern:   "*.xlsx",
			wantCount: 3,
		},
		{
			name: "no matching files",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
			pattern:   "*.xlsx",
			wantCount: 0,
		},
		{
			name: "exclude directories",
			setupFunc: func(t *testing.T) string {
				dir := t.TempDir()
				require.NoError(t, os.WriteFile(filepath.Join(dir, "file.csv"), []byte("test"), 0644))
				require.NoError(t, os.MkdirAll(filepath.Join(dir, "subdir"), 0755))
				return dir
			},
			pattern:   "*",
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewFileValidator(slog.Default())
			dir := tt.setupFunc(t)

			count, err := validator.CountFiles(dir, tt.pattern)

			assert.NoError(t, err)
			assert.Equal(t, tt.wantCount, count)
		})
	}
}
