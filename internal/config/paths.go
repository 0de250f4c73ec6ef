package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Paths contains all the application paths.
// This is the single source of truth for file locations: everything
// is resolved relative to the executable directory, never the current
// working directory.
type Paths struct {
	ExecutableDir string
	DataDir       string
	UploadsDir    string
	ReportsDir    string
	LogsDir       string

	// Google service account credentials for the Sheets reader.
	CredentialsFile string
}

// GetPaths returns the application paths relative to the executable
// location.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	exeDir := filepath.Dir(exe)

	// Directory structure:
	// dist/
	//   ├── credentials.json
	//   ├── data/
	//   │   ├── uploads/   (spreadsheets received for analysis)
	//   │   └── reports/   (exported CSV and JSON reports)
	//   └── logs/
	dataDir := filepath.Join(exeDir, "data")

	return &Paths{
		ExecutableDir:   exeDir,
		DataDir:         dataDir,
		UploadsDir:      filepath.Join(dataDir, "uploads"),
		ReportsDir:      filepath.Join(dataDir, "reports"),
		LogsDir:         filepath.Join(exeDir, "logs"),
		CredentialsFile: filepath.Join(exeDir, "credentials.json"),
	}, nil
}

// EnsureDirectories creates all required directories if they don't
// exist.
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.UploadsDir,
		p.ReportsDir,
		p.LogsDir,
	}

	logger := slog.Default()
	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// GetUploadPath returns the path for an uploaded spreadsheet
func (p *Paths) GetUploadPath(filename string) string {
	return filepath.Join(p.UploadsDir, filename)
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetCredentialsPath returns the path for the Google Sheets
// credentials file.
func (p *Paths) GetCredentialsPath() string {
	path := p.CredentialsFile
	slog.Default().Debug("Credentials path resolved",
		slog.String("path", path),
		slog.Bool("exists", FileExists(path)))
	return path
}

// GetSnapshotJSONPath returns the path for a dated snapshot report
// (e.g., costpulse_snapshot_20240115.json).
func (p *Paths) GetSnapshotJSONPath(date time.Time) string {
	filename := fmt.Sprintf("costpulse_snapshot_%s.json", date.Format("20060102"))
	return filepath.Join(p.ReportsDir, filename)
}

// GetTransactionsCSVPath returns the path for a dated transactions
// export (e.g., costpulse_transactions_20240115.csv).
func (p *Paths) GetTransactionsCSVPath(date time.Time) string {
	filename := fmt.Sprintf("costpulse_transactions_%s.csv", date.Format("20060102"))
	return filepath.Join(p.ReportsDir, filename)
}
