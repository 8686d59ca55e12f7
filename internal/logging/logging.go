package logging

import (
	"fmt"
	"path/filepath"
	"time"
)

// LogFilePath builds the per-run log file path, e.g. forcepool.20260212_213836.log.
func LogFilePath(logsDir, program string, runStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("%s.%s.log", program, runStart.UTC().Format("20060102_150405")),
	)
}
