package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/culinaryai/culinaryai/pkg/models"
)

// ListDatasets describes every file in the data directory. A missing
// directory is a valid empty state, not an error.
func ListDatasets(dataDir string) ([]models.DatasetInfo, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var datasets []models.DatasetInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		fileType := "unknown"
		if ext := filepath.Ext(entry.Name()); ext != "" {
			fileType = strings.ToLower(strings.TrimPrefix(ext, "."))
		}

		datasets = append(datasets, models.DatasetInfo{
			Name: entry.Name(),
			Type: fileType,
			Size: fmt.Sprintf("%.2f MB", float64(info.Size())/(1024*1024)),
		})
	}

	return datasets, nil
}
