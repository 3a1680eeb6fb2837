package configs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KJHJason/GDrive-Downloader-CLI/utils"
)

// appConfig is persisted as config.json under the app directory
type appConfig struct {
	DownloadPath string `json:"download_path"`
}

func appConfigPath() string {
	return filepath.Join(utils.APP_PATH, "config.json")
}

// GetDefaultDownloadPath returns the saved default download path.
// An empty string means no default was saved or the saved path no
// longer exists, in which case the current working directory is used.
func GetDefaultDownloadPath() string {
	data, err := os.ReadFile(appConfigPath())
	if err != nil {
		return ""
	}

	var saved appConfig
	if err := json.Unmarshal(data, &saved); err != nil {
		return ""
	}
	if !utils.PathExists(saved.DownloadPath) {
		return ""
	}
	return saved.DownloadPath
}

// SetDefaultDownloadPath persists the given directory as the
// default download path for future runs.
func SetDefaultDownloadPath(downloadPath string) error {
	if info, err := os.Stat(downloadPath); err != nil || !info.IsDir() {
		return fmt.Errorf(
			"error %d: %s is not an existing directory",
			utils.INPUT_ERROR,
			downloadPath,
		)
	}

	data, err := json.MarshalIndent(&appConfig{DownloadPath: downloadPath}, "", "    ")
	if err != nil {
		return fmt.Errorf(
			"error %d: unable to marshal the app config, more info => %v",
			utils.JSON_ERROR,
			err,
		)
	}

	os.MkdirAll(utils.APP_PATH, 0755)
	if err := os.WriteFile(appConfigPath(), data, 0644); err != nil {
		return fmt.Errorf(
			"error %d: unable to save the app config, more info => %v",
			utils.OS_ERROR,
			err,
		)
	}
	return nil
}
