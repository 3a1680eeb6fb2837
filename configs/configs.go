package configs

import (
	"fmt"
	"os"

	"github.com/KJHJason/GDrive-Downloader-CLI/utils"
)

type Config struct {
	// DownloadPath will be used as the base path for all downloads
	DownloadPath string

	// OverwriteFiles is a flag to overwrite existing files
	// If false, the download process will resume or skip the
	// file depending on what is already saved on disk
	OverwriteFiles bool

	// UserAgent is the user agent to be used in the download process
	UserAgent string

	// Quiet suppresses the progress output on stderr
	Quiet bool

	// Notify sends a desktop notification once the downloads are done
	Notify bool

	// ExtractFiles extracts downloaded archive files to
	// a directory of the same name after the download
	ExtractFiles bool

	// LogUrls logs the download URLs of
	// the detected files to a text file
	LogUrls bool
}

// Validates the download path. An empty path means the
// current working directory and is always valid.
func (c *Config) ValidateDownloadPath() error {
	if c.DownloadPath == "" || c.DownloadPath == "-" {
		return nil
	}
	if info, err := os.Stat(c.DownloadPath); err == nil && !info.IsDir() {
		return fmt.Errorf(
			"error %d: download path %s is not a directory",
			utils.INPUT_ERROR,
			c.DownloadPath,
		)
	}
	return nil
}
