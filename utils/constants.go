package utils

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	VERSION  = "1.0.0"
	APP_NAME = "gdrive-dl"
)

// Error codes used in the error messages across the program
const (
	DEV_ERROR = iota + 1000
	UNEXPECTED_ERROR
	OS_ERROR
	INPUT_ERROR
	CONNECTION_ERROR
	RESPONSE_ERROR
	DOWNLOAD_ERROR
	JSON_ERROR
	HTML_ERROR
)

const (
	DOWNLOAD_TIMEOUT = 900 // in seconds (15 minutes)

	// Size of each chunk written to disk before the
	// progress and the speed limiter are updated
	DOWNLOAD_CHUNK_SIZE = 512 * 1024

	MAX_CONCURRENT_DOWNLOADS = 5

	// Maximum number of entries to visit when
	// traversing a shared folder without the cap override
	MAX_FOLDER_ENTRIES = 50
)

func GetUserAgent() string {
	userAgent := map[string]string{
		"linux":  "Mozilla/5.0 (X11; Linux x86_64)",
		"darwin": "Mozilla/5.0 (Macintosh; Intel Mac OS X 12_6)",
	}
	userAgentOS := userAgent[runtime.GOOS]
	if userAgentOS == "" {
		userAgentOS = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"
	}
	return userAgentOS + " AppleWebKit/537.36 (KHTML, like Gecko) Chrome/106.0.0.0 Safari/537.36"
}

func GetAppPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic("failed to get user home directory: " + err.Error())
	}
	appDir := map[string]string{
		"windows": "AppData/Roaming/GDrive-Downloader",
		"linux":   ".config/GDrive-Downloader",
		"darwin":  "Library/Preferences/GDrive-Downloader",
	}
	appDirOS := appDir[runtime.GOOS]
	if appDirOS == "" {
		appDirOS = ".config/GDrive-Downloader"
	}
	return filepath.Join(homeDir, appDirOS)
}

// Returns the path to the persisted Netscape cookie file,
// ~/.cache/gdrive-dl/cookies.txt on most systems.
func GetCookieFilePath() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(GetAppPath(), "cookies.txt")
	}
	return filepath.Join(cacheDir, APP_NAME, "cookies.txt")
}

var (
	USER_AGENT = GetUserAgent()
	APP_PATH   = GetAppPath()
)
