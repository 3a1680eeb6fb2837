package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/fatih/color"
)

var ILLEGAL_PATH_CHARS_REGEX = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// checks if a file or directory exists
func PathExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}

// Returns the file size based on the provided file path
//
// If the file does not exist or
// there was an error opening the file at the given file path string, -1 is returned
func GetFileSize(filePath string) (int64, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return -1, os.ErrNotExist
		}
		return -1, err
	}
	return fileInfo.Size(), nil
}

// Removes any illegal characters in a path name
// to prevent any error with file I/O using the path name
func RemoveIllegalCharsInPathName(dirtyPathName string) string {
	dirtyPathName = strings.TrimSpace(dirtyPathName)
	return ILLEGAL_PATH_CHARS_REGEX.ReplaceAllString(dirtyPathName, "-")
}

var logToPathMutex = sync.Mutex{}

// Thread-safe logging function that logs to the provided file path
func LogMessageToPath(message, filePath string) {
	logToPathMutex.Lock()
	defer logToPathMutex.Unlock()

	os.MkdirAll(filepath.Dir(filePath), 0755)
	logFile, err := os.OpenFile(
		filePath,
		os.O_WRONLY|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		errMsg := fmt.Sprintf(
			"error %d: failed to open log file, more info => %v\nfile path: %s\noriginal message: %s",
			OS_ERROR,
			err,
			filePath,
			message,
		)
		color.Red(errMsg)
		return
	}
	defer logFile.Close()

	if _, err = logFile.WriteString(message); err != nil {
		errMsg := fmt.Sprintf(
			"error %d: failed to write to log file, more info => %v\nfile path: %s\noriginal message: %s",
			OS_ERROR,
			err,
			filePath,
			message,
		)
		color.Red(errMsg)
	}
}

// Combines the given strings with a newline between each string
func CombineStringsWithNewline(strs []string) string {
	return strings.Join(strs, "\n")
}
