package utils

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fatih/color"
)

const (
	// Log levels
	INFO = iota
	ERROR
	DEBUG
)

var (
	logMut      = sync.Mutex{}
	logFilePath = filepath.Join(
		APP_PATH,
		"logs",
		fmt.Sprintf(
			"gdrive-dl_v%s_%s.log",
			VERSION,
			time.Now().Format("2006-01-02"),
		),
	)
)

// Thread-safe logging function that logs to a dated log file in the logs directory
func LogError(err error, errorMsg string, exit bool, lvl int) {
	if err == nil && errorMsg == "" {
		return
	}

	logMut.Lock()
	defer logMut.Unlock()

	os.MkdirAll(filepath.Dir(logFilePath), 0755)
	f, fileErr := os.OpenFile(
		logFilePath,
		os.O_WRONLY|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if fileErr != nil {
		fileErr = fmt.Errorf(
			"error opening log file: %v\nlog file path: %s",
			fileErr,
			logFilePath,
		)
		log.Println(color.RedString(fileErr.Error()))
		return
	}
	defer f.Close()

	var lvlStr string
	switch lvl {
	case INFO:
		lvlStr = "INFO"
	case ERROR:
		lvlStr = "ERROR"
	case DEBUG:
		lvlStr = "DEBUG"
	default:
		lvlStr = "ERROR"
	}

	now := time.Now().Format("2006-01-02 15:04:05")
	if err != nil && errorMsg != "" {
		fmt.Fprintf(f, "%s [%s]: %v\nAdditional info: %v\n\n", now, lvlStr, err, errorMsg)
	} else if err != nil {
		fmt.Fprintf(f, "%s [%s]: %v\n\n", now, lvlStr, err)
	} else {
		fmt.Fprintf(f, "%s [%s]: %v\n\n", now, lvlStr, errorMsg)
	}

	if exit {
		if err != nil {
			color.Red(err.Error())
		} else {
			color.Red(errorMsg)
		}
		os.Exit(1)
	}
}

// Uses the thread-safe LogError() function to log a slice of errors or a channel of errors
//
// Also returns true if any of the errors were due to context.Canceled (Ctrl + C).
func LogErrors(exit bool, errChan chan error, lvl int, errs ...error) bool {
	if errChan != nil && len(errs) > 0 {
		panic(
			fmt.Sprintf(
				"error %d: cannot pass both an error channel and a slice of errors to LogErrors()",
				DEV_ERROR,
			),
		)
	}

	hasCanceled := false
	logErr := func(err error) {
		if errors.Is(err, context.Canceled) {
			hasCanceled = true
			return
		}
		LogError(err, "", exit, lvl)
	}

	if errChan != nil {
		for err := range errChan {
			logErr(err)
		}
		return hasCanceled
	}
	for _, err := range errs {
		logErr(err)
	}
	return hasCanceled
}
