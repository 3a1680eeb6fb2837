package utils

import (
	"fmt"
	"regexp"
	"strconv"
)

var FILE_SIZE_REGEX = regexp.MustCompile(`^([0-9]+)(GB|MB|KB|B)$`)

// Converts a file size string like "10MB" or "512KB" into bytes.
// Binary multiples are used (KB=1024, MB=1024^2, GB=1024^3).
func ParseFileSize(sizeStr string) (int64, error) {
	matched := FILE_SIZE_REGEX.FindStringSubmatch(sizeStr)
	if matched == nil {
		return 0, fmt.Errorf(
			"error %d: invalid file size format %q, expected something like \"10MB\"",
			INPUT_ERROR,
			sizeStr,
		)
	}

	size, err := strconv.ParseInt(matched[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf(
			"error %d: invalid file size %q, more info => %v",
			INPUT_ERROR,
			sizeStr,
			err,
		)
	}

	switch matched[2] {
	case "KB":
		size *= 1024
	case "MB":
		size *= 1024 * 1024
	case "GB":
		size *= 1024 * 1024 * 1024
	}
	return size, nil
}
