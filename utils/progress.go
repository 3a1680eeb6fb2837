package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Returns a byte progress bar for a single file transfer.
//
// totalBytes of -1 renders a spinner-style bar for
// transfers with an unknown Content-Length.
func GetDlProgressBar(filename string, totalBytes, startOffset int64) *progressbar.ProgressBar {
	bar := progressbar.NewOptions64(
		totalBytes,
		progressbar.OptionSetDescription(
			fmt.Sprintf("Downloading %s...", filename),
		),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(25),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
	)
	if startOffset > 0 {
		// resumed transfer, fast-forward to the already saved bytes
		bar.Add64(startOffset)
	}
	return bar
}
