package request

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/KJHJason/GDrive-Downloader-CLI/spinner"
	"github.com/KJHJason/GDrive-Downloader-CLI/utils"
	"github.com/panjf2000/ants/v2"
)

// PART_SUFFIX is appended to the destination path while a
// transfer is in flight. The staging file is renamed to the
// final path only once all the bytes have been received.
const PART_SUFFIX = ".part"

func getFullFilePath(res *http.Response, filePath, fallbackFilename string) string {
	if filePath != "" && !isDirPath(filePath) {
		return filePath
	}

	filename := utils.GetFilenameFromHeaders(res)
	if filename == "" {
		filename = utils.GetLastPartOfUrl(res.Request.URL.String())
	}
	if filename == "" {
		filename = fallbackFilename
	}
	filename = utils.RemoveIllegalCharsInPathName(filename)

	if filePath == "" {
		return filename
	}
	return filepath.Join(filePath, filename)
}

func isDirPath(filePath string) bool {
	if info, err := os.Stat(filePath); err == nil {
		return info.IsDir()
	}
	return os.IsPathSeparator(filePath[len(filePath)-1])
}

// check if the file on disk already matches the expected content length
// so the download process can be skipped entirely
func checkIfCanSkipDl(contentLength int64, filePath string, forceOverwrite bool) bool {
	if forceOverwrite {
		return false
	}

	fileSize, err := utils.GetFileSize(filePath)
	if err != nil {
		if err != os.ErrNotExist {
			// if the error wasn't because the file does not exist,
			// then log the error and continue with the download process
			utils.LogError(err, "", false, utils.ERROR)
		}
		return false
	}

	if contentLength == -1 {
		// If the Content-Length header is absent,
		// assume any existing file with bytes in it is complete.
		return fileSize > 0
	}
	return fileSize == contentLength
}

// Probe the file's size with a HEAD request so a
// finished download can be skipped without touching the body.
func getExpectedFileSize(fileUrl string, dlOptions *DlOptions) int64 {
	headRes, err := CallRequest(
		&RequestArgs{
			Url:     fileUrl,
			Method:  "HEAD",
			Timeout: 10,
			Headers: copyHeaders(dlOptions.Headers),
			Session: dlOptions.Session,
			Context: dlOptions.Context,
		},
	)
	if err != nil {
		return -1
	}
	defer headRes.Body.Close()

	if headRes.StatusCode != 200 || utils.ResponseIsHtml(headRes) {
		return -1
	}
	return headRes.ContentLength
}

func copyHeaders(headers map[string]string) map[string]string {
	copied := make(map[string]string, len(headers))
	for key, value := range headers {
		copied[key] = value
	}
	return copied
}

func dlToWriter(ctx context.Context, res *http.Response, w io.Writer, progress *Progress, dlOptions *DlOptions, bar interface{ Add(int) error }) error {
	buf := make([]byte, utils.DOWNLOAD_CHUNK_SIZE)
	for {
		if err := ctx.Err(); err != nil {
			return context.Canceled
		}

		n, readErr := res.Body.Read(buf)
		if n > 0 {
			dlOptions.SpeedLimiter.Wait(int64(n))
			if _, writeErr := w.Write(buf[:n]); writeErr != nil {
				return fmt.Errorf(
					"error %d: failed to write downloaded bytes, more info => %v",
					utils.OS_ERROR,
					writeErr,
				)
			}
			progress.BytesReceived += int64(n)
			if bar != nil {
				bar.Add(n)
			}
		}

		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			if errors.Is(readErr, context.Canceled) {
				return context.Canceled
			}
			return fmt.Errorf(
				"error %d: failed to read the response body, more info => %v",
				utils.DOWNLOAD_ERROR,
				readErr,
			)
		}
	}
}

// DownloadUrl downloads a single file from the given URL to filePath.
//
// The bytes are staged in a .part file next to the destination and the
// staging file is renamed to the destination once the transfer finishes.
// A failed transfer leaves the staging file behind so a later run with
// resume enabled can continue from where it stopped.
//
// A filePath of "-" streams the file to stdout instead.
func DownloadUrl(filePath string, dlOptions *DlOptions, fileUrl string) (*Progress, error) {
	ctx := dlOptions.Context
	if ctx == nil {
		ctx = context.Background()
	}
	reqHandler := dlOptions.ReqHandler
	if reqHandler == nil {
		reqHandler = CallRequest
	}

	progress := &Progress{FilePath: filePath, TotalBytes: -1}
	if filePath == "-" {
		res, err := reqHandler(
			&RequestArgs{
				Url:         fileUrl,
				Method:      "GET",
				Timeout:     utils.DOWNLOAD_TIMEOUT,
				Headers:     copyHeaders(dlOptions.Headers),
				Session:     dlOptions.Session,
				CheckStatus: true,
				Context:     ctx,
			},
		)
		if err != nil {
			return progress, err
		}
		defer res.Body.Close()

		progress.TotalBytes = res.ContentLength
		return progress, dlToWriter(ctx, res, os.Stdout, progress, dlOptions, nil)
	}

	expectedSize := getExpectedFileSize(fileUrl, dlOptions)
	if filePath != "" && !isDirPath(filePath) &&
		checkIfCanSkipDl(expectedSize, filePath, dlOptions.OverwriteExistingFiles) {
		return progress, nil
	}

	// resume from the staging file if there is one
	var startOffset int64
	if dlOptions.Resume && filePath != "" && !isDirPath(filePath) {
		if partSize, err := utils.GetFileSize(filePath + PART_SUFFIX); err == nil && partSize > 0 {
			startOffset = partSize
		}
	}

	headers := copyHeaders(dlOptions.Headers)
	if startOffset > 0 {
		headers["Range"] = fmt.Sprintf("bytes=%d-", startOffset)
	}

	res, err := reqHandler(
		&RequestArgs{
			Url:     fileUrl,
			Method:  "GET",
			Timeout: utils.DOWNLOAD_TIMEOUT,
			Headers: headers,
			Session: dlOptions.Session,
			Context: ctx,
		},
	)
	if err != nil {
		return progress, err
	}
	defer res.Body.Close()

	if res.StatusCode != 200 && res.StatusCode != 206 {
		return progress, fmt.Errorf(
			"error %d: failed to download %s, status code => %s",
			utils.DOWNLOAD_ERROR,
			fileUrl,
			res.Status,
		)
	}

	// the server may ignore the Range header and
	// send the whole file again with a 200
	if startOffset > 0 && res.StatusCode != 206 {
		startOffset = 0
	}
	progress.StartOffset = startOffset
	if res.ContentLength != -1 {
		progress.TotalBytes = startOffset + res.ContentLength
	}

	filePath = getFullFilePath(res, filePath, dlOptions.FallbackFilename)
	progress.FilePath = filePath
	os.MkdirAll(filepath.Dir(filePath), 0755)

	partPath := filePath + PART_SUFFIX
	fileFlags := os.O_WRONLY | os.O_CREATE
	if startOffset > 0 {
		fileFlags |= os.O_APPEND
	} else {
		fileFlags |= os.O_TRUNC
	}
	file, err := os.OpenFile(partPath, fileFlags, 0644)
	if err != nil {
		return progress, fmt.Errorf(
			"error %d: failed to create file, more info => %v\nfile path: %s",
			utils.OS_ERROR,
			err,
			partPath,
		)
	}

	var bar interface{ Add(int) error }
	if dlOptions.ShowProgress {
		bar = utils.GetDlProgressBar(
			filepath.Base(filePath),
			progress.TotalBytes,
			startOffset,
		)
	}

	if err := dlToWriter(ctx, res, file, progress, dlOptions, bar); err != nil {
		// keep the staging file so the download can be resumed later
		file.Close()
		return progress, err
	}
	file.Close()

	if progress.TotalBytes != -1 && startOffset+progress.BytesReceived != progress.TotalBytes {
		return progress, fmt.Errorf(
			"error %d: incomplete download of %s, received %d out of %d bytes",
			utils.DOWNLOAD_ERROR,
			fileUrl,
			startOffset+progress.BytesReceived,
			progress.TotalBytes,
		)
	}

	if err := os.Rename(partPath, filePath); err != nil {
		return progress, fmt.Errorf(
			"error %d: failed to move %s to %s, more info => %v",
			utils.OS_ERROR,
			partPath,
			filePath,
			err,
		)
	}
	return progress, nil
}

// DownloadUrls downloads multiple files concurrently using a worker
// pool and reports the errors that occurred. Returns true when the
// downloads were cancelled by the user.
func DownloadUrls(urlInfoSlice []*ToDownload, dlOptions *DlOptions) bool {
	urlsLen := len(urlInfoSlice)
	if urlsLen == 0 {
		return false
	}
	maxConcurrency := dlOptions.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = utils.MAX_CONCURRENT_DOWNLOADS
	}
	if urlsLen < maxConcurrency {
		maxConcurrency = urlsLen
	}
	if maxConcurrency > 1 {
		// per file progress bars would garble each
		// other's output when printed concurrently
		dlOptions.ShowProgress = false
	}

	pool, err := ants.NewPool(maxConcurrency)
	if err != nil {
		panic(
			fmt.Errorf(
				"error %d: unable to create worker pool, more info => %v",
				utils.DEV_ERROR,
				err,
			),
		)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	errChan := make(chan error, urlsLen)

	baseMsg := "Downloading files [%d/" + fmt.Sprintf("%d]...", urlsLen)
	progress := spinner.New(
		"dots",
		"yellow",
		fmt.Sprintf(baseMsg, 0),
		fmt.Sprintf("Finished downloading %d files", urlsLen),
		fmt.Sprintf(
			"Something went wrong while downloading %d files.\nPlease refer to the logs for more details.",
			urlsLen,
		),
		urlsLen,
	)
	if !dlOptions.ShowProgress {
		progress.Start()
	}

	for _, urlInfo := range urlInfoSlice {
		wg.Add(1)
		fileUrl, filePath := urlInfo.Url, urlInfo.FilePath
		pool.Submit(func() {
			defer wg.Done()
			_, err := DownloadUrl(filePath, dlOptions, fileUrl)
			if err != nil {
				errChan <- err
			}
			if err != context.Canceled && !dlOptions.ShowProgress {
				progress.MsgIncrement(baseMsg)
			}
		})
	}
	wg.Wait()
	close(errChan)

	hasErr := false
	var hasCanceled bool
	if len(errChan) > 0 {
		hasErr = true
		hasCanceled = utils.LogErrors(false, errChan, utils.ERROR)
	}
	if !dlOptions.ShowProgress {
		if hasCanceled {
			progress.KillProgram(
				"Stopped downloading files (incomplete downloads can be resumed later)...",
			)
		}
		progress.Stop(hasErr)
	}
	return hasCanceled
}
