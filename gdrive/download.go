package gdrive

import (
	"context"
	"fmt"

	"github.com/KJHJason/GDrive-Downloader-CLI/gdrive/models"
	"github.com/KJHJason/GDrive-Downloader-CLI/request"
	"github.com/KJHJason/GDrive-Downloader-CLI/utils"
)

// Returns the full URL, query included, to request the
// raw bytes of the given resource from.
func (gdrive *GDrive) getFileDownloadUrl(ref *models.ResourceRef, format string) string {
	if gdrive.apiKey != "" && ref.Kind != models.KindDocument {
		return fmt.Sprintf(
			"%s/%s?alt=media&key=%s",
			GDRIVE_API_URL,
			ref.Id,
			gdrive.apiKey,
		)
	}

	downloadUrl := GetDownloadUrl(ref)
	if params := GetExportParams(ref, format); params != nil {
		downloadUrl += "?format=" + params["format"]
	}
	return downloadUrl
}

func (gdrive *GDrive) getDlOptions(ctx context.Context, reqHandler request.RequestHandler) *request.DlOptions {
	return &request.DlOptions{
		MaxConcurrency:         gdrive.maxDlWorkers,
		Session:                gdrive.session,
		OverwriteExistingFiles: gdrive.config.OverwriteFiles,
		Resume:                 gdrive.resume,
		SpeedLimiter:           gdrive.speedLimiter,
		ShowProgress:           !gdrive.config.Quiet,
		ReqHandler:             reqHandler,
		Context:                ctx,
	}
}

// DownloadFile downloads a single file or document to filePath.
//
// filePath can be an existing directory, in which case the filename
// reported by the server is used, or "-" to stream to stdout.
// Returns how many bytes were transferred.
func (gdrive *GDrive) DownloadFile(ctx context.Context, ref *models.ResourceRef, filePath, format string) (*request.Progress, error) {
	if ref.Kind == models.KindFolder {
		panic(
			fmt.Errorf(
				"error %d: DownloadFile called with a folder reference",
				utils.DEV_ERROR,
			),
		)
	}

	var reqHandler request.RequestHandler
	if gdrive.apiKey == "" || ref.Kind == models.KindDocument {
		// the public endpoints may serve a confirmation
		// interstitial, the API endpoint never does
		reqHandler = gdrive.NegotiateHandler(ref.Id)
	}

	fileUrl := gdrive.getFileDownloadUrl(ref, format)
	if filePath == "" {
		filePath = gdrive.config.DownloadPath
	}

	dlOptions := gdrive.getDlOptions(ctx, reqHandler)
	dlOptions.FallbackFilename = ref.Id

	progress, err := request.DownloadUrl(filePath, dlOptions, fileUrl)
	if err != nil && err != context.Canceled {
		err = fmt.Errorf(
			"gdrive error %d: failed to download file %s, more info => %w",
			utils.DOWNLOAD_ERROR,
			ref.Id,
			err,
		)
	}
	return progress, err
}
