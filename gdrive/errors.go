package gdrive

import (
	"fmt"

	"github.com/KJHJason/GDrive-Downloader-CLI/utils"
)

// ResolutionError occurs when no file or folder ID
// could be derived from the user's input.
type ResolutionError struct {
	Input string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf(
		"gdrive error %d: unable to derive a file or folder ID from %q",
		utils.INPUT_ERROR,
		e.Input,
	)
}

// FileURLRetrievalError occurs when the direct download URL of a
// file could not be obtained, e.g. when the file requires permission,
// has had its download quota exceeded, or the confirmation page
// could not be resolved.
type FileURLRetrievalError struct {
	FileId string
	Reason string
}

func (e *FileURLRetrievalError) Error() string {
	return fmt.Sprintf(
		"gdrive error %d: cannot retrieve the download URL of file %s, %s\n"+
			"You may still be able to access the file from the browser:\n"+
			"\thttps://drive.google.com/uc?id=%s",
		utils.RESPONSE_ERROR,
		e.FileId,
		e.Reason,
		e.FileId,
	)
}

// FolderContentsMaximumLimitError occurs when a folder holds more
// files than can be fetched without the Drive API.
type FolderContentsMaximumLimitError struct {
	FolderId string
	Limit    int
}

func (e *FolderContentsMaximumLimitError) Error() string {
	return fmt.Sprintf(
		"gdrive error %d: the folder %s has more than %d files and cannot be "+
			"fetched completely without an API key, "+
			"use an API key or allow a partial download",
		utils.RESPONSE_ERROR,
		e.FolderId,
		e.Limit,
	)
}
