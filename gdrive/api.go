package gdrive

import (
	"context"
	"errors"
	"fmt"

	"github.com/KJHJason/GDrive-Downloader-CLI/gdrive/models"
	"github.com/KJHJason/GDrive-Downloader-CLI/utils"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	GDRIVE_API_URL = "https://www.googleapis.com/drive/v3/files"

	// file fields to fetch from GDrive API:
	// https://developers.google.com/drive/api/v3/reference/files
	GDRIVE_FILE_FIELDS = "id,name,size,mimeType,md5Checksum"
)

func (gdrive *GDrive) getApiService(ctx context.Context) (*drive.Service, error) {
	srv, err := drive.NewService(
		ctx,
		option.WithAPIKey(gdrive.apiKey),
		option.WithUserAgent(gdrive.session.UserAgent),
	)
	if err != nil {
		return nil, fmt.Errorf(
			"gdrive error %d: unable to initialise the Drive API client, more info => %v",
			utils.UNEXPECTED_ERROR,
			err,
		)
	}
	return srv, nil
}

func mapApiErr(fileId string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == 403 || apiErr.Code == 404) {
		return &FileURLRetrievalError{
			FileId: fileId,
			Reason: fmt.Sprintf("the Drive API returned %d (%s)", apiErr.Code, apiErr.Message),
		}
	}
	return fmt.Errorf(
		"gdrive error %d: Drive API call for %s failed, more info => %v",
		utils.CONNECTION_ERROR,
		fileId,
		err,
	)
}

// GetFileDetails retrieves the file details of the
// given file using GDrive API v3
func (gdrive *GDrive) GetFileDetails(ctx context.Context, fileId string) (*models.GDriveFile, error) {
	srv, err := gdrive.getApiService(ctx)
	if err != nil {
		return nil, err
	}

	file, err := srv.Files.Get(fileId).
		Fields(googleapi.Field(GDRIVE_FILE_FIELDS)).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, mapApiErr(fileId, err)
	}
	return &models.GDriveFile{
		Id:          file.Id,
		Name:        file.Name,
		Size:        file.Size,
		MimeType:    file.MimeType,
		Md5Checksum: file.Md5Checksum,
	}, nil
}

// Lists the direct children of the given folder using GDrive API v3
func listFolderViaApi(ctx context.Context, srv *drive.Service, folderId string) ([]*models.FolderNode, error) {
	var children []*models.FolderNode
	pageToken := ""
	for {
		call := srv.Files.List().
			Q(fmt.Sprintf("'%s' in parents", folderId)).
			Fields(googleapi.Field(fmt.Sprintf("nextPageToken,files(%s)", GDRIVE_FILE_FIELDS))).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		fileList, err := call.Do()
		if err != nil {
			return nil, mapApiErr(folderId, err)
		}
		for _, file := range fileList.Files {
			children = append(children, &models.FolderNode{
				Id:       file.Id,
				Name:     file.Name,
				MimeType: file.MimeType,
			})
		}

		if fileList.NextPageToken == "" {
			return children, nil
		}
		pageToken = fileList.NextPageToken
	}
}

// Retrieves the content of a folder and its
// subfolders recursively using GDrive API v3
func (gdrive *GDrive) getFolderContentsViaApi(ctx context.Context, folderId string) (*models.FolderNode, error) {
	srv, err := gdrive.getApiService(ctx)
	if err != nil {
		return nil, err
	}

	folder, err := srv.Files.Get(folderId).
		Fields("id,name,mimeType").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, mapApiErr(folderId, err)
	}

	root := &models.FolderNode{
		Id:       folder.Id,
		Name:     folder.Name,
		MimeType: folder.MimeType,
	}
	return root, gdrive.fillFolderViaApi(ctx, srv, root)
}

func (gdrive *GDrive) fillFolderViaApi(ctx context.Context, srv *drive.Service, node *models.FolderNode) error {
	children, err := listFolderViaApi(ctx, srv, node.Id)
	if err != nil {
		return err
	}

	node.Children = children
	for _, child := range children {
		if child.IsFolder() {
			if err := gdrive.fillFolderViaApi(ctx, srv, child); err != nil {
				return err
			}
		}
	}
	return nil
}
