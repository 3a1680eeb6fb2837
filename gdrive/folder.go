package gdrive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/KJHJason/GDrive-Downloader-CLI/gdrive/models"
	"github.com/KJHJason/GDrive-Downloader-CLI/request"
	"github.com/KJHJason/GDrive-Downloader-CLI/utils"
	"github.com/PuerkitoBio/goquery"
)

const FOLDER_TITLE_SUFFIX = " - Google Drive"

// Decodes the JavaScript string literal escapes used in the
// folder page's embedded listing. \xNN escapes are raw bytes
// of the UTF-8 encoded payload.
func decodeJsString(encoded string) (string, error) {
	var sb strings.Builder
	for i := 0; i < len(encoded); {
		if encoded[i] != '\\' {
			sb.WriteByte(encoded[i])
			i++
			continue
		}
		if i+1 >= len(encoded) {
			return "", fmt.Errorf("trailing backslash")
		}

		switch encoded[i+1] {
		case 'x':
			if i+4 > len(encoded) {
				return "", fmt.Errorf("truncated \\x escape")
			}
			b, err := strconv.ParseUint(encoded[i+2:i+4], 16, 8)
			if err != nil {
				return "", err
			}
			sb.WriteByte(byte(b))
			i += 4
		case 'u':
			if i+6 > len(encoded) {
				return "", fmt.Errorf("truncated \\u escape")
			}
			r, err := strconv.ParseUint(encoded[i+2:i+6], 16, 32)
			if err != nil {
				return "", err
			}
			i += 6

			decoded := rune(r)
			// characters outside the BMP arrive as UTF-16 surrogate
			// pairs spread over two consecutive \u escapes
			if utf16.IsSurrogate(decoded) && i+6 <= len(encoded) &&
				encoded[i] == '\\' && encoded[i+1] == 'u' {
				if low, lowErr := strconv.ParseUint(encoded[i+2:i+6], 16, 32); lowErr == nil {
					if combined := utf16.DecodeRune(decoded, rune(low)); combined != utf8.RuneError {
						decoded = combined
						i += 6
					}
				}
			}
			sb.WriteRune(decoded)
		case 'n':
			sb.WriteByte('\n')
			i += 2
		case 't':
			sb.WriteByte('\t')
			i += 2
		case 'r':
			sb.WriteByte('\r')
			i += 2
		default:
			sb.WriteByte(encoded[i+1])
			i += 2
		}
	}
	return sb.String(), nil
}

func folderListingErr(folderId string, err error) error {
	return fmt.Errorf(
		"gdrive error %d: unable to parse the listing of folder %s, more info => %v",
		utils.HTML_ERROR,
		folderId,
		err,
	)
}

// Parses the folder page's embedded listing into child nodes.
//
// The listing is a JSON array hidden in a script tag as an escaped
// JavaScript string. Each entry is itself an array where index 0 is
// the ID, index 2 the name and index 3 the MIME type. Anything that
// does not match that shape fails the whole listing rather than
// being silently skipped.
func parseFolderListing(doc *goquery.Document, folderId string) ([]*models.FolderNode, error) {
	var encoded string
	doc.Find("script").EachWithBreak(func(i int, s *goquery.Selection) bool {
		scriptText := s.Text()
		if !strings.Contains(scriptText, "_DRIVE_ivd") {
			return true
		}
		// the first quoted string is the _DRIVE_ivd key itself,
		// the second is the escaped listing payload
		if matches := DRIVE_IVD_REGEX.FindAllStringSubmatch(scriptText, 2); len(matches) == 2 {
			encoded = matches[1][1]
			return false
		}
		return true
	})
	if encoded == "" {
		return nil, folderListingErr(folderId, fmt.Errorf("no embedded listing found"))
	}

	decoded, err := decodeJsString(encoded)
	if err != nil {
		return nil, folderListingErr(folderId, err)
	}

	var listing []json.RawMessage
	if err := json.Unmarshal([]byte(decoded), &listing); err != nil {
		return nil, folderListingErr(folderId, err)
	}
	if len(listing) == 0 {
		return nil, folderListingErr(folderId, fmt.Errorf("empty listing"))
	}
	if string(listing[0]) == "null" {
		// an empty folder
		return nil, nil
	}

	var rawEntries []json.RawMessage
	if err := json.Unmarshal(listing[0], &rawEntries); err != nil {
		return nil, folderListingErr(folderId, err)
	}

	var children []*models.FolderNode
	for _, rawEntry := range rawEntries {
		var entry []json.RawMessage
		if err := json.Unmarshal(rawEntry, &entry); err != nil {
			return nil, folderListingErr(folderId, err)
		}
		if len(entry) < 4 {
			return nil, folderListingErr(
				folderId,
				fmt.Errorf("unexpected entry of length %d", len(entry)),
			)
		}

		var id, name, mimeType string
		if err := json.Unmarshal(entry[0], &id); err != nil {
			return nil, folderListingErr(folderId, err)
		}
		if err := json.Unmarshal(entry[2], &name); err != nil {
			return nil, folderListingErr(folderId, err)
		}
		if err := json.Unmarshal(entry[3], &mimeType); err != nil {
			return nil, folderListingErr(folderId, err)
		}
		children = append(children, &models.FolderNode{
			Id:       id,
			Name:     name,
			MimeType: mimeType,
		})
	}
	return children, nil
}

var DRIVE_IVD_REGEX = regexp.MustCompile(`'((?:[^'\\]|\\.)*)'`)

// Fetches a single folder page and returns the folder's
// name together with its direct children.
func (gdrive *GDrive) getFolderPage(ctx context.Context, folderId string) (string, []*models.FolderNode, error) {
	res, err := request.CallRequest(
		&request.RequestArgs{
			Url:         fmt.Sprintf("%s/%s", GDRIVE_FOLDER_URL, folderId),
			Method:      "GET",
			Timeout:     15,
			Session:     gdrive.session,
			CheckStatus: true,
			Context:     ctx,
		},
	)
	if err != nil {
		return "", nil, fmt.Errorf(
			"gdrive error %d: failed to fetch folder %s, more info => %w",
			utils.CONNECTION_ERROR,
			folderId,
			err,
		)
	}
	defer res.Body.Close()

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return "", nil, folderListingErr(folderId, err)
	}

	name := strings.TrimSuffix(doc.Find("title").Text(), FOLDER_TITLE_SUFFIX)
	children, err := parseFolderListing(doc, folderId)
	if err != nil {
		return "", nil, err
	}
	return name, children, nil
}

// Builds the folder tree depth first. The file counter is shared
// across the whole traversal so deeply nested folders cannot
// sneak past the listing limit.
func (gdrive *GDrive) buildFolderTree(ctx context.Context, folderId string, fileCount *int) (*models.FolderNode, error) {
	name, children, err := gdrive.getFolderPage(ctx, folderId)
	if err != nil {
		return nil, err
	}

	node := &models.FolderNode{
		Id:       folderId,
		Name:     name,
		MimeType: models.FolderMimeType,
	}
	for _, child := range children {
		if child.IsFolder() {
			subFolder, err := gdrive.buildFolderTree(ctx, child.Id, fileCount)
			if err != nil {
				return nil, err
			}
			subFolder.Name = child.Name
			node.Children = append(node.Children, subFolder)
			continue
		}

		if *fileCount >= gdrive.maxFolderFiles {
			if gdrive.remainingOk {
				return node, nil
			}
			return nil, &FolderContentsMaximumLimitError{
				FolderId: folderId,
				Limit:    gdrive.maxFolderFiles,
			}
		}
		*fileCount++
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// GetFolderContents returns the full tree of the given folder.
// Uses the Drive API when an API key is configured and falls
// back to scraping the folder's web listing otherwise.
func (gdrive *GDrive) GetFolderContents(ctx context.Context, folderId string) (*models.FolderNode, error) {
	if gdrive.apiKey != "" {
		return gdrive.getFolderContentsViaApi(ctx, folderId)
	}

	var fileCount int
	return gdrive.buildFolderTree(ctx, folderId, &fileCount)
}

// Walks the folder tree collecting the transfers to run and
// creating the local directories, empty folders included.
func (gdrive *GDrive) collectTransfers(node *models.FolderNode, dirPath string, transfers []*request.ToDownload) ([]*request.ToDownload, error) {
	dirPath = filepath.Join(dirPath, utils.RemoveIllegalCharsInPathName(node.Name))
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return nil, fmt.Errorf(
			"gdrive error %d: failed to create directory %s, more info => %v",
			utils.OS_ERROR,
			dirPath,
			err,
		)
	}

	for _, child := range node.Children {
		if child.IsFolder() {
			var err error
			transfers, err = gdrive.collectTransfers(child, dirPath, transfers)
			if err != nil {
				return nil, err
			}
			continue
		}

		ref := &models.ResourceRef{Kind: models.KindFile, Id: child.Id}
		transfers = append(transfers, &request.ToDownload{
			Url: gdrive.getFileDownloadUrl(ref, ""),
			FilePath: filepath.Join(
				dirPath,
				utils.RemoveIllegalCharsInPathName(child.Name),
			),
		})
	}
	return transfers, nil
}

// DownloadFolder downloads a folder and all its subfolders into
// dirPath, mirroring the folder structure on disk. Returns true
// when the downloads were cancelled by the user.
func (gdrive *GDrive) DownloadFolder(ctx context.Context, ref *models.ResourceRef, dirPath string) (bool, error) {
	folder, err := gdrive.GetFolderContents(ctx, ref.Id)
	if err != nil {
		return false, err
	}

	if dirPath == "" {
		dirPath = gdrive.config.DownloadPath
	}
	transfers, err := gdrive.collectTransfers(folder, dirPath, nil)
	if err != nil {
		return false, err
	}

	if gdrive.config.LogUrls {
		urls := make([]string, 0, len(transfers))
		for _, transfer := range transfers {
			urls = append(urls, transfer.Url)
		}
		utils.LogMessageToPath(
			utils.CombineStringsWithNewline(urls),
			filepath.Join(dirPath, "gdrive_urls.txt"),
		)
	}

	var reqHandler request.RequestHandler
	if gdrive.apiKey == "" {
		reqHandler = gdrive.NegotiateHandler("")
	}
	cancelled := request.DownloadUrls(
		transfers,
		gdrive.getDlOptions(ctx, reqHandler),
	)
	return cancelled, nil
}
