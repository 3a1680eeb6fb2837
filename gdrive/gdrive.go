package gdrive

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/KJHJason/GDrive-Downloader-CLI/configs"
	"github.com/KJHJason/GDrive-Downloader-CLI/gdrive/models"
	"github.com/KJHJason/GDrive-Downloader-CLI/request"
	"github.com/KJHJason/GDrive-Downloader-CLI/utils"
)

const BASE_API_KEY_REGEX_STR = `AIza[\w-]{35}`

// Drive endpoint URLs, vars so tests can point them at a local server
var (
	GDRIVE_URL          = "https://drive.google.com"
	GDRIVE_DOWNLOAD_URL = GDRIVE_URL + "/uc"
	GDRIVE_FOLDER_URL   = GDRIVE_URL + "/drive/folders"
	GDOCS_URL           = "https://docs.google.com"
)

var (
	API_KEY_REGEX = regexp.MustCompile(fmt.Sprintf(`^%s$`, BASE_API_KEY_REGEX_STR))

	FILE_PATH_REGEX = regexp.MustCompile(
		`^/file/(?:u/\d+/)?d/([\w-]+)`,
	)
	FOLDER_PATH_REGEX = regexp.MustCompile(
		`^/(?:drive/)?(?:u/\d+/)?folders/([\w-]+)`,
	)
	DOCS_PATH_REGEX = regexp.MustCompile(
		`^/(document|spreadsheets|presentation)/d/([\w-]+)`,
	)
	BARE_ID_REGEX = regexp.MustCompile(
		`^[\w-]{10,}$`,
	)
	FUZZY_ID_REGEX = regexp.MustCompile(
		`[\w-]{25,}`,
	)
)

type GDrive struct {
	apiKey         string // Google Drive API key, empty for the public web endpoints
	session        *request.Session
	config         *configs.Config
	maxDlWorkers   int // max concurrent workers for downloading files
	maxFolderFiles int // max number of files to fetch from a folder without an API key
	remainingOk    bool
	resume         bool
	speedLimiter   *request.SpeedLimiter
}

type GDriveArgs struct {
	ApiKey         string
	Session        *request.Session
	Config         *configs.Config
	MaxDlWorkers   int
	MaxFolderFiles int
	RemainingOk    bool
	Resume         bool
	SpeedLimiter   *request.SpeedLimiter
}

// Returns a GDrive structure for the given session and options
func GetNewGDrive(args *GDriveArgs) (*GDrive, error) {
	if args.ApiKey != "" && !API_KEY_REGEX.MatchString(args.ApiKey) {
		return nil, fmt.Errorf(
			"gdrive error %d: the provided Google Drive API key is invalid",
			utils.INPUT_ERROR,
		)
	}

	maxDlWorkers := args.MaxDlWorkers
	if maxDlWorkers <= 0 {
		maxDlWorkers = utils.MAX_CONCURRENT_DOWNLOADS
	}
	maxFolderFiles := args.MaxFolderFiles
	if maxFolderFiles <= 0 {
		maxFolderFiles = utils.MAX_FOLDER_ENTRIES
	}
	return &GDrive{
		apiKey:         args.ApiKey,
		session:        args.Session,
		config:         args.Config,
		maxDlWorkers:   maxDlWorkers,
		maxFolderFiles: maxFolderFiles,
		remainingOk:    args.RemainingOk,
		resume:         args.Resume,
		speedLimiter:   args.SpeedLimiter,
	}, nil
}

// ResolveUrlOrId resolves the user's input, which can be a full
// Google Drive URL or a bare ID, into a canonical resource reference.
//
// With fuzzy enabled, any plausible ID found anywhere
// in an unrecognised URL is accepted as a file ID.
func ResolveUrlOrId(input string, fuzzy bool) (*models.ResourceRef, error) {
	if !strings.Contains(input, "://") {
		if BARE_ID_REGEX.MatchString(input) {
			return &models.ResourceRef{
				Kind: models.KindFile,
				Id:   input,
			}, nil
		}
		return nil, &ResolutionError{Input: input}
	}

	parsedUrl, err := url.Parse(input)
	if err != nil {
		return nil, &ResolutionError{Input: input}
	}

	hostname := parsedUrl.Hostname()
	isGdrive := hostname == "drive.google.com" || hostname == "docs.google.com" ||
		hostname == "drive.usercontent.google.com"
	if isGdrive {
		if matched := FOLDER_PATH_REGEX.FindStringSubmatch(parsedUrl.Path); matched != nil {
			return &models.ResourceRef{
				Kind:      models.KindFolder,
				Id:        matched[1],
				SourceUrl: input,
			}, nil
		}
		if matched := DOCS_PATH_REGEX.FindStringSubmatch(parsedUrl.Path); matched != nil {
			return &models.ResourceRef{
				Kind:      models.KindDocument,
				Id:        matched[2],
				SourceUrl: input,
				DocType:   matched[1],
			}, nil
		}
		if matched := FILE_PATH_REGEX.FindStringSubmatch(parsedUrl.Path); matched != nil {
			return &models.ResourceRef{
				Kind:      models.KindFile,
				Id:        matched[1],
				SourceUrl: input,
			}, nil
		}
		// uc?id=..., open?id=... and similar download style links
		if id := parsedUrl.Query().Get("id"); id != "" {
			return &models.ResourceRef{
				Kind:      models.KindFile,
				Id:        id,
				SourceUrl: input,
			}, nil
		}
	}

	if fuzzy {
		if matched := FUZZY_ID_REGEX.FindString(input); matched != "" {
			return &models.ResourceRef{
				Kind:      models.KindFile,
				Id:        matched,
				SourceUrl: input,
			}, nil
		}
	}
	return nil, &ResolutionError{Input: input}
}

// Returns the URL to request the raw bytes of the given resource from
func GetDownloadUrl(ref *models.ResourceRef) string {
	if ref.Kind == models.KindDocument {
		return fmt.Sprintf(
			"%s/%s/d/%s/export",
			GDOCS_URL,
			ref.DocType,
			ref.Id,
		)
	}
	return fmt.Sprintf(
		"%s?id=%s&export=download",
		GDRIVE_DOWNLOAD_URL,
		ref.Id,
	)
}

// Default export formats for Google Workspace documents,
// matching what the Drive web UI offers first.
var docExportFormats = map[string]string{
	"document":     "docx",
	"spreadsheets": "xlsx",
	"presentation": "pptx",
}

// GetExportParams returns the query params for a document
// export request. An empty format picks the default for
// the document's type.
func GetExportParams(ref *models.ResourceRef, format string) map[string]string {
	if ref.Kind != models.KindDocument {
		return nil
	}
	if format == "" {
		format = docExportFormats[ref.DocType]
	}
	return map[string]string{"format": format}
}
