package cmds

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/KJHJason/GDrive-Downloader-CLI/configs"
	"github.com/KJHJason/GDrive-Downloader-CLI/gdrive"
	"github.com/KJHJason/GDrive-Downloader-CLI/gdrive/models"
	"github.com/KJHJason/GDrive-Downloader-CLI/request"
	"github.com/KJHJason/GDrive-Downloader-CLI/utils"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	outputPath     string
	quiet          bool
	fuzzy          bool
	asId           bool
	proxyUrl       string
	speedLimit     string
	noCookies      bool
	noCheckCert    bool
	resumeDl       bool
	forceOverwrite bool
	asFolder       bool
	remainingOk    bool
	exportFormat   string
	userAgent      string
	apiKey         string
	maxFolderFiles int
	dlWorkers      int
	extractFile    bool
	notifyUser     bool
	saveDlPath     bool

	RootCmd = &cobra.Command{
		Use: fmt.Sprintf("%s <url_or_id>", utils.APP_NAME),
		Version: fmt.Sprintf(
			"%s\n%s",
			utils.VERSION,
			"GitHub Repo: https://github.com/KJHJason/GDrive-Downloader-CLI",
		),
		Short: "Download files and folders shared publicly on Google Drive.",
		Long: "GDrive Downloader CLI is a command-line tool for downloading files, folders,\n" +
			"and Google Workspace documents from Google Drive using their public share links.",
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			run(args[0])
		},
	}
)

func exitWithErrMsg(errMsg string) {
	color.Red(errMsg)
	os.Exit(1)
}

func resolveInput(input string) *models.ResourceRef {
	var ref *models.ResourceRef
	if asId {
		ref = &models.ResourceRef{Kind: models.KindFile, Id: input}
	} else {
		var err error
		ref, err = gdrive.ResolveUrlOrId(input, fuzzy)
		if err != nil {
			exitWithErrMsg(err.Error())
		}
	}

	if asFolder && ref.Kind == models.KindFile {
		ref.Kind = models.KindFolder
	}
	return ref
}

func getSession() *request.Session {
	cookieFilePath := ""
	if !noCookies {
		cookieFilePath = utils.GetCookieFilePath()
	}

	session, err := request.NewSession(
		&request.SessionArgs{
			Proxy:          proxyUrl,
			UserAgent:      userAgent,
			SkipTlsVerify:  noCheckCert,
			CookieFilePath: cookieFilePath,
			Http3:          proxyUrl == "",
		},
	)
	if err != nil {
		exitWithErrMsg(err.Error())
	}
	return session
}

func reportDlErr(err error) {
	var fileUrlErr *gdrive.FileURLRetrievalError
	var folderLimitErr *gdrive.FolderContentsMaximumLimitError
	var proxyErr *request.ProxyError

	switch {
	case errors.Is(err, context.Canceled):
		color.Red("Download cancelled...")
		os.Exit(2)
	case errors.As(err, &fileUrlErr):
		exitWithErrMsg(fileUrlErr.Error())
	case errors.As(err, &folderLimitErr):
		exitWithErrMsg(
			fmt.Sprintf(
				"Failed to retrieve folder contents:\n\n\t%v\n\n"+
					"You can use the --remaining-ok flag to ignore this error.",
				folderLimitErr,
			),
		)
	case errors.As(err, &proxyErr):
		exitWithErrMsg(
			fmt.Sprintf(
				"Failed to use proxy:\n\n\t%v\n\nPlease check your proxy settings.",
				proxyErr,
			),
		)
	default:
		exitWithErrMsg(
			fmt.Sprintf(
				"Error:\n\n\t%v\n\n"+
					"To report issues, please visit https://github.com/KJHJason/GDrive-Downloader-CLI/issues.",
				err,
			),
		)
	}
}

func run(input string) {
	// cancel the downloads when SIGINT/SIGTERM is received
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if saveDlPath {
		if err := configs.SetDefaultDownloadPath(outputPath); err != nil {
			exitWithErrMsg(err.Error())
		}
	}

	config := &configs.Config{
		DownloadPath:   configs.GetDefaultDownloadPath(),
		OverwriteFiles: forceOverwrite,
		UserAgent:      userAgent,
		Quiet:          quiet,
		Notify:         notifyUser,
		ExtractFiles:   extractFile,
	}

	var speedLimiter *request.SpeedLimiter
	if speedLimit != "" {
		bytesPerSec, err := utils.ParseFileSize(speedLimit)
		if err != nil {
			exitWithErrMsg(err.Error())
		}
		speedLimiter = request.NewSpeedLimiter(bytesPerSec)
	}

	ref := resolveInput(input)
	if ref.Kind == models.KindFolder {
		if outputPath != "" {
			config.DownloadPath = outputPath
		}
		if err := config.ValidateDownloadPath(); err != nil {
			exitWithErrMsg(err.Error())
		}
	}

	session := getSession()
	gdriveDl, err := gdrive.GetNewGDrive(
		&gdrive.GDriveArgs{
			ApiKey:         apiKey,
			Session:        session,
			Config:         config,
			MaxDlWorkers:   dlWorkers,
			MaxFolderFiles: maxFolderFiles,
			RemainingOk:    remainingOk,
			Resume:         resumeDl,
			SpeedLimiter:   speedLimiter,
		},
	)
	if err != nil {
		exitWithErrMsg(err.Error())
	}

	if ref.Kind == models.KindFolder {
		cancelled, err := gdriveDl.DownloadFolder(ctx, ref, outputPath)
		if err != nil {
			reportDlErr(err)
		}
		if cancelled {
			color.Red("Download cancelled...")
			os.Exit(2)
		}
	} else {
		progress, err := gdriveDl.DownloadFile(ctx, ref, outputPath, exportFormat)
		if err != nil {
			reportDlErr(err)
		}
		if extractFile && progress.FilePath != "" && progress.FilePath != "-" {
			extractTo := strings.TrimSuffix(
				progress.FilePath,
				filepath.Ext(progress.FilePath),
			)
			if err := utils.ExtractFiles(ctx, progress.FilePath, extractTo); err != nil {
				utils.LogError(err, "", false, utils.ERROR)
				color.Red("Failed to extract %s, please refer to the logs for more details.", progress.FilePath)
			}
		}
	}

	if err := session.SaveCookies(); err != nil {
		utils.LogError(err, "", false, utils.ERROR)
	}
	if notifyUser {
		utils.AlertWithoutErr(utils.NotifTitle, "Your downloads have finished!")
	}
}
