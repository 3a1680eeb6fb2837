package cmds

import (
	"github.com/KJHJason/GDrive-Downloader-CLI/utils"
)

func init() {
	RootCmd.Flags().StringVarP(
		&outputPath,
		"output",
		"O",
		"",
		utils.CombineStringsWithNewline(
			[]string{
				"Output file name or path. Pass in an existing directory to use",
				"the filename reported by Google Drive, or \"-\" to write the file to stdout.",
			},
		),
	)
	RootCmd.Flags().BoolVarP(
		&quiet,
		"quiet",
		"q",
		false,
		"Suppress the progress output except for errors.",
	)
	RootCmd.Flags().BoolVar(
		&fuzzy,
		"fuzzy",
		false,
		"(File only) Accept any plausible file ID found in an unrecognised URL.",
	)
	RootCmd.Flags().BoolVar(
		&asId,
		"id",
		false,
		"[DEPRECATED] Treat the argument as a file/folder ID instead of a URL.",
	)
	RootCmd.Flags().StringVar(
		&proxyUrl,
		"proxy",
		"",
		"Download using the specified proxy, e.g. <protocol://host:port>.",
	)
	RootCmd.Flags().StringVar(
		&speedLimit,
		"speed",
		"",
		"Download speed limit per second, e.g. \"10MB\" limits all transfers to 10MB/s combined.",
	)
	RootCmd.Flags().BoolVar(
		&noCookies,
		"no-cookies",
		false,
		"Don't load or save cookies from the cookies.txt file in the user's cache directory.",
	)
	RootCmd.Flags().BoolVar(
		&noCheckCert,
		"no-check-certificate",
		false,
		"Don't check the server's TLS certificate.",
	)
	RootCmd.Flags().BoolVarP(
		&resumeDl,
		"continue",
		"c",
		false,
		utils.CombineStringsWithNewline(
			[]string{
				"Resume getting partially downloaded files from their staging .part files",
				"while skipping files that have already been fully downloaded.",
			},
		),
	)
	RootCmd.Flags().BoolVar(
		&forceOverwrite,
		"overwrite",
		false,
		utils.CombineStringsWithNewline(
			[]string{
				"Re-download files even when a file of the expected",
				"size already exists at the destination.",
			},
		),
	)
	RootCmd.Flags().BoolVar(
		&asFolder,
		"folder",
		false,
		"Download an entire folder instead of a single file.",
	)
	RootCmd.Flags().BoolVar(
		&remainingOk,
		"remaining-ok",
		false,
		utils.CombineStringsWithNewline(
			[]string{
				"(Folder only) Accept a partial download when the folder",
				"holds more files than can be listed without an API key.",
			},
		),
	)
	RootCmd.Flags().StringVar(
		&exportFormat,
		"format",
		"",
		utils.CombineStringsWithNewline(
			[]string{
				"Export format for Google Docs, Spreadsheets and Slides.",
				"Defaults to \"docx\" for Docs, \"xlsx\" for Spreadsheets and \"pptx\" for Slides.",
			},
		),
	)
	RootCmd.Flags().StringVar(
		&userAgent,
		"user-agent",
		"",
		"User-Agent to use for downloading files.",
	)
	RootCmd.Flags().StringVar(
		&apiKey,
		"api-key",
		"",
		utils.CombineStringsWithNewline(
			[]string{
				"Google Drive API key to fetch file details and folder listings through",
				"the Drive API v3 instead of scraping the public web pages.",
				"Folder downloads are no longer limited to the listing cap with an API key.",
			},
		),
	)
	RootCmd.Flags().IntVar(
		&maxFolderFiles,
		"max-files",
		utils.MAX_FOLDER_ENTRIES,
		"(Folder only) Maximum number of files to fetch from a folder without an API key.",
	)
	RootCmd.Flags().IntVar(
		&dlWorkers,
		"workers",
		utils.MAX_CONCURRENT_DOWNLOADS,
		"(Folder only) Number of concurrent download workers.",
	)
	RootCmd.Flags().BoolVar(
		&extractFile,
		"extract",
		false,
		"(File only) Extract the downloaded file to a directory of the same name if it is an archive.",
	)
	RootCmd.Flags().BoolVar(
		&notifyUser,
		"notify",
		false,
		"Send a desktop notification once the downloads are done.",
	)
	RootCmd.Flags().BoolVar(
		&saveDlPath,
		"save-download-path",
		false,
		utils.CombineStringsWithNewline(
			[]string{
				"Persist the directory passed to --output as the",
				"default download path for future runs.",
			},
		),
	)
	RootCmd.MarkFlagsMutuallyExclusive("continue", "overwrite")
	RootCmd.MarkFlagsMutuallyExclusive("folder", "fuzzy")
	RootCmd.MarkFlagsMutuallyExclusive("folder", "extract")
	RootCmd.Flags().MarkDeprecated("id", "bare IDs are detected automatically")
}
