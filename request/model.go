package request

import (
	"context"
	"net/http"
)

// RequestHandler is the function used to obtain the response
// that streams a file's body. Callers can plug in their own
// handler to deal with site specific redirects or interstitial
// pages before the actual file bytes start flowing.
type RequestHandler func(reqArgs *RequestArgs) (*http.Response, error)

type ToDownload struct {
	Url      string
	FilePath string
}

type DlOptions struct {
	// MaxConcurrency is the maximum number of concurrent downloads
	MaxConcurrency int

	// Headers is a map of headers to be used in the download process
	Headers map[string]string

	// Session holds the HTTP client and cookie jar shared by all downloads
	Session *Session

	// OverwriteExistingFiles re-downloads files that already exist on disk
	OverwriteExistingFiles bool

	// Resume continues a previous partial download
	// from its staging file instead of starting over
	Resume bool

	// SpeedLimiter throttles the combined download
	// speed of all transfers when not nil
	SpeedLimiter *SpeedLimiter

	// ShowProgress renders a progress bar on stderr for each transfer
	ShowProgress bool

	// FallbackFilename names the downloaded file when neither the
	// response headers nor the URL carry a usable filename
	FallbackFilename string

	// ReqHandler obtains the response streaming the file body.
	// Defaults to CallRequest when nil.
	ReqHandler RequestHandler

	// Context is used to cancel the downloads if needed
	Context context.Context
}

// Progress reports how far a single transfer has come.
type Progress struct {
	// FilePath is the final destination path of the transfer
	// once the filename has been resolved, or "-" for stdout
	FilePath string

	// StartOffset is the number of bytes that were already
	// saved on disk before this transfer started
	StartOffset int64

	// BytesReceived is the number of bytes received during this transfer
	BytesReceived int64

	// TotalBytes is the expected total size of
	// the file or -1 when the server did not say
	TotalBytes int64
}
