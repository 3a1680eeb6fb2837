package request

import (
	"context"
	"fmt"
	"net/http"

	"github.com/KJHJason/GDrive-Downloader-CLI/utils"
)

type RequestArgs struct {
	// Main Request Options
	Method  string
	Url     string
	Timeout int

	// Additional Request Options
	Headers map[string]string
	Params  map[string]string
	Cookies []*http.Cookie

	// Check status will check the status code of the response for 200 OK.
	// If the status code is not 200 OK, an error is returned.
	// Otherwise, the response is returned regardless of the status code.
	CheckStatus bool

	// Session holds the HTTP client and cookie jar to use.
	// Must not be nil.
	Session *Session

	// Context is used to cancel the request if needed.
	// E.g. if the user presses Ctrl+C, we can use context.WithCancel(context.Background())
	Context context.Context
}

// ValidateArgs validates the arguments of the request
//
// Will panic if the arguments are invalid as this is a developer error
func (args *RequestArgs) ValidateArgs() {
	if args.Method == "" {
		panic(
			fmt.Errorf(
				"error %d: method cannot be empty",
				utils.DEV_ERROR,
			),
		)
	}

	if args.Url == "" {
		panic(
			fmt.Errorf(
				"error %d: url cannot be empty",
				utils.DEV_ERROR,
			),
		)
	}

	if args.Session == nil {
		panic(
			fmt.Errorf(
				"error %d: session cannot be nil",
				utils.DEV_ERROR,
			),
		)
	}

	if args.Headers == nil {
		args.Headers = make(map[string]string)
	}

	if args.Params == nil {
		args.Params = make(map[string]string)
	}

	if args.Context == nil {
		args.Context = context.Background()
	}

	if args.Timeout < 0 {
		panic(
			fmt.Errorf(
				"error %d: timeout cannot be negative",
				utils.DEV_ERROR,
			),
		)
	} else if args.Timeout == 0 {
		args.Timeout = 15
	}
}
