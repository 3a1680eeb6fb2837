package request

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/KJHJason/GDrive-Downloader-CLI/utils"
)

// add headers to the request
func AddHeaders(headers map[string]string, defaultUserAgent string, req *http.Request) {
	if userAgent, ok := headers["User-Agent"]; !ok || userAgent == "" {
		headers["User-Agent"] = defaultUserAgent
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}
}

// add cookies to the request on top of the ones in the session's jar
func AddCookies(cookies []*http.Cookie, req *http.Request) {
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
}

// add params to the request
func AddParams(params map[string]string, req *http.Request) {
	if len(params) == 0 {
		return
	}

	query := req.URL.Query()
	for key, value := range params {
		query.Add(key, value)
	}
	req.URL.RawQuery = query.Encode()
}

// send the request to the target URL
//
// Each call issues exactly one request so the caller
// stays in control of how failures are replayed.
func sendRequest(req *http.Request, reqArgs *RequestArgs) (*http.Response, error) {
	AddCookies(reqArgs.Cookies, req)
	AddHeaders(reqArgs.Headers, reqArgs.Session.UserAgent, req)
	AddParams(reqArgs.Params, req)

	// shallow copy so the timeout does not race
	// with other requests sharing the session
	client := *reqArgs.Session.Client
	client.Timeout = time.Duration(reqArgs.Timeout) * time.Second

	res, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, context.Canceled
		}
		return nil, reqArgs.Session.wrapProxyErr(
			fmt.Errorf(
				"error %d: the request to %s failed, more info => %w",
				utils.CONNECTION_ERROR,
				reqArgs.Url,
				err,
			),
		)
	}

	if reqArgs.CheckStatus && res.StatusCode != 200 {
		res.Body.Close()
		return nil, fmt.Errorf(
			"error %d: the request to %s failed, status code => %s",
			utils.RESPONSE_ERROR,
			reqArgs.Url,
			res.Status,
		)
	}
	return res, nil
}

// CallRequest is used to make a request to a URL and return the response
func CallRequest(reqArgs *RequestArgs) (*http.Response, error) {
	reqArgs.ValidateArgs()
	req, err := http.NewRequestWithContext(
		reqArgs.Context,
		reqArgs.Method,
		reqArgs.Url,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf(
			"error %d: unable to create a new request, more info => %v",
			utils.DEV_ERROR,
			err,
		)
	}

	return sendRequest(req, reqArgs)
}
