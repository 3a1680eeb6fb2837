package utils

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// Returns the last part of the given URL string
func GetLastPartOfUrl(url string) string {
	removedParams := strings.SplitN(url, "?", 2)
	splittedUrl := strings.Split(removedParams[0], "/")
	return splittedUrl[len(splittedUrl)-1]
}

// Reads and returns the response body in bytes and closes it
func ReadResBody(res *http.Response) ([]byte, error) {
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf(
			"error %d: failed to read response body from %s due to %v",
			RESPONSE_ERROR,
			res.Request.URL.String(),
			err,
		)
	}
	return body, nil
}

// Returns the filename declared in the Content-Disposition header of the
// response, or an empty string if the header is absent or unparseable.
func GetFilenameFromHeaders(res *http.Response) string {
	disposition := res.Header.Get("Content-Disposition")
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	if filename, ok := params["filename*"]; ok {
		// RFC 5987, e.g. UTF-8''na%C3%AFve.txt
		if idx := strings.Index(filename, "''"); idx != -1 {
			filename = filename[idx+2:]
		}
		if decoded, err := url.PathUnescape(filename); err == nil {
			return decoded
		}
		return filename
	}
	return params["filename"]
}

// Checks whether the response looks like an HTML page instead of file bytes
func ResponseIsHtml(res *http.Response) bool {
	contentType := res.Header.Get("Content-Type")
	return strings.HasPrefix(contentType, "text/html")
}
