package utils

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Parses a Netscape/Mozilla generated cookie file
// and returns a slice of http.Cookie
//
// You can generate a cookie file by using
// the "Get cookies.txt" extension for your browser.
func ParseNetscapeCookieFile(filePath string) ([]*http.Cookie, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf(
			"error %d: failed to open cookie file at %s, more info => %v",
			OS_ERROR,
			filePath,
			err,
		)
	}
	defer f.Close()

	var cookies []*http.Cookie
	reader := bufio.NewScanner(f)
	for reader.Scan() {
		line := strings.TrimSpace(reader.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// split the line into the 7 tab-separated Netscape fields:
		// domain, include subdomains, path, secure, expiry, name, value
		cookieInfos := strings.Split(line, "\t")
		if len(cookieInfos) < 7 {
			continue
		}

		cookie := &http.Cookie{
			Domain: cookieInfos[0],
			Path:   cookieInfos[2],
			Secure: cookieInfos[3] == "TRUE",
			Name:   cookieInfos[5],
			Value:  cookieInfos[6],
		}
		if expiresUnix, err := strconv.ParseInt(cookieInfos[4], 10, 64); err == nil && expiresUnix > 0 {
			cookie.Expires = time.Unix(expiresUnix, 0)
		}
		cookies = append(cookies, cookie)
	}

	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf(
			"error %d: failed to read cookie file at %s, more info => %v",
			OS_ERROR,
			filePath,
			err,
		)
	}
	return cookies, nil
}

// Writes the given cookies back to the provided file path in the
// Netscape cookie file format, one line per cookie.
// Creates the parent directory if it does not exist.
func SaveNetscapeCookieFile(filePath string, cookies []*http.Cookie) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf(
			"error %d: failed to create cookie directory for %s, more info => %v",
			OS_ERROR,
			filePath,
			err,
		)
	}

	var sb strings.Builder
	sb.WriteString("# Netscape HTTP Cookie File\n")
	for _, cookie := range cookies {
		includeSubdomains := "FALSE"
		if strings.HasPrefix(cookie.Domain, ".") {
			includeSubdomains = "TRUE"
		}
		secure := "FALSE"
		if cookie.Secure {
			secure = "TRUE"
		}
		var expires int64
		if !cookie.Expires.IsZero() {
			expires = cookie.Expires.Unix()
		}
		path := cookie.Path
		if path == "" {
			path = "/"
		}
		sb.WriteString(fmt.Sprintf(
			"%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			cookie.Domain,
			includeSubdomains,
			path,
			secure,
			expires,
			cookie.Name,
			cookie.Value,
		))
	}

	if err := os.WriteFile(filePath, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf(
			"error %d: failed to write cookie file at %s, more info => %v",
			OS_ERROR,
			filePath,
			err,
		)
	}
	return nil
}
