package gdrive

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/KJHJason/GDrive-Downloader-CLI/configs"
	"github.com/KJHJason/GDrive-Downloader-CLI/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGDrive(t *testing.T) *GDrive {
	t.Helper()
	session, err := request.NewSession(&request.SessionArgs{})
	require.NoError(t, err)

	gdrive, err := GetNewGDrive(
		&GDriveArgs{
			Session: session,
			Config:  &configs.Config{Quiet: true},
		},
	)
	require.NoError(t, err)
	return gdrive
}

func (gdrive *GDrive) negotiate(t *testing.T, fileUrl string) (*http.Response, error) {
	t.Helper()
	return gdrive.NegotiateHandler("test-file-id")(
		&request.RequestArgs{
			Url:     fileUrl,
			Method:  "GET",
			Session: gdrive.session,
		},
	)
}

func serveFileBytes(w http.ResponseWriter, content []byte) {
	w.Header().Set("Content-Disposition", `attachment; filename="data.bin"`)
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.Write(content)
}

func serveHtml(w http.ResponseWriter, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, html)
}

func TestNegotiateDirectResponse(t *testing.T) {
	t.Parallel()

	content := []byte("file bytes")
	var reqCount atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqCount.Add(1)
		serveFileBytes(w, content)
	}))
	defer srv.Close()

	res, err := newTestGDrive(t).negotiate(t, srv.URL)
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, content, body)
	assert.EqualValues(t, 1, reqCount.Load())
}

func TestNegotiateReplaysConfirmationForm(t *testing.T) {
	t.Parallel()

	content := []byte("the actual file")
	var confirmQuery atomic.Value
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/uc":
			serveHtml(w, fmt.Sprintf(
				`<html><body>
					<form id="download-form" action="%s/download" method="get">
						<input type="hidden" name="confirm" value="t">
						<input type="hidden" name="uuid" value="abc-123">
						<input type="submit" value="Download anyway">
					</form>
				</body></html>`,
				srv.URL,
			))
		case "/download":
			confirmQuery.Store(r.URL.Query().Encode())
			serveFileBytes(w, content)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	res, err := newTestGDrive(t).negotiate(t, srv.URL+"/uc")
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, content, body)
	assert.Equal(t, "confirm=t&uuid=abc-123", confirmQuery.Load())
}

func TestNegotiateResolvesRelativeFormAction(t *testing.T) {
	t.Parallel()

	content := []byte("relative action bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/uc":
			serveHtml(w,
				`<html><body>
					<form id="download-form" action="/download" method="get">
						<input type="hidden" name="confirm" value="t">
					</form>
				</body></html>`,
			)
		case "/download":
			serveFileBytes(w, content)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	res, err := newTestGDrive(t).negotiate(t, srv.URL+"/uc")
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, content, body)
}

func TestNegotiateLegacyConfirmationLink(t *testing.T) {
	t.Parallel()

	content := []byte("legacy link bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("confirm") == "token123" {
			serveFileBytes(w, content)
			return
		}
		serveHtml(w,
			`<html><body>
				<a id="uc-download-link" href="/uc?confirm=token123">Download anyway</a>
			</body></html>`,
		)
	}))
	defer srv.Close()

	res, err := newTestGDrive(t).negotiate(t, srv.URL+"/uc")
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, content, body)
}

func TestNegotiateDownloadWarningCookie(t *testing.T) {
	t.Parallel()

	content := []byte("cookie token bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("confirm") == "cookie-token" {
			serveFileBytes(w, content)
			return
		}
		// no form or link on the page, only the legacy cookie
		http.SetCookie(w, &http.Cookie{
			Name:  "download_warning_13058876669334088843",
			Value: "cookie-token",
			Path:  "/",
		})
		serveHtml(w, `<html><body>Scan warning</body></html>`)
	}))
	defer srv.Close()

	res, err := newTestGDrive(t).negotiate(t, srv.URL+"/uc")
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, content, body)
}

func TestNegotiateFailsAfterSecondInterstitial(t *testing.T) {
	t.Parallel()

	var reqCount atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqCount.Add(1)
		serveHtml(w,
			`<html><body>
				<form id="download-form" action="/uc" method="get">
					<input type="hidden" name="confirm" value="t">
				</form>
			</body></html>`,
		)
	}))
	defer srv.Close()

	_, err := newTestGDrive(t).negotiate(t, srv.URL+"/uc")
	require.Error(t, err)

	var retrievalErr *FileURLRetrievalError
	assert.ErrorAs(t, err, &retrievalErr)
	assert.Equal(t, "test-file-id", retrievalErr.FileId)

	// the confirmation must be replayed exactly once, never looped
	assert.EqualValues(t, 2, reqCount.Load())
}

func TestNegotiateQuotaExceeded(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serveHtml(w,
			`<html><head><title>Google Drive - Quota exceeded</title></head>
			<body>Too many users have viewed or downloaded this file recently.</body></html>`,
		)
	}))
	defer srv.Close()

	_, err := newTestGDrive(t).negotiate(t, srv.URL+"/uc")
	require.Error(t, err)

	var retrievalErr *FileURLRetrievalError
	require.ErrorAs(t, err, &retrievalErr)
	assert.Contains(t, retrievalErr.Reason, "try accessing the file again later")
}

func TestNegotiateQuotaExceededIgnoresCookieToken(t *testing.T) {
	t.Parallel()

	var reqCount atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqCount.Add(1)
		// a stale confirmation cookie must not trigger a
		// replay once the quota page has been served
		http.SetCookie(w, &http.Cookie{
			Name:  "download_warning_13058876669334088843",
			Value: "stale-token",
			Path:  "/",
		})
		serveHtml(w,
			`<html><head><title>Google Drive - Quota exceeded</title></head>
			<body>Too many users have viewed or downloaded this file recently.</body></html>`,
		)
	}))
	defer srv.Close()

	_, err := newTestGDrive(t).negotiate(t, srv.URL+"/uc")
	require.Error(t, err)

	var retrievalErr *FileURLRetrievalError
	require.ErrorAs(t, err, &retrievalErr)
	assert.Contains(t, retrievalErr.Reason, "try accessing the file again later")
	assert.EqualValues(t, 1, reqCount.Load())
}

func TestNegotiatePermissionPage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serveHtml(w, `<html><body>You need access</body></html>`)
	}))
	defer srv.Close()

	_, err := newTestGDrive(t).negotiate(t, srv.URL+"/uc")
	require.Error(t, err)

	var retrievalErr *FileURLRetrievalError
	require.ErrorAs(t, err, &retrievalErr)
	assert.Contains(t, retrievalErr.Reason, "Anyone with the link")
}
