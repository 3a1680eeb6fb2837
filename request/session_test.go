package request

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionReplaysCookies(t *testing.T) {
	t.Parallel()

	var secondReqCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/set":
			http.SetCookie(w, &http.Cookie{Name: "download_warning_1", Value: "tok", Path: "/"})
		case "/check":
			if cookie, err := r.Cookie("download_warning_1"); err == nil {
				secondReqCookie = cookie.Value
			}
		}
	}))
	defer srv.Close()

	session, err := NewSession(&SessionArgs{})
	require.NoError(t, err)

	for _, path := range []string{"/set", "/check"} {
		res, err := CallRequest(
			&RequestArgs{
				Url:     srv.URL + path,
				Method:  "GET",
				Session: session,
			},
		)
		require.NoError(t, err)
		res.Body.Close()
	}
	assert.Equal(t, "tok", secondReqCookie)
}

func TestSessionInvalidProxyUrl(t *testing.T) {
	t.Parallel()

	_, err := NewSession(&SessionArgs{Proxy: "://not-a-url"})
	assert.Error(t, err)
}

func TestSessionProxyFailureIsProxyError(t *testing.T) {
	t.Parallel()

	// nothing listens on this port, so connecting
	// through the "proxy" must fail
	session, err := NewSession(&SessionArgs{Proxy: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = CallRequest(
		&RequestArgs{
			Url:     "http://example.com/",
			Method:  "GET",
			Timeout: 5,
			Session: session,
		},
	)
	require.Error(t, err)

	var proxyErr *ProxyError
	assert.ErrorAs(t, err, &proxyErr)
}

func TestSessionSlowOriginIsNotProxyError(t *testing.T) {
	t.Parallel()

	// the proxy is reachable but the origin behind it never answers,
	// so the timeout must surface as a plain transport error
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer proxy.Close()

	session, err := NewSession(&SessionArgs{Proxy: proxy.URL})
	require.NoError(t, err)

	_, err = CallRequest(
		&RequestArgs{
			Url:     "http://example.com/",
			Method:  "GET",
			Timeout: 1,
			Session: session,
		},
	)
	require.Error(t, err)

	var proxyErr *ProxyError
	assert.False(t, errors.As(err, &proxyErr))
}

func TestSessionUsesCustomUserAgent(t *testing.T) {
	t.Parallel()

	var gotUserAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	session, err := NewSession(&SessionArgs{UserAgent: "custom-agent/1.0"})
	require.NoError(t, err)

	res, err := CallRequest(
		&RequestArgs{
			Url:     srv.URL,
			Method:  "GET",
			Session: session,
		},
	)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, "custom-agent/1.0", gotUserAgent)
}

func TestSessionSaveCookies(t *testing.T) {
	t.Parallel()

	cookieFile := filepath.Join(t.TempDir(), "cookies.txt")
	session, err := NewSession(&SessionArgs{CookieFilePath: cookieFile})
	require.NoError(t, err)

	session.Client.Jar.SetCookies(
		driveCookieUrls[0],
		[]*http.Cookie{{Name: "NID", Value: "abc"}},
	)
	require.NoError(t, session.SaveCookies())

	content, err := os.ReadFile(cookieFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "NID\tabc")
}
