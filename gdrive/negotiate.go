package gdrive

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/KJHJason/GDrive-Downloader-CLI/request"
	"github.com/KJHJason/GDrive-Downloader-CLI/utils"
	"github.com/PuerkitoBio/goquery"
)

// Negotiation states for resolving a file's direct download URL.
// Google serves an interstitial confirmation page instead of the
// file bytes for files it cannot virus scan, and that page has to
// be replayed with its confirmation params exactly once.
const (
	stateInitial = iota
	stateInterstitial
	stateResolved
)

type confirmation struct {
	url    string
	params map[string]string
}

// Parses the confirmation page and extracts the replay
// URL and params needed to get to the actual file bytes.
func parseConfirmationPage(res *http.Response, reqUrl string) (*confirmation, error) {
	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf(
			"gdrive error %d: failed to parse the confirmation page of %s, more info => %v",
			utils.HTML_ERROR,
			reqUrl,
			err,
		)
	}

	title := doc.Find("title").Text()
	if strings.Contains(title, "Quota exceeded") {
		return nil, errQuotaExceeded
	}

	// current interstitial, a form with the confirmation params as hidden inputs
	form := doc.Find("form#download-form")
	if action, ok := form.Attr("action"); ok {
		actionUrl, err := resolveHref(reqUrl, action)
		if err != nil {
			return nil, err
		}
		params := make(map[string]string)
		form.Find("input[type=hidden]").Each(func(i int, s *goquery.Selection) {
			name, _ := s.Attr("name")
			value, _ := s.Attr("value")
			if name != "" {
				params[name] = value
			}
		})
		return &confirmation{
			url:    actionUrl,
			params: params,
		}, nil
	}

	// older interstitial, a plain confirmation link
	if href, ok := doc.Find("a#uc-download-link").Attr("href"); ok {
		confirmUrl, err := resolveHref(reqUrl, href)
		if err != nil {
			return nil, err
		}
		return &confirmation{url: confirmUrl}, nil
	}

	return nil, errNoConfirmation
}

var (
	errQuotaExceeded = fmt.Errorf(
		"too many users have viewed or downloaded this file recently, " +
			"please try accessing the file again later",
	)
	errNoConfirmation = fmt.Errorf(
		"you may need to change the permission to " +
			"\"Anyone with the link\" or have had many accesses",
	)
)

func resolveHref(baseUrl, href string) (string, error) {
	base, err := url.Parse(baseUrl)
	if err != nil {
		return "", fmt.Errorf(
			"gdrive error %d: invalid base URL %s, more info => %v",
			utils.UNEXPECTED_ERROR,
			baseUrl,
			err,
		)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf(
			"gdrive error %d: invalid confirmation link %q, more info => %v",
			utils.HTML_ERROR,
			href,
			err,
		)
	}
	return base.ResolveReference(ref).String(), nil
}

// Looks for the legacy confirmation token that Google sets
// as a download_warning cookie instead of serving a form.
func confirmTokenFromCookies(session *request.Session, reqUrl string) string {
	parsedUrl, err := url.Parse(reqUrl)
	if err != nil {
		return ""
	}
	for _, cookie := range session.Client.Jar.Cookies(parsedUrl) {
		if strings.HasPrefix(cookie.Name, "download_warning") {
			return cookie.Value
		}
	}
	return ""
}

// NegotiateHandler returns a request handler that resolves Google
// Drive's confirmation interstitial before handing the response back.
//
// The handler issues the caller's request as-is and inspects the
// response. A response carrying the file bytes is returned directly.
// An interstitial page is parsed for its confirmation params and
// replayed exactly once, so a second interstitial fails instead of
// looping.
func (gdrive *GDrive) NegotiateHandler(fileId string) request.RequestHandler {
	return func(callerArgs *request.RequestArgs) (*http.Response, error) {
		fileId := fileId
		if fileId == "" {
			if parsedUrl, err := url.Parse(callerArgs.Url); err == nil {
				fileId = parsedUrl.Query().Get("id")
			}
		}

		// status checking is deferred to the resolved state since
		// the interstitial itself comes back as a 200 HTML page
		args := *callerArgs
		args.CheckStatus = false
		reqArgs := &args

		state := stateInitial
		var res *http.Response
		for {
			switch state {
			case stateInitial, stateInterstitial:
				var err error
				res, err = request.CallRequest(reqArgs)
				if err != nil {
					return nil, err
				}

				if res.Header.Get("Content-Disposition") != "" || !utils.ResponseIsHtml(res) {
					state = stateResolved
					continue
				}
				if state == stateInterstitial {
					// already replayed the confirmation once, a second
					// interstitial means the file is not retrievable
					res.Body.Close()
					return nil, &FileURLRetrievalError{
						FileId: fileId,
						Reason: errNoConfirmation.Error(),
					}
				}

				confirm, parseErr := parseConfirmationPage(res, reqArgs.Url)
				res.Body.Close()
				if parseErr != nil {
					// an exceeded quota is terminal, no
					// confirmation token can get past it
					if errors.Is(parseErr, errQuotaExceeded) {
						return nil, &FileURLRetrievalError{
							FileId: fileId,
							Reason: parseErr.Error(),
						}
					}
					if token := confirmTokenFromCookies(reqArgs.Session, reqArgs.Url); token != "" {
						confirm = &confirmation{
							url:    reqArgs.Url,
							params: map[string]string{"confirm": token},
						}
					} else {
						return nil, &FileURLRetrievalError{
							FileId: fileId,
							Reason: parseErr.Error(),
						}
					}
				}

				replayArgs := *reqArgs
				replayArgs.Url = confirm.url
				replayArgs.Params = make(map[string]string, len(reqArgs.Params)+len(confirm.params))
				for key, value := range reqArgs.Params {
					replayArgs.Params[key] = value
				}
				for key, value := range confirm.params {
					replayArgs.Params[key] = value
				}
				reqArgs = &replayArgs
				state = stateInterstitial

			case stateResolved:
				if callerArgs.CheckStatus && res.StatusCode != 200 {
					res.Body.Close()
					return nil, fmt.Errorf(
						"gdrive error %d: failed to download %s, status code => %s",
						utils.RESPONSE_ERROR,
						reqArgs.Url,
						res.Status,
					)
				}
				return res, nil
			}
		}
	}
}
