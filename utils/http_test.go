package utils

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func resWithDisposition(disposition string) *http.Response {
	header := http.Header{}
	if disposition != "" {
		header.Set("Content-Disposition", disposition)
	}
	return &http.Response{Header: header}
}

func TestGetFilenameFromHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		disposition string
		expected    string
	}{
		{
			name:        "plain filename",
			disposition: `attachment; filename="report.pdf"`,
			expected:    "report.pdf",
		},
		{
			name:        "rfc 5987 filename",
			disposition: `attachment; filename*=UTF-8''na%C3%AFve.txt`,
			expected:    "naïve.txt",
		},
		{
			name:        "no header",
			disposition: "",
			expected:    "",
		},
		{
			name:        "unparseable",
			disposition: `;;;`,
			expected:    "",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, GetFilenameFromHeaders(resWithDisposition(tt.disposition)))
		})
	}
}

func TestGetLastPartOfUrl(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "file.zip", GetLastPartOfUrl("https://example.com/dl/file.zip?confirm=t"))
	assert.Equal(t, "abc", GetLastPartOfUrl("https://example.com/abc"))
}

func TestRemoveIllegalCharsInPathName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a-b-c", RemoveIllegalCharsInPathName(`a/b:c`))
	assert.Equal(t, "plain name", RemoveIllegalCharsInPathName("  plain name  "))
}
