package request

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	session, err := NewSession(&SessionArgs{})
	require.NoError(t, err)
	return session
}

// Serves content honouring Range requests and counts
// the number of GET requests for the body.
type fileServer struct {
	content     []byte
	ignoreRange bool
	getCount    atomic.Int64
	headCount   atomic.Int64
	gotRange    atomic.Value
}

func (fs *fileServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == "HEAD" {
		fs.headCount.Add(1)
		w.Header().Set("Content-Length", strconv.Itoa(len(fs.content)))
		w.WriteHeader(200)
		return
	}

	fs.getCount.Add(1)
	w.Header().Set("Content-Disposition", `attachment; filename="data.bin"`)

	rangeHeader := r.Header.Get("Range")
	if rangeHeader != "" {
		fs.gotRange.Store(rangeHeader)
	}
	if rangeHeader != "" && !fs.ignoreRange {
		offset, err := strconv.ParseInt(
			strings.TrimSuffix(strings.TrimPrefix(rangeHeader, "bytes="), "-"),
			10,
			64,
		)
		if err != nil || offset >= int64(len(fs.content)) {
			w.WriteHeader(416)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(fs.content)-int(offset)))
		w.WriteHeader(206)
		w.Write(fs.content[offset:])
		return
	}

	w.Header().Set("Content-Length", strconv.Itoa(len(fs.content)))
	w.WriteHeader(200)
	w.Write(fs.content)
}

func testContent() []byte {
	content := make([]byte, 4096)
	for i := range content {
		content[i] = byte(i % 251)
	}
	return content
}

func TestDownloadUrlWritesFile(t *testing.T) {
	t.Parallel()

	fs := &fileServer{content: testContent()}
	srv := httptest.NewServer(fs)
	defer srv.Close()

	filePath := filepath.Join(t.TempDir(), "data.bin")
	progress, err := DownloadUrl(
		filePath,
		&DlOptions{Session: newTestSession(t)},
		srv.URL,
	)
	require.NoError(t, err)

	saved, err := os.ReadFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, fs.content, saved)
	assert.Equal(t, int64(len(fs.content)), progress.BytesReceived)
	assert.Equal(t, filePath, progress.FilePath)

	// the staging file must be gone after a successful transfer
	assert.NoFileExists(t, filePath+PART_SUFFIX)
}

func TestDownloadUrlDerivesFilenameFromHeaders(t *testing.T) {
	t.Parallel()

	fs := &fileServer{content: testContent()}
	srv := httptest.NewServer(fs)
	defer srv.Close()

	dir := t.TempDir()
	progress, err := DownloadUrl(
		dir,
		&DlOptions{Session: newTestSession(t)},
		srv.URL,
	)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data.bin"), progress.FilePath)
	assert.FileExists(t, progress.FilePath)
}

func TestDownloadUrlSkipsCompletedFile(t *testing.T) {
	t.Parallel()

	fs := &fileServer{content: testContent()}
	srv := httptest.NewServer(fs)
	defer srv.Close()

	filePath := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(filePath, fs.content, 0644))

	progress, err := DownloadUrl(
		filePath,
		&DlOptions{Session: newTestSession(t), Resume: true},
		srv.URL,
	)
	require.NoError(t, err)

	// only the HEAD probe may hit the server, never a body request
	assert.EqualValues(t, 0, fs.getCount.Load())
	assert.EqualValues(t, 1, fs.headCount.Load())
	assert.EqualValues(t, 0, progress.BytesReceived)
}

func TestDownloadUrlSkipsCompletedFileWithoutResume(t *testing.T) {
	t.Parallel()

	fs := &fileServer{content: testContent()}
	srv := httptest.NewServer(fs)
	defer srv.Close()

	filePath := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(filePath, fs.content, 0644))

	// a default run must leave a completed file untouched,
	// issuing only the HEAD probe and no body request
	progress, err := DownloadUrl(
		filePath,
		&DlOptions{Session: newTestSession(t)},
		srv.URL,
	)
	require.NoError(t, err)
	assert.EqualValues(t, 0, fs.getCount.Load())
	assert.EqualValues(t, 1, fs.headCount.Load())
	assert.EqualValues(t, 0, progress.BytesReceived)

	saved, err := os.ReadFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, fs.content, saved)
}

func TestDownloadUrlOverwriteRedownloads(t *testing.T) {
	t.Parallel()

	fs := &fileServer{content: testContent()}
	srv := httptest.NewServer(fs)
	defer srv.Close()

	filePath := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(filePath, fs.content, 0644))

	_, err := DownloadUrl(
		filePath,
		&DlOptions{Session: newTestSession(t), OverwriteExistingFiles: true},
		srv.URL,
	)
	require.NoError(t, err)
	assert.EqualValues(t, 1, fs.getCount.Load())
}

func TestDownloadUrlResumesFromPartFile(t *testing.T) {
	t.Parallel()

	fs := &fileServer{content: testContent()}
	srv := httptest.NewServer(fs)
	defer srv.Close()

	filePath := filepath.Join(t.TempDir(), "data.bin")
	const offset = 1500
	require.NoError(t, os.WriteFile(filePath+PART_SUFFIX, fs.content[:offset], 0644))

	progress, err := DownloadUrl(
		filePath,
		&DlOptions{Session: newTestSession(t), Resume: true},
		srv.URL,
	)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("bytes=%d-", offset), fs.gotRange.Load())
	assert.EqualValues(t, offset, progress.StartOffset)
	assert.EqualValues(t, len(fs.content)-offset, progress.BytesReceived)

	saved, err := os.ReadFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, fs.content, saved)
	assert.NoFileExists(t, filePath+PART_SUFFIX)
}

func TestDownloadUrlRestartsWhenRangeIgnored(t *testing.T) {
	t.Parallel()

	fs := &fileServer{content: testContent(), ignoreRange: true}
	srv := httptest.NewServer(fs)
	defer srv.Close()

	filePath := filepath.Join(t.TempDir(), "data.bin")
	// stale bytes that would corrupt the file if they were kept
	require.NoError(t, os.WriteFile(filePath+PART_SUFFIX, []byte("stale"), 0644))

	progress, err := DownloadUrl(
		filePath,
		&DlOptions{Session: newTestSession(t), Resume: true},
		srv.URL,
	)
	require.NoError(t, err)
	assert.EqualValues(t, 0, progress.StartOffset)

	saved, err := os.ReadFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, fs.content, saved)
}

func TestDownloadUrlKeepsPartFileOnFailure(t *testing.T) {
	t.Parallel()

	content := testContent()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "HEAD" {
			w.Header().Set("Content-Length", strconv.Itoa(len(content)))
			return
		}
		// announce the full size but cut the body short
		w.Header().Set("Content-Length", strconv.Itoa(len(content)))
		w.WriteHeader(200)
		w.Write(content[:1000])
	}))
	defer srv.Close()

	filePath := filepath.Join(t.TempDir(), "data.bin")
	_, err := DownloadUrl(
		filePath,
		&DlOptions{Session: newTestSession(t)},
		srv.URL,
	)
	require.Error(t, err)

	assert.NoFileExists(t, filePath)
	assert.FileExists(t, filePath+PART_SUFFIX)
}

func TestDownloadUrlCancelledContext(t *testing.T) {
	t.Parallel()

	fs := &fileServer{content: testContent()}
	srv := httptest.NewServer(fs)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DownloadUrl(
		filepath.Join(t.TempDir(), "data.bin"),
		&DlOptions{Session: newTestSession(t), Context: ctx},
		srv.URL,
	)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDownloadUrlsConcurrent(t *testing.T) {
	t.Parallel()

	fs := &fileServer{content: testContent()}
	srv := httptest.NewServer(fs)
	defer srv.Close()

	dir := t.TempDir()
	var transfers []*ToDownload
	for i := 0; i < 4; i++ {
		transfers = append(transfers, &ToDownload{
			Url:      srv.URL,
			FilePath: filepath.Join(dir, fmt.Sprintf("file_%d.bin", i)),
		})
	}

	cancelled := DownloadUrls(
		transfers,
		&DlOptions{
			MaxConcurrency: 2,
			Session:        newTestSession(t),
		},
	)
	assert.False(t, cancelled)

	for _, transfer := range transfers {
		saved, err := os.ReadFile(transfer.FilePath)
		require.NoError(t, err)
		assert.Equal(t, fs.content, saved)
	}
}
