package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/audiodrop/service/internal/storage"
)

// fakeStorage implements storage.Storage in-memory, recording the call so
// tests can assert on the staged file and inject failures.
type fakeStorage struct {
	mu            sync.Mutex
	calls         int
	lastPath      string
	lastNamespace string
	lastName      string
	stagedSize    int64
	err           error
	bucket        string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{bucket: "test-bucket"}
}

func (f *fakeStorage) Store(ctx context.Context, localPath, namespace, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.lastPath = localPath
	f.lastNamespace = namespace
	f.lastName = name

	// The staged file must exist at delegation time.
	fi, err := os.Stat(localPath)
	if err != nil {
		return "", err
	}
	f.stagedSize = fi.Size()

	if f.err != nil {
		return "", f.err
	}
	return storage.Location(f.bucket, storage.ObjectKey(namespace, name)), nil
}

func (f *fakeStorage) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// countingReader tracks how many bytes were read from the underlying reader.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// newTestService returns a Service staged under a test-owned directory so
// tests can assert the directory is empty after every outcome.
func newTestService(t *testing.T, store storage.Storage, maxBytes int64) (*Service, string) {
	t.Helper()
	root := t.TempDir()
	svc := NewService(store, maxBytes)
	svc.stagingRoot = root
	return svc, root
}

func requireEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err, "reading staging root")
	require.Empty(t, entries, "staging root should be empty after the handler returns")
}

func TestSaveStagesAndStores(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	svc, root := newTestService(t, store, 10<<20)

	data := bytes.Repeat([]byte{0xAB}, 2<<20)
	res, err := svc.Save(context.Background(), "u1", "clip.wav", bytes.NewReader(data))
	require.NoError(t, err)

	require.Equal(t, "clip.wav", res.Filename)
	require.Equal(t, int64(2097152), res.SizeBytes)
	require.Equal(t, "s3://test-bucket/audio/u1/clip.wav", res.Location)
	require.Equal(t, "u1", res.UserID)

	require.Equal(t, 1, store.callCount())
	require.Equal(t, "u1", store.lastNamespace)
	require.Equal(t, "clip.wav", store.lastName)
	require.Equal(t, int64(len(data)), store.stagedSize, "staged file should hold exactly the received bytes")

	requireEmptyDir(t, root)
}

func TestSaveExactCeiling(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	svc, root := newTestService(t, store, 10<<20)

	data := bytes.Repeat([]byte{0x01}, 10<<20)
	res, err := svc.Save(context.Background(), "u1", "full.mp3", bytes.NewReader(data))
	require.NoError(t, err, "a file of exactly the ceiling size must be accepted")
	require.Equal(t, int64(10<<20), res.SizeBytes)

	requireEmptyDir(t, root)
}

func TestSaveEnforcesCeilingWhileStreaming(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	svc, root := newTestService(t, store, 10<<20)

	src := &countingReader{r: bytes.NewReader(bytes.Repeat([]byte{0x02}, 12<<20))}
	_, err := svc.Save(context.Background(), "u1", "big.wav", src)
	require.ErrorIs(t, err, ErrFileTooLarge)

	// Bounded overrun: at most one chunk past the ceiling is ever read.
	require.LessOrEqual(t, src.n, int64(10<<20+1<<20),
		"reads must stop within one chunk of the ceiling")

	require.Zero(t, store.callCount(), "no stored object may be created for an oversized file")
	requireEmptyDir(t, root)
}

func TestSaveCleansUpOnStorageFailure(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	store.err = errors.New("credentials not available")
	svc, root := newTestService(t, store, 10<<20)

	_, err := svc.Save(context.Background(), "u1", "clip.wav", bytes.NewReader([]byte("audio")))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrFileTooLarge)

	requireEmptyDir(t, root)
}

func TestSaveCleansUpOnReadFailure(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	svc, root := newTestService(t, store, 10<<20)

	src := io.MultiReader(bytes.NewReader([]byte("partial")), &failingReader{})
	_, err := svc.Save(context.Background(), "u1", "clip.wav", src)
	require.Error(t, err)

	require.Zero(t, store.callCount())
	requireEmptyDir(t, root)
}

func TestSaveSanitizesFilename(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	svc, root := newTestService(t, store, 10<<20)

	res, err := svc.Save(context.Background(), "u1", "../../etc/evil.wav", bytes.NewReader([]byte("x")))
	require.NoError(t, err)
	require.Equal(t, "evil.wav", res.Filename)
	require.Equal(t, "evil.wav", store.lastName)

	requireEmptyDir(t, root)
}

type failingReader struct{}

func (*failingReader) Read([]byte) (int, error) {
	return 0, errors.New("client went away")
}
