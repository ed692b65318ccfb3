package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"healthdash/config"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func adapterContract(t *testing.T, a Adapter) {
	ctx := context.Background()

	_, err := a.Read(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, a.Write(ctx, "k", []byte(`{"v":1}`)))
	require.NoError(t, a.Write(ctx, "k", []byte(`{"v":2}`)))
	got, err := a.Read(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(got))

	require.NoError(t, a.Delete(ctx, "k"))
	_, err = a.Read(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, a.Delete(ctx, "never-written"))
}

func TestMemoryAdapter(t *testing.T) {
	adapterContract(t, NewMemory())
}

func TestGormAdapter_SQLite(t *testing.T) {
	cfg := config.StorageConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "kv.db"),
	}
	g, err := OpenGorm(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Close() })

	adapterContract(t, g)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.StorageConfig{Driver: "floppy"}, zap.NewNop())
	assert.Error(t, err)
}

// fakeS3 is an in-memory stand-in for the S3 client.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.objects[*in.Key]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.objects[*in.Key] = b
	f.mu.Unlock()
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	delete(f.objects, *in.Key)
	f.mu.Unlock()
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Adapter(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	a := NewS3(fake, "bucket", "users/me")
	adapterContract(t, a)

	require.NoError(t, a.Write(context.Background(), KeyHabits, []byte(`{}`)))
	_, ok := fake.objects["users/me/dailyHabits.json"]
	assert.True(t, ok)
}

type failingAdapter struct{ Adapter }

func (failingAdapter) Read(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var v sample
	st, err := Load(ctx, m, "k", &v)
	require.NoError(t, err)
	assert.Equal(t, StatusMissing, st)

	require.NoError(t, Save(ctx, m, "k", sample{Name: "a", Count: 2}))
	raw, _ := m.Read(ctx, "k")
	assert.Contains(t, string(raw), `"version":1`)

	st, err = Load(ctx, m, "k", &v)
	require.NoError(t, err)
	assert.Equal(t, StatusLoaded, st)
	assert.Equal(t, sample{Name: "a", Count: 2}, v)
}

func TestLoad_Legacy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Write(ctx, "k", []byte(`{"name":"old","count":7}`)))

	var v sample
	st, err := Load(ctx, m, "k", &v)
	require.NoError(t, err)
	assert.Equal(t, StatusLegacy, st)
	assert.Equal(t, "old", v.Name)
}

func TestLoad_Corrupt(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for _, raw := range []string{`{"name":"trunc`, `not json`, `null`, `{"name":42}`} {
		require.NoError(t, m.Write(ctx, "k", []byte(raw)))
		var v sample
		st, err := Load(ctx, m, "k", &v)
		require.NoError(t, err, raw)
		assert.Equal(t, StatusCorrupt, st, raw)
		assert.False(t, st.Usable())
	}
}

func TestLoad_UnknownVersion(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Write(ctx, "k", []byte(`{"version":99,"data":{"name":"future"}}`)))

	var v sample
	st, err := Load(ctx, m, "k", &v)
	require.NoError(t, err)
	assert.Equal(t, StatusUnknownVersion, st)
	assert.Empty(t, v.Name)
}

func TestLoad_AdapterError(t *testing.T) {
	var v sample
	_, err := Load(context.Background(), failingAdapter{}, "k", &v)
	assert.Error(t, err)
}

func TestLoadString(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, Save(ctx, m, KeyDietPlanDate, "2024-05-01"))
	s, st, err := LoadString(ctx, m, KeyDietPlanDate)
	require.NoError(t, err)
	assert.Equal(t, StatusLoaded, st)
	assert.Equal(t, "2024-05-01", s)

	// the browser build stored the date unquoted
	require.NoError(t, m.Write(ctx, KeyDietPlanDate, []byte("2024-04-30\n")))
	s, st, err = LoadString(ctx, m, KeyDietPlanDate)
	require.NoError(t, err)
	assert.Equal(t, StatusLegacy, st)
	assert.Equal(t, "2024-04-30", strings.TrimSpace(s))
}
