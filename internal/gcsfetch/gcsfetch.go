package gcsfetch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Fetcher moves statement files between local disk and Cloud Storage. A
// single Fetcher is safe for concurrent use.
type Fetcher struct {
	client *storage.Client
}

// NewFetcher creates a storage client. credentialsFile may be empty, in which
// case application default credentials apply.
func NewFetcher(ctx context.Context, credentialsFile string) (*Fetcher, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewFetcher: creating storage client: %w", err)
	}
	return &Fetcher{client: client}, nil
}

func (f *Fetcher) Close() error {
	return f.client.Close()
}

// Upload copies a local file into the bucket under objectName.
func (f *Fetcher) Upload(ctx context.Context, bucket, objectName, filePath string) error {
	src, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("Upload: opening %q: %w", filePath, err)
	}
	defer src.Close()

	w := f.client.Bucket(bucket).Object(objectName).NewWriter(ctx)
	if _, err := io.Copy(w, src); err != nil {
		w.Close()
		return fmt.Errorf("Upload: copying %q to gs://%s/%s: %w", filePath, bucket, objectName, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("Upload: finalizing gs://%s/%s: %w", bucket, objectName, err)
	}
	return nil
}

// Fetch downloads the object named by a gs:// URI.
func (f *Fetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	bucket, object, err := ParseURI(uri)
	if err != nil {
		return nil, fmt.Errorf("Fetch: %w", err)
	}

	r, err := f.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("Fetch: opening gs://%s/%s: %w", bucket, object, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("Fetch: reading gs://%s/%s: %w", bucket, object, err)
	}
	return data, nil
}

// Materialize makes source available as a local file. Local paths are
// returned unchanged with a no-op cleanup; gs:// URIs are downloaded into a
// temporary file that cleanup removes.
func (f *Fetcher) Materialize(ctx context.Context, source string) (string, func(), error) {
	if !IsURI(source) {
		return source, func() {}, nil
	}

	data, err := f.Fetch(ctx, source)
	if err != nil {
		return "", nil, fmt.Errorf("Materialize: %w", err)
	}

	tmp, err := os.CreateTemp("", "statement-*"+path.Ext(Filename(source)))
	if err != nil {
		return "", nil, fmt.Errorf("Materialize: creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("Materialize: writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("Materialize: closing temp file: %w", err)
	}

	name := tmp.Name()
	return name, func() { os.Remove(name) }, nil
}

// IsURI reports whether source names a Cloud Storage object.
func IsURI(source string) bool {
	return strings.HasPrefix(source, "gs://")
}

// ParseURI splits a gs:// URI into bucket and object path.
func ParseURI(uri string) (bucket, object string, err error) {
	if !IsURI(uri) {
		return "", "", fmt.Errorf("not a gs:// URI: %s", uri)
	}
	parts := strings.SplitN(strings.TrimPrefix(uri, "gs://"), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("gs:// URI has no object path: %s", uri)
	}
	return parts[0], parts[1], nil
}

// Filename returns the base name of the object a gs:// URI points at. Plain
// paths fall through to their base name.
func Filename(uri string) string {
	parts := strings.SplitN(strings.TrimPrefix(uri, "gs://"), "/", 2)
	if len(parts) < 2 {
		return path.Base(parts[0])
	}
	return path.Base(parts[1])
}
