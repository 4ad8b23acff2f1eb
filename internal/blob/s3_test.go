package blob

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// mockTransport fakes the S3 HTTP surface for Put and Delete. With path-style
// addressing the request path is /<bucket>/<key>.
type mockTransport struct {
	objects map[string]bool
	deletes []string
}

func (m *mockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		// Drain the body like a real server: the SDK's trailing-checksum
		// middleware needs the body read to EOF before it can finish.
		_, _ = io.Copy(io.Discard, req.Body)
		_ = req.Body.Close()
	}
	path := strings.TrimPrefix(req.URL.Path, "/")
	switch req.Method {
	case http.MethodPut:
		m.objects[path] = true
		hdr := http.Header{}
		hdr.Set("ETag", `"abc123"`)
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader(nil)),
			Header:     hdr,
		}, nil
	case http.MethodDelete:
		m.deletes = append(m.deletes, path)
		delete(m.objects, path)
		return &http.Response{
			StatusCode: http.StatusNoContent,
			Body:       io.NopCloser(bytes.NewReader(nil)),
			Header:     http.Header{},
		}, nil
	}
	return &http.Response{
		StatusCode: http.StatusNotImplemented,
		Body:       io.NopCloser(bytes.NewReader(nil)),
		Header:     http.Header{},
	}, nil
}

func newMockStore(t *testing.T) (*S3Store, *mockTransport) {
	t.Helper()
	rt := &mockTransport{objects: make(map[string]bool)}
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	if err != nil {
		t.Fatalf("load aws config: %v", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("https://mock.s3.local")
	})
	return &S3Store{client: client, bucket: "plant-photos", region: "us-east-1"}, rt
}

func TestS3StorePut(t *testing.T) {
	store, rt := newMockStore(t)

	info, err := store.Put(context.Background(), "plants/p1/1-rose.jpg",
		strings.NewReader("jpegbytes"), PutOptions{ContentType: "image/jpeg"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	if !rt.objects["plant-photos/plants/p1/1-rose.jpg"] {
		t.Errorf("object not stored, saw %v", rt.objects)
	}
	if info.Key != "plants/p1/1-rose.jpg" {
		t.Errorf("key: got %q", info.Key)
	}
	if info.ETag != "abc123" {
		t.Errorf("etag: got %q", info.ETag)
	}
	if info.URL == "" {
		t.Error("expected a non-empty object URL")
	}
}

func TestS3StoreDelete(t *testing.T) {
	store, rt := newMockStore(t)

	ok, err := store.Delete(context.Background(), "", "plants/p1/1-rose.jpg")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !ok {
		t.Error("expected delete to report success")
	}
	if len(rt.deletes) != 1 || rt.deletes[0] != "plant-photos/plants/p1/1-rose.jpg" {
		t.Errorf("deletes: got %v", rt.deletes)
	}
}

func TestS3StoreDeleteExplicitBucket(t *testing.T) {
	store, rt := newMockStore(t)

	if _, err := store.Delete(context.Background(), "other-bucket", "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(rt.deletes) != 1 || rt.deletes[0] != "other-bucket/k" {
		t.Errorf("deletes: got %v", rt.deletes)
	}
}

func TestNewS3RequiresBucket(t *testing.T) {
	if _, err := NewS3(context.Background(), S3Config{}); err == nil {
		t.Fatal("expected an error for missing bucket")
	}
}

func TestObjectURLStyles(t *testing.T) {
	virtual := &S3Store{bucket: "b", region: "us-east-1"}
	if got := virtual.ObjectURL("k/x.jpg"); got != "https://b.s3.us-east-1.amazonaws.com/k/x.jpg" {
		t.Errorf("virtual-hosted url: got %q", got)
	}

	store, err := NewS3(context.Background(), S3Config{
		Bucket:    "b",
		Endpoint:  "http://localhost:9000",
		PathStyle: true,
	})
	if err != nil {
		t.Fatalf("new s3: %v", err)
	}
	if got := store.ObjectURL("k/x.jpg"); got != "http://localhost:9000/b/k/x.jpg" {
		t.Errorf("path-style url: got %q", got)
	}
}
