package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

type flakyStore struct {
	err     error
	puts    int
	deletes int
}

func (f *flakyStore) Put(_ context.Context, key string, r io.Reader, _ PutOptions) (Info, error) {
	f.puts++
	if f.err != nil {
		return Info{}, f.err
	}
	return Info{Key: key, URL: "https://photos.s3.us-east-1.amazonaws.com/" + key}, nil
}

func (f *flakyStore) Delete(_ context.Context, _, _ string) (bool, error) {
	f.deletes++
	if f.err != nil {
		return false, f.err
	}
	return true, nil
}

func (f *flakyStore) Resolve(raw string) (bucket, key string) { return ParseObjectURL(raw) }

func (f *flakyStore) Bucket() string { return "photos" }

func TestGuardedPassesThrough(t *testing.T) {
	inner := &flakyStore{}
	g := NewGuarded(inner, 3, time.Second)

	info, err := g.Put(context.Background(), "plants/a/1-x.jpg", strings.NewReader("data"), PutOptions{})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if info.Key != "plants/a/1-x.jpg" {
		t.Errorf("key: got %q", info.Key)
	}

	deleted, err := g.Delete(context.Background(), "photos", "plants/a/1-x.jpg")
	if err != nil || !deleted {
		t.Errorf("Delete: got %v, %v", deleted, err)
	}
	if g.Bucket() != "photos" {
		t.Errorf("bucket: got %q", g.Bucket())
	}
}

func TestGuardedOpensAfterConsecutiveFailures(t *testing.T) {
	inner := &flakyStore{err: errors.New("s3 down")}
	g := NewGuarded(inner, 2, time.Hour)

	for i := 0; i < 2; i++ {
		if _, err := g.Put(context.Background(), "k", strings.NewReader("x"), PutOptions{}); err == nil {
			t.Fatal("expected failure")
		}
	}

	// Breaker is open now, the inner store must not be called.
	_, err := g.Put(context.Background(), "k", strings.NewReader("x"), PutOptions{})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if inner.puts != 2 {
		t.Errorf("inner puts: got %d, want 2", inner.puts)
	}
}

func TestGuardedRecoversAfterReset(t *testing.T) {
	inner := &flakyStore{err: errors.New("s3 down")}
	g := NewGuarded(inner, 1, 10*time.Millisecond)

	g.Delete(context.Background(), "photos", "k")
	if _, err := g.Delete(context.Background(), "photos", "k"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected open breaker, got %v", err)
	}

	inner.err = nil
	time.Sleep(20 * time.Millisecond)

	deleted, err := g.Delete(context.Background(), "photos", "k")
	if err != nil || !deleted {
		t.Fatalf("expected recovery, got %v, %v", deleted, err)
	}

	// Closed again; further calls pass straight through.
	if _, err := g.Put(context.Background(), "k", strings.NewReader("x"), PutOptions{}); err != nil {
		t.Errorf("Put after recovery: %v", err)
	}
}

func TestGuardedSuccessResetsFailureCount(t *testing.T) {
	inner := &flakyStore{}
	g := NewGuarded(inner, 3, time.Hour)

	inner.err = errors.New("s3 down")
	g.Put(context.Background(), "k", strings.NewReader("x"), PutOptions{})
	g.Put(context.Background(), "k", strings.NewReader("x"), PutOptions{})

	inner.err = nil
	if _, err := g.Put(context.Background(), "k", strings.NewReader("x"), PutOptions{}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Two more failures start from zero and stay under the threshold.
	inner.err = errors.New("s3 down")
	g.Put(context.Background(), "k", strings.NewReader("x"), PutOptions{})
	g.Put(context.Background(), "k", strings.NewReader("x"), PutOptions{})

	inner.err = nil
	if _, err := g.Put(context.Background(), "k", strings.NewReader("x"), PutOptions{}); err != nil {
		t.Errorf("breaker should still be closed: %v", err)
	}
}
