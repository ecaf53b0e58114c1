package gcs

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) *http.Response

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func staticTokenClient(transport roundTripFunc) *Client {
	return &Client{
		defaultBucket: "bucket",
		tokenSource: &tokenSource{fetch: func(context.Context) (string, time.Time, error) {
			return "token", time.Now().Add(time.Hour), nil
		}},
		httpClient: &http.Client{Transport: transport},
	}
}

func TestUploadObjectSuccess(t *testing.T) {
	t.Parallel()

	var gotBody string
	client := staticTokenClient(func(req *http.Request) *http.Response {
		if req.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", req.Method)
		}
		if req.Header.Get("Authorization") != "Bearer token" {
			t.Fatalf("unexpected auth %s", req.Header.Get("Authorization"))
		}
		if req.Header.Get("Content-Type") != "image/png" {
			t.Fatalf("unexpected content type %s", req.Header.Get("Content-Type"))
		}
		if !strings.Contains(req.URL.String(), "uploadType=media") {
			t.Fatalf("expected media upload url, got %s", req.URL)
		}
		b, _ := io.ReadAll(req.Body)
		gotBody = string(b)
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("{}")),
			Header:     http.Header{},
		}
	})

	if err := client.UploadObject(context.Background(), "bucket", "products/file.png", "image/png", []byte("payload")); err != nil {
		t.Fatalf("UploadObject: %v", err)
	}
	if gotBody != "payload" {
		t.Fatalf("expected payload body, got %q", gotBody)
	}
}

func TestUploadObjectRejectsMissingFields(t *testing.T) {
	t.Parallel()

	client := staticTokenClient(func(req *http.Request) *http.Response {
		t.Fatal("request should not be sent")
		return nil
	})

	if err := client.UploadObject(context.Background(), "bucket", "", "image/png", nil); err == nil {
		t.Fatal("expected error for missing object")
	}
	if err := client.UploadObject(context.Background(), "bucket", "object", "", nil); err == nil {
		t.Fatal("expected error for missing content type")
	}
}

func TestDeleteObjectSuccess(t *testing.T) {
	t.Parallel()

	client := staticTokenClient(func(req *http.Request) *http.Response {
		if req.Method != http.MethodDelete {
			t.Fatalf("expected DELETE, got %s", req.Method)
		}
		if req.Header.Get("Authorization") != "Bearer token" {
			t.Fatalf("unexpected auth %s", req.Header.Get("Authorization"))
		}
		return &http.Response{
			StatusCode: http.StatusNoContent,
			Body:       io.NopCloser(strings.NewReader("")),
			Header:     http.Header{},
		}
	})

	if err := client.DeleteObject(context.Background(), "bucket", "products/file.png"); err != nil {
		t.Fatalf("DeleteObject: %v", err)
	}
}

func TestDeleteObjectNotFound(t *testing.T) {
	t.Parallel()

	client := staticTokenClient(func(req *http.Request) *http.Response {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader("")),
			Header:     http.Header{},
		}
	})

	if err := client.DeleteObject(context.Background(), "bucket", "products/file.png"); err != nil {
		t.Fatalf("DeleteObject not found should succeed: %v", err)
	}
}

func TestObjectURL(t *testing.T) {
	t.Parallel()

	client := &Client{defaultBucket: "bucket"}
	if got := client.ObjectURL("", "products/a.png"); got != "https://storage.googleapis.com/bucket/products/a.png" {
		t.Fatalf("unexpected url %s", got)
	}

	client.publicURL = "https://cdn.ecoswap.dev"
	if got := client.ObjectURL("", "products/a.png"); got != "https://cdn.ecoswap.dev/products/a.png" {
		t.Fatalf("unexpected public url %s", got)
	}
}
