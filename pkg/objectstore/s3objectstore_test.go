package objectstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/weberc2/reels/pkg/types"
)

// s3Fake serves just enough of the S3 REST API for `S3BlobStore`: a two-page
// ListObjectsV2 and HeadObject.
func s3Fake(t *testing.T) *httptest.Server {
	t.Helper()
	modified := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	return httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Method == http.MethodGet && r.URL.Path == "/reels":
				if r.URL.Query().Get("list-type") != "2" {
					t.Errorf("wanted `list-type=2`; found `%s`", r.URL.RawQuery)
				}
				if prefix := r.URL.Query().Get("prefix"); prefix != "videos/" {
					t.Errorf("wanted prefix `videos/`; found `%s`", prefix)
				}
				w.Header().Set("Content-Type", "application/xml")
				if r.URL.Query().Get("continuation-token") == "" {
					fmt.Fprint(w, listPage(
						true,
						"page-2",
						"videos/",
						"videos/a.mp4",
						"videos/b.mp4",
					))
					return
				}
				fmt.Fprint(w, listPage(false, "", "videos/c.mp4"))
			case r.Method == http.MethodHead && r.URL.Path == "/reels/videos/a.mp4":
				w.Header().Set("Content-Length", "1234")
				w.Header().Set("Content-Type", "video/mp4")
				w.Header().Set("Last-Modified", modified.Format(http.TimeFormat))
				w.WriteHeader(http.StatusOK)
			case r.Method == http.MethodHead:
				w.WriteHeader(http.StatusNotFound)
			default:
				t.Errorf("unexpected request: %s %s", r.Method, r.URL)
				w.WriteHeader(http.StatusBadRequest)
			}
		},
	))
}

func listPage(truncated bool, next string, keys ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString(`<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">`)
	b.WriteString(`<Name>reels</Name><Prefix>videos/</Prefix>`)
	fmt.Fprintf(&b, `<IsTruncated>%t</IsTruncated>`, truncated)
	if next != "" {
		fmt.Fprintf(&b, `<NextContinuationToken>%s</NextContinuationToken>`, next)
	}
	for _, key := range keys {
		fmt.Fprintf(&b, `<Contents><Key>%s</Key><Size>1</Size></Contents>`, key)
	}
	b.WriteString(`</ListBucketResult>`)
	return b.String()
}

func testStore(t *testing.T, srv *httptest.Server) *S3BlobStore {
	t.Helper()
	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String("us-east-1"),
		Endpoint:         aws.String(srv.URL),
		S3ForcePathStyle: aws.Bool(true),
		Credentials:      credentials.NewStaticCredentials("id", "secret", ""),
	})
	if err != nil {
		t.Fatalf("creating AWS session: %v", err)
	}
	return &S3BlobStore{Client: s3.New(sess), Bucket: "reels"}
}

func TestS3BlobStoreListDrainsPages(t *testing.T) {
	srv := s3Fake(t)
	defer srv.Close()

	refs, err := testStore(t, srv).List(context.Background(), "videos/")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	wanted := []types.BlobRef{
		{Name: "a.mp4", Key: "videos/a.mp4"},
		{Name: "b.mp4", Key: "videos/b.mp4"},
		{Name: "c.mp4", Key: "videos/c.mp4"},
	}
	if len(refs) != len(wanted) {
		t.Fatalf("wanted `%v`; found `%v`", wanted, refs)
	}
	for i := range wanted {
		if refs[i] != wanted[i] {
			t.Fatalf("index %d: wanted `%v`; found `%v`", i, wanted[i], refs[i])
		}
	}
}

func TestS3BlobStoreListAddsTrailingSlash(t *testing.T) {
	srv := s3Fake(t)
	defer srv.Close()

	refs, err := testStore(t, srv).List(context.Background(), "videos")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(refs) != 3 {
		t.Fatalf("wanted `3` refs; found `%v`", refs)
	}
	if wanted := (types.BlobRef{Name: "a.mp4", Key: "videos/a.mp4"}); refs[0] != wanted {
		t.Fatalf("wanted `%v`; found `%v`", wanted, refs[0])
	}
}

func TestS3BlobStoreMetadata(t *testing.T) {
	srv := s3Fake(t)
	defer srv.Close()
	store := testStore(t, srv)

	metadata, err := store.Metadata(
		context.Background(),
		types.BlobRef{Name: "a.mp4", Key: "videos/a.mp4"},
	)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if metadata.Size != 1234 {
		t.Fatalf("wanted `1234`; found `%d`", metadata.Size)
	}
	if metadata.ContentType != "video/mp4" {
		t.Fatalf("wanted `video/mp4`; found `%s`", metadata.ContentType)
	}
	wantedTime := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	if !metadata.CreatedAt.Equal(wantedTime) {
		t.Fatalf("wanted `%s`; found `%s`", wantedTime, metadata.CreatedAt)
	}

	_, err = store.Metadata(
		context.Background(),
		types.BlobRef{Name: "missing.mp4", Key: "videos/missing.mp4"},
	)
	var notFound *types.ObjectNotFoundErr
	if !errors.As(err, &notFound) {
		t.Fatalf("wanted `*types.ObjectNotFoundErr`; found `%T`: %v", err, err)
	}
}

func TestS3BlobStoreResolveDownloadURL(t *testing.T) {
	srv := s3Fake(t)
	defer srv.Close()

	url, err := testStore(t, srv).ResolveDownloadURL(
		context.Background(),
		types.BlobRef{Name: "a.mp4", Key: "videos/a.mp4"},
	)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.HasPrefix(url, srv.URL+"/reels/videos/a.mp4?") {
		t.Fatalf("wanted URL for `reels/videos/a.mp4`; found `%s`", url)
	}
	if !strings.Contains(url, "X-Amz-Signature=") {
		t.Fatalf("wanted presigned URL; found `%s`", url)
	}
}
