package objectstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/weberc2/reels/pkg/types"
)

const DefaultURLExpiry = 15 * time.Minute

// S3BlobStore lists the objects directly beneath a container prefix in a
// single bucket. Nested "directories" aren't descended into.
type S3BlobStore struct {
	Client *s3.S3
	Bucket string

	// URLExpiry is the lifetime of presigned download URLs. It defaults
	// to DefaultURLExpiry.
	URLExpiry time.Duration
}

var _ types.BlobStore = (*S3BlobStore)(nil)

func (bs *S3BlobStore) List(
	ctx context.Context,
	container string,
) ([]types.BlobRef, error) {
	container = types.NormalizeContainer(container)
	var refs []types.BlobRef
	if err := bs.Client.ListObjectsV2PagesWithContext(
		ctx,
		&s3.ListObjectsV2Input{
			Bucket:    &bs.Bucket,
			Prefix:    &container,
			Delimiter: aws.String("/"),
		},
		func(rsp *s3.ListObjectsV2Output, lastPage bool) bool {
			for _, object := range rsp.Contents {
				key := aws.StringValue(object.Key)
				name := strings.TrimPrefix(key, container)
				if name == "" || strings.HasSuffix(name, "/") {
					continue
				}
				refs = append(refs, types.BlobRef{Name: name, Key: key})
			}
			return true
		},
	); err != nil {
		return refs, fmt.Errorf(
			"listing objects in bucket `%s` with prefix `%s`: %w",
			bs.Bucket,
			container,
			err,
		)
	}
	return refs, nil
}

func (bs *S3BlobStore) ResolveDownloadURL(
	ctx context.Context,
	ref types.BlobRef,
) (string, error) {
	req, _ := bs.Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: &bs.Bucket,
		Key:    &ref.Key,
	})
	req.SetContext(ctx)

	expiry := bs.URLExpiry
	if expiry <= 0 {
		expiry = DefaultURLExpiry
	}
	url, err := req.Presign(expiry)
	if err != nil {
		return "", fmt.Errorf(
			"presigning object in bucket `%s` at key `%s`: %w",
			bs.Bucket,
			ref.Key,
			err,
		)
	}
	return url, nil
}

func (bs *S3BlobStore) Metadata(
	ctx context.Context,
	ref types.BlobRef,
) (types.BlobMetadata, error) {
	rsp, err := bs.Client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: &bs.Bucket,
		Key:    &ref.Key,
	})
	if err != nil {
		if err, ok := err.(awserr.Error); ok {
			// HEAD responses have no body, so a missing key surfaces as
			// `NotFound` rather than `NoSuchKey`.
			if err.Code() == s3.ErrCodeNoSuchKey || err.Code() == "NotFound" {
				return types.BlobMetadata{}, &types.ObjectNotFoundErr{
					Bucket: bs.Bucket,
					Key:    ref.Key,
				}
			}
		}
		return types.BlobMetadata{}, fmt.Errorf(
			"getting metadata for object in bucket `%s` at key `%s`: %w",
			bs.Bucket,
			ref.Key,
			err,
		)
	}
	return types.BlobMetadata{
		Size:        aws.Int64Value(rsp.ContentLength),
		ContentType: aws.StringValue(rsp.ContentType),
		CreatedAt:   aws.TimeValue(rsp.LastModified),
	}, nil
}
