package image

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/portal-berita/core/internal/config"
)

// S3Store keeps images in an S3-compatible bucket under the berita/ prefix.
type S3Store struct {
	client *s3.Client
	opts   config.S3Options
}

// NewS3Store builds a client from static credentials. An empty endpoint
// targets AWS itself.
func NewS3Store(opts config.S3Options) (*S3Store, error) {
	if strings.TrimSpace(opts.Bucket) == "" {
		return nil, errors.New("s3 bucket is required")
	}
	s3opts := s3.Options{
		Region:       opts.Region,
		UsePathStyle: opts.PathStyleAccess,
	}
	if opts.AccessKeyID != "" {
		s3opts.Credentials = aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		)
	}
	if opts.Endpoint != "" {
		s3opts.BaseEndpoint = aws.String(opts.Endpoint)
	}
	return &S3Store{client: s3.New(s3opts), opts: opts}, nil
}

func (s *S3Store) Put(ctx context.Context, u *Upload) (string, error) {
	key := newObjectPath(u.Extension)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.opts.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(u.Data),
		ContentLength: aws.Int64(u.Size()),
		ContentType:   aws.String(u.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return key, nil
}

// Delete removes the object. S3 treats deleting a missing key as success.
func (s *S3Store) Delete(ctx context.Context, p string) error {
	key, err := cleanPath(p)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) List(ctx context.Context) ([]Object, error) {
	var out []Object
	pager := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.opts.Bucket),
		Prefix: aws.String(Prefix + "/"),
	})
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		for _, obj := range page.Contents {
			o := Object{Path: aws.ToString(obj.Key), Size: aws.ToInt64(obj.Size)}
			if obj.LastModified != nil {
				o.ModifiedAt = *obj.LastModified
			}
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *S3Store) URL(p string) string {
	if p == "" {
		return ""
	}
	return objectURL(s.opts, p)
}

func objectURL(opts config.S3Options, key string) string {
	key = strings.TrimLeft(key, "/")
	if opts.CustomDomain != "" {
		domain := opts.CustomDomain
		if !strings.HasPrefix(domain, "http://") && !strings.HasPrefix(domain, "https://") {
			domain = "https://" + domain
		}
		return strings.TrimRight(domain, "/") + "/" + key
	}
	if opts.Endpoint != "" {
		endpoint := strings.TrimRight(opts.Endpoint, "/")
		if opts.PathStyleAccess {
			return endpoint + "/" + opts.Bucket + "/" + key
		}
		scheme, host, ok := strings.Cut(endpoint, "://")
		if !ok {
			return "https://" + opts.Bucket + "." + endpoint + "/" + key
		}
		return scheme + "://" + opts.Bucket + "." + host + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", opts.Bucket, opts.Region, key)
}
