package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	log "github.com/sirupsen/logrus"
)

// S3Options configure the S3 backend. Endpoint and PathStyle make it usable
// with S3-compatible services (R2, MinIO). Static keys take precedence over
// the shared credentials profile.
type S3Options struct {
	Profile   string
	Region    string
	Bucket    string
	Endpoint  string
	PathStyle bool
	AccessKey string
	SecretKey string
}

// S3 is an implementation of Store backed by AWS S3 or a compatible service.
type S3 struct {
	opts S3Options

	mu     sync.Mutex
	client *s3.S3
}

func NewS3(opts S3Options) *S3 {
	return &S3{opts: opts}
}

func (s *S3) Get(ctx context.Context, key string) (obj Object, err error) {
	client, err := s.ensureClient()
	if err != nil {
		return Object{}, err
	}
	output, err := client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return Object{}, fmt.Errorf("%q: %w", key, ErrNotFound)
		}
		return Object{}, err
	}
	defer func() {
		if err := output.Body.Close(); err != nil {
			log.WithFields(log.Fields{
				"op":  "get",
				"key": key,
			}).Warning("Could not close response body")
		}
	}()
	body, err := io.ReadAll(output.Body)
	if err != nil {
		return Object{}, err
	}
	return Object{
		ContentType: aws.StringValue(output.ContentType),
		Body:        body,
	}, nil
}

func (s *S3) Put(ctx context.Context, key string, obj Object) (err error) {
	client, err := s.ensureClient()
	if err != nil {
		return err
	}
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(obj.Body),
	}
	if obj.ContentType != "" {
		input.ContentType = aws.String(obj.ContentType)
	}
	_, err = client.PutObjectWithContext(ctx, input)
	return err
}

func (s *S3) ensureClient() (*s3.S3, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return s.client, nil
	}
	config := &aws.Config{
		Region:           aws.String(s.opts.Region),
		S3ForcePathStyle: aws.Bool(s.opts.PathStyle),
	}
	if s.opts.Endpoint != "" {
		config.Endpoint = aws.String(s.opts.Endpoint)
	}
	if s.opts.AccessKey != "" {
		config.Credentials = credentials.NewStaticCredentials(s.opts.AccessKey, s.opts.SecretKey, "")
	} else {
		config.Credentials = credentials.NewSharedCredentials("", s.opts.Profile)
	}
	sess, err := session.NewSession(config)
	if err != nil {
		return nil, err
	}
	s.client = s3.New(sess)
	return s.client, nil
}

func isS3NotFound(err error) bool {
	if rfErr, ok := err.(awserr.RequestFailure); ok {
		if rfErr.StatusCode() == http.StatusNotFound {
			return true
		}
	}
	if aerr, ok := err.(awserr.Error); ok {
		return aerr.Code() == s3.ErrCodeNoSuchKey
	}
	return false
}
