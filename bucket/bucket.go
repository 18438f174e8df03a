// Package bucket fetches compressed Contents indexes from an S3 mirror.
package bucket

import (
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"pkgstats/constants"
)

type Config struct {
	Region string
	Bucket string
	// Endpoint overrides the S3 endpoint, for local stacks.
	Endpoint string
}

// Fetch downloads the compressed Contents index for arch from the bucket and
// returns its raw bytes.
func Fetch(cfg Config, arch string) ([]byte, error) {
	awsCfg := aws.Config{}
	if cfg.Region != "" {
		awsCfg.Region = aws.String(cfg.Region)
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(&awsCfg)
	if err != nil {
		return nil, fmt.Errorf("creating S3 session: %w", err)
	}

	key := fmt.Sprintf(constants.ContentsKey, arch)
	out, err := s3.New(sess).GetObject(&s3.GetObjectInput{
		Bucket: aws.String(cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("fetching s3://%v/%v: %w", cfg.Bucket, key, err)
	}
	defer out.Body.Close()

	content, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading s3://%v/%v: %w", cfg.Bucket, key, err)
	}
	return content, nil
}
