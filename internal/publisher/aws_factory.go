// Where: internal/publisher/aws_factory.go
// What: AWS SDK adapter for the S3 mirror.
// Why: Encapsulate SDK configuration, including custom endpoints.
package publisher

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/quantfeed/edgesync/internal/constants"
)

const defaultAWSRegion = "us-east-1"

// NewS3Client builds an S3API backed by the AWS SDK. A non-empty
// endpoint switches the client to path-style addressing for
// S3-compatible stores.
func NewS3Client(ctx context.Context, endpoint string) (S3API, error) {
	cfg, err := loadAWSConfig(ctx, mirrorAccessKey(), mirrorSecretKey())
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg, func(options *s3.Options) {
		if endpoint != "" {
			options.BaseEndpoint = aws.String(endpoint)
			options.UsePathStyle = true
		}
	})
	return awsS3Client{client: client}, nil
}

type awsS3Client struct {
	client *s3.Client
}

func (c awsS3Client) PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	if c.client == nil {
		return fmt.Errorf("s3 client is nil")
	}
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	return err
}

func loadAWSConfig(ctx context.Context, accessKey, secretKey string) (aws.Config, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = defaultAWSRegion
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	if accessKey != "" && secretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")
		opts = append(opts, config.WithCredentialsProvider(creds))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, err
	}
	return cfg, nil
}

func mirrorAccessKey() string {
	return os.Getenv(constants.EnvMirrorAccessKey)
}

func mirrorSecretKey() string {
	return os.Getenv(constants.EnvMirrorSecretKey)
}
