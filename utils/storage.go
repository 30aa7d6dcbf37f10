package utils

import (
	"context"
	"fmt"
	"time"

	appconfig "trustmission-platform/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var (
	storageClient  *s3.Client
	presignClient  *s3.PresignClient
	storageBucket  string
	presignExpires = 15 * time.Minute
)

// KYC photo kinds accepted by the upload endpoint.
const (
	KYCKindIDFront = "id_front"
	KYCKindIDBack  = "id_back"
	KYCKindSelfie  = "selfie"
)

// InitStorage configures the R2 (S3-compatible) client used for KYC photo
// uploads. Returns an error when credentials are missing; callers may treat
// that as a degraded mode with uploads disabled.
func InitStorage(cfg appconfig.AppConfig) error {
	if cfg.R2AccountID == "" || cfg.R2AccessKeyID == "" || cfg.R2AccessKeySecret == "" || cfg.R2Bucket == "" {
		return fmt.Errorf("R2 storage credentials not configured")
	}
	storageBucket = cfg.R2Bucket

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.R2AccessKeyID, cfg.R2AccessKeySecret, "",
		)),
		awsconfig.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{URL: endpoint}, nil
			}),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to load R2 config: %w", err)
	}

	storageClient = s3.NewFromConfig(awsCfg)
	presignClient = s3.NewPresignClient(storageClient)
	return nil
}

// StorageReady reports whether InitStorage succeeded.
func StorageReady() bool {
	return presignClient != nil
}

// PresignKYCUpload returns a presigned PUT URL plus the object key for one KYC
// photo. The caller uploads directly; the key is then attached to the account.
func PresignKYCUpload(accountID, kind, contentType string) (url, key string, err error) {
	if presignClient == nil {
		return "", "", fmt.Errorf("storage not initialized")
	}
	switch kind {
	case KYCKindIDFront, KYCKindIDBack, KYCKindSelfie:
	default:
		return "", "", fmt.Errorf("unknown KYC photo kind: %s", kind)
	}

	key = fmt.Sprintf("kyc/%s/%s-%s", accountID, kind, uuid.NewString())

	req, err := presignClient.PresignPutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(storageBucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpires))
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return req.URL, key, nil
}

// PresignKYCDownload returns a short-lived GET URL for an admin reviewing a
// stored KYC photo.
func PresignKYCDownload(key string) (string, error) {
	if presignClient == nil {
		return "", fmt.Errorf("storage not initialized")
	}
	req, err := presignClient.PresignGetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: aws.String(storageBucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignExpires))
	if err != nil {
		return "", fmt.Errorf("failed to presign download: %w", err)
	}
	return req.URL, nil
}
