package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	sc "github.com/vblinov/linkhub/internal/server/config"
)

func newIconService() *IconService {
	return NewIconService(&sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "linkhub-icons",
	})
}

func stubPresignSeams(t *testing.T) {
	t.Helper()

	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := presignPutObject
	origGet := presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
		presignGetObject = origGet
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		if opts.BaseEndpoint == nil || *opts.BaseEndpoint != "http://127.0.0.1:9000" {
			t.Fatalf("base endpoint not applied: %v", opts.BaseEndpoint)
		}
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
}

func TestGetUploadURL_ReturnsKeyAndPresignedURL(t *testing.T) {
	stubPresignSeams(t)

	var capturedKey string
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if *in.Bucket != "linkhub-icons" {
			t.Fatalf("unexpected bucket: %q", *in.Bucket)
		}
		capturedKey = *in.Key
		return &v4.PresignedHTTPRequest{URL: "https://presigned/put"}, nil
	}

	svc := newIconService()
	key, url, err := svc.GetUploadURL(context.Background())
	if err != nil {
		t.Fatalf("GetUploadURL error: %v", err)
	}
	if url != "https://presigned/put" {
		t.Fatalf("unexpected url: %q", url)
	}
	if key != capturedKey || !strings.HasPrefix(key, "icons/") {
		t.Fatalf("unexpected key: %q", key)
	}
}

func TestGetDownloadURL_UsesProvidedKey(t *testing.T) {
	stubPresignSeams(t)

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if *in.Key != "icons/2026/1/1/x" {
			t.Fatalf("unexpected key: %q", *in.Key)
		}
		return &v4.PresignedHTTPRequest{URL: "https://presigned/get"}, nil
	}

	svc := newIconService()
	url, err := svc.GetDownloadURL(context.Background(), "icons/2026/1/1/x")
	if err != nil {
		t.Fatalf("GetDownloadURL error: %v", err)
	}
	if url != "https://presigned/get" {
		t.Fatalf("unexpected url: %q", url)
	}
}

func TestGetUploadURL_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no credentials")
	}

	svc := newIconService()
	if _, _, err := svc.GetUploadURL(context.Background()); err == nil {
		t.Fatalf("expected config error")
	}
}

func TestRandomStorageKey_DatePartitioned(t *testing.T) {
	key := RandomStorageKey()
	parts := strings.Split(key, "/")
	if len(parts) != 5 || parts[0] != "icons" {
		t.Fatalf("unexpected key shape: %q", key)
	}
	if key == RandomStorageKey() {
		t.Fatalf("keys must be unique")
	}
}
