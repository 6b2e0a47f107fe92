package s3

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/tutorbook/tutorbook/internal/config"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/logger"
)

const (
	defaultPresignExpiryDuration = 30 * time.Minute
)

var (
	validDocumentTypes = []DocumentType{DocumentTypeInvoice, DocumentTypeExamAttachment}
)

// Service archives rendered documents. A nil Service means archival is off.
type Service interface {
	UploadDocument(ctx context.Context, document *Document) error
	GetPresignedUrl(ctx context.Context, tutorID, id string, docType DocumentType) (string, error)
	DeleteDocument(ctx context.Context, tutorID, id string, docType DocumentType) error
}

type service struct {
	client    *s3.Client
	presigner *s3.PresignClient
	config    *config.S3Config
	logger    *logger.Logger
}

// NewService returns nil when s3 is disabled
func NewService(cfg *config.Configuration, logger *logger.Logger) (Service, error) {
	if !cfg.S3.Enabled {
		logger.Debugw("s3 archival disabled")
		return nil, nil
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(),
		awsConfig.WithRegion(cfg.S3.Region),
	)
	if err != nil {
		return nil, ierr.WithError(err).WithHint("failed to load aws config").
			Mark(ierr.ErrHTTPClient)
	}

	client := s3.NewFromConfig(awsCfg)
	return &service{
		client:    client,
		presigner: s3.NewPresignClient(client),
		config:    &cfg.S3,
		logger:    logger,
	}, nil
}

// ObjectKey lays documents out per tutor: <prefix>/<tutor_id>/<id>.pdf for
// invoices and <prefix>/<tutor_id>/exam_papers/<id> for exam papers
func ObjectKey(bucket config.S3BucketConfig, tutorID, id string, docType DocumentType) (string, error) {
	switch docType {
	case DocumentTypeInvoice:
		return path.Join(bucket.KeyPrefix, tutorID, fmt.Sprintf("%s.pdf", id)), nil
	case DocumentTypeExamAttachment:
		return path.Join(bucket.KeyPrefix, tutorID, "exam_papers", id), nil
	default:
		return "", ierr.NewErrorf("invalid doc type: %s", docType).
			WithHintf("valid doc types are: %v", validDocumentTypes).
			Mark(ierr.ErrSystem)
	}
}

// PresignExpiry parses the configured duration, falling back to 30 minutes
func PresignExpiry(bucket config.S3BucketConfig) time.Duration {
	duration, err := time.ParseDuration(bucket.PresignExpiryDuration)
	if err != nil || duration <= 0 {
		return defaultPresignExpiryDuration
	}
	return duration
}

func (s *service) bucketConfig(docType DocumentType) config.S3BucketConfig {
	switch docType {
	case DocumentTypeInvoice:
		return s.config.InvoiceBucketConfig
	case DocumentTypeExamAttachment:
		return s.config.ExamAttachmentBucketConfig
	default:
		return config.S3BucketConfig{}
	}
}

// GetPresignedUrl implements Service.
func (s *service) GetPresignedUrl(ctx context.Context, tutorID, id string, docType DocumentType) (string, error) {
	bucket := s.bucketConfig(docType)
	key, err := ObjectKey(bucket, tutorID, id, docType)
	if err != nil {
		return "", err
	}

	result, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(PresignExpiry(bucket)))
	if err != nil {
		return "", ierr.WithError(err).WithHint("failed to get presigned url").
			WithMessagef("bucket:%s, key:%s", bucket.Bucket, key).
			Mark(ierr.ErrHTTPClient)
	}

	return result.URL, nil
}

// UploadDocument implements Service.
func (s *service) UploadDocument(ctx context.Context, document *Document) error {
	bucket := s.bucketConfig(document.Type)
	key, err := ObjectKey(bucket, document.TutorID, document.ID, document.Type)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(document.Data),
		ContentType: aws.String(document.ContentType()),
	})
	if err != nil {
		return ierr.WithError(err).WithHint("failed to upload document").
			WithMessagef("bucket:%s, key:%s", bucket.Bucket, key).
			Mark(ierr.ErrHTTPClient)
	}

	s.logger.Debugw("uploaded document", "bucket", bucket.Bucket, "key", key, "bytes", len(document.Data))
	return nil
}

// DeleteDocument implements Service.
func (s *service) DeleteDocument(ctx context.Context, tutorID, id string, docType DocumentType) error {
	bucket := s.bucketConfig(docType)
	key, err := ObjectKey(bucket, tutorID, id, docType)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return ierr.WithError(err).WithHint("failed to delete document").
			WithMessagef("bucket:%s, key:%s", bucket.Bucket, key).
			Mark(ierr.ErrHTTPClient)
	}

	s.logger.Debugw("deleted document", "bucket", bucket.Bucket, "key", key)
	return nil
}
