package s3

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutorbook/tutorbook/internal/config"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/logger"
)

func TestObjectKey(t *testing.T) {
	key, err := ObjectKey(config.S3BucketConfig{KeyPrefix: "invoices"}, "tut_1", "inv_1", DocumentTypeInvoice)
	require.NoError(t, err)
	assert.Equal(t, "invoices/tut_1/inv_1.pdf", key)

	key, err = ObjectKey(config.S3BucketConfig{}, "tut_1", "inv_1", DocumentTypeInvoice)
	require.NoError(t, err)
	assert.Equal(t, "tut_1/inv_1.pdf", key)

	_, err = ObjectKey(config.S3BucketConfig{}, "tut_1", "x", DocumentType("receipt"))
	assert.True(t, ierr.Is(err, ierr.ErrSystem))
}

func TestPresignExpiry(t *testing.T) {
	assert.Equal(t, 5*time.Minute, PresignExpiry(config.S3BucketConfig{PresignExpiryDuration: "5m"}))
	assert.Equal(t, defaultPresignExpiryDuration, PresignExpiry(config.S3BucketConfig{PresignExpiryDuration: "soon"}))
	assert.Equal(t, defaultPresignExpiryDuration, PresignExpiry(config.S3BucketConfig{}))
}

func TestNewServiceDisabled(t *testing.T) {
	svc, err := NewService(config.GetDefaultConfig(), logger.NewNopLogger())
	require.NoError(t, err)
	assert.Nil(t, svc)
}

func TestDocumentContentType(t *testing.T) {
	doc := NewInvoicePdf("tut_1", "inv_1", []byte("%PDF"))
	assert.Equal(t, "application/pdf", doc.Kind.ContentType())
	assert.Equal(t, DocumentTypeInvoice, doc.Type)
}

func TestExamAttachmentKeyAndContentType(t *testing.T) {
	key, err := ObjectKey(config.S3BucketConfig{KeyPrefix: "exams"}, "tut_1", "exa_1", DocumentTypeExamAttachment)
	require.NoError(t, err)
	assert.Equal(t, "exams/tut_1/exam_papers/exa_1", key)

	doc := NewExamAttachment("tut_1", "exa_1", "image/png", []byte{0x89})
	assert.Equal(t, "image/png", doc.ContentType())

	doc.MimeType = ""
	assert.Equal(t, "application/octet-stream", doc.ContentType())
}
