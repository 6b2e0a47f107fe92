package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/tutorbook/tutorbook/internal/s3"
)

var _ s3.Service = (*MockS3Service)(nil)

type MockS3Service struct {
	mock.Mock
}

func NewMockS3Service() *MockS3Service {
	return &MockS3Service{}
}

func (m *MockS3Service) UploadDocument(ctx context.Context, document *s3.Document) error {
	args := m.Called(ctx, document)
	return args.Error(0)
}

func (m *MockS3Service) GetPresignedUrl(ctx context.Context, tutorID, id string, docType s3.DocumentType) (string, error) {
	args := m.Called(ctx, tutorID, id, docType)
	return args.String(0), args.Error(1)
}

func (m *MockS3Service) DeleteDocument(ctx context.Context, tutorID, id string, docType s3.DocumentType) error {
	args := m.Called(ctx, tutorID, id, docType)
	return args.Error(0)
}
