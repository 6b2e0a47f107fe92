package exam

import (
	"context"

	"github.com/tutorbook/tutorbook/internal/types"
)

// StandardRepository reads the exam catalog, which is shared by all tutors
type StandardRepository interface {
	Get(ctx context.Context, id string) (*Standard, error)
	List(ctx context.Context) ([]*Standard, error)
}

// RecordRepository defines data access for mock exam records and their
// attachments. Get and List load the attachments.
type RecordRepository interface {
	Create(ctx context.Context, record *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, filter *types.ExamRecordFilter) ([]*Record, error)
	Count(ctx context.Context, filter *types.ExamRecordFilter) (int, error)
	Update(ctx context.Context, record *Record) error
	// Delete removes the record and its attachments
	Delete(ctx context.Context, id string) error

	CreateAttachment(ctx context.Context, attachment *Attachment) error
	GetAttachment(ctx context.Context, id string) (*Attachment, error)
	DeleteAttachment(ctx context.Context, id string) error
}

type OfficialResultRepository interface {
	Create(ctx context.Context, result *OfficialResult) error
	Get(ctx context.Context, id string) (*OfficialResult, error)
	List(ctx context.Context, filter *types.OfficialExamResultFilter) ([]*OfficialResult, error)
	Count(ctx context.Context, filter *types.OfficialExamResultFilter) (int, error)
	Update(ctx context.Context, result *OfficialResult) error
	Delete(ctx context.Context, id string) error
}
