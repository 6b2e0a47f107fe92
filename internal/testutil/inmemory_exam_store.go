package testutil

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/tutorbook/tutorbook/internal/domain/exam"
	"github.com/tutorbook/tutorbook/internal/types"
)

// InMemoryExamStandardStore implements exam.StandardRepository, seeded
// with the same catalog as the migrations
type InMemoryExamStandardStore struct {
	*InMemoryStore[*exam.Standard]
}

func NewInMemoryExamStandardStore() *InMemoryExamStandardStore {
	s := &InMemoryExamStandardStore{InMemoryStore: NewInMemoryStore[*exam.Standard]()}
	s.Seed()
	return s
}

// Seed restores the default catalog
func (s *InMemoryExamStandardStore) Seed() {
	now := time.Now().UTC()
	for _, st := range []*exam.Standard{
		{ID: "exs_telc_b1", Name: "telc Deutsch B1", Level: "B1", TotalScore: 300},
		{ID: "exs_telc_b2", Name: "telc Deutsch B2", Level: "B2", TotalScore: 300},
		{ID: "exs_goethe_b1", Name: "Goethe-Zertifikat B1", Level: "B1", TotalScore: 400},
		{ID: "exs_goethe_b2", Name: "Goethe-Zertifikat B2", Level: "B2", TotalScore: 400},
		{ID: "exs_goethe_c1", Name: "Goethe-Zertifikat C1", Level: "C1", TotalScore: 400},
	} {
		st.CreatedAt, st.UpdatedAt = now, now
		s.put(st.ID, st)
	}
}

func (s *InMemoryExamStandardStore) Get(ctx context.Context, id string) (*exam.Standard, error) {
	st, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, notFound("exam standard")
	}
	c := *st
	return &c, nil
}

func (s *InMemoryExamStandardStore) List(ctx context.Context) ([]*exam.Standard, error) {
	items, err := s.InMemoryStore.List(ctx, nil, nil, func(i, j *exam.Standard) bool {
		if i.Level != j.Level {
			return i.Level < j.Level
		}
		return i.Name < j.Name
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(st *exam.Standard, _ int) *exam.Standard {
		c := *st
		return &c
	}), nil
}

// InMemoryExamRecordStore implements exam.RecordRepository. Attachments
// live in their own store and are joined on read.
type InMemoryExamRecordStore struct {
	*InMemoryStore[*exam.Record]
	attachments *InMemoryStore[*exam.Attachment]
}

func NewInMemoryExamRecordStore() *InMemoryExamRecordStore {
	return &InMemoryExamRecordStore{
		InMemoryStore: NewInMemoryStore[*exam.Record](),
		attachments:   NewInMemoryStore[*exam.Attachment](),
	}
}

func copyExamRecord(r *exam.Record) *exam.Record {
	c := r.Copy()
	if c != nil {
		c.Attachments = nil
	}
	return c
}

func copyAttachment(a *exam.Attachment) *exam.Attachment {
	c := *a
	return &c
}

func (s *InMemoryExamRecordStore) Create(ctx context.Context, r *exam.Record) error {
	return s.InMemoryStore.Create(ctx, r.ID, copyExamRecord(r))
}

func (s *InMemoryExamRecordStore) Get(ctx context.Context, id string) (*exam.Record, error) {
	r, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTutorFilter(ctx, r.BaseModel) {
		return nil, notFound("exam record")
	}
	rec := copyExamRecord(r)
	rec.Attachments, err = s.attachmentsOf(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *InMemoryExamRecordStore) attachmentsOf(ctx context.Context, recordID string) ([]*exam.Attachment, error) {
	items, err := s.attachments.List(ctx, nil, func(ctx context.Context, a *exam.Attachment, _ interface{}) bool {
		return a.ExamRecordID == recordID && CheckTutorFilter(ctx, a.BaseModel)
	}, func(i, j *exam.Attachment) bool {
		if !i.CreatedAt.Equal(j.CreatedAt) {
			return i.CreatedAt.Before(j.CreatedAt)
		}
		return i.ID < j.ID
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(a *exam.Attachment, _ int) *exam.Attachment {
		return copyAttachment(a)
	}), nil
}

func (s *InMemoryExamRecordStore) List(ctx context.Context, filter *types.ExamRecordFilter) ([]*exam.Record, error) {
	if filter == nil {
		filter = types.NewExamRecordFilter()
	}
	items, err := s.InMemoryStore.List(ctx, filter, examRecordFilterFn, examRecordSortFn(filter))
	if err != nil {
		return nil, err
	}
	records := make([]*exam.Record, 0, len(items))
	for _, item := range items {
		rec := copyExamRecord(item)
		if rec.Attachments, err = s.attachmentsOf(ctx, rec.ID); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *InMemoryExamRecordStore) Count(ctx context.Context, filter *types.ExamRecordFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, examRecordFilterFn)
}

func (s *InMemoryExamRecordStore) Update(ctx context.Context, r *exam.Record) error {
	if _, err := s.Get(ctx, r.ID); err != nil {
		return err
	}
	return s.InMemoryStore.Mutate(ctx, r.ID, copyExamRecord, func(stored *exam.Record) error {
		stored.ExamStandardID = r.ExamStandardID
		stored.ExamDate = r.ExamDate
		stored.ExamMode = r.ExamMode
		stored.TotalScore = r.TotalScore
		stored.Grade = r.Grade
		stored.UpdatedAt = time.Now().UTC()
		return nil
	})
}

func (s *InMemoryExamRecordStore) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.InMemoryStore.Mutate(ctx, id, copyExamRecord, softDelete[*exam.Record](func(r *exam.Record) *types.BaseModel {
		return &r.BaseModel
	})); err != nil {
		return err
	}
	attachments, err := s.attachmentsOf(ctx, id)
	if err != nil {
		return err
	}
	for _, a := range attachments {
		if err := s.DeleteAttachment(ctx, a.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *InMemoryExamRecordStore) CreateAttachment(ctx context.Context, a *exam.Attachment) error {
	return s.attachments.Create(ctx, a.ID, copyAttachment(a))
}

func (s *InMemoryExamRecordStore) GetAttachment(ctx context.Context, id string) (*exam.Attachment, error) {
	a, err := s.attachments.Get(ctx, id)
	if err != nil || !CheckTutorFilter(ctx, a.BaseModel) {
		return nil, notFound("exam attachment")
	}
	return copyAttachment(a), nil
}

func (s *InMemoryExamRecordStore) DeleteAttachment(ctx context.Context, id string) error {
	if _, err := s.GetAttachment(ctx, id); err != nil {
		return err
	}
	return s.attachments.Mutate(ctx, id, copyAttachment, softDelete[*exam.Attachment](func(a *exam.Attachment) *types.BaseModel {
		return &a.BaseModel
	}))
}

// AttachmentCount counts stored attachments including deleted ones
func (s *InMemoryExamRecordStore) AttachmentCount() int {
	return s.attachments.Len()
}

func (s *InMemoryExamRecordStore) Clear() {
	s.InMemoryStore.Clear()
	s.attachments.Clear()
}

func examRecordFilterFn(ctx context.Context, r *exam.Record, filter interface{}) bool {
	if !CheckTutorFilter(ctx, r.BaseModel) {
		return false
	}
	f, ok := filter.(*types.ExamRecordFilter)
	if !ok || f == nil {
		return true
	}
	if f.StudentID != "" && r.StudentID != f.StudentID {
		return false
	}
	if f.ExamStandardID != "" && r.ExamStandardID != f.ExamStandardID {
		return false
	}
	if f.ExamDateFrom != nil && r.ExamDate.Before(*f.ExamDateFrom) {
		return false
	}
	if f.ExamDateTo != nil && f.ExamDateTo.Before(r.ExamDate) {
		return false
	}
	return true
}

func examRecordSortFn(filter *types.ExamRecordFilter) SortFunc[*exam.Record] {
	desc := filter.GetOrder() != types.OrderAsc
	return func(i, j *exam.Record) bool {
		var less, equal bool
		switch filter.GetSort() {
		case "exam_date":
			less, equal = i.ExamDate.Before(j.ExamDate), i.ExamDate.Equal(j.ExamDate.Time)
		case "total_score":
			less, equal = i.TotalScore.LessThan(j.TotalScore), i.TotalScore.Equal(j.TotalScore)
		default:
			less, equal = i.CreatedAt.Before(j.CreatedAt), i.CreatedAt.Equal(j.CreatedAt)
		}
		if equal {
			return i.ID < j.ID
		}
		return less != desc
	}
}

// InMemoryOfficialExamResultStore implements exam.OfficialResultRepository
type InMemoryOfficialExamResultStore struct {
	*InMemoryStore[*exam.OfficialResult]
}

func NewInMemoryOfficialExamResultStore() *InMemoryOfficialExamResultStore {
	return &InMemoryOfficialExamResultStore{InMemoryStore: NewInMemoryStore[*exam.OfficialResult]()}
}

func copyOfficialResult(r *exam.OfficialResult) *exam.OfficialResult {
	c := *r
	c.ExamStandardID = copyPtr(r.ExamStandardID)
	return &c
}

func (s *InMemoryOfficialExamResultStore) Create(ctx context.Context, r *exam.OfficialResult) error {
	return s.InMemoryStore.Create(ctx, r.ID, copyOfficialResult(r))
}

func (s *InMemoryOfficialExamResultStore) Get(ctx context.Context, id string) (*exam.OfficialResult, error) {
	r, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTutorFilter(ctx, r.BaseModel) {
		return nil, notFound("official exam result")
	}
	return copyOfficialResult(r), nil
}

func (s *InMemoryOfficialExamResultStore) List(ctx context.Context, filter *types.OfficialExamResultFilter) ([]*exam.OfficialResult, error) {
	if filter == nil {
		filter = types.NewOfficialExamResultFilter()
	}
	items, err := s.InMemoryStore.List(ctx, filter, officialResultFilterFn, func(i, j *exam.OfficialResult) bool {
		desc := filter.GetOrder() != types.OrderAsc
		if filter.GetSort() == "created_at" {
			if i.CreatedAt.Equal(j.CreatedAt) {
				return i.ID < j.ID
			}
			return i.CreatedAt.Before(j.CreatedAt) != desc
		}
		if i.ExamDate.Equal(j.ExamDate.Time) {
			return i.ID < j.ID
		}
		return i.ExamDate.Before(j.ExamDate) != desc
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(r *exam.OfficialResult, _ int) *exam.OfficialResult {
		return copyOfficialResult(r)
	}), nil
}

func (s *InMemoryOfficialExamResultStore) Count(ctx context.Context, filter *types.OfficialExamResultFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, officialResultFilterFn)
}

func (s *InMemoryOfficialExamResultStore) Update(ctx context.Context, r *exam.OfficialResult) error {
	if _, err := s.Get(ctx, r.ID); err != nil {
		return err
	}
	return s.InMemoryStore.Mutate(ctx, r.ID, copyOfficialResult, func(stored *exam.OfficialResult) error {
		stored.ExamStandardID = copyPtr(r.ExamStandardID)
		stored.ExamNameManual = r.ExamNameManual
		stored.ExamDate = r.ExamDate
		stored.ResultStatus = r.ResultStatus
		stored.TotalScore = r.TotalScore
		stored.Grade = r.Grade
		stored.Memo = r.Memo
		stored.UpdatedAt = time.Now().UTC()
		return nil
	})
}

func (s *InMemoryOfficialExamResultStore) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.InMemoryStore.Mutate(ctx, id, copyOfficialResult, softDelete[*exam.OfficialResult](func(r *exam.OfficialResult) *types.BaseModel {
		return &r.BaseModel
	}))
}

func officialResultFilterFn(ctx context.Context, r *exam.OfficialResult, filter interface{}) bool {
	if !CheckTutorFilter(ctx, r.BaseModel) {
		return false
	}
	f, ok := filter.(*types.OfficialExamResultFilter)
	if !ok || f == nil {
		return true
	}
	if f.StudentID != "" && r.StudentID != f.StudentID {
		return false
	}
	if f.ResultStatus != "" && r.ResultStatus != f.ResultStatus {
		return false
	}
	return true
}

// softDelete marks the base model of an item deleted
func softDelete[T any](base func(T) *types.BaseModel) func(T) error {
	return func(item T) error {
		b := base(item)
		b.Status = types.StatusDeleted
		b.UpdatedAt = time.Now().UTC()
		return nil
	}
}
