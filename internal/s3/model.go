package s3

// Document is a rendered file archived for a tutor
type Document struct {
	ID      string       `json:"id"`
	TutorID string       `json:"tutor_id"`
	Data    []byte       `json:"data"`
	Kind    DocumentKind `json:"kind"`
	Type    DocumentType `json:"type"`
	// MimeType overrides the content type derived from Kind
	MimeType string `json:"mime_type,omitempty"`
}

func (d *Document) ContentType() string {
	if d.MimeType != "" {
		return d.MimeType
	}
	return d.Kind.ContentType()
}

type DocumentKind string

const (
	DocumentKindPdf  DocumentKind = "pdf"
	DocumentKindFile DocumentKind = "file"
)

func (k DocumentKind) ContentType() string {
	switch k {
	case DocumentKindPdf:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

type DocumentType string

const (
	DocumentTypeInvoice        DocumentType = "invoice"
	DocumentTypeExamAttachment DocumentType = "exam_attachment"
)

func NewInvoicePdf(tutorID, invoiceID string, data []byte) *Document {
	return &Document{
		ID:      invoiceID,
		TutorID: tutorID,
		Data:    data,
		Kind:    DocumentKindPdf,
		Type:    DocumentTypeInvoice,
	}
}

// NewExamAttachment wraps an uploaded exam paper, keeping the client's content type
func NewExamAttachment(tutorID, attachmentID, contentType string, data []byte) *Document {
	return &Document{
		ID:       attachmentID,
		TutorID:  tutorID,
		Data:     data,
		Kind:     DocumentKindFile,
		Type:     DocumentTypeExamAttachment,
		MimeType: contentType,
	}
}
