package pdf

import (
	"context"
	"encoding/json"
	"testing"

	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/logger"
	"github.com/tutorbook/tutorbook/internal/typst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mocking the typst.Compiler for testing
type MockCompiler struct {
	mock.Mock
}

func (m *MockCompiler) CompileTemplate(ctx context.Context, templateName string, jsonData []byte, options ...typst.CompileOptsBuilder) ([]byte, error) {
	args := m.Called(templateName, jsonData, options)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCompiler) CleanupGeneratedFiles(files ...string) {
	m.Called(files)
}

func (m *MockCompiler) Compile(ctx context.Context, opts typst.CompileOpts) (string, error) {
	args := m.Called(opts)
	return args.String(0), args.Error(1)
}

func (m *MockCompiler) CompileToBytes(ctx context.Context, opts typst.CompileOpts) ([]byte, error) {
	args := m.Called(opts)
	return args.Get(0).([]byte), args.Error(1)
}

func newTestGenerator(compiler typst.Compiler) Generator {
	return NewGenerator(compiler, nil, logger.NewNopLogger())
}

func TestRenderInvoicePdf(t *testing.T) {
	mockCompiler := new(MockCompiler)
	generator := newTestGenerator(mockCompiler)

	data := &InvoiceData{ID: "inv_123", InvoiceCode: "RE-10002601"}
	expectedPDF := []byte("mocked PDF content")

	jsonData, err := json.Marshal(data)
	assert.NoError(t, err)

	mockCompiler.On("CompileTemplate", "invoice.typ", jsonData, mock.Anything).Return(expectedPDF, nil)

	pdf, err := generator.RenderInvoicePdf(context.Background(), data)

	assert.NoError(t, err)
	assert.Equal(t, expectedPDF, pdf)
	mockCompiler.AssertExpectations(t)
}

func TestRenderInvoicePdfOutputFileNamedAfterInvoice(t *testing.T) {
	mockCompiler := new(MockCompiler)
	generator := newTestGenerator(mockCompiler)

	var opts typst.CompileOpts
	mockCompiler.On("CompileTemplate", "invoice.typ", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			for _, opt := range args.Get(2).([]typst.CompileOptsBuilder) {
				opt(&opts)
			}
		}).
		Return([]byte("%PDF"), nil)

	_, err := generator.RenderInvoicePdf(context.Background(), &InvoiceData{ID: "inv_9"})

	assert.NoError(t, err)
	assert.Equal(t, "invoice-inv_9.pdf", opts.OutputFile)
}

func TestRenderInvoicePdf_Error(t *testing.T) {
	mockCompiler := new(MockCompiler)
	generator := newTestGenerator(mockCompiler)

	data := &InvoiceData{ID: "inv_123"}
	expectedError := ierr.NewError("compilation error").Mark(ierr.ErrSystem)

	mockCompiler.On("CompileTemplate", "invoice.typ", mock.Anything, mock.Anything).Return([]byte{}, expectedError)

	pdf, err := generator.RenderInvoicePdf(context.Background(), data)

	assert.Error(t, err)
	assert.ErrorIs(t, err, expectedError)
	assert.True(t, ierr.Is(err, ierr.ErrSystem))
	assert.Nil(t, pdf)
}
