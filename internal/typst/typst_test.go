package typst

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/tutorbook/tutorbook/internal/logger"
)

type TypstCompilerSuite struct {
	suite.Suite
	logger      *logger.Logger
	tempDir     string
	templateDir string
	outputDir   string
	compiler    Compiler
}

func TestTypstCompiler(t *testing.T) {
	suite.Run(t, new(TypstCompilerSuite))
}

func (s *TypstCompilerSuite) SetupTest() {
	s.logger = logger.NewNopLogger()

	var err error
	s.tempDir, err = os.MkdirTemp("", "typst-test-*")
	s.Require().NoError(err)

	s.templateDir = filepath.Join(s.tempDir, "templates")
	s.Require().NoError(os.MkdirAll(s.templateDir, 0755))

	s.outputDir = filepath.Join(s.tempDir, "output")
	s.Require().NoError(os.MkdirAll(s.outputDir, 0755))

	s.compiler = NewCompiler(s.logger, "typst", "", s.templateDir, s.outputDir)
}

func (s *TypstCompilerSuite) TearDownTest() {
	os.RemoveAll(s.tempDir)
}

func (s *TypstCompilerSuite) requireTypst() {
	if _, err := exec.LookPath("typst"); err != nil {
		s.T().Skip("Skipping because typst is not available in the system")
	}
}

func (s *TypstCompilerSuite) TestNewCompilerDefaults() {
	c := NewCompiler(s.logger, "", "fonts", "", "").(*compiler)
	s.Equal("typst", c.binaryPath)
	s.Equal("fonts", c.fontDir)
	s.Equal(os.TempDir(), c.outputDir)
}

func (s *TypstCompilerSuite) TestResolveTemplatePrefersTemplateDir() {
	override := filepath.Join(s.templateDir, "invoice.typ")
	s.Require().NoError(os.WriteFile(override, []byte("Override"), 0644))

	path, cleanup, err := s.compiler.(*compiler).resolveTemplate("invoice.typ")
	s.Require().NoError(err)
	defer cleanup()
	s.Equal(override, path)
}

func (s *TypstCompilerSuite) TestResolveTemplateFallsBackToEmbedded() {
	path, cleanup, err := s.compiler.(*compiler).resolveTemplate("invoice.typ")
	s.Require().NoError(err)

	content, err := os.ReadFile(path)
	s.Require().NoError(err)
	s.Contains(string(content), "sys.inputs.path")

	cleanup()
	_, err = os.Stat(path)
	s.True(os.IsNotExist(err))
}

func (s *TypstCompilerSuite) TestResolveUnknownTemplate() {
	_, _, err := s.compiler.(*compiler).resolveTemplate("missing.typ")
	s.Error(err)
}

func (s *TypstCompilerSuite) TestMissingBinaryFails() {
	c := NewCompiler(s.logger, filepath.Join(s.tempDir, "no-such-typst"), "", s.templateDir, s.outputDir)
	_, err := c.CompileTemplate(context.Background(), "invoice.typ", []byte(`{}`))
	s.Error(err)
}

func (s *TypstCompilerSuite) TestBasicTypstCompilation() {
	s.requireTypst()

	input := filepath.Join(s.tempDir, "basic.typ")
	s.Require().NoError(os.WriteFile(input, []byte("Hello, World!"), 0644))

	result, err := s.compiler.Compile(context.Background(), CompileOpts{
		InputFile:  input,
		OutputFile: "basic.pdf",
	})

	s.NoError(err)
	s.Equal(filepath.Join(s.outputDir, "basic.pdf"), result)
}

func (s *TypstCompilerSuite) TestTemplateCompilationMissingKeyFails() {
	s.requireTypst()

	template := filepath.Join(s.templateDir, "edge_case.typ")
	s.Require().NoError(os.WriteFile(template, []byte(`
#let data = json(sys.inputs.path)
Hello, #data.name!
`), 0644))

	_, err := s.compiler.CompileTemplate(context.Background(), "edge_case.typ", []byte(`{}`))
	s.Error(err)
}

func (s *TypstCompilerSuite) TestInvoiceCompilation() {
	s.requireTypst()

	invoiceJSON := []byte(`{
		"id": "inv_1",
		"invoice_code": "RE-10002601",
		"issue_date": "18.01.2026",
		"due_date": "01.02.2026",
		"is_paid": false,
		"is_small_business": true,
		"tax_notice": "Gemäß § 19 UStG wird keine Umsatzsteuer berechnet.",
		"sender": {"company_name": "Nachhilfe Müller", "address_lines": ["Ringweg 4", "80331 München"]},
		"recipient": {"name": "Anna Schmidt", "address_lines": []},
		"items": [{"position": 1, "description": "Mathe", "quantity": "2", "unit": "Std.", "unit_price": "50,00 €", "vat_rate": "0 %", "total": "100,00 €"}],
		"adjustments": [],
		"items_total": "100,00 €",
		"subtotal": "100,00 €",
		"vat_amount": "0,00 €",
		"total_adjustment": "0,00 €",
		"total": "100,00 €"
	}`)

	pdf, err := s.compiler.CompileTemplate(context.Background(), "invoice.typ", invoiceJSON)

	s.NoError(err)
	s.NotEmpty(pdf)
}
