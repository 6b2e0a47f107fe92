package typst

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/tutorbook/tutorbook/internal/config"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/logger"
	"github.com/tutorbook/tutorbook/internal/types"
)

//go:embed templates/*.typ
var embeddedTemplates embed.FS

type Compiler interface {
	Compile(ctx context.Context, opts CompileOpts) (string, error)
	CompileToBytes(ctx context.Context, opts CompileOpts) ([]byte, error)
	CompileTemplate(ctx context.Context, templateName string, data []byte, opts ...CompileOptsBuilder) ([]byte, error)
	CleanupGeneratedFiles(files ...string)
}

// compiler runs the typst binary
type compiler struct {
	logger *logger.Logger
	// Path to the typst binary
	binaryPath string
	// Directory where fonts are stored
	fontDir string
	// Directory overriding the embedded templates, optional
	templateDir string
	// Directory for intermediate and output files
	outputDir string
}

// CompileOpts contains options for compiling a Typst document
type CompileOpts struct {
	// Input file path
	InputFile string
	// Output file name inside the output directory, generated when empty
	OutputFile string
	// Font paths to include
	FontDirs []string
	// Additional command-line arguments
	ExtraArgs []string
}

type CompileOptsBuilder func(c *CompileOpts)

func WithOutputFile(outputFile string) CompileOptsBuilder {
	return func(c *CompileOpts) {
		c.OutputFile = outputFile
	}
}

// NewCompiler creates a new Typst compiler
func NewCompiler(logger *logger.Logger, binaryPath, fontDir, templateDir, outputDir string) Compiler {
	if binaryPath == "" {
		binaryPath = "typst"
	}
	if outputDir == "" {
		outputDir = os.TempDir()
	}
	return &compiler{
		logger:      logger,
		binaryPath:  binaryPath,
		fontDir:     fontDir,
		templateDir: templateDir,
		outputDir:   outputDir,
	}
}

// NewCompilerFromConfig creates the compiler configured under typst
func NewCompilerFromConfig(cfg *config.Configuration, logger *logger.Logger) Compiler {
	return NewCompiler(logger, cfg.Typst.BinaryPath, cfg.Typst.FontDir, cfg.Typst.TemplateDir, cfg.Typst.OutputDir)
}

// Compile compiles a Typst document to PDF and returns the output path
func (c *compiler) Compile(ctx context.Context, opts CompileOpts) (string, error) {
	name := opts.OutputFile
	if name == "" {
		name = fmt.Sprintf("typst-%s.pdf", types.GenerateUUID())
	}
	outputFile := filepath.Join(c.outputDir, name)

	var fontDirs []string
	if c.fontDir != "" {
		fontDirs = append(fontDirs, c.fontDir)
	}
	fontDirs = append(fontDirs, opts.FontDirs...)

	args := []string{"compile", "--root", "/"}
	for _, dir := range fontDirs {
		args = append(args, "--font-path", dir)
	}
	args = append(args, opts.ExtraArgs...)
	args = append(args, opts.InputFile, outputFile)

	cmd := exec.CommandContext(ctx, c.binaryPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		c.logger.Errorw("typst compilation failed",
			"input", opts.InputFile,
			"stderr", stderr.String(),
			"error", err,
		)
		return "", ierr.WithError(err).
			WithMessage("typst compilation failed").
			WithHint("The document could not be rendered").
			WithReportableDetails(map[string]any{
				"stderr": stderr.String(),
			}).
			Mark(ierr.ErrSystem)
	}

	c.logger.Debugw("compiled typst document", "input", opts.InputFile, "output", outputFile)
	return outputFile, nil
}

// CompileToBytes compiles a Typst document and returns the PDF content
func (c *compiler) CompileToBytes(ctx context.Context, opts CompileOpts) ([]byte, error) {
	pdfPath, err := c.Compile(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer c.CleanupGeneratedFiles(pdfPath)

	content, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, ierr.WithError(err).
			WithMessage("failed to read compiled document").
			Mark(ierr.ErrSystem)
	}
	return content, nil
}

// CompileTemplate compiles a template with the provided JSON data.
// The data is written to a file whose path reaches the template as
// sys.inputs.path:
//
//	#let data = json(sys.inputs.path)
func (c *compiler) CompileTemplate(
	ctx context.Context,
	templateName string,
	data []byte,
	opts ...CompileOptsBuilder,
) ([]byte, error) {
	templatePath, cleanupTemplate, err := c.resolveTemplate(templateName)
	if err != nil {
		return nil, err
	}
	defer cleanupTemplate()

	jsonFile, err := os.CreateTemp(c.outputDir, "typst-*.json")
	if err != nil {
		return nil, ierr.WithError(err).
			WithMessage("failed to create temporary json file").
			Mark(ierr.ErrSystem)
	}
	defer c.CleanupGeneratedFiles(jsonFile.Name())

	if _, err := jsonFile.Write(data); err != nil {
		jsonFile.Close()
		return nil, ierr.WithError(err).
			WithMessage("failed to write data to json file").
			Mark(ierr.ErrSystem)
	}
	jsonFile.Close()

	compileOpts := CompileOpts{
		InputFile: templatePath,
		ExtraArgs: []string{"--input", fmt.Sprintf("path=%s", jsonFile.Name())},
	}
	for _, opt := range opts {
		opt(&compileOpts)
	}

	return c.CompileToBytes(ctx, compileOpts)
}

// resolveTemplate prefers a template in the configured directory and falls
// back to the embedded copy, which is extracted next to the outputs.
func (c *compiler) resolveTemplate(name string) (string, func(), error) {
	noop := func() {}
	if c.templateDir != "" {
		path := filepath.Join(c.templateDir, name)
		if _, err := os.Stat(path); err == nil {
			return path, noop, nil
		}
	}

	content, err := embeddedTemplates.ReadFile("templates/" + name)
	if err != nil {
		return "", noop, ierr.WithError(err).
			WithMessagef("template not found: %s", name).
			Mark(ierr.ErrSystem)
	}

	extracted, err := os.CreateTemp(c.outputDir, "template-*.typ")
	if err != nil {
		return "", noop, ierr.WithError(err).
			WithMessage("failed to extract template").
			Mark(ierr.ErrSystem)
	}
	defer extracted.Close()
	if _, err := extracted.Write(content); err != nil {
		return "", noop, ierr.WithError(err).
			WithMessage("failed to extract template").
			Mark(ierr.ErrSystem)
	}
	return extracted.Name(), func() { c.CleanupGeneratedFiles(extracted.Name()) }, nil
}

// CleanupGeneratedFiles removes temporary files created during compilation
func (c *compiler) CleanupGeneratedFiles(files ...string) {
	for _, file := range files {
		if file == "" {
			continue
		}
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			c.logger.Debugw("failed to remove generated file", "file", file, "error", err)
		}
	}
}
