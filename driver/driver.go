package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/takoeight0821/rjulia/codegen"
	"github.com/takoeight0821/rjulia/config"
	"github.com/takoeight0821/rjulia/lexer"
	"github.com/takoeight0821/rjulia/parser"
	"github.com/takoeight0821/rjulia/utils"
)

// Translator turns R source into Julia source.
// Every call to Translate is an independent session.
type Translator struct {
	Config config.Config
	// Warnings receives recovered lexical errors. Nil discards them.
	Warnings io.Writer
}

func NewTranslator(cfg config.Config) *Translator {
	return &Translator{Config: cfg, Warnings: os.Stderr}
}

// Translate runs the lexer, the parser and a fresh code generator over source.
// Lexical errors are reported as warnings; the offending characters are skipped.
func (t *Translator) Translate(source string) (string, error) {
	tokens, err := lexer.Lex(source)
	if err != nil {
		t.warn(err)
	}

	program, err := parser.NewParser(tokens).ParseProgram()
	if err != nil {
		return "", fmt.Errorf("parse: %w", err)
	}

	out, err := codegen.NewGenerator(t.Config).Generate(program)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	return out, nil
}

func (t *Translator) warn(err error) {
	if t.Warnings == nil {
		return
	}
	if errs, ok := err.(interface{ Unwrap() []error }); ok {
		for _, err := range errs.Unwrap() {
			fmt.Fprintf(t.Warnings, "warning: %v\n", err)
		}
		return
	}
	fmt.Fprintf(t.Warnings, "warning: %v\n", err)
}

// Translate translates source with the default configuration, reporting
// warnings to stderr.
func Translate(source string) (string, error) {
	return NewTranslator(config.Default()).Translate(source)
}

// ListSources returns the R files in dir, sorted by name.
func ListSources(dir string) ([]string, error) {
	files, err := utils.FindSourceFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, &NoSourcesError{Dir: dir}
	}
	return files, nil
}

type NoSourcesError struct {
	Dir string
}

func (e *NoSourcesError) Error() string {
	return fmt.Sprintf("no R files in %s", e.Dir)
}

// OutputPath returns the path of the Julia file translated from in.
func OutputPath(outDir, in string) string {
	base := filepath.Base(in)
	return filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base))+".jl")
}

// TranslateFile translates the file at in and writes the result under outDir.
// It returns the path written.
func (t *Translator) TranslateFile(in, outDir string) (string, error) {
	source, err := os.ReadFile(in)
	if err != nil {
		return "", err
	}

	out, err := t.Translate(string(source))
	if err != nil {
		return "", fmt.Errorf("%s: %w", in, err)
	}

	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		return "", err
	}

	path := OutputPath(outDir, in)
	if err := os.WriteFile(path, []byte(out+"\n"), 0o644); err != nil {
		return "", err
	}

	return path, nil
}

// TranslateAll translates every R file in dir. A failing file does not stop
// the others; all failures are joined into the returned error.
func (t *Translator) TranslateAll(dir, outDir string) ([]string, error) {
	files, err := ListSources(dir)
	if err != nil {
		return nil, err
	}

	var written []string
	var errs []error
	for _, in := range files {
		path, err := t.TranslateFile(in, outDir)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		written = append(written, path)
	}

	return written, errors.Join(errs...)
}
