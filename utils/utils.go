package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/takoeight0821/rjulia/token"
	"gopkg.in/yaml.v3"
)

// ErrorAt attaches the offending token to an error.
type ErrorAt struct {
	Where token.Token
	Err   error
}

func (e ErrorAt) Error() string {
	if e.Where.Kind == token.EOF {
		return fmt.Sprintf("at end: %s", e.Err.Error())
	}
	return fmt.Sprintf("at %d: `%s`, %s", e.Where.Line, printable(e.Where), e.Err.Error())
}

func (e ErrorAt) Unwrap() error {
	return e.Err
}

func printable(t token.Token) string {
	if t.Kind == token.NEWLINE {
		return "newline"
	}
	return t.Lexeme
}

type TestData struct {
	Label    string            `yaml:"label"`
	Enable   bool              `yaml:"enable"`
	Input    string            `yaml:"input"`
	Expected map[string]string `yaml:"expected"`
}

func ReadTestData(s []byte) []TestData {
	var data []TestData
	if err := yaml.Unmarshal(s, &data); err != nil {
		panic(err)
	}

	// Remove disabled test cases.
	i := 0
	for _, d := range data {
		if d.Enable {
			data[i] = d
			i++
		}
	}
	data = data[:i]

	return data
}

// FindSourceFiles returns the R source files directly under dir, sorted by name.
func FindSourceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".r") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	slices.Sort(files)

	return files, nil
}
