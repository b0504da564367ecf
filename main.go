package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/peterh/liner"
	"github.com/takoeight0821/rjulia/config"
	"github.com/takoeight0821/rjulia/driver"
	"github.com/takoeight0821/rjulia/server"
)

func main() {
	const (
		inputUsage  = "input file path"
		outputUsage = "output directory"
	)
	var (
		inputPath  string
		outputDir  string
		sourceDir  string
		serveAddr  string
		configPath string
		batch      bool
	)
	flag.StringVar(&inputPath, "input", "", inputUsage)
	flag.StringVar(&inputPath, "i", "", inputUsage+" (shorthand)")
	flag.StringVar(&outputDir, "output", "juliaExamples", outputUsage)
	flag.StringVar(&outputDir, "o", "juliaExamples", outputUsage+" (shorthand)")
	flag.StringVar(&sourceDir, "dir", "RProjectExamples", "directory of R files for batch mode")
	flag.StringVar(&serveAddr, "serve", "", "serve the web interface on this address, e.g. :8080")
	flag.StringVar(&configPath, "config", "", "config file path (default $XDG_CONFIG_HOME/rjulia/config.yaml)")
	flag.BoolVar(&batch, "batch", false, "translate files from -dir")

	defaults := config.Default()
	flag.Int("indent", defaults.IndentWidth, "spaces per indentation level (overrides the config file)")
	flag.Bool("list-positional-keys", defaults.ListPositionalKeys, "key positional list() entries by position (overrides the config file)")
	flag.String("matrix-fallback", defaults.MatrixFallback, "matrix() without dimensions: reshape or passthrough (overrides the config file)")
	flag.String("seq-prefix", defaults.SequencePrefix, "name prefix of sequence variables (overrides the config file)")

	flag.Parse()

	overrides := map[string]string{}
	flag.Visit(func(f *flag.Flag) {
		if _, ok := configFlags[f.Name]; ok {
			overrides[f.Name] = f.Value.String()
		}
	})

	if err := run(inputPath, outputDir, sourceDir, serveAddr, configPath, batch, overrides); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// configFlags set a config option from the text of a command-line flag.
var configFlags = map[string]func(*config.Config, string) error{
	"indent": func(cfg *config.Config, value string) (err error) {
		cfg.IndentWidth, err = strconv.Atoi(value)
		return err
	},
	"list-positional-keys": func(cfg *config.Config, value string) (err error) {
		cfg.ListPositionalKeys, err = strconv.ParseBool(value)
		return err
	},
	"matrix-fallback": func(cfg *config.Config, value string) error {
		cfg.MatrixFallback = value
		return nil
	},
	"seq-prefix": func(cfg *config.Config, value string) error {
		cfg.SequencePrefix = value
		return nil
	},
}

// applyOverrides sets the options given on the command line over cfg and
// validates the result.
func applyOverrides(cfg config.Config, overrides map[string]string) (config.Config, error) {
	for name, value := range overrides {
		set, ok := configFlags[name]
		if !ok {
			return cfg, fmt.Errorf("unknown option -%s", name)
		}
		if err := set(&cfg, value); err != nil {
			return cfg, fmt.Errorf("-%s: %w", name, err)
		}
	}

	return cfg, cfg.Validate()
}

func run(inputPath, outputDir, sourceDir, serveAddr, configPath string, batch bool, overrides map[string]string) error {
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg, err = applyOverrides(cfg, overrides)
	if err != nil {
		return err
	}
	t := driver.NewTranslator(cfg)

	switch {
	case serveAddr != "":
		fmt.Fprintf(os.Stderr, "listening on %s\n", serveAddr)
		return http.ListenAndServe(serveAddr, server.New(t))
	case inputPath != "":
		path, err := t.TranslateFile(inputPath, outputDir)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	case batch:
		return RunBatch(t, sourceDir, outputDir)
	default:
		return RunPrompt(t)
	}
}

var history = filepath.Join(xdg.DataHome, "rjulia", ".rjulia_history")

// RunPrompt reads R statements line by line and prints their translation.
// Every line is translated on its own.
func RunPrompt(t *driver.Translator) error {
	line := liner.NewLiner()
	defer func() {
		if err := os.MkdirAll(filepath.Dir(history), os.ModePerm); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		if f, err := os.Create(history); err == nil {
			defer f.Close()
			if _, err := line.WriteHistory(f); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
		line.Close()
	}()

	if f, err := os.Open(history); err == nil {
		defer f.Close()
		if _, err := line.ReadHistory(f); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	for {
		input, err := line.Prompt("> ")
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				return nil
			}
			return err
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)

		out, err := t.Translate(input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		fmt.Println(out)
	}
}

// RunBatch lists the R files in dir and translates the one the user picks,
// or all of them for "a".
func RunBatch(t *driver.Translator, dir, outDir string) error {
	files, err := driver.ListSources(dir)
	if err != nil {
		return err
	}

	for i, file := range files {
		fmt.Printf("%d: %s\n", i+1, filepath.Base(file))
	}

	line := liner.NewLiner()
	answer, err := line.Prompt(fmt.Sprintf("file to translate [1-%d, a for all]: ", len(files)))
	line.Close()
	if err != nil {
		return err
	}

	answer = strings.TrimSpace(answer)
	if answer == "a" {
		written, err := t.TranslateAll(dir, outDir)
		for _, path := range written {
			fmt.Println(path)
		}
		return err
	}

	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(files) {
		return fmt.Errorf("invalid choice: %q", answer)
	}

	path, err := t.TranslateFile(files[n-1], outDir)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
