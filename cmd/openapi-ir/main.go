package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/basketry/openapi3/parser"
	"github.com/basketry/openapi3/validation"
)

var version = "dev"

func getVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return version
}

var rootCmd = &cobra.Command{
	Use:   "openapi-ir",
	Short: "Convert OpenAPI 3.x documents to the Basketry service IR",
	Long: `Convert OpenAPI 3.x documents (JSON or YAML) to the Basketry service IR.

Use '-' as a file argument to read from stdin.`,
	SilenceUsage: true,
}

var (
	outDir        string
	compact       bool
	documentCheck bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>...",
	Short: "Parse documents and emit their service IR as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Parse documents and report violations without emitting IR",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	parseCmd.Flags().StringVarP(&outDir, "out", "o", "", "directory to write one <name>.json per input (default stdout)")
	parseCmd.Flags().BoolVar(&compact, "compact", false, "emit compact JSON instead of indented")
	parseCmd.Flags().BoolVar(&documentCheck, "document-check", false, "run the document shape check before parsing")
	checkCmd.Flags().BoolVar(&documentCheck, "document-check", false, "run the document shape check before parsing")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.Version = getVersion()
}

type parseOutcome struct {
	path   string
	result *parser.Result
}

// parseAll parses every input concurrently and returns the outcomes in
// input order. A read or parse failure on any file fails the whole run.
func parseAll(paths []string) ([]parseOutcome, error) {
	outcomes := make([]parseOutcome, len(paths))

	var g errgroup.Group
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			text, err := readInput(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			opts := []parser.Option{parser.WithSourcePath(path)}
			if documentCheck {
				opts = append(opts, parser.WithDocumentCheck())
			}

			result, err := parser.Parse(text, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			outcomes[i] = parseOutcome{path: path, result: result}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func runParse(cmd *cobra.Command, args []string) error {
	outcomes, err := parseAll(args)
	if err != nil {
		return err
	}

	hadErrors := false
	for _, outcome := range outcomes {
		if text := validation.FormatText(outcome.result.Violations); text != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s:\n%s\n", outcome.path, text)
		}
		if validation.HasErrors(outcome.result.Violations) {
			hadErrors = true
		}

		encoded, err := encodeService(outcome.result)
		if err != nil {
			return fmt.Errorf("%s: %w", outcome.path, err)
		}

		if outDir == "" {
			fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			continue
		}
		if err := writeOutput(outcome.path, encoded); err != nil {
			return err
		}
	}

	if hadErrors {
		return fmt.Errorf("one or more documents had errors")
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	outcomes, err := parseAll(args)
	if err != nil {
		return err
	}

	hadErrors := false
	for _, outcome := range outcomes {
		if text := validation.FormatText(outcome.result.Violations); text != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s:\n%s\n", outcome.path, text)
		}
		if validation.HasErrors(outcome.result.Violations) {
			hadErrors = true
		}
	}

	if hadErrors {
		return fmt.Errorf("one or more documents had errors")
	}
	return nil
}

func encodeService(result *parser.Result) ([]byte, error) {
	if compact {
		return json.Marshal(result.Service)
	}
	return json.MarshalIndent(result.Service, "", "  ")
}

var mkdirOnce sync.Once

func writeOutput(inputPath string, encoded []byte) error {
	var mkdirErr error
	mkdirOnce.Do(func() {
		mkdirErr = os.MkdirAll(outDir, 0o755)
	})
	if mkdirErr != nil {
		return mkdirErr
	}

	name := filepath.Base(inputPath)
	if name == "-" {
		name = "stdin"
	}
	name = name[:len(name)-len(filepath.Ext(name))] + ".json"

	return os.WriteFile(filepath.Join(outDir, name), append(encoded, '\n'), 0o644)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
