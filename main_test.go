package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hesusruiz/vcutils/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const validSpec = `Title = Book
CHAPTER: Intro [T-intro]
  N: Overview [Concept, T1]
  N: Details [Concept, R: T1]
`

func writeInput(t *testing.T, src string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "book.csp")
	require.NoError(t, os.WriteFile(name, []byte(src), 0644))
	return name
}

func runApp(args ...string) error {
	app := newApp()
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app.Run(append([]string{"csp"}, args...))
}

func TestRunYAML(t *testing.T) {
	input := writeInput(t, validSpec)
	output := filepath.Join(filepath.Dir(input), "book.yaml")

	require.NoError(t, runApp("-o", output, "-f", "yaml", input))

	out, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(out), "kind: Chapter")
	assert.Contains(t, string(out), "uniqueId: 3-N")
}

func TestRunTree(t *testing.T) {
	input := writeInput(t, validSpec)
	output := filepath.Join(filepath.Dir(input), "book.txt")

	require.NoError(t, runApp("--output", output, input))

	out, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(out), "Chapter: Intro [T-intro]\n")
	assert.Contains(t, string(out), "    refer-to -> 3-N\n")
}

func TestRunExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		args     []string
		wantCode int
	}{
		{
			name:     "fatal indentation",
			src:      "CHAPTER: A\n   N: B [Concept]\n",
			wantCode: exitFatal,
		},
		{
			name:     "recoverable error",
			src:      "N: A [Concept, Colour = x]\n",
			wantCode: exitErrors,
		},
		{
			name:     "unresolved is fine",
			src:      "N: A [Concept, R: T9]\n",
			wantCode: exitOK,
		},
		{
			name:     "unresolved in strict mode",
			src:      "N: A [Concept, R: T9]\n",
			args:     []string{"--strict"},
			wantCode: exitErrors,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := writeInput(t, tt.src)
			args := append([]string{"-n"}, tt.args...)
			err := runApp(append(args, input)...)

			if tt.wantCode == exitOK {
				assert.NoError(t, err)
				return
			}
			var exitErr cli.ExitCoder
			require.True(t, errors.As(err, &exitErr))
			assert.Equal(t, tt.wantCode, exitErr.ExitCode())
		})
	}
}

func TestRunDryrun(t *testing.T) {
	input := writeInput(t, validSpec)
	output := filepath.Join(filepath.Dir(input), "book.txt")

	require.NoError(t, runApp("-n", "-o", output, input))
	assert.NoFileExists(t, output)
}

func TestRunBadOptions(t *testing.T) {
	input := writeInput(t, validSpec)

	tests := []struct {
		name string
		args []string
	}{
		{name: "no input", args: nil},
		{name: "unknown format", args: []string{"-f", "xml", input}},
		{name: "zero spaces", args: []string{"-s", "0", input}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runApp(tt.args...)
			var exitErr cli.ExitCoder
			require.True(t, errors.As(err, &exitErr))
			assert.Equal(t, exitFatal, exitErr.ExitCode())
		})
	}
}

func TestOutputFileName(t *testing.T) {
	assert.Equal(t, "book.yaml", outputFileName("book.csp", formatYAML))
	assert.Equal(t, "dir/book.tree", outputFileName("dir/book.csp", formatTree))
	assert.Equal(t, "book.yaml", outputFileName("book", formatYAML))
}

func TestApplyConfig(t *testing.T) {
	cfg, err := yaml.ParseYaml("csp:\n  format: yaml\n  codeStyle: github\n  output: out.yaml\n  strict: true\n")
	require.NoError(t, err)

	opts := &options{format: formatTree, codeStyle: defaultStyle, spaces: 2}
	require.NoError(t, applyConfig(opts, cfg))

	assert.Equal(t, formatYAML, opts.format)
	assert.Equal(t, "github", opts.codeStyle)
	assert.Equal(t, "out.yaml", opts.output)
	assert.True(t, opts.strict)
	assert.Equal(t, 2, opts.spaces)
}

func TestApplyConfigEmpty(t *testing.T) {
	cfg, err := yaml.ParseYaml("")
	require.NoError(t, err)

	opts := &options{format: formatTree, codeStyle: defaultStyle, spaces: 2}
	require.NoError(t, applyConfig(opts, cfg))
	assert.Equal(t, &options{format: formatTree, codeStyle: defaultStyle, spaces: 2}, opts)
}

func TestProcessWatchCancelled(t *testing.T) {
	input := writeInput(t, validSpec)
	output := filepath.Join(filepath.Dir(input), "book.tree")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := &options{input: input, output: output, format: formatTree, spaces: 2}
	require.NoError(t, processWatch(ctx, opts, zap.NewNop().Sugar()))

	// The file is processed once before checking for cancellation
	assert.FileExists(t, output)
}
