package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/fatih/color"
	"github.com/hesusruiz/contentspec/contentspec"
	"github.com/hesusruiz/vcutils/yaml"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const defaultConfigFile = "csp.yaml"

// Exit codes
const (
	exitOK     = 0
	exitErrors = 1
	exitFatal  = 2
)

const (
	formatTree      = "tree"
	formatYAML      = "yaml"
	defaultStyle    = "swapoff"
	watchInterval   = 1 * time.Second
	outputFilePerms = 0664
)

var debug bool

var (
	stdoutTTY = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	stderrTTY = isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
)

// options is the configuration of one run, from the config file and the flags
type options struct {
	input     string
	output    string
	format    string
	diagram   string
	codeStyle string
	spaces    int
	strict    bool
	dryrun    bool
	watch     bool
}

// newOptions reads the config file, if any, and then applies the flags.
// A flag given in the command line always wins over the config file.
func newOptions(c *cli.Context) (*options, error) {
	opts := &options{
		format:    formatTree,
		codeStyle: defaultStyle,
		spaces:    contentspec.DefaultSpaces,
	}

	configFile := c.String("config")
	if len(configFile) == 0 {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			configFile = defaultConfigFile
		}
	}

	if len(configFile) > 0 {
		cfg, err := yaml.ParseYamlFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", configFile, err)
		}
		if err := applyConfig(opts, cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", configFile, err)
		}
	}

	if c.IsSet("output") {
		opts.output = c.String("output")
	}
	if c.IsSet("format") {
		opts.format = c.String("format")
	}
	if c.IsSet("diagram") {
		opts.diagram = c.String("diagram")
	}
	if c.IsSet("spaces") {
		opts.spaces = c.Int("spaces")
	}
	if c.IsSet("strict") {
		opts.strict = c.Bool("strict")
	}
	opts.dryrun = c.Bool("dryrun")
	opts.watch = c.Bool("watch")

	if opts.format != formatTree && opts.format != formatYAML {
		return nil, fmt.Errorf("unknown format %q", opts.format)
	}
	if opts.spaces < 1 {
		return nil, fmt.Errorf("invalid number of spaces: %d", opts.spaces)
	}

	if c.Args().Present() {
		opts.input = c.Args().First()
	} else {
		return nil, errors.New("no input file provided")
	}

	return opts, nil
}

func applyConfig(opts *options, cfg *yaml.YAML) error {
	if s := cfg.String("csp.spaces", ""); len(s) > 0 {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("csp.spaces: %w", err)
		}
		opts.spaces = n
	}
	opts.format = cfg.String("csp.format", opts.format)
	opts.codeStyle = cfg.String("csp.codeStyle", opts.codeStyle)
	opts.output = cfg.String("csp.output", opts.output)
	opts.diagram = cfg.String("csp.diagram", opts.diagram)
	if cfg.Bool("csp.strict") {
		opts.strict = true
	}
	return nil
}

// outputFileName returns the name of the output file when one is needed and
// was not given: the input file name with the extension of the format.
func outputFileName(input string, format string) string {
	ext := path.Ext(input)
	if len(ext) == 0 {
		return input + "." + format
	}
	return strings.TrimSuffix(input, ext) + "." + format
}

// getColor returns a color that prints plain text when noColor is true.
func getColor(noColor bool, attributes ...color.Attribute) *color.Color {
	if noColor {
		c := color.New()
		c.DisableColor()
		return c
	}

	c := color.New(attributes...)
	c.EnableColor()
	return c
}

// printDiagnostics writes the diagnostics and the relationship problems in
// a human friendly way.
func printDiagnostics(w io.Writer, p *contentspec.Parser, noColor bool) {
	warnColor := getColor(noColor, color.FgYellow)
	errColor := getColor(noColor, color.FgRed)
	fatalColor := getColor(noColor, color.FgRed, color.Bold)
	lineColor := getColor(noColor, color.Faint)

	for _, se := range p.SyntaxErrors() {
		var c *color.Color
		switch se.Severity {
		case contentspec.Warning:
			c = warnColor
		case contentspec.Error:
			c = errColor
		default:
			c = fatalColor
		}
		fmt.Fprintf(w, "%s:%d: %s %s\n", se.Filename, se.Line, c.Sprint(se.Severity.String()+":"), se.Msg)
		for _, l := range strings.Split(se.Text, "\n") {
			fmt.Fprintf(w, "    %s\n", lineColor.Sprint(l))
		}
	}

	if doc := p.Document(); doc != nil {
		for _, problem := range doc.Problems {
			fmt.Fprintf(w, "%s: %s %s\n", doc.Filename, warnColor.Sprint(problem.Kind.String()+":"), problem)
		}
	}
}

// highlight writes src with syntax highlighting for a terminal.
func highlight(w io.Writer, src string, language string, styleName string) error {
	l := lexers.Get(language)
	if l == nil {
		l = lexers.Fallback
	}
	l = chroma.Coalesce(l)

	s := styles.Get(styleName)
	if s == nil {
		s = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	it, err := l.Tokenise(nil, src)
	if err != nil {
		return err
	}
	return formatter.Format(w, s, it)
}

// render generates the output in the requested format.
func render(doc *contentspec.Document, format string) ([]byte, error) {
	if format == formatYAML {
		return doc.ExportYAML()
	}

	var buf bytes.Buffer
	if err := doc.WriteOutline(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// processFile parses the input file once and writes the outputs.
// It returns the exit code for the run.
func processFile(opts *options, sugar *zap.SugaredLogger) (int, error) {
	parserOpts := []contentspec.Option{contentspec.WithSpaces(opts.spaces)}
	if debug {
		parserOpts = append(parserOpts, contentspec.WithLogger(sugar.Named("parser")))
	}

	p, err := contentspec.ParseFromFile(opts.input, parserOpts...)
	if p != nil {
		printDiagnostics(os.Stderr, p, !stderrTTY)
	}
	if err != nil {
		return exitFatal, err
	}

	doc := p.Document()
	sugar.Debugw("parsed", "file", opts.input, "levels", len(doc.Levels), "topics", len(doc.Topics),
		"relationships", len(doc.Relationships), "problems", len(doc.Problems))

	code := exitOK
	if p.HasErrors() {
		code = exitErrors
	}
	if opts.strict && (len(p.SyntaxErrors()) > 0 || len(doc.Problems) > 0) {
		code = exitErrors
	}

	// Do nothing else if flag dryrun was specified
	if opts.dryrun {
		return code, nil
	}

	out, err := render(doc, opts.format)
	if err != nil {
		return exitFatal, err
	}

	if len(opts.output) == 0 {
		if stdoutTTY && opts.format == formatYAML {
			err = highlight(os.Stdout, string(out), "yaml", opts.codeStyle)
		} else {
			_, err = os.Stdout.Write(out)
		}
		if err != nil {
			return exitFatal, err
		}
	} else {
		if err := os.WriteFile(opts.output, out, outputFilePerms); err != nil {
			return exitFatal, err
		}
	}

	if len(opts.diagram) > 0 {
		svg, err := doc.RenderSVG(context.Background())
		if err != nil {
			return exitFatal, err
		}
		if err := os.WriteFile(opts.diagram, svg, outputFilePerms); err != nil {
			return exitFatal, err
		}
	}

	return code, nil
}

// processWatch checks periodically if the input file has been modified, and if so
// it processes the file again and writes the outputs
func processWatch(ctx context.Context, opts *options, sugar *zap.SugaredLogger) error {

	var oldTimestamp time.Time

	// Loop until cancelled
	for {

		// Get the modified timestamp of the input file
		info, err := os.Stat(opts.input)
		if err != nil {
			return err
		}
		currentTimestamp := info.ModTime()

		// If current modified timestamp is newer than the previous timestamp, process the file
		if oldTimestamp.Before(currentTimestamp) {
			oldTimestamp = currentTimestamp
			sugar.Infow("processing", "file", opts.input)
			if _, err := processFile(opts, sugar); err != nil {
				// Keep watching, the next save may fix it
				sugar.Errorw("processing failed", "file", opts.input, "error", err)
			}
		}

		// Check again in one second
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(watchInterval):
		}
	}
}

// process is the main entry point of the program
func process(c *cli.Context) error {

	debug = c.Bool("debug")

	var z *zap.Logger
	var err error

	// Setup the logging system
	if debug {
		z, err = zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
	} else {
		z, err = zap.NewProduction()
		if err != nil {
			panic(err)
		}
	}

	sugar := z.Sugar()
	defer sugar.Sync()

	opts, err := newOptions(c)
	if err != nil {
		return cli.Exit(err.Error(), exitFatal)
	}

	// If the user specified to watch, loop processing the input file when modified.
	// Outputs go to files, the terminal is used for the diagnostics.
	if opts.watch {
		if len(opts.output) == 0 {
			opts.output = outputFileName(opts.input, opts.format)
		}
		fmt.Printf("watching %v and generating %v\n", opts.input, opts.output)
		if err := processWatch(c.Context, opts, sugar); err != nil {
			return cli.Exit(err.Error(), exitFatal)
		}
		return nil
	}

	code, err := processFile(opts, sugar)
	if err != nil {
		return cli.Exit(err.Error(), code)
	}
	if code != exitOK {
		return cli.Exit("", code)
	}

	return nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "csp",
		Version:  "v0.1.0",
		Compiled: time.Now(),
		Authors: []*cli.Author{
			{
				Name:  "Jesus Ruiz",
				Email: "hesus.ruiz@gmail.com",
			},
		},
		Usage:     "parse a content specification and report its structure",
		UsageText: "csp [options] INPUT_FILE",
		Action:    process,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write the result to `FILE` (default is the standard output)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "output `FORMAT`: tree or yaml",
				Value:   formatTree,
			},
			&cli.StringFlag{
				Name:    "diagram",
				Aliases: []string{"g"},
				Usage:   "write an SVG diagram of the structure to `FILE`",
			},
			&cli.IntFlag{
				Name:    "spaces",
				Aliases: []string{"s"},
				Usage:   "indentation unit, unless the document sets Spaces",
				Value:   contentspec.DefaultSpaces,
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "read configuration from `FILE` (default is csp.yaml if it exists)",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "fail also on warnings and unresolved relationships",
			},
			&cli.BoolFlag{
				Name:    "dryrun",
				Aliases: []string{"n"},
				Usage:   "do not generate output, just check the input file",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "run in debug mode",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "watch the file for changes",
			},
		},
	}
}

func main() {

	app := newApp()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFatal)
	}

}
