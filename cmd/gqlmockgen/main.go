package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/farmstrong8/gqlmockgen/internal/diag"
	"github.com/farmstrong8/gqlmockgen/internal/generate"
	"github.com/farmstrong8/gqlmockgen/internal/language"
	"github.com/farmstrong8/gqlmockgen/internal/otel"
	"github.com/farmstrong8/gqlmockgen/internal/schema"
	"github.com/farmstrong8/gqlmockgen/internal/tsrender"
)

const rootUsage = `gqlmockgen: typed mock data generator for GraphQL operations

USAGE:
  gqlmockgen <command> [flags]

COMMANDS:
  generate         Generate TypeScript types and mock factories for operations
  print-schema     Parse and re-render a schema as normalized SDL
  help             Show help for any command
`

const generateUsage = `generate FLAGS:
  -schema <file>                     GraphQL SDL schema file (required)
  -documents <path>                  Operation document file or directory.
                                     Repeatable; directories are walked for
                                     .graphql/.gql files. At least one required.
  -config <file>                     YAML generator configuration
  -out <file>                        Output file (default: stdout)
  -naming.operation-suffix <bool>    Append Query/Mutation/... to root names
                                     (default: true)
  -limits.max-nesting-depth <n>      Object recursion bound (default: 5)
  -limits.max-fragment-depth <n>     Fragment expansion bound (default: 4)
  -otel.endpoint <addr>              OTLP collector endpoint
  -otel.service <name>               OpenTelemetry service name (default: gqlmockgen)
  -verbose                           Debug-level logging
`

const printSchemaUsage = `print-schema FLAGS:
  -schema <file>   GraphQL SDL schema file (required)
  -out <file>      Write normalized SDL to file (default: stdout)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("gqlmockgen", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "generate":
		return cmdGenerate(cmdArgs)
	case "print-schema":
		return cmdPrintSchema(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "generate":
		fmt.Print(generateUsage)
	case "print-schema":
		fmt.Print(printSchemaUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

type stringListFlag []string

func (s *stringListFlag) String() string { return "" }

func (s *stringListFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func cmdGenerate(args []string) error {
	schemaPath := ""
	configPath := ""
	outFile := ""
	operationSuffix := true
	maxNesting := 0
	maxFragment := 0
	otelEndpoint := ""
	otelService := "gqlmockgen"
	verbose := false
	var documents stringListFlag

	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&schemaPath, "schema", schemaPath, "GraphQL SDL schema file")
	fs.Var(&documents, "documents", "Operation document file or directory")
	fs.StringVar(&configPath, "config", configPath, "YAML generator configuration")
	fs.StringVar(&outFile, "out", outFile, "Output file")
	fs.BoolVar(&operationSuffix, "naming.operation-suffix", operationSuffix, "Append operation kind suffix to root names")
	fs.IntVar(&maxNesting, "limits.max-nesting-depth", maxNesting, "Object recursion bound")
	fs.IntVar(&maxFragment, "limits.max-fragment-depth", maxFragment, "Fragment expansion bound")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	fs.BoolVar(&verbose, "verbose", verbose, "Debug-level logging")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, generateUsage)
		return err
	}
	if schemaPath == "" {
		fmt.Fprint(os.Stderr, generateUsage)
		return fmt.Errorf("-schema is required")
	}
	if len(documents) == 0 {
		fmt.Fprint(os.Stderr, generateUsage)
		return fmt.Errorf("at least one -documents is required")
	}

	cfg := generate.Config{}
	if configPath != "" {
		loaded, err := generate.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "naming.operation-suffix":
			cfg.Naming.AddOperationSuffix = &operationSuffix
		case "limits.max-nesting-depth":
			cfg.Limits.MaxNestingDepth = maxNesting
		case "limits.max-fragment-depth":
			cfg.Limits.MaxFragmentDepth = maxFragment
		}
	})

	logger, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	bus := diag.NewBus()
	diag.AttachLogger(bus, logger)
	warnings := (&diag.Collector{}).Attach(bus)

	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()
	if otelEndpoint != "" {
		otel.Instrument(bus)
	}

	sch, err := loadSchema(schemaPath)
	if err != nil {
		return err
	}
	docs, err := loadDocuments(ctx, documents)
	if err != nil {
		return err
	}

	artifacts, err := generate.Run(ctx, sch, docs, generate.Options{Config: cfg, Bus: bus})
	if err != nil {
		return err
	}
	logger.Info("generation complete",
		zap.Int("artifacts", len(artifacts)),
		zap.Int("warnings", warnings.Count()),
	)

	text := tsrender.Render(artifacts)
	if outFile == "" {
		fmt.Print(text)
		return nil
	}
	return os.WriteFile(outFile, []byte(text), 0644)
}

func cmdPrintSchema(args []string) error {
	schemaPath := ""
	outFile := ""
	fs := flag.NewFlagSet("print-schema", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&schemaPath, "schema", schemaPath, "GraphQL SDL schema file")
	fs.StringVar(&outFile, "out", outFile, "Write normalized SDL to file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, printSchemaUsage)
		return err
	}
	if schemaPath == "" {
		fmt.Fprint(os.Stderr, printSchemaUsage)
		return fmt.Errorf("-schema is required")
	}

	sch, err := loadSchema(schemaPath)
	if err != nil {
		return err
	}
	sdl := schema.Render(sch)
	if outFile == "" {
		fmt.Print(sdl)
		return nil
	}
	return os.WriteFile(outFile, []byte(sdl), 0644)
}

func loadSchema(path string) (*schema.Schema, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	sch, err := schema.FromSDL(filepath.Base(path), string(content))
	if err != nil {
		return nil, fmt.Errorf("load schema %s: %w", path, err)
	}
	return sch, nil
}

func loadDocuments(ctx context.Context, paths []string) ([]*language.QueryDocument, error) {
	var docs []*language.QueryDocument
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat documents path: %w", err)
		}
		if info.IsDir() {
			src, err := generate.NewFileSystemSource(p)
			if err != nil {
				return nil, err
			}
			loaded, err := generate.LoadDocuments(ctx, src)
			if err != nil {
				return nil, err
			}
			docs = append(docs, loaded...)
			continue
		}
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read document %s: %w", p, err)
		}
		doc, err := language.ParseQuery(filepath.Base(p), string(content))
		if err != nil {
			return nil, fmt.Errorf("parse document %s: %w", p, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	// timestamps off keeps repeated runs diffable
	cfg.EncoderConfig.TimeKey = ""
	return cfg.Build()
}
