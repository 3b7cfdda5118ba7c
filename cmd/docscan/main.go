package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zombor/docscan/internal/document"
	"github.com/zombor/docscan/internal/export"
	"github.com/zombor/docscan/internal/render"
	"github.com/zombor/docscan/internal/scanning"
	"github.com/zombor/docscan/internal/server"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

// rootConfig holds the flags shared by every subcommand
type rootConfig struct {
	dbPath         *string
	storagePath    *string
	storageBackend *string
	minioEndpoint  *string
	minioAccessKey *string
	minioSecretKey *string
	minioBucket    *string
	minioSSL       *bool
	showVersion    *bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		slog.Error("docscan failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	rootFlags := ff.NewFlagSet("docscan")
	cfg := rootConfig{
		dbPath:         rootFlags.StringLong("db", "docscan.db", "Database file path"),
		storagePath:    rootFlags.StringLong("storage", "./documents", "Storage directory path for the local backend"),
		storageBackend: rootFlags.StringLong("storage-backend", "local", "Storage backend: 'local' or 'minio'"),
		minioEndpoint:  rootFlags.StringLong("minio-endpoint", "", "MinIO endpoint (host:port)"),
		minioAccessKey: rootFlags.StringLong("minio-access-key", "", "MinIO access key"),
		minioSecretKey: rootFlags.StringLong("minio-secret-key", "", "MinIO secret key"),
		minioBucket:    rootFlags.StringLong("minio-bucket", "docscan", "MinIO bucket name"),
		minioSSL:       rootFlags.BoolLong("minio-ssl", "Use TLS for MinIO"),
		showVersion:    rootFlags.BoolLong("version", "Show version information"),
	}

	rootCmd := &ff.Command{
		Name:      "docscan",
		Usage:     "docscan [FLAGS] <SUBCOMMAND> ...",
		ShortHelp: "scan documents and export them as PDF, DOCX, HTML, text or images",
		Flags:     rootFlags,
		Exec: func(ctx context.Context, args []string) error {
			if *cfg.showVersion {
				fmt.Println(version)
				return nil
			}
			return ff.ErrHelp
		},
		Subcommands: []*ff.Command{
			serveCommand(rootFlags, cfg),
			exportCommand(rootFlags, cfg),
		},
	}

	err := rootCmd.ParseAndRun(ctx, args, ff.WithEnvVarPrefix("DOCSCAN"))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ff.ErrHelp):
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Command(rootCmd.GetSelected()))
		return nil
	default:
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Command(rootCmd.GetSelected()))
		return err
	}
}

// openStore opens the database and the configured storage backend
func openStore(cfg rootConfig) (*document.BoltDB, document.Storage, error) {
	slog.Info("Initializing database...", "path", *cfg.dbPath)
	db, err := document.NewBoltDB(*cfg.dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing database: %w", err)
	}

	var store document.Storage
	switch *cfg.storageBackend {
	case "local":
		slog.Info("Initializing local storage...", "path", *cfg.storagePath)
		store, err = document.NewLocalStorage(*cfg.storagePath)
	case "minio":
		slog.Info("Initializing MinIO storage...", "endpoint", *cfg.minioEndpoint, "bucket", *cfg.minioBucket)
		store, err = document.NewMinIOStorage(document.MinIOConfig{
			Endpoint:  *cfg.minioEndpoint,
			AccessKey: *cfg.minioAccessKey,
			SecretKey: *cfg.minioSecretKey,
			Bucket:    *cfg.minioBucket,
			UseSSL:    *cfg.minioSSL,
		})
	default:
		err = fmt.Errorf("invalid storage backend %q, valid: local or minio", *cfg.storageBackend)
	}
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("initializing storage: %w", err)
	}
	return db, store, nil
}

func serveCommand(rootFlags *ff.FlagSet, cfg rootConfig) *ff.Command {
	fs := ff.NewFlagSet("serve").SetParent(rootFlags)
	var (
		port        = fs.IntLong("port", 8080, "HTTP server port")
		scannerType = fs.StringLong("scanner", "gemini", "Scanner type: 'gemini' or 'ollama'")
		geminiKey   = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		ollamaURL   = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel = fs.StringLong("ollama-model", "llava", "Ollama model name (e.g., llava, qwen2-vl)")
		authUser    = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass    = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
	)

	return &ff.Command{
		Name:      "serve",
		Usage:     "docscan serve [FLAGS]",
		ShortHelp: "run the HTTP API",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			scanner, err := newScanner(*scannerType, *geminiKey, *geminiModel, *ollamaURL, *ollamaModel)
			if err != nil {
				return err
			}
			defer scanner.Close()

			db, store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			metrics := export.NewMetrics()
			metrics.RegisterCollectors(prometheus.DefaultRegisterer)

			service := document.NewService(db, scanner, store)
			exporter := export.NewCoordinator(export.DefaultRegistry(), service, nil, render.DefaultPageConfig(), metrics)
			srv := server.NewServer(service, exporter, server.BasicAuth{
				Username: *authUser,
				Password: *authPass,
			})

			if *authUser != "" || *authPass != "" {
				slog.Info("Basic auth enabled", "user", *authUser)
			}
			return srv.Start(ctx, fmt.Sprintf(":%d", *port))
		},
	}
}

func newScanner(scannerType, geminiKey, geminiModel, ollamaURL, ollamaModel string) (scanning.Scanner, error) {
	switch scannerType {
	case "gemini":
		apiKey := geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("gemini API key is required: set --gemini-key or GEMINI_API_KEY")
		}
		slog.Info("Initializing Gemini scanner...", "model", geminiModel)
		scanner, err := scanning.NewGemini(apiKey, geminiModel)
		if err != nil {
			return nil, fmt.Errorf("initializing gemini: %w", err)
		}
		return scanner, nil
	case "ollama":
		slog.Info("Initializing Ollama scanner...", "url", ollamaURL, "model", ollamaModel)
		scanner, err := scanning.NewOllama(ollamaURL, ollamaModel)
		if err != nil {
			return nil, fmt.Errorf("initializing ollama: %w", err)
		}
		return scanner, nil
	default:
		return nil, fmt.Errorf("invalid scanner type %q, valid: gemini or ollama", scannerType)
	}
}

func exportCommand(rootFlags *ff.FlagSet, cfg rootConfig) *ff.Command {
	fs := ff.NewFlagSet("export").SetParent(rootFlags)
	var (
		id       = fs.StringLong("id", "", "Document ID")
		format   = fs.StringLong("format", export.FormatPDF, "Export format: pdf, jpeg, png, docx, txt or html")
		out      = fs.StringLong("out", ".", "Output directory; each export gets a fresh subdirectory")
		shareCmd = fs.StringLong("share-cmd", "", "Command run with the exported file path (e.g. xdg-open)")
	)

	return &ff.Command{
		Name:      "export",
		Usage:     "docscan export --id ID [--format pdf] [--out DIR]",
		ShortHelp: "export a saved document to a file",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			if *id == "" {
				return fmt.Errorf("--id is required")
			}

			db, store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			sharer := commandSharer(*shareCmd)

			service := document.NewService(db, nil, store)
			exporter := export.NewCoordinator(export.DefaultRegistry(), service, export.NewFileDelivery(*out, sharer), render.DefaultPageConfig(), nil)

			res, err := exporter.ExportByID(ctx, service, *id, *format)
			if err != nil {
				return err
			}
			fmt.Println(res.Location)
			return nil
		},
	}
}

// commandSharer runs command with the exported file path as its last
// argument. A blank command shares nothing.
func commandSharer(command string) export.Sharer {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return nil
	}
	return export.SharerFunc(func(ctx context.Context, path, mimeType string) error {
		cmd := exec.CommandContext(ctx, parts[0], append(parts[1:], path)...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("running %s: %w", parts[0], err)
		}
		return nil
	})
}
