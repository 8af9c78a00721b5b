package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"runcoach/internal/client"
	"runcoach/internal/logger"
)

const usage = `Usage: runcoach-probe [flags] <command> [args]

Commands:
  health                       GET /healthz
  history [page] [size]        GET /api/history
  analysis <sessionId>         GET /api/analysis/{sessionId}
  feedback                     GET /api/feedback
  status                       GET /api/collection/status
  start [real]                 POST /api/collection/start
  stop                         POST /api/collection/stop
  sessions [page] [size]       GET /api/sessions
  live                         GET /api/live
  export-history <file>        GET /api/history/export
  export-analysis <id> <file>  GET /api/analysis/{id}/export

Flags:
`

func main() {
	baseURL := flag.String("url", envOr("RUNCOACH_URL", "http://localhost:5000"), "runcoach base URL")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout")
	retries := flag.Int("retries", 2, "retry count for network errors and 5xx")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	log, err := logger.NewLogger(level, "console", "runcoach-probe")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	c := client.NewClient(*baseURL, *timeout, *retries, log)
	ctx, cancel := context.WithTimeout(context.Background(), *timeout*time.Duration(*retries+1))
	defer cancel()

	if err := run(ctx, c, flag.Arg(0), flag.Args()[1:]); err != nil {
		log.Debug("Probe failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client.Client, cmd string, args []string) error {
	switch cmd {
	case "health":
		if err := c.Health(ctx); err != nil {
			return err
		}
		fmt.Println("✅ runcoach is up")
		return nil
	case "history":
		return printResult(c.History(ctx, intArg(args, 0, 1), intArg(args, 1, 10)))
	case "analysis":
		if len(args) < 1 {
			return fmt.Errorf("analysis requires a session id")
		}
		return printResult(c.Analysis(ctx, args[0]))
	case "feedback":
		return printResult(c.Feedback(ctx))
	case "status":
		return printResult(c.Status(ctx))
	case "start":
		isReal := len(args) > 0 && strings.EqualFold(args[0], "real")
		return printResult(c.StartCollection(ctx, isReal))
	case "stop":
		return printResult(c.StopCollection(ctx))
	case "sessions":
		return printResult(c.Sessions(ctx, intArg(args, 0, 1), intArg(args, 1, 10)))
	case "live":
		return printResult(c.Live(ctx))
	case "export-history":
		if len(args) < 1 {
			return fmt.Errorf("export-history requires an output file")
		}
		return download(ctx, c, "/api/history/export", args[0])
	case "export-analysis":
		if len(args) < 2 {
			return fmt.Errorf("export-analysis requires a session id and an output file")
		}
		return download(ctx, c, client.AnalysisExportPath(args[0]), args[1])
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func printResult[T any](v T, err error) error {
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func download(ctx context.Context, c *client.Client, path, file string) error {
	data, err := c.Download(ctx, path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", file, err)
	}
	fmt.Printf("✅ wrote %d bytes to %s\n", len(data), file)
	return nil
}

func intArg(args []string, i, def int) int {
	if i >= len(args) {
		return def
	}
	var v int
	if _, err := fmt.Sscanf(args[i], "%d", &v); err != nil || v < 1 {
		return def
	}
	return v
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
