package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/marmos91/sharefs/internal/logger"
	"github.com/marmos91/sharefs/pkg/adapter"
	"github.com/marmos91/sharefs/pkg/config"
)

const usage = `sharefs - ShareFile accounts as a filesystem

Usage:
  sharefs [-config path] [-log-level level] <command> [arguments]

Commands:
  init [-force]        write a default config file
  ls [-r] [DIR]        list a directory (recursively with -r)
  stat PATH            print the metadata of a file or directory
  cat PATH             write a file to stdout
  put LOCAL PATH       upload a local file ("-" reads stdin)
  mkdir PATH           create a directory
  rm [-d] PATH         delete a file (a directory with -d)
  mv SRC DST           rename or move
  cp SRC DST           copy a file
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("sharefs", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { _, _ = fmt.Fprint(stderr, usage) }

	configPath := global.String("config", "", "Path to config file (default: $XDG_CONFIG_HOME/sharefs/config.yaml)")
	logLevel := global.String("log-level", "", "Log level override (DEBUG, INFO, WARN, ERROR)")

	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		global.Usage()
		return 2
	}

	command, rest := global.Arg(0), global.Args()[1:]

	if command == "init" {
		return runInit(*configPath, rest, stdout, stderr)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "sharefs: %v\n", err)
		return 1
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
		if err := config.Validate(cfg); err != nil {
			_, _ = fmt.Fprintf(stderr, "sharefs: %v\n", err)
			return 2
		}
	}

	rt, err := config.Initialize(ctx, cfg)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "sharefs: %v\n", err)
		return 1
	}
	defer func() {
		if err := rt.Close(); err != nil {
			logger.Warn("Failed to release client: %v", err)
		}
	}()

	metricsCtx, cancelMetrics := context.WithCancel(ctx)
	defer cancelMetrics()
	rt.StartMetrics(metricsCtx)

	cmd := &commands{fs: rt.Adapter, stdin: stdin, stdout: stdout}
	if err := cmd.dispatch(ctx, command, rest); err != nil {
		return reportError(stderr, command, err)
	}
	return 0
}

func runInit(configPath string, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(stderr)
	force := fs.Bool("force", false, "Overwrite an existing config file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var err error
	if configPath == "" {
		configPath, err = config.InitConfig(*force)
	} else {
		err = config.InitConfigAt(configPath, *force)
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "sharefs: %v\n", err)
		return 1
	}

	_, _ = fmt.Fprintf(stdout, "Configuration written to %s\n", configPath)
	return 0
}

// errUsage marks a malformed command line.
var errUsage = errors.New("invalid arguments")

func reportError(stderr io.Writer, command string, err error) int {
	switch {
	case errors.Is(err, errUsage):
		_, _ = fmt.Fprintf(stderr, "sharefs %s: %v\n\n%s", command, err, usage)
		return 2
	case adapter.IsNotFound(err):
		_, _ = fmt.Fprintf(stderr, "sharefs %s: not found or not permitted\n", command)
		return 1
	default:
		_, _ = fmt.Fprintf(stderr, "sharefs %s: %v\n", command, err)
		return 1
	}
}

type commands struct {
	fs     *adapter.Adapter
	stdin  io.Reader
	stdout io.Writer
}

func (c *commands) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "ls":
		return c.ls(ctx, args)
	case "stat":
		return c.withArgs(args, 1, func(a []string) error { return c.stat(ctx, a[0]) })
	case "cat":
		return c.withArgs(args, 1, func(a []string) error { return c.cat(ctx, a[0]) })
	case "put":
		return c.withArgs(args, 2, func(a []string) error { return c.put(ctx, a[0], a[1]) })
	case "mkdir":
		return c.withArgs(args, 1, func(a []string) error {
			_, err := c.fs.CreateDir(ctx, a[0])
			return err
		})
	case "rm":
		return c.rm(ctx, args)
	case "mv":
		return c.withArgs(args, 2, func(a []string) error { return c.fs.Rename(ctx, a[0], a[1]) })
	case "cp":
		return c.withArgs(args, 2, func(a []string) error { return c.fs.Copy(ctx, a[0], a[1]) })
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func (c *commands) withArgs(args []string, n int, fn func([]string) error) error {
	if len(args) != n {
		return fmt.Errorf("%w: expected %d argument(s), got %d", errUsage, n, len(args))
	}
	return fn(args)
}

func (c *commands) ls(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	recursive := fs.Bool("r", false, "List recursively")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("%w: ls takes at most one directory", errUsage)
	}

	entries, err := c.fs.ListContents(ctx, fs.Arg(0), *recursive)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", e.Type, e.Size, formatTime(e.Timestamp), e.Path)
	}
	return tw.Flush()
}

func (c *commands) stat(ctx context.Context, path string) error {
	meta, err := c.fs.GetMetadata(ctx, path)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
	rows := [][2]string{
		{"path", meta.Path},
		{"type", meta.Type},
		{"size", fmt.Sprint(meta.Size)},
		{"mimetype", meta.Mimetype},
		{"timestamp", formatTime(meta.Timestamp)},
		{"dirname", meta.Dirname},
		{"basename", meta.Basename},
		{"extension", meta.Extension},
		{"id", meta.ID},
		{"parent", meta.ParentID},
	}
	for _, row := range rows {
		_, _ = fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1])
	}
	return tw.Flush()
}

func (c *commands) cat(ctx context.Context, path string) error {
	meta, err := c.fs.ReadStream(ctx, path)
	if err != nil {
		return err
	}
	defer func() { _ = meta.Stream.Close() }()

	_, err = io.Copy(c.stdout, meta.Stream)
	return err
}

func (c *commands) put(ctx context.Context, local, path string) error {
	src := c.stdin
	if local != "-" {
		f, err := os.Open(local)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		src = f
	}

	_, err := c.fs.WriteStream(ctx, path, src)
	return err
}

func (c *commands) rm(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rm", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	dir := fs.Bool("d", false, "Delete a directory")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: rm takes exactly one path", errUsage)
	}

	if *dir {
		return c.fs.DeleteDir(ctx, fs.Arg(0))
	}
	return c.fs.Delete(ctx, fs.Arg(0))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
