// Command taskctl is a terminal client for the taskdesk API. It keeps one
// session on disk and gates commands by the signed-in role.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/taskdesk/taskdesk/internal/client/remote"
	"github.com/taskdesk/taskdesk/internal/core/domain"
	"github.com/taskdesk/taskdesk/internal/core/service"
	"github.com/taskdesk/taskdesk/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "taskctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	flags := pflag.NewFlagSet("taskctl", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	apiURL := flags.String("url", envOr("TASKDESK_URL", "http://localhost:8080"), "base URL of the taskdesk API")
	sessionFile := flags.String("session-file", envOr("TASKDESK_SESSION_FILE", defaultSessionFile()), "where the signed-in session is kept")
	logLevel := flags.String("log-level", envOr("TASKDESK_LOG_LEVEL", "warn"), "trace, debug, info, warn or error")
	flags.SetInterspersed(false)
	flags.Usage = func() {
		fmt.Fprintln(stderr, "usage: taskctl [flags] <command> [args]")
		fmt.Fprintln(stderr, "\ncommands:")
		for _, c := range commands {
			fmt.Fprintf(stderr, "  %-12s %s\n", c.name, c.help)
		}
		fmt.Fprintln(stderr, "\nflags:")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return fmt.Errorf("no command given")
	}

	cmd, ok := lookup(flags.Arg(0))
	if !ok {
		flags.Usage()
		return fmt.Errorf("unknown command %q", flags.Arg(0))
	}

	log := logger.Init(logger.Options{Level: *logLevel, Pretty: true, Output: stderr, Service: "taskctl"})

	client := remote.New(*apiURL, remote.NewFileTokenStore(*sessionFile), nil)
	env := &cmdEnv{
		client:  client,
		session: service.NewSessionManager(client, client, log),
		stdin:   stdin,
		out:     stdout,
	}

	// login bootstraps too, so the session it replaces is known and revoked.
	// A stored session of a deactivated account has been dropped by then and
	// does not block signing in as someone else.
	if err := env.session.Bootstrap(ctx); err != nil {
		if cmd.name != "login" || !errors.Is(err, domain.ErrAccountDeactivated) {
			return err
		}
	}
	if err := cmd.gate(env.session); err != nil {
		return err
	}
	return cmd.run(ctx, env, flags.Args()[1:])
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".taskdesk-session.json"
	}
	return filepath.Join(dir, "taskdesk", "session.json")
}
