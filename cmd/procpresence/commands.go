package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/loykin/procpresence"
	"github.com/loykin/procpresence/pkg/client"
)

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// runWatch loads the config and runs the supervisor until ctx is done.
// Config errors are returned before anything starts.
func runWatch(ctx context.Context, flags *GlobalFlags) error {
	cfg, err := procpresence.LoadConfig(flags.ConfigPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger, closer := cfg.Logger().NewSlogger()
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	slog.SetDefault(logger)

	w, err := procpresence.New(cfg, procpresence.WithLogger(logger))
	if err != nil {
		return err
	}

	if cfg.Server.Listen != "" {
		if err := procpresence.RegisterMetricsDefault(); err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		srv, err := procpresence.NewHTTPServer(cfg.Server.Listen, w)
		if err != nil {
			return fmt.Errorf("start status server: %w", err)
		}
		logger.Info("status server listening", slog.String("addr", srv.Addr))
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	logger.Info("watching process",
		slog.String("process", cfg.Process.String()),
		slog.String("on", procpresence.URL(cfg.Remote, true)),
		slog.String("off", procpresence.URL(cfg.Remote, false)),
		slog.Duration("interval", cfg.PollInterval()))
	return w.Run(ctx)
}

type checkResult struct {
	Process string `json:"process"`
	Present bool   `json:"present"`
	OnURL   string `json:"on_url"`
	OffURL  string `json:"off_url"`
}

func runCheck(out io.Writer, globalFlags *GlobalFlags, flags *CheckFlags) error {
	cfg, err := procpresence.LoadConfig(globalFlags.ConfigPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	w, err := procpresence.New(cfg, procpresence.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		return err
	}
	present, err := w.Check()
	if err != nil {
		return fmt.Errorf("sample process table: %w", err)
	}
	res := checkResult{
		Process: cfg.Process.String(),
		Present: present,
		OnURL:   procpresence.URL(cfg.Remote, true),
		OffURL:  procpresence.URL(cfg.Remote, false),
	}
	if flags.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	state := "absent"
	if present {
		state = "present"
	}
	_, err = fmt.Fprintf(out, "process: %s\nstate:   %s\non:      %s\noff:     %s\n", res.Process, state, res.OnURL, res.OffURL)
	return err
}

// runStatus prints the status reported by a running watcher.
func runStatus(ctx context.Context, out io.Writer, flags *StatusFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	c := client.New(client.Config{
		BaseURL: flags.APIURL,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	st, err := c.Status(ctx)
	if err != nil {
		return fmt.Errorf("query status server at %s: %w", flags.APIURL, err)
	}
	if flags.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}
	_, err = fmt.Fprintf(out, "process:  %s\nstate:    %s\ncycle:    %d\nrestarts: %d\nsamples:  %d\n",
		st.Process, st.State, st.Cycle, st.Restarts, st.Samples)
	if err != nil {
		return err
	}
	if st.LastError != "" {
		_, err = fmt.Fprintf(out, "error:    %s (%s)\n", st.LastError, st.LastErrorAt.Format(time.RFC3339))
	}
	return err
}
