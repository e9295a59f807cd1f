// Command pfscctl builds a Prometheus file_sd document from a YAML group file
// by driving the editor against a running formatting service.
//
//	pfscctl -server http://localhost:8080 -file groups.yaml [-format yaml] [-export]
//
// Without -file the example group is loaded.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/pkordes/pfscgen/internal/client"
	"github.com/pkordes/pfscgen/internal/domain"
	"github.com/pkordes/pfscgen/internal/editor"
	"github.com/pkordes/pfscgen/internal/notify"
	"github.com/pkordes/pfscgen/internal/render"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "pfscctl:", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("pfscctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		server  = fs.String("server", envOr("PFSC_SERVER", "http://localhost:8080"), "formatting service base URL")
		file    = fs.String("file", "", "YAML group file (default: the example group)")
		format  = fs.String("format", "json", "document format: json or yaml")
		export  = fs.Bool("export", false, "store the document on the server and print its download URL")
		timeout = fs.Duration("timeout", 10*time.Second, "per-request timeout")
		verbose = fs.Bool("v", false, "log re-derivation cycles to stderr")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	f, err := domain.ParseFormat(*format)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	specs, err := loadSpecs(*file)
	if err != nil {
		return err
	}

	fc := client.New(*server, client.WithFormat(f))
	out := render.NewOutput(nil)
	groups := editor.NewGroupCollection(nil)
	n := notify.New(groups, fc, out, notify.WithLogger(logger), notify.WithTimeout(*timeout))
	groups.SetTrigger(n)

	for i := range specs {
		groups.AddGroup(&specs[i])
	}
	if len(specs) == 0 {
		// Nothing to add; derive once so the placeholder is rendered.
		n.Notify()
	}
	n.Wait()

	text := out.Text()
	fmt.Fprintln(stdout, text)

	art, err := out.Artifact()
	if err != nil {
		return err
	}
	if !*export {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	stored, err := fc.CreateExport(ctx, art.Config)
	if err != nil {
		return err
	}
	fmt.Fprintf(stderr, "exported %s: %s/exports/%s\n", stored.Filename, *server, stored.ID)
	return nil
}

// loadSpecs reads group seeds from path, or returns the example group.
func loadSpecs(path string) ([]domain.GroupSpec, error) {
	if path == "" {
		return []domain.GroupSpec{domain.DefaultGroupSpec()}, nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return editor.LoadSpecs(fh)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
