// Package main provides the CLI entrypoint for mapper-synthesizer.
//
// mapper-synthesizer reads a YAML mapping profile and, for every type pair it
// declares:
//   - synthesizes the mapping expression and prints it
//   - optionally explains the decision taken for each destination field
//   - optionally renders the SQL projection of the source table
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"expression-mapper/internal/mapping"
	"expression-mapper/mapper"
	"expression-mapper/query"
	"expression-mapper/store"
	"expression-mapper/warehouse"
)

var errUsage = errors.New("usage: mapper-synthesizer [-v] [-explain] [-sql] mapping.yaml")

type options struct {
	verbose bool
	explain bool
	sql     bool
	path    string
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, err)
		}

		return 2
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if err := synthesizeAll(ctx, stdout, logger, opts); err != nil {
		logger.ErrorContext(ctx, "synthesis failed", slog.String("profile", opts.path), slog.Any("error", err))
		return 1
	}

	return 0
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("mapper-synthesizer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.BoolVar(&opts.verbose, "v", false, "log synthesis decisions")
	fs.BoolVar(&opts.explain, "explain", false, "print the decision taken for every destination field")
	fs.BoolVar(&opts.sql, "sql", false, "print the SQL projection of the source table")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() != 1 {
		return nil, errUsage
	}

	opts.path = fs.Arg(0)

	return opts, nil
}

// registry knows the demo record types and the transforms a profile may use.
func registry() (*mapping.Registry, error) {
	reg := mapping.NewRegistry()

	mapping.Register[store.Order](reg)
	mapping.Register[store.Product](reg)
	mapping.Register[store.Customer](reg)
	mapping.Register[warehouse.Order](reg)
	mapping.Register[warehouse.Product](reg)
	mapping.Register[warehouse.Contact](reg)

	transforms := map[string]any{
		"amount":    warehouse.Amount,
		"full_name": warehouse.FullName,
		"label":     warehouse.Label,
	}

	for name, fn := range transforms {
		if err := reg.AddFunc(name, fn); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

func synthesizeAll(ctx context.Context, out io.Writer, logger *slog.Logger, opts *options) error {
	reg, err := registry()
	if err != nil {
		return err
	}

	f, err := mapping.LoadFile(opts.path)
	if err != nil {
		return err
	}

	if diags := mapping.Validate(f, reg); len(diags.All()) > 0 {
		if _, err := diags.WriteTo(out); err != nil {
			return err
		}

		if diags.HasErrors() {
			return diags.Err()
		}
	}

	resolved, err := mapping.ResolveAll(f, reg)
	if err != nil {
		return err
	}

	for i, r := range resolved {
		if i > 0 {
			fmt.Fprintln(out)
		}

		logger.DebugContext(ctx, "synthesizing", slog.String("source", r.Source.String()), slog.String("target", r.Target.String()))

		if err := synthesizeOne(out, logger, r, opts); err != nil {
			return fmt.Errorf("%s -> %s: %w", r.Source, r.Target, err)
		}
	}

	return nil
}

func synthesizeOne(out io.Writer, logger *slog.Logger, r *mapping.Resolved, opts *options) error {
	mopts := append([]mapper.Option{mapper.WithLogger(logger)}, r.Options...)

	lambda, diags, err := mapper.Explain(r.Source, r.Target, mopts...)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "# %s -> %s\n%s\n", r.Source, r.Target, lambda)

	if opts.explain {
		if _, err := diags.WriteTo(out); err != nil {
			return err
		}
	}

	if !opts.sql {
		return nil
	}

	table, err := query.FromType(tableName(r.Source.Name()), r.Source)
	if err != nil {
		return err
	}

	projected, err := mapper.Project(table, r.Source, r.Target, mopts...)
	if err != nil {
		return err
	}

	stmt, err := projected.(*query.Table).SQL()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, stmt.SQL)

	if len(stmt.Args) > 0 {
		fmt.Fprintf(out, "-- args: %v\n", stmt.Args)
	}

	return nil
}

// tableName turns a type name into a plural snake_case table name:
// OrderItem becomes order_items.
func tableName(name string) string {
	var b strings.Builder

	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}

			r = unicode.ToLower(r)
		}

		b.WriteRune(r)
	}

	return b.String() + "s"
}
