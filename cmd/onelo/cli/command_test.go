// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "onelo",
		Subcommands: []*Command{
			{
				Name: "version",
				Run: func(_ context.Context, args []string) error {
					called = "version"
					return nil
				},
			},
			{
				Name: "build",
				Run: func(_ context.Context, args []string) error {
					called = "build"
					return nil
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"build"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "build" {
		t.Errorf("dispatched to %q, want %q", called, "build")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "onelo",
		Subcommands: []*Command{
			{
				Name: "cache",
				Subcommands: []*Command{
					{
						Name: "stats",
						Run: func(_ context.Context, args []string) error {
							called = "cache stats"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"cache", "stats", "extra-arg"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "cache stats" {
		t.Errorf("dispatched to %q, want %q", called, "cache stats")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "extra-arg" {
		t.Errorf("args = %v, want [extra-arg]", receivedArgs)
	}
}

func TestCommand_Execute_PassesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "marker")
	var seen any

	root := &Command{
		Name: "onelo",
		Subcommands: []*Command{{
			Name: "show",
			Run: func(ctx context.Context, args []string) error {
				seen = ctx.Value(key{})
				return nil
			},
		}},
	}
	if err := root.Execute(ctx, []string{"show"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if seen != "marker" {
		t.Errorf("context value = %v, want marker", seen)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var cachePath string
	var target string

	command := &Command{
		Name: "show",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("show", pflag.ContinueOnError)
			flagSet.StringVar(&cachePath, "cache", "/default.db", "cache path")
			return flagSet
		},
		Run: func(_ context.Context, args []string) error {
			if len(args) > 0 {
				target = args[0]
			}
			return nil
		},
	}

	if err := command.Execute(context.Background(), []string{"--cache", "/custom.db", "docs:intro.md"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if cachePath != "/custom.db" {
		t.Errorf("cachePath = %q, want %q", cachePath, "/custom.db")
	}
	if target != "docs:intro.md" {
		t.Errorf("target = %q, want %q", target, "docs:intro.md")
	}
}

func TestCommand_Execute_Params(t *testing.T) {
	type params struct {
		JSONOutput
		Limit int `flag:"limit,n" desc:"rows" default:"10"`
	}
	var p params
	var ran bool

	command := &Command{
		Name:   "status",
		Params: func() any { return &p },
		Run: func(_ context.Context, args []string) error {
			ran = true
			return nil
		},
	}

	if err := command.Execute(context.Background(), []string{"--json", "-n", "3"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !ran || !p.OutputJSON || p.Limit != 3 {
		t.Errorf("ran=%v json=%v limit=%d, want true true 3", ran, p.OutputJSON, p.Limit)
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "build",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("build", pflag.ContinueOnError)
			flagSet.Bool("prune", false, "delete removed entries")
			flagSet.String("cache", "", "cache path")
			return flagSet
		},
		Run: func(_ context.Context, args []string) error { return nil },
	}

	err := command.Execute(context.Background(), []string{"--prnue"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "did you mean --prune") {
		t.Errorf("error = %q, want suggestion for '--prune'", errStr)
	}
	if !strings.Contains(errStr, "prnue") {
		t.Errorf("error = %q, should mention the bad flag", errStr)
	}
	if !strings.Contains(errStr, "--help") {
		t.Errorf("error = %q, should point to --help", errStr)
	}
}

func TestCommand_Execute_UnknownFlagNoSuggestion(t *testing.T) {
	command := &Command{
		Name: "build",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("build", pflag.ContinueOnError)
			flagSet.Bool("prune", false, "delete removed entries")
			return flagSet
		},
		Run: func(_ context.Context, args []string) error { return nil },
	}

	err := command.Execute(context.Background(), []string{"--zzzzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not suggest for distant flag", err.Error())
	}
	if !strings.Contains(err.Error(), "--help") {
		t.Errorf("error = %q, should point to --help", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "onelo",
		Subcommands: []*Command{
			{Name: "build"},
			{Name: "status"},
			{Name: "version"},
		},
	}

	err := root.Execute(context.Background(), []string{"stauts"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if !strings.Contains(err.Error(), "did you mean \"status\"") {
		t.Errorf("error = %q, want suggestion for 'status'", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandNoSuggestion(t *testing.T) {
	root := &Command{
		Name: "onelo",
		Subcommands: []*Command{
			{Name: "build"},
			{Name: "status"},
		},
	}

	err := root.Execute(context.Background(), []string{"zzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not contain suggestion for distant input", err.Error())
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	for _, helpArg := range []string{"-h", "--help", "help"} {
		t.Run(helpArg, func(t *testing.T) {
			var buffer bytes.Buffer
			root := &Command{
				Name:    "onelo",
				Summary: "Content-addressed note cache",
				Stderr:  &buffer,
				Subcommands: []*Command{
					{Name: "build", Summary: "Index sources into the cache"},
				},
			}

			if err := root.Execute(context.Background(), []string{helpArg}); err != nil {
				t.Errorf("Execute(%q) error: %v", helpArg, err)
			}
			if !strings.Contains(buffer.String(), "Index sources into the cache") {
				t.Errorf("help not written to Stderr:\n%s", buffer.String())
			}
		})
	}
}

func TestCommand_Execute_SubcommandHelpFlag(t *testing.T) {
	var buffer bytes.Buffer
	var ran bool
	root := &Command{
		Name:   "onelo",
		Stderr: &buffer,
		Subcommands: []*Command{{
			Name:        "build",
			Description: "Index every configured source.",
			Flags: func() *pflag.FlagSet {
				flagSet := pflag.NewFlagSet("build", pflag.ContinueOnError)
				flagSet.Bool("prune", false, "delete removed entries")
				return flagSet
			},
			Run: func(_ context.Context, args []string) error {
				ran = true
				return nil
			},
		}},
	}

	if err := root.Execute(context.Background(), []string{"build", "--prune", "--help"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if ran {
		t.Error("Run executed despite --help")
	}
	if !strings.Contains(buffer.String(), "onelo build [flags]") {
		t.Errorf("help output missing usage line:\n%s", buffer.String())
	}
}

func TestCommand_Execute_NoArgsShowsHelp(t *testing.T) {
	root := &Command{
		Name:   "onelo",
		Stderr: io.Discard,
		Subcommands: []*Command{
			{Name: "build", Summary: "Index sources"},
		},
	}

	err := root.Execute(context.Background(), []string{})
	if err == nil {
		t.Fatal("Execute() = nil, want error for missing subcommand")
	}
	if !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("error = %q, want 'subcommand required'", err.Error())
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	command := &Command{
		Name:        "onelo",
		Description: "Content-addressed cache for markdown notes.",
		Subcommands: []*Command{
			{Name: "build", Summary: "Index sources into the cache"},
			{Name: "status", Summary: "Summarize the cache"},
			{Name: "version", Summary: "Print version information"},
		},
		Examples: []Example{
			{
				Description: "Index the sources named in a config file",
				Command:     "onelo build --config onelo.yaml",
			},
			{
				Description: "Show a cached entry",
				Command:     "onelo show docs:intro.md",
			},
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"Content-addressed cache for markdown notes.",
		"Usage:",
		"onelo <command> [flags]",
		"Commands:",
		"build",
		"Index sources into the cache",
		"status",
		"Summarize the cache",
		"Examples:",
		"onelo build --config onelo.yaml",
		"onelo show docs:intro.md",
		"Run 'onelo <command> --help'",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_PrintHelp_WithFlags(t *testing.T) {
	command := &Command{
		Name:    "show",
		Summary: "Show a cached entry or blob",
		Usage:   "onelo show <entry|checksum> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("show", pflag.ContinueOnError)
			flagSet.String("cache", "", "cache database")
			flagSet.Bool("raw", false, "print the blob only")
			return flagSet
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"onelo show <entry|checksum> [flags]",
		"Flags:",
		"cache",
		"raw",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_FullName(t *testing.T) {
	root := &Command{Name: "onelo"}
	cache := &Command{Name: "cache", parent: root}
	stats := &Command{Name: "stats", parent: cache}

	if got := root.fullName(); got != "onelo" {
		t.Errorf("root.fullName() = %q, want %q", got, "onelo")
	}
	if got := cache.fullName(); got != "onelo cache" {
		t.Errorf("cache.fullName() = %q, want %q", got, "onelo cache")
	}
	if got := stats.fullName(); got != "onelo cache stats" {
		t.Errorf("stats.fullName() = %q, want %q", got, "onelo cache stats")
	}
}

func TestExitError(t *testing.T) {
	var err error = &ExitError{Code: 2}
	coder, ok := err.(interface{ ExitCode() int })
	if !ok || coder.ExitCode() != 2 {
		t.Errorf("ExitError does not report code 2")
	}
	if err.Error() != "exit code 2" {
		t.Errorf("Error() = %q", err.Error())
	}
}
