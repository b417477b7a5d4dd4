package main

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// executeArgs runs the given root command with args and returns any error.
// It suppresses cobra's usage/error output so test output stays clean.
func executeArgs(t *testing.T, root *cobra.Command, args ...string) error {
	t.Helper()
	root.SetOut(&strings.Builder{})
	root.SetErr(&strings.Builder{})
	root.SetArgs(args)
	_, err := root.ExecuteC()
	return err
}

// newTestRoot builds the command tree of main() with PersistentPreRun
// stubbed out so the API client is never initialised.
func newTestRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "gmao",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Skip client initialisation in tests.
		},
	}
	root.PersistentFlags().StringVar(&flagURL, "url", defaultURL, "")
	root.PersistentFlags().StringVar(&flagActor, "actor", "", "")
	root.PersistentFlags().StringVar(&flagFmt, "format", "json", "")

	addDomainCommands(root)
	return root
}

// Each case fails argument validation before Run, so the nil client is
// never touched.
func TestArgValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"equipment get needs an id", []string{"equipment", "get"}},
		{"equipment get rejects extras", []string{"equipment", "get", "a", "b"}},
		{"equipment groups needs an id", []string{"equipment", "groups"}},
		{"group get needs an id", []string{"group", "get"}},
		{"group equipment needs an id", []string{"group", "equipment"}},
		{"membership add needs two ids", []string{"membership", "add", "eq-1"}},
		{"membership add rejects three ids", []string{"membership", "add", "a", "b", "c"}},
		{"membership remove needs two ids", []string{"membership", "remove"}},
		{"history needs an equipment id", []string{"history"}},
		{"intervention get needs an id", []string{"intervention", "get"}},
		{"intervention status needs id and status", []string{"intervention", "status", "int-1"}},
		{"audit equipment needs an id", []string{"audit", "equipment"}},
		{"unknown flag", []string{"equipment", "list", "--nope"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := newTestRoot()
			if err := executeArgs(t, root, tc.args...); err == nil {
				t.Errorf("expected error for %v", tc.args)
			}
		})
	}
}

func TestCommandTree(t *testing.T) {
	root := newTestRoot()
	paths := [][]string{
		{"equipment", "list"},
		{"eq", "get"},
		{"group", "list"},
		{"membership", "list"},
		{"membership", "refresh"},
		{"history"},
		{"intervention", "list"},
		{"audit", "equipment"},
		{"audit", "purge"},
	}
	for _, p := range paths {
		cmd, _, err := root.Find(p)
		if err != nil {
			t.Errorf("%v: %v", p, err)
			continue
		}
		if cmd.Name() != p[len(p)-1] && !cmd.HasAlias(p[len(p)-1]) {
			t.Errorf("%v resolved to %q", p, cmd.Name())
		}
	}
}

func TestListFlags(t *testing.T) {
	cases := map[string][]string{
		"equipment":    {"status", "building", "service", "location", "enriched", "limit", "offset"},
		"intervention": {"equipment", "technician", "status", "from", "to", "limit", "offset", "export"},
	}
	root := newTestRoot()
	for parent, flags := range cases {
		cmd, _, err := root.Find([]string{parent, "list"})
		if err != nil {
			t.Fatalf("find %s list: %v", parent, err)
		}
		for _, f := range flags {
			if cmd.Flags().Lookup(f) == nil {
				t.Errorf("%s list: missing --%s", parent, f)
			}
		}
	}

	hist, _, err := root.Find([]string{"history"})
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range []string{"technician", "field", "from", "to", "export"} {
		if hist.Flags().Lookup(f) == nil {
			t.Errorf("history: missing --%s", f)
		}
	}
}

func TestCheckPage(t *testing.T) {
	if err := checkPage(10, 0); err != nil {
		t.Errorf("valid page rejected: %v", err)
	}
	if err := checkPage(-1, 0); err == nil {
		t.Error("negative limit accepted")
	}
	if err := checkPage(0, -5); err == nil {
		t.Error("negative offset accepted")
	}
}
