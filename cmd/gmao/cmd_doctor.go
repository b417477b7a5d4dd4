package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gmaohq/gmao/client"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration and connectivity",
		Long:  "Run diagnostic checks against config, server, database and membership cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor()
		},
	}
}

type checkResult struct {
	Name   string
	Passed bool
	Detail string
	Hint   string
}

func runDoctor() error {
	fmt.Println("\nGMAO Doctor")
	fmt.Println("===========")

	results := collectChecks()

	fmt.Println()
	allPassed := true
	for _, r := range results {
		if r.Passed {
			if r.Detail != "" {
				fmt.Printf("✅ %s: %s\n", r.Name, r.Detail)
			} else {
				fmt.Printf("✅ %s\n", r.Name)
			}
			continue
		}
		allPassed = false
		if r.Detail != "" {
			fmt.Printf("❌ %s: %s\n", r.Name, r.Detail)
		} else {
			fmt.Printf("❌ %s\n", r.Name)
		}
		if r.Hint != "" {
			fmt.Printf("   Hint: %s\n", r.Hint)
		}
	}

	fmt.Println()
	if !allPassed {
		fmt.Println("❌ Some checks failed.")
		return fmt.Errorf("doctor found issues")
	}
	fmt.Println("✅ All checks passed!")
	return nil
}

func collectChecks() []checkResult {
	var results []checkResult

	cfgPath, _, cfgErr := loadConfigFile()
	if cfgErr != nil {
		results = append(results, checkResult{
			Name: "Config file", Detail: cfgPath,
			Hint: "Run: gmao init",
		})
	} else {
		results = append(results, checkResult{
			Name: "Config file", Passed: true,
			Detail: fmt.Sprintf("found (%s)", cfgPath),
		})
	}

	url, actor := resolveSettings(flagURL, flagActor)
	results = append(results, checkResult{Name: "Server URL", Passed: true, Detail: url})

	if actor == "" {
		results = append(results, checkResult{
			Name: "Actor",
			Hint: "Set --actor, GMAO_ACTOR, or run gmao init; changes will be recorded as anonymous",
		})
	} else {
		results = append(results, checkResult{Name: "Actor", Passed: true, Detail: actor})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c := client.New(url, client.WithActor(actor))

	health, err := c.Health(ctx)
	if err != nil {
		return append(results, checkResult{
			Name: "Server reachable", Detail: url,
			Hint: fmt.Sprintf("Is gmaod running? Error: %v", err),
		})
	}
	results = append(results, checkResult{
		Name: "Server reachable", Passed: true, Detail: "v" + health.Version,
	})

	ready, err := c.Ready(ctx)
	switch {
	case ready != nil:
		results = append(results, readinessChecks(ready)...)
	case err != nil:
		results = append(results, checkResult{Name: "Readiness", Hint: err.Error()})
	}

	st, err := c.Memberships.List(ctx)
	switch {
	case err != nil:
		results = append(results, checkResult{
			Name: "Membership cache", Hint: fmt.Sprintf("Error: %v", err),
		})
	case st.Error != "":
		results = append(results, checkResult{
			Name: "Membership cache", Detail: fmt.Sprintf("stale at version %d", st.Version),
			Hint: "Last refresh failed: " + st.Error + ". Try: gmao membership refresh",
		})
	default:
		results = append(results, checkResult{
			Name: "Membership cache", Passed: true,
			Detail: fmt.Sprintf("version %d, %d pairs", st.Version, len(st.Memberships)),
		})
	}

	return results
}

func readinessChecks(ready *client.ReadyResponse) []checkResult {
	names := make([]string, 0, len(ready.Checks))
	for name := range ready.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]checkResult, 0, len(names))
	for _, name := range names {
		status := ready.Checks[name]
		out = append(out, checkResult{
			Name:   "Ready: " + name,
			Passed: status == "ok",
			Detail: status,
		})
	}

	if p := ready.Pool; p != nil && p.Max > 0 {
		out = append(out, checkResult{
			Name:   "Ready: pool",
			Passed: p.InUse < p.Max,
			Detail: fmt.Sprintf("%d/%d connections in use", p.InUse, p.Max),
			Hint:   "Pool exhausted; raise DB_MAX_CONNS or look for slow queries",
		})
	}
	return out
}
