package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gmaohq/gmao/client"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newInitCmd() *cobra.Command {
	var (
		initURL     string
		initActor   string
		initProfile string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set up GMAO CLI configuration",
		Long:  "Interactive setup wizard that creates ~/.gmao/config.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			nonInteractive := initURL != "" || initActor != ""
			return runInit(initProfile, initURL, initActor, nonInteractive)
		},
	}

	cmd.Flags().StringVar(&initURL, "url", "", "Server URL (non-interactive mode)")
	cmd.Flags().StringVar(&initActor, "actor", "", "Your name, recorded on mutations (non-interactive mode)")
	cmd.Flags().StringVar(&initProfile, "profile", "default", "Profile to create or replace; it becomes the active one")
	return cmd
}

func runInit(profile, url, actor string, nonInteractive bool) error {
	if !nonInteractive {
		fmt.Println("\n  GMAO Setup")
		fmt.Println("  ──────────")
		fmt.Println()

		reader := bufio.NewReader(os.Stdin)

		fmt.Printf("  Server URL [%s]: ", defaultURL)
		line, _ := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			url = line
		}

		fmt.Print("  Your name: ")
		nameLine, _ := reader.ReadString('\n')
		actor = strings.TrimSpace(nameLine)
	}

	if url == "" {
		url = defaultURL
	}

	if actor == "" {
		return fmt.Errorf("a name is required so changes can be attributed")
	}

	if !nonInteractive {
		fmt.Print("\n  Testing connection... ")
	}

	ver, err := testConnection(url)
	if err != nil {
		if !nonInteractive {
			fmt.Println("✗")
		}
		return fmt.Errorf("connection failed: %w", err)
	}

	if !nonInteractive {
		fmt.Printf("✓ Connected (v%s)\n", ver)
	}

	cfgPath, err := writeConfig(profile, url, actor)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	if nonInteractive {
		fmt.Printf("Profile %q saved to %s\n", profile, cfgPath)
	} else {
		fmt.Printf("\n  ✓ Profile %q saved to %s\n", profile, cfgPath)
		fmt.Println()
		fmt.Println("  Next steps:")
		fmt.Println("    gmao doctor                         # Full diagnostic check")
		fmt.Println("    gmao equipment list --format table  # Browse equipment")
		fmt.Println("    gmao --help                         # See all commands")
		fmt.Println()
	}

	return nil
}

func testConnection(url string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	health, err := client.New(url).Health(ctx)
	if err != nil {
		return "", err
	}
	if health.Version == "" {
		return "unknown", nil
	}
	return health.Version, nil
}

// writeConfig stores the profile and makes it active. Other profiles in an
// existing config file are kept; a flat config is converted to profiles with
// its values moved under "default".
func writeConfig(profile, url, actor string) (string, error) {
	if profile == "" {
		profile = "default"
	}

	cfgPath, existing, err := loadConfigFile()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	cfg := configFile{Profiles: map[string]configProfile{}}
	if existing != nil {
		for name, p := range existing.Profiles {
			cfg.Profiles[name] = p
		}
		if existing.URL != "" || existing.Actor != "" {
			if _, ok := cfg.Profiles["default"]; !ok {
				cfg.Profiles["default"] = configProfile{URL: existing.URL, Actor: existing.Actor}
			}
		}
	}
	cfg.Profiles[profile] = configProfile{URL: url, Actor: actor}
	cfg.ActiveProfile = profile

	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o700); err != nil {
		return "", err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(cfgPath, data, 0o600); err != nil {
		return "", err
	}

	return cfgPath, nil
}
