package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gmaohq/gmao/client"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Build-time variables set via ldflags.
var (
	version   = "0.3.0"
	commit    = ""
	buildDate = ""
)

const defaultURL = "http://localhost:3030"

var (
	apiClient *client.Client
	flagURL   string
	flagActor string
	flagFmt   string
)

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("gmao version %s (commit: %s, built: %s)", version, commit, buildDate)
	}
	return fmt.Sprintf("gmao version %s-dev", version)
}

type configFile struct {
	// Flat format
	URL   string `yaml:"url"`
	Actor string `yaml:"actor"`
	// Profile format
	Profiles      map[string]configProfile `yaml:"profiles"`
	ActiveProfile string                   `yaml:"active_profile"`
}

type configProfile struct {
	URL   string `yaml:"url"`
	Actor string `yaml:"actor"`
}

func main() {
	rootCmd := &cobra.Command{
		Use:     "gmao",
		Short:   "GMAO CLI for equipment, groups and interventions",
		Version: versionString(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			resolveConfig()
			var opts []client.Option
			if flagActor != "" {
				opts = append(opts, client.WithActor(flagActor))
			}
			apiClient = client.New(flagURL, opts...)
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagURL, "url", defaultURL, "GMAO server URL (env: GMAO_URL)")
	rootCmd.PersistentFlags().StringVar(&flagActor, "actor", "", "Name recorded on mutations (env: GMAO_ACTOR)")
	rootCmd.PersistentFlags().StringVar(&flagFmt, "format", "json", "Output format: json|table|quiet")

	initCmd := newInitCmd()
	initCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {} // skip client setup
	doctorCmd := newDoctorCmd()
	doctorCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {} // skip client setup

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(doctorCmd)
	addDomainCommands(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addDomainCommands(root *cobra.Command) {
	root.AddCommand(newEquipmentCmd())
	root.AddCommand(newGroupCmd())
	root.AddCommand(newMembershipCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newInterventionCmd())
	root.AddCommand(newAuditCmd())
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".gmao", "config.yaml"), nil
}

func loadConfigFile() (string, *configFile, error) {
	cfgPath, err := configPath()
	if err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return cfgPath, nil, err
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfgPath, nil, err
	}
	return cfgPath, &cfg, nil
}

// active returns the URL and actor of the selected profile, falling back to
// the flat fields.
func (cfg *configFile) active() configProfile {
	p := configProfile{URL: cfg.URL, Actor: cfg.Actor}
	if cfg.Profiles == nil {
		return p
	}
	name := cfg.ActiveProfile
	if name == "" {
		name = "default"
	}
	if prof, ok := cfg.Profiles[name]; ok {
		if prof.URL != "" {
			p.URL = prof.URL
		}
		if prof.Actor != "" {
			p.Actor = prof.Actor
		}
	}
	return p
}

func resolveConfig() {
	flagURL, flagActor = resolveSettings(flagURL, flagActor)
}

// resolveSettings applies the precedence flag, then env, then config file.
func resolveSettings(url, actor string) (string, string) {
	if url == defaultURL {
		if v := os.Getenv("GMAO_URL"); v != "" {
			url = v
		}
	}
	if actor == "" {
		actor = os.Getenv("GMAO_ACTOR")
	}

	_, cfg, err := loadConfigFile()
	if err != nil {
		return url, actor
	}
	p := cfg.active()
	if url == defaultURL && p.URL != "" {
		url = p.URL
	}
	if actor == "" && p.Actor != "" {
		actor = p.Actor
	}
	return url, actor
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	os.Exit(1)
}
