package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/config"
)

// errUnknownConfigKey is returned for keys the config schema does not
// define. The message lists the valid keys.
var errUnknownConfigKey = errors.New("unknown configuration key")

// newConfigCmd creates the config command group.
func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit the configuration file",
	}
	cmd.AddCommand(
		newConfigInitCmd(a),
		newConfigListCmd(a),
		newConfigGetCmd(a),
		newConfigSetCmd(a),
	)
	return cmd
}

// newConfigInitCmd creates "config init".
func newConfigInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := a.resolvedConfigPath()
			if err != nil {
				return err
			}

			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("configuration file already exists at %s, use --force to overwrite", path)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("cannot access config path %s: %w", path, err)
				}
			}

			if err := config.Default().Save(path); err != nil {
				return err
			}
			cmd.Printf("Configuration initialized at %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	return cmd
}

// newConfigListCmd creates "config list".
func newConfigListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every configuration key and its effective value",
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := configEntries(a.cfg)
			keys := make([]string, 0, len(entries))
			for key := range entries {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			for _, key := range keys {
				cmd.Printf("%s = %s\n", key, entries[key].get())
			}
			return nil
		},
	}
}

// newConfigGetCmd creates "config get <key>".
func newConfigGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, ok := configEntries(a.cfg)[args[0]]
			if !ok {
				return fmt.Errorf("%w: %q (run 'quill config list' for valid keys)", errUnknownConfigKey, args[0])
			}
			cmd.Println(entry.get())
			return nil
		},
	}
}

// newConfigSetCmd creates "config set <key> <value>".
func newConfigSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one configuration value and save the file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.resolvedConfigPath()
			if err != nil {
				return err
			}

			// Edit the file contents, not the effective config:
			// env and flag overrides must not be written back.
			cfg, err := config.LoadFile(path)
			if err != nil {
				return err
			}

			entry, ok := configEntries(cfg)[args[0]]
			if !ok {
				return fmt.Errorf("%w: %q (run 'quill config list' for valid keys)", errUnknownConfigKey, args[0])
			}
			if err := entry.set(args[1]); err != nil {
				return fmt.Errorf("invalid value for %s: %w", args[0], err)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.Save(path); err != nil {
				return err
			}

			cmd.Printf("%s = %s\n", args[0], entry.get())
			return nil
		},
	}
}

// resolvedConfigPath returns the --config flag value or the default
// config file location.
func (a *app) resolvedConfigPath() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	return config.DefaultPath()
}

// configEntry adapts one config field to string get/set access.
type configEntry struct {
	get func() string
	set func(string) error
}

// configEntries maps dotted key names to the fields of cfg.
func configEntries(cfg *config.Config) map[string]configEntry {
	return map[string]configEntry{
		"api.url":                stringEntry(&cfg.API.URL),
		"api.timeout":            durationEntry(&cfg.API.Timeout),
		"defaults.page_size":     intEntry(&cfg.Defaults.PageSize),
		"defaults.sibling_count": intEntry(&cfg.Defaults.SiblingCount),
		"cache.enabled":          boolEntry(&cfg.Cache.Enabled),
		"cache.dir":              stringEntry(&cfg.Cache.Dir),
		"cache.ttl":              durationEntry(&cfg.Cache.TTL),
		"logging.level":          stringEntry(&cfg.Logging.Level),
		"logging.format":         stringEntry(&cfg.Logging.Format),
		"logging.file":           stringEntry(&cfg.Logging.File),
	}
}

func stringEntry(field *string) configEntry {
	return configEntry{
		get: func() string { return *field },
		set: func(v string) error {
			*field = v
			return nil
		},
	}
}

func intEntry(field *int) configEntry {
	return configEntry{
		get: func() string { return strconv.Itoa(*field) },
		set: func(v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			*field = n
			return nil
		},
	}
}

func boolEntry(field *bool) configEntry {
	return configEntry{
		get: func() string { return strconv.FormatBool(*field) },
		set: func(v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return err
			}
			*field = b
			return nil
		},
	}
}

func durationEntry(field *time.Duration) configEntry {
	return configEntry{
		get: func() string { return field.String() },
		set: func(v string) error {
			d, err := time.ParseDuration(v)
			if err != nil {
				return err
			}
			*field = d
			return nil
		},
	}
}
