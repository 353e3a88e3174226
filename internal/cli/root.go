// Package cli is the minidisplay command line: flags, the optional config
// file and the run/widgets/config subcommands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mini-display/minidisplay/internal/config"
)

const envPrefix = "minidisplay"

type cli struct {
	v       *viper.Viper
	cfgFile string
	flags   *runFlags
}

// NewRootCmd builds the command tree. Running the root command without a
// subcommand is the same as "minidisplay run".
func NewRootCmd() *cobra.Command {
	c := &cli{v: viper.New(), flags: &runFlags{}}

	root := &cobra.Command{
		Use:   "minidisplay",
		Short: "Cycle clock, weather and transit widgets on an LED matrix",
		Long: `minidisplay drives a small RGB LED matrix (or a framebuffer/terminal stand-in)
and shows one widget at a time: world clocks, the current temperature and the
next subway arrivals at a station.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.initConfig(); err != nil {
				return err
			}
			return c.bindFlags(cmd)
		},
		RunE: c.run,
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is $HOME/.minidisplay.yaml or ./.minidisplay.yaml)")
	registerFlags(root.PersistentFlags(), c.flags)

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Run the display loop until interrupted",
			Args:  cobra.NoArgs,
			RunE:  c.run,
		},
		&cobra.Command{
			Use:   "widgets",
			Short: "List the widget names accepted by --widgets",
			Args:  cobra.NoArgs,
			RunE:  c.listWidgets,
		},
		&cobra.Command{
			Use:   "config",
			Short: "Print the effective configuration as YAML",
			Args:  cobra.NoArgs,
			RunE:  c.printConfig,
		},
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func (c *cli) initConfig() error {
	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			c.v.AddConfigPath(home)
		}
		c.v.AddConfigPath(".")
		c.v.SetConfigType("yaml")
		c.v.SetConfigName(".minidisplay")
	}
	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// bindFlags fills every flag the user did not set from the config file or
// the environment. Explicit flags always win.
func (c *cli) bindFlags(cmd *cobra.Command) error {
	fs := cmd.Flags()
	var errs []error
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed || f.Name == "config" || f.Name == "help" {
			return
		}
		if f.Name == "timezone" && c.v.IsSet("timezones") {
			rows, err := c.timezoneRows()
			if err != nil {
				errs = append(errs, err)
				return
			}
			errs = append(errs, replaceFlag(fs, f, rows))
			return
		}
		if !c.v.IsSet(f.Name) {
			return
		}
		if err := setFlag(fs, f, c.v.Get(f.Name)); err != nil {
			errs = append(errs, fmt.Errorf("config value %s: %w", f.Name, err))
		}
	})
	return errors.Join(errs...)
}

// timezoneRows reads the "timezones:" list of {city, timezone} maps.
func (c *cli) timezoneRows() ([]string, error) {
	var zones []config.TimezoneConfig
	if err := c.v.UnmarshalKey("timezones", &zones); err != nil {
		return nil, fmt.Errorf("config value timezones: %w", err)
	}
	rows := make([]string, 0, len(zones))
	for _, tz := range zones {
		rows = append(rows, tz.City+"="+tz.Timezone)
	}
	return rows, nil
}

func setFlag(fs *pflag.FlagSet, f *pflag.Flag, val any) error {
	if _, ok := f.Value.(pflag.SliceValue); ok {
		items := stringList(val)
		if s, isString := val.(string); isString && f.Value.Type() == "stringSlice" {
			items = strings.Split(s, ",")
		}
		return replaceFlag(fs, f, items)
	}
	if f.Value.Type() == "duration" {
		val = durationValue(val)
	}
	return fs.Set(f.Name, fmt.Sprint(val))
}

func replaceFlag(fs *pflag.FlagSet, f *pflag.Flag, items []string) error {
	if err := f.Value.(pflag.SliceValue).Replace(items); err != nil {
		return err
	}
	f.Changed = true
	return nil
}

func stringList(val any) []string {
	switch v := val.(type) {
	case nil:
		return nil
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}

// durationValue treats bare numbers in config files as seconds.
func durationValue(val any) any {
	switch v := val.(type) {
	case int:
		return time.Duration(v) * time.Second
	case int64:
		return time.Duration(v) * time.Second
	case float64:
		return time.Duration(v * float64(time.Second))
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return val
}
