package cli

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/mini-display/minidisplay/internal/widgets"
)

func (c *cli) listWidgets(cmd *cobra.Command, _ []string) error {
	cfg, err := c.flags.resolve(cmd.Flags())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, name := range widgets.Names() {
		if slices.Contains(cfg.Widgets, name) {
			fmt.Fprintf(out, "%s (active)\n", name)
			continue
		}
		fmt.Fprintln(out, name)
	}
	return nil
}

// printConfig writes the effective flag values as a config file that
// --config reads back. Secrets and unset coordinates are left out.
func (c *cli) printConfig(cmd *cobra.Command, _ []string) error {
	if _, err := c.validConfig(cmd); err != nil {
		return err
	}
	values := map[string]any{}
	var convErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		switch {
		case f.Name == "config" || f.Name == "help" || secretFlags[f.Name]:
			return
		case (f.Name == "lat" || f.Name == "lon") && !f.Changed:
			return
		}
		v, err := flagValue(f)
		if err != nil && convErr == nil {
			convErr = fmt.Errorf("flag %s: %w", f.Name, err)
		}
		values[f.Name] = v
	})
	if convErr != nil {
		return convErr
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(values); err != nil {
		return err
	}
	return enc.Close()
}

func flagValue(f *pflag.Flag) (any, error) {
	if sv, ok := f.Value.(pflag.SliceValue); ok {
		return sv.GetSlice(), nil
	}
	raw := f.Value.String()
	switch f.Value.Type() {
	case "int":
		return strconv.Atoi(raw)
	case "bool":
		return strconv.ParseBool(raw)
	case "float64":
		return strconv.ParseFloat(raw, 64)
	}
	return raw, nil
}
