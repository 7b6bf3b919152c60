package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alanyoungcy/marketdash/internal/domain"
)

func settingsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and change the server settings",
	}
	cmd.AddCommand(
		settingsGetCmd(c),
		settingsSetCmd(c),
		settingsValidateCmd(c),
		settingsResetCmd(c),
	)
	return cmd
}

// settingsFlags binds the updatable settings. Only flags the user set end up
// in the update.
type settingsFlags struct {
	requestTimeout int
	maxRetries     int
	defaultLimit   int
	logLevel       string
}

func (f *settingsFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.requestTimeout, "request-timeout", 0, "request timeout in seconds (1-300)")
	cmd.Flags().IntVar(&f.maxRetries, "max-retries", 0, "maximum retries (0-10)")
	cmd.Flags().IntVar(&f.defaultLimit, "default-limit", 0, "default page size (10-1000)")
	cmd.Flags().StringVar(&f.logLevel, "log-level-server", "", "server log level (DEBUG, INFO, WARNING, ERROR)")
}

func (f *settingsFlags) update(cmd *cobra.Command) domain.SettingsUpdate {
	var u domain.SettingsUpdate
	if cmd.Flags().Changed("request-timeout") {
		u.RequestTimeout = &f.requestTimeout
	}
	if cmd.Flags().Changed("max-retries") {
		u.MaxRetries = &f.maxRetries
	}
	if cmd.Flags().Changed("default-limit") {
		u.DefaultLimit = &f.defaultLimit
	}
	if cmd.Flags().Changed("log-level-server") {
		u.LogLevel = &f.logLevel
	}
	return u
}

func renderSettings(w io.Writer, s domain.ServerSettings) {
	renderKV(w, [][2]string{
		{"CLOB API URL", s.ClobAPIURL},
		{"Request timeout", strconv.Itoa(s.RequestTimeout) + "s"},
		{"Max retries", strconv.Itoa(s.MaxRetries)},
		{"Default limit", strconv.Itoa(s.DefaultLimit)},
		{"Log level", s.LogLevel},
	})
}

func renderUpdate(w io.Writer, res domain.SettingsUpdateResult) {
	fields := "none"
	if len(res.UpdatedFields) > 0 {
		fields = strings.Join(res.UpdatedFields, ", ")
	}
	fmt.Fprintln(w, successStyle.Render("Updated: "+fields))
	renderSettings(w, res.Current)
}

func settingsGetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the current server settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			s, err := a.Deps().Settings.Get(cmd.Context())
			if err != nil {
				return err
			}
			renderSettings(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func settingsSetCmd(c *cli) *cobra.Command {
	var flags settingsFlags
	cmd := &cobra.Command{
		Use:     "set",
		Short:   "Update server settings",
		Example: `  marketdash settings set --request-timeout 60 --log-level-server debug`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			res, err := a.Deps().Settings.Update(cmd.Context(), flags.update(cmd))
			if err != nil {
				return err
			}
			renderUpdate(cmd.OutOrStdout(), res)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func settingsValidateCmd(c *cli) *cobra.Command {
	var flags settingsFlags
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check settings locally and confirm the upstream connection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			h, err := a.Deps().Settings.Validate(cmd.Context(), flags.update(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Settings valid; upstream status "+h.Status))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func settingsResetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default server settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			res, err := a.Deps().Settings.Reset(cmd.Context())
			if err != nil {
				return err
			}
			renderUpdate(cmd.OutOrStdout(), res)
			return nil
		},
	}
}
