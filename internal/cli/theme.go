package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nekotray/nekotray/internal/api"
	"github.com/nekotray/nekotray/internal/daemon/animator"
)

var themeCmd = &cobra.Command{
	Use:       "theme light|dark|toggle",
	Short:     "Switch the cat between the light and dark taskbar themes",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"light", "dark", "toggle"},
	RunE:      runTheme,
}

func runTheme(cmd *cobra.Command, args []string) error {
	return withClient(func(c *api.ControlClient) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()

		theme, err := resolveTheme(ctx, args[0], func(ctx context.Context) (*api.Status, error) {
			return c.GetStatus(ctx)
		})
		if err != nil {
			return err
		}
		if err := c.SetTheme(ctx, theme.Command()); err != nil {
			return fmt.Errorf("failed to set theme: %w", err)
		}
		fmt.Printf("Theme set to %s.\n", theme)
		return nil
	})
}

// resolveTheme turns a theme argument into a theme. "toggle" flips the theme
// the daemon currently shows.
func resolveTheme(ctx context.Context, arg string, current func(context.Context) (*api.Status, error)) (animator.Theme, error) {
	if arg != "toggle" {
		return animator.ParseTheme(arg)
	}
	st, err := current(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get current theme: %w", err)
	}
	return st.Theme.Toggle(), nil
}
