package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/nekotray/nekotray/internal/api"
	"github.com/nekotray/nekotray/internal/daemon/animator"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what the cat is doing",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	return withClient(func(c *api.ControlClient) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()

		st, err := c.GetStatus(ctx)
		if err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}
		printStatus(st, time.Now())
		return nil
	})
}

func printStatus(st *api.Status, now time.Time) {
	fmt.Printf("  %s %s\n", styleBrand.Render("nekotray"), themeBadge(st))
	fmt.Println(field("CPU", fmt.Sprintf("%.1f%%", st.Usage)))
	fmt.Println(field("Delay", st.Delay.Round(time.Millisecond).String()))
	fmt.Println(field("Frame", fmt.Sprintf("%d/%d", st.Frame, animator.MaxFrame)))
	fmt.Println(field("Ticks", strconv.FormatUint(st.Ticks, 10)))
	if st.PID != 0 {
		fmt.Println(field("PID", strconv.Itoa(st.PID)))
	}
	if !st.StartedAt.IsZero() {
		fmt.Println(field("Uptime", formatUptime(st.StartedAt, now)))
	}
}

func themeBadge(st *api.Status) string {
	if st.Theme.IsDark() {
		return badgeDark.Render("dark")
	}
	return badgeLight.Render("light")
}

// statusLine is the one-line form used by `watch` when stdout is not a
// terminal.
func statusLine(st *api.Status) string {
	return fmt.Sprintf("frame=%d theme=%s usage=%.1f delay=%s ticks=%d",
		st.Frame, st.Theme, st.Usage, st.Delay.Round(time.Millisecond), st.Ticks)
}
