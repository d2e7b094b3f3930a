package cmd

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nekotray/nekotray/internal/buildinfo"
	"github.com/nekotray/nekotray/internal/config"
	"github.com/nekotray/nekotray/internal/daemon/sampler"
)

var (
	dStyleBrand   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "30", Dark: "45"})
	dStyleVersion = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "40"})
	dStyleLabel   = lipgloss.NewStyle().Width(8).Align(lipgloss.Right).Foreground(lipgloss.AdaptiveColor{Light: "242", Dark: "240"})
	dStyleValue   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "0", Dark: "15"})
)

var versionShort bool

// versionRow is one labelled line of the version report.
type versionRow struct {
	label, value string
}

func versionRows() []versionRow {
	rows := []versionRow{
		{"Commit", buildinfo.CommitHash},
		{"Built", buildinfo.BuildDate},
		{"OS/Arch", runtime.GOOS + "/" + runtime.GOARCH},
		{"Icons", iconFormatName()},
		{"Sampler", fmt.Sprintf("%s window, fallback %.1f%%", sampler.Window, sampler.FallbackUsage)},
	}

	running, info, err := config.IsDaemonRunning()
	switch {
	case err != nil:
		rows = append(rows, versionRow{"Daemon", "unknown (" + err.Error() + ")"})
	case running:
		rows = append(rows, versionRow{"Daemon", fmt.Sprintf("running on port %d (PID %d, %s)", info.Port, info.PID, info.Mode)})
	default:
		rows = append(rows, versionRow{"Daemon", "not running"})
	}
	return rows
}

func printVersion(w io.Writer, short bool) {
	if short {
		fmt.Fprintln(w, buildinfo.Version)
		return
	}
	fmt.Fprintf(w, "  %s %s\n", dStyleBrand.Render("nekotrayd"), dStyleVersion.Render(buildinfo.Version))
	for _, r := range versionRows() {
		fmt.Fprintf(w, "  %s  %s\n", dStyleLabel.Render(r.label), dStyleValue.Render(r.value))
	}
}

var daemonVersionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Show build, icon and sampler details",
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(os.Stdout, versionShort)
	},
}

func init() {
	daemonVersionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version number")
	rootCmd.AddCommand(daemonVersionCmd)
}
