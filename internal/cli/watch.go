package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nekotray/nekotray/internal/api"
	"github.com/nekotray/nekotray/internal/tui"
)

var watchPlain bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the cat run",
	Long: `Watch the cat run in the terminal, fed live by the daemon.

Keys: t toggles the theme, l and d pick one, q quits. When stdout is not a
terminal (or with --plain) one status line is printed per frame instead.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchPlain, "plain", false, "Print one line per frame instead of drawing the cat")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withClient(func(c *api.ControlClient) error {
		stream, err := c.Watch(ctx)
		if err != nil {
			return fmt.Errorf("failed to watch daemon: %w", err)
		}

		if watchPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
			return printStream(ctx, os.Stdout, stream)
		}
		return tui.Watch(ctx, "nekotray", stream, c)
	})
}

// printStream writes one status line per received frame until the stream or
// ctx ends.
func printStream(ctx context.Context, w io.Writer, stream tui.StatusStream) error {
	for {
		st, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil || status.Code(err) == codes.Canceled {
				return nil
			}
			return fmt.Errorf("watch stream failed: %w", err)
		}
		if _, err := fmt.Fprintln(w, statusLine(st)); err != nil {
			return err
		}
	}
}
