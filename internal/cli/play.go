package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ridgeline/pkg/backdrop"
	"github.com/matzehuels/ridgeline/pkg/surface/cells"
)

// playCommand creates the play command.
func (c *CLI) playCommand() *cobra.Command {
	opts := liveOpts{}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Animate the backdrop full-screen",
		Long: `Play takes over the terminal with tcell and runs the backdrop on its own
refresh loop, the way a browser drives it with animation frames. Resizing the
terminal resizes the viewport without rebuilding the terrain.

Keys: q or Esc quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.backdropConfig(cmd, opts)
			if err != nil {
				return err
			}
			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("open terminal: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("init terminal: %w", err)
			}
			defer screen.Fini()
			return runPlay(cmd.Context(), screen, cfg, opts, c.Logger)
		},
	}
	opts.register(cmd)
	return cmd
}

// runPlay animates a backdrop on screen until ctx ends or the user quits.
// The caller owns screen initialisation and teardown.
func runPlay(parent context.Context, screen tcell.Screen, cfg backdrop.Config, opts liveOpts, logger *log.Logger) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	bd, err := newLiveBackdrop(cfg, opts.seed, logger)
	if err != nil {
		return err
	}

	screen.SetStyle(tcell.StyleDefault.Background(tcell.NewRGBColor(int32(cfg.Background.R), int32(cfg.Background.G), int32(cfg.Background.B))))
	screen.Clear()

	// Presents run inside the backdrop's frame, so the counter is kept here
	// rather than read back through State.
	frames := 0
	cols, rows := viewport(screen)
	presenter := cells.NewTerminalPresenter(screen)
	surf := cells.New(cols, rows,
		cells.WithPresenter(cells.PresenterFunc(func(g *cells.Grid) error {
			frames++
			drawStatus(screen, frames)
			return presenter.Present(g)
		})),
		cells.WithReleaser(screen.Clear),
	)

	sched := backdrop.NewRefreshScheduler(opts.fps, nil)
	if err := bd.Mount(surf, sched); err != nil {
		return err
	}
	defer bd.Unmount()

	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx) }()

	// PollEvent blocks, so cancellation is delivered as an interrupt.
	go func() {
		<-ctx.Done()
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	for {
		switch ev := screen.PollEvent().(type) {
		case nil, *tcell.EventInterrupt:
			cancel()
			<-done
			return finishPlay(parent, bd)
		case *tcell.EventResize:
			screen.Sync()
			cols, rows := viewport(screen)
			bd.Resize(cols*2, rows*4)
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				cancel()
			}
		}
	}
}

// finishPlay reports a disposed backdrop, otherwise the parent's
// cancellation. Quitting with a key is not an error.
func finishPlay(parent context.Context, bd *backdrop.Backdrop) error {
	if err := bd.Err(); err != nil {
		return err
	}
	return parent.Err()
}

// viewport returns the grid size left after the status line.
func viewport(screen tcell.Screen) (cols, rows int) {
	w, h := screen.Size()
	return max(w, 1), max(h-statusRows, 1)
}

// drawStatus writes the frame counter on the last row.
func drawStatus(screen tcell.Screen, frames int) {
	w, h := screen.Size()
	if h <= statusRows {
		return
	}
	line := fmt.Sprintf(" %s · frame %d · q quit", appName, frames)
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	col := 0
	for _, r := range line {
		if col >= w {
			break
		}
		screen.SetContent(col, h-1, r, nil, style)
		col++
	}
	for ; col < w; col++ {
		screen.SetContent(col, h-1, ' ', nil, style)
	}
}
