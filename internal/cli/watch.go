package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ridgeline/pkg/backdrop"
	"github.com/matzehuels/ridgeline/pkg/surface/cells"
)

// statusRows is the number of terminal rows below the backdrop.
const statusRows = 1

// defaultTermCols and defaultTermRows size the grid until the first
// resize arrives.
const (
	defaultTermCols = 80
	defaultTermRows = 24
)

// liveOpts holds the flags shared by watch and play.
type liveOpts struct {
	seed   uint64
	preset string
	noise  string
	fps    int
}

func (o *liveOpts) register(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(&o.seed, "seed", 0, "terrain seed (0 picks a random one)")
	cmd.Flags().StringVar(&o.preset, "preset", "", "preset: "+strings.Join(backdrop.Presets(), ", "))
	cmd.Flags().StringVar(&o.noise, "noise", "", "noise generator: simplex, opensimplex, perlin")
	cmd.Flags().IntVar(&o.fps, "fps", 30, "terminal refresh rate")
}

// backdropConfig resolves the preset and noise flags against the config file.
func (c *CLI) backdropConfig(cmd *cobra.Command, o liveOpts) (backdrop.Config, error) {
	popts := c.Config.PipelineOptions()
	if cmd.Flags().Changed("preset") {
		popts.Preset = o.preset
	}
	if cmd.Flags().Changed("noise") {
		popts.Noise = o.noise
	}
	if o.fps <= 0 {
		return backdrop.Config{}, fmt.Errorf("fps must be positive, got %d", o.fps)
	}
	if popts.Preset == "" {
		popts.Preset = backdrop.DefaultPreset
	}
	cfg, err := popts.Config()
	if err != nil {
		return backdrop.Config{}, err
	}
	// Pixel floors would blow a terminal grid up to hundreds of columns.
	cfg.MinSurfaceSize = backdrop.Size{}
	return cfg, nil
}

// newLiveBackdrop creates a backdrop for interactive use. Seed zero keeps
// the entropy-seeded default.
func newLiveBackdrop(cfg backdrop.Config, seed uint64, logger *log.Logger) (*backdrop.Backdrop, error) {
	opts := []backdrop.Option{backdrop.WithLogger(logger)}
	if seed != 0 {
		opts = append(opts, backdrop.WithSeed(seed))
	}
	return backdrop.New(cfg, opts...)
}

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	opts := liveOpts{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Animate the backdrop inside the terminal",
		Long: `Watch runs the backdrop in a bubbletea program. Each tick pumps one refresh of
the render loop and the frame is drawn with braille characters.

Keys: space pauses, r rebuilds the terrain with a new seed, q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.backdropConfig(cmd, opts)
			if err != nil {
				return err
			}
			return c.runWatch(cmd.Context(), cfg, opts)
		},
	}
	opts.register(cmd)
	return cmd
}

func (c *CLI) runWatch(ctx context.Context, cfg backdrop.Config, opts liveOpts) error {
	m, err := newWatchModel(cfg, opts.seed, time.Second/time.Duration(opts.fps), c.Logger)
	if err != nil {
		return err
	}
	// The model is copied through Update, so release whichever backdrop
	// the final model ended up holding.
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if wm, ok := final.(watchModel); ok {
		_ = wm.bd.Unmount()
		if err == nil && wm.err != nil {
			err = wm.err
		}
	}
	_ = m.bd.Unmount()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// =============================================================================
// watchModel - bubbletea host for the backdrop
// =============================================================================

// tickMsg carries the refresh timestamp into Update.
type tickMsg time.Time

// watchModel hosts a backdrop in bubbletea. Ticks drive a manual
// scheduler so every frame callback runs on the bubbletea goroutine.
type watchModel struct {
	cfg      backdrop.Config
	logger   *log.Logger
	interval time.Duration

	bd    *backdrop.Backdrop
	surf  *cells.Surface
	sched *backdrop.ManualScheduler

	seed   uint64
	cols   int
	rows   int
	paused bool
	err    error
}

func newWatchModel(cfg backdrop.Config, seed uint64, interval time.Duration, logger *log.Logger) (watchModel, error) {
	m := watchModel{
		cfg:      cfg,
		logger:   logger,
		interval: interval,
		seed:     seed,
		cols:     defaultTermCols,
		rows:     defaultTermRows - statusRows,
	}
	if err := m.mount(); err != nil {
		return watchModel{}, err
	}
	return m, nil
}

// mount builds a fresh backdrop on a new surface.
func (m *watchModel) mount() error {
	bd, err := newLiveBackdrop(m.cfg, m.seed, m.logger)
	if err != nil {
		return err
	}
	surf := cells.New(m.cols, m.rows)
	sched := backdrop.NewManualScheduler()
	if err := bd.Mount(surf, sched); err != nil {
		return err
	}
	m.bd, m.surf, m.sched = bd, surf, sched
	return nil
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m watchModel) Init() tea.Cmd {
	return m.tick()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			if err := m.bd.Unmount(); err != nil {
				m.logger.Warn("unmount failed", "err", err)
			}
			m.seed = uint64(time.Now().UnixNano())
			if err := m.mount(); err != nil {
				m.err = err
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		m.cols = max(msg.Width, 1)
		m.rows = max(msg.Height-statusRows, 1)
		m.bd.Resize(m.cols*2, m.rows*4)
	case tickMsg:
		if !m.paused {
			m.sched.Step(time.Time(msg))
		}
		if err := m.bd.Err(); err != nil {
			m.err = err
			return m, tea.Quit
		}
		return m, m.tick()
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder
	b.WriteString(m.surf.Grid().Render())
	b.WriteString("\n")
	b.WriteString(m.status())
	return b.String()
}

func (m watchModel) status() string {
	st := m.bd.State()
	draw := m.bd.LastDraw()
	parts := []string{
		StyleTitle.Render(appName),
		fmt.Sprintf("frame %d", st.Frames),
		fmt.Sprintf("%d segments", draw.Drawn),
	}
	if m.seed != 0 {
		parts = append(parts, fmt.Sprintf("seed %d", m.seed))
	}
	if m.paused {
		parts = append(parts, StyleWarning.Render("paused"))
	}
	parts = append(parts, StyleDim.Render("space pause  r reseed  q quit"))
	return strings.Join(parts, StyleDim.Render(" · "))
}
