package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ridgeline/pkg/backdrop"
	"github.com/matzehuels/ridgeline/pkg/pipeline"
)

// renderOpts holds the render command flags.
type renderOpts struct {
	seed    uint64
	preset  string
	noise   string
	width   int
	height  int
	frames  int
	formats string
	scale   float64
	output  string
	noCache bool
	refresh bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render backdrop frames to files",
		Long: `Render builds the terrain, advances the animation by the requested number of
frames and writes the last frame in each requested format.

Unset flags fall back to the [backdrop] section of the config file.`,
		Example: `  ridgeline render
  ridgeline render --seed 7 --frames 120 -f svg,png -o hero
  ridgeline render --preset hero --width 1920 --height 1080 -f png --scale 2
  ridgeline render -f txt --width 160 --height 96 -o -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, err := c.renderOptions(cmd, opts)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), popts, opts)
		},
	}

	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "terrain seed")
	cmd.Flags().StringVar(&opts.preset, "preset", "", fmt.Sprintf("preset: %s", strings.Join(backdrop.Presets(), ", ")))
	cmd.Flags().StringVar(&opts.noise, "noise", "", "noise generator: simplex, opensimplex, perlin")
	cmd.Flags().IntVar(&opts.width, "width", 0, "surface width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", 0, "surface height in pixels")
	cmd.Flags().IntVar(&opts.frames, "frames", 0, "executed frames before capture")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg, png, txt (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "pixel ratio for png output")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or base path (- for stdout)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render and overwrite cached artifacts")

	return cmd
}

// renderOptions layers the changed flags over the configured defaults.
func (c *CLI) renderOptions(cmd *cobra.Command, ro renderOpts) (pipeline.Options, error) {
	opts := c.Config.PipelineOptions()
	flags := cmd.Flags()
	if flags.Changed("seed") {
		opts.Seed = ro.seed
	}
	if flags.Changed("preset") {
		opts.Preset = ro.preset
	}
	if flags.Changed("noise") {
		opts.Noise = ro.noise
	}
	if flags.Changed("width") {
		opts.Width = ro.width
	}
	if flags.Changed("height") {
		opts.Height = ro.height
	}
	if flags.Changed("frames") {
		opts.Frames = ro.frames
	}
	if flags.Changed("scale") {
		opts.Scale = ro.scale
	}
	opts.Formats = parseFormats(ro.formats)
	opts.Refresh = ro.refresh
	opts.Logger = c.Logger

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	if ro.output == "-" && len(opts.Formats) != 1 {
		return pipeline.Options{}, fmt.Errorf("writing to stdout requires exactly one format, got %d", len(opts.Formats))
	}
	return opts, nil
}

// runRender executes the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, ro renderOpts) error {
	runner, err := c.newRunner(ctx, ro.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	toStdout := ro.output == "-"
	var spinner *Spinner
	if !toStdout {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d frame(s)...", opts.Frames))
		spinner.Start()
	}

	prog := newProgress(loggerFromContext(ctx))
	result, err := runner.Render(ctx, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d artifact(s)", len(result.Artifacts)))

	if toStdout {
		_, err := os.Stdout.Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	base := basePath(ro.output, opts)
	paths := outputPaths(base, ro.output, opts.Formats)

	printSuccess("Rendered backdrop (seed %d, preset %s)", opts.Seed, opts.Preset)
	printStats(result.Stats, result.CacheHit)
	for _, format := range sortedFormats(result.Artifacts) {
		path := paths[format]
		if err := writeArtifact(path, result.Artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// basePath derives the base output path. An empty output names the file
// after the seed; a known format extension is stripped.
func basePath(output string, opts pipeline.Options) string {
	if output == "" {
		return fmt.Sprintf("%s-%d", appName, opts.Seed)
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if pipeline.ValidFormats[ext] {
		return strings.TrimSuffix(output, "."+ext)
	}
	return output
}

// outputPaths maps each format to its file. A single format keeps an
// explicit output path untouched.
func outputPaths(base, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		paths[formats[0]] = output
		return paths
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

func sortedFormats(artifacts map[string][]byte) []string {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	slices.Sort(formats)
	return formats
}

// openOutput opens a file for writing, creating parent directories.
func openOutput(path string) (io.WriteCloser, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}

func writeArtifact(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}
