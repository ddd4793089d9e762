package cli

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ridgeline/pkg/backdrop"
	"github.com/matzehuels/ridgeline/pkg/noise"
	"github.com/matzehuels/ridgeline/pkg/pipeline"
)

// completionScripts maps each supported shell to its generator.
var completionScripts = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash": func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":  func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish": func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error {
		return root.GenPowerShellCompletionWithDesc(w)
	},
}

func (c *CLI) completionCommand() *cobra.Command {
	shells := slices.Sorted(maps.Keys(completionScripts))

	return &cobra.Command{
		Use:   fmt.Sprintf("completion [%s]", strings.Join(shells, "|")),
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for the given shell. Presets, noise kinds, output
formats, nav sections and content categories complete as values.`,
		Example: `  source <(ridgeline completion bash)
  ridgeline completion zsh > "${fpath[1]}/_ridgeline"
  ridgeline completion fish > ~/.config/fish/completions/ridgeline.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		// Completion must work without a readable config file.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionScripts[args[0]](cmd.Root(), os.Stdout)
		},
	}
}

// registerValueCompletions attaches value completion to the shared backdrop
// flags of every subcommand that defines them.
func registerValueCompletions(root *cobra.Command) {
	kinds := make([]string, 0, len(noise.Kinds()))
	for _, k := range noise.Kinds() {
		kinds = append(kinds, string(k))
	}
	values := map[string][]string{
		"preset": backdrop.Presets(),
		"noise":  kinds,
		"format": slices.Sorted(maps.Keys(pipeline.ValidFormats)),
	}

	for _, cmd := range root.Commands() {
		for flag, vals := range values {
			if cmd.Flags().Lookup(flag) == nil {
				continue
			}
			_ = cmd.RegisterFlagCompletionFunc(flag, fixedCompletion(flag, vals))
		}
	}
}

// fixedCompletion completes comma-separated lists for the format flag and
// single values otherwise.
func fixedCompletion(flag string, vals []string) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if flag != "format" {
			return vals, cobra.ShellCompDirectiveNoFileComp
		}
		done := toComplete[:strings.LastIndex(toComplete, ",")+1]
		out := make([]string, 0, len(vals))
		for _, v := range vals {
			out = append(out, done+v)
		}
		return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	}
}
