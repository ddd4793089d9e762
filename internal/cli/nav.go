package cli

import (
	"fmt"
	"maps"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ridgeline/pkg/errors"
	"github.com/matzehuels/ridgeline/pkg/nav"
)

// navCommand creates the nav command.
func (c *CLI) navCommand() *cobra.Command {
	var offsets map[string]string

	cmd := &cobra.Command{
		Use:   "nav",
		Short: "Resolve page sections for scroll positions",
		Long: `Nav answers the two questions the navbar asks: which section is active at a
scroll position, and where a click on a section should scroll to.

Section offsets come from [nav.offsets] in the config file and can be
overridden with --offset section=pixels.`,
	}
	cmd.PersistentFlags().StringToStringVar(&offsets, "offset", nil, "section top offset, e.g. --offset projects=900")

	tracker := func() (*nav.Tracker, error) {
		merged := maps.Clone(c.Config.Nav.Offsets)
		if merged == nil {
			merged = make(map[string]float64, len(offsets))
		}
		for id, raw := range offsets {
			y, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "offset for %s", id)
			}
			merged[id] = y
		}
		return nav.NewTracker(merged)
	}

	cmd.AddCommand(c.navCurrentCommand(tracker))
	cmd.AddCommand(c.navTargetCommand(tracker))
	cmd.AddCommand(c.navSectionsCommand(tracker))
	return cmd
}

func (c *CLI) navCurrentCommand(tracker func() (*nav.Tracker, error)) *cobra.Command {
	var y, vh float64

	cmd := &cobra.Command{
		Use:   "current",
		Short: "Print the section active at a scroll position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if vh <= 0 {
				return errors.New(errors.ErrCodeInvalidInput, "viewport height must be positive, got %g", vh)
			}
			t, err := tracker()
			if err != nil {
				return err
			}
			fmt.Println(t.Current(y, vh))
			return nil
		},
	}
	cmd.Flags().Float64Var(&y, "y", 0, "scroll position in pixels")
	cmd.Flags().Float64Var(&vh, "vh", 900, "viewport height in pixels")
	return cmd
}

func (c *CLI) navTargetCommand(tracker func() (*nav.Tracker, error)) *cobra.Command {
	return &cobra.Command{
		Use:       "target <section>",
		Short:     "Print the scroll position for a section",
		Args:      cobra.ExactArgs(1),
		ValidArgs: sectionIDs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tracker()
			if err != nil {
				return err
			}
			y, err := t.Target(args[0])
			if err != nil {
				return err
			}
			fmt.Println(strconv.FormatFloat(y, 'f', -1, 64))
			return nil
		},
	}
}

func (c *CLI) navSectionsCommand(tracker func() (*nav.Tracker, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "sections",
		Short: "List sections with their anchors and scroll targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tracker()
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(nav.Sections))
			for _, s := range nav.Sections {
				target := "-"
				if y, err := t.Target(s.ID); err == nil {
					target = strconv.FormatFloat(y, 'f', -1, 64)
				}
				rows = append(rows, []string{s.ID, s.Label, nav.Anchor(s.ID), target})
			}
			fmt.Println(renderTable([]string{"Section", "Label", "Anchor", "Target"}, rows))
			return nil
		},
	}
}

func sectionIDs() []string {
	ids := make([]string, len(nav.Sections))
	for i, s := range nav.Sections {
		ids[i] = s.ID
	}
	return ids
}
