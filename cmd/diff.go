package cmd

import (
	"github.com/mj1618/slidescene/internal/model"
	"github.com/mj1618/slidescene/internal/output"
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff <before.json> <after.json>",
	Short: "Compare two saved extraction snapshots",
	Long: `Compare two snapshots written by 'extract --save' and report added, removed
and changed elements. Elements are matched by slide, tag, text and image, so
a re-ordered slide shows up as paint-position changes rather than churn.`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
	diffCmd.Flags().Bool("ignore-bounds", false, "Ignore element position changes")
	diffCmd.Flags().Bool("ignore-order", false, "Ignore paint-order changes")
	diffCmd.Flags().Bool("positional", false, "Match elements by slide and paint index instead of content")
}

func runDiff(cmd *cobra.Command, args []string) error {
	before, err := model.LoadSnapshot(args[0])
	if err != nil {
		return err
	}
	after, err := model.LoadSnapshot(args[1])
	if err != nil {
		return err
	}
	ignoreBounds, _ := cmd.Flags().GetBool("ignore-bounds")
	ignoreOrder, _ := cmd.Flags().GetBool("ignore-order")

	if positional, _ := cmd.Flags().GetBool("positional"); positional {
		changes := model.DiffElementsByPosition(
			model.FlattenPresentation(before),
			model.FlattenPresentation(after),
		)
		if changes == nil {
			changes = []model.ElementChange{}
		}
		return output.Print(changes)
	}

	diff := diffSnapshots(before, after, ignoreBounds, ignoreOrder)
	return output.Print(diff)
}

// diffSnapshots diffs two presentations, dropping the ignored properties
// and any change left empty by that.
func diffSnapshots(before, after model.Presentation, ignoreBounds, ignoreOrder bool) model.TreeDiff {
	diff := model.DiffElementsByHash(
		model.FlattenPresentation(before),
		model.FlattenPresentation(after),
	)
	if !ignoreBounds && !ignoreOrder {
		return diff
	}
	kept := diff.Changed[:0]
	for _, change := range diff.Changed {
		if ignoreBounds {
			delete(change.Changes, "b")
		}
		if ignoreOrder {
			delete(change.Changes, "i")
		}
		if len(change.Changes) == 0 {
			diff.UnchangedCount++
			continue
		}
		kept = append(kept, change)
	}
	diff.Changed = kept
	return diff
}
