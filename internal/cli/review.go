package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/evlens/evlens/internal/api"
	"github.com/evlens/evlens/internal/tui"
)

// NewReviewCmd creates the "review" command that launches the interactive
// event review dashboard for one entity.
func NewReviewCmd() *cobra.Command {
	var filter []string

	cmd := &cobra.Command{
		Use:   "review <entity-id>",
		Short: "Review an entity's events interactively",
		Long: `Opens the interactive dashboard over an entity's linked events.

Small collections render one page at a time; large collections render a
scrolling windowed list. Press enter on an event to open its detail view,
'o' inside the detail to open the occurrence view, and esc to step back.
Scroll position is preserved across the whole chain.`,
		Example: `  # Review everything linked to an entity
  evlens review person-42

  # Review only events from one camera
  evlens review person-42 --filter camera=porch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(cmd, args[0], api.Filters(filter))
		},
	}

	cmd.Flags().StringArrayVar(&filter, "filter", []string{},
		"Filter expressions (e.g. 'camera=porch', 'label=person')")

	return cmd
}

func runReview(cmd *cobra.Command, entityID string, filters api.Filters) error {
	if err := filters.Validate(); err != nil {
		return err
	}

	mode := tui.DetectOutputMode(false, false, true)
	if mode != tui.OutputModeInteractive {
		return errors.New("review requires an interactive terminal (use 'evlens events list' in scripts)")
	}

	client, cfg, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	model := tui.NewReviewModel(cmd.Context(), client, entityID, filters, cfg.List)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive dashboard: %w", err)
	}
	return nil
}
