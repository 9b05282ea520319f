package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evlens/evlens/internal/api"
	"github.com/evlens/evlens/internal/logging"
)

// NewEventsUnlinkCmd creates the "unlink" subcommand that removes an event
// from an entity's linked collection.
func NewEventsUnlinkCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "unlink <entity-id> <event-id>",
		Short: "Remove an event from an entity's collection",
		Long: `Removes the link between an entity and one of its events. The event
itself is not deleted and remains reachable through other entities.

Removal requires confirmation. Pass --yes to skip the prompt in scripts;
without it, non-interactive invocations abort.`,
		Example: `  # Remove with an interactive confirmation
  evlens events unlink person-42 evt-01J9

  # Remove without prompting
  evlens events unlink person-42 evt-01J9 --yes`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEventsUnlink(cmd, args[0], args[1], yes)
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")

	return cmd
}

func runEventsUnlink(cmd *cobra.Command, entityID, eventID string, yes bool) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	if !yes {
		result := ConfirmUnlink(cmd.OutOrStdout(), cmd.InOrStdin(), entityID, eventID)
		if result.Cancelled {
			return errors.New("confirmation cancelled")
		}
		if !result.Accepted {
			cmd.Println("Aborted.")
			return nil
		}
	}

	client, _, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	if err := client.Unlink(ctx, entityID, eventID); err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return fmt.Errorf("event %s is not linked to entity %s: %w", eventID, entityID, err)
		}
		return err
	}

	log.Info().Ctx(ctx).
		Str("entity", entityID).
		Str("event", eventID).
		Msg("event unlinked")

	cmd.Printf("Removed event %s from entity %s\n", eventID, entityID)
	return nil
}
