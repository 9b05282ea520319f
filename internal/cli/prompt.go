package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/evlens/evlens/internal/tui"
)

// PromptResult contains the result of a user prompt interaction.
type PromptResult struct {
	// Accepted is true if the user accepted the prompt (typed "y" or "yes")
	Accepted bool
	// Cancelled is true if reading input failed (e.g. Ctrl+C closed stdin)
	Cancelled bool
}

// ConfirmUnlink prompts the user to confirm removing an event from an
// entity's collection. It returns immediately with Accepted=false in
// non-interactive (non-TTY) environments.
//
// The prompt defaults to "No" when the user presses Enter without input.
// Valid inputs: "y", "Y", "yes", "Yes", "YES" for acceptance; anything else
// declines.
func ConfirmUnlink(writer io.Writer, reader io.Reader, entityID, eventID string) PromptResult {
	// In non-TTY environments, return immediately without prompting
	if !tui.IsTTY() {
		return PromptResult{Accepted: false}
	}

	fmt.Fprintf(writer, "? Remove event %s from entity %s? The event itself is not deleted. [y/N] ",
		eventID, entityID)

	scanner := bufio.NewScanner(reader)
	if !scanner.Scan() {
		// EOF or error - treat errors as cancelled, plain EOF as decline
		if scanner.Err() != nil {
			return PromptResult{Cancelled: true}
		}
		return PromptResult{Accepted: false}
	}

	input := strings.TrimSpace(scanner.Text())
	if input == "" {
		return PromptResult{Accepted: false}
	}

	switch strings.ToLower(input) {
	case "y", "yes":
		return PromptResult{Accepted: true}
	default:
		return PromptResult{Accepted: false}
	}
}
