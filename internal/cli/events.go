package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/evlens/evlens/internal/api"
	"github.com/evlens/evlens/internal/logging"
	"github.com/evlens/evlens/internal/pagination"
)

// newEventsCmd creates the events command group with listing and curation
// subcommands.
func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "events", Short: "Event listing and curation commands"}
	cmd.AddCommand(NewEventsListCmd(), NewEventsUnlinkCmd())
	return cmd
}

// eventsListParams holds the flag values for the events list command.
type eventsListParams struct {
	limit    int
	offset   int
	page     int
	pageSize int
	sort     string
	filter   []string
	all      bool
	output   string
}

// NewEventsListCmd creates the "list" subcommand that prints an entity's
// linked events.
func NewEventsListCmd() *cobra.Command {
	var params eventsListParams

	cmd := &cobra.Command{
		Use:   "list <entity-id>",
		Short: "List events linked to an entity",
		Long: `List the camera events linked to a tracked entity, newest first.

Pagination is either offset-based (--limit/--offset) or page-based
(--page/--page-size); the two modes cannot be combined. Use --all to fetch
the complete collection regardless of size.`,
		Example: `  # List the most recent events
  evlens events list person-42

  # Page-based pagination
  evlens events list person-42 --page 2 --page-size 25

  # Offset-based pagination with a filter
  evlens events list person-42 --offset 50 --limit 50 --filter camera=porch

  # Everything, sorted by score, as JSON
  evlens events list person-42 --all --sort score:desc --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEventsList(cmd, args[0], params)
		},
	}

	cmd.Flags().IntVar(&params.limit, "limit", pagination.DefaultLimit,
		"Maximum number of events to return")
	cmd.Flags().IntVar(&params.offset, "offset", 0,
		"Number of events to skip for offset-based pagination")
	cmd.Flags().IntVar(&params.page, "page", 0,
		"Page number for page-based pagination (1-indexed, 0 = disabled)")
	cmd.Flags().IntVar(&params.pageSize, "page-size", 0,
		"Number of events per page (requires --page)")
	cmd.Flags().StringVar(&params.sort, "sort", "",
		"Sort expression (e.g. 'time:desc', 'score', 'camera:asc')")
	cmd.Flags().StringArrayVar(&params.filter, "filter", []string{},
		"Filter expressions (e.g. 'camera=porch', 'label=person')")
	cmd.Flags().BoolVar(&params.all, "all", false,
		"Fetch the complete collection (ignores pagination flags)")
	cmd.Flags().StringVar(&params.output, "output", "table",
		"Output format: table or json")

	return cmd
}

//nolint:gocognit // Orchestration across fetch modes and output formats.
func runEventsList(cmd *cobra.Command, entityID string, params eventsListParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	if params.output != "table" && params.output != "json" {
		return fmt.Errorf("unsupported output format: %s", params.output)
	}

	pg := pagination.Params{
		Limit:    params.limit,
		Offset:   params.offset,
		Page:     params.page,
		PageSize: params.pageSize,
	}
	if err := pg.Validate(); err != nil {
		return fmt.Errorf("invalid pagination parameters: %w", err)
	}
	if err := pg.ParseSort(params.sort); err != nil {
		return err
	}

	filters := api.Filters(params.filter)
	if err := filters.Validate(); err != nil {
		return err
	}

	client, cfg, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	var (
		events []api.Event
		total  int
	)
	if params.all {
		events, err = client.FetchAll(ctx, entityID, cfg.List.PageSize, filters)
		if err != nil {
			return err
		}
		total = len(events)
	} else {
		offset, limit := pg.EffectiveOffsetLimit()
		page, fetchErr := client.FetchPage(ctx, entityID, offset, limit, filters)
		if fetchErr != nil {
			return fetchErr
		}
		events = page.Events
		total = page.Total
	}

	// Sorting is applied to the fetched slice; the backend always returns
	// newest-first.
	if pg.SortField != "" {
		sorter := pagination.NewEventSorter()
		if !sorter.IsValidField(pg.SortField) {
			return fmt.Errorf("invalid sort field: %q (valid fields: %s)",
				pg.SortField, strings.Join(sorter.ValidFields(), ", "))
		}
		events = sorter.Sort(events, pg.SortField, pg.SortOrder)
	}

	log.Debug().Ctx(ctx).
		Str("entity", entityID).
		Int("returned", len(events)).
		Int("total", total).
		Bool("all", params.all).
		Msg("listing events")

	if params.output == "json" {
		return renderEventsJSON(cmd, events, pg, total, params.all)
	}
	return renderEventsTable(cmd, events, pg, total, params.all)
}

// eventsListDocument is the JSON output envelope for events list.
type eventsListDocument struct {
	EntityID   string           `json:"entity_id,omitempty"`
	Events     []api.Event      `json:"events"`
	Total      int              `json:"total"`
	Pagination *pagination.Meta `json:"pagination,omitempty"`
}

func renderEventsJSON(cmd *cobra.Command, events []api.Event, pg pagination.Params, total int, all bool) error {
	doc := eventsListDocument{Events: events, Total: total}
	if !all {
		meta := pagination.NewMeta(pg, total)
		doc.Pagination = &meta
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func renderEventsTable(cmd *cobra.Command, events []api.Event, pg pagination.Params, total int, all bool) error {
	if len(events) == 0 {
		cmd.Println("No events found.")
		return nil
	}

	const tabPadding = 2
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, tabPadding, ' ', 0)

	fmt.Fprintln(w, "ID\tTime\tCamera\tLabel\tScore\tSnippet")
	fmt.Fprintln(w, "--\t----\t------\t-----\t-----\t-------")
	for _, ev := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.0f%%\t%s\n",
			ev.ID,
			ev.Timestamp.Local().Format(time.DateTime),
			ev.Camera,
			ev.Label,
			ev.Score*100, //nolint:mnd // Score is a 0..1 ratio rendered as a percentage.
			ev.Snippet,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if all {
		cmd.Printf("\n%d events\n", total)
		return nil
	}

	meta := pagination.NewMeta(pg, total)
	cmd.Printf("\nPage %d of %d (%d events total)\n", meta.CurrentPage, meta.TotalPages, meta.TotalItems)
	return nil
}
