package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stupiduntilnot/searchbot/internal/app"
	"github.com/stupiduntilnot/searchbot/internal/db"
)

type eventsOptions struct {
	id        int64
	role      string
	depth     int
	jsonOut   bool
	noPayload bool
}

func newEventsCmd() *cobra.Command {
	var opts eventsOptions
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print the audit events of the latest bot process as a tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, core *app.App) error {
				rootID := opts.id
				if rootID == 0 {
					var err error
					if rootID, err = db.LatestProcessEvent(core.DB, opts.role); err != nil {
						return err
					}
				}
				root, err := db.EventTree(core.DB, rootID)
				if err != nil {
					return err
				}
				if opts.jsonOut {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(toJSONEvent(root, 1, opts))
				}
				writeTree(cmd.OutOrStdout(), root, "", true, 1, opts)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&opts.id, "id", 0, "show the subtree of this event id")
	cmd.Flags().StringVar(&opts.role, "role", "bot", "process role whose latest run is shown")
	cmd.Flags().IntVarP(&opts.depth, "depth", "L", 0, "limit display depth (0 = unlimited)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "output JSON")
	cmd.Flags().BoolVar(&opts.noPayload, "no-payload", false, "hide payload fields")
	return cmd
}

func writeTree(w io.Writer, ev *db.Event, prefix string, last bool, depth int, opts eventsOptions) {
	if depth == 1 {
		fmt.Fprintln(w, eventLine(ev, opts.noPayload))
	} else {
		branch := "├── "
		if last {
			branch = "└── "
		}
		fmt.Fprintln(w, prefix+branch+eventLine(ev, opts.noPayload))
	}

	next := prefix
	if depth > 1 {
		if last {
			next += "    "
		} else {
			next += "│   "
		}
	}
	if opts.depth > 0 && depth >= opts.depth {
		if len(ev.Children) > 0 {
			fmt.Fprintln(w, next+"└── [...]")
		}
		return
	}
	for i, child := range ev.Children {
		writeTree(w, child, next, i == len(ev.Children)-1, depth+1, opts)
	}
}

// eventLine renders "[id] time  type  k=v ..." with payload keys sorted.
func eventLine(ev *db.Event, noPayload bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d] %s  %s", ev.ID, time.Unix(ev.Timestamp, 0).UTC().Format(time.DateTime), ev.EventType)
	if noPayload {
		return b.String()
	}
	payload := decodePayload(ev)
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s=%s", k, payloadValue(payload[k]))
	}
	return b.String()
}

func decodePayload(ev *db.Event) map[string]any {
	if !ev.Payload.Valid || ev.Payload.String == "" {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(ev.Payload.String), &m); err != nil {
		return nil
	}
	return m
}

func payloadValue(v any) string {
	switch val := v.(type) {
	case string:
		if r := []rune(val); len(r) > 80 {
			return fmt.Sprintf("%q", string(r[:80])+"...")
		}
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

type jsonEvent struct {
	ID        int64          `json:"id"`
	Timestamp int64          `json:"timestamp"`
	EventType string         `json:"event_type"`
	Payload   map[string]any `json:"payload,omitempty"`
	Children  []jsonEvent    `json:"children,omitempty"`
}

func toJSONEvent(ev *db.Event, depth int, opts eventsOptions) jsonEvent {
	je := jsonEvent{ID: ev.ID, Timestamp: ev.Timestamp, EventType: ev.EventType}
	if !opts.noPayload {
		je.Payload = decodePayload(ev)
	}
	if opts.depth > 0 && depth >= opts.depth {
		return je
	}
	for _, child := range ev.Children {
		je.Children = append(je.Children, toJSONEvent(child, depth+1, opts))
	}
	return je
}
