package db

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
)

// Event is one row of the events table with its loaded children.
type Event struct {
	ID        int64
	Timestamp int64
	ParentID  sql.NullInt64
	EventType string
	Payload   sql.NullString
	Children  []*Event
}

// LatestProcessEvent returns the id of the newest process.started event
// recorded by a process of the given role.
func LatestProcessEvent(db *sql.DB, role string) (int64, error) {
	var id int64
	err := db.QueryRow(
		`SELECT id FROM events WHERE event_type = ?
		 AND json_extract(payload, '$.role') = ?
		 ORDER BY id DESC LIMIT 1`,
		EventProcessStarted, role,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("no %s event for role %q", EventProcessStarted, role)
	}
	return id, err
}

// EventTree loads the event rootID and all of its descendants.
// Children are ordered by id.
func EventTree(db *sql.DB, rootID int64) (*Event, error) {
	rows, err := db.Query(`
		WITH RECURSIVE subtree(id) AS (
			SELECT id FROM events WHERE id = ?
			UNION ALL
			SELECT e.id FROM events e JOIN subtree s ON e.parent_id = s.id
		)
		SELECT e.id, e.timestamp, e.parent_id, e.event_type, e.payload
		FROM events e
		WHERE e.id IN (SELECT id FROM subtree)
		ORDER BY e.id ASC
	`, rootID)
	if err != nil {
		return nil, fmt.Errorf("query event tree %d: %w", rootID, err)
	}
	defer rows.Close()

	byID := make(map[int64]*Event)
	var ordered []*Event
	for rows.Next() {
		ev := &Event{}
		if err := rows.Scan(&ev.ID, &ev.Timestamp, &ev.ParentID, &ev.EventType, &ev.Payload); err != nil {
			return nil, err
		}
		byID[ev.ID] = ev
		ordered = append(ordered, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	root, ok := byID[rootID]
	if !ok {
		return nil, fmt.Errorf("event %d not found", rootID)
	}
	for _, ev := range ordered {
		if ev.ID == rootID || !ev.ParentID.Valid {
			continue
		}
		if parent, ok := byID[ev.ParentID.Int64]; ok && parent != ev {
			parent.Children = append(parent.Children, ev)
		}
	}
	for _, ev := range ordered {
		sort.Slice(ev.Children, func(i, j int) bool { return ev.Children[i].ID < ev.Children[j].ID })
	}
	return root, nil
}
