package sheetsclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/asanahu/Calendario/pkg/db"
)

// Column names in the roster sheet
const (
	fieldID         = "ID"
	fieldFirstName  = "First name"
	fieldLastName   = "Last name"
	fieldSkills     = "Skills"
	fieldFixedRoles = "Fixed roles"
	fieldStatus     = "Status"
)

// requiredFields must be present in the header row; the other columns are optional
var requiredFields = []string{fieldID, fieldFirstName, fieldLastName}

// Roster reads the worker roster from one tab of a spreadsheet.
// It implements db.WorkerDirectory.
type Roster struct {
	client  *Client
	sheetID string
	tab     string
}

var _ db.WorkerDirectory = (*Roster)(nil)

// NewRoster creates a roster reader for the given spreadsheet tab
func NewRoster(client *Client, sheetID, tab string) *Roster {
	return &Roster{client: client, sheetID: sheetID, tab: tab}
}

// ListWorkers retrieves and parses the workers listed in the roster tab
func (r *Roster) ListWorkers(ctx context.Context) ([]db.Worker, error) {
	values, err := r.client.GetValues(ctx, r.sheetID, r.tab)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	workers, err := parseWorkers(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}

	return workers, nil
}

// parseWorkers converts raw spreadsheet rows into worker records.
// Rows without an ID are skipped. A blank status counts as active.
func parseWorkers(raw [][]interface{}) ([]db.Worker, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	// Build field index map from header row
	fieldIndexes := make(map[string]int)
	for i, cell := range raw[0] {
		if cellStr, ok := cell.(string); ok {
			fieldIndexes[strings.TrimSpace(cellStr)] = i
		}
	}
	for _, field := range requiredFields {
		if _, ok := fieldIndexes[field]; !ok {
			return nil, fmt.Errorf("missing required field in header: %s", field)
		}
	}

	getField := func(field string, row []interface{}) string {
		index, ok := fieldIndexes[field]
		if !ok || index >= len(row) {
			return ""
		}
		if str, ok := row[index].(string); ok {
			return strings.TrimSpace(str)
		}
		return strings.TrimSpace(fmt.Sprint(row[index]))
	}

	workers := make([]db.Worker, 0, len(raw)-1)
	seen := make(map[string]int)
	for i := 1; i < len(raw); i++ {
		row := raw[i]

		id := getField(fieldID, row)
		if id == "" {
			continue
		}
		if previous, ok := seen[id]; ok {
			return nil, fmt.Errorf("duplicate worker ID %s in rows %d and %d", id, previous, i)
		}
		seen[id] = i

		status := getField(fieldStatus, row)
		workers = append(workers, db.Worker{
			ID:         id,
			FirstName:  getField(fieldFirstName, row),
			LastName:   getField(fieldLastName, row),
			Skills:     splitList(getField(fieldSkills, row)),
			FixedRoles: splitList(getField(fieldFixedRoles, row)),
			Active:     status == "" || strings.EqualFold(status, "active"),
		})
	}

	return workers, nil
}

// splitList splits a comma separated cell, dropping blanks
func splitList(cell string) []string {
	var items []string
	for _, part := range strings.Split(cell, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
