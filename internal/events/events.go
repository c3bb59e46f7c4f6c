// Package events carries store change notifications to in-process
// subscribers.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"studysmart/internal/store"
)

// Op is the kind of mutation that produced a change.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Change describes one committed mutation of one table.
type Change struct {
	ID        uuid.UUID   `json:"id"`
	Table     store.Table `json:"table"`
	Op        Op          `json:"op"`
	EntityID  int64       `json:"entity_id"`
	SubjectID int64       `json:"subject_id,omitempty"`
	At        time.Time   `json:"at"`
}

// NewChange stamps a change with a fresh id and the current time.
func NewChange(table store.Table, op Op, entityID, subjectID int64) Change {
	return Change{
		ID:        uuid.New(),
		Table:     table,
		Op:        op,
		EntityID:  entityID,
		SubjectID: subjectID,
		At:        time.Now().UTC(),
	}
}

// ToJSON encodes the change for the change feed.
func (c Change) ToJSON() ([]byte, error) {
	return json.Marshal(c)
}

// ChangeFromJSON decodes a change produced by ToJSON.
func ChangeFromJSON(data []byte) (Change, error) {
	var c Change
	if err := json.Unmarshal(data, &c); err != nil {
		return Change{}, err
	}
	return c, nil
}
