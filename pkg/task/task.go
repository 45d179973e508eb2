package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidCost is returned when a cost input is not a number.
var ErrInvalidCost = errors.New("invalid cost")

// ID identifies a task. It is assigned by the remote service and is opaque
// to the client. Whether the service sent it as a JSON number or a JSON
// string is kept next to it (Task.NumericID, Draft.NumericID) so it goes
// back the way it came.
type ID string

// UnmarshalJSON accepts both JSON strings and JSON numbers.
func (id *ID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("task id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("task id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// encodeID writes id as a JSON number when numeric is set and id is a valid
// JSON number, and as a JSON string otherwise.
func encodeID(id ID, numeric bool) json.RawMessage {
	if numeric && isJSONNumber(string(id)) {
		return json.RawMessage(id)
	}
	b, _ := json.Marshal(string(id))
	return b
}

func isJSONNumber(s string) bool {
	if s == "" || !strings.ContainsRune("-0123456789", rune(s[0])) {
		return false
	}
	return json.Valid([]byte(s))
}

// numericID reports whether the "id" member of the JSON object obj is a number.
func numericID(obj []byte) (bool, error) {
	var raw struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(obj, &raw); err != nil {
		return false, err
	}
	return len(raw.ID) > 0 && raw.ID[0] != '"' && string(raw.ID) != "null", nil
}

// Task is the client's read-through copy of a task owned by the remote service.
type Task struct {
	ID        ID      `json:"id"`
	TaskName  string  `json:"taskName"`
	Cost      float64 `json:"cost"`
	DataLimit string  `json:"dataLimit"` // ISO date, e.g. 2024-11-10
	Ordering  *int    `json:"ordering,omitempty"`

	// NumericID is set when the service sent the id as a JSON number.
	NumericID bool `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Task) UnmarshalJSON(b []byte) error {
	type plain Task
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	num, err := numericID(b)
	if err != nil {
		return err
	}
	*t = Task(p)
	t.NumericID = num
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Task) MarshalJSON() ([]byte, error) {
	type plain Task
	return json.Marshal(struct {
		ID json.RawMessage `json:"id"`
		plain
	}{ID: encodeID(t.ID, t.NumericID), plain: plain(t)})
}

// Draft is the payload of a create or update request. ID is empty for create.
// A nil Cost is sent as null and left for the server to reject.
type Draft struct {
	ID        ID       `json:"id,omitempty"`
	TaskName  string   `json:"taskName"`
	Cost      *float64 `json:"cost"`
	DataLimit string   `json:"dataLimit"`

	// NumericID sends ID as a JSON number; see Task.NumericID.
	NumericID bool `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Draft) UnmarshalJSON(b []byte) error {
	type plain Draft
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	num, err := numericID(b)
	if err != nil {
		return err
	}
	*d = Draft(p)
	d.NumericID = num
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Draft) MarshalJSON() ([]byte, error) {
	type plain Draft
	var id json.RawMessage
	if d.ID != "" {
		id = encodeID(d.ID, d.NumericID)
	}
	return json.Marshal(struct {
		ID json.RawMessage `json:"id,omitempty"`
		plain
	}{ID: id, plain: plain(d)})
}

// NewDraft builds a create payload from raw form input.
func NewDraft(name, dataLimit, cost string) (Draft, error) {
	c, err := ParseCost(cost)
	if err != nil {
		return Draft{}, err
	}
	return Draft{TaskName: name, Cost: c, DataLimit: dataLimit}, nil
}

// ParseCost parses a cost input as a floating point number. Blank input
// yields nil. A decimal comma is accepted when no dot is present.
func ParseCost(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCost, s)
	}
	return &v, nil
}

// Lister fetches the full task collection in server order.
type Lister interface {
	List(ctx context.Context) ([]Task, error)
}

// Mutator issues mutations against the remote service.
type Mutator interface {
	Create(ctx context.Context, d Draft) error
	Update(ctx context.Context, d Draft) error
	Delete(ctx context.Context, id ID) error
}

// Service is the contract of the remote task service.
type Service interface {
	Lister
	Mutator
}
