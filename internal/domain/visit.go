package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/qri-io/jsonschema"
)

// TimeSlot is a bookable part of the day.
type TimeSlot string

const (
	SlotMorning   TimeSlot = "morning"   // 10 AM - 12 PM
	SlotNoon      TimeSlot = "noon"      // 12 PM - 2 PM
	SlotAfternoon TimeSlot = "afternoon" // 2 PM - 4 PM
)

// Label is the human-readable slot window.
func (s TimeSlot) Label() string {
	switch s {
	case SlotMorning:
		return "Morning (10 AM - 12 PM)"
	case SlotNoon:
		return "Noon (12 PM - 2 PM)"
	case SlotAfternoon:
		return "Afternoon (2 PM - 4 PM)"
	}
	return string(s)
}

// VisitPurpose is the declared reason for a farm visit.
type VisitPurpose string

const (
	PurposeEducational VisitPurpose = "Educational"
	PurposePersonal    VisitPurpose = "Personal"
	PurposeBusiness    VisitPurpose = "Business"
	PurposeOther       VisitPurpose = "Other"
)

const (
	MinVisitors = 1
	MaxVisitors = 50
)

// VisitorCount is a head count. It is carried as a decimal string on the
// wire because booking forms submit it that way; numbers are accepted too.
type VisitorCount int

// MarshalJSON encodes the count as a quoted decimal.
func (v VisitorCount) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.Itoa(int(v)))
}

// UnmarshalJSON accepts "4" or 4.
func (v *VisitorCount) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var n int
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("visitors must be a number")
		}
		*v = VisitorCount(n)
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("visitors must be a number")
	}
	*v = VisitorCount(n)
	return nil
}

// VisitDetails is the typed form of a farm-visit enquiry's metadata.
type VisitDetails struct {
	Date     string       `json:"date"`
	Time     TimeSlot     `json:"time"`
	Visitors VisitorCount `json:"visitors"`
	Purpose  VisitPurpose `json:"purpose"`
}

// Encode serializes the details for storage.
func (v *VisitDetails) Encode() ([]byte, error) {
	return json.Marshal(v)
}

// DecodeVisitDetails deserializes stored metadata.
func DecodeVisitDetails(raw []byte) (*VisitDetails, error) {
	var v VisitDetails
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode visit details: %w", err)
	}
	return &v, nil
}

const visitSchemaJSON = `{
  "type": "object",
  "required": ["date", "time", "visitors", "purpose"],
  "properties": {
    "date": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
    "time": {"type": "string", "enum": ["morning", "noon", "afternoon"]},
    "visitors": {
      "anyOf": [
        {"type": "string", "pattern": "^\\s*[0-9]+\\s*$"},
        {"type": "integer"}
      ]
    },
    "purpose": {"type": "string", "enum": ["Educational", "Personal", "Business", "Other"]}
  }
}`

var (
	visitSchemaOnce sync.Once
	visitSchema     *jsonschema.Schema
	visitSchemaErr  error
)

func compiledVisitSchema() (*jsonschema.Schema, error) {
	visitSchemaOnce.Do(func() {
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal([]byte(visitSchemaJSON), rs); err != nil {
			visitSchemaErr = fmt.Errorf("compile visit schema: %w", err)
			return
		}
		visitSchema = rs
	})
	return visitSchema, visitSchemaErr
}

// ParseVisitDetails validates the string-encoded metadata submitted with a
// farm-visit booking and returns its typed form.
func ParseVisitDetails(ctx context.Context, raw string) (*VisitDetails, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("visit details are required")
	}

	schema, err := compiledVisitSchema()
	if err != nil {
		return nil, err
	}
	keyErrs, err := schema.ValidateBytes(ctx, []byte(raw))
	if err != nil {
		return nil, fmt.Errorf("visit details are not valid JSON: %w", err)
	}
	if len(keyErrs) > 0 {
		first := keyErrs[0]
		return nil, fmt.Errorf("invalid visit details at %s: %s", first.PropertyPath, first.Message)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	var v VisitDetails
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode visit details: %w", err)
	}
	if _, err := time.Parse(time.DateOnly, v.Date); err != nil {
		return nil, fmt.Errorf("visit date must be YYYY-MM-DD")
	}
	if v.Visitors < MinVisitors || v.Visitors > MaxVisitors {
		return nil, fmt.Errorf("visitors must be between %d and %d", MinVisitors, MaxVisitors)
	}
	return &v, nil
}
