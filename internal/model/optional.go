package model

import (
	"bytes"
	"encoding/json"
	"time"

	"retailpos/pkg/dateutil"
)

// OptionalDate distinguishes an absent JSON field from an explicit null.
// Set is true whenever the key was present in the payload.
type OptionalDate struct {
	Set  bool
	Time *time.Time
}

func (d *OptionalDate) UnmarshalJSON(b []byte) error {
	d.Set = true
	d.Time = nil
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}

	t, err := dateutil.ParseFlexibleDate(s)
	if err != nil {
		return err
	}
	t = t.UTC()
	d.Time = &t
	return nil
}

func (d OptionalDate) MarshalJSON() ([]byte, error) {
	if d.Time == nil {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.UTC().Format(time.RFC3339))
}

// DateOf wraps a concrete time as a present value.
func DateOf(t time.Time) OptionalDate {
	t = t.UTC()
	return OptionalDate{Set: true, Time: &t}
}

// pickDate merges the current and legacy field names for the same date.
// A non-empty current value wins, then any present legacy value, then the
// current field as given (which may be an explicit null).
func pickDate(current, legacy OptionalDate) OptionalDate {
	if current.Set && current.Time != nil {
		return current
	}
	if legacy.Set {
		return legacy
	}
	return current
}
