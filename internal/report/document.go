// Package report models k6 end-of-test summary documents as they are exported per worker
// and as they are written back out after merging.
package report

import (
	"encoding/json"
)

// DurationKey is the state field holding the run duration in milliseconds.
const DurationKey = "testRunDurationMs"

// Document is one k6 summary export. root_group and options are carried verbatim.
type Document struct {
	RootGroup json.RawMessage `json:"root_group,omitempty"`
	Options   json.RawMessage `json:"options,omitempty"`
	State     *State          `json:"state,omitempty"`
	Metrics   *MetricSet      `json:"metrics,omitempty"`
}

// State is the document's state section. Keys keep their original order.
type State struct {
	obj orderedObject
}

// NewState returns an empty state.
func NewState() *State {
	return &State{obj: newOrderedObject()}
}

// DurationMs returns the run duration in milliseconds, or 0 when the state is nil,
// the key is missing or the value is not a number.
func (s *State) DurationMs() float64 {
	if s == nil {
		return 0
	}
	raw, ok := s.obj.get(DurationKey)
	if !ok {
		return 0
	}
	var ms float64
	if err := json.Unmarshal(raw, &ms); err != nil {
		return 0
	}
	return ms
}

// SetDurationMs overwrites the duration in place, appending the key if the state lacks it.
func (s *State) SetDurationMs(ms float64) {
	raw, err := json.Marshal(ms)
	if err != nil {
		// NaN or Inf; leave the previous value alone.
		return
	}
	s.obj.set(DurationKey, raw)
}

// Get returns the raw JSON value stored under key.
func (s *State) Get(key string) (json.RawMessage, bool) {
	if s == nil {
		return nil, false
	}
	return s.obj.get(key)
}

// Keys returns the state keys in document order.
func (s *State) Keys() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.obj.keys...)
}

// Clone returns a deep copy. Cloning a nil state yields an empty one.
func (s *State) Clone() *State {
	if s == nil {
		return NewState()
	}
	return &State{obj: s.obj.clone()}
}

// UnmarshalJSON accepts any JSON value. Anything other than an object becomes an empty state.
func (s *State) UnmarshalJSON(data []byte) error {
	obj, err := decodeOrderedObject(data)
	if err != nil {
		obj = newOrderedObject()
	}
	s.obj = obj
	return nil
}

// MarshalJSON writes the state keys in their original order.
func (s State) MarshalJSON() ([]byte, error) {
	return s.obj.MarshalJSON()
}
