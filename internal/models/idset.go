package models

import (
	"encoding/json"
	"sort"
)

// IDSet is the value object behind the resolution and applied-pattern
// ledgers. It serializes as a sorted JSON array so snapshots are stable.
// The zero value is usable.
type IDSet struct {
	ids map[string]struct{}
}

func NewIDSet(ids ...string) IDSet {
	s := IDSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

func (s IDSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// With returns a copy of the set including id. The receiver is unchanged;
// ledgers flow through the applier as values.
func (s IDSet) With(id string) IDSet {
	out := IDSet{ids: make(map[string]struct{}, len(s.ids)+1)}
	for k := range s.ids {
		out.ids[k] = struct{}{}
	}
	out.ids[id] = struct{}{}
	return out
}

func (s IDSet) Len() int {
	return len(s.ids)
}

// IDs returns the members in sorted order.
func (s IDSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s IDSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

func (s *IDSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewIDSet(ids...)
	return nil
}
