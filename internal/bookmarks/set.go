package bookmarks

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"jobboard-engine/internal/domain"
)

// Set is an unordered collection of bookmarked job ids. The zero value
// is not usable; use NewSet.
type Set map[domain.JobID]struct{}

func NewSet(ids ...domain.JobID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s Set) Has(id domain.JobID) bool {
	_, ok := s[id]
	return ok
}

func (s Set) Add(id domain.JobID)    { s[id] = struct{}{} }
func (s Set) Remove(id domain.JobID) { delete(s, id) }

// Toggle flips membership of id and reports whether it is now present.
func (s Set) Toggle(id domain.JobID) bool {
	if s.Has(id) {
		delete(s, id)
		return false
	}
	s[id] = struct{}{}
	return true
}

func (s Set) Clone() Set {
	out := make(Set, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// IDs returns the members in canonical order: numeric ids ascending by
// value first, then the rest lexically.
func (s Set) IDs() []domain.JobID {
	out := make([]domain.JobID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return lessID(out[i], out[j]) })
	return out
}

func lessID(a, b domain.JobID) bool {
	na, aerr := strconv.ParseInt(string(a), 10, 64)
	nb, berr := strconv.ParseInt(string(b), 10, 64)
	switch {
	case aerr == nil && berr == nil:
		if na != nb {
			return na < nb
		}
		return a < b
	case aerr == nil:
		return true
	case berr == nil:
		return false
	}
	return a < b
}

// MarshalJSON writes the canonical payload: a JSON array in IDs order,
// with integer ids written as numbers so payloads stay compatible with
// stores written by the browser client.
func (s Set) MarshalJSON() ([]byte, error) {
	ids := s.IDs()
	out := make([]json.RawMessage, 0, len(ids))
	for _, id := range ids {
		if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
			out = append(out, json.RawMessage(string(id)))
			continue
		}
		b, err := json.Marshal(string(id))
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return json.Marshal(out)
}

func (s *Set) UnmarshalJSON(b []byte) error {
	var ids []domain.JobID
	if err := json.Unmarshal(b, &ids); err != nil {
		return fmt.Errorf("bookmark set: %w", err)
	}
	*s = NewSet(ids...)
	return nil
}
