package skills

import (
	"encoding/json"
	"sort"
	"strings"
)

// Set is a deduplicated collection of normalized lowercase skill keywords.
type Set map[string]struct{}

func NewSet(keywords ...string) Set {
	s := make(Set, len(keywords))
	for _, kw := range keywords {
		s.Add(kw)
	}
	return s
}

// Add inserts the keyword after trimming and lowercasing. Empty strings are
// ignored.
func (s Set) Add(keyword string) {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return
	}
	s[keyword] = struct{}{}
}

func (s Set) Has(keyword string) bool {
	_, ok := s[strings.ToLower(strings.TrimSpace(keyword))]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// Union merges the other set into a new one, leaving both inputs untouched.
func (s Set) Union(other Set) Set {
	merged := make(Set, len(s)+len(other))
	for kw := range s {
		merged[kw] = struct{}{}
	}
	for kw := range other {
		merged[kw] = struct{}{}
	}
	return merged
}

// Sorted returns the keywords in lexicographic order.
func (s Set) Sorted() []string {
	keywords := make([]string, 0, len(s))
	for kw := range s {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)
	return keywords
}

// Join concatenates the sorted keywords with the separator. The fixed order
// keeps downstream vectorization deterministic.
func (s Set) Join(sep string) string {
	return strings.Join(s.Sorted(), sep)
}

func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *Set) UnmarshalJSON(data []byte) error {
	var keywords []string
	if err := json.Unmarshal(data, &keywords); err != nil {
		return err
	}
	*s = NewSet(keywords...)
	return nil
}
