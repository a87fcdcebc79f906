// Package dedup gates records on identity tokens already present in the store.
package dedup

// SeenSet holds the identity tokens already represented in the remote store.
// It is built fresh each run by a full paginated scan and never reused across
// runs: the store is the single source of truth for "already saved".
type SeenSet map[string]struct{}

func NewSeenSet(tokens ...string) SeenSet {
	s := make(SeenSet, len(tokens))
	for _, t := range tokens {
		s.Add(t)
	}

	return s
}

// IsNew reports whether the token has not been seen. O(1) membership check.
func (s SeenSet) IsNew(token string) bool {
	_, seen := s[token]

	return !seen
}

func (s SeenSet) Add(token string) {
	s[token] = struct{}{}
}

func (s SeenSet) Len() int {
	return len(s)
}
