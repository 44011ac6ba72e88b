package cache

import "strings"

// InvalidatePattern deletes every key containing pattern as a literal
// substring (not a glob) and returns how many were removed. Write paths call
// this after mutating the backing records; there is no change feed from the
// database, so staleness between a write and the next invalidation is bounded
// by the entry TTL.
func (s *Store[T]) InvalidatePattern(pattern string) int {
	removed := 0
	for _, k := range s.Stats().Keys {
		if strings.Contains(k, pattern) {
			s.Delete(k)
			removed++
		}
	}
	if removed > 0 {
		s.log.Info().Str("pattern", pattern).Int("removed", removed).Msg("cache invalidated")
	}
	return removed
}

// InvalidateAll drops the whole store.
func (s *Store[T]) InvalidateAll() {
	s.Clear()
	s.log.Info().Msg("cache cleared")
}
