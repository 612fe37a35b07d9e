package acf

import (
	"fmt"
	"os"
	"strings"
)

// PropertyStore is the parsed form of an .acf aircraft description: a mapping
// from slash-delimited hierarchical key to Value. It is built once and
// read-only thereafter; every downstream component queries the same store.
//
// Keys are unique with last-write-wins semantics. The order in which keys
// first appeared is retained so that suffix-fallback lookup is deterministic
// for a fixed input.
type PropertyStore struct {
	keys   []string
	values map[string]Value
}

// ParseACFFile reads and parses an .acf file.
func ParseACFFile(path string) (*PropertyStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading acf file: %w", err)
	}
	// Invalid UTF-8 passes through untouched; property lines are plain ASCII
	// and non-conforming lines are skipped anyway.
	return ParseACF(string(data)), nil
}

// ParseACF parses raw .acf content. Only lines of the form
//
//	P <key> <value> [<value> ...]
//
// participate; everything else is silently skipped. Each value token becomes
// a float where it parses as one and a string otherwise. A single token is
// stored bare; multiple tokens become an ordered series.
func ParseACF(content string) *PropertyStore {
	s := &PropertyStore{values: make(map[string]Value)}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] != "P" {
			continue
		}

		key := fields[1]
		var v Value
		if len(fields) == 3 {
			v = parseToken(fields[2])
		} else {
			elems := make([]Value, 0, len(fields)-2)
			for _, tok := range fields[2:] {
				elems = append(elems, parseToken(tok))
			}
			v = Series(elems...)
		}

		if _, seen := s.values[key]; !seen {
			s.keys = append(s.keys, key)
		}
		s.values[key] = v
	}

	return s
}

// Len returns the number of distinct keys.
func (s *PropertyStore) Len() int { return len(s.keys) }

// Keys returns all keys in first-insertion order.
func (s *PropertyStore) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Lookup resolves a key or key suffix. An exact key wins; otherwise the
// first stored key (in insertion order) whose trailing substring equals
// suffix is used. The source format often omits leading hierarchy segments,
// so callers query loosely.
func (s *PropertyStore) Lookup(suffix string) (Value, bool) {
	if v, ok := s.values[suffix]; ok {
		return v, true
	}
	for _, k := range s.keys {
		if strings.HasSuffix(k, suffix) {
			return s.values[k], true
		}
	}
	return Value{}, false
}

// Get resolves a key or suffix, returning def when nothing matches.
func (s *PropertyStore) Get(suffix string, def Value) Value {
	if v, ok := s.Lookup(suffix); ok {
		return v
	}
	return def
}

// Float resolves a key or suffix coerced to float64.
func (s *PropertyStore) Float(suffix string, def float64) float64 {
	if v, ok := s.Lookup(suffix); ok {
		return v.AsFloat(def)
	}
	return def
}

// Int resolves a key or suffix coerced to int.
func (s *PropertyStore) Int(suffix string, def int) int {
	if v, ok := s.Lookup(suffix); ok {
		return v.AsInt(def)
	}
	return def
}
