package acf

import (
	"testing"
)

func TestParseACF(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantKeys int
	}{
		{
			name:     "empty content",
			content:  "",
			wantKeys: 0,
		},
		{
			name:     "single property line",
			content:  "P acf/_m_empty 12.5",
			wantKeys: 1,
		},
		{
			name:     "non-property lines skipped",
			content:  "A 1100\nI\nP k 1.0\n# comment\nPROP not-a-marker 3",
			wantKeys: 1,
		},
		{
			name:     "line with key but no value skipped",
			content:  "P lonely/key",
			wantKeys: 0,
		},
		{
			name:     "leading whitespace tolerated",
			content:  "   P padded/key 2.0",
			wantKeys: 1,
		},
		{
			name:     "redefined key counted once",
			content:  "P k 1.0\nP k 2.0",
			wantKeys: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ParseACF(tt.content)
			if s.Len() != tt.wantKeys {
				t.Errorf("Len() = %d, want %d", s.Len(), tt.wantKeys)
			}
		})
	}
}

func TestParseACFValueShapes(t *testing.T) {
	s := ParseACF("P single 1.0\nP triple 1.0 2.0 3.0\nP word UNK")

	single, ok := s.Lookup("single")
	if !ok {
		t.Fatal("single not found")
	}
	if single.Kind() != KindScalar {
		t.Errorf("single kind = %v, want KindScalar", single.Kind())
	}
	if got := single.AsFloat(0); got != 1.0 {
		t.Errorf("single = %g, want 1.0", got)
	}

	triple, ok := s.Lookup("triple")
	if !ok {
		t.Fatal("triple not found")
	}
	if triple.Kind() != KindSeries {
		t.Errorf("triple kind = %v, want KindSeries", triple.Kind())
	}
	if triple.Len() != 3 {
		t.Fatalf("triple len = %d, want 3", triple.Len())
	}
	for i, want := range []float64{1.0, 2.0, 3.0} {
		if got := triple.At(i).AsFloat(0); got != want {
			t.Errorf("triple[%d] = %g, want %g", i, got, want)
		}
	}

	word, ok := s.Lookup("word")
	if !ok {
		t.Fatal("word not found")
	}
	if word.Kind() != KindText {
		t.Errorf("word kind = %v, want KindText", word.Kind())
	}
	if got := word.AsString(); got != "UNK" {
		t.Errorf("word = %q, want UNK", got)
	}
}

func TestParseACFTolerantValues(t *testing.T) {
	// Malformed numbers degrade to strings, never fail.
	s := ParseACF("P bad/key not_a_number")
	v, ok := s.Lookup("bad/key")
	if !ok {
		t.Fatal("bad/key not found")
	}
	if v.Kind() != KindText {
		t.Errorf("kind = %v, want KindText", v.Kind())
	}
	if got := v.AsString(); got != "not_a_number" {
		t.Errorf("value = %q, want not_a_number", got)
	}
	if got := v.AsFloat(7.5); got != 7.5 {
		t.Errorf("AsFloat default = %g, want 7.5", got)
	}
}

func TestParseACFLastWriteWins(t *testing.T) {
	s := ParseACF("P k 1.0\nP k 2.0")
	if got := s.Float("k", 0); got != 2.0 {
		t.Errorf("k = %g, want 2.0 (last assignment)", got)
	}
}

func TestLookupSuffixFallback(t *testing.T) {
	s := ParseACF("P a/b/c 5.0")

	tests := []struct {
		name   string
		suffix string
		def    float64
		want   float64
	}{
		{"exact key", "a/b/c", 9, 5},
		{"two-segment suffix", "b/c", 9, 5},
		{"single-segment suffix", "c", 9, 5},
		{"no match returns default", "z", 9, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Float(tt.suffix, tt.def); got != tt.want {
				t.Errorf("Float(%q) = %g, want %g", tt.suffix, got, tt.want)
			}
		})
	}
}

func TestLookupExactBeatsSuffix(t *testing.T) {
	s := ParseACF("P x/short 1.0\nP short 2.0")
	if got := s.Float("short", 0); got != 2.0 {
		t.Errorf("Float(short) = %g, want exact-key value 2.0", got)
	}
}

func TestLookupDeterministicTieBreak(t *testing.T) {
	// Multiple suffix matches resolve to the first key in insertion order,
	// every time.
	s := ParseACF("P first/v 1.0\nP second/v 2.0")
	for i := 0; i < 10; i++ {
		if got := s.Float("v", 0); got != 1.0 {
			t.Fatalf("Float(v) = %g on iteration %d, want 1.0", got, i)
		}
	}
}

func TestKeysInsertionOrder(t *testing.T) {
	s := ParseACF("P c 1\nP a 2\nP b 3\nP a 4")
	want := []string{"c", "a", "b"}
	keys := s.Keys()
	if len(keys) != len(want) {
		t.Fatalf("Keys() len = %d, want %d", len(keys), len(want))
	}
	for i, k := range want {
		if keys[i] != k {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], k)
		}
	}
}

func TestStoreIntCoercion(t *testing.T) {
	s := ParseACF("P count 4.0\nP label UNK")
	if got := s.Int("count", 0); got != 4 {
		t.Errorf("Int(count) = %d, want 4", got)
	}
	if got := s.Int("label", 7); got != 7 {
		t.Errorf("Int(label) = %d, want default 7", got)
	}
	if got := s.Int("missing", 3); got != 3 {
		t.Errorf("Int(missing) = %d, want default 3", got)
	}
}
