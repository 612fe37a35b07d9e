package acf

import (
	"fmt"
	"strconv"
)

// ValueKind discriminates the three shapes a property value can take in an
// .acf file: a single number, a single non-numeric token, or an ordered
// sequence of tokens from a line that carried multiple values.
type ValueKind int

const (
	KindScalar ValueKind = iota
	KindText
	KindSeries
)

// Value is a tagged variant for one property value. Coercion is explicit via
// the As* helpers; there is no implicit type switching at call sites.
type Value struct {
	kind   ValueKind
	num    float64
	text   string
	series []Value
}

// Scalar wraps a numeric value.
func Scalar(f float64) Value {
	return Value{kind: KindScalar, num: f}
}

// Text wraps a non-numeric token.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Series wraps an ordered sequence of values.
func Series(vs ...Value) Value {
	return Value{kind: KindSeries, series: vs}
}

// parseToken converts a raw token into a Scalar if it parses as a float,
// otherwise a Text. Malformed numbers degrade to text, never fail.
func parseToken(tok string) Value {
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return Scalar(f)
	}
	return Text(tok)
}

// Kind returns the variant tag.
func (v Value) Kind() ValueKind { return v.kind }

// First returns the first element of a series, or the value itself.
func (v Value) First() Value {
	if v.kind == KindSeries {
		if len(v.series) == 0 {
			return Value{kind: KindText}
		}
		return v.series[0]
	}
	return v
}

// Len returns the number of elements (1 for scalar/text).
func (v Value) Len() int {
	if v.kind == KindSeries {
		return len(v.series)
	}
	return 1
}

// At returns the i-th element of a series. For scalar/text values only
// index 0 is valid.
func (v Value) At(i int) Value {
	if v.kind == KindSeries {
		if i < 0 || i >= len(v.series) {
			return Value{kind: KindText}
		}
		return v.series[i]
	}
	if i == 0 {
		return v
	}
	return Value{kind: KindText}
}

// AsFloat coerces the value to a float64. Series coerce through their first
// element; text values fall back to def.
func (v Value) AsFloat(def float64) float64 {
	switch v.kind {
	case KindScalar:
		return v.num
	case KindSeries:
		return v.First().AsFloat(def)
	default:
		return def
	}
}

// AsInt coerces the value to an int, truncating any fraction.
func (v Value) AsInt(def int) int {
	switch v.kind {
	case KindScalar:
		return int(v.num)
	case KindSeries:
		return v.First().AsInt(def)
	default:
		return def
	}
}

// AsString renders the value as it appeared in the source.
func (v Value) AsString() string {
	switch v.kind {
	case KindScalar:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindText:
		return v.text
	default:
		s := ""
		for i, e := range v.series {
			if i > 0 {
				s += " "
			}
			s += e.AsString()
		}
		return s
	}
}

// Vec3 is a position or extent in the target (SDF) frame: X forward,
// Y left, Z up, meters.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// AggregatedPart is the reconstructed bounding volume of one structural part,
// in the target frame. Position includes the part's global offset; Size is
// floored to the configured minimum on every axis.
type AggregatedPart struct {
	Index    int  `json:"index"`
	Position Vec3 `json:"position"`
	Size     Vec3 `json:"size"`
}

// InertialRecord holds the resolved mass and placeholder diagonal inertia
// for the aircraft body.
type InertialRecord struct {
	Mass float64 `json:"mass"`
	Ixx  float64 `json:"ixx"`
	Iyy  float64 `json:"iyy"`
	Izz  float64 `json:"izz"`
}

// CollisionRecord is one named collision box for the downstream renderer.
type CollisionRecord struct {
	Name     string `json:"name"`
	Position Vec3   `json:"position"`
	Size     Vec3   `json:"size"`
}

// RotorRecord describes one engine/propeller slot.
type RotorRecord struct {
	Index     int     `json:"index"`
	Type      string  `json:"type"`
	Blades    int     `json:"blades"`
	Direction string  `json:"direction"` // "cw" or "ccw"
	Position  Vec3    `json:"position"`
	Radius    float64 `json:"radius"`
}

// WingRecord describes one lifting surface. Short spans are flagged as prop
// blades so the renderer can color them differently.
type WingRecord struct {
	Index     int     `json:"index"`
	Span      float64 `json:"span"`      // meters
	Chord     float64 `json:"chord"`     // mean chord, meters
	Thickness float64 `json:"thickness"` // meters
	Blade     bool    `json:"blade"`
	Position  Vec3    `json:"position"`
}

// GearRecord describes one landing-gear wheel.
type GearRecord struct {
	Index    int     `json:"index"`
	Type     int     `json:"type"`
	Position Vec3    `json:"position"`
	Radius   float64 `json:"radius"` // meters
}

// Severity classifies a diagnostic: a skipped input fragment versus a
// degraded result the caller should surface.
type Severity int

const (
	SeveritySkip Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeveritySkip:
		return "skip"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic records one tolerated data-quality issue. The run never aborts
// on these; they are accumulated and returned so callers can assert on them.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Key      string   `json:"key,omitempty"`
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Key != "" {
		return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Key, d.Message)
	}
	return fmt.Sprintf("[%s] %s", d.Severity, d.Message)
}

// Diagnostics is an accumulated list of tolerated issues.
type Diagnostics []Diagnostic

func (ds *Diagnostics) add(sev Severity, key, format string, args ...interface{}) {
	*ds = append(*ds, Diagnostic{Severity: sev, Key: key, Message: fmt.Sprintf(format, args...)})
}

// Warnings returns only the warning-level diagnostics.
func (ds Diagnostics) Warnings() Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}
