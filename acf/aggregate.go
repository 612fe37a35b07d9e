package acf

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Key segments that mark a structural point sample:
// _part/<idx>/_geo_xyz/<i>,<j>,<axis>
const (
	partMarker = "_part"
	geoMarker  = "_geo_xyz"
)

// Source-frame axis indices as used inside _geo_xyz keys.
const (
	axisLongitudinal = 0
	axisLateral      = 1
	axisVertical     = 2
)

// AggregateResult is the outcome of a part-aggregation scan. A run with zero
// structural points is an empty result with a warning diagnostic, not an
// error.
type AggregateResult struct {
	Parts       []AggregatedPart
	PointCount  int
	Diagnostics Diagnostics
}

// structuralPoint is one parsed sample: the scalar coordinate of a grid
// vertex along one source axis of one part. The grid indices only
// disambiguate samples and are dropped during parsing.
type structuralPoint struct {
	part  int
	axis  int
	value float64
}

// parseStructuralKey extracts (partIndex, axis) from a qualifying key.
// Returns a human-readable skip reason for malformed keys; those are common
// in real files and are tolerated, never fatal.
func parseStructuralKey(key string) (part, axis int, skip string) {
	segments := strings.Split(key, "/")

	partIdx := -1
	for i, seg := range segments {
		if seg == partMarker {
			partIdx = i
			break
		}
	}
	if partIdx < 0 || partIdx+1 >= len(segments) {
		return 0, 0, "no part index after part marker"
	}
	part, err := strconv.Atoi(segments[partIdx+1])
	if err != nil || part < 0 {
		return 0, 0, fmt.Sprintf("part index %q is not a non-negative integer", segments[partIdx+1])
	}

	// The final segment must be the grid triple "i,j,axis".
	grid := strings.Split(segments[len(segments)-1], ",")
	if len(grid) != 3 {
		return 0, 0, fmt.Sprintf("trailing segment %q is not an i,j,axis triple", segments[len(segments)-1])
	}
	axis, err = strconv.Atoi(grid[2])
	if err != nil || axis < 0 || axis > 2 {
		return 0, 0, fmt.Sprintf("axis component %q is not 0, 1 or 2", grid[2])
	}

	return part, axis, ""
}

// scanStructuralPoints folds over every stored key, producing the parsed
// samples plus a skip diagnostic for each malformed candidate.
func scanStructuralPoints(store *PropertyStore) ([]structuralPoint, Diagnostics) {
	var points []structuralPoint
	var diags Diagnostics

	for _, key := range store.Keys() {
		if !strings.Contains(key, geoMarker) || !strings.Contains(key, partMarker+"/") {
			continue
		}

		part, axis, skip := parseStructuralKey(key)
		if skip != "" {
			diags.add(SeveritySkip, key, "%s", skip)
			continue
		}

		v, _ := store.Lookup(key)
		first := v.First()
		if first.Kind() != KindScalar {
			diags.add(SeveritySkip, key, "value %q is not numeric", first.AsString())
			continue
		}

		points = append(points, structuralPoint{part: part, axis: axis, value: first.AsFloat(0)})
	}

	return points, diags
}

// AggregateParts reconstructs per-part bounding volumes from the scattered
// structural point cloud in store.
//
// Samples are bucketed by (part, axis); a part only yields a volume once all
// three axes have coverage. Per-axis min/max give size and center, the
// part's global offset (_part/<idx>/_part_x|_y|_z, default 0) shifts the
// center, and the composed source-frame position is converted to the target
// frame. Sizes are scaled to meters and floored at cfg.MinBoxDim, so every
// emitted part has strictly positive extent on all three axes.
func AggregateParts(store *PropertyStore, cfg *Config) *AggregateResult {
	points, diags := scanStructuralPoints(store)
	result := &AggregateResult{PointCount: len(points), Diagnostics: diags}

	if len(points) == 0 {
		result.Diagnostics.add(SeverityWarning, "",
			"no structural points found across %d keys", store.Len())
		return result
	}

	// Bucket samples by part index and axis.
	bounds := make(map[int]*[3][]float64)
	for _, p := range points {
		b, ok := bounds[p.part]
		if !ok {
			b = &[3][]float64{}
			bounds[p.part] = b
		}
		b[p.axis] = append(b[p.axis], p.value)
	}

	// Deterministic emission order.
	indices := make([]int, 0, len(bounds))
	for idx := range bounds {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	units := cfg.Units()

	for _, idx := range indices {
		b := bounds[idx]
		if len(b[axisLongitudinal]) == 0 || len(b[axisLateral]) == 0 || len(b[axisVertical]) == 0 {
			result.Diagnostics.add(SeveritySkip, fmt.Sprintf("%s/%d", partMarker, idx),
				"incomplete axis coverage, cannot form a 3D volume")
			continue
		}

		minLong, maxLong := minMax(b[axisLongitudinal])
		minLat, maxLat := minMax(b[axisLateral])
		minVert, maxVert := minMax(b[axisVertical])

		sizeLong := maxLong - minLong
		sizeLat := maxLat - minLat
		sizeVert := maxVert - minVert

		// Flat cross-sections are fine; only parts with no extent on both
		// dominant axes are garbage (stray single points).
		if sizeLong < cfg.Epsilon && sizeLat < cfg.Epsilon {
			result.Diagnostics.add(SeveritySkip, fmt.Sprintf("%s/%d", partMarker, idx),
				"degenerate extent %gx%g on longitudinal/lateral axes", sizeLong, sizeLat)
			continue
		}

		centerLong := (minLong + maxLong) / 2
		centerLat := (minLat + maxLat) / 2
		centerVert := (minVert + maxVert) / 2

		// Global part offset in X-Plane axes: x=lateral, y=vertical,
		// z=longitudinal. Missing offsets default to zero.
		offLat := store.Float(fmt.Sprintf("%s/%d/_part_x", partMarker, idx), 0)
		offVert := store.Float(fmt.Sprintf("%s/%d/_part_y", partMarker, idx), 0)
		offLong := store.Float(fmt.Sprintf("%s/%d/_part_z", partMarker, idx), 0)

		pos := units.ConvertCoords(offLat+centerLat, offVert+centerVert, offLong+centerLong)

		result.Parts = append(result.Parts, AggregatedPart{
			Index:    idx,
			Position: pos,
			Size: Vec3{
				X: math.Max(units.Scale(sizeLong), cfg.MinBoxDim),
				Y: math.Max(units.Scale(sizeLat), cfg.MinBoxDim),
				Z: math.Max(units.Scale(sizeVert), cfg.MinBoxDim),
			},
		})
	}

	return result
}

func minMax(vals []float64) (min, max float64) {
	min, max = vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
