package acf

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/paulmach/orb"
)

// Footprint export: the reconstructed layout projected onto the ground
// plane (target-frame X/Y) as a GeoJSON FeatureCollection, for quick visual
// inspection of part placement in any GeoJSON viewer.

// Geometry is a minimal GeoJSON geometry envelope.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Feature pairs a geometry with free-form properties.
type Feature struct {
	Type       string                 `json:"type"`
	Geometry   *Geometry              `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// FeatureCollection is a GeoJSON FeatureCollection.
type FeatureCollection struct {
	Type     string     `json:"type"`
	Features []*Feature `json:"features"`
}

// NewFeatureCollection creates an empty collection.
func NewFeatureCollection() *FeatureCollection {
	return &FeatureCollection{Type: "FeatureCollection", Features: make([]*Feature, 0)}
}

// AddFeature appends a feature.
func (fc *FeatureCollection) AddFeature(f *Feature) {
	fc.Features = append(fc.Features, f)
}

func polygonGeometry(poly orb.Polygon) *Geometry {
	coords, _ := json.Marshal(poly)
	return &Geometry{Type: "Polygon", Coordinates: coords}
}

func pointGeometry(p orb.Point) *Geometry {
	coords, _ := json.Marshal(p)
	return &Geometry{Type: "Point", Coordinates: coords}
}

// collisionRing builds the closed ground-plane rectangle of one collision
// box, counter-clockwise per the GeoJSON winding convention.
func collisionRing(c CollisionRecord) orb.Ring {
	minX := c.Position.X - c.Size.X/2
	maxX := c.Position.X + c.Size.X/2
	minY := c.Position.Y - c.Size.Y/2
	maxY := c.Position.Y + c.Size.Y/2
	return orb.Ring{
		{minX, minY},
		{maxX, minY},
		{maxX, maxY},
		{minX, maxY},
		{minX, minY},
	}
}

// BuildFootprint projects every collision part and gear wheel onto the
// ground plane. A final bbox feature covers the union of all parts.
func BuildFootprint(scene *Scene) *FeatureCollection {
	fc := NewFeatureCollection()

	var craftBound orb.Bound
	haveBound := false

	for _, c := range scene.Collisions {
		ring := collisionRing(c)
		poly := orb.Polygon{ring}

		if haveBound {
			craftBound = craftBound.Union(ring.Bound())
		} else {
			craftBound = ring.Bound()
			haveBound = true
		}

		fc.AddFeature(&Feature{
			Type:     "Feature",
			Geometry: polygonGeometry(poly),
			Properties: map[string]interface{}{
				"name":   c.Name,
				"kind":   "part",
				"z":      c.Position.Z,
				"height": c.Size.Z,
			},
		})
	}

	for _, g := range scene.Gear {
		fc.AddFeature(&Feature{
			Type:     "Feature",
			Geometry: pointGeometry(orb.Point{g.Position.X, g.Position.Y}),
			Properties: map[string]interface{}{
				"name":   fmt.Sprintf("gear_%d", g.Index),
				"kind":   "gear",
				"radius": g.Radius,
			},
		})
	}

	if haveBound {
		fc.AddFeature(&Feature{
			Type:     "Feature",
			Geometry: polygonGeometry(orb.Polygon{craftBound.ToRing()}),
			Properties: map[string]interface{}{
				"name": scene.Name,
				"kind": "bounds",
			},
		})
	}

	return fc
}

// WriteFootprint writes the footprint as indented GeoJSON.
func WriteFootprint(w io.Writer, scene *Scene) error {
	fc := BuildFootprint(scene)
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling footprint GeoJSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing footprint: %w", err)
	}
	return nil
}
