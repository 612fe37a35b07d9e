package acf

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestBuildFootprintFeatures(t *testing.T) {
	scene := sampleScene()
	fc := BuildFootprint(scene)

	if fc.Type != "FeatureCollection" {
		t.Errorf("type = %q, want FeatureCollection", fc.Type)
	}
	// 2 parts + 1 gear + 1 bounds
	if len(fc.Features) != 4 {
		t.Fatalf("features = %d, want 4", len(fc.Features))
	}

	part := fc.Features[0]
	if part.Properties["kind"] != "part" || part.Properties["name"] != "part_0" {
		t.Errorf("part properties = %v", part.Properties)
	}
	if part.Geometry.Type != "Polygon" {
		t.Errorf("part geometry = %q, want Polygon", part.Geometry.Type)
	}

	gear := fc.Features[2]
	if gear.Properties["kind"] != "gear" || gear.Geometry.Type != "Point" {
		t.Errorf("gear feature = %v / %q", gear.Properties, gear.Geometry.Type)
	}

	bounds := fc.Features[3]
	if bounds.Properties["kind"] != "bounds" || bounds.Properties["name"] != "sample_craft" {
		t.Errorf("bounds properties = %v", bounds.Properties)
	}
}

func TestFootprintRingsClosed(t *testing.T) {
	fc := BuildFootprint(sampleScene())

	for _, f := range fc.Features {
		if f.Geometry.Type != "Polygon" {
			continue
		}
		var rings [][][2]float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &rings); err != nil {
			t.Fatalf("decoding %v coordinates: %v", f.Properties["name"], err)
		}
		if len(rings) != 1 {
			t.Fatalf("%v: rings = %d, want 1", f.Properties["name"], len(rings))
		}
		ring := rings[0]
		if len(ring) < 4 {
			t.Fatalf("%v: ring has %d points", f.Properties["name"], len(ring))
		}
		if ring[0] != ring[len(ring)-1] {
			t.Errorf("%v: ring not closed: %v != %v", f.Properties["name"], ring[0], ring[len(ring)-1])
		}
	}
}

func TestFootprintPartExtent(t *testing.T) {
	scene := &Scene{
		Name: "one",
		Collisions: []CollisionRecord{
			{Name: "part_0", Position: Vec3{1, 2, 0}, Size: Vec3{4, 2, 1}},
		},
	}
	fc := BuildFootprint(scene)

	var rings [][][2]float64
	if err := json.Unmarshal(fc.Features[0].Geometry.Coordinates, &rings); err != nil {
		t.Fatalf("decoding coordinates: %v", err)
	}
	// Corner order starts at (minX, minY) = (-1, 1).
	if got := rings[0][0]; got != [2]float64{-1, 1} {
		t.Errorf("first corner = %v, want [-1 1]", got)
	}
	if got := rings[0][2]; got != [2]float64{3, 3} {
		t.Errorf("opposite corner = %v, want [3 3]", got)
	}
}

func TestFootprintEmptyScene(t *testing.T) {
	fc := BuildFootprint(&Scene{Name: "empty"})
	if len(fc.Features) != 0 {
		t.Errorf("features = %d, want 0 (no bounds without parts)", len(fc.Features))
	}
}

func TestWriteFootprintValidJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFootprint(&buf, sampleScene()); err != nil {
		t.Fatalf("WriteFootprint: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["type"] != "FeatureCollection" {
		t.Errorf("type = %v, want FeatureCollection", decoded["type"])
	}
}
