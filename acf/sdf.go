package acf

import (
	"encoding/xml"
	"fmt"
	"io"
)

// SDF document model, restricted to the subset the converter emits.

const sdfVersion = "1.9"

// SDFDoc is the root <sdf> element.
type SDFDoc struct {
	XMLName xml.Name  `xml:"sdf"`
	Version string    `xml:"version,attr"`
	Model   *SDFModel `xml:"model"`
}

// SDFModel is one <model> with its links and joints.
type SDFModel struct {
	Name   string     `xml:"name,attr"`
	Pose   string     `xml:"pose,omitempty"`
	Links  []SDFLink  `xml:"link"`
	Joints []SDFJoint `xml:"joint"`
}

type SDFLink struct {
	Name       string         `xml:"name,attr"`
	Pose       string         `xml:"pose,omitempty"`
	Inertial   *SDFInertial   `xml:"inertial,omitempty"`
	Visuals    []SDFVisual    `xml:"visual"`
	Collisions []SDFCollision `xml:"collision"`
}

type SDFInertial struct {
	Mass    float64    `xml:"mass"`
	Inertia SDFInertia `xml:"inertia"`
}

type SDFInertia struct {
	Ixx float64 `xml:"ixx"`
	Ixy float64 `xml:"ixy"`
	Ixz float64 `xml:"ixz"`
	Iyy float64 `xml:"iyy"`
	Iyz float64 `xml:"iyz"`
	Izz float64 `xml:"izz"`
}

type SDFVisual struct {
	Name     string       `xml:"name,attr"`
	Pose     string       `xml:"pose,omitempty"`
	Geometry SDFGeometry  `xml:"geometry"`
	Material *SDFMaterial `xml:"material,omitempty"`
}

type SDFCollision struct {
	Name     string      `xml:"name,attr"`
	Pose     string      `xml:"pose,omitempty"`
	Geometry SDFGeometry `xml:"geometry"`
}

type SDFGeometry struct {
	Box      *SDFBox      `xml:"box,omitempty"`
	Cylinder *SDFCylinder `xml:"cylinder,omitempty"`
	Sphere   *SDFSphere   `xml:"sphere,omitempty"`
}

type SDFBox struct {
	Size string `xml:"size"`
}

type SDFCylinder struct {
	Radius float64 `xml:"radius"`
	Length float64 `xml:"length"`
}

type SDFSphere struct {
	Radius float64 `xml:"radius"`
}

type SDFMaterial struct {
	Ambient string `xml:"ambient"`
	Diffuse string `xml:"diffuse"`
}

type SDFJoint struct {
	Name   string   `xml:"name,attr"`
	Type   string   `xml:"type,attr"`
	Parent string   `xml:"parent"`
	Child  string   `xml:"child"`
	Axis   *SDFAxis `xml:"axis,omitempty"`
}

type SDFAxis struct {
	XYZ   string    `xml:"xyz"`
	Limit *SDFLimit `xml:"limit,omitempty"`
}

type SDFLimit struct {
	Lower string `xml:"lower"`
	Upper string `xml:"upper"`
}

const baseLinkName = "base_link"

func pose(p Vec3) string {
	return fmt.Sprintf("%.3f %.3f %.3f 0 0 0", p.X, p.Y, p.Z)
}

func boxSize(s Vec3) string {
	return fmt.Sprintf("%.3f %.3f %.3f", s.X, s.Y, s.Z)
}

// BuildModel assembles the SDF document for a scene: one base link carrying
// the inertial record and every part collision box (with a translucent debug
// visual), plus rotor links on revolute joints, wing surface links, and gear
// links on fixed joints.
func BuildModel(scene *Scene, cfg *Config) *SDFDoc {
	base := SDFLink{Name: baseLinkName}
	base.Inertial = &SDFInertial{
		Mass: scene.Inertial.Mass,
		Inertia: SDFInertia{
			Ixx: scene.Inertial.Ixx,
			Iyy: scene.Inertial.Iyy,
			Izz: scene.Inertial.Izz,
		},
	}

	for _, c := range scene.Collisions {
		geom := SDFGeometry{Box: &SDFBox{Size: boxSize(c.Size)}}
		base.Collisions = append(base.Collisions, SDFCollision{
			Name:     "col_" + c.Name,
			Pose:     pose(c.Position),
			Geometry: geom,
		})
		base.Visuals = append(base.Visuals, SDFVisual{
			Name:     "vis_" + c.Name,
			Pose:     pose(c.Position),
			Geometry: geom,
			Material: &SDFMaterial{Ambient: "0.8 0.8 0.8 0.3", Diffuse: "0.8 0.8 0.8 0.3"},
		})
	}

	model := &SDFModel{
		Name:  scene.Name,
		Pose:  "0 0 0.5 0 0 0",
		Links: []SDFLink{base},
	}

	for _, r := range scene.Rotors {
		linkName := fmt.Sprintf("rotor_%d", r.Index)
		model.Links = append(model.Links, SDFLink{
			Name: linkName,
			Pose: pose(r.Position),
			Visuals: []SDFVisual{{
				Name:     linkName + "_visual",
				Geometry: SDFGeometry{Cylinder: &SDFCylinder{Radius: r.Radius, Length: 0.02}},
				Material: &SDFMaterial{Ambient: "0 1 0 1", Diffuse: "0 1 0 1"},
			}},
			Inertial: &SDFInertial{
				Mass: DefaultRotorMass,
				Inertia: SDFInertia{
					Ixx: cfg.RotorInertia,
					Iyy: cfg.RotorInertia,
					Izz: cfg.RotorInertia,
				},
			},
		})
		model.Joints = append(model.Joints, SDFJoint{
			Name:   linkName + "_joint",
			Type:   "revolute",
			Parent: baseLinkName,
			Child:  linkName,
			Axis: &SDFAxis{
				XYZ:   "0 0 1",
				Limit: &SDFLimit{Lower: "-1e16", Upper: "1e16"},
			},
		})
	}

	for _, w := range scene.Wings {
		// Blades render red, real lifting surfaces grey.
		color := "0.5 0.5 0.5 1"
		suffix := "wing_surface"
		if w.Blade {
			color = "1 0 0 1"
			suffix = "prop_blade"
		}
		linkName := fmt.Sprintf("wing_%d_%s", w.Index, suffix)
		model.Links = append(model.Links, SDFLink{
			Name: linkName,
			Pose: pose(w.Position),
			Visuals: []SDFVisual{{
				Name:     fmt.Sprintf("vis_wing_%d", w.Index),
				Geometry: SDFGeometry{Box: &SDFBox{Size: boxSize(Vec3{X: w.Chord, Y: w.Span, Z: w.Thickness})}},
				Material: &SDFMaterial{Ambient: color, Diffuse: color},
			}},
		})
	}

	for _, g := range scene.Gear {
		linkName := fmt.Sprintf("gear_%d", g.Index)
		geom := SDFGeometry{Sphere: &SDFSphere{Radius: g.Radius}}
		model.Links = append(model.Links, SDFLink{
			Name: linkName,
			Pose: pose(g.Position),
			Visuals: []SDFVisual{{
				Name:     fmt.Sprintf("vis_gear_%d", g.Index),
				Geometry: geom,
				Material: &SDFMaterial{Ambient: "0.1 0.1 0.1 1", Diffuse: "0.1 0.1 0.1 1"},
			}},
			Collisions: []SDFCollision{{
				Name:     fmt.Sprintf("col_gear_%d", g.Index),
				Geometry: geom,
			}},
		})
		model.Joints = append(model.Joints, SDFJoint{
			Name:   linkName + "_joint",
			Type:   "fixed",
			Parent: baseLinkName,
			Child:  linkName,
		})
	}

	return &SDFDoc{Version: sdfVersion, Model: model}
}

// WriteModel renders the scene as an SDF XML document.
func WriteModel(w io.Writer, scene *Scene, cfg *Config) error {
	doc := BuildModel(scene, cfg)

	if _, err := io.WriteString(w, "<?xml version='1.0' ?>\n"); err != nil {
		return fmt.Errorf("writing XML header: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding SDF: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	return nil
}
