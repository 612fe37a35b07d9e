package acf

import (
	"fmt"
	"log"
)

// Mass lookup keys, in priority order. Older files only carry the
// center-of-gravity weight table, hence the legacy fallback.
const (
	MassKey       = "acf/_m_empty"
	LegacyMassKey = "_cgpt/0/_w_now"
)

// Scene is the assembled, renderer-ready description of one aircraft:
// inertial data plus ordered geometry records for every extracted component.
type Scene struct {
	Name       string            `json:"name"`
	Inertial   InertialRecord    `json:"inertial"`
	Collisions []CollisionRecord `json:"collisions"`
	Rotors     []RotorRecord     `json:"rotors"`
	Wings      []WingRecord      `json:"wings"`
	Gear       []GearRecord      `json:"gear"`
	PointCount int               `json:"pointCount"`
}

// Assembler turns a parsed PropertyStore into a Scene. It owns no mutable
// state beyond its inputs; every method returns freshly constructed records.
type Assembler struct {
	store *PropertyStore
	cfg   *Config
	units Units
}

// NewAssembler creates an assembler over an immutable store.
func NewAssembler(store *PropertyStore, cfg *Config) *Assembler {
	return &Assembler{store: store, cfg: cfg, units: cfg.Units()}
}

// ResolveMass looks up the empty mass, falling back to the legacy weight key
// and finally to the configured placeholder. The returned mass is in kg.
func (a *Assembler) ResolveMass() (float64, Diagnostics) {
	var diags Diagnostics

	massLb := a.store.Float(MassKey, 0)
	if massLb == 0 {
		massLb = a.store.Float(LegacyMassKey, 0)
	}
	if massLb <= 0 {
		diags.add(SeverityWarning, MassKey,
			"mass not found via %s or %s, using placeholder %.1f kg",
			MassKey, LegacyMassKey, a.cfg.DefaultMass)
		return a.cfg.DefaultMass, diags
	}

	massKg := a.units.ScaleMass(massLb)
	log.Printf("Resolved empty mass: %.1f lb -> %.3f kg", massLb, massKg)
	return massKg, diags
}

// Inertial builds the body inertial record. Inertia values are coarse
// box-approximation placeholders (mass * InertiaFactor on the diagonal).
func (a *Assembler) Inertial() (InertialRecord, Diagnostics) {
	mass, diags := a.ResolveMass()
	i := mass * a.cfg.InertiaFactor
	return InertialRecord{Mass: mass, Ixx: i, Iyy: i, Izz: i}, diags
}

// Collisions aggregates the structural point cloud into named collision
// boxes, one per surviving part.
func (a *Assembler) Collisions() ([]CollisionRecord, int, Diagnostics) {
	result := AggregateParts(a.store, a.cfg)

	records := make([]CollisionRecord, 0, len(result.Parts))
	for _, p := range result.Parts {
		records = append(records, CollisionRecord{
			Name:     fmt.Sprintf("part_%d", p.Index),
			Position: p.Position,
			Size:     p.Size,
		})
	}
	return records, result.PointCount, result.Diagnostics
}

// Rotors extracts engine/propeller slots. Counts come from _engn/count and
// _prop/count (whichever is larger); per-index properties fall back to
// slot 0, which files commonly use as a template for all rotors.
func (a *Assembler) Rotors() []RotorRecord {
	count := a.store.Int("_engn/count", 0)
	if pc := a.store.Int("_prop/count", 0); pc > count {
		count = pc
	}

	rotors := make([]RotorRecord, 0, count)
	for i := 0; i < count; i++ {
		engType := a.store.Get(fmt.Sprintf("_engn/%d/_type", i),
			a.store.Get("_engn/0/_type", Text("UNK"))).First().AsString()

		blades := a.store.Int(fmt.Sprintf("_prop/%d/_num_blades", i),
			a.store.Int("_prop/0/_num_blades", 2))

		dirVal := a.store.Float(fmt.Sprintf("_prop/%d/_prop_dir", i),
			a.store.Float("_prop/0/_prop_dir", 1.0))
		direction := "cw"
		if dirVal < 0 {
			direction = "ccw"
		}

		// Rotor positions are not present in the property table; they sit
		// at the model origin until global placement vectors are wired in.
		rotors = append(rotors, RotorRecord{
			Index:     i,
			Type:      engType,
			Blades:    blades,
			Direction: direction,
			Radius:    0.1 * float64(blades),
		})
	}
	return rotors
}

// Wings extracts lifting surfaces from explicit _wing/count. All-zero slots
// are skipped; spans under half a meter are flagged as prop blades.
func (a *Assembler) Wings() []WingRecord {
	count := a.store.Int("_wing/count", 0)

	var wings []WingRecord
	for i := 0; i < count; i++ {
		prefix := fmt.Sprintf("_wing/%d", i)
		semiLenFt := a.store.Float(prefix+"/_semilen_SEG", 0)
		chordRootFt := a.store.Float(prefix+"/_Croot", 0)
		chordTipFt := a.store.Float(prefix+"/_Ctip", 0)

		if semiLenFt == 0 && chordRootFt == 0 {
			continue
		}

		span := a.units.Scale(semiLenFt)
		chord := a.units.Scale((chordRootFt + chordTipFt) / 2)
		if chord <= 0 {
			chord = 0.05
		}

		wings = append(wings, WingRecord{
			Index:     i,
			Span:      span,
			Chord:     chord,
			Thickness: 0.005,
			Blade:     span < 0.5,
		})
	}
	return wings
}

// Gear extracts landing-gear wheels. Type 0 slots are unused and skipped.
func (a *Assembler) Gear() []GearRecord {
	count := a.store.Int("_gear/count", 0)

	var gear []GearRecord
	for i := 0; i < count; i++ {
		prefix := fmt.Sprintf("_gear/%d", i)
		gearType := a.store.Int(prefix+"/_gear_type", 0)
		if gearType == 0 {
			continue
		}

		lat := a.store.Float(prefix+"/_gear_x", 0)
		vert := a.store.Float(prefix+"/_gear_y", 0)
		long := a.store.Float(prefix+"/_gear_z", 0)
		radiusFt := a.store.Float(prefix+"/_tire_radius", 0.1)

		gear = append(gear, GearRecord{
			Index:    i,
			Type:     gearType,
			Position: a.units.ConvertCoords(lat, vert, long),
			Radius:   a.units.Scale(radiusFt),
		})
	}
	return gear
}

// Assemble runs the full extraction and returns the scene plus every
// accumulated diagnostic. Degraded inputs produce a best-effort scene, never
// an error.
func (a *Assembler) Assemble() (*Scene, Diagnostics) {
	var diags Diagnostics

	inertial, massDiags := a.Inertial()
	diags = append(diags, massDiags...)

	collisions, pointCount, collDiags := a.Collisions()
	diags = append(diags, collDiags...)

	scene := &Scene{
		Name:       a.cfg.ModelName,
		Inertial:   inertial,
		Collisions: collisions,
		Rotors:     a.Rotors(),
		Wings:      a.Wings(),
		Gear:       a.Gear(),
		PointCount: pointCount,
	}

	log.Printf("Assembled scene %q: %d collision parts from %d points, %d rotors, %d wings, %d gear",
		scene.Name, len(scene.Collisions), scene.PointCount,
		len(scene.Rotors), len(scene.Wings), len(scene.Gear))

	return scene, diags
}
