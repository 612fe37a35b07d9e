package acf

// Fixed unit conversion ratios between the X-Plane source frame and the SDF
// target frame. These are the canonical values; use a Units value to
// override them for a whole conversion run.
const (
	// LbToKg converts pounds (source mass unit) to kilograms.
	LbToKg = 0.453592
	// FtToM converts feet (source length unit) to meters.
	FtToM = 0.3048
)

// Units holds the mass and length conversion ratios applied throughout a
// conversion run.
type Units struct {
	Mass   float64 // source mass unit -> kg
	Length float64 // source length unit -> m
}

// DefaultUnits returns the standard lb->kg / ft->m ratios.
func DefaultUnits() Units {
	return Units{Mass: LbToKg, Length: FtToM}
}

// ConvertCoords maps an X-Plane position (feet) to an SDF position (meters).
//
// X-Plane is right-handed with X = lateral (positive right), Y = vertical
// (positive up), Z = longitudinal (positive toward the tail). SDF is
// X = forward, Y = left, Z = up. The mapping is a fixed axis permutation
// with two sign flips and the length scale:
//
//	x = -(longitudinal * Length)
//	y = -(lateral      * Length)
//	z =  (vertical     * Length)
//
// Every source-frame position in the pipeline goes through this one
// function; there is no per-caller variation.
func (u Units) ConvertCoords(lateral, vertical, longitudinal float64) Vec3 {
	return Vec3{
		X: -(longitudinal * u.Length),
		Y: -(lateral * u.Length),
		Z: vertical * u.Length,
	}
}

// Scale converts a source-frame length to meters.
func (u Units) Scale(feet float64) float64 {
	return feet * u.Length
}

// ScaleMass converts a source-frame mass to kilograms.
func (u Units) ScaleMass(pounds float64) float64 {
	return pounds * u.Mass
}
