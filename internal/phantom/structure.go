package phantom

import "fmt"

// Structure binds one geometry to the tissue filling it and to its place
// in the compositing order. Higher priority claims voxel fraction first;
// the background must use priority 0.
type Structure struct {
	Name                 string
	Geometry             Geometry
	Priority             int
	Composition          *MolecularComposition
	PartialVolume        bool
	AdheresToDeformation bool
}

// NewStructure validates the binding.
func NewStructure(name string, geom Geometry, priority int, comp *MolecularComposition, partialVolume, adheresToDeformation bool) (*Structure, error) {
	if geom == nil {
		return nil, fmt.Errorf("%w: structure %q has no geometry", ErrConfiguration, name)
	}
	if comp == nil {
		return nil, fmt.Errorf("%w: structure %q has no composition", ErrConfiguration, name)
	}
	if priority < 0 {
		return nil, fmt.Errorf("%w: structure %q priority %d must be >= 0", ErrConfiguration, name, priority)
	}
	if _, isBackground := geom.(Background); isBackground != (priority == 0) {
		return nil, fmt.Errorf("%w: structure %q: priority 0 is reserved for the background", ErrConfiguration, name)
	}
	return &Structure{
		Name:                 name,
		Geometry:             geom,
		Priority:             priority,
		Composition:          comp,
		PartialVolume:        partialVolume,
		AdheresToDeformation: adheresToDeformation,
	}, nil
}

// ParamSpec is a JSON-configurable scalar: either a fixed value or a draw
// from a named distribution over [min, max]. A degenerate range
// (min == max) resolves to that value without sampling, for either
// distribution.
type ParamSpec struct {
	Value        *Real        `json:"value,omitempty"`
	Distribution Distribution `json:"distribution,omitempty"`
	Min          Real         `json:"min,omitempty"`
	Max          Real         `json:"max,omitempty"`
}

// Resolve turns the spec into a concrete value, drawing once if a
// distribution is configured.
func (p ParamSpec) Resolve(seed uint64) (Real, error) {
	if p.Value != nil {
		if p.Distribution != "" {
			return 0, fmt.Errorf("%w: parameter gives both a value and a distribution", ErrConfiguration)
		}
		return *p.Value, nil
	}
	r, err := NewRandomizer(p.Distribution, p.Min, p.Max, seed)
	if err != nil {
		return 0, err
	}
	return r.Sample(), nil
}

func (p ParamSpec) isZero() bool {
	return p.Value == nil && p.Distribution == ""
}

// StructureConfig is the JSON form of one structure. Geometry parameters
// may be fixed or randomized via ParamSpec; tissue names select a preset
// from the tissue library.
type StructureConfig struct {
	Name                 string `json:"name"`
	Shape                string `json:"shape"`
	Priority             int    `json:"priority"`
	PartialVolume        bool   `json:"partial_volume"`
	AdheresToDeformation bool   `json:"adheres_to_deformation"`

	DepthMM     ParamSpec `json:"depth_mm,omitempty"`
	ThicknessMM ParamSpec `json:"thickness_mm,omitempty"`

	StartMM        [3]Real   `json:"start_mm,omitempty"`
	EndMM          [3]Real   `json:"end_mm,omitempty"`
	RadiusMM       ParamSpec `json:"radius_mm,omitempty"`
	EccentricityMM ParamSpec `json:"eccentricity_mm,omitempty"`

	Tissue      string    `json:"tissue"`
	Oxygenation ParamSpec `json:"oxygenation,omitempty"`
	MelaninVF   ParamSpec `json:"melanin_volume_fraction,omitempty"`
	Mua         ParamSpec `json:"mua,omitempty"`
	Mus         ParamSpec `json:"mus,omitempty"`
	Anisotropy  ParamSpec `json:"anisotropy,omitempty"`
}

// Build resolves all randomizable parameters and constructs the structure.
// The seed is mixed with the structure's position so different structures
// in one phantom draw independently.
func (c *StructureConfig) Build(seed uint64) (*Structure, error) {
	geom, err := c.buildGeometry(seed)
	if err != nil {
		return nil, fmt.Errorf("structure %q: %w", c.Name, err)
	}
	comp, err := c.buildComposition(seed)
	if err != nil {
		return nil, fmt.Errorf("structure %q: %w", c.Name, err)
	}
	return NewStructure(c.Name, geom, c.Priority, comp, c.PartialVolume, c.AdheresToDeformation)
}

func (c *StructureConfig) buildGeometry(seed uint64) (Geometry, error) {
	switch c.Shape {
	case "background":
		return Background{}, nil
	case "layer":
		depth, err := c.DepthMM.Resolve(seed)
		if err != nil {
			return nil, err
		}
		thickness, err := c.ThicknessMM.Resolve(seed + 1)
		if err != nil {
			return nil, err
		}
		return NewLayer(depth, thickness)
	case "tube":
		radius, err := c.RadiusMM.Resolve(seed)
		if err != nil {
			return nil, err
		}
		return NewTube(point3(c.StartMM), point3(c.EndMM), radius)
	case "ellipsoid":
		radius, err := c.RadiusMM.Resolve(seed)
		if err != nil {
			return nil, err
		}
		ecc := Real(0)
		if !c.EccentricityMM.isZero() {
			ecc, err = c.EccentricityMM.Resolve(seed + 1)
			if err != nil {
				return nil, err
			}
		}
		coin, err := NewUniformRandomizer(0, 1, seed+2)
		if err != nil {
			return nil, err
		}
		return NewEllipsoid(point3(c.StartMM), point3(c.EndMM), radius, ecc, coin.Sample() < 0.5)
	default:
		return nil, fmt.Errorf("%w: unknown shape %q", ErrConfiguration, c.Shape)
	}
}

func (c *StructureConfig) buildComposition(seed uint64) (*MolecularComposition, error) {
	resolve := func(p ParamSpec, fallback Real, offset uint64) (Real, error) {
		if p.isZero() {
			return fallback, nil
		}
		return p.Resolve(seed + offset)
	}
	switch c.Tissue {
	case "blood":
		oxy, err := resolve(c.Oxygenation, 0.7, 10)
		if err != nil {
			return nil, err
		}
		return TissueBlood(oxy)
	case "muscle":
		oxy, err := resolve(c.Oxygenation, 0.7, 10)
		if err != nil {
			return nil, err
		}
		return TissueMuscle(oxy)
	case "epidermis":
		vf, err := resolve(c.MelaninVF, MelaninVolumeFractionEpidermis, 11)
		if err != nil {
			return nil, err
		}
		return TissueEpidermis(vf)
	case "dermis":
		oxy, err := resolve(c.Oxygenation, 0.7, 10)
		if err != nil {
			return nil, err
		}
		return TissueDermis(oxy)
	case "fat":
		return TissueSubcutaneousFat()
	case "bone":
		return TissueBone()
	case "water":
		return TissueWater()
	case "gel_pad":
		return TissueGelPad()
	case "air":
		return TissueAir()
	case "constant":
		mua, err := resolve(c.Mua, 0, 12)
		if err != nil {
			return nil, err
		}
		mus, err := resolve(c.Mus, 0, 13)
		if err != nil {
			return nil, err
		}
		g, err := resolve(c.Anisotropy, StandardAnisotropy, 14)
		if err != nil {
			return nil, err
		}
		return TissueConstant(mua, mus, g)
	default:
		return nil, fmt.Errorf("%w: unknown tissue %q", ErrConfiguration, c.Tissue)
	}
}

func point3(a [3]Real) Point3 { return Point3{X: a[0], Y: a[1], Z: a[2]} }
