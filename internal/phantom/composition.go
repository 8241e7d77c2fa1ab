package phantom

import "fmt"

// TissueProperties are the optical properties of a composition at a single
// wavelength. Oxygenation is nil when the composition carries no hemoglobin.
type TissueProperties struct {
	Mua         Real
	Mus         Real
	Anisotropy  Real
	Oxygenation *Real
}

// MolecularComposition is an immutable, ordered set of chromophores with a
// segmentation class. Use a CompositionBuilder to create one.
type MolecularComposition struct {
	Name         string
	Class        SegmentationClass
	chromophores []*Chromophore
}

// CompositionBuilder accumulates named chromophores. Names must be unique
// within one composition.
type CompositionBuilder struct {
	name    string
	class   SegmentationClass
	keys    map[string]struct{}
	order   []string
	members []*Chromophore
	err     error
}

// NewCompositionBuilder starts a composition with the given name and
// segmentation class.
func NewCompositionBuilder(name string, class SegmentationClass) *CompositionBuilder {
	return &CompositionBuilder{
		name:  name,
		class: class,
		keys:  map[string]struct{}{},
	}
}

// Add appends a chromophore under a unique key. Errors are deferred to
// Build so calls can be chained.
func (b *CompositionBuilder) Add(key string, c *Chromophore) *CompositionBuilder {
	if b.err != nil {
		return b
	}
	if c == nil {
		b.err = fmt.Errorf("%w: composition %q chromophore %q is nil", ErrConfiguration, b.name, key)
		return b
	}
	if _, ok := b.keys[key]; ok {
		b.err = fmt.Errorf("%w: composition %q already contains chromophore %q", ErrDuplicateKey, b.name, key)
		return b
	}
	b.keys[key] = struct{}{}
	b.order = append(b.order, key)
	b.members = append(b.members, c)
	return b
}

// Build finalizes the composition.
func (b *CompositionBuilder) Build() (*MolecularComposition, error) {
	if b.err != nil {
		return nil, b.err
	}
	return &MolecularComposition{
		Name:         b.name,
		Class:        b.class,
		chromophores: append([]*Chromophore(nil), b.members...),
	}, nil
}

// Chromophores returns the members in insertion order.
func (m *MolecularComposition) Chromophores() []*Chromophore {
	return append([]*Chromophore(nil), m.chromophores...)
}

// PropertiesForWavelength mixes the member spectra into bulk optical
// properties. Absorption and scattering are volume-fraction weighted sums;
// anisotropy is the volume-fraction weighted mean; oxygenation is derived
// from the hemoglobin members, identified by their spectra.
func (m *MolecularComposition) PropertiesForWavelength(wavelengthNM Real) (TissueProperties, error) {
	var p TissueProperties
	var vfSum, gSum Real
	var hb, hbO2 Real
	for _, c := range m.chromophores {
		mua, err := c.AbsorptionAt(wavelengthNM)
		if err != nil {
			return TissueProperties{}, fmt.Errorf("composition %q: %w", m.Name, err)
		}
		p.Mua += mua
		p.Mus += c.ScatteringAt(wavelengthNM)
		vfSum += c.VolumeFraction
		gSum += c.VolumeFraction * c.Anisotropy
		switch c.Spectrum {
		case SpectrumDeoxyhemoglobin:
			hb += c.VolumeFraction
		case SpectrumOxyhemoglobin:
			hbO2 += c.VolumeFraction
		}
	}
	if vfSum > 0 {
		p.Anisotropy = gSum / vfSum
	}
	if hb+hbO2 >= 1e-10 {
		oxy := hbO2 / (hb + hbO2)
		p.Oxygenation = &oxy
	}
	return p, nil
}
