package phantom

import (
	"fmt"
	"math"
)

// Spectrum is an immutable wavelength→value lookup. Construction precomputes
// a table at 1 nm resolution spanning the sampled range, so ValueAt is a
// single interpolation between neighboring table entries.
//
// Spectra are compared by identity: two chromophores share a spectrum by
// holding the same *Spectrum, which is how the hemoglobin roles are
// recognized during oxygenation calculation.
type Spectrum struct {
	Name        string
	Wavelengths []Real
	Values      []Real

	minWL, maxWL int
	table        []Real
}

// NewSpectrum builds a spectrum from paired, ascending wavelength samples.
func NewSpectrum(name string, wavelengths, values []Real) (*Spectrum, error) {
	if len(wavelengths) != len(values) {
		return nil, fmt.Errorf("%w: spectrum %q has %d wavelengths but %d values",
			ErrShapeMismatch, name, len(wavelengths), len(values))
	}
	if len(wavelengths) == 0 {
		return nil, fmt.Errorf("%w: spectrum %q has no samples", ErrShapeMismatch, name)
	}
	for i := 1; i < len(wavelengths); i++ {
		if wavelengths[i] <= wavelengths[i-1] {
			return nil, fmt.Errorf("%w: spectrum %q wavelengths must be strictly ascending (index %d)",
				ErrConfiguration, name, i)
		}
	}
	s := &Spectrum{
		Name:        name,
		Wavelengths: append([]Real(nil), wavelengths...),
		Values:      append([]Real(nil), values...),
		minWL:       int(math.Floor(wavelengths[0])),
		maxWL:       int(math.Ceil(wavelengths[len(wavelengths)-1])),
	}
	s.table = make([]Real, s.maxWL-s.minWL+1)
	if len(wavelengths) == 1 {
		for i := range s.table {
			s.table[i] = values[0]
		}
		return s, nil
	}
	seg := 0
	for i := range s.table {
		w := Real(s.minWL + i)
		for seg+1 < len(wavelengths)-1 && wavelengths[seg+1] < w {
			seg++
		}
		w0, w1 := wavelengths[seg], wavelengths[seg+1]
		v0, v1 := values[seg], values[seg+1]
		switch {
		case w <= w0:
			s.table[i] = v0
		case w >= w1:
			s.table[i] = v1
		default:
			s.table[i] = v0 + (v1-v0)*(w-w0)/(w1-w0)
		}
	}
	return s, nil
}

func mustSpectrum(name string, wavelengths, values []Real) *Spectrum {
	s, err := NewSpectrum(name, wavelengths, values)
	if err != nil {
		panic(err)
	}
	return s
}

// MinWavelength returns the lowest tabulated wavelength in nm.
func (s *Spectrum) MinWavelength() Real { return Real(s.minWL) }

// MaxWavelength returns the highest tabulated wavelength in nm.
func (s *Spectrum) MaxWavelength() Real { return Real(s.maxWL) }

// ValueAt returns the linearly interpolated value at the given wavelength.
// Wavelengths outside the tabulated range fail with ErrOutOfRange.
func (s *Spectrum) ValueAt(wavelengthNM Real) (Real, error) {
	if !isFinite(wavelengthNM) || wavelengthNM < Real(s.minWL) || wavelengthNM > Real(s.maxWL) {
		return 0, fmt.Errorf("%w: wavelength %g nm outside spectrum %q range [%d, %d] nm",
			ErrOutOfRange, wavelengthNM, s.Name, s.minWL, s.maxWL)
	}
	pos := wavelengthNM - Real(s.minWL)
	i := int(pos)
	if i >= len(s.table)-1 {
		return s.table[len(s.table)-1], nil
	}
	frac := pos - Real(i)
	return s.table[i]*(1-frac) + s.table[i+1]*frac, nil
}

// libraryWavelengthsNM is the sampling used by the built-in spectra below:
// 450 nm to 1000 nm in 50 nm steps, covering the usual photoacoustic
// illumination band.
var libraryWavelengthsNM = []Real{450, 500, 550, 600, 650, 700, 750, 800, 850, 900, 950, 1000}

// Built-in absorption spectra, in 1/cm at full volume fraction. The
// hemoglobin spectra assume whole blood at 150 g/l; water follows Hale &
// Querry; melanin follows the Jacques power-law fit.
var (
	SpectrumWater = mustSpectrum("water", libraryWavelengthsNM, []Real{
		9.2e-5, 2.6e-4, 4.6e-4, 2.2e-3, 3.2e-3, 6.2e-3,
		2.62e-2, 2.04e-2, 4.33e-2, 6.79e-2, 3.88e-1, 3.63e-1,
	})
	SpectrumOxyhemoglobin = mustSpectrum("oxyhemoglobin", libraryWavelengthsNM, []Real{
		336.0, 112.0, 230.0, 17.1, 1.97, 1.55,
		2.77, 4.37, 5.67, 6.42, 6.45, 5.62,
	})
	SpectrumDeoxyhemoglobin = mustSpectrum("deoxyhemoglobin", libraryWavelengthsNM, []Real{
		553.0, 112.0, 286.0, 78.6, 20.1, 9.62,
		7.53, 4.08, 3.71, 3.89, 3.22, 2.52,
	})
	SpectrumMelanin = mustSpectrum("melanin", libraryWavelengthsNM, []Real{
		754.0, 519.0, 372.0, 274.0, 207.0, 160.0,
		126.0, 100.0, 81.2, 66.5, 55.1, 46.0,
	})
	SpectrumFat = mustSpectrum("fat", libraryWavelengthsNM, []Real{
		1.1e-2, 9.5e-3, 8.9e-3, 8.3e-3, 7.9e-3, 7.5e-3,
		8.7e-3, 8.2e-3, 9.4e-3, 2.5e-2, 4.1e-2, 2.8e-2,
	})
	SpectrumSkinBaseline = mustSpectrum("skin_baseline", libraryWavelengthsNM, []Real{
		0.95, 0.64, 0.44, 0.30, 0.21, 0.15,
		0.11, 0.08, 0.06, 0.05, 0.04, 0.03,
	})

	SpectrumConstantZero = ConstantSpectrum("constant_absorber_zero", 0)
	SpectrumConstantOne  = ConstantSpectrum("constant_absorber_one", 1)
)

// ConstantSpectrum returns a spectrum with the same value everywhere on the
// library wavelength band.
func ConstantSpectrum(name string, value Real) *Spectrum {
	return mustSpectrum(name,
		[]Real{libraryWavelengthsNM[0], libraryWavelengthsNM[len(libraryWavelengthsNM)-1]},
		[]Real{value, value})
}
