package phantom

import (
	"fmt"
	"math"
)

// Chromophore couples an absorption spectrum with a volume fraction and the
// Jacques reduced-scattering model parameters. Absorption scales linearly
// with the volume fraction; scattering follows
//
//	musp(λ) = musp500 · (fRay·(λ/500)^-4 + (1-fRay)·(λ/500)^-bMie)
//
// converted to the full scattering coefficient with the anisotropy.
type Chromophore struct {
	Spectrum         *Spectrum
	VolumeFraction   Real
	Musp500          Real
	FractionRayleigh Real
	BMie             Real
	Anisotropy       Real
}

// NewChromophore validates the physical ranges of every parameter.
func NewChromophore(spectrum *Spectrum, volumeFraction, musp500, fRayleigh, bMie, anisotropy Real) (*Chromophore, error) {
	if spectrum == nil {
		return nil, fmt.Errorf("%w: chromophore requires a spectrum", ErrConfiguration)
	}
	// Fractions above 1 are tolerated here: compositions under
	// construction may transiently exceed unity before normalization.
	if !isFinite(volumeFraction) || volumeFraction < 0 {
		return nil, fmt.Errorf("%w: chromophore %q volume fraction %g must be >= 0",
			ErrConfiguration, spectrum.Name, volumeFraction)
	}
	if !isFinite(musp500) || musp500 < 0 {
		return nil, fmt.Errorf("%w: chromophore %q musp500 %g must be >= 0",
			ErrConfiguration, spectrum.Name, musp500)
	}
	if !isFinite(fRayleigh) || fRayleigh < 0 || fRayleigh > 1 {
		return nil, fmt.Errorf("%w: chromophore %q Rayleigh fraction %g not in [0, 1]",
			ErrConfiguration, spectrum.Name, fRayleigh)
	}
	if !isFinite(bMie) {
		return nil, fmt.Errorf("%w: chromophore %q Mie power is not finite", ErrConfiguration, spectrum.Name)
	}
	if !isFinite(anisotropy) || anisotropy < -1 || anisotropy > 1 {
		return nil, fmt.Errorf("%w: chromophore %q anisotropy %g not in [-1, 1]",
			ErrConfiguration, spectrum.Name, anisotropy)
	}
	return &Chromophore{
		Spectrum:         spectrum,
		VolumeFraction:   volumeFraction,
		Musp500:          musp500,
		FractionRayleigh: fRayleigh,
		BMie:             bMie,
		Anisotropy:       anisotropy,
	}, nil
}

// AbsorptionAt returns the chromophore's contribution to mua in 1/cm,
// already scaled by its volume fraction.
func (c *Chromophore) AbsorptionAt(wavelengthNM Real) (Real, error) {
	v, err := c.Spectrum.ValueAt(wavelengthNM)
	if err != nil {
		return 0, err
	}
	return c.VolumeFraction * v, nil
}

// ScatteringAt returns the chromophore's contribution to mus in 1/cm,
// already scaled by its volume fraction.
func (c *Chromophore) ScatteringAt(wavelengthNM Real) Real {
	x := wavelengthNM / 500.0
	return c.VolumeFraction * c.Musp500 * (c.FractionRayleigh*math.Pow(x, -4) +
		(1-c.FractionRayleigh)*math.Pow(x, -c.BMie))
}

// Library constructors for the common tissue constituents.

func ChromophoreWater(volumeFraction Real) (*Chromophore, error) {
	return NewChromophore(SpectrumWater, volumeFraction,
		Musp500Background, FrayBackground, BmieBackground, StandardAnisotropy)
}

func ChromophoreOxyhemoglobin(volumeFraction Real) (*Chromophore, error) {
	return NewChromophore(SpectrumOxyhemoglobin, volumeFraction,
		Musp500Blood, FrayBlood, BmieBlood, StandardAnisotropy)
}

func ChromophoreDeoxyhemoglobin(volumeFraction Real) (*Chromophore, error) {
	return NewChromophore(SpectrumDeoxyhemoglobin, volumeFraction,
		Musp500Blood, FrayBlood, BmieBlood, StandardAnisotropy)
}

func ChromophoreMelanin(volumeFraction Real) (*Chromophore, error) {
	return NewChromophore(SpectrumMelanin, volumeFraction,
		Musp500Epidermis, FrayEpidermis, BmieEpidermis, StandardAnisotropy)
}

func ChromophoreFat(volumeFraction Real) (*Chromophore, error) {
	return NewChromophore(SpectrumFat, volumeFraction,
		Musp500Fat, FrayFat, BmieFat, StandardAnisotropy)
}

// ChromophoreConstant is a spectrally flat absorber with an explicit
// scattering level, used by calibration phantoms.
func ChromophoreConstant(muaPerCM, musPerCM, anisotropy Real) (*Chromophore, error) {
	if !isFinite(muaPerCM) || muaPerCM < 0 {
		return nil, fmt.Errorf("%w: constant absorber mua %g must be >= 0", ErrConfiguration, muaPerCM)
	}
	if !isFinite(musPerCM) || musPerCM < 0 {
		return nil, fmt.Errorf("%w: constant absorber mus %g must be >= 0", ErrConfiguration, musPerCM)
	}
	// fRay=0 and bMie=0 make the power terms unity, so Musp500 is the
	// flat scattering level itself.
	return NewChromophore(ConstantSpectrum("constant_absorber", muaPerCM), 1,
		musPerCM, 0, 0, anisotropy)
}
