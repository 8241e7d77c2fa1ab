package phantom

import "fmt"

// AcousticProperties are the wavelength-invariant medium properties of one
// segmentation class.
type AcousticProperties struct {
	Density    Real // kg/m^3
	SoundSpeed Real // m/s
	AlphaCoeff Real // dB/cm/MHz
}

// AcousticPropertiesForClass looks up the literature values for a class.
func AcousticPropertiesForClass(class SegmentationClass) (AcousticProperties, error) {
	density, ok := densityByClass[class]
	if !ok {
		return AcousticProperties{}, fmt.Errorf("%w: no acoustic properties for segmentation class %d", ErrUndefined, class)
	}
	return AcousticProperties{
		Density:    density,
		SoundSpeed: soundSpeedByClass[class],
		AlphaCoeff: alphaCoefficientByClass[class],
	}, nil
}

// ApplyAcousticProperties fills the acoustic maps of a composited volume
// from its segmentation labels, plus a spatially constant Grüneisen map at
// the given temperature.
func ApplyAcousticProperties(pv *PropertyVolumes, temperatureCelsius Real) error {
	if pv == nil || pv.Segmentation == nil {
		return fmt.Errorf("%w: acoustic maps need a segmented volume", ErrConfiguration)
	}
	g := pv.Grid
	pv.Density = NewVolume(g)
	pv.SoundSpeed = NewVolume(g)
	pv.AlphaCoeff = NewVolume(g)
	pv.Gruneisen = NewVolumeFilled(g, GruneisenParameter(temperatureCelsius))

	cache := map[SegmentationClass]AcousticProperties{}
	for v, class := range pv.Segmentation.Buf {
		props, ok := cache[class]
		if !ok {
			var err error
			props, err = AcousticPropertiesForClass(class)
			if err != nil {
				return err
			}
			cache[class] = props
		}
		pv.Density.Buf[v] = props.Density
		pv.SoundSpeed.Buf[v] = props.SoundSpeed
		pv.AlphaCoeff.Buf[v] = props.AlphaCoeff
	}
	return nil
}
