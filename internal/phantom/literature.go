package phantom

// Optical scattering parameters fitted from the literature. Reduced
// scattering at 500 nm is in 1/cm; the Rayleigh fraction and Mie power
// are dimensionless exponents of the Jacques scattering model.
const (
	Musp500Background     Real = 19.1
	FrayBackground        Real = 0.153
	BmieBackground        Real = 1.72
	Musp500Epidermis      Real = 66.7
	FrayEpidermis         Real = 0.29
	BmieEpidermis         Real = 0.689
	Musp500Dermis         Real = 27.7
	FrayDermis            Real = 0.48
	BmieDermis            Real = 0.22
	Musp500Fat            Real = 18.4
	FrayFat               Real = 0.174
	BmieFat               Real = 0.447
	Musp500Blood          Real = 22.0
	FrayBlood             Real = 0.66
	BmieBlood             Real = 0.0
	Musp500Muscle         Real = 19.1
	FrayMuscle            Real = 0.153
	BmieMuscle            Real = 1.72
	Musp500Bone           Real = 15.3
	FrayBone              Real = 0.022
	BmieBone              Real = 0.326
	Musp500MediprenTubing Real = 68.778
	FrayMediprenTubing    Real = 0.0
	BmieMediprenTubing    Real = 0.98
)

// StandardAnisotropy is the scattering anisotropy assumed for soft tissue
// when no tissue-specific value is known.
const StandardAnisotropy Real = 0.9

// Blood volume fractions and oxygenation bounds used by the tissue presets.
const (
	BloodVolumeFractionMuscle      Real = 0.01
	BloodVolumeFractionSkin        Real = 0.002
	MelaninVolumeFractionEpidermis Real = 0.014
	WaterVolumeFractionHuman       Real = 0.68
	WaterVolumeFractionBone        Real = 0.19
)

// Acoustic medium properties by segmentation class. Density in kg/m^3,
// speed of sound in m/s, acoustic attenuation in dB/cm/MHz.
var (
	densityByClass = map[SegmentationClass]Real{
		ClassAir:       1.16,
		ClassMuscle:    1090.4,
		ClassBone:      1908.0,
		ClassBlood:     1049.75,
		ClassEpidermis: 1109.0,
		ClassDermis:    1109.0,
		ClassFat:       911.0,
		ClassGelPad:    890.0,
		ClassWater:     1000.0,
		ClassGeneric:   1000.0,
	}
	soundSpeedByClass = map[SegmentationClass]Real{
		ClassAir:       343.0,
		ClassMuscle:    1588.4,
		ClassBone:      2117.0,
		ClassBlood:     1578.2,
		ClassEpidermis: 1624.0,
		ClassDermis:    1624.0,
		ClassFat:       1440.2,
		ClassGelPad:    1480.0,
		ClassWater:     1482.3,
		ClassGeneric:   1482.3,
	}
	alphaCoefficientByClass = map[SegmentationClass]Real{
		ClassAir:       3.3e-3,
		ClassMuscle:    1.09,
		ClassBone:      3.54,
		ClassBlood:     0.21,
		ClassEpidermis: 0.35,
		ClassDermis:    0.35,
		ClassFat:       0.38,
		ClassGelPad:    0.24,
		ClassWater:     2.2e-3,
		ClassGeneric:   2.2e-3,
	}
)

// Grüneisen parameter of water as a linear function of temperature in °C.
func GruneisenParameter(temperatureCelsius Real) Real {
	return 0.0043 + 0.0053*temperatureCelsius
}

// BodyTemperatureCelsius is the default temperature for the Grüneisen map.
const BodyTemperatureCelsius Real = 37.0
