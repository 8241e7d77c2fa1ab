package phantom

import "fmt"

// Tissue presets. Each returns a ready composition with literature volume
// fractions and the matching segmentation class. Oxygenation-bearing
// presets take the blood oxygen saturation in [0, 1].

func checkOxygenation(oxygenation Real) error {
	if !isFinite(oxygenation) || oxygenation < 0 || oxygenation > 1 {
		return fmt.Errorf("%w: oxygenation %g not in [0, 1]", ErrConfiguration, oxygenation)
	}
	return nil
}

// scatterer contributes scattering without absorbing. It models the
// structural tissue matrix that no absorption spectrum covers.
func scatterer(volumeFraction, musp500, fRay, bMie Real) (*Chromophore, error) {
	return NewChromophore(SpectrumConstantZero, volumeFraction, musp500, fRay, bMie, StandardAnisotropy)
}

// TissueBlood is whole blood at the given oxygen saturation.
func TissueBlood(oxygenation Real) (*MolecularComposition, error) {
	if err := checkOxygenation(oxygenation); err != nil {
		return nil, err
	}
	hbO2, err := ChromophoreOxyhemoglobin(oxygenation)
	if err != nil {
		return nil, err
	}
	hb, err := ChromophoreDeoxyhemoglobin(1 - oxygenation)
	if err != nil {
		return nil, err
	}
	return NewCompositionBuilder("blood", ClassBlood).
		Add("oxyhemoglobin", hbO2).
		Add("deoxyhemoglobin", hb).
		Build()
}

// TissueMuscle is perfused muscle with literature blood volume fraction.
func TissueMuscle(oxygenation Real) (*MolecularComposition, error) {
	if err := checkOxygenation(oxygenation); err != nil {
		return nil, err
	}
	bvf := BloodVolumeFractionMuscle
	hbO2, err := ChromophoreOxyhemoglobin(bvf * oxygenation)
	if err != nil {
		return nil, err
	}
	hb, err := ChromophoreDeoxyhemoglobin(bvf * (1 - oxygenation))
	if err != nil {
		return nil, err
	}
	water, err := ChromophoreWater(WaterVolumeFractionHuman)
	if err != nil {
		return nil, err
	}
	matrix, err := scatterer(1-bvf-WaterVolumeFractionHuman, Musp500Muscle, FrayMuscle, BmieMuscle)
	if err != nil {
		return nil, err
	}
	return NewCompositionBuilder("muscle", ClassMuscle).
		Add("oxyhemoglobin", hbO2).
		Add("deoxyhemoglobin", hb).
		Add("water", water).
		Add("matrix", matrix).
		Build()
}

// TissueEpidermis is the melanin-bearing top skin layer.
func TissueEpidermis(melaninVolumeFraction Real) (*MolecularComposition, error) {
	if !isFinite(melaninVolumeFraction) || melaninVolumeFraction < 0 || melaninVolumeFraction > 1 {
		return nil, fmt.Errorf("%w: melanin volume fraction %g not in [0, 1]", ErrConfiguration, melaninVolumeFraction)
	}
	melanin, err := ChromophoreMelanin(melaninVolumeFraction)
	if err != nil {
		return nil, err
	}
	matrix, err := scatterer(1-melaninVolumeFraction, Musp500Epidermis, FrayEpidermis, BmieEpidermis)
	if err != nil {
		return nil, err
	}
	return NewCompositionBuilder("epidermis", ClassEpidermis).
		Add("melanin", melanin).
		Add("matrix", matrix).
		Build()
}

// TissueDermis is sparsely perfused skin below the epidermis.
func TissueDermis(oxygenation Real) (*MolecularComposition, error) {
	if err := checkOxygenation(oxygenation); err != nil {
		return nil, err
	}
	bvf := BloodVolumeFractionSkin
	hbO2, err := ChromophoreOxyhemoglobin(bvf * oxygenation)
	if err != nil {
		return nil, err
	}
	hb, err := ChromophoreDeoxyhemoglobin(bvf * (1 - oxygenation))
	if err != nil {
		return nil, err
	}
	water, err := ChromophoreWater(WaterVolumeFractionHuman)
	if err != nil {
		return nil, err
	}
	matrix, err := scatterer(1-bvf-WaterVolumeFractionHuman, Musp500Dermis, FrayDermis, BmieDermis)
	if err != nil {
		return nil, err
	}
	return NewCompositionBuilder("dermis", ClassDermis).
		Add("oxyhemoglobin", hbO2).
		Add("deoxyhemoglobin", hb).
		Add("water", water).
		Add("matrix", matrix).
		Build()
}

// TissueSubcutaneousFat is the adipose layer under the dermis.
func TissueSubcutaneousFat() (*MolecularComposition, error) {
	fat, err := ChromophoreFat(0.9)
	if err != nil {
		return nil, err
	}
	water, err := ChromophoreWater(0.1)
	if err != nil {
		return nil, err
	}
	return NewCompositionBuilder("subcutaneous_fat", ClassFat).
		Add("fat", fat).
		Add("water", water).
		Build()
}

// TissueBone is cortical bone: a strong scattering matrix with the
// literature water content.
func TissueBone() (*MolecularComposition, error) {
	matrix, err := scatterer(1-WaterVolumeFractionBone, Musp500Bone, FrayBone, BmieBone)
	if err != nil {
		return nil, err
	}
	water, err := ChromophoreWater(WaterVolumeFractionBone)
	if err != nil {
		return nil, err
	}
	return NewCompositionBuilder("bone", ClassBone).
		Add("matrix", matrix).
		Add("water", water).
		Build()
}

// TissueWater is a pure water medium, the default coupling background.
func TissueWater() (*MolecularComposition, error) {
	water, err := ChromophoreWater(1)
	if err != nil {
		return nil, err
	}
	return NewCompositionBuilder("water", ClassWater).
		Add("water", water).
		Build()
}

// TissueGelPad is an ultrasound coupling pad.
func TissueGelPad() (*MolecularComposition, error) {
	pad, err := NewChromophore(ConstantSpectrum("gel_pad", 0.004), 1,
		Musp500MediprenTubing, FrayMediprenTubing, BmieMediprenTubing, StandardAnisotropy)
	if err != nil {
		return nil, err
	}
	return NewCompositionBuilder("gel_pad", ClassGelPad).
		Add("pad", pad).
		Build()
}

// TissueAir is an essentially transparent, non-scattering medium.
func TissueAir() (*MolecularComposition, error) {
	air, err := NewChromophore(ConstantSpectrum("air", 1e-10), 1, 1e-10, 0, 0, 0)
	if err != nil {
		return nil, err
	}
	return NewCompositionBuilder("air", ClassAir).
		Add("air", air).
		Build()
}

// TissueConstant is a calibration medium with flat optical properties.
func TissueConstant(muaPerCM, musPerCM, anisotropy Real) (*MolecularComposition, error) {
	c, err := ChromophoreConstant(muaPerCM, musPerCM, anisotropy)
	if err != nil {
		return nil, err
	}
	return NewCompositionBuilder("constant", ClassGeneric).
		Add("constant", c).
		Build()
}

// TissueBloodSampled draws the blood oxygenation from a randomizer,
// clamping the draw into [0, 1].
func TissueBloodSampled(r *Randomizer) (*MolecularComposition, error) {
	return TissueBlood(clamp01(r.Sample()))
}

// TissueMuscleSampled draws the muscle oxygenation from a randomizer.
func TissueMuscleSampled(r *Randomizer) (*MolecularComposition, error) {
	return TissueMuscle(clamp01(r.Sample()))
}
