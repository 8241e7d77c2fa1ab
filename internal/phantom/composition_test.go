package phantom

import (
	"errors"
	"math"
	"testing"
)

func TestChromophoreScatteringModel(t *testing.T) {
	c, err := NewChromophore(SpectrumConstantZero, 0.5, 20, 0.25, 1.2, 0.9)
	if err != nil {
		t.Fatalf("NewChromophore: %v", err)
	}
	wl := Real(800)
	x := wl / 500
	want := 0.5 * 20 * (0.25*math.Pow(x, -4) + 0.75*math.Pow(x, -1.2))
	if got := c.ScatteringAt(wl); !almostEq(got, want) {
		t.Fatalf("ScatteringAt(%g) = %g, want %g", wl, got, want)
	}
}

func TestChromophoreValidation(t *testing.T) {
	cases := []struct {
		name                    string
		vf, musp, fray, bmie, g Real
	}{
		{"vf negative", -0.1, 1, 0, 0, 0.9},
		{"musp negative", 0.5, -1, 0, 0, 0.9},
		{"fray above one", 0.5, 1, 1.5, 0, 0.9},
		{"g below minus one", 0.5, 1, 0, 0, -1.5},
	}
	for _, c := range cases {
		if _, err := NewChromophore(SpectrumWater, c.vf, c.musp, c.fray, c.bmie, c.g); !errors.Is(err, ErrConfiguration) {
			t.Fatalf("%s: got %v, want ErrConfiguration", c.name, err)
		}
	}
}

func TestCompositionMixing(t *testing.T) {
	a, err := NewChromophore(ConstantSpectrum("a", 2), 0.25, 10, 0, 0, 0.8)
	if err != nil {
		t.Fatalf("chromophore a: %v", err)
	}
	b, err := NewChromophore(ConstantSpectrum("b", 4), 0.75, 20, 0, 0, 0.6)
	if err != nil {
		t.Fatalf("chromophore b: %v", err)
	}
	comp, err := NewCompositionBuilder("mix", ClassGeneric).
		Add("a", a).
		Add("b", b).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	p, err := comp.PropertiesForWavelength(800)
	if err != nil {
		t.Fatalf("PropertiesForWavelength: %v", err)
	}
	// mua = 0.25*2 + 0.75*4; mus = 0.25*10 + 0.75*20 (flat model);
	// g = (0.25*0.8 + 0.75*0.6) / 1.
	if !almostEq(p.Mua, 3.5) {
		t.Fatalf("Mua = %g, want 3.5", p.Mua)
	}
	if !almostEq(p.Mus, 17.5) {
		t.Fatalf("Mus = %g, want 17.5", p.Mus)
	}
	if !almostEq(p.Anisotropy, 0.65) {
		t.Fatalf("Anisotropy = %g, want 0.65", p.Anisotropy)
	}
	if p.Oxygenation != nil {
		t.Fatalf("Oxygenation = %v, want nil without hemoglobin", *p.Oxygenation)
	}
}

func TestCompositionOxygenationFromHemoglobin(t *testing.T) {
	comp, err := TissueBlood(0.8)
	if err != nil {
		t.Fatalf("TissueBlood: %v", err)
	}
	p, err := comp.PropertiesForWavelength(800)
	if err != nil {
		t.Fatalf("PropertiesForWavelength: %v", err)
	}
	if p.Oxygenation == nil {
		t.Fatal("Oxygenation is nil for blood")
	}
	if !almostEq(*p.Oxygenation, 0.8) {
		t.Fatalf("Oxygenation = %g, want 0.8", *p.Oxygenation)
	}
}

func TestCompositionOxygenationUndefinedBelowThreshold(t *testing.T) {
	hbO2, err := ChromophoreOxyhemoglobin(1e-12)
	if err != nil {
		t.Fatalf("ChromophoreOxyhemoglobin: %v", err)
	}
	comp, err := NewCompositionBuilder("trace", ClassGeneric).
		Add("oxyhemoglobin", hbO2).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	p, err := comp.PropertiesForWavelength(800)
	if err != nil {
		t.Fatalf("PropertiesForWavelength: %v", err)
	}
	if p.Oxygenation != nil {
		t.Fatalf("Oxygenation = %v, want nil for trace hemoglobin", *p.Oxygenation)
	}
}

func TestCompositionDuplicateKey(t *testing.T) {
	w, err := ChromophoreWater(0.5)
	if err != nil {
		t.Fatalf("ChromophoreWater: %v", err)
	}
	_, err = NewCompositionBuilder("dup", ClassGeneric).
		Add("water", w).
		Add("water", w).
		Build()
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("got %v, want ErrDuplicateKey", err)
	}
}

func TestCompositionAnisotropyZeroFraction(t *testing.T) {
	c, err := NewChromophore(SpectrumConstantZero, 0, 10, 0, 0, 0.9)
	if err != nil {
		t.Fatalf("NewChromophore: %v", err)
	}
	comp, err := NewCompositionBuilder("empty", ClassGeneric).Add("c", c).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	p, err := comp.PropertiesForWavelength(800)
	if err != nil {
		t.Fatalf("PropertiesForWavelength: %v", err)
	}
	if p.Anisotropy != 0 {
		t.Fatalf("Anisotropy = %g, want 0 sentinel for zero total fraction", p.Anisotropy)
	}
}

func TestTissuePresetClasses(t *testing.T) {
	cases := []struct {
		build func() (*MolecularComposition, error)
		class SegmentationClass
	}{
		{func() (*MolecularComposition, error) { return TissueBlood(0.5) }, ClassBlood},
		{func() (*MolecularComposition, error) { return TissueMuscle(0.5) }, ClassMuscle},
		{func() (*MolecularComposition, error) { return TissueEpidermis(0.014) }, ClassEpidermis},
		{func() (*MolecularComposition, error) { return TissueDermis(0.5) }, ClassDermis},
		{TissueSubcutaneousFat, ClassFat},
		{TissueBone, ClassBone},
		{TissueWater, ClassWater},
		{TissueGelPad, ClassGelPad},
		{TissueAir, ClassAir},
	}
	for _, c := range cases {
		comp, err := c.build()
		if err != nil {
			t.Fatalf("preset: %v", err)
		}
		if comp.Class != c.class {
			t.Fatalf("preset %q class = %d, want %d", comp.Name, comp.Class, c.class)
		}
	}
}
