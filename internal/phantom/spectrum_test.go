package phantom

import (
	"errors"
	"math"
	"testing"
)

func almostEq(a, b Real) bool { return math.Abs(a-b) < 1e-9 }

func TestSpectrumInterpolation(t *testing.T) {
	s, err := NewSpectrum("test", []Real{500, 600}, []Real{1.0, 3.0})
	if err != nil {
		t.Fatalf("NewSpectrum: %v", err)
	}
	cases := []struct{ wl, want Real }{
		{500, 1.0},
		{600, 3.0},
		{550, 2.0},
		{525, 1.5},
		{599.5, 2.99},
	}
	for _, c := range cases {
		got, err := s.ValueAt(c.wl)
		if err != nil {
			t.Fatalf("ValueAt(%g): %v", c.wl, err)
		}
		if !almostEq(got, c.want) {
			t.Fatalf("ValueAt(%g) = %g, want %g", c.wl, got, c.want)
		}
	}
}

func TestSpectrumOutOfRange(t *testing.T) {
	s, err := NewSpectrum("test", []Real{500, 600}, []Real{1, 2})
	if err != nil {
		t.Fatalf("NewSpectrum: %v", err)
	}
	for _, wl := range []Real{499.9, 600.1, math.NaN(), math.Inf(1)} {
		if _, err := s.ValueAt(wl); !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("ValueAt(%g): got %v, want ErrOutOfRange", wl, err)
		}
	}
}

func TestSpectrumShapeMismatch(t *testing.T) {
	if _, err := NewSpectrum("bad", []Real{500, 600}, []Real{1}); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("got %v, want ErrShapeMismatch", err)
	}
	if _, err := NewSpectrum("empty", nil, nil); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("got %v, want ErrShapeMismatch", err)
	}
}

func TestSpectrumSingleSample(t *testing.T) {
	s, err := NewSpectrum("point", []Real{800}, []Real{4.2})
	if err != nil {
		t.Fatalf("NewSpectrum: %v", err)
	}
	got, err := s.ValueAt(800)
	if err != nil {
		t.Fatalf("ValueAt(800): %v", err)
	}
	if got != 4.2 {
		t.Fatalf("ValueAt(800) = %g, want 4.2", got)
	}
	if _, err := s.ValueAt(801); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("ValueAt(801): got %v, want ErrOutOfRange", err)
	}
}

func TestSpectrumDescendingWavelengthsRejected(t *testing.T) {
	if _, err := NewSpectrum("bad", []Real{600, 500}, []Real{1, 2}); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("got %v, want ErrConfiguration", err)
	}
}

func TestConstantSpectrumFlat(t *testing.T) {
	cases := []struct {
		s    *Spectrum
		want Real
	}{
		{ConstantSpectrum("flat", 2.5), 2.5},
		{SpectrumConstantZero, 0},
		{SpectrumConstantOne, 1},
	}
	for _, c := range cases {
		for _, wl := range []Real{450, 700, 1000} {
			got, err := c.s.ValueAt(wl)
			if err != nil {
				t.Fatalf("%s: ValueAt(%g): %v", c.s.Name, wl, err)
			}
			if got != c.want {
				t.Fatalf("%s: ValueAt(%g) = %g, want %g", c.s.Name, wl, got, c.want)
			}
		}
	}
}

func TestLibrarySpectraCoverBand(t *testing.T) {
	for _, s := range []*Spectrum{
		SpectrumWater, SpectrumOxyhemoglobin, SpectrumDeoxyhemoglobin,
		SpectrumMelanin, SpectrumFat, SpectrumSkinBaseline,
	} {
		if s.MinWavelength() > 450 || s.MaxWavelength() < 1000 {
			t.Fatalf("spectrum %q covers [%g, %g], want [450, 1000]",
				s.Name, s.MinWavelength(), s.MaxWavelength())
		}
	}
}
