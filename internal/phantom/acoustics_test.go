package phantom

import (
	"errors"
	"testing"
)

func TestAcousticPropertiesLookup(t *testing.T) {
	p, err := AcousticPropertiesForClass(ClassBlood)
	if err != nil {
		t.Fatalf("AcousticPropertiesForClass: %v", err)
	}
	if p.Density != 1049.75 || p.SoundSpeed != 1578.2 {
		t.Fatalf("blood acoustics = %+v", p)
	}
	if _, err := AcousticPropertiesForClass(SegmentationClass(99)); !errors.Is(err, ErrUndefined) {
		t.Fatalf("unknown class: got %v, want ErrUndefined", err)
	}
}

func TestApplyAcousticProperties(t *testing.T) {
	g := testGrid(t, 5, 5, 5, 1)
	c, err := NewCompositor(g, []*Structure{waterBackground(t), bloodTube(t, "vessel", 5, 1, false)})
	if err != nil {
		t.Fatalf("NewCompositor: %v", err)
	}
	pv, err := c.Composite(800)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if err := ApplyAcousticProperties(pv, 37); err != nil {
		t.Fatalf("ApplyAcousticProperties: %v", err)
	}
	water, _ := AcousticPropertiesForClass(ClassWater)
	blood, _ := AcousticPropertiesForClass(ClassBlood)
	for i, class := range pv.Segmentation.Buf {
		want := water
		if class == ClassBlood {
			want = blood
		}
		if pv.Density.Buf[i] != want.Density || pv.SoundSpeed.Buf[i] != want.SoundSpeed {
			t.Fatalf("acoustic maps disagree with segmentation at %d", i)
		}
	}
	wantGamma := GruneisenParameter(37)
	for i, gamma := range pv.Gruneisen.Buf {
		if !almostEq(gamma, wantGamma) {
			t.Fatalf("gruneisen[%d] = %g, want %g", i, gamma, wantGamma)
		}
	}
}

func TestGruneisenParameter(t *testing.T) {
	if got := GruneisenParameter(0); !almostEq(got, 0.0043) {
		t.Fatalf("GruneisenParameter(0) = %g, want 0.0043", got)
	}
	if got := GruneisenParameter(37); !almostEq(got, 0.0043+0.0053*37) {
		t.Fatalf("GruneisenParameter(37) = %g", got)
	}
}
