package phantom

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Grid describes the regular voxel lattice a phantom is rasterized on.
// Dimensions are given in millimeters and rounded to whole voxels.
type Grid struct {
	Nx, Ny, Nz int
	SpacingMM  Real
}

// NewGrid derives voxel counts from physical dimensions and spacing.
func NewGrid(dimXMM, dimYMM, dimZMM, spacingMM Real) (Grid, error) {
	if spacingMM <= 0 || !isFinite(spacingMM) {
		return Grid{}, fmt.Errorf("%w: voxel spacing must be > 0, got %g", ErrConfiguration, spacingMM)
	}
	nx := int(math.Round(dimXMM / spacingMM))
	ny := int(math.Round(dimYMM / spacingMM))
	nz := int(math.Round(dimZMM / spacingMM))
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return Grid{}, fmt.Errorf("%w: volume dimensions (%g, %g, %g) mm at %g mm spacing leave no voxels",
			ErrConfiguration, dimXMM, dimYMM, dimZMM, spacingMM)
	}
	g := Grid{Nx: nx, Ny: ny, Nz: nz, SpacingMM: spacingMM}
	log.Debug("created grid",
		zap.Int("nx", nx), zap.Int("ny", ny), zap.Int("nz", nz),
		zap.Float64("spacing_mm", spacingMM))
	return g, nil
}

// Voxels returns the total voxel count.
func (g Grid) Voxels() int { return g.Nx * g.Ny * g.Nz }

// VoxelCenterMM returns the physical position of the center of voxel (i,j,k).
func (g Grid) VoxelCenterMM(i, j, k int) Point3 {
	return Point3{
		X: (Real(i) + 0.5) * g.SpacingMM,
		Y: (Real(j) + 0.5) * g.SpacingMM,
		Z: (Real(k) + 0.5) * g.SpacingMM,
	}
}

// Volume is a dense scalar field over a Grid, stored as a flat buffer:
// Buf[i*strideX + j*strideY + k].
type Volume struct {
	Nx, Ny, Nz       int
	strideX, strideY int
	Buf              []Real
}

// NewVolume allocates a zero-initialized volume shaped like g.
func NewVolume(g Grid) *Volume {
	return &Volume{
		Nx: g.Nx, Ny: g.Ny, Nz: g.Nz,
		strideX: g.Ny * g.Nz,
		strideY: g.Nz,
		Buf:     make([]Real, g.Voxels()),
	}
}

// NewVolumeFilled allocates a volume with every voxel set to v.
func NewVolumeFilled(g Grid, v Real) *Volume {
	vol := NewVolume(g)
	vol.Fill(v)
	return vol
}

// Idx maps voxel coordinates to the flat buffer index.
func (v *Volume) Idx(i, j, k int) int { return i*v.strideX + j*v.strideY + k }

// At returns the value at voxel (i,j,k).
func (v *Volume) At(i, j, k int) Real { return v.Buf[v.Idx(i, j, k)] }

// Set writes the value at voxel (i,j,k).
func (v *Volume) Set(i, j, k int, val Real) { v.Buf[v.Idx(i, j, k)] = val }

// Fill sets every voxel to val.
func (v *Volume) Fill(val Real) {
	for i := range v.Buf {
		v.Buf[i] = val
	}
}

// SegmentationClass labels the tissue type a voxel is assigned to.
type SegmentationClass int

// Segmentation classes of the modelled tissue types. ClassGeneric doubles as
// the reserved "unset" value of freshly allocated segmentation volumes.
const (
	ClassGeneric   SegmentationClass = -1
	ClassAir       SegmentationClass = 0
	ClassMuscle    SegmentationClass = 1
	ClassBone      SegmentationClass = 2
	ClassBlood     SegmentationClass = 3
	ClassEpidermis SegmentationClass = 4
	ClassDermis    SegmentationClass = 5
	ClassFat       SegmentationClass = 6
	ClassGelPad    SegmentationClass = 7
	ClassWater     SegmentationClass = 8
)

// UnsetValue marks voxels whose oxygenation is undefined (no hemoglobin
// contributed there). Oxygenation is a fraction in [0,1], so -1 is never a
// valid reading.
const UnsetValue Real = -1

// LabelVolume is a dense segmentation field over a Grid.
type LabelVolume struct {
	Nx, Ny, Nz       int
	strideX, strideY int
	Buf              []SegmentationClass
}

// NewLabelVolume allocates a label volume with every voxel set to
// ClassGeneric.
func NewLabelVolume(g Grid) *LabelVolume {
	v := &LabelVolume{
		Nx: g.Nx, Ny: g.Ny, Nz: g.Nz,
		strideX: g.Ny * g.Nz,
		strideY: g.Nz,
		Buf:     make([]SegmentationClass, g.Voxels()),
	}
	for i := range v.Buf {
		v.Buf[i] = ClassGeneric
	}
	return v
}

// Idx maps voxel coordinates to the flat buffer index.
func (v *LabelVolume) Idx(i, j, k int) int { return i*v.strideX + j*v.strideY + k }

// At returns the label at voxel (i,j,k).
func (v *LabelVolume) At(i, j, k int) SegmentationClass { return v.Buf[v.Idx(i, j, k)] }

// PropertyVolumes bundles the per-voxel physical property grids produced by
// one composition. Mua, Mus and Anisotropy are per wavelength; Segmentation
// is wavelength-invariant. The acoustic maps (Density, SoundSpeed,
// AlphaCoeff) and the Grüneisen map are nil unless requested.
type PropertyVolumes struct {
	Grid         Grid
	WavelengthNM Real

	Mua          *Volume
	Mus          *Volume
	Anisotropy   *Volume
	Oxygenation  *Volume // UnsetValue where undefined
	Segmentation *LabelVolume

	Density    *Volume
	SoundSpeed *Volume
	AlphaCoeff *Volume
	Gruneisen  *Volume
}

// NewPropertyVolumes allocates the optical grids plus segmentation.
func NewPropertyVolumes(g Grid, wavelengthNM Real) *PropertyVolumes {
	return &PropertyVolumes{
		Grid:         g,
		WavelengthNM: wavelengthNM,
		Mua:          NewVolume(g),
		Mus:          NewVolume(g),
		Anisotropy:   NewVolume(g),
		Oxygenation:  NewVolumeFilled(g, UnsetValue),
		Segmentation: NewLabelVolume(g),
	}
}
