package phantom

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Geometry rasterizes one shape onto a grid as per-voxel occupancy
// fractions in [0, 1]. Shapes hold resolved physical parameters in mm and
// know nothing about compositing.
type Geometry interface {
	// Rasterize produces the occupancy volume. With partialVolume set,
	// voxels straddling the surface get fractional occupancy; otherwise
	// every voxel is 0 or 1.
	Rasterize(g Grid, partialVolume bool) *Volume
}

// rampFraction maps a signed distance in voxel units to occupancy:
// fully inside at -0.5 voxels, fully outside at +0.5, linear in between.
func rampFraction(distVoxels Real, partialVolume bool) Real {
	if !partialVolume {
		if distVoxels <= 0 {
			return 1
		}
		return 0
	}
	return clamp01(0.5 - distVoxels)
}

// Background fills the whole grid. It is the mandatory lowest-priority
// structure of every phantom.
type Background struct{}

func (Background) Rasterize(g Grid, _ bool) *Volume {
	return NewVolumeFilled(g, 1)
}

// Layer is a slab spanning the full lateral extent between two depths
// along the Z axis.
type Layer struct {
	DepthMM     Real
	ThicknessMM Real
}

// NewLayer validates the slab extent.
func NewLayer(depthMM, thicknessMM Real) (*Layer, error) {
	if !isFinite(depthMM) || depthMM < 0 {
		return nil, fmt.Errorf("%w: layer depth %g mm must be >= 0", ErrConfiguration, depthMM)
	}
	if !isFinite(thicknessMM) || thicknessMM <= 0 {
		return nil, fmt.Errorf("%w: layer thickness %g mm must be > 0", ErrConfiguration, thicknessMM)
	}
	return &Layer{DepthMM: depthMM, ThicknessMM: thicknessMM}, nil
}

func (l *Layer) Rasterize(g Grid, partialVolume bool) *Volume {
	v := NewVolume(g)
	lo, hi := l.DepthMM, l.DepthMM+l.ThicknessMM
	for k := 0; k < g.Nz; k++ {
		z0 := Real(k) * g.SpacingMM
		z1 := z0 + g.SpacingMM
		covered := (math.Min(hi, z1) - math.Max(lo, z0)) / g.SpacingMM
		frac := clamp01(covered)
		if !partialVolume {
			if frac >= 0.5 {
				frac = 1
			} else {
				frac = 0
			}
		}
		if frac == 0 {
			continue
		}
		for i := 0; i < g.Nx; i++ {
			for j := 0; j < g.Ny; j++ {
				v.Set(i, j, k, frac)
			}
		}
	}
	return v
}

// Tube is an infinite circular cylinder around the line through StartMM
// and EndMM, rasterized only within the bounding box of the segment.
type Tube struct {
	StartMM  Point3
	EndMM    Point3
	RadiusMM Real
}

// NewTube validates the centerline and radius.
func NewTube(startMM, endMM Point3, radiusMM Real) (*Tube, error) {
	if !isFinite(radiusMM) || radiusMM <= 0 {
		return nil, fmt.Errorf("%w: tube radius %g mm must be > 0", ErrConfiguration, radiusMM)
	}
	if startMM.Sub(endMM).Len() == 0 {
		return nil, fmt.Errorf("%w: tube centerline start and end coincide", ErrConfiguration)
	}
	return &Tube{StartMM: startMM, EndMM: endMM, RadiusMM: radiusMM}, nil
}

func (t *Tube) Rasterize(g Grid, partialVolume bool) *Volume {
	v := NewVolume(g)
	axis := t.EndMM.Sub(t.StartMM).Norm()
	i0, i1, j0, j1, k0, k1 := segmentBounds(g, t.StartMM, t.EndMM, t.RadiusMM)
	for i := i0; i <= i1; i++ {
		for j := j0; j <= j1; j++ {
			for k := k0; k <= k1; k++ {
				p := g.VoxelCenterMM(i, j, k)
				off := p.Sub(t.StartMM)
				perp := off.Sub(axis.Mul(off.Dot(axis)))
				d := (perp.Len() - t.RadiusMM) / g.SpacingMM
				v.Set(i, j, k, rampFraction(d, partialVolume))
			}
		}
	}
	return v
}

// Ellipsoid is an elliptical cylinder around a centerline. The two radii
// derive from an overall radius and an eccentricity; which perpendicular
// axis carries the major radius is decided at construction.
type Ellipsoid struct {
	StartMM       Point3
	EndMM         Point3
	RadiusMajorMM Real
	RadiusMinorMM Real
	SwapAxes      bool
}

// NewEllipsoid derives the two radii from radius and eccentricity.
// Eccentricities above 0.9 of the radius are clamped down to keep the
// minor radius positive; swapAxes moves the major radius to the other
// perpendicular axis.
func NewEllipsoid(startMM, endMM Point3, radiusMM, eccentricityMM Real, swapAxes bool) (*Ellipsoid, error) {
	if !isFinite(radiusMM) || radiusMM <= 0 {
		return nil, fmt.Errorf("%w: ellipsoid radius %g mm must be > 0", ErrConfiguration, radiusMM)
	}
	if !isFinite(eccentricityMM) || eccentricityMM < 0 {
		return nil, fmt.Errorf("%w: ellipsoid eccentricity %g mm must be >= 0", ErrConfiguration, eccentricityMM)
	}
	if startMM.Sub(endMM).Len() == 0 {
		return nil, fmt.Errorf("%w: ellipsoid centerline start and end coincide", ErrConfiguration)
	}
	if max := 0.9 * radiusMM; eccentricityMM > max {
		log.Debug("clamping ellipsoid eccentricity",
			zap.Float64("requested_mm", eccentricityMM), zap.Float64("clamped_mm", max))
		eccentricityMM = max
	}
	rMajor := (radiusMM*radiusMM + eccentricityMM*eccentricityMM) / (2 * radiusMM)
	rMinor := radiusMM - rMajor
	if rMinor <= 0 {
		return nil, fmt.Errorf("%w: ellipsoid radius %g mm and eccentricity %g mm leave no minor radius",
			ErrConfiguration, radiusMM, eccentricityMM)
	}
	return &Ellipsoid{
		StartMM:       startMM,
		EndMM:         endMM,
		RadiusMajorMM: rMajor,
		RadiusMinorMM: rMinor,
		SwapAxes:      swapAxes,
	}, nil
}

func (e *Ellipsoid) Rasterize(g Grid, partialVolume bool) *Volume {
	v := NewVolume(g)
	axis := e.EndMM.Sub(e.StartMM).Norm()
	u, w := perpendicularBasis(axis)
	ru, rw := e.RadiusMajorMM, e.RadiusMinorMM
	if e.SwapAxes {
		ru, rw = rw, ru
	}
	reach := math.Max(e.RadiusMajorMM, e.RadiusMinorMM)
	minR := math.Min(e.RadiusMajorMM, e.RadiusMinorMM)
	i0, i1, j0, j1, k0, k1 := segmentBounds(g, e.StartMM, e.EndMM, reach)
	for i := i0; i <= i1; i++ {
		for j := j0; j <= j1; j++ {
			for k := k0; k <= k1; k++ {
				p := g.VoxelCenterMM(i, j, k)
				off := p.Sub(e.StartMM)
				a := off.Dot(u) / ru
				b := off.Dot(w) / rw
				// Approximate signed distance from the quadratic form,
				// scaled by the smaller radius so the ramp stays close
				// to one voxel wide on the tight side.
				d := (math.Sqrt(a*a+b*b) - 1) * minR / g.SpacingMM
				v.Set(i, j, k, rampFraction(d, partialVolume))
			}
		}
	}
	return v
}

// segmentBounds returns the voxel-index bounding box of a segment grown by
// the shape's reach plus one voxel, clamped to the grid.
func segmentBounds(g Grid, a, b Point3, reachMM Real) (i0, i1, j0, j1, k0, k1 int) {
	grow := reachMM + g.SpacingMM
	lo := Point3{
		X: math.Min(a.X, b.X) - grow,
		Y: math.Min(a.Y, b.Y) - grow,
		Z: math.Min(a.Z, b.Z) - grow,
	}
	hi := Point3{
		X: math.Max(a.X, b.X) + grow,
		Y: math.Max(a.Y, b.Y) + grow,
		Z: math.Max(a.Z, b.Z) + grow,
	}
	i0 = imax(0, int(math.Floor(lo.X/g.SpacingMM)))
	j0 = imax(0, int(math.Floor(lo.Y/g.SpacingMM)))
	k0 = imax(0, int(math.Floor(lo.Z/g.SpacingMM)))
	i1 = imin(g.Nx-1, int(math.Ceil(hi.X/g.SpacingMM)))
	j1 = imin(g.Ny-1, int(math.Ceil(hi.Y/g.SpacingMM)))
	k1 = imin(g.Nz-1, int(math.Ceil(hi.Z/g.SpacingMM)))
	return
}

// perpendicularBasis returns two unit vectors orthogonal to axis and to
// each other.
func perpendicularBasis(axis Vector3) (Vector3, Vector3) {
	ref := Vector3{Z: 1}
	if math.Abs(axis.Dot(ref)) > 0.999 {
		ref = Vector3{X: 1}
	}
	u := axis.Cross(ref).Norm()
	return u, axis.Cross(u)
}
