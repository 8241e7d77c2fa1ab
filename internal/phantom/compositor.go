package phantom

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Compositor merges a prioritized structure list into per-voxel property
// volumes. Each voxel holds at most a total fraction of 1: structures are
// processed from highest to lowest priority, and each claims the smaller
// of its occupancy and the remaining headroom. The mandatory background
// (priority 0) runs last and absorbs whatever is left, so the assigned
// fractions always close to exactly 1.
type Compositor struct {
	grid      Grid
	order     []*Structure
	occupancy []*Volume
}

// NewCompositor validates the structure list and rasterizes every geometry
// once; occupancy does not depend on wavelength.
func NewCompositor(g Grid, structures []*Structure) (*Compositor, error) {
	if len(structures) == 0 {
		// Degenerate but legal: composited grids stay unfilled.
		log.Warn("compositor built with no structures")
	} else {
		backgrounds := 0
		for _, s := range structures {
			if _, ok := s.Geometry.(Background); ok {
				backgrounds++
			}
		}
		if backgrounds != 1 {
			return nil, fmt.Errorf("%w: exactly one background structure required, got %d", ErrConfiguration, backgrounds)
		}
	}
	order := append([]*Structure(nil), structures...)
	sort.SliceStable(order, func(i, j int) bool { return order[i].Priority > order[j].Priority })
	c := &Compositor{
		grid:      g,
		order:     order,
		occupancy: make([]*Volume, len(order)),
	}
	for i, s := range order {
		c.occupancy[i] = s.Geometry.Rasterize(g, s.PartialVolume)
		log.Debug("rasterized structure",
			zap.String("structure", s.Name),
			zap.Int("priority", s.Priority))
	}
	return c, nil
}

// Structures returns the compositing order, highest priority first.
func (c *Compositor) Structures() []*Structure {
	return append([]*Structure(nil), c.order...)
}

// Composite produces the optical property volumes for one wavelength.
// Properties blend linearly by assigned fraction; the segmentation label
// goes to the structure that added the largest fraction, later-processed
// structures winning ties.
func (c *Compositor) Composite(wavelengthNM Real) (*PropertyVolumes, error) {
	pv := NewPropertyVolumes(c.grid, wavelengthNM)
	n := c.grid.Voxels()
	total := make([]Real, n)
	maxAdded := make([]Real, n)
	oxySum := make([]Real, n)
	oxyWeight := make([]Real, n)

	for si, s := range c.order {
		props, err := s.Composition.PropertiesForWavelength(wavelengthNM)
		if err != nil {
			return nil, fmt.Errorf("structure %q: %w", s.Name, err)
		}
		occ := c.occupancy[si].Buf
		for v := range occ {
			if occ[v] <= 0 || total[v] >= 1 {
				continue
			}
			added := occ[v]
			if headroom := 1 - total[v]; added > headroom {
				added = headroom
			}
			total[v] += added
			pv.Mua.Buf[v] += added * props.Mua
			pv.Mus.Buf[v] += added * props.Mus
			pv.Anisotropy.Buf[v] += added * props.Anisotropy
			if props.Oxygenation != nil {
				oxySum[v] += added * *props.Oxygenation
				oxyWeight[v] += added
			}
			if added >= maxAdded[v] {
				maxAdded[v] = added
				pv.Segmentation.Buf[v] = s.Composition.Class
			}
		}
	}

	for v := 0; v < n; v++ {
		if oxyWeight[v] > 0 {
			pv.Oxygenation.Buf[v] = oxySum[v] / oxyWeight[v]
		}
	}
	log.Debug("composited wavelength", zap.Float64("wavelength_nm", wavelengthNM))
	return pv, nil
}
