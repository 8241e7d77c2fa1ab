package phantom

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Distribution names a sampling distribution for a Randomizer.
type Distribution string

const (
	DistributionUniform Distribution = "uniform"
	DistributionNormal  Distribution = "normal"
)

// Randomizer draws scalar parameter values and spatially correlated noise
// volumes. Correlation comes from Gaussian-blurring white noise and
// rescaling it back to the distribution's mean and spread, so blurred
// volumes keep the same statistics as unblurred ones.
type Randomizer struct {
	dist       Distribution
	constant   bool
	targetMean Real
	targetStd  Real
	uniform    distuv.Uniform
	normal     distuv.Normal
}

// NewRandomizer builds a randomizer over the range [min, max]. For normal,
// the range maps to mean (min+max)/2 and sigma (max-min)/2. Unknown
// distribution names fail rather than fall back to a default.
func NewRandomizer(dist Distribution, min, max Real, seed uint64) (*Randomizer, error) {
	switch dist {
	case DistributionUniform:
		return NewUniformRandomizer(min, max, seed)
	case DistributionNormal:
		if !isFinite(min) || !isFinite(max) || min > max {
			return nil, fmt.Errorf("%w: normal range [%g, %g] is invalid", ErrConfiguration, min, max)
		}
		return NewNormalRandomizer((min+max)/2, (max-min)/2, seed)
	default:
		return nil, fmt.Errorf("%w: unknown distribution %q", ErrConfiguration, dist)
	}
}

// NewUniformRandomizer samples uniformly from [min, max). A degenerate
// range (min == max) is not an error: it yields that value on every draw.
func NewUniformRandomizer(min, max Real, seed uint64) (*Randomizer, error) {
	if !isFinite(min) || !isFinite(max) || min > max {
		return nil, fmt.Errorf("%w: uniform bounds [%g, %g) are invalid", ErrConfiguration, min, max)
	}
	r := &Randomizer{
		dist:       DistributionUniform,
		targetMean: (min + max) / 2,
		targetStd:  (max - min) / 2,
	}
	if min == max {
		r.constant = true
		return r, nil
	}
	r.uniform = distuv.Uniform{
		Min: min,
		Max: max,
		Src: rand.NewSource(seed),
	}
	return r, nil
}

// NewNormalRandomizer samples from a normal distribution. A zero standard
// deviation is not an error: it yields the mean on every draw.
func NewNormalRandomizer(mean, std Real, seed uint64) (*Randomizer, error) {
	if !isFinite(mean) || !isFinite(std) || std < 0 {
		return nil, fmt.Errorf("%w: normal parameters mean=%g std=%g are invalid", ErrConfiguration, mean, std)
	}
	r := &Randomizer{
		dist:       DistributionNormal,
		targetMean: mean,
		targetStd:  std,
	}
	if std == 0 {
		r.constant = true
		return r, nil
	}
	r.normal = distuv.Normal{
		Mu:    mean,
		Sigma: std,
		Src:   rand.NewSource(seed),
	}
	return r, nil
}

// Sample draws one value.
func (r *Randomizer) Sample() Real {
	switch {
	case r.constant:
		return r.targetMean
	case r.dist == DistributionUniform:
		return r.uniform.Rand()
	}
	return r.normal.Rand()
}

// SampleVolume fills a volume on the given grid with noise. A positive blur
// sigma, in voxels, smooths the field with a separable Gaussian and then
// rescales it so the blurred field keeps the distribution's mean and spread.
func (r *Randomizer) SampleVolume(g Grid, blurSigmaVoxels Real) (*Volume, error) {
	if !isFinite(blurSigmaVoxels) || blurSigmaVoxels < 0 {
		return nil, fmt.Errorf("%w: blur sigma %g must be >= 0", ErrConfiguration, blurSigmaVoxels)
	}
	v := NewVolume(g)
	for i := range v.Buf {
		v.Buf[i] = r.Sample()
	}
	if blurSigmaVoxels == 0 || g.Voxels() < 2 {
		return v, nil
	}
	kernel := gaussianKernel(blurSigmaVoxels)
	blurAxis(v, kernel, 0)
	blurAxis(v, kernel, 1)
	blurAxis(v, kernel, 2)
	mean, std := stat.MeanStdDev(v.Buf, nil)
	if std > 0 {
		floats.AddConst(-mean, v.Buf)
		floats.Scale(r.targetStd/std, v.Buf)
		floats.AddConst(r.targetMean, v.Buf)
	}
	return v, nil
}

func gaussianKernel(sigma Real) []Real {
	radius := int(math.Ceil(3 * sigma))
	if radius < 1 {
		radius = 1
	}
	k := make([]Real, 2*radius+1)
	var sum Real
	for i := range k {
		x := Real(i - radius)
		k[i] = math.Exp(-x * x / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// blurAxis convolves the volume with the kernel along one axis using
// reflected boundaries.
func blurAxis(v *Volume, kernel []Real, axis int) {
	radius := len(kernel) / 2
	n := [3]int{v.Nx, v.Ny, v.Nz}
	length := n[axis]
	line := make([]Real, length)
	for a := 0; a < dimOther(n, axis, 0); a++ {
		for b := 0; b < dimOther(n, axis, 1); b++ {
			for t := 0; t < length; t++ {
				line[t] = v.Buf[axisIdx(v, axis, a, b, t)]
			}
			for t := 0; t < length; t++ {
				var acc Real
				for o := -radius; o <= radius; o++ {
					acc += kernel[o+radius] * line[reflect(t+o, length)]
				}
				v.Buf[axisIdx(v, axis, a, b, t)] = acc
			}
		}
	}
}

func dimOther(n [3]int, axis, which int) int {
	switch axis {
	case 0:
		return []int{n[1], n[2]}[which]
	case 1:
		return []int{n[0], n[2]}[which]
	default:
		return []int{n[0], n[1]}[which]
	}
}

func axisIdx(v *Volume, axis, a, b, t int) int {
	switch axis {
	case 0:
		return v.Idx(t, a, b)
	case 1:
		return v.Idx(a, t, b)
	default:
		return v.Idx(a, b, t)
	}
}

func reflect(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * (n - 1)
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i
	}
	return i
}
