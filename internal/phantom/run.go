package phantom

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Result bundles the composited volumes of one run, one entry per
// requested wavelength in settings order. The acoustic maps are shared
// across wavelengths because they only depend on segmentation.
type Result struct {
	Settings *Settings
	Volumes  []*PropertyVolumes
}

// Run builds the phantom described by the settings: resolve structures,
// rasterize, composite every wavelength and, when requested, derive the
// acoustic maps.
func Run(s *Settings) (*Result, error) {
	start := time.Now()
	comp, err := s.BuildCompositor()
	if err != nil {
		return nil, err
	}
	res := &Result{
		Settings: s,
		Volumes:  make([]*PropertyVolumes, len(s.WavelengthsNM)),
	}
	for i, w := range s.WavelengthsNM {
		pv, err := comp.Composite(w)
		if err != nil {
			return nil, fmt.Errorf("wavelength %g nm: %w", w, err)
		}
		if s.AcousticMaps {
			if i == 0 {
				if err := ApplyAcousticProperties(pv, s.TemperatureCelsius); err != nil {
					return nil, err
				}
			} else {
				first := res.Volumes[0]
				pv.Density = first.Density
				pv.SoundSpeed = first.SoundSpeed
				pv.AlphaCoeff = first.AlphaCoeff
				pv.Gruneisen = first.Gruneisen
			}
		}
		res.Volumes[i] = pv
	}
	log.Info("phantom built",
		zap.Int("wavelengths", len(res.Volumes)),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

// Dump writes every volume as raw little-endian arrays into dir, one file
// per property and wavelength. Optical values are float64 in X-major
// order; segmentation labels are int32.
func (r *Result) Dump(dir string) error {
	if len(r.Volumes) == 0 {
		return fmt.Errorf("%w: result holds no volumes", ErrConfiguration)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, pv := range r.Volumes {
		w := pv.WavelengthNM
		if err := dumpReals(filepath.Join(dir, fmt.Sprintf("mua_%gnm.raw", w)), pv.Mua.Buf); err != nil {
			return err
		}
		if err := dumpReals(filepath.Join(dir, fmt.Sprintf("mus_%gnm.raw", w)), pv.Mus.Buf); err != nil {
			return err
		}
		if err := dumpReals(filepath.Join(dir, fmt.Sprintf("anisotropy_%gnm.raw", w)), pv.Anisotropy.Buf); err != nil {
			return err
		}
		if err := dumpReals(filepath.Join(dir, fmt.Sprintf("oxygenation_%gnm.raw", w)), pv.Oxygenation.Buf); err != nil {
			return err
		}
	}
	first := r.Volumes[0]
	labels := make([]int32, len(first.Segmentation.Buf))
	for i, c := range first.Segmentation.Buf {
		labels[i] = int32(c)
	}
	if err := dumpBinary(filepath.Join(dir, "segmentation.raw"), labels); err != nil {
		return err
	}
	if first.Density != nil {
		if err := dumpReals(filepath.Join(dir, "density.raw"), first.Density.Buf); err != nil {
			return err
		}
		if err := dumpReals(filepath.Join(dir, "sound_speed.raw"), first.SoundSpeed.Buf); err != nil {
			return err
		}
		if err := dumpReals(filepath.Join(dir, "alpha_coeff.raw"), first.AlphaCoeff.Buf); err != nil {
			return err
		}
		if err := dumpReals(filepath.Join(dir, "gruneisen.raw"), first.Gruneisen.Buf); err != nil {
			return err
		}
	}
	log.Info("dumped volumes", zap.String("dir", dir))
	return nil
}

func dumpReals(path string, buf []Real) error {
	return dumpBinary(path, buf)
}

func dumpBinary(path string, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if err := binary.Write(bw, binary.LittleEndian, data); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}
