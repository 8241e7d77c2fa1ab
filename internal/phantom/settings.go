package phantom

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Settings is the JSON-facing description of one phantom run. Loaded
// settings are treated as immutable; derive variants through WithSpacing.
type Settings struct {
	DimXMM             Real              `json:"dim_x_mm"`
	DimYMM             Real              `json:"dim_y_mm"`
	DimZMM             Real              `json:"dim_z_mm"`
	SpacingMM          Real              `json:"spacing_mm"`
	WavelengthsNM      []Real            `json:"wavelengths_nm"`
	Seed               uint64            `json:"seed"`
	TemperatureCelsius Real              `json:"temperature_celsius"`
	AcousticMaps       bool              `json:"acoustic_maps"`
	OutputDir          string            `json:"output_dir"`
	Structures         []StructureConfig `json:"structures"`
}

// Defaults applied to fields the JSON leaves at zero.
const (
	DefaultSpacingMM    Real = 0.1
	DefaultWavelengthNM Real = 800
)

// LoadSettings reads a settings file, fills defaults and validates.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: parse settings %s: %v", ErrConfiguration, path, err)
	}
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	log.Debug("loaded settings",
		zap.String("path", path),
		zap.Int("structures", len(s.Structures)),
		zap.Int("wavelengths", len(s.WavelengthsNM)))
	return &s, nil
}

func (s *Settings) applyDefaults() {
	if s.SpacingMM == 0 {
		s.SpacingMM = DefaultSpacingMM
	}
	if len(s.WavelengthsNM) == 0 {
		s.WavelengthsNM = []Real{DefaultWavelengthNM}
	}
	if s.TemperatureCelsius == 0 {
		s.TemperatureCelsius = BodyTemperatureCelsius
	}
	if s.OutputDir == "" {
		s.OutputDir = "."
	}
}

// Validate checks the settings are buildable.
func (s *Settings) Validate() error {
	if _, err := s.Grid(); err != nil {
		return err
	}
	for _, w := range s.WavelengthsNM {
		if !isFinite(w) || w <= 0 {
			return fmt.Errorf("%w: wavelength %g nm must be > 0", ErrConfiguration, w)
		}
	}
	if len(s.Structures) == 0 {
		return fmt.Errorf("%w: settings define no structures", ErrConfiguration)
	}
	return nil
}

// Grid derives the voxel grid from the physical dimensions.
func (s *Settings) Grid() (Grid, error) {
	return NewGrid(s.DimXMM, s.DimYMM, s.DimZMM, s.SpacingMM)
}

// WithSpacing returns a deep copy at a different resolution. The physical
// dimensions and structures stay the same, so the same phantom can be
// produced coarse for acoustics and fine for optics.
func (s *Settings) WithSpacing(spacingMM Real) *Settings {
	out := *s
	out.SpacingMM = spacingMM
	out.WavelengthsNM = append([]Real(nil), s.WavelengthsNM...)
	out.Structures = append([]StructureConfig(nil), s.Structures...)
	return &out
}

// BuildCompositor resolves all structures and rasterizes them onto the
// settings' grid.
func (s *Settings) BuildCompositor() (*Compositor, error) {
	g, err := s.Grid()
	if err != nil {
		return nil, err
	}
	structures := make([]*Structure, len(s.Structures))
	for i := range s.Structures {
		st, err := s.Structures[i].Build(s.Seed + uint64(i)*100)
		if err != nil {
			return nil, err
		}
		structures[i] = st
	}
	return NewCompositor(g, structures)
}
