package phantom

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const minimalSettings = `{
	"dim_x_mm": 10,
	"dim_y_mm": 10,
	"dim_z_mm": 10,
	"spacing_mm": 1,
	"structures": [
		{"name": "background", "shape": "background", "priority": 0, "tissue": "water"}
	]
}`

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := LoadSettings(writeSettings(t, minimalSettings))
	require.NoError(t, err)
	assert.Equal(t, []Real{DefaultWavelengthNM}, s.WavelengthsNM)
	assert.Equal(t, BodyTemperatureCelsius, s.TemperatureCelsius)
	assert.Equal(t, ".", s.OutputDir)
}

func TestLoadSettingsMissingFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoadSettingsInvalidJSON(t *testing.T) {
	_, err := LoadSettings(writeSettings(t, "{not json"))
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestLoadSettingsNoStructures(t *testing.T) {
	_, err := LoadSettings(writeSettings(t, `{"dim_x_mm": 5, "dim_y_mm": 5, "dim_z_mm": 5}`))
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestSettingsWithSpacing(t *testing.T) {
	s, err := LoadSettings(writeSettings(t, minimalSettings))
	require.NoError(t, err)
	fine := s.WithSpacing(0.5)
	assert.Equal(t, Real(1), s.SpacingMM)
	assert.Equal(t, Real(0.5), fine.SpacingMM)

	g, err := s.Grid()
	require.NoError(t, err)
	fg, err := fine.Grid()
	require.NoError(t, err)
	assert.Equal(t, 10, g.Nx)
	assert.Equal(t, 20, fg.Nx)

	// Mutating the copy's slices must not touch the original.
	fine.WavelengthsNM[0] = 650
	assert.Equal(t, DefaultWavelengthNM, s.WavelengthsNM[0])
}

func TestSettingsBuildCompositorEndToEnd(t *testing.T) {
	s, err := LoadSettings(writeSettings(t, `{
		"dim_x_mm": 10, "dim_y_mm": 10, "dim_z_mm": 10,
		"spacing_mm": 1,
		"wavelengths_nm": [700, 800],
		"seed": 7,
		"structures": [
			{"name": "background", "shape": "background", "priority": 0, "tissue": "water"},
			{"name": "vessel", "shape": "tube", "priority": 5, "tissue": "blood",
			 "partial_volume": true,
			 "start_mm": [5, 0, 5], "end_mm": [5, 10, 5],
			 "radius_mm": {"value": 2},
			 "oxygenation": {"distribution": "uniform", "min": 0.6, "max": 0.9}}
		]
	}`))
	require.NoError(t, err)
	comp, err := s.BuildCompositor()
	require.NoError(t, err)
	pv, err := comp.Composite(800)
	require.NoError(t, err)
	oxy := pv.Oxygenation.At(4, 4, 4)
	assert.GreaterOrEqual(t, oxy, 0.6)
	assert.Less(t, oxy, 0.9)
	assert.Equal(t, ClassBlood, pv.Segmentation.At(4, 4, 4))
}

func TestParamSpecFixedAndDegenerate(t *testing.T) {
	v := Real(3.5)
	got, err := ParamSpec{Value: &v}.Resolve(1)
	require.NoError(t, err)
	assert.Equal(t, 3.5, got)

	// min == max is "not actually randomized", not an error, for either
	// distribution.
	got, err = ParamSpec{Distribution: DistributionUniform, Min: 2, Max: 2}.Resolve(1)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)

	got, err = ParamSpec{Distribution: DistributionNormal, Min: 3, Max: 3}.Resolve(1)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)

	_, err = ParamSpec{Value: &v, Distribution: DistributionUniform}.Resolve(1)
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = ParamSpec{Distribution: "triangular"}.Resolve(1)
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestRunProducesAllWavelengths(t *testing.T) {
	s, err := LoadSettings(writeSettings(t, `{
		"dim_x_mm": 5, "dim_y_mm": 5, "dim_z_mm": 5,
		"spacing_mm": 1,
		"wavelengths_nm": [700, 800, 900],
		"acoustic_maps": true,
		"structures": [
			{"name": "background", "shape": "background", "priority": 0, "tissue": "water"}
		]
	}`))
	require.NoError(t, err)
	res, err := Run(s)
	require.NoError(t, err)
	require.Len(t, res.Volumes, 3)
	for _, pv := range res.Volumes {
		require.NotNil(t, pv.Density)
		require.NotNil(t, pv.Gruneisen)
	}
	// Acoustic maps are wavelength-invariant and shared.
	assert.Same(t, res.Volumes[0].Density, res.Volumes[1].Density)

	dir := t.TempDir()
	require.NoError(t, res.Dump(dir))
	for _, name := range []string{"mua_700nm.raw", "mus_800nm.raw", "segmentation.raw", "density.raw"} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
	}
}
