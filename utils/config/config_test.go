package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvbv/abstreet/utils/config"
)

func TestLoadParsesYAMLScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	yaml := `
map_input:
  osm:
    file: city.osm.pbf
  output: city.map
sim_input:
  map: city.map
  trips: trips.json
control:
  seed: 42
  step:
    total_seconds: 3600
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	c, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "city.osm.pbf", c.MapInput.OSM.File)
	assert.Equal(t, "city.map", c.SimInput.Map)
	assert.Equal(t, uint64(42), c.Control.Seed)
	assert.InDelta(t, 3600.0, c.Control.Step.TotalSeconds, 1e-9)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := config.Load("/nonexistent/scenario.yaml")
	assert.Error(t, err)
}

func TestNewRuntimeConfigDefaultsTotalSeconds(t *testing.T) {
	rc := config.NewRuntimeConfig(config.Config{})
	assert.InDelta(t, 24*3600.0, rc.Control.Step.TotalSeconds, 1e-9)
}

func TestNewRuntimeConfigPreservesExplicitTotalSeconds(t *testing.T) {
	c := config.Config{Control: config.Control{Step: config.ControlStep{TotalSeconds: 120}}}
	rc := config.NewRuntimeConfig(c)
	assert.InDelta(t, 120.0, rc.Control.Step.TotalSeconds, 1e-9)
}
