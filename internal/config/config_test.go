package config

import (
	"os"
	"testing"

	"github.com/qpandalite/qsim/qc/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvAppliesDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.StateVectorMaxQubits)
	assert.Equal(t, 10, cfg.DensityOperatorMaxQubits)
	assert.Equal(t, 1024, cfg.DefaultShots)
}

func TestFromEnvHonorsOverrides(t *testing.T) {
	t.Setenv("QSIM_STATE_VECTOR_MAX_QUBITS", "20")
	t.Setenv("QSIM_DEFAULT_SHOTS", "500")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.StateVectorMaxQubits)
	assert.Equal(t, 500, cfg.DefaultShots)
}

func TestValidateRejectsOverflowingGlobalNoise(t *testing.T) {
	cfg := defaults()
	cfg.GlobalNoise = NoiseDescription{"bitflip": 0.6, "depolarizing": 0.6}
	err := cfg.Validate()
	require.Error(t, err)
}

func TestValidateRejectsOutOfRangeReadout(t *testing.T) {
	cfg := defaults()
	cfg.Readout = []ReadoutEntry{{1.5, 0.1}}
	err := cfg.Validate()
	require.Error(t, err)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/to/config.yaml")
	require.Error(t, err)
}

func TestLoadReadsYAMLFile(t *testing.T) {
	path, cleanup := testutil.TempFile(t, ".yaml")
	defer cleanup()
	require.NoError(t, os.WriteFile(path, []byte("state_vector_max_qubits: 15\ndefault_shots: 200\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.StateVectorMaxQubits)
	assert.Equal(t, 200, cfg.DefaultShots)
}

func TestToNoiseConfigTranslatesGlobalAndGateNoise(t *testing.T) {
	cfg := defaults()
	cfg.GlobalNoise = NoiseDescription{"bitflip": 0.1}
	cfg.GateNoise = map[string]NoiseDescription{"h": {"damping": 0.2}}
	cfg.Readout = []ReadoutEntry{{0.01, 0.02}}

	nc, err := cfg.ToNoiseConfig()
	require.NoError(t, err)
	assert.InDelta(t, 0.1, nc.Global["bitflip"], 1e-12)
	assert.InDelta(t, 0.2, nc.Gate["h"]["damping"], 1e-12)
	require.Len(t, nc.Readout, 1)
	assert.InDelta(t, 0.01, nc.Readout[0].PFlipWhen0, 1e-12)
	assert.InDelta(t, 0.02, nc.Readout[0].PFlipWhen1, 1e-12)
}

func TestToNoiseConfigResultValidates(t *testing.T) {
	cfg := defaults()
	cfg.GlobalNoise = NoiseDescription{"bitflip": 0.1}
	nc, err := cfg.ToNoiseConfig()
	require.NoError(t, err)
	require.NoError(t, nc.Validate(1))
}
