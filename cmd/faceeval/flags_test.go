package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/faceeval/faceeval"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func newFlagSet(t *testing.T, args ...string) (*flag.FlagSet, *thresholdFlags) {
	t.Helper()

	fs := flag.NewFlagSet("faceeval", flag.ContinueOnError)
	tf := registerThresholds(fs, faceeval.DefaultConfig())
	assert.NoError(t, fs.Parse(args))
	return fs, tf
}

func writeConfig(t *testing.T, data string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "faceeval.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func TestFlags_Defaults(t *testing.T) {
	fs, tf := newFlagSet(t)

	cfg, err := resolveConfig("", fs, tf)
	assert.NoError(t, err)
	assert.Equal(t, faceeval.DefaultConfig(), cfg)
}

func TestFlags_ExplicitFlagsOverrideTheFile(t *testing.T) {
	assert := assert.New(t)

	path := writeConfig(t, "dark_threshold: 0.9\nbright_threshold: 0.6\n")
	fs, tf := newFlagSet(t, "-dark", "0.5", "-window", "20")

	cfg, err := resolveConfig(path, fs, tf)
	assert.NoError(err)
	assert.Equal(0.5, cfg.DarkThreshold)
	assert.Equal(0.6, cfg.BrightThreshold)
	assert.Equal(20, cfg.OcclusionWindow)
	assert.Equal(faceeval.DefaultConfig().VerticalRadius, cfg.VerticalRadius)
}

func TestFlags_FileValueFixedByFlag(t *testing.T) {
	path := writeConfig(t, "dark_threshold: 2\n")
	fs, tf := newFlagSet(t, "-dark", "0.4")

	cfg, err := resolveConfig(path, fs, tf)
	assert.NoError(t, err)
	assert.Equal(t, 0.4, cfg.DarkThreshold)
}

func TestFlags_InvalidValuesAreRejected(t *testing.T) {
	fs, tf := newFlagSet(t, "-window", "1")
	_, err := resolveConfig("", fs, tf)
	assert.True(t, errors.Is(err, faceeval.ErrInvalidConfig))

	fs, tf = newFlagSet(t, "-small", "0.95")
	_, err = resolveConfig("", fs, tf)
	assert.True(t, errors.Is(err, faceeval.ErrInvalidConfig))
}

func TestFlags_MissingConfigFile(t *testing.T) {
	fs, tf := newFlagSet(t)
	_, err := resolveConfig(filepath.Join(t.TempDir(), "missing.yaml"), fs, tf)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, faceeval.ErrInvalidConfig))
}
