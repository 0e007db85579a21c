package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit/core/config"
)

type cachedConfig struct {
	Name  string `env:"ROUTEKIT_TEST_CACHED_NAME" envDefault:"default"`
	Limit int    `env:"ROUTEKIT_TEST_CACHED_LIMIT" envDefault:"10"`
}

type requiredConfig struct {
	Secret string `env:"ROUTEKIT_TEST_REQUIRED_SECRET,required"`
}

type otherConfig struct {
	Flag bool `env:"ROUTEKIT_TEST_OTHER_FLAG" envDefault:"true"`
}

func TestLoad(t *testing.T) {
	t.Setenv("ROUTEKIT_TEST_CACHED_NAME", "first")

	var first cachedConfig
	require.NoError(t, config.Load(&first))
	assert.Equal(t, "first", first.Name)
	assert.Equal(t, 10, first.Limit)

	t.Setenv("ROUTEKIT_TEST_CACHED_NAME", "second")

	var second cachedConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first", second.Name, "value must come from cache")

	var other otherConfig
	config.MustLoad(&other)
	assert.True(t, other.Flag)
}

func TestLoadErrors(t *testing.T) {
	var missing requiredConfig
	require.Error(t, config.Load(&missing))
	assert.Panics(t, func() { config.MustLoad(&requiredConfig{}) })

	var notStruct string
	require.ErrorIs(t, config.Load(&notStruct), config.ErrInvalidTarget)

	var nilTarget *cachedConfig
	require.ErrorIs(t, config.Load(nilTarget), config.ErrInvalidTarget)
}
