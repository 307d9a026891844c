package config_test

import (
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"

	"github.com/pixveil/pixveil/config"
)

func TestConfig(t *testing.T) {
	const configContent = `
method = "invert"
output_dir = "../out"
preview_max = 512
`

	c := config.Defaults()
	if _, err := toml.Decode(configContent, &c); err != nil {
		t.Error(err)
	}

	// Root
	assert.Equal(t, "invert", c.Method)
	assert.Equal(t, "../out", c.OutputDir)
	assert.Equal(t, 512, c.PreviewMax)
	assert.Nil(t, c.ValidateFields())
}

func TestDefaults(t *testing.T) {
	c := config.Defaults()

	assert.Equal(t, "xor", c.Method)
	assert.Equal(t, 360, c.PreviewMax)
	assert.Nil(t, c.ValidateFields())
}

func TestValidation(t *testing.T) {
	const configContent = `
method = "rot13"
`

	c := config.Defaults()
	if _, err := toml.Decode(configContent, &c); err != nil {
		t.Error(err)
	}

	err := c.ValidateFields()
	assert.NotNil(t, err)
}
