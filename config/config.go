package config

import (
	"log"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/asaskevich/govalidator"
)

func init() {
	govalidator.SetFieldsRequiredByDefault(false)
}

var (
	DefaultLocation string = "./pixveil.conf" // Default location of the config file
	Settings        Config = Defaults()       // Initialized once inside Read; Settings are stored in memory.
)

// Config is the root of the config
type Config struct {
	// Method is the default transform applied when the CLI is not given
	// an explicit -method flag. Must be a catalog wire name.
	Method string `toml:"method" valid:"in(xor|invert)"`

	// OutputDir is prepended to relative output paths. Empty means the
	// current directory.
	OutputDir string `toml:"output_dir" valid:"-"`

	// PreviewMax caps the longer side of generated preview images.
	PreviewMax int `toml:"preview_max" valid:"range(1|8192)"`
}

// Defaults returns the settings used when no config file is present.
func Defaults() Config {
	return Config{
		Method:     "xor",
		PreviewMax: 360,
	}
}

// ValidateFields validates all the fields of the config
func (c Config) ValidateFields() error {
	_, err := govalidator.ValidateStruct(c)
	if err != nil {
		return err
	}
	return nil
}

func Read(configfile string) {

	_, err := os.Stat(configfile)
	if err != nil {
		log.Fatal("Config file is missing: ", configfile)
	}

	c := Defaults()
	if _, err := toml.DecodeFile(configfile, &c); err != nil {
		log.Fatal("Config could not be parsed: ", err)
	}

	if err := c.ValidateFields(); err != nil {
		log.Fatal("Config is not valid: ", err)
	}

	Settings = c
}
