// Package cli implements the pixveil command line interface: encrypting
// images into packages, decrypting packages back into images, and
// inspecting package metadata.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pixveil/pixveil/config"
)

// osExit is swapped out by tests that exercise exit paths.
var osExit = os.Exit

func Usage() {
	fmt.Printf("Usage: %s <command> [options] <args>\n\n", os.Args[0])
	fmt.Println("Commands:")
	fmt.Println("  encrypt  Transform an image and write a reversible package")
	fmt.Println("  decrypt  Reverse a package back into the original image")
	fmt.Println("  info     Show the metadata stored in a package")
	fmt.Println("  preview  Write a scaled preview of a package's pixel data")
	fmt.Println("")
	fmt.Printf("Use '%s <command> -h' for command-specific help\n", os.Args[0])
	osExit(1)
}

// ConfigPath points at an optional TOML settings file shared by all
// commands; when set, it is read before the command runs.
var ConfigPath string

func loadConfig() {
	if ConfigPath != "" {
		config.Read(ConfigPath)
	}
}

// outPath resolves an output path against the configured output directory.
// Absolute paths are returned unchanged.
func outPath(path string) string {
	if config.Settings.OutputDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(config.Settings.OutputDir, path)
}
