package cli

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pixveil/pixveil/config"
	"github.com/pixveil/pixveil/imageio"
	"github.com/pixveil/pixveil/npz"
)

var PreviewMax int

func PreviewCommand() {
	previewFlags := flag.NewFlagSet("preview", flag.ExitOnError)

	previewFlags.IntVar(&PreviewMax, "max", 0, "Longest side of the preview in pixels; defaults to the configured value")
	previewFlags.StringVar(&ConfigPath, "config", "", "Read settings from this TOML file")

	previewFlags.Usage = func() {
		fmt.Printf("Usage: %s preview [options] <input.npz> <output image>\n\n", os.Args[0])
		fmt.Println("Write a scaled preview of a package's pixel data")
		fmt.Println("\nOptions:")
		previewFlags.PrintDefaults()
		fmt.Println("\nExamples:")
		fmt.Printf("  %s preview photo.npz thumb.png\n", os.Args[0])
		fmt.Printf("  %s preview -max 128 photo.npz thumb.png\n", os.Args[0])
	}

	if err := previewFlags.Parse(os.Args[2:]); err != nil {
		log.Printf("Failed to parse preview flags: %v", err)
		osExit(1)
	}

	if len(previewFlags.Args()) < 2 {
		previewFlags.Usage()
		osExit(1)
		return
	}

	loadConfig()
	WritePreview(previewFlags.Arg(0), previewFlags.Arg(1))
}

// WritePreview is swappable for tests.
var WritePreview = writePreviewImpl

func writePreviewImpl(input, output string) {
	maxDim := PreviewMax
	if maxDim == 0 {
		maxDim = config.Settings.PreviewMax
	}

	pkg, err := npz.ReadFile(input)
	if err != nil {
		log.Println(err)
		osExit(1)
		return
	}
	thumb, err := imageio.Preview(pkg.Data, maxDim)
	if err != nil {
		log.Println(err)
		osExit(1)
		return
	}
	if err := imageio.Save(outPath(output), thumb); err != nil {
		log.Println(err)
		osExit(1)
		return
	}
	log.Printf("Wrote preview %s (%dx%d)", outPath(output), thumb.W, thumb.H)
}
