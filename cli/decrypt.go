package cli

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pixveil/pixveil"
	"github.com/pixveil/pixveil/imageio"
	"github.com/pixveil/pixveil/transform"
)

var MethodOverride string

func DecryptCommand() {
	decryptFlags := flag.NewFlagSet("decrypt", flag.ExitOnError)

	decryptFlags.StringVar(&MethodOverride, "method", "", "Override the method stored in the package")
	decryptFlags.StringVar(&ConfigPath, "config", "", "Read settings from this TOML file")

	decryptFlags.Usage = func() {
		fmt.Printf("Usage: %s decrypt [options] <input.npz> <output image>\n\n", os.Args[0])
		fmt.Println("Reverse a package back into the original image")
		fmt.Println("\nOptions:")
		decryptFlags.PrintDefaults()
		fmt.Println("\nExamples:")
		fmt.Printf("  %s decrypt photo.npz restored.png\n", os.Args[0])
		fmt.Printf("  %s decrypt -method invert photo.npz restored.png\n", os.Args[0])
	}

	if err := decryptFlags.Parse(os.Args[2:]); err != nil {
		log.Printf("Failed to parse decrypt flags: %v", err)
		osExit(1)
	}

	if len(decryptFlags.Args()) < 2 {
		decryptFlags.Usage()
		osExit(1)
		return
	}

	loadConfig()
	DecryptPackage(decryptFlags.Arg(0), decryptFlags.Arg(1))
}

// DecryptPackage is swappable for tests.
var DecryptPackage = decryptPackageImpl

func decryptPackageImpl(input, output string) {
	s := pixveil.NewSession()
	if err := s.LoadPackage(input); err != nil {
		log.Println(err)
		osExit(1)
		return
	}

	if MethodOverride != "" {
		m, err := transform.ParseMethod(MethodOverride)
		if err != nil {
			log.Println(err)
			osExit(1)
			return
		}
		s.Method = m
	}

	out, err := s.Decrypt()
	if err != nil {
		log.Println(err)
		osExit(1)
		return
	}

	if err := imageio.Save(outPath(output), out); err != nil {
		log.Println(err)
		osExit(1)
		return
	}
	log.Printf("Restored %s (method %s, seed %d)", outPath(output), s.Method, s.Seed)
}
