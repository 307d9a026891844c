package cli

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pixveil/pixveil/npz"
	"github.com/pixveil/pixveil/transform"
)

func InfoCommand() {
	infoFlags := flag.NewFlagSet("info", flag.ExitOnError)

	infoFlags.Usage = func() {
		fmt.Printf("Usage: %s info <input.npz>\n\n", os.Args[0])
		fmt.Println("Show the metadata stored in a package")
		fmt.Println("\nExamples:")
		fmt.Printf("  %s info photo.npz\n", os.Args[0])
	}

	if err := infoFlags.Parse(os.Args[2:]); err != nil {
		log.Printf("Failed to parse info flags: %v", err)
		osExit(1)
	}

	if len(infoFlags.Args()) < 1 {
		infoFlags.Usage()
		osExit(1)
		return
	}

	ShowInfo(infoFlags.Arg(0))
}

// ShowInfo is swappable for tests.
var ShowInfo = showInfoImpl

func showInfoImpl(input string) {
	pkg, err := npz.ReadFile(input)
	if err != nil {
		log.Println(err)
		osExit(1)
		return
	}

	// The codec passes any method name through; flag the ones the
	// catalog cannot reverse.
	known := ""
	if _, err := transform.ParseMethod(pkg.Method); err != nil {
		known = " (not in the transform catalog)"
	}

	fmt.Printf("Method: %s%s\n", pkg.Method, known)
	fmt.Printf("Seed:   %d (0x%08x)\n", pkg.Seed, pkg.Seed)
	fmt.Printf("Size:   %dx%d\n", pkg.Data.W, pkg.Data.H)
}
