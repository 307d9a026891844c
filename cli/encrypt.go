package cli

import (
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/pixveil/pixveil"
	"github.com/pixveil/pixveil/config"
	"github.com/pixveil/pixveil/transform"
)

var (
	Method, Key, ImageOut string
)

func EncryptCommand() {
	encryptFlags := flag.NewFlagSet("encrypt", flag.ExitOnError)

	encryptFlags.StringVar(&Method, "method", "", "Transform method: xor (mirror) or invert; defaults to the configured method")
	encryptFlags.StringVar(&Key, "key", "", "Password/key; prompted for without echo when omitted")
	encryptFlags.StringVar(&ImageOut, "image", "", "Also write the transformed pixels as an image to this path")
	encryptFlags.StringVar(&ConfigPath, "config", "", "Read settings from this TOML file")

	encryptFlags.Usage = func() {
		fmt.Printf("Usage: %s encrypt [options] <input image> <output.npz>\n\n", os.Args[0])
		fmt.Println("Transform an image and write a reversible package")
		fmt.Println("\nOptions:")
		encryptFlags.PrintDefaults()
		fmt.Println("\nExamples:")
		fmt.Printf("  %s encrypt -method invert -key secret photo.png photo.npz\n", os.Args[0])
		fmt.Printf("  %s encrypt -image scrambled.png photo.png photo.npz\n", os.Args[0])
	}

	if err := encryptFlags.Parse(os.Args[2:]); err != nil {
		log.Printf("Failed to parse encrypt flags: %v", err)
		osExit(1)
	}

	if len(encryptFlags.Args()) < 2 {
		encryptFlags.Usage()
		osExit(1)
		return
	}

	loadConfig()
	EncryptImage(encryptFlags.Arg(0), encryptFlags.Arg(1))
}

// EncryptImage is swappable for tests.
var EncryptImage = encryptImageImpl

func encryptImageImpl(input, output string) {
	method, err := resolveMethod(Method)
	if err != nil {
		log.Println(err)
		osExit(1)
		return
	}

	key, err := resolveKey(Key)
	if err != nil {
		log.Println(err)
		osExit(1)
		return
	}

	s := pixveil.NewSession()
	if err := s.LoadImage(input); err != nil {
		log.Println(err)
		osExit(1)
		return
	}
	if err := s.Encrypt(method, key); err != nil {
		log.Println(err)
		osExit(1)
		return
	}
	if err := s.SavePackage(outPath(output)); err != nil {
		log.Println(err)
		osExit(1)
		return
	}
	if ImageOut != "" {
		if err := s.SaveImage(outPath(ImageOut)); err != nil {
			log.Println(err)
			osExit(1)
			return
		}
	}
	log.Printf("Wrote package %s (method %s, seed %d)", outPath(output), method, s.Seed)
}

// resolveMethod applies the configured default when no -method flag was
// given, then validates the name against the catalog.
func resolveMethod(name string) (transform.Method, error) {
	if name == "" {
		name = config.Settings.Method
	}
	return transform.ParseMethod(name)
}

// resolveKey prompts on the terminal, without echo, when no -key flag was
// given. A non-terminal stdin (a pipe) is read as a single line instead.
func resolveKey(key string) (string, error) {
	if key != "" {
		return key, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		var line string
		if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
			return "", fmt.Errorf("reading key from stdin: %w", err)
		}
		return line, nil
	}
	fmt.Fprint(os.Stderr, "Key: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading key: %w", err)
	}
	return string(raw), nil
}
