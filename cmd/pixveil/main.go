package main

import (
	"os"

	"github.com/pixveil/pixveil/cli"
)

func main() {
	if len(os.Args) < 2 {
		cli.Usage()
		return
	}

	switch os.Args[1] {
	case "encrypt":
		cli.EncryptCommand()
	case "decrypt":
		cli.DecryptCommand()
	case "info":
		cli.InfoCommand()
	case "preview":
		cli.PreviewCommand()
	default:
		cli.Usage()
	}
}
