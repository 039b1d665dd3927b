package main

import (
	"os"

	"github.com/lemonlabs-io/radioctl/internal/cli"
)

var Version = "dev" // Set by build process

func main() {
	if err := cli.Execute(Version); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
