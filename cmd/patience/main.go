// Command patience plays solitaire card games in the terminal.
package main

import (
	"os"

	"github.com/roach88/patience/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
