// Command habits runs the habit tracker API and its maintenance commands.
package main

import (
	"os"

	"github.com/mesh-intelligence/habits/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
