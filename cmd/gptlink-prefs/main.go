// gptlink-prefs inspects and edits the persisted preferences of gptlink
// without starting the desktop shell.
package main

import (
	"os"

	"gptlink/cmd/gptlink-prefs/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
