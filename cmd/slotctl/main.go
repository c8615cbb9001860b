package main

import (
	"os"

	"github.com/m04kA/SMC-VenueSlots/cmd/slotctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
