package main

import (
	"os"

	"nasaudit/cmd/nasaudit/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
