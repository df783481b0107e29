package main

import (
	"github.com/sultan-labs/sultan-go/cmd"
	"github.com/sultan-labs/sultan-go/exception"
)

func main() {
	defer exception.ExitOnPanic("sultan")

	cmd.Execute()
}
