package main

import (
	"github.com/cobralans/cobra-lans/cmd/cobra-lans/cmd"
)

func main() {
	cmd.Execute()
}
