package main

import (
	"github.com/cobralans/cobra-lans/cmd/cobra-lans-scanner/cmd"
)

func main() {
	cmd.Execute()
}
