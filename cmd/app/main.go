package main

import (
	"os"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		os.Exit(1)
	}
}
