// main is the entry point for the stratus CLI.
package main

import (
	"github.com/stratus-wx/stratus/cmd"
	"github.com/stratus-wx/stratus/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("stratus failed", err)
	}
}
