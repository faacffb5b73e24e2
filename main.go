// main is the entry point for the scout CLI.
package main

import (
	"github.com/celerio/scout/cmd"
	"github.com/celerio/scout/internal/contract"
)

func main() {
	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	if shutdownErr := cmd.Shutdown(); shutdownErr != nil {
		contract.LogWarn("Failed to shut down cleanly", shutdownErr)
	}
	if err != nil {
		contract.LogFatal("Error starting CLI", err)
	}
}
