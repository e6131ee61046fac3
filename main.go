package main

import (
	"log"

	"vidarc/cmd"
)

func main() {
	cmd.Execute()
	// If Execute() had a problem, Cobra would have called os.Exit.
	// Reaching here means the command completed (or the server started cleanly).
	log.Println("Application command execution finished or server started.")
}
