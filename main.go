package main

import (
	"os"

	"github.com/KJHJason/GDrive-Downloader-CLI/cmds"
)

// Main program
func main() {
	if err := cmds.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
