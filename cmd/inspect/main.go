// Package main is the entry point for the device inspection tool.
package main

import "device-inspection/cmd/inspect/cmd"

func main() {
	cmd.Execute()
}
