// Package main provides the affine command-line interface.
package main

import "os"

const version = "v0.2.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
