package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/affine-ml/affine/backend/webgpu"
)

// runDevices reports what `--device` values this binary can honor. Exit
// status stays zero even without a GPU: an all-CPU node is a valid answer,
// not an error.
func runDevices(cmd *cobra.Command, args []string) error {
	fmt.Println("cpu: available")

	if !webgpu.IsAvailable() {
		fmt.Println("gpu: unavailable")
		return nil
	}
	adapters, err := webgpu.ListAdapters()
	if err != nil {
		fmt.Printf("gpu: unavailable (%v)\n", err)
		return nil
	}
	for i, adapter := range adapters {
		fmt.Printf("gpu[%d]: %s (%s)\n", i, adapter.Name, adapter.Vendor)
	}
	return nil
}
