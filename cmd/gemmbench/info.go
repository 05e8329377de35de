package main

import (
	"fmt"

	"github.com/gpulab/gemmbench/internal/gpu"
	"github.com/urfave/cli/v2"
)

func infoCommand(st *appState) *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Print the active compute backend and device information",
		Action: func(c *cli.Context) error {
			mgr, err := gpu.NewManager(st.log.Named("info"))
			if err != nil {
				return err
			}
			defer mgr.Cleanup()

			info := mgr.GetDeviceInfo()
			fmt.Printf("Backend:            %s\n", mgr.GetBackendType())
			fmt.Printf("Device:             %s\n", info.Name)
			fmt.Printf("Total memory:       %d MB\n", info.TotalMemory/(1024*1024))
			fmt.Printf("Available memory:   %d MB\n", info.AvailableMemory/(1024*1024))
			fmt.Printf("Compute capability: %s\n", info.ComputeCapability)
			fmt.Printf("Driver version:     %s\n", info.DriverVersion)
			if info.CUDAVersion != "" {
				fmt.Printf("CUDA version:       %s\n", info.CUDAVersion)
			}
			return nil
		},
	}
}
