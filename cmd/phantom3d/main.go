package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"go.uber.org/zap"

	"github.com/phantom3d/phantom3d/internal/phantom"
)

func main() {
	if os.Getenv("DEBUG") != "" {
		logger, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		defer logger.Sync()
		phantom.SetLogger(logger)
	}
	if os.Getenv("PROFILE") != "" {
		f, err := os.Create("cpu.out")
		if err != nil {
			panic(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	cfg := "phantoms/settings.json"
	if len(os.Args) > 1 {
		cfg = os.Args[1]
	}
	settings, err := phantom.LoadSettings(cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	result, err := phantom.Run(settings)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if err := result.Dump(settings.OutputDir); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
