package main

import (
	"flag"
	"fmt"
	"log"
	"os"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	inputFile  = flag.String("input", "", "Path to the .acf aircraft description")
	outputFile = flag.String("output", "model.sdf", "Output SDF file ('-' for stdout)")
	configFile = flag.String("config", "", "Path to YAML configuration file")
	modelName  = flag.String("model-name", "", "Override the SDF model name")
	summary    = flag.Bool("summary", false, "Parse the input and print a summary, no output written")
	footprint  = flag.String("footprint", "", "Write a top-down GeoJSON footprint to this path")
	preview    = flag.String("preview", "", "Write a top-down preview image (.svg or .png) to this path")
	mqttMode   = flag.Bool("mqtt", false, "Run MQTT service mode: convert payloads from the broker")
)

func main() {
	flag.Parse()
	fmt.Printf("acf2sdf version: %s\n", Version)

	app := NewApp()
	app.ApplyOptions(AppOptions{
		InputFile:     *inputFile,
		OutputFile:    *outputFile,
		ConfigFile:    *configFile,
		ModelName:     *modelName,
		FootprintFile: *footprint,
		PreviewFile:   *preview,
		Summary:       *summary,
		MqttMode:      *mqttMode,
	})

	if err := app.LoadConfig(); err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	if app.MqttMode {
		if err := app.RunService(); err != nil {
			log.Fatalf("Service error: %v", err)
		}
		return
	}

	if app.InputFile == "" {
		fmt.Println("Usage: acf2sdf -input AIRCRAFT.acf [-output model.sdf]")
		fmt.Println("  -summary            print what the file contains without converting")
		fmt.Println("  -footprint out.geojson   write the part layout as GeoJSON")
		fmt.Println("  -preview out.svg    write a top-down preview (svg or png)")
		fmt.Println("  -mqtt               run as a service converting broker payloads")
		os.Exit(2)
	}

	if app.Summary {
		if err := app.RunSummary(); err != nil {
			log.Fatalf("Error: %v", err)
		}
		return
	}

	if err := app.RunConvert(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
