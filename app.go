package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/vtolab/acf2sdf/acf"
)

// App encapsulates the converter's configuration and run modes.
type App struct {
	Config    *acf.Config
	publisher *acf.Publisher

	InputFile     string
	OutputFile    string
	ConfigFile    string
	ModelName     string
	FootprintFile string
	PreviewFile   string
	Summary       bool
	MqttMode      bool
}

// AppOptions carries parsed CLI flags into the App.
type AppOptions struct {
	InputFile     string
	OutputFile    string
	ConfigFile    string
	ModelName     string
	FootprintFile string
	PreviewFile   string
	Summary       bool
	MqttMode      bool
}

// NewApp creates an App with default configuration.
func NewApp() *App {
	return &App{Config: acf.DefaultConfig()}
}

// ApplyOptions applies CLI options to the App instance.
func (a *App) ApplyOptions(opts AppOptions) {
	a.InputFile = opts.InputFile
	a.OutputFile = opts.OutputFile
	a.ConfigFile = opts.ConfigFile
	a.ModelName = opts.ModelName
	a.FootprintFile = opts.FootprintFile
	a.PreviewFile = opts.PreviewFile
	a.Summary = opts.Summary
	a.MqttMode = opts.MqttMode
}

// LoadConfig loads the YAML config when one was given on the command line
// and applies the model-name override.
func (a *App) LoadConfig() error {
	if a.ConfigFile != "" {
		config, err := acf.LoadConfig(a.ConfigFile)
		if err != nil {
			return err
		}
		a.Config = config
	}
	if a.ModelName != "" {
		a.Config.ModelName = a.ModelName
	}
	return nil
}

// RunSummary parses the input file and prints what the store contains
// without writing any output.
func (a *App) RunSummary() error {
	store, err := acf.ParseACFFile(a.InputFile)
	if err != nil {
		return err
	}

	assembler := acf.NewAssembler(store, a.Config)
	scene, diags := assembler.Assemble()

	fmt.Printf("=== %s ===\n", filepath.Base(a.InputFile))
	fmt.Printf("Property keys: %d\n", store.Len())
	fmt.Printf("Mass: %.3f kg\n", scene.Inertial.Mass)
	fmt.Printf("Structural points: %d in %d parts\n", scene.PointCount, len(scene.Collisions))
	fmt.Printf("Rotors: %d  Wings: %d  Gear: %d\n", len(scene.Rotors), len(scene.Wings), len(scene.Gear))
	printDiagnostics(diags)
	return nil
}

// RunConvert converts the input file and writes the SDF document plus any
// requested side artifacts (footprint GeoJSON, preview image).
func (a *App) RunConvert() error {
	store, err := acf.ParseACFFile(a.InputFile)
	if err != nil {
		return err
	}

	assembler := acf.NewAssembler(store, a.Config)
	scene, diags := assembler.Assemble()
	printDiagnostics(diags)

	out := os.Stdout
	if a.OutputFile != "" && a.OutputFile != "-" {
		f, err := os.Create(a.OutputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := acf.WriteModel(out, scene, a.Config); err != nil {
		return err
	}
	if a.OutputFile != "" && a.OutputFile != "-" {
		log.Printf("Wrote SDF model to %s", a.OutputFile)
	}

	if a.FootprintFile != "" {
		if err := a.writeFootprint(scene); err != nil {
			return err
		}
	}
	if a.PreviewFile != "" {
		if err := a.writePreview(scene); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) writeFootprint(scene *acf.Scene) error {
	f, err := os.Create(a.FootprintFile)
	if err != nil {
		return fmt.Errorf("creating footprint file: %w", err)
	}
	defer f.Close()
	if err := acf.WriteFootprint(f, scene); err != nil {
		return err
	}
	log.Printf("Wrote footprint GeoJSON to %s", a.FootprintFile)
	return nil
}

func (a *App) writePreview(scene *acf.Scene) error {
	f, err := os.Create(a.PreviewFile)
	if err != nil {
		return fmt.Errorf("creating preview file: %w", err)
	}
	defer f.Close()

	renderer := acf.NewPreviewRenderer(scene)
	if strings.HasSuffix(strings.ToLower(a.PreviewFile), ".png") {
		err = renderer.RenderToPNG(f)
	} else {
		err = renderer.RenderToSVG(f)
	}
	if err != nil {
		return fmt.Errorf("rendering preview: %w", err)
	}
	log.Printf("Wrote preview to %s", a.PreviewFile)
	return nil
}

// RunService runs MQTT service mode: convert every aircraft payload that
// arrives on the subscribe topic and publish the SDF and report back.
func (a *App) RunService() error {
	client, err := acf.InitMQTT(a.Config, a.handleAircraft)
	if err != nil {
		return err
	}
	if client == nil {
		return fmt.Errorf("MQTT service mode requires mqtt.broker in the config")
	}
	defer client.Disconnect()

	a.publisher = acf.NewPublisher(client.Client(), a.Config.MQTT.PublishPrefix)

	log.Println("acf2sdf service running, waiting for aircraft payloads...")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Println("Shutting down")
	return nil
}

// handleAircraft converts one raw payload received over MQTT and publishes
// the result. Conversion errors are logged, never fatal to the service.
func (a *App) handleAircraft(name string, payload []byte) {
	cfg := *a.Config
	cfg.ModelName = name

	store := acf.ParseACF(string(payload))
	scene, diags := acf.NewAssembler(store, &cfg).Assemble()
	printDiagnostics(diags)

	var buf bytes.Buffer
	if err := acf.WriteModel(&buf, scene, &cfg); err != nil {
		log.Printf("Error rendering SDF for %s: %v", name, err)
		return
	}

	if a.publisher == nil {
		return
	}
	if err := a.publisher.PublishModel(name, buf.Bytes()); err != nil {
		log.Printf("Error publishing model %s: %v", name, err)
	}
	if err := a.publisher.PublishReport(acf.NewConversionReport(scene, diags)); err != nil {
		log.Printf("Error publishing report for %s: %v", name, err)
	}
}

func printDiagnostics(diags acf.Diagnostics) {
	warnings := diags.Warnings()
	for _, d := range warnings {
		log.Printf("WARNING: %s", d)
	}
	if skips := len(diags) - len(warnings); skips > 0 {
		log.Printf("Skipped %d malformed or incomplete entries", skips)
	}
}
