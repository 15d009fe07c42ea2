package main

import (
	"flag"
	"fmt"
	"os"
	"reflect"

	"github.com/chrissnell/ppfg/pkg/config"
)

func main() {
	var (
		yamlFile   = flag.String("yaml", "", "Path to YAML configuration file")
		sqliteFile = flag.String("sqlite", "", "Path to SQLite configuration file")
	)
	flag.Parse()

	if *yamlFile == "" || *sqliteFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -yaml <ppfg.yaml> -sqlite <ppfg.db>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	fmt.Println("Configuration Comparison Test")
	fmt.Println("===========================")

	// Load YAML configuration
	fmt.Printf("Loading YAML configuration: %s\n", *yamlFile)
	yamlProvider := config.NewYAMLProvider(*yamlFile)
	yamlConfig, err := yamlProvider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading YAML config: %v\n", err)
		os.Exit(1)
	}

	// Load SQLite configuration
	fmt.Printf("Loading SQLite configuration: %s\n", *sqliteFile)
	sqliteProvider, err := config.NewSQLiteProvider(*sqliteFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating SQLite provider: %v\n", err)
		os.Exit(1)
	}
	defer sqliteProvider.Close()

	sqliteConfig, err := sqliteProvider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading SQLite config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nComparison Results:")
	fmt.Println("==================")

	report("Engine parameters", reflect.DeepEqual(yamlConfig.Engine, sqliteConfig.Engine))
	report("Server configuration", reflect.DeepEqual(yamlConfig.Server, sqliteConfig.Server))

	fmt.Printf("\nPresets - YAML: %d, SQLite: %d\n", len(yamlConfig.Presets), len(sqliteConfig.Presets))
	for _, yamlPreset := range yamlConfig.Presets {
		sqlitePreset, ok := config.FindPreset(sqliteConfig.Presets, yamlPreset.Name)
		if !ok {
			fmt.Printf("✗ Preset %s missing from SQLite\n", yamlPreset.Name)
			continue
		}
		report("Preset "+yamlPreset.Name, reflect.DeepEqual(yamlPreset, sqlitePreset))
	}

	fmt.Println("\nTest completed!")
}

func report(name string, match bool) {
	if match {
		fmt.Printf("✓ %s matches\n", name)
	} else {
		fmt.Printf("✗ %s differs\n", name)
	}
}
