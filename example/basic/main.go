package main

import (
	"fmt"
	"log"

	ocean "github.com/BlackRoad-OS/blackroad-ocean-data-collector"
)

// Demonstrates embedding the collector with the in-memory backend: seed the
// demo fleet, record a couple of readings, and print the derived views.
func main() {
	cfg := ocean.DefaultConfig()
	c, err := ocean.New(cfg)
	if err != nil {
		log.Fatalf("new collector: %v", err)
	}

	fleet, err := c.SeedDemoFleet()
	if err != nil {
		log.Fatalf("seed fleet: %v", err)
	}

	pacific, arctic := fleet[0], fleet[2]
	if _, err := c.Ingestor().Ingest(pacific.ID, ocean.Measurements{
		TemperatureC: ocean.Float(31.2), // past the warm-water threshold
		SalinityPSU:  ocean.Float(35.4),
	}); err != nil {
		log.Fatalf("ingest: %v", err)
	}
	if _, err := c.Ingestor().Ingest(arctic.ID, ocean.Measurements{
		TemperatureC: ocean.Float(2.1),
		SalinityPSU:  ocean.Float(33.8),
	}); err != nil {
		log.Fatalf("ingest: %v", err)
	}

	sensors, err := c.Registry().FleetStatus()
	if err != nil {
		log.Fatalf("fleet: %v", err)
	}
	fmt.Printf("fleet of %d:\n", len(sensors))
	for _, s := range sensors {
		fmt.Printf("  %s %-20s %s\n", s.ID, s.Name, s.Status)
	}

	grid, err := c.Analytics().HeatmapASCII(ocean.ParamTemperature)
	if err != nil {
		log.Fatalf("heatmap: %v", err)
	}
	fmt.Println("\ntemperature heatmap:")
	fmt.Print(grid)

	summary, err := c.Detector().AlertSummary()
	if err != nil {
		log.Fatalf("alerts: %v", err)
	}
	fmt.Println()
	fmt.Println(summary)
}
