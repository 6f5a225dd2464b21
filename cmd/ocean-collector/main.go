package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	ocean "github.com/BlackRoad-OS/blackroad-ocean-data-collector"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	var err error

	switch cmd {
	case "serve":
		err = serveCommand(os.Args[2:])
	case "validate":
		err = validateCommand(os.Args[2:])
	case "seed":
		err = seedCommand(os.Args[2:])
	case "deploy":
		err = deployCommand(os.Args[2:])
	case "ingest":
		err = ingestCommand(os.Args[2:])
	case "fleet":
		err = fleetCommand(os.Args[2:])
	case "anomalies":
		err = anomaliesCommand(os.Args[2:])
	case "heatmap":
		err = heatmapCommand(os.Args[2:])
	case "heat":
		err = heatCommand(os.Args[2:])
	case "trend":
		err = trendCommand(os.Args[2:])
	case "export":
		err = exportCommand(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		log.Fatalf("ocean-collector %s: %v", cmd, err)
	}
}

func loadConfig(path string) (*ocean.Config, error) {
	if path == "" {
		return ocean.DefaultConfig(), nil
	}
	return ocean.LoadConfig(path)
}

// openCollector wires a collector for a one-shot client command: no metric
// registration and no servers, just the core components on the configured
// store.
func openCollector(cfgPath string) (*ocean.Collector, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	return ocean.New(cfg, ocean.WithObservability(ocean.NopObservability{}))
}

func serveCommand(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to configuration file (defaults apply when empty)")
	seed := fs.Bool("seed", false, "Seed the demo fleet before serving")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	c, err := ocean.New(cfg)
	if err != nil {
		return err
	}
	if *seed {
		if _, err := c.SeedDemoFleet(); err != nil {
			return fmt.Errorf("seed demo fleet: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("serving http on %s, metrics on %s\n", cfg.HTTP.Addr, cfg.Metrics.Addr)
	return c.Run(ctx)
}

func validateCommand(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfgPath := fs.String("config", "./config.yaml", "Path to configuration file to validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := ocean.LoadConfig(*cfgPath); err != nil {
		return err
	}
	fmt.Printf("✓ config %s looks good\n", *cfgPath)
	return nil
}

func seedCommand(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := openCollector(*cfgPath)
	if err != nil {
		return err
	}
	defer shutdown(c)

	deployed, err := c.SeedDemoFleet()
	if err != nil {
		return err
	}
	if len(deployed) == 0 {
		fmt.Println("fleet already populated, nothing to seed")
		return nil
	}
	for _, s := range deployed {
		fmt.Printf("✓ deployed %s %q (%s) at %.1f, %.1f\n", s.ID, s.Name, s.Type, s.Lat, s.Lon)
	}
	return nil
}

func deployCommand(args []string) error {
	fs := flag.NewFlagSet("deploy", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to configuration file")
	name := fs.String("name", "", "Sensor name")
	typ := fs.String("type", "buoy", "Sensor type (buoy, argo_float, glider, mooring, auv, ctd)")
	lat := fs.Float64("lat", 0, "Latitude in degrees")
	lon := fs.Float64("lon", 0, "Longitude in degrees")
	depth := fs.Float64("depth", 0, "Deployment depth in meters")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := openCollector(*cfgPath)
	if err != nil {
		return err
	}
	defer shutdown(c)

	sensor, err := c.Registry().Deploy(*name, ocean.SensorType(*typ), *lat, *lon, *depth)
	if err != nil {
		return err
	}
	fmt.Printf("✓ deployed %s %q (%s) at %.1f, %.1f depth %.0fm\n",
		sensor.ID, sensor.Name, sensor.Type, sensor.Lat, sensor.Lon, sensor.DepthM)
	return nil
}

func ingestCommand(args []string) error {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to configuration file")
	sensorID := fs.String("sensor", "", "Sensor id")
	temp := fs.Float64("temp", math.NaN(), "Temperature in °C")
	salinity := fs.Float64("salinity", math.NaN(), "Salinity in PSU")
	ph := fs.Float64("ph", math.NaN(), "pH")
	o2 := fs.Float64("o2", math.NaN(), "Dissolved oxygen in mg/L")
	current := fs.Float64("current", math.NaN(), "Current velocity in m/s")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := openCollector(*cfgPath)
	if err != nil {
		return err
	}
	defer shutdown(c)

	var m ocean.Measurements
	m.TemperatureC = given(*temp)
	m.SalinityPSU = given(*salinity)
	m.PH = given(*ph)
	m.DissolvedO2MgL = given(*o2)
	m.CurrentVelocityMS = given(*current)

	reading, err := c.Ingestor().Ingest(*sensorID, m)
	if err != nil {
		return err
	}
	fmt.Printf("✓ reading stored for %s at %s\n", reading.SensorID, reading.Timestamp.Format("2006-01-02 15:04:05"))
	return nil
}

// given maps an unset CLI flag (NaN default) to an absent measurement.
func given(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return ocean.Float(v)
}

func fleetCommand(args []string) error {
	fs := flag.NewFlagSet("fleet", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := openCollector(*cfgPath)
	if err != nil {
		return err
	}
	defer shutdown(c)

	fleet, err := c.Registry().FleetStatus()
	if err != nil {
		return err
	}
	if len(fleet) == 0 {
		fmt.Println("fleet is empty")
		return nil
	}

	fmt.Printf("%-12s %-20s %-12s %-12s %8s %9s\n", "ID", "NAME", "TYPE", "STATUS", "LAT", "LON")
	for _, s := range fleet {
		fmt.Printf("%-12s %-20s %-12s %-12s %8.2f %9.2f\n", s.ID, s.Name, s.Type, s.Status, s.Lat, s.Lon)
	}
	return nil
}

func anomaliesCommand(args []string) error {
	fs := flag.NewFlagSet("anomalies", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := openCollector(*cfgPath)
	if err != nil {
		return err
	}
	defer shutdown(c)

	summary, err := c.Detector().AlertSummary()
	if err != nil {
		return err
	}
	fmt.Println(summary)
	return nil
}

func heatmapCommand(args []string) error {
	fs := flag.NewFlagSet("heatmap", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to configuration file")
	param := fs.String("parameter", "temperature", "Parameter to map (temperature or salinity)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := openCollector(*cfgPath)
	if err != nil {
		return err
	}
	defer shutdown(c)

	grid, err := c.Analytics().HeatmapASCII(ocean.Parameter(*param))
	if err != nil {
		return err
	}
	fmt.Print(grid)
	return nil
}

func heatCommand(args []string) error {
	fs := flag.NewFlagSet("heat", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to configuration file")
	sensors := fs.String("sensors", "", "Comma-separated sensor ids (empty = whole fleet)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := openCollector(*cfgPath)
	if err != nil {
		return err
	}
	defer shutdown(c)

	var ids []string
	if *sensors != "" {
		ids = strings.Split(*sensors, ",")
	} else {
		fleet, err := c.Registry().FleetStatus()
		if err != nil {
			return err
		}
		for _, s := range fleet {
			ids = append(ids, s.ID)
		}
	}

	report, err := c.Analytics().HeatContent(ids)
	if err != nil {
		return err
	}
	for _, entry := range report.PerSensor {
		fmt.Printf("  %s: %.1f kJ/m²\n", entry.SensorID, entry.HeatContentKJM2)
	}
	fmt.Printf("total %.1f kJ/m² across %d sensors (avg %.1f)\n",
		report.TotalHeatContentKJM2, report.SensorsSampled, report.AverageKJM2)
	return nil
}

func trendCommand(args []string) error {
	fs := flag.NewFlagSet("trend", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to configuration file")
	sensorID := fs.String("sensor", "", "Sensor id")
	param := fs.String("parameter", "temperature", "Parameter to trend")
	window := fs.Int("window", 24, "Window in hours")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := openCollector(*cfgPath)
	if err != nil {
		return err
	}
	defer shutdown(c)

	points, err := c.Analytics().Trend(*sensorID, ocean.Parameter(*param), *window)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		fmt.Printf("no %s readings for %s in the last %dh\n", *param, *sensorID, *window)
		return nil
	}
	for _, p := range points {
		fmt.Printf("  %s  %.2f\n", p.Timestamp.Format("2006-01-02 15:04:05"), p.Value)
	}
	return nil
}

func exportCommand(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to configuration file")
	out := fs.String("out", "", "Output file (prints to stdout when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := openCollector(*cfgPath)
	if err != nil {
		return err
	}
	defer shutdown(c)

	if *out != "" {
		if err := c.Analytics().ExportNetCDFStub(*out); err != nil {
			return err
		}
		fmt.Printf("✓ exported snapshot to %s\n", *out)
		return nil
	}

	snap, err := c.Analytics().Snapshot()
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(raw))
	return nil
}

func shutdown(c *ocean.Collector) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}
}

func printUsage() {
	fmt.Printf(`Ocean Data Collector CLI

Usage:
  ocean-collector <command> [flags]

Commands:
  serve      Run the HTTP API, metrics endpoint, and MQTT source
  validate   Load and validate a config file without starting anything
  seed       Deploy the demo fleet into an empty store
  deploy     Register a new sensor platform
  ingest     Record a reading for a sensor
  fleet      List every registered sensor
  anomalies  Print the anomaly alert summary
  heatmap    Render the ASCII parameter heatmap
  heat       Compute the fleet heat-content aggregate
  trend      Print a sensor's parameter trend
  export     Write the NetCDF-style snapshot as JSON

Examples:
  ocean-collector serve -config ./config.yaml -seed
  ocean-collector deploy -name "Pacific Buoy" -type buoy -lat 35.5 -lon -120.3 -depth 4000
  ocean-collector ingest -sensor S_A1B2C3D4 -temp 18.5 -salinity 35.1
  ocean-collector heatmap -parameter temperature
`)
}
