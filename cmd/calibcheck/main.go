// Command calibcheck validates a calibration config and prints the tables
// it resolves to. Given -jet it also runs the jet through the configured
// factorized correction for every JES variation.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/banshee-data/miniaod/internal/config"
	"github.com/banshee-data/miniaod/internal/physics/calib"
	"github.com/banshee-data/miniaod/internal/physics/candidate"
	"github.com/banshee-data/miniaod/internal/physics/jec"
	"github.com/banshee-data/miniaod/internal/version"
)

// parseCSVFloatSlice parses a comma-separated list of floats
func parseCSVFloatSlice(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float '%s': %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatalf("calibcheck: %v", err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("calibcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Calibration config (.json, .yaml or .yml); built-in tables when empty")
	eraTag := fs.String("era", string(calib.Era2015v74), "Data-taking era")
	sampleID := fs.Int("sample", 1, "Sample identifier (non-zero)")
	isData := fs.Bool("data", false, "Treat the sample as collision data")
	jetSpec := fs.String("jet", "", "Jet to correct as pt,eta,area (requires jet_correction in the config)")
	rho := fs.Float64("rho", 0, "Pileup density for -jet")
	showVersion := fs.Bool("version", false, "Print the build version and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintln(stdout, version.String())
		return nil
	}

	calib.SetLogWriters(calib.LogWriters{Ops: stderr})
	jec.SetLogWriters(stderr, nil, nil)

	era, err := calib.ParseEra(*eraTag)
	if err != nil {
		return err
	}
	if *sampleID == 0 {
		return fmt.Errorf("-sample must be non-zero")
	}

	cfg := config.EmptyCalibrationConfig()
	if *configPath != "" {
		if cfg, err = config.LoadCalibrationConfig(*configPath); err != nil {
			return err
		}
	}
	tables, err := cfg.Tables()
	if err != nil {
		return err
	}

	ctx := calib.NewContext(tables)
	ctx.SetUp(era, *sampleID, calib.AnalysisLJ, *isData)
	printTables(stdout, ctx)

	if *jetSpec == "" {
		return nil
	}
	return correctJet(stdout, ctx, cfg, *jetSpec, *rho)
}

func printTables(w io.Writer, ctx *calib.Context) {
	t := ctx.Tables()
	fmt.Fprintf(w, "context %s era=%s sample=%d data=%t\n", ctx.ID(), ctx.Era(), ctx.SampleID(), ctx.IsData())
	fmt.Fprintf(w, "tables %s\n", t.Version)
	fmt.Fprintf(w, "csv %s L=%g M=%g T=%g\n", t.CSV.Discriminator, t.CSV.Loose, t.CSV.Medium, t.CSV.Tight)
	fmt.Fprintf(w, "ea muon R03 %v\n", t.EffectiveAreas.MuonR03.Values)
	fmt.Fprintf(w, "ea muon R04 %v\n", t.EffectiveAreas.MuonR04.Values)
	fmt.Fprintf(w, "ea electron %v\n", t.EffectiveAreas.Electron.Values)
	for _, l := range []calib.Level{calib.LevelLoose, calib.LevelMedium, calib.LevelTight} {
		r := t.Phys14.Levels[l]
		fmt.Fprintf(w, "phys14 %-6s barrel relIso<%g endcap relIso<%g\n", l, r.Barrel.MaxRelIso, r.Endcap.MaxRelIso)
	}
}

func correctJet(w io.Writer, ctx *calib.Context, cfg *config.CalibrationConfig, spec string, rho float64) error {
	vals, err := parseCSVFloatSlice(spec)
	if err != nil {
		return err
	}
	if len(vals) != 3 {
		return fmt.Errorf("-jet wants pt,eta,area, got %d values", len(vals))
	}

	chain, unc, ok, err := cfg.JetCorrector()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("config has no jet_correction section")
	}
	ctx.SetFactorizedJetCorrector(chain, unc)
	ctx.SetRho(rho)

	p4 := candidate.PtEtaPhiM(vals[0], vals[1], 0, 0)
	jets := []candidate.Jet{{P4: p4, RawP4: p4, Area: vals[2]}}
	pipeline := jec.NewPipeline(ctx)
	for _, sys := range []jec.Systematic{jec.Nominal, jec.JESUp, jec.JESDown} {
		out := pipeline.CorrectedJets(jets, sys)
		fmt.Fprintf(w, "jet %-7s pt=%.2f\n", sys, out[0].Pt())
	}
	return nil
}
