package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/miniaod/internal/fsutil"
	"github.com/banshee-data/miniaod/internal/physics/calib"
	"github.com/banshee-data/miniaod/internal/physics/jec"
)

// DefaultConfigPath is the path to the canonical calibration defaults file.
const DefaultConfigPath = "config/calibration.defaults.json"

// CalibrationConfig is the on-disk form of the calibration tables and the
// factorized jet energy correction. Every field is optional: nil fields
// fall back to the built-in tables, so partial configs are safe.
type CalibrationConfig struct {
	TableVersion *string `json:"table_version,omitempty" yaml:"table_version,omitempty"`

	// b-tag working points
	CSVDiscriminator *string  `json:"csv_discriminator,omitempty" yaml:"csv_discriminator,omitempty"`
	CSVLoose         *float64 `json:"csv_loose,omitempty" yaml:"csv_loose,omitempty"`
	CSVMedium        *float64 `json:"csv_medium,omitempty" yaml:"csv_medium,omitempty"`
	CSVTight         *float64 `json:"csv_tight,omitempty" yaml:"csv_tight,omitempty"`

	// Isolation effective areas
	MuonEffectiveAreaR03  *calib.EtaBinned `json:"muon_effective_area_r03,omitempty" yaml:"muon_effective_area_r03,omitempty"`
	MuonEffectiveAreaR04  *calib.EtaBinned `json:"muon_effective_area_r04,omitempty" yaml:"muon_effective_area_r04,omitempty"`
	ElectronEffectiveArea *calib.EtaBinned `json:"electron_effective_area,omitempty" yaml:"electron_effective_area,omitempty"`

	// Phys14 electron ID, keyed by "loose", "medium" or "tight"
	Phys14BarrelMaxAbsEtaSC *float64                      `json:"phys14_barrel_max_abs_eta_sc,omitempty" yaml:"phys14_barrel_max_abs_eta_sc,omitempty"`
	Phys14                  map[string]calib.Phys14Region `json:"phys14,omitempty" yaml:"phys14,omitempty"`

	JetCorrection *JetCorrectionConfig `json:"jet_correction,omitempty" yaml:"jet_correction,omitempty"`
}

// JetCorrectionConfig describes a factorized level chain and its JES
// uncertainty. L1 offsets, when present, always run first.
type JetCorrectionConfig struct {
	L1FastJetOffsets *calib.EtaBinned      `json:"l1_fastjet_offsets,omitempty" yaml:"l1_fastjet_offsets,omitempty"`
	Levels           []ResponseLevelConfig `json:"levels,omitempty" yaml:"levels,omitempty"`
	Uncertainty      *UncertaintyConfig    `json:"uncertainty,omitempty" yaml:"uncertainty,omitempty"`
}

// ResponseLevelConfig is one binned response level.
type ResponseLevelConfig struct {
	Name     string      `json:"name" yaml:"name"`
	EtaEdges []float64   `json:"eta_edges" yaml:"eta_edges"`
	Curves   []jec.Curve `json:"curves" yaml:"curves"`
}

// UncertaintyConfig holds the JES uncertainty curves. Down may be omitted.
type UncertaintyConfig struct {
	EtaEdges []float64   `json:"eta_edges" yaml:"eta_edges"`
	Up       []jec.Curve `json:"up" yaml:"up"`
	Down     []jec.Curve `json:"down,omitempty" yaml:"down,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }

// EmptyCalibrationConfig returns a CalibrationConfig with all fields unset.
func EmptyCalibrationConfig() *CalibrationConfig {
	return &CalibrationConfig{}
}

// LoadCalibrationConfig loads a CalibrationConfig from a .json, .yaml or
// .yml file of at most 1MB and validates it.
func LoadCalibrationConfig(path string) (*CalibrationConfig, error) {
	return LoadCalibrationConfigFS(fsutil.OSFileSystem{}, path)
}

// LoadCalibrationConfigFS is LoadCalibrationConfig reading through fsys.
func LoadCalibrationConfigFS(fsys fsutil.FileSystem, path string) (*CalibrationConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := filepath.Ext(cleanPath)
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	fileInfo, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyCalibrationConfig()
	if ext == ".json" {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", ext, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical calibration defaults from
// DefaultConfigPath, searching the current directory and its parents.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *CalibrationConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,          // from internal/config/
		"../../../" + DefaultConfigPath,       // from internal/physics/jec/
		"../../../../" + DefaultConfigPath,    // deeper packages
		"../../../../../" + DefaultConfigPath, // even deeper
	}
	for _, path := range candidates {
		if cfg, err := LoadCalibrationConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

var phys14LevelNames = map[string]calib.Level{
	calib.LevelLoose.String():  calib.LevelLoose,
	calib.LevelMedium.String(): calib.LevelMedium,
	calib.LevelTight.String():  calib.LevelTight,
}

func (c *CalibrationConfig) overridesTables() bool {
	return c.CSVDiscriminator != nil || c.CSVLoose != nil || c.CSVMedium != nil || c.CSVTight != nil ||
		c.MuonEffectiveAreaR03 != nil || c.MuonEffectiveAreaR04 != nil || c.ElectronEffectiveArea != nil ||
		c.Phys14BarrelMaxAbsEtaSC != nil || len(c.Phys14) > 0
}

// Validate checks that the configuration values are valid and that the
// resulting tables and jet corrector can be built.
func (c *CalibrationConfig) Validate() error {
	if c.TableVersion != nil && *c.TableVersion == "" {
		return errors.New("table_version must not be empty")
	}
	if c.TableVersion == nil && c.overridesTables() {
		return errors.New("table_version is required when overriding calibration tables")
	}

	for name, v := range map[string]*float64{
		"csv_loose":                    c.CSVLoose,
		"csv_medium":                   c.CSVMedium,
		"csv_tight":                    c.CSVTight,
		"phys14_barrel_max_abs_eta_sc": c.Phys14BarrelMaxAbsEtaSC,
	} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return fmt.Errorf("%s must be finite, got %f", name, *v)
		}
	}

	for name := range c.Phys14 {
		if _, ok := phys14LevelNames[name]; !ok {
			return fmt.Errorf("unknown phys14 level %q (want loose, medium or tight)", name)
		}
	}

	if _, err := c.buildTables(); err != nil {
		return err
	}
	if c.JetCorrection != nil {
		if _, _, err := c.JetCorrection.build(); err != nil {
			return fmt.Errorf("jet_correction: %w", err)
		}
	}
	return nil
}

// GetTableVersion returns the table_version value or the built-in version.
func (c *CalibrationConfig) GetTableVersion() string {
	if c.TableVersion == nil {
		return calib.DefaultTablesVersion
	}
	return *c.TableVersion
}

// GetCSV returns the b-tag working points with unset fields defaulted.
func (c *CalibrationConfig) GetCSV() calib.CSVThresholds {
	csv := calib.DefaultTables().CSV
	if c.CSVDiscriminator != nil {
		csv.Discriminator = *c.CSVDiscriminator
	}
	if c.CSVLoose != nil {
		csv.Loose = *c.CSVLoose
	}
	if c.CSVMedium != nil {
		csv.Medium = *c.CSVMedium
	}
	if c.CSVTight != nil {
		csv.Tight = *c.CSVTight
	}
	return csv
}

// GetEffectiveAreas returns the isolation effective-area tables with unset
// tables defaulted.
func (c *CalibrationConfig) GetEffectiveAreas() calib.EffectiveAreas {
	ea := calib.DefaultTables().EffectiveAreas
	if c.MuonEffectiveAreaR03 != nil {
		ea.MuonR03 = copyEtaBinned(*c.MuonEffectiveAreaR03)
	}
	if c.MuonEffectiveAreaR04 != nil {
		ea.MuonR04 = copyEtaBinned(*c.MuonEffectiveAreaR04)
	}
	if c.ElectronEffectiveArea != nil {
		ea.Electron = copyEtaBinned(*c.ElectronEffectiveArea)
	}
	return ea
}

// GetPhys14 returns the Phys14 electron ID table. Levels absent from the
// config keep their built-in rows.
func (c *CalibrationConfig) GetPhys14() calib.Phys14Table {
	table := calib.DefaultTables().Phys14
	if c.Phys14BarrelMaxAbsEtaSC != nil {
		table.BarrelMaxAbsEtaSC = *c.Phys14BarrelMaxAbsEtaSC
	}
	for name, region := range c.Phys14 {
		if level, ok := phys14LevelNames[name]; ok {
			table.Levels[level] = region
		}
	}
	return table
}

func (c *CalibrationConfig) buildTables() (calib.Tables, error) {
	t := calib.Tables{
		Version:        c.GetTableVersion(),
		CSV:            c.GetCSV(),
		EffectiveAreas: c.GetEffectiveAreas(),
		Phys14:         c.GetPhys14(),
	}
	if err := t.Validate(); err != nil {
		return calib.Tables{}, fmt.Errorf("calibration tables %q: %w", t.Version, err)
	}
	return t, nil
}

// Tables returns the immutable calibration tables described by c, ready
// for calib.NewContext.
func (c *CalibrationConfig) Tables() (calib.Tables, error) {
	return c.buildTables()
}

// JetCorrector builds the factorized level chain and its uncertainty.
// ok is false when the config has no jet_correction section.
func (c *CalibrationConfig) JetCorrector() (chain *jec.LevelChain, unc *jec.BinnedUncertainty, ok bool, err error) {
	if c.JetCorrection == nil {
		return nil, nil, false, nil
	}
	chain, unc, err = c.JetCorrection.build()
	if err != nil {
		return nil, nil, false, fmt.Errorf("jet_correction: %w", err)
	}
	return chain, unc, true, nil
}

func (j *JetCorrectionConfig) build() (*jec.LevelChain, *jec.BinnedUncertainty, error) {
	var levels []jec.Level
	if j.L1FastJetOffsets != nil {
		l1, err := jec.NewL1FastJet(copyEtaBinned(*j.L1FastJetOffsets))
		if err != nil {
			return nil, nil, err
		}
		levels = append(levels, l1)
	}
	for _, lc := range j.Levels {
		r, err := jec.NewBinnedResponse(lc.Name, lc.EtaEdges, lc.Curves)
		if err != nil {
			return nil, nil, err
		}
		levels = append(levels, r)
	}
	chain, err := jec.NewLevelChain(levels...)
	if err != nil {
		return nil, nil, err
	}

	if j.Uncertainty == nil {
		return nil, nil, errors.New("uncertainty is required")
	}
	unc, err := jec.NewBinnedUncertainty(j.Uncertainty.EtaEdges, j.Uncertainty.Up, j.Uncertainty.Down)
	if err != nil {
		return nil, nil, err
	}
	return chain, unc, nil
}

func copyEtaBinned(b calib.EtaBinned) calib.EtaBinned {
	return calib.EtaBinned{
		Edges:  append([]float64(nil), b.Edges...),
		Values: append([]float64(nil), b.Values...),
	}
}
