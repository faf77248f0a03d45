package calib

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultTablesVersion names the built-in calibration tables: Phys14
// effective areas and electron ID with CSVv2+IVF b-tag working points.
const DefaultTablesVersion = "phys14-csvv2ivf-v1"

// UnphysicalValue is the sentinel returned when a calibration quantity is
// not defined for the requested input.
const UnphysicalValue = 9999.0

// EtaBinned is a table of values binned in |eta|. Bins are half-open
// [Edges[i], Edges[i+1]) except the last one, which includes its upper edge.
type EtaBinned struct {
	Edges  []float64 `json:"edges" yaml:"edges"`
	Values []float64 `json:"values" yaml:"values"`
}

// Lookup returns the value of the bin containing absEta. ok is false when
// absEta is outside the table.
func (b EtaBinned) Lookup(absEta float64) (value float64, ok bool) {
	n := len(b.Edges)
	if n < 2 || len(b.Values) != n-1 {
		return UnphysicalValue, false
	}
	if absEta == b.Edges[n-1] {
		return b.Values[n-2], true
	}
	i := floats.Within(b.Edges, absEta)
	if i < 0 {
		return UnphysicalValue, false
	}
	return b.Values[i], true
}

// Validate checks that edges are strictly increasing and match the values.
func (b EtaBinned) Validate() error {
	if len(b.Edges) < 2 {
		return errors.New("need at least two bin edges")
	}
	if len(b.Values) != len(b.Edges)-1 {
		return fmt.Errorf("%d edges need %d values, got %d", len(b.Edges), len(b.Edges)-1, len(b.Values))
	}
	for i := 1; i < len(b.Edges); i++ {
		if !(b.Edges[i] > b.Edges[i-1]) {
			return fmt.Errorf("edges must be strictly increasing, got %v", b.Edges)
		}
	}
	if floats.HasNaN(b.Values) {
		return errors.New("values contain NaN")
	}
	return nil
}

func (b EtaBinned) clone() EtaBinned {
	return EtaBinned{
		Edges:  append([]float64(nil), b.Edges...),
		Values: append([]float64(nil), b.Values...),
	}
}

// CSVThresholds are the b-tag discriminator working points.
type CSVThresholds struct {
	Discriminator string
	Loose         float64
	Medium        float64
	Tight         float64
}

// EffectiveAreas holds the lepton isolation effective-area tables. The
// electron table is shared by both cone sizes.
type EffectiveAreas struct {
	MuonR03  EtaBinned
	MuonR04  EtaBinned
	Electron EtaBinned
}

// Level is a generic loose/medium/tight tier.
type Level int

const (
	LevelLoose Level = iota
	LevelMedium
	LevelTight
)

// String returns the lower-case tier name.
func (l Level) String() string {
	switch l {
	case LevelLoose:
		return "loose"
	case LevelMedium:
		return "medium"
	case LevelTight:
		return "tight"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Phys14Cuts is one row of the Phys14 cut-based electron ID: every quantity
// must be strictly below its maximum, except MaxMissingInnerHits which is
// inclusive.
type Phys14Cuts struct {
	MaxSigmaIetaIeta    float64 `json:"max_sigma_ieta_ieta" yaml:"max_sigma_ieta_ieta"`
	MaxDEtaIn           float64 `json:"max_deta_in" yaml:"max_deta_in"`
	MaxDPhiIn           float64 `json:"max_dphi_in" yaml:"max_dphi_in"`
	MaxHOverE           float64 `json:"max_h_over_e" yaml:"max_h_over_e"`
	MaxOoEmooP          float64 `json:"max_ooemoop" yaml:"max_ooemoop"`
	MaxD0               float64 `json:"max_d0" yaml:"max_d0"`
	MaxDz               float64 `json:"max_dz" yaml:"max_dz"`
	MaxMissingInnerHits int     `json:"max_missing_inner_hits" yaml:"max_missing_inner_hits"`
	MaxRelIso           float64 `json:"max_rel_iso" yaml:"max_rel_iso"`
}

// Validate checks that every maximum is positive and finite. A zero row
// would reject every electron in its region.
func (c Phys14Cuts) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"max_sigma_ieta_ieta", c.MaxSigmaIetaIeta},
		{"max_deta_in", c.MaxDEtaIn},
		{"max_dphi_in", c.MaxDPhiIn},
		{"max_h_over_e", c.MaxHOverE},
		{"max_ooemoop", c.MaxOoEmooP},
		{"max_d0", c.MaxD0},
		{"max_dz", c.MaxDz},
		{"max_rel_iso", c.MaxRelIso},
	} {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s must be positive and finite, got %g", f.name, f.v)
		}
	}
	if c.MaxMissingInnerHits < 0 {
		return fmt.Errorf("max_missing_inner_hits must not be negative, got %d", c.MaxMissingInnerHits)
	}
	return nil
}

// Phys14Region pairs the barrel and endcap rows of one ID level.
type Phys14Region struct {
	Barrel Phys14Cuts `json:"barrel" yaml:"barrel"`
	Endcap Phys14Cuts `json:"endcap" yaml:"endcap"`
}

// Phys14Table is the full Phys14 electron ID table.
type Phys14Table struct {
	// BarrelMaxAbsEtaSC is the supercluster |eta| below which the barrel row applies.
	BarrelMaxAbsEtaSC float64
	Levels            map[Level]Phys14Region
}

// Tables is an immutable, versioned set of calibration constants injected
// into a Context at construction.
type Tables struct {
	Version        string
	CSV            CSVThresholds
	EffectiveAreas EffectiveAreas
	Phys14         Phys14Table
}

// Validate checks the tables for internal consistency.
func (t Tables) Validate() error {
	if t.Version == "" {
		return errors.New("tables version must not be empty")
	}
	if t.CSV.Discriminator == "" {
		return errors.New("csv discriminator name must not be empty")
	}
	if !(t.CSV.Loose < t.CSV.Medium && t.CSV.Medium < t.CSV.Tight) {
		return fmt.Errorf("csv thresholds must satisfy loose < medium < tight, got %g/%g/%g",
			t.CSV.Loose, t.CSV.Medium, t.CSV.Tight)
	}
	for name, b := range map[string]EtaBinned{
		"muon R03": t.EffectiveAreas.MuonR03,
		"muon R04": t.EffectiveAreas.MuonR04,
		"electron": t.EffectiveAreas.Electron,
	} {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("%s effective areas: %w", name, err)
		}
	}
	if t.Phys14.BarrelMaxAbsEtaSC <= 0 || math.IsNaN(t.Phys14.BarrelMaxAbsEtaSC) {
		return fmt.Errorf("phys14 barrel boundary must be positive, got %g", t.Phys14.BarrelMaxAbsEtaSC)
	}
	for _, l := range []Level{LevelLoose, LevelMedium, LevelTight} {
		r, ok := t.Phys14.Levels[l]
		if !ok {
			return fmt.Errorf("phys14 table is missing the %s level", l)
		}
		if err := r.Barrel.Validate(); err != nil {
			return fmt.Errorf("phys14 %s barrel: %w", l, err)
		}
		if err := r.Endcap.Validate(); err != nil {
			return fmt.Errorf("phys14 %s endcap: %w", l, err)
		}
	}
	return nil
}

// Clone returns a deep copy so the receiver can be shared read-only.
func (t Tables) Clone() Tables {
	out := t
	out.EffectiveAreas = EffectiveAreas{
		MuonR03:  t.EffectiveAreas.MuonR03.clone(),
		MuonR04:  t.EffectiveAreas.MuonR04.clone(),
		Electron: t.EffectiveAreas.Electron.clone(),
	}
	out.Phys14.Levels = make(map[Level]Phys14Region, len(t.Phys14.Levels))
	for l, r := range t.Phys14.Levels {
		out.Phys14.Levels[l] = r
	}
	return out
}

// effectiveAreaEtaEdges are the |eta| bin edges of every Phys14 effective-area table.
var effectiveAreaEtaEdges = []float64{0, 0.8, 1.3, 2.0, 2.2, 2.5}

// DefaultTables returns the built-in calibration tables.
func DefaultTables() Tables {
	return Tables{
		Version: DefaultTablesVersion,
		// CSVv2+IVF preliminary working points (10%, 1%, 0.1% light mistag).
		CSV: CSVThresholds{
			Discriminator: "combinedInclusiveSecondaryVertexV2BJetTags",
			Loose:         0.423,
			Medium:        0.814,
			Tight:         0.941,
		},
		EffectiveAreas: EffectiveAreas{
			MuonR03: EtaBinned{
				Edges:  append([]float64(nil), effectiveAreaEtaEdges...),
				Values: []float64{0.0913, 0.0765, 0.0546, 0.0728, 0.1177},
			},
			MuonR04: EtaBinned{
				Edges:  append([]float64(nil), effectiveAreaEtaEdges...),
				Values: []float64{0.1546, 0.1325, 0.0913, 0.1212, 0.2085},
			},
			Electron: EtaBinned{
				Edges:  append([]float64(nil), effectiveAreaEtaEdges...),
				Values: []float64{0.1013, 0.0988, 0.0572, 0.0842, 0.1530},
			},
		},
		Phys14: Phys14Table{
			BarrelMaxAbsEtaSC: 1.479,
			Levels: map[Level]Phys14Region{
				LevelLoose: {
					Barrel: Phys14Cuts{
						MaxSigmaIetaIeta: 0.010557, MaxDEtaIn: 0.012442, MaxDPhiIn: 0.072624,
						MaxHOverE: 0.121476, MaxOoEmooP: 0.221803, MaxD0: 0.022664, MaxDz: 0.173670,
						MaxMissingInnerHits: 1, MaxRelIso: 0.120026,
					},
					Endcap: Phys14Cuts{
						MaxSigmaIetaIeta: 0.032602, MaxDEtaIn: 0.010654, MaxDPhiIn: 0.145129,
						MaxHOverE: 0.131862, MaxOoEmooP: 0.142283, MaxD0: 0.097358, MaxDz: 0.198444,
						MaxMissingInnerHits: 1, MaxRelIso: 0.162914,
					},
				},
				LevelMedium: {
					Barrel: Phys14Cuts{
						MaxSigmaIetaIeta: 0.010399, MaxDEtaIn: 0.007641, MaxDPhiIn: 0.032643,
						MaxHOverE: 0.060662, MaxOoEmooP: 0.153897, MaxD0: 0.011811, MaxDz: 0.070775,
						MaxMissingInnerHits: 1, MaxRelIso: 0.097213,
					},
					Endcap: Phys14Cuts{
						MaxSigmaIetaIeta: 0.029524, MaxDEtaIn: 0.009285, MaxDPhiIn: 0.042447,
						MaxHOverE: 0.104263, MaxOoEmooP: 0.137468, MaxD0: 0.051682, MaxDz: 0.180720,
						MaxMissingInnerHits: 1, MaxRelIso: 0.116708,
					},
				},
				LevelTight: {
					Barrel: Phys14Cuts{
						MaxSigmaIetaIeta: 0.010181, MaxDEtaIn: 0.006574, MaxDPhiIn: 0.022868,
						MaxHOverE: 0.037553, MaxOoEmooP: 0.131191, MaxD0: 0.009924, MaxDz: 0.015310,
						MaxMissingInnerHits: 1, MaxRelIso: 0.074355,
					},
					Endcap: Phys14Cuts{
						MaxSigmaIetaIeta: 0.028766, MaxDEtaIn: 0.005681, MaxDPhiIn: 0.032046,
						MaxHOverE: 0.081902, MaxOoEmooP: 0.106055, MaxD0: 0.027261, MaxDz: 0.147154,
						MaxMissingInnerHits: 1, MaxRelIso: 0.090185,
					},
				},
			},
		},
	}
}
