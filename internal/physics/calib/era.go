package calib

import (
	"fmt"
	"strings"
)

// Era identifies a supported data-taking period.
type Era string

// Supported eras.
const (
	Era2011    Era = "2011"
	Era2012v52 Era = "2012_52x"
	Era2012v53 Era = "2012_53x"
	Era2015v72 Era = "2015_72x"
	Era2015v73 Era = "2015_73x"
	Era2015v74 Era = "2015_74x"
)

// SupportedEras lists every era the cut tables are defined for.
var SupportedEras = []Era{Era2011, Era2012v52, Era2012v53, Era2015v72, Era2015v73, Era2015v74}

// IsSupported reports whether e is in SupportedEras.
func (e Era) IsSupported() bool {
	for _, s := range SupportedEras {
		if e == s {
			return true
		}
	}
	return false
}

// ParseEra converts an era tag such as "2015_74x" into an Era.
func ParseEra(tag string) (Era, error) {
	e := Era(tag)
	if !e.IsSupported() {
		return "", fmt.Errorf("era %q is not one of %s", tag, supportedErasString())
	}
	return e, nil
}

func supportedErasString() string {
	names := make([]string, len(SupportedEras))
	for i, e := range SupportedEras {
		names[i] = string(e)
	}
	return strings.Join(names, ", ")
}

// AnalysisMode selects the final state an analysis job targets.
type AnalysisMode int

const (
	AnalysisLJ     AnalysisMode = iota // lepton + jets
	AnalysisDIL                        // dilepton
	AnalysisTauLJ                      // tau + lepton + jets
	AnalysisTauDIL                     // tau + dilepton
)

// String returns the short analysis name.
func (m AnalysisMode) String() string {
	switch m {
	case AnalysisLJ:
		return "LJ"
	case AnalysisDIL:
		return "DIL"
	case AnalysisTauLJ:
		return "TauLJ"
	case AnalysisTauDIL:
		return "TauDIL"
	default:
		return fmt.Sprintf("AnalysisMode(%d)", int(m))
	}
}
