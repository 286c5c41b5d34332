package tide

import (
	"fmt"
	"io"
	"math"
)

// missingLiteral is the canonical flagged value emitted for missing
// readings. The original flag letter is not carried through parsing, so all
// missing markers write back as M.
const missingLiteral = "-99.0000M"

// Write emits a series in the gauge file column format, including a header
// block of HeaderLines lines, so that written output parses back into an
// equivalent series.
func Write(w io.Writer, s Series) error {
	header := [HeaderLines]string{
		"Port:       -",
		"Site:       -",
		"Latitude:   -",
		"Longitude:  -",
		"Start Date: -",
		"End Date:   -",
		"Contributor: -",
		"Datum information: -",
		"Parameter code: ASLVTD02 = Surface elevation",
		"  Cycle    Date      Time      ASLVTD02   Residual",
		" Number yyyy mm dd hh mi ssf          f          f",
	}
	for _, line := range header {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	for i, o := range s {
		seaLevel := missingLiteral
		if !o.Missing() {
			seaLevel = fmt.Sprintf("%9.4f", o.SeaLevel)
		}
		residual := missingLiteral
		if !math.IsNaN(o.Residual) {
			residual = fmt.Sprintf("%9.4f", o.Residual)
		}

		_, err := fmt.Fprintf(w, "%7d) %s %10s %10s\n",
			i+1, o.Time.Format(timestampLayout), seaLevel, residual)
		if err != nil {
			return err
		}
	}

	return nil
}
