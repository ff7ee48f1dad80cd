// Package repair implements the second, reconciling pass over an
// already-filled document: every radio group named in the known-group table
// is re-verified and, if its /V or /AS has drifted out of sync, rewritten
// through the same semantic-match-then-positional-fallback rule the Widget
// Writer used the first time. The pass is idempotent: running it twice
// produces the same document as running it once.
package repair

import (
	"github.com/kilroy-fr/pdfforms/pdfform"
	"github.com/kilroy-fr/pdfforms/pdfstruct"
	"github.com/kilroy-fr/pdfforms/schema"
)

// Result reports which known radio groups were checked, which of them were
// present in the document, and any state mismatches (§7) found
// along the way. A state mismatch is not an error: the group is left as
// found and the mismatch is only reported for visibility.
type Result struct {
	Checked  []string
	Present  []string
	Warnings []string
}

// Run re-verifies every radio group schema.KnownRadioGroupOrder knows about.
// Groups absent from this particular template are skipped without error.
func Run(pdf *pdfstruct.PDF) (Result, error) {
	var res Result
	for group, order := range schema.KnownRadioGroupOrder {
		res.Checked = append(res.Checked, group)
		present, warning, err := pdfform.RepairRadioGroup(pdf, group, order)
		if err != nil {
			return res, err
		}
		if present {
			res.Present = append(res.Present, group)
		}
		if warning != "" {
			res.Warnings = append(res.Warnings, warning)
		}
	}
	return res, nil
}
