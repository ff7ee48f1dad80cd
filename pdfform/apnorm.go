package pdfform

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kilroy-fr/pdfforms/pdfname"
	"github.com/kilroy-fr/pdfforms/pdfstruct"
)

// normalizeAPStates resolves widget's /AP /N dictionary and, per §4.E,
// rewrites any key that isn't already byte-identical to
// encode_name(decode_name(key)) — this is what clears an embedded
// low-surrogate anomaly (§7 "Encoding anomaly") so that a later /AS = Name
// comparison against the same key succeeds. It returns the (possibly
// rewritten) /AP /N dict with its final keys.
func normalizeAPStates(pdf *pdfstruct.PDF, widgetRef pdfstruct.Reference, widget pdfstruct.Dict) (pdfstruct.Dict, error) {
	var (
		ap      pdfstruct.Dict
		apRef   pdfstruct.Reference
		apIsRef bool
		err     error
	)
	switch a := widget["AP"].(type) {
	case pdfstruct.Reference:
		if ap, err = pdf.GetDict(a); err != nil {
			return nil, fmt.Errorf("widget[AP]: %w", err)
		}
		apRef, apIsRef = a, true
	case pdfstruct.Dict:
		ap = a
	default:
		return nil, errors.New("widget[AP] is not a Dict")
	}

	var (
		apn      pdfstruct.Dict
		apnRef   pdfstruct.Reference
		apnIsRef bool
	)
	switch n := ap["N"].(type) {
	case pdfstruct.Reference:
		if apn, err = pdf.GetDict(n); err != nil {
			return nil, fmt.Errorf("widget[AP][N]: %w", err)
		}
		apnRef, apnIsRef = n, true
	case pdfstruct.Dict:
		apn = n
	default:
		return nil, errors.New("widget[AP][N] is not a Dict")
	}

	normalized := make(pdfstruct.Dict, len(apn))
	changed := false
	for key, val := range apn {
		clean := pdfname.EncodeName(pdfname.DecodeName(key))
		normalized[clean] = val
		if clean != key {
			changed = true
		}
	}
	if !changed {
		return apn, nil
	}

	if apnIsRef {
		pdf.UpdateObject(apnRef, normalized)
	} else {
		ap["N"] = normalized
		if apIsRef {
			pdf.UpdateObject(apRef, ap)
		} else {
			widget["AP"] = ap
			pdf.UpdateObject(widgetRef, widget)
		}
	}
	return normalized, nil
}

// onStateKeys returns apn's On-state keys (every key that doesn't normalize
// to "Off") in a fixed, sorted order. /AP /N is a Go map with no memory of
// the order its entries appeared in the PDF, so "the first On-state key" is
// otherwise nondeterministic across runs; sorting by the raw Name bytes
// gives repeated fills of the same document the same answer every time.
func onStateKeys(apn pdfstruct.Dict) []pdfstruct.Name {
	keys := make([]pdfstruct.Name, 0, len(apn))
	for key := range apn {
		if !pdfname.IsOff(string(key)) {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
