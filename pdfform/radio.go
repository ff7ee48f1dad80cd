package pdfform

import (
	"errors"
	"fmt"

	"github.com/kilroy-fr/pdfforms/pdfname"
	"github.com/kilroy-fr/pdfforms/pdfstruct"
)

/*
Radio button sets are encoded in the PDF as follows:
    /Root/AcroForm/Fields/0 = (#9,0) -> Dict<<
        /Kids = Array[			[one kid for each button]
            [0] = (#177,0) -> Dict<<
                /F = 4			[flags: field should print]
                /P = (#18,0)		[reference to containing page]
                /Rect = Array[...]	[rectangle for field]
                /AP = Dict<<		[appearance dictionary]
                    /D = Dict<<...>>	[appearances for each state when mouse down]
                    /N = Dict<<		[appearences for each state normally]
                        /1 = (#19,0)	["1" here is the value when this button is selected]
                    >>
                >>
                /MK = Dict<<		[not sure what this is for, doesn't seem to matter]
                    /CA = "l"
                >>
                /Parent = (#9,0)	[reference to containing radio button set]
                /Subtype = /Widget
                /Type = /Annot
                /AS = /1		[current state of this button, either /Off or the name in /AP/N above]
            >>
            [1] = (#178,0)
            [2] = (#179,0)
        ]
        /T = "Immediate"		[field name]
        /FT = /Btn			[field type button]
        /Ff = 49152			[flags: radio behavior]
	/V = /1				[current value of radio button set; will be /Off or the name in one button's AP/N]
    >>

Note, however, that Mac OS Preview incorrectly encodes radio button settings.
When a radio button is turned on, it doesn't change the parent set at all, and
it adds /V, /FT, /T, and /Ff on the selected child.  It doesn't remove those
from any child that was deselected.  And it can't read its own encoding; when
you re-open the PDF, it doesn't show any radio button selected.

(Chrome, and presumably other browsers, doesn't save fillable fields at all.
Its Save feature saves the unedited PDF, and its Print-to-PDF feature prints the
field data but leaves it uneditable.)
*/

type radioKid struct {
	ref     pdfstruct.Reference
	dict    pdfstruct.Dict
	apnKeys []pdfstruct.Name
}

// ErrNoStateMatch is returned by setRadioButton when pdfState matches no
// kid's On-state key, by semantic match or positional fallback. It is a
// state mismatch (§7), not a structural fault: callers that can tolerate
// leaving the group unchanged (the Repair Pass) should treat it as a
// warning, not a fatal error.
var ErrNoStateMatch = errors.New("no On state matches requested label")

// resolveRadioTarget decides which kid of a radio group should be turned on
// for the given PDF-state text, using this engine's semantic-match-then-
// positional-fallback rule: an On-state key whose canonical token matches
// the requested one wins; failing that, the requested text's position in
// the group's known option order (schema.KnownRadioGroupOrder) selects the
// kid at the same index among the group's own On-state keys.
func resolveRadioTarget(kids []radioKid, pdfState string, knownOrder []string) (pdfstruct.Name, int, bool) {
	want := pdfname.Token(pdfState)
	for i, k := range kids {
		for _, key := range k.apnKeys {
			if pdfname.TokenOfName(key) == want {
				return key, i, true
			}
		}
	}
	if knownOrder == nil {
		return "", -1, false
	}
	pos := -1
	for i, opt := range knownOrder {
		if pdfname.Token(opt) == want {
			pos = i
			break
		}
	}
	if pos < 0 || pos >= len(kids) || len(kids[pos].apnKeys) == 0 {
		return "", -1, false
	}
	return kids[pos].apnKeys[0], pos, true
}

// currentRadioLabel recovers the decoded label a radio group is currently
// showing: the field's own /V if present and not /Off, else the decoded
// On-state key of whichever kid's /AS is not /Off. It returns "" when
// neither exists, i.e. the group has no current selection.
func currentRadioLabel(pdf *pdfstruct.PDF, field pdfstruct.Dict) (string, error) {
	if v, ok := field["V"].(pdfstruct.Name); ok && v != "" && v != "Off" {
		return pdfname.DecodeName(v), nil
	}
	var kidsArr pdfstruct.Array
	switch k := field["Kids"].(type) {
	case pdfstruct.Reference:
		arr, err := pdf.GetArray(k)
		if err != nil {
			return "", err
		}
		kidsArr = arr
	case pdfstruct.Array:
		kidsArr = k
	default:
		return "", errors.New("field[Kids] is not an Array")
	}
	for _, k := range kidsArr {
		var kid pdfstruct.Dict
		switch k := k.(type) {
		case pdfstruct.Reference:
			d, err := pdf.GetDict(k)
			if err != nil {
				continue
			}
			kid = d
		case pdfstruct.Dict:
			kid = k
		}
		if as, ok := kid["AS"].(pdfstruct.Name); ok && as != "Off" && as != "" {
			return pdfname.DecodeName(as), nil
		}
	}
	return "", nil
}

// setRadioButton sets the state of a set of radio buttons to the kid whose
// On-state key matches pdfState (semantically, or positionally via
// knownOrder as a last resort).  It sets V on the parent field and /AS on
// each of the individual buttons, forcing every non-selected kid to /Off.
func setRadioButton(pdf *pdfstruct.PDF, fieldref pdfstruct.Reference, field pdfstruct.Dict, pdfState string, knownOrder []string) (err error) {
	var kidsArr pdfstruct.Array
	switch k := field["Kids"].(type) {
	case nil:
		return errors.New("field[Kids] doesn't exist")
	case pdfstruct.Reference:
		if kidsArr, err = pdf.GetArray(k); err != nil {
			return fmt.Errorf("field[Kids]: %s", err)
		}
	case pdfstruct.Array:
		kidsArr = k
	default:
		return errors.New("field[Kids] is not an Array")
	}

	kids := make([]radioKid, len(kidsArr))
	for i, k := range kidsArr {
		var kid pdfstruct.Dict
		var kidref pdfstruct.Reference
		switch k := k.(type) {
		case pdfstruct.Reference:
			if kid, err = pdf.GetDict(k); err != nil {
				return fmt.Errorf("field[Kids][%d]: %s", i, err)
			}
			kidref = k
		case pdfstruct.Dict:
			kid = k
			kidref = fieldref
		default:
			return fmt.Errorf("field[Kids][%d] is not a Dict", i)
		}
		apn, err := normalizeAPStates(pdf, kidref, kid)
		if err != nil {
			return fmt.Errorf("field[Kids][%d]: %w", i, err)
		}
		kids[i] = radioKid{ref: kidref, dict: kid, apnKeys: onStateKeys(apn)}
	}

	target, targetIdx, found := resolveRadioTarget(kids, pdfState, knownOrder)
	if !found {
		return fmt.Errorf("field %q: %w: %q", field["T"], ErrNoStateMatch, pdfState)
	}

	if v, ok := field["V"].(pdfstruct.Name); !ok || v != target {
		field["V"] = target
		pdf.UpdateObject(fieldref, field)
	}
	for i, k := range kids {
		var want pdfstruct.Name = "Off"
		if i == targetIdx {
			want = target
		}
		if cur, ok := k.dict["AS"].(pdfstruct.Name); !ok || cur != want {
			k.dict["AS"] = want
			if k.ref != fieldref {
				pdf.UpdateObject(k.ref, k.dict)
			}
		}
	}
	return nil
}
