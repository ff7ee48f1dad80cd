package pdfform

import (
	"errors"
	"fmt"

	"github.com/kilroy-fr/pdfforms/pdfstruct"
)

/*
Checkboxes are encoded in the PDF as follows:
    /Root/AcroForm/Fields/3 = (#184,0) -> Dict<<
        /V = /Yes 			[current value, will be either /Yes or /Off or absent (meaning /Off)]
        /DR = Dict<<			[font resource that the "X" comes from]
            /Font = (#328,0)
        >>
        /Rect = Array[...]		[rectangle for the field]
        /Type = /Annot
        /FT = /Btn 			[note absence of /Ff, meaning /Ff=0, meaning checkbox]
        /MK = Dict<<
            /CA = "8"
        >>
        /AP = Dict<<...>>		[appearance states for the On state and /Off]
        /DA = "0 0 0 rg /F8 0 Tf"	[default appearance for "X" in box]
        /F = 4 				[field should print]
        /AS = /Yes 			[current state, will be either the On key or /Off]
        /P = (#18,0)			[reference to containing page]
        /DV = /Off			[default value]
        /Subtype = /Widget
        /T = "Planning"			[field name]
    >>

The key used for the On state is not always "Yes": it is whatever the
template author named it in /AP /N, and in this template family the key
itself is sometimes mojibake. onStateKey discovers it by inspecting the
widget's own appearance dictionary rather than assuming a literal name.
*/

// onStateKey returns the name of the checkbox's On appearance state, i.e.
// the one key of /AP /N that does not decode to "Off". It normalizes the
// dictionary's keys in place first (§4.E), so the key returned is always
// byte-identical to encode_name(decode_name(original key)).
func onStateKey(pdf *pdfstruct.PDF, fieldref pdfstruct.Reference, widget pdfstruct.Dict) (pdfstruct.Name, error) {
	apn, err := normalizeAPStates(pdf, fieldref, widget)
	if err != nil {
		return "", err
	}
	keys := onStateKeys(apn)
	if len(keys) == 0 {
		return "", errors.New("widget[AP][N] has no On state key")
	}
	return keys[0], nil
}

// setCheckbox sets the state of a single checkbox.  value is the truthy
// boolean the Mutation Planner produced for this field; the widget's own
// appearance dictionary supplies the actual On-state key to write, since
// that key is not a fixed literal in this template family.
func setCheckbox(pdf *pdfstruct.PDF, fieldref pdfstruct.Reference, field pdfstruct.Dict, on bool) (err error) {
	if !on {
		if v, ok := field["AS"].(pdfstruct.Name); ok && v == "Off" {
			return nil
		}
		field["V"] = pdfstruct.Name("Off")
		field["AS"] = pdfstruct.Name("Off")
		pdf.UpdateObject(fieldref, field)
		return nil
	}
	onKey, err := onStateKey(pdf, fieldref, field)
	if err != nil {
		return fmt.Errorf("field %q: %w", field["T"], err)
	}
	if v, ok := field["V"].(pdfstruct.Name); ok && v == onKey {
		return nil
	}
	field["V"] = onKey
	field["AS"] = onKey
	pdf.UpdateObject(fieldref, field)
	return nil
}
