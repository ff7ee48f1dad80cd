package pdfform

import (
	"errors"
	"fmt"

	"github.com/kilroy-fr/pdfforms/pdfstruct"
)

// SelectedWidget is the widget (checkbox or chosen radio kid) the Burn-In
// Pass needs: its rectangle and the page it lives on.
type SelectedWidget struct {
	Rect [4]float64
	Page pdfstruct.Reference
}

// ResolveSelectedWidget returns the currently-selected widget for a /Btn
// field named name: for a plain checkbox, the field itself if its /AS is
// not /Off; for a radio group, whichever kid's /AS is not /Off. ok is false
// (with no error) if the field is absent, not a button, or has no selection.
func ResolveSelectedWidget(pdf *pdfstruct.PDF, name string) (sw SelectedWidget, ok bool, err error) {
	_, fields, err := acroForm(pdf)
	if err != nil {
		return sw, false, err
	}
	fieldref, field, err := findField(pdf, fields, name)
	if err != nil {
		return sw, false, nil
	}
	if ResolveInherited(pdf, field).FT != "Btn" {
		return sw, false, nil
	}

	var kidsArr pdfstruct.Array
	switch k := field["Kids"].(type) {
	case nil:
		return widgetFromDict(pdf, field, fieldref)
	case pdfstruct.Reference:
		if kidsArr, err = pdf.GetArray(k); err != nil {
			return sw, false, fmt.Errorf("field[Kids]: %s", err)
		}
	case pdfstruct.Array:
		kidsArr = k
	default:
		return sw, false, errors.New("field[Kids] is not an Array")
	}
	for _, k := range kidsArr {
		var kid pdfstruct.Dict
		var kidref pdfstruct.Reference
		switch k := k.(type) {
		case pdfstruct.Reference:
			d, err := pdf.GetDict(k)
			if err != nil {
				continue
			}
			kid, kidref = d, k
		case pdfstruct.Dict:
			kid, kidref = k, fieldref
		}
		if sw, ok, err = widgetFromDict(pdf, kid, kidref); ok {
			return sw, true, err
		}
	}
	return sw, false, nil
}

func widgetFromDict(pdf *pdfstruct.PDF, widget pdfstruct.Dict, widgetref pdfstruct.Reference) (sw SelectedWidget, ok bool, err error) {
	if as, asOK := widget["AS"].(pdfstruct.Name); !asOK || as == "Off" {
		return sw, false, nil
	}
	var recta pdfstruct.Array
	switch a := widget["Rect"].(type) {
	case pdfstruct.Reference:
		if recta, err = pdf.GetArray(a); err != nil {
			return sw, false, fmt.Errorf("widget[Rect]: %s", err)
		}
	case pdfstruct.Array:
		recta = a
	default:
		return sw, false, errors.New("widget[Rect] is not set")
	}
	if len(recta) != 4 {
		return sw, false, errors.New("widget[Rect] is not an Array of length 4")
	}
	for i, v := range recta {
		switch v := v.(type) {
		case int:
			sw.Rect[i] = float64(v)
		case float64:
			sw.Rect[i] = v
		default:
			return sw, false, errors.New("widget[Rect] is not an Array of 4 numbers")
		}
	}
	page, pageOK := widget["P"].(pdfstruct.Reference)
	if !pageOK {
		return sw, false, errors.New("widget[P] is not a Reference")
	}
	sw.Page = page
	return sw, true, nil
}
