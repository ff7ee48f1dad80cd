// Package pdfform reads and writes the fillable form fields in a PDF: the
// Template Introspector and the per-widget-type writers, exposed as
// SetTextField, SetCheckboxField and SetRadioField.
package pdfform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kilroy-fr/pdfforms/pdfstruct"
)

// GetFields returns a map from field name to field value for all fields in the
// PDF.
func GetFields(p *pdfstruct.PDF) (fields map[string]string, err error) {
	var (
		form  pdfstruct.Dict
		flist pdfstruct.Array
	)
	fields = make(map[string]string)
	switch ref := p.Catalog["AcroForm"].(type) {
	case nil:
		return fields, nil
	case pdfstruct.Dict:
		form = ref
	case pdfstruct.Reference:
		if form, err = p.GetDict(ref); err != nil {
			return nil, fmt.Errorf("reading form: %s", err)
		}
	default:
		return nil, errors.New("AcroForm entry in catalog is not a Dict")
	}
	switch a := form["Fields"].(type) {
	case nil:
		return fields, nil
	case pdfstruct.Array:
		flist = a
	default:
		return nil, errors.New("AcroForm/Fields is not an Array")
	}
	for i, f := range flist {
		if err = getField(p, fields, f, nil); err != nil {
			return nil, fmt.Errorf("AcroForm/Fields[%d]: %s", i, err)
		}
	}
	return fields, nil
}

func getField(p *pdfstruct.PDF, fields map[string]string, obj pdfstruct.Object, path []pdfstruct.Dict) (err error) {
	var field pdfstruct.Dict
	switch obj := obj.(type) {
	case pdfstruct.Reference:
		if field, err = p.GetDict(obj); err != nil {
			return err
		}
	case pdfstruct.Dict:
		field = obj
	default:
		return errors.New("not a Dict")
	}
	path = append(path, field)
	var kids pdfstruct.Array
	switch k := field["Kids"].(type) {
	case nil:
		break
	case pdfstruct.Reference:
		if kids, err = p.GetArray(k); err != nil {
			return fmt.Errorf("Kids: %s", err)
		}
	case pdfstruct.Array:
		kids = k
	default:
		return errors.New("Kids: not an Array")
	}
	if len(kids) != 0 {
		for i, k := range kids {
			if err = getField(p, fields, k, path); err != nil {
				return fmt.Errorf("Kids[%d]: %s", i, err)
			}
		}
		return nil
	}
	var name, value string
	for i, f := range path {
		switch n := f["T"].(type) {
		case nil:
			break
		case string:
			name += "." + n
		default:
			return fmt.Errorf("path[%d]/T is not a string", i)
		}
		switch v := f["V"].(type) {
		case nil:
			break
		case string:
			value = v
		case pdfstruct.Name:
			value = string(v)
		default:
			return fmt.Errorf("path[%d]/V is not a string or Name", i)
		}
	}
	if name != "" {
		fields[name[1:]] = value
	}
	return nil
}

// acroForm returns the PDF's /AcroForm dict and its top-level /Fields array.
func acroForm(pdf *pdfstruct.PDF) (form pdfstruct.Dict, fields pdfstruct.Array, err error) {
	switch f := pdf.Catalog["AcroForm"].(type) {
	case nil:
		return nil, nil, errors.New("PDF does not have any form fields")
	case pdfstruct.Reference:
		if form, err = pdf.GetDict(f); err != nil {
			return nil, nil, fmt.Errorf("AcroForm: %s", err)
		}
	case pdfstruct.Dict:
		form = f
	default:
		return nil, nil, errors.New("AcroForm is not a Dict")
	}
	switch a := form["Fields"].(type) {
	case nil:
		return form, nil, errors.New("PDF does not have any form fields")
	case pdfstruct.Reference:
		if fields, err = pdf.GetArray(a); err != nil {
			return nil, nil, fmt.Errorf("AcroForm[Fields]: %s", err)
		}
	case pdfstruct.Array:
		fields = a
	default:
		return nil, nil, errors.New("AcroForm[Fields] is not an Array")
	}
	return form, fields, nil
}

// findField walks AcroForm[Fields], following dotted names through Kids
// hierarchies, and returns the reference and dict of the named field.
func findField(pdf *pdfstruct.PDF, fields pdfstruct.Array, name string) (fieldref pdfstruct.Reference, field pdfstruct.Dict, err error) {
LOOP:
	for i, f := range fields {
		var (
			want  string
			fname string
			ok    bool
		)
		if fieldref, ok = f.(pdfstruct.Reference); !ok {
			return fieldref, nil, errors.New("AcroForm[Fields] element is not a Reference")
		}
		if field, err = pdf.GetDict(fieldref); err != nil {
			return fieldref, nil, fmt.Errorf("AcroForm[Fields][%d]: %s", i, err)
		}
		if fname, ok = field["T"].(string); !ok {
			return fieldref, nil, fmt.Errorf("AcroForm[Fields][%d][T] is not a string", i)
		}
		want = name
		idx := strings.IndexByte(want, '.')
		if idx >= 0 {
			want = want[:idx]
		}
		if fname != want {
			continue
		}
		if idx >= 0 {
			name = name[idx+1:]
			switch k := field["Kids"].(type) {
			case pdfstruct.Array:
				fields = k
			case pdfstruct.Reference:
				if fields, err = pdf.GetArray(k); err != nil {
					return fieldref, nil, err
				}
			default:
				return fieldref, nil, errors.New("expected hierarchical parent but Kids is not an Array")
			}
			goto LOOP
		}
		return fieldref, field, nil
	}
	return fieldref, nil, fmt.Errorf("no field named %q in form", name)
}

// SetTextField sets the value of a /Tx field and regenerates its appearance.
func SetTextField(pdf *pdfstruct.PDF, name, value string) error {
	form, fields, err := acroForm(pdf)
	if err != nil {
		return err
	}
	fieldref, field, err := findField(pdf, fields, name)
	if err != nil {
		return err
	}
	if ResolveInherited(pdf, field).FT != "Tx" {
		return fmt.Errorf("field %q is not a text field", name)
	}
	return setText(pdf, form, field, fieldref, value)
}

// SetCheckboxField sets a /Btn field with no Kids (a plain checkbox) on or
// off, discovering the template's own On-state key.
func SetCheckboxField(pdf *pdfstruct.PDF, name string, on bool) error {
	_, fields, err := acroForm(pdf)
	if err != nil {
		return err
	}
	fieldref, field, err := findField(pdf, fields, name)
	if err != nil {
		return err
	}
	if ResolveInherited(pdf, field).FT != "Btn" {
		return fmt.Errorf("field %q is not a button field", name)
	}
	return setCheckbox(pdf, fieldref, field, on)
}

// SetRadioField sets a /Btn field with Kids (a radio group) to the kid whose
// On-state key matches pdfState, using knownOrder as a positional fallback.
func SetRadioField(pdf *pdfstruct.PDF, name, pdfState string, knownOrder []string) error {
	_, fields, err := acroForm(pdf)
	if err != nil {
		return err
	}
	fieldref, field, err := findField(pdf, fields, name)
	if err != nil {
		return err
	}
	if ResolveInherited(pdf, field).FT != "Btn" {
		return fmt.Errorf("field %q is not a button field", name)
	}
	return setRadioButton(pdf, fieldref, field, pdfState, knownOrder)
}

// RepairRadioGroup re-verifies a radio group by name: it recovers the label
// text the group is currently supposed to show (from /V, or failing that
// from whichever kid's /AS is not /Off) and forces a fresh
// semantic-match-then-positional-fallback selection over it. Because
// SetRadioField only rewrites /AS/V that differ from the target, this is a
// no-op on an already-consistent group. ok is false (with no error) if the
// named group simply isn't present in this template.
//
// A group that is present but carries no current selection (no /V or a /V of
// /Off, and no kid with /AS != /Off — i.e. the user never touched it) is left
// untouched: there
// is no ground truth to repair toward, and fabricating a selection of
// knownOrder[0] would mark an option nobody chose. Likewise, a selection
// that matches no On-state key (state mismatch, §7) is reported back as a
// warning rather than an error: the caller leaves the group as found.
func RepairRadioGroup(pdf *pdfstruct.PDF, name string, knownOrder []string) (ok bool, warning string, err error) {
	_, fields, err := acroForm(pdf)
	if err != nil {
		return false, "", err
	}
	_, field, err := findField(pdf, fields, name)
	if err != nil {
		return false, "", nil
	}
	if ResolveInherited(pdf, field).FT != "Btn" {
		return false, "", nil
	}
	label, err := currentRadioLabel(pdf, field)
	if err != nil {
		return false, "", err
	}
	if label == "" {
		return true, "", nil
	}
	if err := SetRadioField(pdf, name, label, knownOrder); err != nil {
		if errors.Is(err, ErrNoStateMatch) {
			return true, fmt.Sprintf("radio group %q: %v", name, err), nil
		}
		return true, "", err
	}
	return true, "", nil
}
