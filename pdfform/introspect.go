package pdfform

import "github.com/kilroy-fr/pdfforms/pdfstruct"

// FieldAttrs is the set of AcroForm field attributes that PDF allows a widget
// to inherit from its /Parent rather than declare itself.
type FieldAttrs struct {
	FT     pdfstruct.Name
	Ff     int
	MaxLen int
	DA     string
}

// ResolveInherited walks field's /Parent chain, filling in any of /FT, /Ff,
// /MaxLen, /DA that field itself doesn't declare from the nearest ancestor
// that does. Widgets in this template family are sometimes written with
// only /T and /Kids on the parent and the rest on each kid, or the reverse,
// so every caller that reads one of these four keys should go through here
// rather than indexing field directly.
func ResolveInherited(pdf *pdfstruct.PDF, field pdfstruct.Dict) FieldAttrs {
	var attrs FieldAttrs
	seen := make(map[pdfstruct.Reference]bool)
	cur := field
	for {
		if attrs.FT == "" {
			if v, ok := cur["FT"].(pdfstruct.Name); ok {
				attrs.FT = v
			}
		}
		if attrs.Ff == 0 {
			if v, ok := cur["Ff"].(int); ok {
				attrs.Ff = v
			}
		}
		if attrs.MaxLen == 0 {
			if v, ok := cur["MaxLen"].(int); ok {
				attrs.MaxLen = v
			}
		}
		if attrs.DA == "" {
			if v, ok := cur["DA"].(string); ok {
				attrs.DA = v
			}
		}
		parentRef, ok := cur["Parent"].(pdfstruct.Reference)
		if !ok || seen[parentRef] {
			return attrs
		}
		seen[parentRef] = true
		parent, err := pdf.GetDict(parentRef)
		if err != nil {
			return attrs
		}
		cur = parent
	}
}
