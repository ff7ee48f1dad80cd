// Package burnin implements the last-resort visible-mark pass: for a
// configured whitelist of historically problematic widgets, it draws an X
// directly into the containing page's content stream, so the selection is
// visible even to viewers that render widget annotations poorly or not at
// all.
package burnin

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/kilroy-fr/pdfforms/pdfform"
	"github.com/kilroy-fr/pdfforms/pdfstruct"
)

// Result reports which whitelisted fields actually received a mark.
type Result struct {
	Marked []string
}

// Run draws a burn-in X for every field name in whitelist that currently
// has a selected widget. Fields absent or unselected are silently skipped;
// this pass runs after the Repair Pass, so "unselected" reliably means "the
// user did not choose an option for this group."
func Run(pdf *pdfstruct.PDF, whitelist []string) (Result, error) {
	var res Result
	for _, name := range whitelist {
		sw, ok, err := pdfform.ResolveSelectedWidget(pdf, name)
		if err != nil {
			return res, fmt.Errorf("field %q: %w", name, err)
		}
		if !ok {
			continue
		}
		if err := markWidget(pdf, sw); err != nil {
			return res, fmt.Errorf("field %q: %w", name, err)
		}
		res.Marked = append(res.Marked, name)
	}
	return res, nil
}

// markWidget appends a content stream drawing two diagonal lines across
// sw.Rect, inset 1pt, stroked black at 1.1pt, onto sw.Page.
func markWidget(pdf *pdfstruct.PDF, sw pdfform.SelectedWidget) error {
	x0, y0, x1, y1 := sw.Rect[0], sw.Rect[1], sw.Rect[2], sw.Rect[3]
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "q 1.1 w 0 0 0 RG %f %f m %f %f l S %f %f m %f %f l S Q\n",
		x0+1, y0+1, x1-1, y1-1,
		x0+1, y1-1, x1-1, y0+1)

	page, err := pdf.GetDict(sw.Page)
	if err != nil {
		return fmt.Errorf("page: %w", err)
	}
	markStream := pdfstruct.Stream{
		Dict: pdfstruct.Dict{},
		Data: buf.Bytes(),
	}
	markRef := pdf.CreateObject(markStream)

	switch c := page["Contents"].(type) {
	case pdfstruct.Reference:
		page["Contents"] = pdfstruct.Array{c, markRef}
	case pdfstruct.Array:
		page["Contents"] = append(c, markRef)
	default:
		return errors.New("page[Contents] is not a Reference or Array")
	}
	pdf.UpdateObject(sw.Page, page)
	return nil
}
