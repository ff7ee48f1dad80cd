// Package pdffixture builds synthetic, byte-valid PDF documents for use as
// test fixtures elsewhere in this module. It constructs a minimal seed
// document by hand (just enough for pdfstruct.Open to parse a classic xref
// table and a Catalog/Pages tree), then builds the rest of the document --
// fonts, an AcroForm, a page, and its widgets -- through pdfstruct's own
// CreateObject/UpdateObject/Write path, the same path the engine uses when
// mutating a real template.
package pdffixture

import (
	"bytes"
	"fmt"
	"io"

	"github.com/kilroy-fr/pdfforms/pdfstruct"
)

// memFile is a trivial in-memory io.WriteSeeker + io.ReaderAt, used only
// to drive the construction below. Fixture consumers wrap the resulting
// bytes in their own file handle (e.g. filebuffer.Buffer) when opening it.
type memFile struct {
	buf []byte
	pos int64
}

func (m *memFile) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = m.pos + offset
	case io.SeekEnd:
		newPos = int64(len(m.buf)) + offset
	default:
		return 0, fmt.Errorf("pdffixture: invalid whence %d", whence)
	}
	if newPos < 0 {
		return 0, fmt.Errorf("pdffixture: negative seek position")
	}
	m.pos = newPos
	return newPos, nil
}

func (m *memFile) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		nb := make([]byte, end)
		copy(nb, m.buf)
		m.buf = nb
	}
	copy(m.buf[m.pos:], p)
	m.pos = end
	return len(p), nil
}

// Rect is a PDF widget rectangle: [llx lly urx ury].
type Rect [4]float64

func (r Rect) array() pdfstruct.Array {
	return pdfstruct.Array{r[0], r[1], r[2], r[3]}
}

// TextField describes a /Tx widget to add to the fixture's AcroForm.
type TextField struct {
	Name   string
	Rect   Rect
	DA     string // defaults to "/Helv 10 Tf 0 g" if empty
	Ff     int
	MaxLen int
}

// Checkbox describes a /Btn checkbox widget (Ff == 0). OnKey is the decoded
// (already-correct, or deliberately mojibake/garbled) label used as the
// On-state key in its /AP /N dictionary.
type Checkbox struct {
	Name  string
	Rect  Rect
	OnKey string
}

// RadioGroup describes a /Btn radio field with one kid widget per option.
// Options gives each kid's decoded On-state label, in order; the engine
// under test is expected to match one of them (semantically or
// positionally) against a requested state.
type RadioGroup struct {
	Name    string
	Options []string
	Rect    Rect // rect of the first option; later options are offset below it
}

// Spec describes the widgets a fixture document should contain.
type Spec struct {
	TextFields  []TextField
	Checkboxes  []Checkbox
	RadioGroups []RadioGroup
}

const seedHeader = "%PDF-1.7\n"

// buildSeed hand-assembles the smallest document pdfstruct.Open can parse: a
// Catalog (object 1) pointing at an empty Pages tree (object 2), a classic
// (table-style) xref section, and a trailer. Everything else -- the page,
// fonts, AcroForm and its fields -- gets added afterward through the normal
// CreateObject/UpdateObject/Write path.
func buildSeed() []byte {
	var buf bytes.Buffer
	buf.WriteString(seedHeader)
	off1 := buf.Len()
	buf.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	off2 := buf.Len()
	buf.WriteString("2 0 obj\n<< /Type /Pages /Kids [ ] /Count 0 >>\nendobj\n")
	xrefOff := buf.Len()
	buf.WriteString("xref\n0 3\n")
	buf.WriteString("0000000000 65535 f\r\n")
	fmt.Fprintf(&buf, "%010d 00000 n\r\n", off1)
	fmt.Fprintf(&buf, "%010d 00000 n\r\n", off2)
	buf.WriteString("trailer\n<< /Size 3 /Root 1 0 R >>\n")
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefOff)
	return buf.Bytes()
}

const (
	ffComb      = 1 << 24
	ffMultiline = 1 << 12
	ffRadio     = 1<<15 | 1<<14 // no-toggle-off (bit 15) + radio (bit 16, 0-indexed 14/15)
)

// blankXObject creates a minimal, content-free Form XObject suitable as one
// entry of a widget's /AP /N dictionary.
func blankXObject(pdf *pdfstruct.PDF, rect Rect) pdfstruct.Reference {
	return pdf.CreateObject(pdfstruct.Stream{
		Dict: pdfstruct.Dict{
			"Type":    pdfstruct.Name("XObject"),
			"Subtype": pdfstruct.Name("Form"),
			"BBox":    pdfstruct.Array{0, 0, rect[2] - rect[0], rect[3] - rect[1]},
		},
		Data: nil,
	})
}

// Build assembles a complete, incrementally-written PDF document from spec
// and returns its final bytes. The returned document has exactly one page,
// an AcroForm with a single Helvetica font resource named Helv, one widget
// per text field and checkbox, and one kid widget per option of each radio
// group.
func Build(spec Spec) ([]byte, error) {
	fh := &memFile{buf: buildSeed()}
	pdf, err := pdfstruct.Open(fh)
	if err != nil {
		return nil, fmt.Errorf("pdffixture: opening seed: %w", err)
	}

	pagesRef, ok := pdf.Catalog["Pages"].(pdfstruct.Reference)
	if !ok {
		return nil, fmt.Errorf("pdffixture: seed catalog has no Pages reference")
	}
	rootRef, ok := pdf.Info["Root"].(pdfstruct.Reference)
	if !ok {
		return nil, fmt.Errorf("pdffixture: seed trailer has no Root reference")
	}

	fontRef := pdf.CreateObject(pdfstruct.Dict{
		"Type":     pdfstruct.Name("Font"),
		"Subtype":  pdfstruct.Name("Type1"),
		"BaseFont": pdfstruct.Name("Helvetica"),
		"Encoding": pdfstruct.Name("WinAnsiEncoding"),
	})

	contentsRef := pdf.CreateObject(pdfstruct.Stream{Dict: pdfstruct.Dict{"Length": 0}, Data: nil})

	// page is referenced by every widget's /P before it exists, so allocate
	// its reference first and fill in Annots once the widgets are built.
	pageRef := pdf.CreateObject(pdfstruct.Dict{})

	var fieldRefs pdfstruct.Array
	var annotRefs pdfstruct.Array

	for _, tf := range spec.TextFields {
		da := tf.DA
		if da == "" {
			da = "/Helv 10 Tf 0 g"
		}
		d := pdfstruct.Dict{
			"FT":      pdfstruct.Name("Tx"),
			"T":       tf.Name,
			"Rect":    tf.Rect.array(),
			"DA":      da,
			"F":       4,
			"P":       pageRef,
			"Subtype": pdfstruct.Name("Widget"),
			"Type":    pdfstruct.Name("Annot"),
		}
		if tf.Ff != 0 {
			d["Ff"] = tf.Ff
		}
		if tf.MaxLen != 0 {
			d["MaxLen"] = tf.MaxLen
		}
		ref := pdf.CreateObject(d)
		fieldRefs = append(fieldRefs, ref)
		annotRefs = append(annotRefs, ref)
	}

	for _, cb := range spec.Checkboxes {
		onRef := blankXObject(pdf, cb.Rect)
		offRef := blankXObject(pdf, cb.Rect)
		d := pdfstruct.Dict{
			"FT":   pdfstruct.Name("Btn"),
			"T":    cb.Name,
			"Rect": cb.Rect.array(),
			"F":    4,
			"P":    pageRef,
			"AS":   pdfstruct.Name("Off"),
			"AP": pdfstruct.Dict{
				"N": pdfstruct.Dict{
					pdfstruct.Name(cb.OnKey): onRef,
					pdfstruct.Name("Off"):    offRef,
				},
			},
			"Subtype": pdfstruct.Name("Widget"),
			"Type":    pdfstruct.Name("Annot"),
		}
		ref := pdf.CreateObject(d)
		fieldRefs = append(fieldRefs, ref)
		annotRefs = append(annotRefs, ref)
	}

	for _, rg := range spec.RadioGroups {
		groupRef := pdf.CreateObject(pdfstruct.Dict{})
		kidRefs := make(pdfstruct.Array, 0, len(rg.Options))
		height := rg.Rect[3] - rg.Rect[1]
		for i, opt := range rg.Options {
			rect := rg.Rect
			rect[1] -= float64(i) * height
			rect[3] -= float64(i) * height
			onRef := blankXObject(pdf, rect)
			offRef := blankXObject(pdf, rect)
			kid := pdfstruct.Dict{
				"Parent": groupRef,
				"Rect":   rect.array(),
				"F":      4,
				"P":      pageRef,
				"AS":     pdfstruct.Name("Off"),
				"AP": pdfstruct.Dict{
					"N": pdfstruct.Dict{
						pdfstruct.Name(opt):   onRef,
						pdfstruct.Name("Off"): offRef,
					},
				},
				"Subtype": pdfstruct.Name("Widget"),
				"Type":    pdfstruct.Name("Annot"),
			}
			kidRef := pdf.CreateObject(kid)
			kidRefs = append(kidRefs, kidRef)
			annotRefs = append(annotRefs, kidRef)
		}
		pdf.UpdateObject(groupRef, pdfstruct.Dict{
			"FT":   pdfstruct.Name("Btn"),
			"T":    rg.Name,
			"Ff":   ffRadio,
			"V":    pdfstruct.Name("Off"),
			"Kids": kidRefs,
		})
		fieldRefs = append(fieldRefs, groupRef)
	}

	pdf.UpdateObject(pageRef, pdfstruct.Dict{
		"Type":      pdfstruct.Name("Page"),
		"Parent":    pagesRef,
		"MediaBox":  pdfstruct.Array{0, 0, 612.0, 792.0},
		"Resources": pdfstruct.Dict{},
		"Contents":  contentsRef,
		"Annots":    annotRefs,
	})
	pdf.UpdateObject(pagesRef, pdfstruct.Dict{
		"Type":  pdfstruct.Name("Pages"),
		"Kids":  pdfstruct.Array{pageRef},
		"Count": 1,
	})

	acroFormRef := pdf.CreateObject(pdfstruct.Dict{
		"Fields": fieldRefs,
		"DR": pdfstruct.Dict{
			"Font": pdfstruct.Dict{"Helv": fontRef},
		},
		"DA":             "/Helv 10 Tf 0 g",
		"NeedAppearances": true,
	})
	pdf.Catalog["AcroForm"] = acroFormRef
	pdf.UpdateObject(rootRef, pdf.Catalog)

	if err := pdf.Write(); err != nil {
		return nil, fmt.Errorf("pdffixture: writing: %w", err)
	}
	return fh.buf, nil
}
