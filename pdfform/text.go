package pdfform

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/kilroy-fr/pdfforms/pdfstruct"
)

/*
Text fields are encoded in the PDF generally as follows:
    /Root/AcroForm/Fields/10 = (#198,0) -> Dict<<
        /T = "Origin Msg #"			[field name]
        /DA = "/TiRo 12 Tf 0 g"			[default appearance: font, font size, color]
        /P = (#18,0)				[reference to containing page]
        /Rect = Array[...]			[rectangle on page]
        /Subtype = /Widget
        /Type = /Annot
        /DV = (#336,0)				[reference to default value (usually empty)]
        /F = 4					[flags: field should print]
        /FT = /Tx				[field type is text]
        /MK = Dict<<>>				[not sure what this is for]
        /AP = Dict<<				[appearance dictionary, sometimes absent if field is empty]
            /N = (#368,0) -> Stream<<		["N" is normal appearance, generally the only one defined; must be separate object]
                /Type = /XObject
                /Subtype = /Form
                /BBox = Array[...]		[bounding box for the field, relative to bottom left of field /Rect]
                /Resources = Dict<<		[resources used by content stream]
                    /ProcSet = Array[
                        [0] = /PDF		[it uses PDF operators]
                        [1] = /Text		[it uses text operators]
                    ]
                    /Font = Dict<<
                        /TiRo = (#332,0)	[it uses the font named in /DA above]
                    >>
                >>
                /Length = 124			[length of content stream]
            >>
	    "/Tx BMC				[begin marked content for field text]
	     q 					[save graphics state]
	     1 1 65.256000 12.867000 re 	[define rectangular path, inset from bounding box]
	     W 					[set path as clipping path]
	     n 					[don't need path anymore]
	     BT 				[begin text object]
	     /TiRo 12.000000 Tf 		[set font and size]
	     0 0 0.6 rg 			[set color]
	     14.400000 TL 			[set leading for multi-line fields]
	     2 2.633500 Td 			[set initial baseline position]
	     (RSC-103P) Tj 			[write first line of text]
	     T* (second) Tj 			[write subsequent lines of text]
	     ET 				[end text object]
	     Q 					[restore saved graphics state]
	     EMC\n" 				[end of marked content]
        >>
    >>

In at least one case, where the same field value is displayed in multiple
places, the field dictionary contains only /T, /TU, /DA, /FT, and /Ff, plus a
Kids array mapping to multiple annotation dictionaries containing the rest of
the fields.

Ff bit 25 (value 1<<24) marks a comb field: the value is rendered one
character per fixed-width cell, computed from the field's MaxLen. Ff bit 13
(value 1<<12) marks a multiline field, which word-wraps instead of clipping
to one line.
*/

const (
	ffComb      = 1 << 24
	ffMultiline = 1 << 12
)

// setText sets the value of a text field in a form, synthesizing a fresh
// /AP /N for every widget (comb, multiline, or single-line, as the field's
// flags and MaxLen dictate).
func setText(
	pdf *pdfstruct.PDF, form, field pdfstruct.Dict, fieldref pdfstruct.Reference, value string,
) (err error) {
	if curr, ok := field["V"].(string); ok && curr == value {
		return nil
	}
	field["V"] = value
	pdf.UpdateObject(fieldref, field)

	attrs := ResolveInherited(pdf, field)
	var daFontName string
	if daFontName, _, err = textFontNameSize(attrs.DA); err != nil {
		return err
	}
	var fontRef pdfstruct.Reference
	if fontRef, err = textResourcesFont(pdf, form, daFontName); err != nil {
		return err
	}

	flags := attrs.Ff
	maxLen := attrs.MaxLen

	var kids pdfstruct.Array
	switch a := field["Kids"].(type) {
	case nil:
		kids = append(kids, fieldref)
	case pdfstruct.Reference:
		if kids, err = pdf.GetArray(a); err != nil {
			return fmt.Errorf("field[Kids]: %s", err)
		}
	case pdfstruct.Array:
		kids = a
	default:
		return errors.New("field[Kids] is not an Array")
	}
	for i, k := range kids {
		var kid pdfstruct.Dict
		var kidref pdfstruct.Reference
		if k == fieldref {
			kid, kidref = field, fieldref
		} else {
			switch k := k.(type) {
			case pdfstruct.Reference:
				if kid, err = pdf.GetDict(k); err != nil {
					return fmt.Errorf("field[Kids][%d]: %s", i, err)
				}
				kidref = k
			default:
				return fmt.Errorf("field[Kids][%d] is not a Reference", i)
			}
		}
		var bbox []float64
		var bboxa pdfstruct.Array
		if bbox, bboxa, err = textBBox(pdf, kidref, kid); err != nil {
			return fmt.Errorf("field[Kids][%d]: %s", i, err)
		}
		// The font size is derived from the widget's height,
		// clamp(H*0.6, 7, 11), whatever size the /DA string names.
		fontSize := clampFontSize(bbox[3] * 0.6)
		var cstream []byte
		switch {
		case flags&ffComb != 0 && maxLen > 0:
			cstream = combCStream(bbox, value, daFontName, fontSize, maxLen)
		case flags&ffMultiline != 0:
			cstream = multilineCStream(bbox, value, daFontName, fontSize)
		default:
			cstream = singleLineCStream(bbox, value, daFontName, fontSize)
		}
		if err = textAPN(pdf, kidref, kid, bboxa, daFontName, fontRef, cstream); err != nil {
			return fmt.Errorf("field[Kids][%d]: %s", i, err)
		}
	}
	return nil
}

func clampFontSize(f float64) float64 {
	switch {
	case f < 7.0:
		return 7.0
	case f > 11.0:
		return 11.0
	default:
		return f
	}
}

// textBBox computes the bounding box for the field appearance XObject.
func textBBox(
	pdf *pdfstruct.PDF, widgetref pdfstruct.Reference, widget pdfstruct.Dict,
) (bbox []float64, bboxa pdfstruct.Array, err error) {
	var recta pdfstruct.Array
	switch a := widget["Rect"].(type) {
	case nil:
		return nil, nil, errors.New("widget[Rect] is not set")
	case pdfstruct.Reference:
		if recta, err = pdf.GetArray(a); err != nil {
			return nil, nil, fmt.Errorf("widget[Rect]: %s", err)
		}
	case pdfstruct.Array:
		recta = a
	default:
		return nil, nil, errors.New("widget[Rect] is not an Array")
	}
	if len(recta) != 4 {
		return nil, nil, errors.New("widget[Rect] is not an Array of length 4")
	}
	var rect = make([]float64, 4)
	for i, v := range recta {
		switch v := v.(type) {
		case int:
			rect[i] = float64(v)
		case float64:
			rect[i] = v
		default:
			return nil, nil, errors.New("widget[Rect] is not an Array of 4 numbers")
		}
	}
	bbox = make([]float64, 4)
	bbox[0], bbox[1], bbox[2], bbox[3] = 0, 0, rect[2]-rect[0], rect[3]-rect[1]
	bboxa = make(pdfstruct.Array, 4)
	for i, v := range bbox {
		bboxa[i] = v
	}
	return bbox, bboxa, nil
}

var textDAFontRE = regexp.MustCompile(`/(\S+)\s*([0-9]+(?:\.[0-9]*)?)\s*Tf\b`)

// textFontNameSize returns the font name and size from a field's (possibly
// inherited) default appearance string. A zero size means da doesn't pin
// one down.
func textFontNameSize(da string) (name string, size float64, err error) {
	if da == "" {
		return "", 0, errors.New("field[DA] is not set")
	}
	var match []string
	if match = textDAFontRE.FindStringSubmatch(da); match == nil {
		return "", 0, errors.New("field[DA] does not contain a font setting")
	}
	name = match[1]
	size, _ = strconv.ParseFloat(match[2], 64)
	return name, size, nil
}

// textResourcesFont returns the font dictionary for the named font.
func textResourcesFont(pdf *pdfstruct.PDF, form pdfstruct.Dict, fontName string) (ref pdfstruct.Reference, err error) {
	var dr pdfstruct.Dict
	switch a := form["DR"].(type) {
	case nil:
		return ref, errors.New("AcroForm[DR] is not present")
	case pdfstruct.Reference:
		if dr, err = pdf.GetDict(a); err != nil {
			return ref, fmt.Errorf("AcroForm[DR]: %s", err)
		}
	case pdfstruct.Dict:
		dr = a
	default:
		return ref, errors.New("AcroForm[DR] is not a Dict")
	}
	var font pdfstruct.Dict
	switch a := dr["Font"].(type) {
	case nil:
		return ref, errors.New("AcroForm[DR][Font] is not present")
	case pdfstruct.Reference:
		if font, err = pdf.GetDict(a); err != nil {
			return ref, fmt.Errorf("AcroForm[DR][Font]: %s", err)
		}
	case pdfstruct.Dict:
		font = a
	default:
		return ref, errors.New("AcroForm[DR][Font] is not a Dict")
	}
	switch a := font[pdfstruct.Name(fontName)].(type) {
	case nil:
		return ref, fmt.Errorf("field[DA] references font %q which is not defined in AcroForm[DR][Font]", fontName)
	case pdfstruct.Reference:
		return a, nil
	default:
		return ref, fmt.Errorf("AcroForm[DR][Form][%s] is not a Reference", fontName)
	}
}

// Ideally we would compute line placement based on actual font metrics, but
// that's hard. For now we hard-code a font ratio that holds well enough for
// Helvetica/WinAnsiEncoding.
const ascenderToTotalRatio = 0.8

// advanceWidthClass buckets a rune into the three-way approximate Helvetica
// advance-width table: narrow, wide, or average.
func advanceWidthClass(r rune) float64 {
	switch r {
	case 'i', 'l', '.', ',', ':', ';', '|', '!', '\'', '`':
		return 0.28
	case 'm', 'w', 'M', 'W', '@', '#', '%', '&':
		return 0.82
	default:
		return 0.55
	}
}

func textWidth(s string, fontSize float64) float64 {
	var w float64
	for _, r := range s {
		w += advanceWidthClass(r) * fontSize
	}
	return w
}

// wordWrap breaks value into lines no wider than maxWidth, using the
// approximate advance-width table. A single token that alone exceeds
// maxWidth is hard-broken rune by rune.
func wordWrap(value string, fontSize, maxWidth float64) []string {
	var lines []string
	for _, para := range strings.Split(value, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		var cur strings.Builder
		var curWidth float64
		flush := func() {
			lines = append(lines, cur.String())
			cur.Reset()
			curWidth = 0
		}
		for _, word := range words {
			wordWidth := textWidth(word, fontSize)
			if wordWidth > maxWidth {
				if cur.Len() > 0 {
					flush()
				}
				var piece strings.Builder
				var pieceWidth float64
				for _, r := range word {
					rw := advanceWidthClass(r) * fontSize
					if pieceWidth+rw > maxWidth && piece.Len() > 0 {
						lines = append(lines, piece.String())
						piece.Reset()
						pieceWidth = 0
					}
					piece.WriteRune(r)
					pieceWidth += rw
				}
				cur.WriteString(piece.String())
				curWidth = pieceWidth
				continue
			}
			sep := ""
			sepWidth := 0.0
			if cur.Len() > 0 {
				sep = " "
				sepWidth = advanceWidthClass(' ') * fontSize
			}
			if curWidth+sepWidth+wordWidth > maxWidth && cur.Len() > 0 {
				flush()
				sep, sepWidth = "", 0
			}
			cur.WriteString(sep)
			cur.WriteString(word)
			curWidth += sepWidth + wordWidth
		}
		if cur.Len() > 0 || len(lines) == 0 {
			flush()
		}
	}
	return lines
}

func singleLineCStream(bbox []float64, value, fontName string, fontSize float64) []byte {
	lines := wordWrap(value, fontSize, bbox[2]-2.0)
	first := ""
	if len(lines) > 0 {
		first = lines[0]
	}
	var buf bytes.Buffer
	topline := bbox[3]/2 + fontSize/2 - ascenderToTotalRatio*fontSize
	fmt.Fprintf(&buf, "/Tx BMC q 1 1 %f %f re W n BT /%s %f Tf 0 0 0.6 rg 2 %f Td ",
		bbox[2]-2.0, bbox[3]-2.0, fontName, fontSize, topline)
	fmt.Fprintf(&buf, "%s Tj ", encodeString(first))
	buf.WriteString("ET Q EMC\n")
	return buf.Bytes()
}

func multilineCStream(bbox []float64, value, fontName string, fontSize float64) []byte {
	leading := fontSize * 1.15
	maxLines := int(bbox[3] / leading)
	if maxLines < 1 {
		maxLines = 1
	}
	lines := wordWrap(value, fontSize, bbox[2]-4.0)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	topline := bbox[3] - 2.0 - ascenderToTotalRatio*fontSize

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "/Tx BMC q 1 1 %f %f re W n BT /%s %f Tf 0 0 0.6 rg %f TL 2 %f Td ",
		bbox[2]-2.0, bbox[3]-2.0, fontName, fontSize, leading, topline)
	for i, line := range lines {
		if i > 0 {
			buf.WriteString("T* ")
		}
		fmt.Fprintf(&buf, "%s Tj ", encodeString(line))
	}
	buf.WriteString("ET Q EMC\n")
	return buf.Bytes()
}

// combCStream renders value one character per fixed-width cell, as required
// for comb fields (Ff bit 25 set, MaxLen > 0): whitespace is stripped, the
// value truncated to maxLen, and each glyph centered in its cell.
func combCStream(bbox []float64, value, fontName string, fontSize float64, maxLen int) []byte {
	stripped := strings.Join(strings.Fields(value), "")
	runes := []rune(stripped)
	if len(runes) > maxLen {
		runes = runes[:maxLen]
	}
	cellWidth := bbox[2] / float64(maxLen)
	y := (bbox[3] - fontSize) / 2

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "/Tx BMC q 1 1 %f %f re W n BT /%s %f Tf 0 0 0.6 rg ",
		bbox[2]-2.0, bbox[3]-2.0, fontName, fontSize)
	x := 0.0
	for _, r := range runes {
		glyphWidth := advanceWidthClass(r) * fontSize
		centerX := x + (cellWidth-glyphWidth)/2
		fmt.Fprintf(&buf, "1 0 0 1 %f %f Tm %s Tj ", centerX, y, encodeString(string(r)))
		x += cellWidth
	}
	buf.WriteString("ET Q EMC\n")
	return buf.Bytes()
}

var cp1252Encoder = charmap.Windows1252.NewEncoder()

// encodeString encodes s as a PDF literal string. The value is first
// transcoded from UTF-8 to CP1252 (the encoding WinAnsiEncoding fonts
// expect); any character with no CP1252 representation is replaced by '?'
// rather than failing the whole render. Parentheses and backslashes are
// backslash-escaped; bytes outside the printable ASCII range 32..126 are
// escaped as octal \nnn so the result survives any PDF tokenizer.
func encodeString(s string) string {
	var enc []byte
	for _, r := range s {
		b, err := cp1252Encoder.String(string(r))
		if err != nil {
			b = "?"
		}
		enc = append(enc, b...)
	}
	cp1252 := string(enc)
	var sb strings.Builder
	sb.WriteByte('(')
	for i := 0; i < len(cp1252); i++ {
		b := cp1252[i]
		switch {
		case b == '\\' || b == '(' || b == ')':
			sb.WriteByte('\\')
			sb.WriteByte(b)
		case b < 32 || b > 126:
			fmt.Fprintf(&sb, "\\%03o", b)
		default:
			sb.WriteByte(b)
		}
	}
	sb.WriteByte(')')
	return sb.String()
}

// textAPN computes and saves the appearance of a text field.
func textAPN(
	pdf *pdfstruct.PDF, widgetref pdfstruct.Reference, widget pdfstruct.Dict, bbox pdfstruct.Array, fontName string,
	fontRef pdfstruct.Reference, cstream []byte,
) (err error) {
	var apn pdfstruct.Stream
	apn.Dict = make(pdfstruct.Dict)
	apn.Dict["Type"] = pdfstruct.Name("XObject")
	apn.Dict["Subtype"] = pdfstruct.Name("Form")
	apn.Dict["BBox"] = bbox
	var rd = pdfstruct.Dict{
		"Font": pdfstruct.Dict{
			pdfstruct.Name(fontName): fontRef,
		},
		"ProcSet": pdfstruct.Array{
			pdfstruct.Name("PDF"),
			pdfstruct.Name("Text"),
		},
	}
	apn.Dict[pdfstruct.Name("Resources")] = rd
	apn.Data = cstream
	// Note that N must be a separate object; the spec doesn't say that, but
	// most readers won't work if it isn't.
	var ap pdfstruct.Dict
	switch a := widget["AP"].(type) {
	case nil:
		ap = make(pdfstruct.Dict)
		ap["N"] = pdf.CreateObject(apn)
		widget["AP"] = ap
		pdf.UpdateObject(widgetref, widget)
	case pdfstruct.Reference:
		if ap, err = pdf.GetDict(a); err != nil {
			return fmt.Errorf("widget[AP]: %s", err)
		}
		switch b := ap["N"].(type) {
		case pdfstruct.Reference:
			pdf.UpdateObject(b, apn)
		default:
			ap["N"] = pdf.CreateObject(apn)
			pdf.UpdateObject(a, ap)
		}
	case pdfstruct.Dict:
		ap = a
		switch b := ap["N"].(type) {
		case pdfstruct.Reference:
			pdf.UpdateObject(b, apn)
		default:
			ap["N"] = pdf.CreateObject(apn)
		}
	default:
		return errors.New("widget[AP] is not a Dict")
	}
	return nil
}
