// Package schema declares the logical field model that drives the mutation
// engine: per-form lists of fields (text, checkbox, or radio-group member),
// plus the plain-function propagation pipeline that replaces the per-form
// customization hooks of the source this engine was modeled on. Sender-data
// fill-in lives in package session (ApplySenderData).
package schema

// FieldKind is the type of a logical field.
type FieldKind string

const (
	Text        FieldKind = "text"
	Checkbox    FieldKind = "checkbox"
	RadioMember FieldKind = "radio_member"
)

// FieldStatus is informational; the engine never reads it.
type FieldStatus string

const (
	StatusUnfilled FieldStatus = "unfilled"
	StatusFilled   FieldStatus = "filled"
	StatusManual   FieldStatus = "manual"
)

// FieldDef is a schema entry: the immutable, declarative description of one
// logical field (§3 of the governing specification).
type FieldDef struct {
	Name        string
	Kind        FieldKind
	LabelDE     string
	Section     int
	Description string

	// RadioGroup and PDFState only apply to RadioMember fields: RadioGroup
	// is the /T of the parent radio field, PDFState is the exact Unicode
	// text of the target On-state key in /AP /N.
	RadioGroup string
	PDFState   string

	ConditionalOn    string
	ConditionalValue string
	ExtractFromAI    bool
}

// FormDefinition is one form's ordered, immutable field list.
type FormDefinition struct {
	FormID           string
	FormTitle        string
	TemplateFilename string
	Fields           []FieldDef
}

// FieldInstance is the runtime pairing of a schema entry's name with a
// submitted value (§3 "Field instance (runtime)").
type FieldInstance struct {
	FieldName string
	Value     string
	Status    FieldStatus
}

// Truthy is the case-insensitive truthy set shared by checkbox and
// radio_member values.
func Truthy(value string) bool {
	switch normalizeASCIILower(value) {
	case "ja", "yes", "true", "1", "on":
		return true
	default:
		return false
	}
}

func normalizeASCIILower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	// trim surrounding ASCII whitespace without pulling in strings.TrimSpace
	// for this narrow byte-oriented check
	start, end := 0, len(b)
	for start < end && isASCIISpace(b[start]) {
		start++
	}
	for end > start && isASCIISpace(b[end-1]) {
		end--
	}
	return string(b[start:end])
}

func isASCIISpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
