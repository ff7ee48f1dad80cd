package pdfform

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kilroy-fr/pdfforms/schema"
)

// Plan is the output of BuildPlan: the three maps the Widget Writer consumes
// to mutate a template, keyed the way the template itself is keyed (field
// name for text/checkbox, radio group name for radio_map).
type Plan struct {
	TextMap     map[string]string
	CheckboxMap map[string]bool
	RadioMap    map[string]string
	Warnings    []string
}

var (
	dateFieldNames = map[string]bool{"VERS_GEBDAT": true, "PAT_Geburtsdatum": true}
	icd10FieldRE   = regexp.MustCompile(`^VERS_DIAGNOSESCH_[1-4]$`)
)

// normalizeTextValue applies the per-field-name-pattern text normalization:
// date fields keep digits only (truncated to 8), ICD-10 fields keep
// alphanumerics upper-cased (truncated to 5), everything else is only
// trimmed.
func normalizeTextValue(fieldName, value string) string {
	switch {
	case dateFieldNames[fieldName]:
		return truncateRunes(keepDigits(value), 8)
	case icd10FieldRE.MatchString(fieldName):
		return truncateRunes(strings.ToUpper(keepAlnum(value)), 5)
	default:
		return strings.TrimSpace(value)
	}
}

func keepDigits(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func keepAlnum(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// BuildPlan turns a list of runtime field instances into a Plan, given the
// form definition that declares each field's kind, radio group, and target
// PDF state text.
func BuildPlan(def *schema.FormDefinition, instances []schema.FieldInstance) Plan {
	plan := Plan{
		TextMap:     make(map[string]string),
		CheckboxMap: make(map[string]bool),
		RadioMap:    make(map[string]string),
	}
	radioTruthyCount := make(map[string]int)
	for _, inst := range instances {
		fdef, ok := def.FieldByName(inst.FieldName)
		if !ok {
			continue
		}
		switch fdef.Kind {
		case schema.Text:
			if inst.Value == "" {
				continue
			}
			plan.TextMap[fdef.Name] = normalizeTextValue(fdef.Name, inst.Value)
		case schema.Checkbox:
			if schema.Truthy(inst.Value) {
				plan.CheckboxMap[fdef.Name] = true
			}
		case schema.RadioMember:
			if !schema.Truthy(inst.Value) {
				continue
			}
			radioTruthyCount[fdef.RadioGroup]++
			if radioTruthyCount[fdef.RadioGroup] > 1 {
				plan.Warnings = append(plan.Warnings, fmt.Sprintf(
					"radio group %q has more than one truthy member; %q overrides the previous selection",
					fdef.RadioGroup, fdef.Name))
			}
			plan.RadioMap[fdef.RadioGroup] = fdef.PDFState
		}
	}
	return plan
}
