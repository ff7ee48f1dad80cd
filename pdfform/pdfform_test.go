package pdfform

import (
	"testing"

	"github.com/mattetti/filebuffer"
	"github.com/stretchr/testify/require"

	"github.com/kilroy-fr/pdfforms/internal/pdffixture"
	"github.com/kilroy-fr/pdfforms/pdfstruct"
)

func openFixture(t *testing.T, spec pdffixture.Spec) *pdfstruct.PDF {
	t.Helper()
	data, err := pdffixture.Build(spec)
	require.NoError(t, err)
	pdf, err := pdfstruct.Open(filebuffer.New(data))
	require.NoError(t, err)
	return pdf
}

func TestGetFieldsEmptyDocument(t *testing.T) {
	pdf := openFixture(t, pdffixture.Spec{})
	fields, err := GetFields(pdf)
	require.NoError(t, err)
	require.Empty(t, fields)
}

func TestSetTextFieldSingleLine(t *testing.T) {
	pdf := openFixture(t, pdffixture.Spec{
		TextFields: []pdffixture.TextField{
			{Name: "VERS_NAME", Rect: pdffixture.Rect{50, 700, 300, 720}},
		},
	})
	require.NoError(t, SetTextField(pdf, "VERS_NAME", "Erika Musterfrau"))

	fields, err := GetFields(pdf)
	require.NoError(t, err)
	require.Equal(t, "Erika Musterfrau", fields["VERS_NAME"])
}

func TestSetTextFieldComb(t *testing.T) {
	pdf := openFixture(t, pdffixture.Spec{
		TextFields: []pdffixture.TextField{
			{Name: "VERS_GEBDAT", Rect: pdffixture.Rect{50, 700, 200, 720}, Ff: ffComb, MaxLen: 8},
		},
	})
	require.NoError(t, SetTextField(pdf, "VERS_GEBDAT", "01011990"))
	fields, err := GetFields(pdf)
	require.NoError(t, err)
	require.Equal(t, "01011990", fields["VERS_GEBDAT"])
}

func TestSetTextFieldRejectsWrongFieldType(t *testing.T) {
	pdf := openFixture(t, pdffixture.Spec{
		Checkboxes: []pdffixture.Checkbox{{Name: "AW_17", Rect: pdffixture.Rect{0, 0, 10, 10}, OnKey: "Ja"}},
	})
	err := SetTextField(pdf, "AW_17", "x")
	require.Error(t, err)
}

func TestSetCheckboxFieldOnAndOff(t *testing.T) {
	pdf := openFixture(t, pdffixture.Spec{
		Checkboxes: []pdffixture.Checkbox{{Name: "AW_17", Rect: pdffixture.Rect{0, 0, 10, 10}, OnKey: "Ja"}},
	})
	require.NoError(t, SetCheckboxField(pdf, "AW_17", true))
	fields, err := GetFields(pdf)
	require.NoError(t, err)
	require.Equal(t, "Ja", fields["AW_17"])

	require.NoError(t, SetCheckboxField(pdf, "AW_17", false))
	fields, err = GetFields(pdf)
	require.NoError(t, err)
	require.Equal(t, "Off", fields["AW_17"])
}

func TestSetCheckboxFieldNormalizesMojibakeOnStateKey(t *testing.T) {
	// The On-state key in /AP/N is stored mojibake-encoded, as some
	// templates in this family actually ship it; setCheckbox must still
	// find it, normalize it, and write a consistent, decodable key back.
	pdf := openFixture(t, pdffixture.Spec{
		Checkboxes: []pdffixture.Checkbox{{Name: "AW_18", Rect: pdffixture.Rect{0, 0, 10, 10}, OnKey: "\xdc\xc3\xa4"}},
	})
	require.NoError(t, SetCheckboxField(pdf, "AW_18", true))
	fields, err := GetFields(pdf)
	require.NoError(t, err)
	require.NotEqual(t, "Off", fields["AW_18"])
}

func TestSetRadioFieldSemanticMatch(t *testing.T) {
	pdf := openFixture(t, pdffixture.Spec{
		RadioGroups: []pdffixture.RadioGroup{
			{Name: "AW_3", Options: []string{"nein", "ja"}, Rect: pdffixture.Rect{0, 700, 20, 715}},
		},
	})
	require.NoError(t, SetRadioField(pdf, "AW_3", "ja", nil))
	fields, err := GetFields(pdf)
	require.NoError(t, err)
	require.Equal(t, "ja", fields["AW_3"])
}

func TestSetRadioFieldPositionalFallback(t *testing.T) {
	// On-state keys here carry no semantic content at all (bare numerals),
	// so the widget writer must fall back to knownOrder's position.
	pdf := openFixture(t, pdffixture.Spec{
		RadioGroups: []pdffixture.RadioGroup{
			{Name: "AW_20", Options: []string{"1", "2"}, Rect: pdffixture.Rect{0, 700, 20, 715}},
		},
	})
	require.NoError(t, SetRadioField(pdf, "AW_20", "ja", []string{"nein", "ja"}))
	fields, err := GetFields(pdf)
	require.NoError(t, err)
	require.Equal(t, "2", fields["AW_20"])
}

func TestSetRadioFieldMojibakeTarget(t *testing.T) {
	pdf := openFixture(t, pdffixture.Spec{
		RadioGroups: []pdffixture.RadioGroup{
			{Name: "AW_5_row", Options: []string{"EinschrÃ¤nkungen", "nicht durchführbar"}, Rect: pdffixture.Rect{0, 700, 20, 715}},
		},
	})
	require.NoError(t, SetRadioField(pdf, "AW_5_row", "Einschränkungen", nil))
	fields, err := GetFields(pdf)
	require.NoError(t, err)
	require.NotEqual(t, "Off", fields["AW_5_row"])
	require.NotEqual(t, "nicht durchführbar", fields["AW_5_row"])
}

func TestRepairRadioGroupIsIdempotent(t *testing.T) {
	pdf := openFixture(t, pdffixture.Spec{
		RadioGroups: []pdffixture.RadioGroup{
			{Name: "AW_23", Options: []string{"nein", "ja"}, Rect: pdffixture.Rect{0, 700, 20, 715}},
		},
	})
	require.NoError(t, SetRadioField(pdf, "AW_23", "ja", []string{"nein", "ja"}))
	ok, warning, err := RepairRadioGroup(pdf, "AW_23", []string{"nein", "ja"})
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, warning)
	fields, err := GetFields(pdf)
	require.NoError(t, err)
	require.Equal(t, "ja", fields["AW_23"])
}

func TestRepairRadioGroupAbsentGroup(t *testing.T) {
	pdf := openFixture(t, pdffixture.Spec{})
	ok, warning, err := RepairRadioGroup(pdf, "AW_99", []string{"nein", "ja"})
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, warning)
}

func TestRepairRadioGroupLeavesUnfilledGroupUntouched(t *testing.T) {
	// pdffixture.Build leaves every radio group's /V as "Off" with every
	// kid's /AS "Off" -- nobody has selected anything yet. Repair must not
	// fabricate a selection of knownOrder[0]; it has to leave the group
	// exactly as found.
	pdf := openFixture(t, pdffixture.Spec{
		RadioGroups: []pdffixture.RadioGroup{
			{Name: "AW_4", Options: []string{"Keine Beeinträchtigungen", "Einschränkungen"}, Rect: pdffixture.Rect{0, 700, 20, 715}},
		},
	})
	before, err := GetFields(pdf)
	require.NoError(t, err)
	require.Equal(t, "Off", before["AW_4"])

	ok, warning, err := RepairRadioGroup(pdf, "AW_4", []string{"Keine Beeinträchtigungen", "Einschränkungen"})
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, warning)

	after, err := GetFields(pdf)
	require.NoError(t, err)
	require.Equal(t, "Off", after["AW_4"])
}

func TestRepairRadioGroupReportsStateMismatchAsWarningNotError(t *testing.T) {
	// A group whose current /V decodes to something that matches no
	// On-state key, by semantic match or positional fallback, is a state
	// mismatch (§7): repair reports it but does not fail the whole pass,
	// and leaves the group as found.
	pdf := openFixture(t, pdffixture.Spec{
		RadioGroups: []pdffixture.RadioGroup{
			{Name: "AW_4", Options: []string{"Keine Beeinträchtigungen", "Einschränkungen"}, Rect: pdffixture.Rect{0, 700, 20, 715}},
		},
	})
	// Force the field's /V to a label that can't be resolved, bypassing
	// setRadioButton's own validation to simulate a drifted/foreign value.
	_, fields, err := acroForm(pdf)
	require.NoError(t, err)
	fieldref, field, err := findField(pdf, fields, "AW_4")
	require.NoError(t, err)
	field["V"] = pdfstruct.Name("Voellig unbekannter Zustand")
	pdf.UpdateObject(fieldref, field)

	ok, warning, err := RepairRadioGroup(pdf, "AW_4", []string{"Keine Beeinträchtigungen", "Einschränkungen"})
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, warning)

	after, err := GetFields(pdf)
	require.NoError(t, err)
	require.Equal(t, "Voellig unbekannter Zustand", after["AW_4"])
}
