package repair

import (
	"testing"

	"github.com/mattetti/filebuffer"
	"github.com/stretchr/testify/require"

	"github.com/kilroy-fr/pdfforms/internal/pdffixture"
	"github.com/kilroy-fr/pdfforms/pdfform"
	"github.com/kilroy-fr/pdfforms/pdfstruct"
)

func TestRunRepairsKnownGroupAndSkipsAbsentOnes(t *testing.T) {
	data, err := pdffixture.Build(pdffixture.Spec{
		RadioGroups: []pdffixture.RadioGroup{
			{Name: "AW_3", Options: []string{"nein", "ja"}, Rect: pdffixture.Rect{0, 700, 20, 715}},
		},
	})
	require.NoError(t, err)
	pdf, err := pdfstruct.Open(filebuffer.New(data))
	require.NoError(t, err)

	require.NoError(t, pdfform.SetRadioField(pdf, "AW_3", "ja", []string{"nein", "ja"}))

	res, err := Run(pdf)
	require.NoError(t, err)
	require.Contains(t, res.Present, "AW_3")
	require.NotContains(t, res.Present, "AW_1", "AW_1 is not in this fixture and must not be reported present")

	fields, err := pdfform.GetFields(pdf)
	require.NoError(t, err)
	require.Equal(t, "ja", fields["AW_3"])
}

func TestRunDoesNotFailOnUnfilledGroup(t *testing.T) {
	// A radio group nobody has filled in yet (the fixture default: /V =
	// /Off, every kid /AS = /Off) has no On-state key matching "Off"; Run
	// must not treat that as fatal, and must leave the group untouched
	// rather than fabricate a selection.
	data, err := pdffixture.Build(pdffixture.Spec{
		RadioGroups: []pdffixture.RadioGroup{
			{Name: "AW_1", Options: []string{"medizinische Reha", "onkologische Reha"}, Rect: pdffixture.Rect{0, 700, 20, 715}},
		},
	})
	require.NoError(t, err)
	pdf, err := pdfstruct.Open(filebuffer.New(data))
	require.NoError(t, err)

	res, err := Run(pdf)
	require.NoError(t, err)
	require.Contains(t, res.Present, "AW_1")

	fields, err := pdfform.GetFields(pdf)
	require.NoError(t, err)
	require.Equal(t, "Off", fields["AW_1"])
}

func TestRunIsIdempotent(t *testing.T) {
	data, err := pdffixture.Build(pdffixture.Spec{
		RadioGroups: []pdffixture.RadioGroup{
			{Name: "AW_3", Options: []string{"nein", "ja"}, Rect: pdffixture.Rect{0, 700, 20, 715}},
		},
	})
	require.NoError(t, err)
	pdf, err := pdfstruct.Open(filebuffer.New(data))
	require.NoError(t, err)
	require.NoError(t, pdfform.SetRadioField(pdf, "AW_3", "ja", []string{"nein", "ja"}))

	_, err = Run(pdf)
	require.NoError(t, err)
	first, err := pdfform.GetFields(pdf)
	require.NoError(t, err)

	_, err = Run(pdf)
	require.NoError(t, err)
	second, err := pdfform.GetFields(pdf)
	require.NoError(t, err)

	require.Equal(t, first["AW_3"], second["AW_3"])
}
