package burnin

import (
	"testing"

	"github.com/mattetti/filebuffer"
	"github.com/stretchr/testify/require"

	"github.com/kilroy-fr/pdfforms/internal/pdffixture"
	"github.com/kilroy-fr/pdfforms/pdfform"
	"github.com/kilroy-fr/pdfforms/pdfstruct"
)

func TestRunMarksSelectedWidgetAndSkipsUnselected(t *testing.T) {
	data, err := pdffixture.Build(pdffixture.Spec{
		RadioGroups: []pdffixture.RadioGroup{
			{Name: "AW_20", Options: []string{"nein", "ja"}, Rect: pdffixture.Rect{50, 600, 65, 615}},
			{Name: "AW_21", Options: []string{"nein", "ja"}, Rect: pdffixture.Rect{50, 560, 65, 575}},
		},
	})
	require.NoError(t, err)
	pdf, err := pdfstruct.Open(filebuffer.New(data))
	require.NoError(t, err)
	require.NoError(t, pdfform.SetRadioField(pdf, "AW_20", "ja", []string{"nein", "ja"}))

	res, err := Run(pdf, []string{"AW_20", "AW_21"})
	require.NoError(t, err)
	require.Contains(t, res.Marked, "AW_20")
	require.NotContains(t, res.Marked, "AW_21", "AW_21 has no selection and must not be marked")
}

func TestRunIgnoresWhitelistedNamesNotInDocument(t *testing.T) {
	data, err := pdffixture.Build(pdffixture.Spec{})
	require.NoError(t, err)
	pdf, err := pdfstruct.Open(filebuffer.New(data))
	require.NoError(t, err)

	res, err := Run(pdf, []string{"AW_99"})
	require.NoError(t, err)
	require.Empty(t, res.Marked)
}
