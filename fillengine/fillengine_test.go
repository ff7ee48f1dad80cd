package fillengine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kilroy-fr/pdfforms/internal/pdffixture"
	"github.com/kilroy-fr/pdfforms/pdfform"
	"github.com/kilroy-fr/pdfforms/pdfstruct"
	"github.com/kilroy-fr/pdfforms/schema"
)

func testFormDef() *schema.FormDefinition {
	return &schema.FormDefinition{
		FormID: "TESTFORM",
		Fields: []schema.FieldDef{
			{Name: "VERS_NAME", Kind: schema.Text},
			{Name: "AW_17", Kind: schema.Checkbox},
			{Name: "AW_20_nein", Kind: schema.RadioMember, RadioGroup: "AW_20", PDFState: "nein"},
			{Name: "AW_20_ja", Kind: schema.RadioMember, RadioGroup: "AW_20", PDFState: "ja"},
		},
	}
}

func writeFixture(t *testing.T) string {
	t.Helper()
	data, err := pdffixture.Build(pdffixture.Spec{
		TextFields: []pdffixture.TextField{
			{Name: "VERS_NAME", Rect: pdffixture.Rect{50, 700, 300, 720}},
		},
		Checkboxes: []pdffixture.Checkbox{
			{Name: "AW_17", Rect: pdffixture.Rect{50, 650, 60, 660}, OnKey: "Ja"},
		},
		RadioGroups: []pdffixture.RadioGroup{
			{Name: "AW_20", Options: []string{"nein", "ja"}, Rect: pdffixture.Rect{50, 600, 65, 615}},
		},
	})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "template.pdf")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestFillAppliesAllFieldKinds(t *testing.T) {
	templatePath := writeFixture(t)
	outputPath := filepath.Join(t.TempDir(), "output.pdf")

	plan := Plan{
		FormDef: testFormDef(),
		Instances: []schema.FieldInstance{
			{FieldName: "VERS_NAME", Value: "Erika Musterfrau"},
			{FieldName: "AW_17", Value: "ja"},
			{FieldName: "AW_20_ja", Value: "ja"},
		},
		BurnInWhitelist: []string{"AW_20"},
	}

	res, err := Fill(context.Background(), templatePath, outputPath, plan)
	require.NoError(t, err)
	require.Equal(t, 3, res.FieldsAttempted)
	require.Equal(t, 3, res.FieldsFilled)
	require.Equal(t, 0, res.Skipped)
	require.Contains(t, res.BurnedIn, "AW_20")

	fh, err := os.Open(outputPath)
	require.NoError(t, err)
	defer fh.Close()
	pdf, err := pdfstruct.Open(fh)
	require.NoError(t, err)

	fields, err := pdfform.GetFields(pdf)
	require.NoError(t, err)
	require.Equal(t, "Erika Musterfrau", fields["VERS_NAME"])
	require.Equal(t, "Ja", fields["AW_17"])
	require.Equal(t, "ja", fields["AW_20"])
}

func TestFillSkipsUnknownRadioGroupWithoutAborting(t *testing.T) {
	templatePath := writeFixture(t)
	outputPath := filepath.Join(t.TempDir(), "output.pdf")

	def := testFormDef()
	def.Fields = append(def.Fields, schema.FieldDef{
		Name: "GHOST_ja", Kind: schema.RadioMember, RadioGroup: "GHOST", PDFState: "ja",
	})
	plan := Plan{
		FormDef: def,
		Instances: []schema.FieldInstance{
			{FieldName: "VERS_NAME", Value: "Erika Musterfrau"},
			{FieldName: "GHOST_ja", Value: "ja"},
		},
	}

	res, err := Fill(context.Background(), templatePath, outputPath, plan)
	require.NoError(t, err)
	require.Equal(t, 1, res.FieldsFilled, "the valid field should still be filled")
	require.Equal(t, 1, res.Skipped)
	require.NotEmpty(t, res.Warnings)
}

func TestFillHonorsCanceledContext(t *testing.T) {
	templatePath := writeFixture(t)
	outputPath := filepath.Join(t.TempDir(), "output.pdf")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Fill(ctx, templatePath, outputPath, Plan{FormDef: testFormDef()})
	require.Error(t, err)
}
