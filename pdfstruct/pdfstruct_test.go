package pdfstruct_test

import (
	"testing"

	"github.com/mattetti/filebuffer"
	"github.com/stretchr/testify/require"

	"github.com/kilroy-fr/pdfforms/internal/pdffixture"
	"github.com/kilroy-fr/pdfforms/pdfstruct"
)

func buildDoc(t *testing.T) []byte {
	t.Helper()
	data, err := pdffixture.Build(pdffixture.Spec{
		TextFields: []pdffixture.TextField{
			{Name: "VERS_NAME", Rect: pdffixture.Rect{50, 700, 300, 720}},
		},
	})
	require.NoError(t, err)
	return data
}

func TestOpenResolvesCatalogAndPages(t *testing.T) {
	pdf, err := pdfstruct.Open(filebuffer.New(buildDoc(t)))
	require.NoError(t, err)
	require.Equal(t, pdfstruct.Name("Catalog"), pdf.Catalog["Type"])

	formRef, ok := pdf.Catalog["AcroForm"].(pdfstruct.Reference)
	require.True(t, ok)
	form, err := pdf.GetDict(formRef)
	require.NoError(t, err)
	fieldsArr, ok := form["Fields"].(pdfstruct.Array)
	require.True(t, ok)
	require.Len(t, fieldsArr, 1)
}

func TestUpdateObjectAndWriteRoundTrip(t *testing.T) {
	fb := filebuffer.New(buildDoc(t))
	pdf, err := pdfstruct.Open(fb)
	require.NoError(t, err)

	formRef, ok := pdf.Catalog["AcroForm"].(pdfstruct.Reference)
	require.True(t, ok)
	form, err := pdf.GetDict(formRef)
	require.NoError(t, err)
	form["NeedAppearances"] = false
	pdf.UpdateObject(formRef, form)
	require.NoError(t, pdf.Write())

	reopened, err := pdfstruct.Open(fb)
	require.NoError(t, err)
	reopenedFormRef, ok := reopened.Catalog["AcroForm"].(pdfstruct.Reference)
	require.True(t, ok)
	reopenedForm, err := reopened.GetDict(reopenedFormRef)
	require.NoError(t, err)
	require.Equal(t, false, reopenedForm["NeedAppearances"])
}

func TestCreateObjectIsRetrievableBeforeWrite(t *testing.T) {
	pdf, err := pdfstruct.Open(filebuffer.New(buildDoc(t)))
	require.NoError(t, err)

	ref := pdf.CreateObject(pdfstruct.Dict{"Foo": pdfstruct.Name("Bar")})
	got, err := pdf.GetDict(ref)
	require.NoError(t, err)
	require.Equal(t, pdfstruct.Name("Bar"), got["Foo"])
}
