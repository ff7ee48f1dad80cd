package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilroy-fr/pdfforms/schema"
)

func TestMemoryStoreCreateGetPutDelete(t *testing.T) {
	store := NewMemoryStore()

	s, err := store.Create("S0051")
	require.NoError(t, err)
	require.NotEmpty(t, s.ID)
	assert.Equal(t, "S0051", s.FormID)

	got, err := store.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	got.Instances = []schema.FieldInstance{{FieldName: "VERS_NAME", Value: "Erika Musterfrau"}}
	require.NoError(t, store.Put(got))

	again, err := store.Get(s.ID)
	require.NoError(t, err)
	assert.Len(t, again.Instances, 1)

	require.NoError(t, store.Delete(s.ID))
	_, err = store.Get(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStorePutUnknownSession(t *testing.T) {
	store := NewMemoryStore()
	err := store.Put(&Session{ID: "nonexistent"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplySenderDataFillsOnlyMissingFields(t *testing.T) {
	instances := []schema.FieldInstance{
		{FieldName: "KONTOINH_IBAN", Value: "already filled"},
	}
	sd := SenderData{
		Institutionskennzeichen: "123456789",
		IBAN:                    "DE00000000000000000000",
		BankName:                "Musterbank",
		Kontoinhaber:            "Dr. Max Mustermann",
		Adresse:                "Musterstraße 1, 12345 Musterstadt",
	}
	out := ApplySenderData(instances, sd)

	byName := make(map[string]string, len(out))
	for _, fi := range out {
		byName[fi.FieldName] = fi.Value
	}
	assert.Equal(t, "already filled", byName["KONTOINH_IBAN"])
	assert.Equal(t, "123456789", byName["INSTITUTIONSKENNZEICHEN"])
	assert.Equal(t, "Musterbank", byName["KONTOINH_BANK_1"])
	assert.Equal(t, "Dr. Max Mustermann", byName["KONTOINH_NAME_1"])
}
