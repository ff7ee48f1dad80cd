package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruthy(t *testing.T) {
	truthy := []string{"Ja", "yes", "TRUE", "1", "on", "  ja  "}
	for _, v := range truthy {
		assert.Truef(t, Truthy(v), "Truthy(%q) should be true", v)
	}
	falsy := []string{"", "nein", "no", "0", "off", "maybe"}
	for _, v := range falsy {
		assert.Falsef(t, Truthy(v), "Truthy(%q) should be false", v)
	}
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()
	def, ok := r.Get("S0051")
	assert.True(t, ok)
	assert.Equal(t, "S0051", def.FormID)

	_, ok = r.Get("S9999")
	assert.False(t, ok)
}

func TestFieldByName(t *testing.T) {
	fd, ok := S0051Definition.FieldByName("VERS_NAME")
	assert.True(t, ok)
	assert.Equal(t, Text, fd.Kind)
	assert.True(t, fd.ExtractFromAI)

	_, ok = S0051Definition.FieldByName("NOT_A_FIELD")
	assert.False(t, ok)
}

func TestS0051ActivityGroupsShareSection5Order(t *testing.T) {
	for _, group := range []string{"AW_5", "AW_6", "AW_12"} {
		order, ok := KnownRadioGroupOrder[group]
		assert.Truef(t, ok, "KnownRadioGroupOrder missing %s", group)
		assert.Equal(t, "keine Beeinträchtigungen", order[0])
	}
	order4 := KnownRadioGroupOrder["AW_4"]
	assert.Equal(t, "Keine Beeinträchtigungen", order4[0])
}

func TestPropagateSharedFields(t *testing.T) {
	from := []FieldInstance{
		{FieldName: "VERS_NAME", Value: "Erika Musterfrau", Status: StatusFilled},
		{FieldName: "VERS_GEBDAT", Value: "", Status: StatusUnfilled},
	}
	to := []FieldInstance{
		{FieldName: "PAT_NAME", Value: ""},
		{FieldName: "VERS_NAME", Value: ""},
		{FieldName: "VERS_GEBDAT", Value: "already set"},
	}
	out := PropagateSharedFields(from, to)
	assert.Equal(t, "", out[0].Value)
	assert.Equal(t, "Erika Musterfrau", out[1].Value)
	assert.Equal(t, StatusFilled, out[1].Status)
	assert.Equal(t, "already set", out[2].Value, "PropagateSharedFields must not overwrite an existing value")
}

func TestBurnInWhitelistDoesNotIncludeS0050(t *testing.T) {
	assert.Empty(t, BurnInWhitelist["S0050"])
	assert.NotEmpty(t, BurnInWhitelist["S0051"])
}
