package pdfname

import "testing"

func TestDecodeUTF8RoundTrip(t *testing.T) {
	got := Decode("Einschränkungen")
	if got != "Einschränkungen" {
		t.Errorf("Decode(valid UTF-8) = %q, want unchanged", got)
	}
}

func TestDecodeLatin1Fallback(t *testing.T) {
	// "Einschr\xe4nkungen" is not valid UTF-8: byte 0xe4 alone is a
	// continuation byte with no lead byte, so it must fall back to Latin-1.
	raw := "Einschr\xe4nkungen"
	got := Decode(raw)
	if got != "Einschränkungen" {
		t.Errorf("Decode(latin1) = %q, want %q", got, "Einschränkungen")
	}
}

func TestDecodeRepairsLowSurrogates(t *testing.T) {
	// U+DCE4 is the repaired-surrogate encoding of Latin-1 byte 0xE4 ('ä').
	// Go's string(rune) turns a surrogate into U+FFFD, so its bytes
	// (ED B3 A4) are spelled out.
	raw := "\xed\xb3\xa4"
	got := Decode("nicht" + raw + " durchfuehrbar")
	if got != "nichtä durchfuehrbar" {
		t.Errorf("Decode(surrogate) = %q, want %q", got, "nichtä durchfuehrbar")
	}
}

func TestNormalizeLabelTextMojibake(t *testing.T) {
	got := NormalizeLabelText("EinschrÃ¤nkungen")
	if got != "einschränkungen" {
		t.Errorf("NormalizeLabelText(mojibake) = %q, want %q", got, "einschränkungen")
	}
}

func TestNormalizeLabelTextCollapsesWhitespace(t *testing.T) {
	got := NormalizeLabelText("Keine   \t Angabe\n")
	if got != "keine angabe" {
		t.Errorf("NormalizeLabelText(whitespace) = %q, want %q", got, "keine angabe")
	}
}

func TestCanonicalTokenClasses(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Keine Angabe", "keine_angabe"},
		{"Personelle Hilfe", "personelle_hilfe"},
		{"Nicht durchführbar", "nicht_durchfuehrbar"},
		{"Einschränkungen", "einschraenkungen"},
		{"Keine Beeinträchtigungen", "keine_beeintraechtigungen"},
		{"Ja", "yes"},
		{"Nein", "no"},
		{"Irgendwas anderes", "irgendwas anderes"},
	}
	for _, c := range cases {
		got := Token(c.in)
		if got != c.want {
			t.Errorf("Token(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTokenMergesEncodingVariants(t *testing.T) {
	canonical := "Einschränkungen"
	latin1 := "Einschr\xe4nkungen"
	mojibake := "EinschrÃ¤nkungen"
	want := Token(canonical)
	if got := Token(latin1); got != want {
		t.Errorf("Token(latin1) = %q, want %q", got, want)
	}
	if got := Token(mojibake); got != want {
		t.Errorf("Token(mojibake) = %q, want %q", got, want)
	}
}

func TestSameState(t *testing.T) {
	if !SameState("Ja", "ja ") {
		t.Error("SameState(\"Ja\", \"ja \") = false, want true")
	}
	if SameState("Ja", "Nein") {
		t.Error("SameState(\"Ja\", \"Nein\") = true, want false")
	}
}

func TestIsOff(t *testing.T) {
	if !IsOff("Off") {
		t.Error("IsOff(\"Off\") = false, want true")
	}
	if IsOff("Ja") {
		t.Error("IsOff(\"Ja\") = true, want false")
	}
}

func TestEncodeNameIsIdentityOnDecodedText(t *testing.T) {
	if got := EncodeName("Einschränkungen"); string(got) != "Einschränkungen" {
		t.Errorf("EncodeName = %q, want unchanged", got)
	}
}
