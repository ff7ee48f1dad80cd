package schema

// KnownRadioGroupOrder is the fixed whitelist of radio groups whose option
// order is known and stable in the S0050/S0051 template family, used by the
// Widget Writer's positional fallback (when semantic matching finds no
// On-state key whose canonical token matches the requested one) and by the
// Repair Pass. The order and text here are authoritative for this template
// family and must not be re-derived from the PDF: the distilled source this
// schema was built from could not recover it from the file alone in the
// presence of arbitrary mojibake, so it is carried as data instead.
var KnownRadioGroupOrder = map[string][]string{
	"AW_1": {
		"Leistungen zur medizinischen Rehabilitation",
		"Leistungen zur onkologischen Rehabilitation",
		"Leistungen zur Teilhabe am Arbeitsleben (LTA)",
		"Erwerbsminderungsrente",
		"Sonstiges",
	},
	"AW_2":  {"wöchentlich", "14-tägig", "monatlich", "seltener"},
	"AW_3":  {"nein", "ja"},
	"AW_4":  section5Options("Keine Beeinträchtigungen"),
	"AW_5":  section5Options("keine Beeinträchtigungen"),
	"AW_6":  section5Options("keine Beeinträchtigungen"),
	"AW_7":  section5Options("keine Beeinträchtigungen"),
	"AW_8":  section5Options("keine Beeinträchtigungen"),
	"AW_9":  section5Options("keine Beeinträchtigungen"),
	"AW_10": section5Options("keine Beeinträchtigungen"),
	"AW_11": section5Options("keine Beeinträchtigungen"),
	"AW_12": section5Options("keine Beeinträchtigungen"),
	"AW_14": {"Übergewicht", "Untergewicht"},
	"AW_20": {"nein", "ja"},
	"AW_21": {"nein", "ja"},
	"AW_22": {"Besserung", "Verschlechterung"},
	"AW_23": {"nein", "ja"},
	"AW_24": {"nein", "ja"},
	"AW_25": {"nein", "ja", "kann ich nicht beurteilen"},
	"AW_26": {"nein", "ja"},
}

// section5Options builds the five-option activity-limitation scale shared
// by AW_4..AW_12; only the first option's capitalization differs between
// AW_4 ("Keine Beeinträchtigungen") and AW_5..AW_12 ("keine ...").
func section5Options(keineOption string) []string {
	return []string{
		keineOption,
		"Einschränkungen",
		"Personelle Hilfe nötig",
		"nicht durchführbar",
		"Keine Angabe möglich",
	}
}

// BurnInWhitelist lists, per form ID, the radio groups and checkboxes that
// receive a burn-in mark in addition to their normal appearance. This is
// the empirical, historically-problematic-widget list from the Burn-In Pass
// spec, exposed per form rather than hardcoded globally (Open Questions:
// "whether a new template needs it is not derivable ... expose it as a
// configurable per-form whitelist").
var BurnInWhitelist = map[string][]string{
	"S0050": {},
	"S0051": {
		"AW_1", "AW_2", "AW_3",
		"AW_4", "AW_5", "AW_6", "AW_7", "AW_8", "AW_9", "AW_10", "AW_11", "AW_12",
		"AW_13", "AW_14", "AW_15", "AW_16", "AW_17", "AW_18", "AW_19",
		"AW_20", "AW_21", "AW_22", "AW_23", "AW_24", "AW_25", "AW_26",
		"AW_24_1",
	},
}
