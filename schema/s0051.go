package schema

// activityGroup describes one row of the "Aktivitäten und Teilhabe" matrix
// (section 5): a PDF radio group AW_4..AW_12, its human section name, and
// whether its first option is capitalized ("Keine ...", unique to AW_4) or
// lowercase ("keine ...", AW_5..AW_12).
type activityGroup struct {
	group        string
	sectionLabel string
	capitalKeine bool
}

var activityGroups = []activityGroup{
	{"AW_4", "Lernen und Wissensanwendung", true},
	{"AW_5", "Allgemeine Aufgaben und Anforderungen", false},
	{"AW_6", "Kommunikation", false},
	{"AW_7", "Mobilität", false},
	{"AW_8", "Arbeit und Beschäftigung", false},
	{"AW_9", "Erziehung / Bildung", false},
	{"AW_10", "Interpersonelle Aktivitäten", false},
	{"AW_11", "Häusliches Leben / Haushaltsführung", false},
	{"AW_12", "Selbstversorgung", false},
}

// activityMembers expands one activityGroup row into its five radio_member
// FieldDefs, matching the suffix naming (_keine, _einschr, _hilfe, _nicht,
// _ka) and pdf_state text of the source form definition.
func activityMembers(g activityGroup) []FieldDef {
	keine := "keine Beeinträchtigungen"
	if g.capitalKeine {
		keine = "Keine Beeinträchtigungen"
	}
	type member struct {
		suffix, label, state string
	}
	members := []member{
		{"_keine", "keine Beeintraechtigungen", keine},
		{"_einschr", "Einschraenkungen", "Einschränkungen"},
		{"_hilfe", "Personelle Hilfe noetig", "Personelle Hilfe nötig"},
		{"_nicht", "nicht durchfuehrbar", "nicht durchführbar"},
		{"_ka", "Keine Angabe moeglich", "Keine Angabe möglich"},
	}
	out := make([]FieldDef, len(members))
	for i, m := range members {
		out[i] = FieldDef{
			Name:          g.group + m.suffix,
			Kind:          RadioMember,
			LabelDE:       m.label,
			Section:       5,
			Description:   g.sectionLabel + ": " + m.label,
			RadioGroup:    g.group,
			PDFState:      m.state,
			ExtractFromAI: false,
		}
	}
	return out
}

func buildS0051Fields() []FieldDef {
	fields := []FieldDef{
		{Name: "VERS_VNR", Kind: Text, LabelDE: "Versicherungsnummer", Section: 0,
			Description: "Versicherungsnummer der Person, aus deren Versicherung die Leistung beantragt wird"},
		{Name: "KENNZEICHEN", Kind: Text, LabelDE: "Kennzeichen", Section: 0,
			Description: "Kennzeichen / Aktenzeichen (soweit bekannt)"},
		{Name: "MSAT_MSNR", Kind: Text, LabelDE: "MSAT / MSNR", Section: 0,
			Description: "Maßnahme-Satz-Nummer / Maßnahme-Nummer"},
		{Name: "VERS_NAME", Kind: Text, LabelDE: "Name, Vorname (Versicherte/r)", Section: 0,
			Description:   "Name, Vorname der Person, aus deren Versicherung die Leistung beantragt wird",
			ExtractFromAI: true},
		{Name: "VERS_GEBDAT", Kind: Text, LabelDE: "Geburtsdatum (Versicherte/r)", Section: 0,
			Description:   "Geburtsdatum der versicherten Person (Format: TT.MM.JJJJ)",
			ExtractFromAI: true},
		{Name: "VERS_STRASSE_HNR", Kind: Text, LabelDE: "Straße, Hausnummer (Versicherte/r)", Section: 0,
			Description:   "Straße und Hausnummer der versicherten Person",
			ExtractFromAI: true},

		{Name: "VERS_DIAGNOSESCH_1", Kind: Text, LabelDE: "ICD-10 Diagnose 1", Section: 3,
			Description: "Hauptdiagnose (ICD-10-Code)"},
		{Name: "VERS_DIAGNOSESCH_2", Kind: Text, LabelDE: "ICD-10 Diagnose 2", Section: 3,
			Description: "Nebendiagnose (ICD-10-Code)"},
		{Name: "VERS_DIAGNOSESCH_3", Kind: Text, LabelDE: "ICD-10 Diagnose 3", Section: 3,
			Description: "Nebendiagnose (ICD-10-Code)"},
		{Name: "VERS_DIAGNOSESCH_4", Kind: Text, LabelDE: "ICD-10 Diagnose 4", Section: 3,
			Description: "Nebendiagnose (ICD-10-Code)"},

		{Name: "THERAPIE", Kind: Text, LabelDE: "Bisherige und aktuelle Therapie", Section: 6,
			Description: "Bisherige und aktuelle Therapie (Medikamente, Physiotherapie, Psychotherapie etc.)"},
		{Name: "UNTERSUCHUNGSBEFUNDE", Kind: Text, LabelDE: "Untersuchungsbefunde", Section: 7,
			Description: "Körperliche und/oder psychische Untersuchungsbefunde"},
		{Name: "GROESSE_CM", Kind: Text, LabelDE: "Körpergröße (cm)", Section: 7,
			Description: "Körpergröße in Zentimetern"},
		{Name: "GEWICHT_KG", Kind: Text, LabelDE: "Gewicht (kg)", Section: 7,
			Description: "Körpergewicht in Kilogramm"},
		{Name: "TECHNISCHE_BEFEUNDE", Kind: Text, LabelDE: "Medizinisch-technische Befunde", Section: 8,
			Description: "Medizinisch-technische Befunde (Labor, Röntgen, EKG, etc.)"},
		{Name: "LEBENSUMSTAENDE", Kind: Text, LabelDE: "Lebensumstände / Kontextfaktoren", Section: 9,
			Description: "Lebensumstände und Kontextfaktoren (soziales Umfeld, Wohnsituation, berufliche Situation)"},
	}

	for _, g := range activityGroups {
		fields = append(fields, activityMembers(g)...)
	}

	riskFactors := []struct{ name, label string }{
		{"AW_17", "Bewegungsmangel"},
		{"AW_18", "Übergewicht"},
		{"AW_19", "Drogen"},
		{"AW_20", "Medikamente"},
		{"AW_21", "Untergewicht"},
		{"AW_22", "Nikotin"},
		{"AW_23", "Alkohol"},
	}
	for _, rf := range riskFactors {
		fields = append(fields, FieldDef{
			Name: rf.name, Kind: Checkbox, LabelDE: rf.label, Section: 10,
			Description: "Risikofaktor: " + rf.label,
		})
	}

	binaryRadios := []struct {
		group, condName, neinDesc, jaDesc string
	}{
		{"AW_13", "", "Patient ist nicht arbeitsunfähig geschrieben", "Patient ist arbeitsunfähig geschrieben"},
		{"AW_14", "", "Keine Befundänderung in den letzten 12 Monaten", "Befundänderung in den letzten 12 Monaten"},
		{"AW_16", "", "Verständigung in deutscher Sprache möglich", "Verständigung in deutscher Sprache nicht möglich"},
		{"AW_24", "", "Reisefähigkeit für öffentliche Verkehrsmittel besteht nicht", "Reisefähigkeit für öffentliche Verkehrsmittel besteht"},
		{"AW_26", "", "Belastbarkeit für eine Rehabilitation besteht nicht", "Belastbarkeit für eine Rehabilitation besteht"},
	}
	for _, br := range binaryRadios {
		fields = append(fields,
			FieldDef{Name: br.group + "_nein", Kind: RadioMember, LabelDE: "nein", Section: 11,
				Description: br.neinDesc, RadioGroup: br.group, PDFState: "nein"},
			FieldDef{Name: br.group + "_ja", Kind: RadioMember, LabelDE: "ja", Section: 11,
				Description: br.jaDesc, RadioGroup: br.group, PDFState: "ja"},
		)
	}

	fields = append(fields,
		FieldDef{Name: "AU_SEIT", Kind: Text, LabelDE: "seit (Datum)", Section: 11,
			Description: "Arbeitsunfähig seit (Format: TT.MM.JJJJ)",
			ConditionalOn: "AW_13_ja", ConditionalValue: "AW_13_ja"},
		FieldDef{Name: "AU_WEGEN", Kind: Text, LabelDE: "wegen", Section: 11,
			Description: "Grund der Arbeitsunfähigkeit",
			ConditionalOn: "AW_13_ja", ConditionalValue: "AW_13_ja"},

		FieldDef{Name: "AW_15_besserung", Kind: RadioMember, LabelDE: "Besserung seit", Section: 11,
			Description: "Befund hat sich gebessert", RadioGroup: "AW_15", PDFState: "Besserung seit",
			ConditionalOn: "AW_14_ja", ConditionalValue: "AW_14_ja"},
		FieldDef{Name: "VERS_BESSERUNG_DATUM", Kind: Text, LabelDE: "Datum Besserung", Section: 11,
			Description: "Datum, seit dem eine Besserung eingetreten ist (Format: TT.MM.JJJJ)",
			ConditionalOn: "AW_15_besserung", ConditionalValue: "AW_15_besserung"},
		FieldDef{Name: "AW_15_verschlechterung", Kind: RadioMember, LabelDE: "Verschlechterung seit", Section: 11,
			Description: "Befund hat sich verschlechtert", RadioGroup: "AW_15", PDFState: "Verschlechterung seit",
			ConditionalOn: "AW_14_ja", ConditionalValue: "AW_14_ja"},
		FieldDef{Name: "VERS_VERSCHLECHTERUNG_DATUM", Kind: Text, LabelDE: "Datum Verschlechterung", Section: 11,
			Description: "Datum, seit dem eine Verschlechterung eingetreten ist (Format: TT.MM.JJJJ)",
			ConditionalOn: "AW_15_verschlechterung", ConditionalValue: "AW_15_verschlechterung"},

		FieldDef{Name: "SPRACHE", Kind: Text, LabelDE: "Wenn nein, in welcher Sprache?", Section: 11,
			Description: "Sprache des Patienten für Verständigung",
			ConditionalOn: "AW_16_nein", ConditionalValue: "AW_16_nein"},

		FieldDef{Name: "AW_24_1", Kind: Checkbox, LabelDE: "mit Begleitung", Section: 11,
			Description: "Reisefähigkeit nur mit Begleitung",
			ConditionalOn: "AW_24_ja", ConditionalValue: "AW_24_ja"},

		FieldDef{Name: "AW_25_nein", Kind: RadioMember, LabelDE: "nein", Section: 11,
			Description: "Besserung der Leistungsfähigkeit ist nicht möglich", RadioGroup: "AW_25", PDFState: "nein"},
		FieldDef{Name: "AW_25_ja", Kind: RadioMember, LabelDE: "ja", Section: 11,
			Description: "Besserung der Leistungsfähigkeit ist möglich", RadioGroup: "AW_25", PDFState: "ja"},
		FieldDef{Name: "AW_25_kb", Kind: RadioMember, LabelDE: "kann ich nicht beurteilen", Section: 11,
			Description: "Besserung der Leistungsfähigkeit kann nicht beurteilt werden", RadioGroup: "AW_25",
			PDFState: "kann ich nicht beurteilen"},

		FieldDef{Name: "BEMERKUNGEN", Kind: Text, LabelDE: "Bemerkungen", Section: 12,
			Description: "Ergänzende Bemerkungen und Anmerkungen"},
		FieldDef{Name: "ARZT_UNTERS_DATUM", Kind: Text, LabelDE: "Unterschrift, Datum, Stempel", Section: 12,
			Description: "Unterschrift, Datum, Stempel, Berufsbezeichnung, ggf. Facharztbezeichnung"},
	)

	return fields
}

// S0051Fields is the field list for the "Befundbericht für die Deutsche
// Rentenversicherung" medical-report form.
var S0051Fields = buildS0051Fields()

// S0051Definition is the registered form definition for S0051.
var S0051Definition = FormDefinition{
	FormID:           "S0051",
	FormTitle:        "Befundbericht für die Deutsche Rentenversicherung",
	TemplateFilename: "S0051.pdf",
	Fields:           S0051Fields,
}
