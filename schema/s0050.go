package schema

// S0050Fields is the field list for the "Honorarabrechnung für die Deutsche
// Rentenversicherung" fee-statement form, grounded on the source form
// definition this engine's schema package replaces.
var S0050Fields = []FieldDef{
	{Name: "PAF_VSNR_trim", Kind: Text, LabelDE: "Versicherungsnummer", Section: 0,
		Description: "Versicherungsnummer"},
	{Name: "PAF_AIGR", Kind: Text, LabelDE: "Kennzeichen", Section: 0,
		Description: "Kennzeichen / Aktenzeichen"},

	{Name: "AW_1_med_reha", Kind: RadioMember, LabelDE: "Leistungen zur medizinischen Rehabilitation", Section: 0,
		Description: "Antrag auf Leistungen zur medizinischen Rehabilitation",
		RadioGroup:  "AW_1", PDFState: "Leistungen zur medizinischen Rehabilitation"},
	{Name: "AW_1_onko_reha", Kind: RadioMember, LabelDE: "Leistungen zur onkologischen Rehabilitation", Section: 0,
		Description: "Antrag auf Leistungen zur onkologischen Rehabilitation",
		RadioGroup:  "AW_1", PDFState: "Leistungen zur onkologischen Rehabilitation"},
	{Name: "AW_1_lta", Kind: RadioMember, LabelDE: "Leistungen zur Teilhabe am Arbeitsleben (LTA)", Section: 0,
		Description: "Antrag auf Leistungen zur Teilhabe am Arbeitsleben",
		RadioGroup:  "AW_1", PDFState: "Leistungen zur Teilhabe am Arbeitsleben (LTA)"},
	{Name: "AW_1_emr", Kind: RadioMember, LabelDE: "Erwerbsminderungsrente", Section: 0,
		Description: "Antrag auf Erwerbsminderungsrente",
		RadioGroup:  "AW_1", PDFState: "Erwerbsminderungsrente"},

	{Name: "AW_Verguetung_BB", Kind: Checkbox, LabelDE: "Vergütung für Formular S0051 (41,04 EUR)", Section: 0,
		Description: "Vergütung für das Formular S0051 - Befundbericht"},
	{Name: "AW_ZusBogen_onkol", Kind: Checkbox, LabelDE: "Vergütung für Formular S0052 (5 EUR)", Section: 0,
		Description: "Vergütung für das Formular S0052 - Zusatzbogen onkologische Rehabilitation"},

	{Name: "PAT_NAME", Kind: Text, LabelDE: "Name, Vorname (Patientin/Patient)", Section: 1,
		Description: "Name und Vorname der Patientin / des Patienten"},
	{Name: "PAT_Geburtsdatum", Kind: Text, LabelDE: "Geburtsdatum (Patientin/Patient)", Section: 1,
		Description: "Geburtsdatum der Patientin / des Patienten"},

	{Name: "VERS_NAME", Kind: Text, LabelDE: "Name, Vorname (Versicherte/r)", Section: 1,
		Description: "Name und Vorname der/des Versicherten (falls abweichend von Patientin/Patient)"},
	{Name: "VERS_GEBDAT", Kind: Text, LabelDE: "Geburtsdatum (Versicherte/r)", Section: 1,
		Description: "Geburtsdatum der/des Versicherten (falls abweichend)"},

	{Name: "INSTITUTIONSKENNZEICHEN", Kind: Text, LabelDE: "Institutionskennzeichen", Section: 2,
		Description: "Institutionskennzeichen"},
	{Name: "KONTOINH_IBAN", Kind: Text, LabelDE: "IBAN", Section: 2,
		Description: "IBAN (International Bank Account Number)"},
	{Name: "KONTOINH_BANK_1", Kind: Text, LabelDE: "Geldinstitut (Name, Ort)", Section: 2,
		Description: "Name und Ort des Geldinstituts"},
	{Name: "KONTOINH_NAME_1", Kind: Text, LabelDE: "Kontoinhaber/in", Section: 2,
		Description: "Name der Kontoinhaberin / des Kontoinhabers"},
	{Name: "KONTOINH_ORT_1", Kind: Text, LabelDE: "Straße, Hausnummer, PLZ, Ort", Section: 2,
		Description: "Vollständige Adresse (Straße, Hausnummer, PLZ, Ort)"},
	{Name: "RECHNUNG_NUM_1", Kind: Text, LabelDE: "Rechnungsnummer", Section: 2,
		Description: "Rechnungsnummer"},
	{Name: "RECHNUNG_VOM", Kind: Text, LabelDE: "Rechnung vom", Section: 2,
		Description: "Rechnungsdatum"},
	{Name: "ARZT_ORT", Kind: Text, LabelDE: "Ort, Datum", Section: 2,
		Description: "Ort und Datum der Unterschrift"},
	{Name: "ARZT_UNTERS", Kind: Text, LabelDE: "Unterschrift des Arztes", Section: 2,
		Description: "Unterschrift, Name des Arztes"},
}

// S0050Definition is the registered form definition for S0050.
var S0050Definition = FormDefinition{
	FormID:           "S0050",
	FormTitle:        "Honorarabrechnung für die Deutsche Rentenversicherung",
	TemplateFilename: "S0050.pdf",
	Fields:           S0050Fields,
}
