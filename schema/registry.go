package schema

// Registry maps a form ID to its definition. It replaces the three
// overlapping, ad-hoc copies of the schema that existed in the source this
// engine supersedes (Design Notes, "Three overlapping copies of the schema").
type Registry struct {
	forms map[string]*FormDefinition
}

// NewRegistry builds a registry pre-populated with the known forms.
func NewRegistry() *Registry {
	r := &Registry{forms: make(map[string]*FormDefinition)}
	r.Register(&S0050Definition)
	r.Register(&S0051Definition)
	return r
}

// Register adds or replaces a form definition.
func (r *Registry) Register(def *FormDefinition) {
	r.forms[def.FormID] = def
}

// Get returns the form definition for formID, if registered.
func (r *Registry) Get(formID string) (*FormDefinition, bool) {
	def, ok := r.forms[formID]
	return def, ok
}

// FieldByName finds a field definition by name within a form.
func (d *FormDefinition) FieldByName(name string) (FieldDef, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}

// PropagateSharedFields copies values for fields that exist in both the
// source and destination instance lists, matched by field name. It is the
// plain-function replacement for the BaseFormHandler hook pattern: the
// original copied shared header fields (patient name, insurance number,
// birth date) from a completed S0051 session into a new S0050 instance list
// before filling S0050 (Design Notes, S0051 -> S0050 propagation).
func PropagateSharedFields(from []FieldInstance, to []FieldInstance) []FieldInstance {
	values := make(map[string]string, len(from))
	for _, fi := range from {
		if fi.Value != "" {
			values[fi.FieldName] = fi.Value
		}
	}
	out := make([]FieldInstance, len(to))
	copy(out, to)
	for i, fi := range out {
		if v, ok := values[fi.FieldName]; ok && fi.Value == "" {
			out[i].Value = v
			out[i].Status = StatusFilled
		}
	}
	return out
}
