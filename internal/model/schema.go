package model

// FieldKind classifies how a field is stored in the two stores.
type FieldKind string

const (
	KindScalar FieldKind = "scalar"
	KindList   FieldKind = "list"
	KindVector FieldKind = "vector"
)

// FieldSpec is one entry of the static schema table. Both stores'
// (de)serialization paths consult it for defaults, and the vector repository
// validates named-field searches against it.
type FieldSpec struct {
	Name    string
	Kind    FieldKind
	Column  string
	Default string
}

var schema = []FieldSpec{
	{Name: "status", Kind: KindScalar, Column: "status", Default: "PREPARED"},
	{Name: "source", Kind: KindScalar, Column: "source", Default: "UNKNOWN"},
	{Name: "category", Kind: KindScalar, Column: "category", Default: "UNKNOWN"},
	{Name: "price_range", Kind: KindScalar, Column: "price_range", Default: "UNKNOWN"},
	{Name: "reviews", Kind: KindList, Column: "reviews", Default: "[]"},
	{Name: "business_days", Kind: KindList, Column: "business_days", Default: "[]"},
	{Name: "menus", Kind: KindList, Column: "menus", Default: "[]"},
	{Name: "moods", Kind: KindList, Column: "moods", Default: "[]"},
	{Name: "tastes", Kind: KindList, Column: "tastes", Default: "[]"},
	{Name: "mood", Kind: KindVector, Column: "mood_vector"},
	{Name: "taste", Kind: KindVector, Column: "taste_vector"},
	{Name: "category_vector", Kind: KindVector, Column: "category_vector"},
}

var fieldsByName = func() map[string]FieldSpec {
	m := make(map[string]FieldSpec, len(schema))
	for _, f := range schema {
		m[f.Name] = f
	}
	return m
}()

// VectorColumn resolves a semantic axis name ("mood", "taste",
// "category_vector") to its column. Unknown names are rejected so search
// input can never be interpolated into SQL.
func VectorColumn(name string) (string, bool) {
	f, ok := fieldsByName[name]
	if !ok || f.Kind != KindVector {
		return "", false
	}
	return f.Column, true
}

// VectorFieldNames lists the searchable semantic axes.
func VectorFieldNames() []string {
	var names []string
	for _, f := range schema {
		if f.Kind == KindVector {
			names = append(names, f.Name)
		}
	}
	return names
}

// DefaultValue returns the schema default for a field, or "" if the field is
// unknown or has none.
func DefaultValue(name string) string {
	return fieldsByName[name].Default
}
