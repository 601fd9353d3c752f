package dataset

import "strings"

// KeyKind selects how a key column is normalized before comparison.
type KeyKind int

const (
	// KindIdentity columns name a person; see NormalizeIdentity.
	KindIdentity KeyKind = iota
	// KindDate columns hold calendar dates; see NormalizeDate.
	KindDate
	// KindText columns are compared after whitespace cleanup; see NormalizeText.
	KindText
)

// String returns the string representation of a key kind.
func (k KeyKind) String() string {
	switch k {
	case KindIdentity:
		return "identity"
	case KindDate:
		return "date"
	default:
		return "text"
	}
}

// Normalize applies the kind's normalization to a raw cell value.
func (k KeyKind) Normalize(v string) string {
	switch k {
	case KindIdentity:
		return NormalizeIdentity(v)
	case KindDate:
		return NormalizeDate(v)
	default:
		return NormalizeText(v)
	}
}

// KeyColumn is one component of a composite key.
type KeyColumn struct {
	Name string
	Kind KeyKind
}

// Schema describes the columns a data type must carry and how its records are keyed.
type Schema struct {
	Type            DataType
	Stem            string
	KeyColumns      []KeyColumn
	RequiredColumns []string
}

// Column names shared by the per-fight data types.
const (
	ColumnPlayer   = "Player"
	ColumnDate     = "Date"
	ColumnOpponent = "Opponent"
	ColumnEvent    = "Event"
	ColumnResult   = "Result"
	ColumnName     = "Name"
)

var fightKey = []KeyColumn{
	{Name: ColumnPlayer, Kind: KindIdentity},
	{Name: ColumnDate, Kind: KindDate},
	{Name: ColumnOpponent, Kind: KindIdentity},
}

var fightRequired = []string{ColumnPlayer, ColumnDate, ColumnOpponent, ColumnEvent, ColumnResult}

var schemas = map[DataType]Schema{
	Ground:   {Type: Ground, Stem: "ground_data", KeyColumns: fightKey, RequiredColumns: fightRequired},
	Clinch:   {Type: Clinch, Stem: "clinch_data", KeyColumns: fightKey, RequiredColumns: fightRequired},
	Striking: {Type: Striking, Stem: "striking_data", KeyColumns: fightKey, RequiredColumns: fightRequired},
	Profile: {
		Type:            Profile,
		Stem:            "fighter_profiles",
		KeyColumns:      []KeyColumn{{Name: ColumnName, Kind: KindIdentity}},
		RequiredColumns: []string{ColumnName},
	},
}

// SchemaFor returns a copy of the schema registered for t.
// Unknown types yield a zero Schema.
func SchemaFor(t DataType) Schema {
	s, ok := schemas[t]
	if !ok {
		return Schema{}
	}
	s.KeyColumns = append([]KeyColumn(nil), s.KeyColumns...)
	s.RequiredColumns = append([]string(nil), s.RequiredColumns...)
	return s
}

// KeyNames returns the key column names in key order.
func (s Schema) KeyNames() []string {
	names := make([]string, len(s.KeyColumns))
	for i, c := range s.KeyColumns {
		names[i] = c.Name
	}
	return names
}

// IdentityColumn is the first key column: the subject a record describes.
func (s Schema) IdentityColumn() string {
	if len(s.KeyColumns) == 0 {
		return ""
	}
	return s.KeyColumns[0].Name
}

// KeyOf computes the composite key of r.
func (s Schema) KeyOf(r Record) Key {
	parts := make([]string, len(s.KeyColumns))
	for i, c := range s.KeyColumns {
		parts[i] = c.Kind.Normalize(r[c.Name])
	}
	return Key(strings.Join(parts, keySeparator))
}

// IdentityOf returns the normalized subject identity of r.
func (s Schema) IdentityOf(r Record) string {
	if len(s.KeyColumns) == 0 {
		return ""
	}
	c := s.KeyColumns[0]
	return c.Kind.Normalize(r[c.Name])
}

// MissingColumns returns the required columns absent from columns, in schema order.
func (s Schema) MissingColumns(columns []string) []string {
	have := make(map[string]bool, len(columns))
	for _, c := range columns {
		have[c] = true
	}
	var missing []string
	for _, c := range s.RequiredColumns {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	return missing
}
