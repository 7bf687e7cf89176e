package record

// Kind is the JSON type a schema field must hold.
type Kind string

const (
	KindString Kind = "string"
	KindNumber Kind = "number"
	KindArray  Kind = "array"
)

// Field describes one named property of an entity.
type Field struct {
	Name string
	Kind Kind

	// Required fields must be present and non-empty for Validate to pass.
	Required bool

	// Filterable fields are honoured as query criteria by Filter.
	Filterable bool
}

// Schema is the data description of one entity type.
type Schema struct {
	// Name is the singular entity name used in messages, e.g. "animal".
	Name string

	// Collection is the plural key used in URLs and in the persisted
	// envelope, e.g. "animals".
	Collection string

	// Fields are checked and filtered in declaration order.
	Fields []Field
}

// Field looks up a field by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Animal describes records in the animals collection.
var Animal = Schema{
	Name:       "animal",
	Collection: "animals",
	Fields: []Field{
		{Name: "name", Kind: KindString, Required: true, Filterable: true},
		{Name: "species", Kind: KindString, Required: true, Filterable: true},
		{Name: "diet", Kind: KindString, Required: true, Filterable: true},
		{Name: "personalityTraits", Kind: KindArray, Required: true, Filterable: true},
	},
}

// Zookeeper describes records in the zookeepers collection.
var Zookeeper = Schema{
	Name:       "zookeeper",
	Collection: "zookeepers",
	Fields: []Field{
		{Name: "name", Kind: KindString, Required: true, Filterable: true},
		{Name: "age", Kind: KindNumber, Required: true, Filterable: true},
		{Name: "favoriteAnimal", Kind: KindString, Filterable: true},
	},
}
