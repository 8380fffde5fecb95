package schema

// FieldType is the semantic type of a spreadsheet column
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldBoolean  FieldType = "boolean"
	FieldDropdown FieldType = "dropdown"
	FieldSelect   FieldType = "select"
	FieldFile     FieldType = "file"
	FieldFiles    FieldType = "files"
	FieldImage    FieldType = "image"
	FieldImages   FieldType = "images"
)

// HasOptions reports whether the type draws its values from Field.Options
func (t FieldType) HasOptions() bool {
	return t == FieldDropdown || t == FieldSelect
}

// Table represents a user-defined table
type Table struct {
	ID     int64   `yaml:"id" json:"id"`
	Name   string  `yaml:"name" json:"name" validate:"required"`
	Fields []Field `yaml:"fields" json:"fields" validate:"dive"`
}

// Field represents a single typed column of a table
type Field struct {
	ID       string    `yaml:"id" json:"id" validate:"required"`
	Name     string    `yaml:"name" json:"name"`
	Type     FieldType `yaml:"type" json:"type" validate:"required"`
	Options  []string  `yaml:"options,omitempty" json:"options,omitempty"`
	Required bool      `yaml:"required,omitempty" json:"required,omitempty"`

	// DefaultValue, when set, becomes the column's DEFAULT
	DefaultValue any `yaml:"defaultValue,omitempty" json:"defaultValue,omitempty"`
}

// Field returns the field with the given id, or nil
func (t *Table) Field(id string) *Field {
	for i := range t.Fields {
		if t.Fields[i].ID == id {
			return &t.Fields[i]
		}
	}
	return nil
}

// ValueRecord maps field ids to literal cell values
type ValueRecord map[string]any

// FileRef is the value stored in file and image cells
type FileRef struct {
	Name   string `yaml:"name" json:"name"`
	Type   string `yaml:"type" json:"type"`
	FileID int64  `yaml:"fileId" json:"fileId"`
}
