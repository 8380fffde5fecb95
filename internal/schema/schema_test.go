package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifier(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Tasks", "tasks"},
		{"My Table!", "my_table_"},
		{"  spaced   out  ", "_spaced_out_"},
		{"2024 Sales", "_2024_sales"},
		{"already_safe_1", "already_safe_1"},
		{"Café Orders", "caf_orders"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Identifier(tt.name)
			assert.Equal(t, tt.want, got)
			if got != "" {
				assert.Regexp(t, `^[a-z_][a-z0-9_]*$`, got)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		table   Table
		wantErr error
	}{
		{
			name:  "valid",
			table: Table{Name: "Tasks", Fields: []Field{{ID: "status", Type: FieldSelect, Options: []string{"a"}}}},
		},
		{
			name:  "no fields",
			table: Table{Name: "Tasks"},
		},
		{
			name:    "empty name",
			table:   Table{Name: ""},
			wantErr: ErrEmptyTableName,
		},
		{
			name:    "punctuation-only name",
			table:   Table{Name: "!!!"},
			wantErr: ErrEmptyTableName,
		},
		{
			name:    "missing field id",
			table:   Table{Name: "t", Fields: []Field{{Type: FieldText}}},
			wantErr: ErrInvalidField,
		},
		{
			name:    "missing field type",
			table:   Table{Name: "t", Fields: []Field{{ID: "a"}}},
			wantErr: ErrInvalidField,
		},
		{
			name:    "duplicate ids",
			table:   Table{Name: "t", Fields: []Field{{ID: "a", Type: FieldText}, {ID: "a", Type: FieldText}}},
			wantErr: ErrDuplicateField,
		},
		{
			name:    "ids colliding after sanitizing",
			table:   Table{Name: "t", Fields: []Field{{ID: "due date", Type: FieldText}, {ID: "Due-Date", Type: FieldDate}}},
			wantErr: ErrDuplicateField,
		},
		{
			name:    "id column",
			table:   Table{Name: "t", Fields: []Field{{ID: "Id", Type: FieldNumber}}},
			wantErr: ErrReservedColumn,
		},
		{
			name:    "keyword field id",
			table:   Table{Name: "t", Fields: []Field{{ID: "Order", Type: FieldNumber}}},
			wantErr: ErrReservedWord,
		},
		{
			name:    "keyword table name",
			table:   Table{Name: "Select", Fields: []Field{{ID: "a", Type: FieldText}}},
			wantErr: ErrReservedWord,
		},
		{
			name:  "keyword inside a longer identifier",
			table: Table{Name: "Order Items", Fields: []Field{{ID: "select by", Type: FieldText}}},
		},
		{
			name:    "dropdown without options",
			table:   Table{Name: "t", Fields: []Field{{ID: "s", Type: FieldDropdown, Options: []string{}}}},
			wantErr: ErrMissingOptions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.table)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateTables(t *testing.T) {
	assert.NoError(t, ValidateTables(nil))
	assert.NoError(t, ValidateTables([]Table{{Name: "a"}, {Name: "b"}}))
	assert.ErrorIs(t, ValidateTables([]Table{{Name: "Order Items"}, {Name: "order_items"}}), ErrDuplicateTable)
	assert.ErrorIs(t, ValidateTables([]Table{{Name: "a"}, {}}), ErrEmptyTableName)
}

func TestLoadTables(t *testing.T) {
	doc := `
tables:
  - id: 1
    name: Tasks
    fields:
      - id: title
        name: Title
        type: text
        required: true
      - id: status
        name: Status
        type: dropdown
        options: [Todo, Done]
        defaultValue: Todo
  - id: 2
    name: Notes
    fields: []
`
	tables, err := LoadTables(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, tables, 2)

	assert.Equal(t, int64(1), tables[0].ID)
	assert.Equal(t, "Tasks", tables[0].Name)
	require.Len(t, tables[0].Fields, 2)
	assert.True(t, tables[0].Fields[0].Required)
	assert.Equal(t, FieldDropdown, tables[0].Fields[1].Type)
	assert.Equal(t, []string{"Todo", "Done"}, tables[0].Fields[1].Options)
	assert.Nil(t, tables[0].Fields[0].DefaultValue)
	assert.Equal(t, "Todo", tables[0].Fields[1].DefaultValue)
	assert.Empty(t, tables[1].Fields)
}

func TestLoadTablesJSON(t *testing.T) {
	doc := `{"tables": [{"id": 3, "name": "People", "fields": [{"id": "age", "name": "Age", "type": "number", "defaultValue": 18}]}]}`

	tables, err := LoadTables(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, FieldNumber, tables[0].Fields[0].Type)
	assert.Equal(t, 18, tables[0].Fields[0].DefaultValue)
}

func TestLoadTablesInvalid(t *testing.T) {
	_, err := LoadTables(strings.NewReader("tables: [unclosed"))
	assert.Error(t, err)
}

func TestLoadRecords(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "records document",
			doc:  "records:\n  - {title: \"O'Brien\", done: true, points: 3}\n  - {title: Second}\n",
		},
		{
			name: "bare list",
			doc:  "- {title: \"O'Brien\", done: true, points: 3}\n- {title: Second}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := LoadRecords(strings.NewReader(tt.doc))
			require.NoError(t, err)
			require.Len(t, records, 2)
			assert.Equal(t, "O'Brien", records[0]["title"])
			assert.Equal(t, true, records[0]["done"])
			assert.Equal(t, 3, records[0]["points"])
			assert.Equal(t, "Second", records[1]["title"])
		})
	}
}

func TestLoadRecordsEmpty(t *testing.T) {
	records, err := LoadRecords(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReservedWordIsInvalidField(t *testing.T) {
	err := Validate(Table{Name: "t", Fields: []Field{{ID: "select", Type: FieldText}}})
	assert.ErrorIs(t, err, ErrReservedWord)
	assert.ErrorIs(t, err, ErrInvalidField)
}
