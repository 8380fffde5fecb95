package schema

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// IDColumn is the implicit primary key column every compiled table carries
const IDColumn = "id"

var (
	ErrEmptyTableName = errors.New("table name is empty")
	ErrInvalidField   = errors.New("invalid field")
	ErrDuplicateField = errors.New("duplicate field")
	ErrMissingOptions = errors.New("dropdown field has no options")
	ErrReservedColumn = errors.New("field collides with the id column")
	ErrDuplicateTable = errors.New("duplicate table")

	// ErrReservedWord wraps ErrInvalidField
	ErrReservedWord = fmt.Errorf("identifier is a reserved SQL keyword: %w", ErrInvalidField)
)

// reservedWords are keywords reserved by at least one of PostgreSQL, MySQL
// and SQLite that a sanitized identifier could plausibly collide with
var reservedWords = map[string]bool{
	"add": true, "all": true, "alter": true, "and": true, "any": true, "as": true,
	"asc": true, "between": true, "by": true, "case": true, "check": true,
	"column": true, "constraint": true, "create": true, "cross": true,
	"default": true, "delete": true, "desc": true, "distinct": true, "drop": true,
	"else": true, "end": true, "exists": true, "foreign": true, "from": true,
	"full": true, "group": true, "having": true, "in": true, "index": true,
	"inner": true, "insert": true, "into": true, "is": true, "join": true,
	"key": true, "left": true, "like": true, "limit": true, "not": true,
	"null": true, "offset": true, "on": true, "or": true, "order": true,
	"outer": true, "primary": true, "references": true, "right": true,
	"select": true, "set": true, "table": true, "then": true, "to": true,
	"union": true, "unique": true, "update": true, "user": true, "using": true,
	"values": true, "when": true, "where": true, "with": true,
}

var validate = validator.New()

// Validate checks the preconditions a table must meet before it can be
// compiled to SQL. The returned error wraps one of the Err* sentinels.
func Validate(t Table) error {
	if err := validate.Struct(t); err != nil {
		return translateValidationError(t, err)
	}

	if isBlankIdentifier(Identifier(t.Name)) {
		return fmt.Errorf("table %q: %w", t.Name, ErrEmptyTableName)
	}
	if reservedWords[Identifier(t.Name)] {
		return fmt.Errorf("table %q: %w", t.Name, ErrReservedWord)
	}

	seenIDs := make(map[string]bool, len(t.Fields))
	seenColumns := make(map[string]string, len(t.Fields))
	for _, f := range t.Fields {
		if seenIDs[f.ID] {
			return fmt.Errorf("table %q: field %q: %w", t.Name, f.ID, ErrDuplicateField)
		}
		seenIDs[f.ID] = true

		col := Identifier(f.ID)
		if isBlankIdentifier(col) {
			return fmt.Errorf("table %q: field %q has no usable column name: %w", t.Name, f.ID, ErrInvalidField)
		}
		if col == IDColumn {
			return fmt.Errorf("table %q: field %q: %w", t.Name, f.ID, ErrReservedColumn)
		}
		if reservedWords[col] {
			return fmt.Errorf("table %q: field %q: %w", t.Name, f.ID, ErrReservedWord)
		}
		if other, ok := seenColumns[col]; ok {
			return fmt.Errorf("table %q: fields %q and %q both map to column %s: %w", t.Name, other, f.ID, col, ErrDuplicateField)
		}
		seenColumns[col] = f.ID

		if f.Type.HasOptions() && len(f.Options) == 0 {
			return fmt.Errorf("table %q: field %q: %w", t.Name, f.ID, ErrMissingOptions)
		}
	}

	return nil
}

// ValidateTables validates every table and rejects tables whose names
// compile to the same identifier
func ValidateTables(tables []Table) error {
	seen := make(map[string]string, len(tables))
	for _, t := range tables {
		if err := Validate(t); err != nil {
			return err
		}
		ident := Identifier(t.Name)
		if other, ok := seen[ident]; ok {
			return fmt.Errorf("tables %q and %q both map to %s: %w", other, t.Name, ident, ErrDuplicateTable)
		}
		seen[ident] = t.Name
	}
	return nil
}

func translateValidationError(t Table, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("failed to validate table %q: %w", t.Name, err)
	}

	fe := verrs[0]
	if fe.Namespace() == "Table.Name" {
		return fmt.Errorf("table %q: %w", t.Name, ErrEmptyTableName)
	}
	return fmt.Errorf("table %q: %s failed %q check: %w", t.Name, fe.Namespace(), fe.Tag(), ErrInvalidField)
}
