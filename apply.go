package tablesql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/tordrt/tablesql/internal/compiler"
	"github.com/tordrt/tablesql/internal/db"
	"github.com/tordrt/tablesql/internal/schema"
)

// ApplyOptions configures how compiled tables are applied to a database.
type ApplyOptions struct {
	// SchemaName selects the target schema.
	// PostgreSQL: defaults to "public"
	// MySQL: defaults to the database named in the connection string
	// SQLite: not applicable
	SchemaName string

	// Migrate adds columns for fields that an existing table lacks.
	// Without it, existing tables are skipped untouched.
	Migrate bool

	// Records maps a table (display name or identifier) to rows to insert
	// once the schema is in place.
	Records map[string][]schema.ValueRecord

	// CheckConstraints restricts dropdown columns to their options.
	CheckConstraints bool

	// Logger receives one debug entry per executed statement.
	// Defaults to discarding everything.
	Logger *slog.Logger
}

// ApplyReport summarizes what Apply changed
type ApplyReport struct {
	Created  []string            // tables created
	Skipped  []string            // tables that already existed
	Altered  map[string][]string // table -> columns added by migration
	Inserted int                 // rows inserted
}

// ErrRequiredWithoutDefault is returned when migration would add a NOT NULL
// column with nothing to fill existing rows
var ErrRequiredWithoutDefault = errors.New("required field needs a default value to be added to an existing table")

// Apply connects to the database at databaseURL and brings it in line with
// tables: missing tables are created, existing ones are skipped (or, with
// Migrate, given their missing columns) and any Records are inserted.
// Created tables get a database-generated id column so records can be
// inserted without one.
//
// Every statement is compiled before the first one runs, so invalid
// definitions or records change nothing. Statements then run one at a time
// and a failure part-way leaves the statements before it applied.
//
// Supported URL schemes:
//   - postgres:// or postgresql://
//   - mysql://
//   - sqlite://
func Apply(ctx context.Context, databaseURL string, tables []schema.Table, opts *ApplyOptions) (*ApplyReport, error) {
	if opts == nil {
		opts = &ApplyOptions{}
	}

	if err := schema.ValidateTables(tables); err != nil {
		return nil, err
	}

	dbType, connStr, err := parseDatabaseURL(databaseURL)
	if err != nil {
		return nil, err
	}

	exec, err := connect(ctx, dbType, connStr, opts.SchemaName)
	if err != nil {
		return nil, err
	}
	defer func() { _ = exec.Close(ctx) }()

	return applyTables(ctx, exec, compiler.Dialect(dbType), tables, opts)
}

// Connect opens an executor for the database at databaseURL
func Connect(ctx context.Context, databaseURL, schemaName string) (db.Executor, error) {
	dbType, connStr, err := parseDatabaseURL(databaseURL)
	if err != nil {
		return nil, err
	}
	return connect(ctx, dbType, connStr, schemaName)
}

func connect(ctx context.Context, dbType, connStr, schemaName string) (db.Executor, error) {
	switch dbType {
	case "postgres":
		client, err := db.NewPostgresClient(ctx, connStr, schemaName)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		return client, nil
	case "mysql":
		client, err := db.NewMySQLClient(ctx, connStr, schemaName)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
		}
		return client, nil
	case "sqlite":
		client, err := db.NewSQLiteClient(ctx, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
}

// tablePlan holds the compiled statements for one table
type tablePlan struct {
	ident   string
	create  string   // set when the table is missing
	alters  []string // ADD COLUMN statements
	added   []string // columns the alters add
	inserts []string
}

func applyTables(ctx context.Context, exec db.Executor, dialect compiler.Dialect, tables []schema.Table, opts *ApplyOptions) (*ApplyReport, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	copts := []compiler.Option{compiler.WithGeneratedID(dialect)}
	if opts.CheckConstraints {
		copts = append(copts, compiler.WithCheckConstraints())
	}
	c := compiler.New(copts...)

	plans, err := planTables(ctx, exec, c, tables, opts)
	if err != nil {
		return nil, err
	}

	run := func(stmt string) error {
		logger.Debug("executing statement", "sql", stmt)
		if err := exec.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute %q: %w", stmt, err)
		}
		return nil
	}

	report := &ApplyReport{Altered: map[string][]string{}}
	for _, p := range plans {
		switch {
		case p.create != "":
			if err := run(p.create); err != nil {
				return report, err
			}
			logger.Info("created table", "table", p.ident)
			report.Created = append(report.Created, p.ident)
		case len(p.alters) > 0:
			for _, stmt := range p.alters {
				if err := run(stmt); err != nil {
					return report, err
				}
			}
			logger.Info("added columns", "table", p.ident, "columns", strings.Join(p.added, ","))
			report.Altered[p.ident] = p.added
		default:
			logger.Info("table already exists, skipping", "table", p.ident)
			report.Skipped = append(report.Skipped, p.ident)
		}
	}

	for _, p := range plans {
		for _, stmt := range p.inserts {
			if err := run(stmt); err != nil {
				return report, err
			}
			report.Inserted++
		}
	}

	return report, nil
}

// planTables compiles every statement Apply will run, in execution order
func planTables(ctx context.Context, exec db.Executor, c *compiler.Compiler, tables []schema.Table, opts *ApplyOptions) ([]tablePlan, error) {
	records, err := recordsByTable(tables, opts.Records)
	if err != nil {
		return nil, err
	}

	names, err := exec.TableNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	existing := lowerSet(names)

	plans := make([]tablePlan, 0, len(tables))
	for _, t := range tables {
		p := tablePlan{ident: schema.Identifier(t.Name)}

		switch {
		case !existing[p.ident]:
			if p.create, err = c.CreateTable(t); err != nil {
				return nil, err
			}
		case opts.Migrate:
			if err := planMigration(ctx, exec, c, t, &p); err != nil {
				return nil, err
			}
		}

		for i, record := range records[t.Name] {
			stmt, err := c.Insert(t, record)
			if err != nil {
				return nil, fmt.Errorf("failed to compile record %d for %s: %w", i, p.ident, err)
			}
			p.inserts = append(p.inserts, stmt)
		}

		plans = append(plans, p)
	}

	return plans, nil
}

// planMigration adds a column for every field the live table lacks, in field order
func planMigration(ctx context.Context, exec db.Executor, c *compiler.Compiler, t schema.Table, p *tablePlan) error {
	cols, err := exec.ColumnNames(ctx, p.ident)
	if err != nil {
		return fmt.Errorf("failed to list columns of %s: %w", p.ident, err)
	}
	have := lowerSet(cols)

	current := schema.Table{ID: t.ID, Name: t.Name}
	var missing []schema.Field
	for _, f := range t.Fields {
		if have[schema.Identifier(f.ID)] {
			current.Fields = append(current.Fields, f)
		} else {
			missing = append(missing, f)
		}
	}

	for _, f := range missing {
		if f.Required && f.DefaultValue == nil {
			return fmt.Errorf("table %q: field %q: %w", t.Name, f.ID, ErrRequiredWithoutDefault)
		}
		stmt, err := c.AddColumn(current, f)
		if err != nil {
			return err
		}
		p.alters = append(p.alters, stmt)
		p.added = append(p.added, schema.Identifier(f.ID))
		current.Fields = append(current.Fields, f)
	}

	return nil
}

// recordsByTable re-keys records by table display name, rejecting keys
// that name no table
func recordsByTable(tables []schema.Table, records map[string][]schema.ValueRecord) (map[string][]schema.ValueRecord, error) {
	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	byTable := make(map[string][]schema.ValueRecord, len(records))
	for _, k := range keys {
		t, ok := FindTable(tables, k)
		if !ok {
			return nil, fmt.Errorf("records given for unknown table %q", k)
		}
		byTable[t.Name] = append(byTable[t.Name], records[k]...)
	}
	return byTable, nil
}

func lowerSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = true
	}
	return set
}

// parseDatabaseURL detects database type and returns connection string
func parseDatabaseURL(url string) (dbType, connectionStr string, err error) {
	if url == "" {
		return "", "", fmt.Errorf("database URL is required")
	}

	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return "postgres", url, nil
	}

	if strings.HasPrefix(url, "mysql://") {
		// Strip mysql:// prefix for the Go MySQL driver
		return "mysql", strings.TrimPrefix(url, "mysql://"), nil
	}

	if strings.HasPrefix(url, "sqlite://") {
		// Strip sqlite:// prefix to get file path
		return "sqlite", strings.TrimPrefix(url, "sqlite://"), nil
	}

	return "", "", fmt.Errorf("invalid database URL scheme (must start with postgres://, mysql://, or sqlite://)")
}
