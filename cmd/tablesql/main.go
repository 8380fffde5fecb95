package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tordrt/tablesql"
	"github.com/tordrt/tablesql/internal/schema"
)

const dbURLEnv = "TABLESQL_DB_URL"

var (
	verbose     bool
	tablesFile  string
	outputFile  string
	outputDir   string
	tables      string
	exclude     string
	format      string
	views       bool
	checks      bool
	tableName   string
	recordsFile string
	dbURL       string
	mysqlURL    string
	sqlitePath  string
	schemaName  string
	migrate     bool
	recordFiles map[string]string

	logger = slog.New(slog.DiscardHandler)
)

var rootCmd = &cobra.Command{
	Use:   "tablesql",
	Short: "Compile spreadsheet-style table definitions into SQL",
	Long: `tablesql turns table definitions (named tables with typed fields) into CREATE TABLE
statements, INSERT statements for value records, and can apply both to PostgreSQL, MySQL or SQLite.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		if verbose {
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		} else {
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		}
		return nil
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the SQL schema for the table definitions",
	RunE:  runSchema,
}

var insertCmd = &cobra.Command{
	Use:   "insert",
	Short: "Print INSERT statements for a table's records",
	RunE:  runInsert,
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Create missing tables (and insert records) in a live database",
	RunE:  runApply,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every executed statement")
	rootCmd.PersistentFlags().StringVarP(&tablesFile, "file", "f", "tables.yaml", "Table definitions file (YAML or JSON)")

	schemaCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	schemaCmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Output directory for multi-file output")
	schemaCmd.Flags().StringVarP(&tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	schemaCmd.Flags().StringVar(&exclude, "exclude", "", "Tables to leave out (comma-separated, optional)")
	schemaCmd.Flags().StringVar(&format, "format", "sql", "Output format: sql, markdown or text")
	schemaCmd.Flags().BoolVar(&views, "views", false, "Append a CREATE VIEW per table")
	schemaCmd.Flags().BoolVar(&checks, "checks", false, "Restrict dropdown columns to their options")

	insertCmd.Flags().StringVar(&tableName, "table", "", "Table to insert into (name or identifier)")
	insertCmd.Flags().StringVar(&recordsFile, "records", "", "Records file (YAML or JSON)")
	insertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	_ = insertCmd.MarkFlagRequired("table")
	_ = insertCmd.MarkFlagRequired("records")

	applyCmd.Flags().StringVar(&dbURL, "db-url", "", "PostgreSQL connection string (default: $"+dbURLEnv+")")
	applyCmd.Flags().StringVar(&mysqlURL, "mysql-url", "", "MySQL connection string")
	applyCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite database file path")
	applyCmd.Flags().StringVarP(&schemaName, "schema", "s", "", "Database schema name (default: public for PostgreSQL)")
	applyCmd.Flags().BoolVar(&migrate, "migrate", false, "Add missing columns to existing tables")
	applyCmd.Flags().BoolVar(&checks, "checks", false, "Restrict dropdown columns to their options")
	applyCmd.Flags().StringToStringVar(&recordFiles, "records", nil, "Records to insert as table=file pairs")

	rootCmd.AddCommand(schemaCmd, insertCmd, applyCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	if outputDir != "" && outputFile != "" {
		return fmt.Errorf("cannot use both --output-dir and --output flags")
	}

	defs, err := tablesql.LoadSchema(tablesFile)
	if err != nil {
		return err
	}

	opts := &tablesql.Options{
		Tables:           parseTableList(tables),
		ExcludeTables:    parseTableList(exclude),
		Views:            views,
		CheckConstraints: checks,
	}
	if len(tablesql.SelectTables(defs, opts.Tables, opts.ExcludeTables)) == 0 {
		logger.Warn("no tables selected", "file", tablesFile)
	}

	if outputDir != "" {
		if err := tablesql.FormatSchema(defs, opts, &tablesql.OutputOptions{OutputDir: outputDir, Format: format}); err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		logger.Info("wrote schema", "dir", outputDir)
		return nil
	}

	return withOutput(outputFile, func(w io.Writer) error {
		if err := tablesql.FormatSchema(defs, opts, &tablesql.OutputOptions{Writer: w, Format: format}); err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		return nil
	})
}

func runInsert(cmd *cobra.Command, args []string) error {
	defs, err := tablesql.LoadSchema(tablesFile)
	if err != nil {
		return err
	}

	table, ok := tablesql.FindTable(defs, tableName)
	if !ok {
		return fmt.Errorf("table %q not found in %s", tableName, tablesFile)
	}

	records, err := schema.LoadRecordsFile(recordsFile)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		logger.Warn("no records to insert", "file", recordsFile)
	}

	return withOutput(outputFile, func(w io.Writer) error {
		return tablesql.GenerateInserts(table, records, w)
	})
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	url, err := resolveDatabaseURL()
	if err != nil {
		return err
	}

	defs, err := tablesql.LoadSchema(tablesFile)
	if err != nil {
		return err
	}

	records, err := loadRecordFiles(recordFiles)
	if err != nil {
		return err
	}

	report, err := tablesql.Apply(ctx, url, defs, &tablesql.ApplyOptions{
		SchemaName:       schemaName,
		Migrate:          migrate,
		Records:          records,
		CheckConstraints: checks,
		Logger:           logger,
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created %d, altered %d, skipped %d tables; inserted %d rows\n",
		len(report.Created), len(report.Altered), len(report.Skipped), report.Inserted)
	return nil
}

// resolveDatabaseURL turns the connection flags into a single tablesql URL,
// falling back to $TABLESQL_DB_URL when none is given
func resolveDatabaseURL() (string, error) {
	dbCount := 0
	if dbURL != "" {
		dbCount++
	}
	if mysqlURL != "" {
		dbCount++
	}
	if sqlitePath != "" {
		dbCount++
	}
	if dbCount > 1 {
		return "", fmt.Errorf("only one of --db-url, --mysql-url, or --sqlite can be specified")
	}

	switch {
	case sqlitePath != "":
		return "sqlite://" + sqlitePath, nil
	case mysqlURL != "":
		return "mysql://" + strings.TrimPrefix(mysqlURL, "mysql://"), nil
	case dbURL != "":
		return dbURL, nil
	}

	if env := os.Getenv(dbURLEnv); env != "" {
		return env, nil
	}
	return "", fmt.Errorf("one of --db-url, --mysql-url, or --sqlite must be specified (or set %s)", dbURLEnv)
}

// loadRecordFiles reads each table=file pair
func loadRecordFiles(files map[string]string) (map[string][]schema.ValueRecord, error) {
	if len(files) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	records := make(map[string][]schema.ValueRecord, len(files))
	for _, name := range names {
		rows, err := schema.LoadRecordsFile(files[name])
		if err != nil {
			return nil, fmt.Errorf("failed to load records for %s: %w", name, err)
		}
		records[name] = rows
	}
	return records, nil
}

// withOutput runs write against stdout or the named file
func withOutput(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("failed to close output file", "error", err)
		}
	}()

	return write(f)
}

// parseTableList splits a comma-separated flag value, dropping blanks
func parseTableList(s string) []string {
	if s == "" {
		return nil
	}

	var list []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			list = append(list, name)
		}
	}
	return list
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
