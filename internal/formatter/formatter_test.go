package formatter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tordrt/tablesql/internal/compiler"
	"github.com/tordrt/tablesql/internal/schema"
)

func testTables() []schema.Table {
	return []schema.Table{
		{
			ID:   1,
			Name: "Tasks",
			Fields: []schema.Field{
				{ID: "title", Name: "Title", Type: schema.FieldText, Required: true},
				{ID: "status", Name: "Status", Type: schema.FieldDropdown, Options: []string{"Todo", "Done"}},
			},
		},
		{
			ID:     2,
			Name:   "Attachments",
			Fields: []schema.Field{{ID: "file", Type: schema.FieldFile}},
		},
	}
}

func TestSQLFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewSQLFormatter(&buf, compiler.New()).Format(testTables()); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	output := buf.String()
	if !strings.HasPrefix(output, "-- tablesql database schema\n") {
		t.Errorf("Expected schema header, got %q", output)
	}
	if !strings.Contains(output, "CREATE TABLE tasks (id INTEGER PRIMARY KEY, title TEXT NOT NULL, status TEXT);\n\nCREATE TABLE attachments") {
		t.Errorf("Expected both tables in input order, got %q", output)
	}
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextFormatter(&buf).Format(testTables()); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	want := "TABLE tasks (PK: id)\n" +
		"  title: TEXT NOT NULL [text]\n" +
		"  status: TEXT (Todo|Done) [dropdown]\n" +
		"\n" +
		"TABLE attachments (PK: id)\n" +
		"  file: TEXT [file]\n"
	if buf.String() != want {
		t.Errorf("Expected:\n%s\ngot:\n%s", want, buf.String())
	}
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewMarkdownFormatter(&buf, compiler.New()).Format(testTables()); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"# Database Schema\n",
		"## Tasks\n",
		"- **id:** INTEGER, PK\n",
		"- **title:** TEXT, NOT NULL, label \"Title\"\n",
		"- **status:** TEXT (Todo|Done), label \"Status\"\n",
		"- **file:** TEXT\n",
		"```sql\nCREATE TABLE attachments (id INTEGER PRIMARY KEY, file TEXT);\n```\n",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
}

func TestFormatRejectsInvalidTables(t *testing.T) {
	tables := []schema.Table{{Name: "Tasks"}, {Name: "tasks"}}

	for _, format := range []string{FormatSQL, FormatMarkdown, FormatText} {
		t.Run(format, func(t *testing.T) {
			f, err := New(format, &bytes.Buffer{}, compiler.New())
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if err := f.Format(tables); err == nil {
				t.Error("Expected error but got none")
			}
		})
	}
}

func TestNewInvalidFormat(t *testing.T) {
	if _, err := New("yaml", &bytes.Buffer{}, compiler.New()); err == nil {
		t.Error("Expected error but got none")
	}
}

func TestMultiFileFormatter(t *testing.T) {
	tests := []struct {
		format       string
		ext          string
		tableContent string
		overview     string
	}{
		{
			format:       FormatSQL,
			ext:          ".sql",
			tableContent: "CREATE TABLE tasks (id INTEGER PRIMARY KEY, title TEXT NOT NULL, status TEXT);\n",
			overview:     "CREATE TABLE attachments",
		},
		{
			format:       FormatMarkdown,
			ext:          ".md",
			tableContent: "## Tasks",
			overview:     "- **attachments** (Attachments, 2 columns)\n- **tasks** (Tasks, 3 columns)\n",
		},
		{
			format:       FormatText,
			ext:          ".txt",
			tableContent: "TABLE tasks (PK: id)",
			overview:     "attachments (2 columns)\ntasks (3 columns)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			dir := t.TempDir()
			f := NewMultiFileFormatter(dir, tt.format, compiler.New())
			if err := f.Format(testTables()); err != nil {
				t.Fatalf("Format failed: %v", err)
			}

			for _, name := range []string{"_overview", "tasks", "attachments"} {
				if _, err := os.Stat(filepath.Join(dir, name+tt.ext)); os.IsNotExist(err) {
					t.Errorf("Expected %s%s to be created", name, tt.ext)
				}
			}

			content, err := os.ReadFile(filepath.Join(dir, "tasks"+tt.ext))
			if err != nil {
				t.Fatalf("Failed to read tasks%s: %v", tt.ext, err)
			}
			if !strings.Contains(string(content), tt.tableContent) {
				t.Errorf("Expected tasks%s to contain %q, got %q", tt.ext, tt.tableContent, content)
			}

			overview, err := os.ReadFile(filepath.Join(dir, "_overview"+tt.ext))
			if err != nil {
				t.Fatalf("Failed to read overview: %v", err)
			}
			if !strings.Contains(string(overview), tt.overview) {
				t.Errorf("Expected overview to contain %q, got %q", tt.overview, overview)
			}
		})
	}
}
