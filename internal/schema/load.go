package schema

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type tablesDocument struct {
	Tables []Table `yaml:"tables"`
}

type recordsDocument struct {
	Records []ValueRecord `yaml:"records"`
}

// LoadTables reads table definitions from a YAML or JSON document
func LoadTables(r io.Reader) ([]Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read table definitions: %w", err)
	}

	var doc tablesDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode table definitions: %w", err)
	}

	return doc.Tables, nil
}

// LoadTablesFile reads table definitions from a file
func LoadTablesFile(path string) ([]Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return LoadTables(f)
}

// LoadRecords reads value records either from a {records: [...]} document
// or from a bare top-level list
func LoadRecords(r io.Reader) ([]ValueRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	if node.Content[0].Kind == yaml.SequenceNode {
		var records []ValueRecord
		if err := node.Content[0].Decode(&records); err != nil {
			return nil, fmt.Errorf("failed to decode records: %w", err)
		}
		return records, nil
	}

	var doc recordsDocument
	if err := node.Content[0].Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return doc.Records, nil
}

// LoadRecordsFile reads value records from a file
func LoadRecordsFile(path string) ([]ValueRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return LoadRecords(f)
}
