package datarecording

import (
	"database/sql"
	"fmt"
)

// DataReader reads back what a DataRecorder stored.
type DataReader interface {
	// ListTables returns the names of the tables in the database.
	ListTables() ([]string, error)

	// CountRows returns the number of rows of a table.
	CountRows(tableName string) (int, error)

	// Close closes the reader
	Close() error
}

type sqliteReader struct {
	*sql.DB
}

// NewReader opens an SQLite database file for reading.
func NewReader(dbFilename string) (DataReader, error) {
	db, err := sql.Open("sqlite3", dbFilename)
	if err != nil {
		return nil, err
	}

	return &sqliteReader{DB: db}, nil
}

// NewReaderWithDB creates a new DataReader with a given database
func NewReaderWithDB(db *sql.DB) DataReader {
	return &sqliteReader{DB: db}
}

func (r *sqliteReader) ListTables() ([]string, error) {
	rows, err := r.Query(
		"SELECT name FROM sqlite_master WHERE type='table' ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}

		names = append(names, name)
	}

	return names, rows.Err()
}

func (r *sqliteReader) CountRows(tableName string) (int, error) {
	var count int

	err := r.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", tableName)).
		Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}
