package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ColumnInfo describes one column of a table.
type ColumnInfo struct {
	Field string
	Type  string
}

// GetTableColumns retrieves the column definitions for a given table.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	types, err := db.Migrator().ColumnTypes(tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}

	columns := make([]ColumnInfo, 0, len(types))
	for _, col := range types {
		columns = append(columns, ColumnInfo{
			Field: strings.ToLower(col.Name()),
			Type:  strings.ToLower(col.DatabaseTypeName()),
		})
	}
	return columns, nil
}

// VerifySchema checks that every table exists and carries the listed columns.
// It returns one description per problem found.
func VerifySchema(db *gorm.DB, expected map[string][]string) ([]string, error) {
	var problems []string
	for table, wanted := range expected {
		if !db.Migrator().HasTable(table) {
			problems = append(problems, fmt.Sprintf("missing table %s", table))
			continue
		}
		columns, err := GetTableColumns(db, table)
		if err != nil {
			return nil, err
		}
		present := make(map[string]struct{}, len(columns))
		for _, col := range columns {
			present[col.Field] = struct{}{}
		}
		for _, name := range wanted {
			if _, ok := present[strings.ToLower(name)]; !ok {
				problems = append(problems, fmt.Sprintf("missing column %s.%s", table, name))
			}
		}
	}
	return problems, nil
}
