package database

import (
	"database/sql"
	"fmt"
	"time"

	"dbmap/internal/schema"
	"dbmap/pkg/config"
)

type SQLiteExtractor struct {
	db *sql.DB
}

func (s *SQLiteExtractor) ExtractSchema(cfg config.SchemaConfig) (*schema.Schema, error) {
	sch := &schema.Schema{
		Database:    "sqlite",
		GeneratedAt: time.Now(),
	}

	tables, err := s.extractTables(cfg)
	if err != nil {
		return nil, err
	}
	sch.Tables = tables

	relationships, err := s.extractRelationships(tables)
	if err != nil {
		return nil, err
	}
	sch.Relationships = relationships

	markForeign(sch)
	return sch, nil
}

func (s *SQLiteExtractor) extractTables(cfg config.SchemaConfig) ([]schema.Table, error) {
	query := `
        SELECT name
        FROM sqlite_master
        WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
        ORDER BY name
    `

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []schema.Table
	for rows.Next() {
		var table schema.Table
		if err := rows.Scan(&table.Name); err != nil {
			return nil, err
		}

		if len(cfg.IncludeTables) > 0 && !contains(cfg.IncludeTables, table.Name) {
			continue
		}
		if contains(cfg.ExcludeTables, table.Name) {
			continue
		}

		table.Schema = "main"

		columns, err := s.extractColumns(table.Name)
		if err != nil {
			return nil, err
		}
		table.Columns = columns

		if err := s.markIndexed(table.Name, columns); err != nil {
			return nil, err
		}

		tables = append(tables, table)
	}

	return tables, nil
}

func (s *SQLiteExtractor) extractColumns(tableName string) ([]schema.Column, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", tableName)

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var col schema.Column
		var cid int
		var defaultValue sql.NullString
		var notNull int
		var pk int

		if err := rows.Scan(
			&cid,
			&col.Name,
			&col.Type,
			&notNull,
			&defaultValue,
			&pk,
		); err != nil {
			return nil, err
		}

		col.IsNullable = notNull == 0
		col.IsPrimary = pk >= 1
		if defaultValue.Valid {
			col.Default = defaultValue.String
		}

		columns = append(columns, col)
	}

	return columns, nil
}

// markIndexed flags columns covered by an index, setting IsUnique for
// single-column unique indexes.
func (s *SQLiteExtractor) markIndexed(tableName string, columns []schema.Column) error {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA index_list(%s)", tableName))
	if err != nil {
		return err
	}
	defer rows.Close()

	type index struct {
		name   string
		unique bool
	}
	var indexes []index
	for rows.Next() {
		var seq int
		var idx index
		var origin string
		var partial int
		if err := rows.Scan(&seq, &idx.name, &idx.unique, &origin, &partial); err != nil {
			return err
		}
		indexes = append(indexes, idx)
	}

	for _, idx := range indexes {
		info, err := s.db.Query(fmt.Sprintf("PRAGMA index_info(%s)", idx.name))
		if err != nil {
			return err
		}
		var indexed []string
		for info.Next() {
			var seqno, cid int
			var name sql.NullString
			if err := info.Scan(&seqno, &cid, &name); err != nil {
				info.Close()
				return err
			}
			if name.Valid {
				indexed = append(indexed, name.String)
			}
		}
		info.Close()

		for _, name := range indexed {
			for i := range columns {
				if columns[i].Name == name {
					columns[i].IsIndexed = true
					if idx.unique && len(indexed) == 1 {
						columns[i].IsUnique = true
					}
				}
			}
		}
	}

	return nil
}

func (s *SQLiteExtractor) extractRelationships(tables []schema.Table) ([]schema.Relationship, error) {
	var relationships []schema.Relationship
	for _, table := range tables {
		query := fmt.Sprintf("PRAGMA foreign_key_list(%s)", table.Name)

		rows, err := s.db.Query(query)
		if err != nil {
			return nil, err
		}

		for rows.Next() {
			var rel schema.Relationship
			var id, seq int
			var onUpdate, onDelete, match string

			if err := rows.Scan(
				&id,
				&seq,
				&rel.TargetTable,
				&rel.SourceColumn,
				&rel.TargetColumn,
				&onUpdate,
				&onDelete,
				&match,
			); err != nil {
				rows.Close()
				return nil, err
			}

			rel.Name = fmt.Sprintf("fk_%s_%s", table.Name, rel.SourceColumn)
			rel.SourceTable = table.Name

			unique := false
			if col := table.Column(rel.SourceColumn); col != nil {
				unique = col.IsUnique
			}
			rel.FromCardinality, rel.ToCardinality = inferCardinality(unique)

			relationships = append(relationships, rel)
		}
		rows.Close()
	}

	return relationships, nil
}
