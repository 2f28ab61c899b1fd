package database

import (
	"database/sql"
	"time"

	"dbmap/internal/schema"
	"dbmap/pkg/config"
)

type PostgreSQLExtractor struct {
	db *sql.DB
}

func (p *PostgreSQLExtractor) ExtractSchema(cfg config.SchemaConfig) (*schema.Schema, error) {
	s := &schema.Schema{
		Database:    "postgresql",
		GeneratedAt: time.Now(),
	}

	tables, err := p.extractTables(cfg)
	if err != nil {
		return nil, err
	}
	s.Tables = tables

	relationships, err := p.extractRelationships(cfg)
	if err != nil {
		return nil, err
	}
	s.Relationships = relationships

	markForeign(s)
	return s, nil
}

func (p *PostgreSQLExtractor) extractTables(cfg config.SchemaConfig) ([]schema.Table, error) {
	query := `
        SELECT t.table_name, COALESCE(obj_description(c.oid), '') as comment
        FROM information_schema.tables t
        LEFT JOIN pg_class c ON c.relname = t.table_name
        WHERE t.table_schema = 'public' AND t.table_type = 'BASE TABLE'
        ORDER BY t.table_name
    `

	rows, err := p.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []schema.Table
	for rows.Next() {
		var table schema.Table
		if err := rows.Scan(&table.Name, &table.Comment); err != nil {
			return nil, err
		}

		if len(cfg.IncludeTables) > 0 && !contains(cfg.IncludeTables, table.Name) {
			continue
		}
		if contains(cfg.ExcludeTables, table.Name) {
			continue
		}

		table.Schema = "public"

		columns, err := p.extractColumns(table.Name)
		if err != nil {
			return nil, err
		}
		table.Columns = columns

		tables = append(tables, table)
	}

	return tables, nil
}

func (p *PostgreSQLExtractor) extractColumns(tableName string) ([]schema.Column, error) {
	query := `
        SELECT
            c.column_name,
            c.data_type,
            c.is_nullable = 'YES' as is_nullable,
            COALESCE(c.column_default, '') as column_default,
            COALESCE(col_description(pgc.oid, c.ordinal_position), '') as comment,
            EXISTS (
                SELECT 1 FROM information_schema.table_constraints tc
                JOIN information_schema.key_column_usage kcu
                    ON tc.constraint_name = kcu.constraint_name
                WHERE tc.table_schema = 'public'
                    AND tc.table_name = c.table_name
                    AND kcu.column_name = c.column_name
                    AND tc.constraint_type = 'PRIMARY KEY'
            ) as is_primary,
            EXISTS (
                SELECT 1 FROM information_schema.table_constraints tc
                JOIN information_schema.key_column_usage kcu
                    ON tc.constraint_name = kcu.constraint_name
                WHERE tc.table_schema = 'public'
                    AND tc.table_name = c.table_name
                    AND kcu.column_name = c.column_name
                    AND tc.constraint_type = 'UNIQUE'
            ) as is_unique,
            EXISTS (
                SELECT 1 FROM pg_indexes i
                WHERE i.schemaname = 'public'
                    AND i.tablename = c.table_name
                    AND i.indexdef LIKE '%' || c.column_name || '%'
            ) as is_indexed
        FROM information_schema.columns c
        LEFT JOIN pg_class pgc ON pgc.relname = c.table_name
        WHERE c.table_schema = 'public' AND c.table_name = $1
        ORDER BY c.ordinal_position
    `

	rows, err := p.db.Query(query, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var col schema.Column
		if err := rows.Scan(
			&col.Name,
			&col.Type,
			&col.IsNullable,
			&col.Default,
			&col.Comment,
			&col.IsPrimary,
			&col.IsUnique,
			&col.IsIndexed,
		); err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}

	return columns, nil
}

func (p *PostgreSQLExtractor) extractRelationships(cfg config.SchemaConfig) ([]schema.Relationship, error) {
	query := `
        SELECT
            tc.constraint_name,
            tc.table_name,
            kcu.column_name,
            ccu.table_name AS foreign_table_name,
            ccu.column_name AS foreign_column_name,
            EXISTS (
                SELECT 1 FROM information_schema.table_constraints uc
                JOIN information_schema.key_column_usage ukcu
                    ON uc.constraint_name = ukcu.constraint_name
                WHERE uc.table_schema = 'public'
                    AND uc.table_name = tc.table_name
                    AND ukcu.column_name = kcu.column_name
                    AND uc.constraint_type = 'UNIQUE'
            ) as source_unique
        FROM information_schema.table_constraints AS tc
        JOIN information_schema.key_column_usage AS kcu
            ON tc.constraint_name = kcu.constraint_name
        JOIN information_schema.constraint_column_usage AS ccu
            ON ccu.constraint_name = tc.constraint_name
        WHERE tc.constraint_type = 'FOREIGN KEY'
            AND tc.table_schema = 'public'
    `

	rows, err := p.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var relationships []schema.Relationship
	for rows.Next() {
		var rel schema.Relationship
		var sourceUnique bool
		if err := rows.Scan(
			&rel.Name,
			&rel.SourceTable,
			&rel.SourceColumn,
			&rel.TargetTable,
			&rel.TargetColumn,
			&sourceUnique,
		); err != nil {
			return nil, err
		}

		if len(cfg.IncludeTables) > 0 && !contains(cfg.IncludeTables, rel.SourceTable) && !contains(cfg.IncludeTables, rel.TargetTable) {
			continue
		}
		if contains(cfg.ExcludeTables, rel.SourceTable) || contains(cfg.ExcludeTables, rel.TargetTable) {
			continue
		}

		rel.FromCardinality, rel.ToCardinality = inferCardinality(sourceUnique)
		relationships = append(relationships, rel)
	}

	return relationships, nil
}
