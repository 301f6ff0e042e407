package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/arturoeanton/go-nlq-employee-ollama/internal/domain"
)

// Introspect reads table, column, key and row-count metadata for every user
// table in the connected database.
func (s *SQLDB) Introspect(ctx context.Context) (map[string]domain.TableInfo, error) {
	switch s.dialect {
	case domain.DialectPostgres:
		return s.introspectPostgres(ctx)
	case domain.DialectSQLite:
		return s.introspectSQLite(ctx)
	default:
		return nil, fmt.Errorf("introspect: unknown dialect %q", s.dialect)
	}
}

func (s *SQLDB) introspectPostgres(ctx context.Context) (map[string]domain.TableInfo, error) {
	tables := make(map[string]domain.TableInfo)

	rows, err := s.db.QueryContext(ctx, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
		ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	for _, name := range names {
		info := domain.TableInfo{Name: name}

		cols, err := s.postgresColumns(ctx, name)
		if err != nil {
			return nil, err
		}
		info.Columns = cols

		fks, err := s.postgresForeignKeys(ctx, name)
		if err != nil {
			return nil, err
		}
		info.ForeignKeys = fks

		var count int64
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+QuoteIdent(name)).Scan(&count); err != nil {
			return nil, fmt.Errorf("count rows of %s: %w", name, err)
		}
		info.RowCount = count

		samples, err := s.sampleRows(ctx, name)
		if err != nil {
			return nil, err
		}
		info.Samples = samples

		tables[name] = info
	}
	return tables, nil
}

// sampleRows fetches a few example rows so the schema payload shows what the
// data actually looks like.
func (s *SQLDB) sampleRows(ctx context.Context, table string) ([]map[string]any, error) {
	rows, err := s.QueryRows(ctx, `SELECT * FROM `+QuoteIdent(table)+` LIMIT 3`)
	if err != nil {
		return nil, fmt.Errorf("sample rows of %s: %w", table, err)
	}
	return rows, nil
}

func (s *SQLDB) postgresColumns(ctx context.Context, table string) ([]domain.ColumnInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.column_name, c.data_type, c.is_nullable,
		       EXISTS (
		           SELECT 1 FROM information_schema.table_constraints tc
		           JOIN information_schema.key_column_usage kcu
		             ON kcu.constraint_name = tc.constraint_name
		            AND kcu.table_schema = tc.table_schema
		           WHERE tc.constraint_type = 'PRIMARY KEY'
		             AND tc.table_name = c.table_name
		             AND kcu.column_name = c.column_name
		       ) AS is_pk
		FROM information_schema.columns c
		WHERE c.table_schema = 'public' AND c.table_name = $1
		ORDER BY c.ordinal_position`, table)
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []domain.ColumnInfo
	for rows.Next() {
		var col domain.ColumnInfo
		var nullable string
		if err := rows.Scan(&col.Name, &col.DataType, &nullable, &col.PrimaryKey); err != nil {
			return nil, fmt.Errorf("scan column of %s: %w", table, err)
		}
		col.Nullable = strings.EqualFold(nullable, "YES")
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

func (s *SQLDB) postgresForeignKeys(ctx context.Context, table string) ([]domain.ForeignKey, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kcu.column_name, ccu.table_name, ccu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON kcu.constraint_name = tc.constraint_name
		 AND kcu.table_schema = tc.table_schema
		JOIN information_schema.constraint_column_usage ccu
		  ON ccu.constraint_name = tc.constraint_name
		 AND ccu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY' AND tc.table_name = $1`, table)
	if err != nil {
		return nil, fmt.Errorf("foreign keys of %s: %w", table, err)
	}
	defer rows.Close()

	var fks []domain.ForeignKey
	for rows.Next() {
		var fk domain.ForeignKey
		if err := rows.Scan(&fk.Column, &fk.RefTable, &fk.RefColumn); err != nil {
			return nil, fmt.Errorf("scan foreign key of %s: %w", table, err)
		}
		fks = append(fks, fk)
	}
	return fks, rows.Err()
}

func (s *SQLDB) introspectSQLite(ctx context.Context) (map[string]domain.TableInfo, error) {
	tables := make(map[string]domain.TableInfo)

	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	for _, name := range names {
		info := domain.TableInfo{Name: name}

		cols, err := s.sqliteColumns(ctx, name)
		if err != nil {
			return nil, err
		}
		info.Columns = cols

		fks, err := s.sqliteForeignKeys(ctx, name)
		if err != nil {
			return nil, err
		}
		info.ForeignKeys = fks

		var count int64
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+QuoteIdent(name)).Scan(&count); err != nil {
			return nil, fmt.Errorf("count rows of %s: %w", name, err)
		}
		info.RowCount = count

		samples, err := s.sampleRows(ctx, name)
		if err != nil {
			return nil, err
		}
		info.Samples = samples

		tables[name] = info
	}
	return tables, nil
}

func (s *SQLDB) sqliteColumns(ctx context.Context, table string) ([]domain.ColumnInfo, error) {
	rows, err := s.db.QueryContext(ctx, `PRAGMA table_info(`+QuoteIdent(table)+`)`)
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []domain.ColumnInfo
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    any
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan column of %s: %w", table, err)
		}
		cols = append(cols, domain.ColumnInfo{
			Name:       name,
			DataType:   strings.ToLower(ctype),
			Nullable:   notNull == 0,
			PrimaryKey: pk > 0,
		})
	}
	return cols, rows.Err()
}

func (s *SQLDB) sqliteForeignKeys(ctx context.Context, table string) ([]domain.ForeignKey, error) {
	rows, err := s.db.QueryContext(ctx, `PRAGMA foreign_key_list(`+QuoteIdent(table)+`)`)
	if err != nil {
		return nil, fmt.Errorf("foreign keys of %s: %w", table, err)
	}
	defer rows.Close()

	var fks []domain.ForeignKey
	for rows.Next() {
		var (
			id, seq            int
			refTable, from     string
			to                 sql.NullString // NULL when referencing an implicit rowid PK
			onUpdate, onDelete string
			match              string
		)
		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, fmt.Errorf("scan foreign key of %s: %w", table, err)
		}
		fks = append(fks, domain.ForeignKey{Column: from, RefTable: refTable, RefColumn: to.String})
	}
	return fks, rows.Err()
}
