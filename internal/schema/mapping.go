package schema

import (
	"strings"

	"github.com/arturoeanton/go-nlq-employee-ollama/internal/domain"
)

// Mapping binds a natural-language query to concrete tables and columns of
// the discovered schema.
type Mapping struct {
	// Table is the employee table the query targets. Empty when no
	// employee-like table exists.
	Table string
	// Roles are the column roles of Table.
	Roles domain.ColumnRoles

	// DeptTable, DeptNameCol and the join columns are set when a usable
	// employee→department relationship was found.
	DeptTable    string
	DeptNameCol  string
	JoinLocalCol string // employee-side column referencing the department table
	JoinRefCol   string // department-side key column
}

// HasDeptJoin reports whether department grouping/filtering is possible.
func (m *Mapping) HasDeptJoin() bool {
	return m.DeptTable != "" && m.DeptNameCol != "" && m.JoinLocalCol != "" && m.JoinRefCol != ""
}

// MapQuery maps a free-text query onto the discovered schema. It picks the
// employee table (preferring one whose name appears in the query), binds
// its column roles, and resolves the department join if one exists.
// Returns nil when the schema has no employee-like table.
func (d *Discovery) MapQuery(query string, s *domain.DatabaseSchema) *Mapping {
	if s == nil || len(s.Hints.EmployeeTables) == 0 {
		return nil
	}

	table := s.Hints.EmployeeTables[0]
	q := normalizeIdent(query)
	for _, cand := range s.Hints.EmployeeTables {
		if strings.Contains(q, normalizeIdent(cand)) {
			table = cand
			break
		}
	}

	m := &Mapping{
		Table: table,
		Roles: s.Hints.ColumnRoles[table],
	}
	d.resolveDeptJoin(m, s)
	return m
}

// resolveDeptJoin finds the employee→department relationship, first via
// foreign-key metadata, then by matching column names across both tables.
func (d *Discovery) resolveDeptJoin(m *Mapping, s *domain.DatabaseSchema) {
	if len(s.Hints.DepartmentTables) == 0 {
		return
	}

	empInfo, ok := s.Tables[m.Table]
	if !ok {
		return
	}

	for _, deptTable := range s.Hints.DepartmentTables {
		deptInfo, ok := s.Tables[deptTable]
		if !ok {
			continue
		}

		nameCol := deptNameColumn(deptTable, deptInfo, s)
		if nameCol == "" {
			continue
		}

		// Prefer declared foreign keys.
		for _, fk := range empInfo.ForeignKeys {
			if fk.RefTable == deptTable {
				refCol := fk.RefColumn
				if refCol == "" {
					refCol = primaryKey(deptInfo)
				}
				if refCol == "" {
					continue
				}
				m.DeptTable = deptTable
				m.DeptNameCol = nameCol
				m.JoinLocalCol = fk.Column
				m.JoinRefCol = refCol
				return
			}
		}

		// Fall back to a shared column name (dept_id on both sides).
		local := m.Roles[domain.RoleDepartmentRef]
		if local == "" {
			continue
		}
		for _, col := range deptInfo.Columns {
			if normalizeIdent(col.Name) == normalizeIdent(local) {
				m.DeptTable = deptTable
				m.DeptNameCol = nameCol
				m.JoinLocalCol = local
				m.JoinRefCol = col.Name
				return
			}
		}
	}
}

// deptNameColumn picks the human-readable name column of a department table.
func deptNameColumn(deptTable string, info domain.TableInfo, s *domain.DatabaseSchema) string {
	roles := s.Hints.ColumnRoles[deptTable]
	if col, ok := roles[domain.RoleDepartmentName]; ok {
		return col
	}
	if col, ok := roles[domain.RoleName]; ok {
		return col
	}
	// Last resort: the first text-ish non-key column.
	for _, col := range info.Columns {
		if col.PrimaryKey {
			continue
		}
		t := strings.ToLower(col.DataType)
		if strings.Contains(t, "char") || strings.Contains(t, "text") {
			return col.Name
		}
	}
	return ""
}

func primaryKey(info domain.TableInfo) string {
	for _, col := range info.Columns {
		if col.PrimaryKey {
			return col.Name
		}
	}
	return ""
}
