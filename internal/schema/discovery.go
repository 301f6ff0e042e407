// Package schema infers table and column roles from arbitrary employee
// database schemas using synonym lists and fuzzy string matching.
package schema

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/arturoeanton/go-nlq-employee-ollama/internal/adapter/store"
	"github.com/arturoeanton/go-nlq-employee-ollama/internal/domain"
	"github.com/xrash/smetrics"
)

// fuzzyThreshold is the minimum Jaro-Winkler score for a fuzzy-only match.
const fuzzyThreshold = 0.88

var tableSynonyms = map[string][]string{
	domain.TableRoleEmployee: {
		"employee", "employees", "emp", "emps", "staff", "personnel",
		"people", "person", "worker", "workers", "team_member", "members",
	},
	domain.TableRoleDepartment: {
		"department", "departments", "dept", "depts", "division",
		"divisions", "team", "teams", "org_unit", "business_unit",
	},
}

var columnSynonyms = map[string][]string{
	domain.RoleName: {
		"name", "full_name", "fullname", "employee_name", "emp_name",
		"first_name", "last_name", "fname", "lname", "display_name",
	},
	domain.RoleSalary: {
		"salary", "annual_salary", "base_salary", "compensation", "pay",
		"pay_rate", "wage", "wages", "salary_amount", "gross_salary",
	},
	domain.RoleDepartmentRef: {
		"dept_id", "department_id", "division_id", "team_id", "dept_code",
		"dept", "department",
	},
	domain.RoleDepartmentName: {
		"dept_name", "department_name", "division_name", "team_name", "name",
	},
	domain.RoleHireDate: {
		"hire_date", "hired_on", "join_date", "joining_date", "start_date",
		"date_joined", "employment_date", "hired",
	},
	domain.RolePosition: {
		"position", "title", "job_title", "role", "designation", "job",
	},
	domain.RoleLocation: {
		"location", "office", "office_location", "city", "site",
		"work_location", "branch",
	},
	domain.RoleManager: {
		"manager_id", "supervisor_id", "reports_to", "manager", "lead_id",
	},
}

// Discovery infers schema roles for a connected database.
type Discovery struct {
	threshold float64
}

// NewDiscovery creates a Discovery with the default fuzzy threshold.
func NewDiscovery() *Discovery {
	return &Discovery{threshold: fuzzyThreshold}
}

// AnalyzeDatabase introspects the connected database and assigns table and
// column roles.
func (d *Discovery) AnalyzeDatabase(ctx context.Context, db *store.SQLDB) (*domain.DatabaseSchema, error) {
	tables, err := db.Introspect(ctx)
	if err != nil {
		return nil, err
	}

	schema := &domain.DatabaseSchema{
		Dialect: db.Dialect(),
		Tables:  tables,
		Hints: domain.SchemaHints{
			ColumnRoles: make(map[string]domain.ColumnRoles),
		},
	}

	for name, info := range tables {
		switch d.classifyTable(name) {
		case domain.TableRoleEmployee:
			schema.Hints.EmployeeTables = append(schema.Hints.EmployeeTables, name)
		case domain.TableRoleDepartment:
			schema.Hints.DepartmentTables = append(schema.Hints.DepartmentTables, name)
		}
		schema.Hints.ColumnRoles[name] = d.assignColumnRoles(info.Columns)
	}

	// Stable hint order regardless of map iteration.
	sort.Strings(schema.Hints.EmployeeTables)
	sort.Strings(schema.Hints.DepartmentTables)

	slog.Info("schema discovered",
		"dialect", schema.Dialect,
		"tables", len(tables),
		"employee_tables", schema.Hints.EmployeeTables,
		"department_tables", schema.Hints.DepartmentTables,
	)
	return schema, nil
}

// classifyTable returns the table role with the best synonym score, or ""
// when nothing clears the threshold.
func (d *Discovery) classifyTable(name string) string {
	bestRole, bestScore := "", 0.0
	for role, synonyms := range tableSynonyms {
		if score := d.matchScore(name, synonyms); score > bestScore {
			bestRole, bestScore = role, score
		}
	}
	if bestScore < d.threshold {
		return ""
	}
	return bestRole
}

// assignColumnRoles maps each semantic role to the best-scoring column.
// Every role is bound to at most one column; ties prefer the shorter name.
func (d *Discovery) assignColumnRoles(columns []domain.ColumnInfo) domain.ColumnRoles {
	roles := make(domain.ColumnRoles)
	for role, synonyms := range columnSynonyms {
		bestCol, bestScore := "", 0.0
		for _, col := range columns {
			score := d.matchScore(col.Name, synonyms)
			if score > bestScore || (score == bestScore && score > 0 && len(col.Name) < len(bestCol)) {
				bestCol, bestScore = col.Name, score
			}
		}
		if bestScore >= d.threshold {
			roles[role] = bestCol
		}
	}
	return roles
}

// matchScore scores a candidate identifier against a synonym list:
// exact match 1.0, substring containment 0.9, otherwise the best
// Jaro-Winkler score between normalized forms.
func (d *Discovery) matchScore(candidate string, synonyms []string) float64 {
	c := normalizeIdent(candidate)
	best := 0.0
	for _, syn := range synonyms {
		s := normalizeIdent(syn)
		switch {
		case c == s:
			return 1.0
		case strings.Contains(c, s) || strings.Contains(s, c):
			if best < 0.9 {
				best = 0.9
			}
		default:
			if jw := smetrics.JaroWinkler(c, s, 0.7, 4); jw > best {
				best = jw
			}
		}
	}
	return best
}

// normalizeIdent lowercases and strips separators so emp_id, EmpID and
// emp-id compare equal.
func normalizeIdent(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
	return s
}
