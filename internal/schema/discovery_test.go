package schema

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/arturoeanton/go-nlq-employee-ollama/internal/adapter/store"
	"github.com/arturoeanton/go-nlq-employee-ollama/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDemoDB(t *testing.T, schemaSQL string) *store.SQLDB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.db")

	raw, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = raw.Exec(schemaSQL)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	db, err := store.Open(context.Background(), "sqlite://"+path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

const demoSchema = `
CREATE TABLE departments (
	dept_id INTEGER PRIMARY KEY,
	dept_name TEXT,
	manager_id INTEGER
);
CREATE TABLE employees (
	emp_id INTEGER PRIMARY KEY,
	full_name TEXT,
	dept_id INTEGER,
	position TEXT,
	annual_salary REAL,
	join_date TEXT,
	office_location TEXT,
	FOREIGN KEY(dept_id) REFERENCES departments(dept_id)
);
INSERT INTO departments VALUES (1, 'Engineering', 100), (2, 'HR', 101);
INSERT INTO employees VALUES
	(10, 'Alice Smith', 1, 'Engineer', 120000, '2023-02-10', 'NY'),
	(11, 'Bob Jones', 1, 'Sr Engineer', 150000, '2024-01-20', 'NY'),
	(12, 'Carol White', 2, 'HR Manager', 110000, '2022-08-01', 'SF');
`

// Same data, different naming convention. Discovery must handle both.
const altSchema = `
CREATE TABLE divisions (
	id INTEGER PRIMARY KEY,
	division_name TEXT
);
CREATE TABLE staff (
	id INTEGER PRIMARY KEY,
	employee_name TEXT,
	division_id INTEGER,
	job_title TEXT,
	base_salary REAL,
	start_date TEXT,
	FOREIGN KEY(division_id) REFERENCES divisions(id)
);
INSERT INTO divisions VALUES (1, 'Sales');
INSERT INTO staff VALUES (1, 'Dana Fox', 1, 'Account Exec', 90000, '2021-05-01');
`

func TestAnalyzeDatabase(t *testing.T) {
	db := openDemoDB(t, demoSchema)
	disc := NewDiscovery()

	discovered, err := disc.AnalyzeDatabase(context.Background(), db)
	require.NoError(t, err)

	assert.Equal(t, domain.DialectSQLite, discovered.Dialect)
	assert.Len(t, discovered.Tables, 2)

	assert.Equal(t, []string{"employees"}, discovered.Hints.EmployeeTables)
	assert.Equal(t, []string{"departments"}, discovered.Hints.DepartmentTables)

	empRoles := discovered.Hints.ColumnRoles["employees"]
	assert.Equal(t, "full_name", empRoles[domain.RoleName])
	assert.Equal(t, "annual_salary", empRoles[domain.RoleSalary])
	assert.Equal(t, "dept_id", empRoles[domain.RoleDepartmentRef])
	assert.Equal(t, "join_date", empRoles[domain.RoleHireDate])
	assert.Equal(t, "position", empRoles[domain.RolePosition])
	assert.Equal(t, "office_location", empRoles[domain.RoleLocation])

	deptRoles := discovered.Hints.ColumnRoles["departments"]
	assert.Equal(t, "dept_name", deptRoles[domain.RoleDepartmentName])
	assert.Equal(t, "manager_id", deptRoles[domain.RoleManager])
}

func TestAnalyzeDatabaseAltNaming(t *testing.T) {
	db := openDemoDB(t, altSchema)
	disc := NewDiscovery()

	discovered, err := disc.AnalyzeDatabase(context.Background(), db)
	require.NoError(t, err)

	assert.Equal(t, []string{"staff"}, discovered.Hints.EmployeeTables)
	assert.Equal(t, []string{"divisions"}, discovered.Hints.DepartmentTables)

	roles := discovered.Hints.ColumnRoles["staff"]
	assert.Equal(t, "employee_name", roles[domain.RoleName])
	assert.Equal(t, "base_salary", roles[domain.RoleSalary])
	assert.Equal(t, "division_id", roles[domain.RoleDepartmentRef])
	assert.Equal(t, "start_date", roles[domain.RoleHireDate])
	assert.Equal(t, "job_title", roles[domain.RolePosition])
}

func TestMapQuery(t *testing.T) {
	db := openDemoDB(t, demoSchema)
	disc := NewDiscovery()

	discovered, err := disc.AnalyzeDatabase(context.Background(), db)
	require.NoError(t, err)

	t.Run("average salary by department", func(t *testing.T) {
		m := disc.MapQuery("Average salary by department", discovered)
		require.NotNil(t, m)
		assert.Equal(t, "employees", m.Table)
		require.True(t, m.HasDeptJoin())
		assert.Equal(t, "departments", m.DeptTable)
		assert.Equal(t, "dept_name", m.DeptNameCol)
		assert.Equal(t, "dept_id", m.JoinLocalCol)
		assert.Equal(t, "dept_id", m.JoinRefCol)
	})

	t.Run("binds roles of the target table", func(t *testing.T) {
		m := disc.MapQuery("List employees hired after 2023", discovered)
		require.NotNil(t, m)
		assert.Equal(t, "annual_salary", m.Roles[domain.RoleSalary])
		assert.Equal(t, "join_date", m.Roles[domain.RoleHireDate])
	})

	t.Run("nil when no employee table", func(t *testing.T) {
		empty := &domain.DatabaseSchema{Tables: map[string]domain.TableInfo{}}
		assert.Nil(t, disc.MapQuery("how many rows", empty))
	})
}

func TestMatchScore(t *testing.T) {
	disc := NewDiscovery()

	t.Run("exact", func(t *testing.T) {
		assert.Equal(t, 1.0, disc.matchScore("annual_salary", columnSynonyms[domain.RoleSalary]))
		assert.Equal(t, 1.0, disc.matchScore("EMPLOYEES", tableSynonyms[domain.TableRoleEmployee]))
	})

	t.Run("substring", func(t *testing.T) {
		score := disc.matchScore("employee_master", tableSynonyms[domain.TableRoleEmployee])
		assert.GreaterOrEqual(t, score, 0.9)
		assert.Less(t, score, 1.0)
	})

	t.Run("fuzzy clears threshold", func(t *testing.T) {
		// JaroWinkler("salery", "salary") ≈ 0.92
		score := disc.matchScore("salery", columnSynonyms[domain.RoleSalary])
		assert.GreaterOrEqual(t, score, fuzzyThreshold)
		assert.Less(t, score, 1.0)
	})

	t.Run("unrelated stays below threshold", func(t *testing.T) {
		score := disc.matchScore("created_at", columnSynonyms[domain.RoleSalary])
		assert.Less(t, score, fuzzyThreshold)
	})
}

func TestClassifyTable(t *testing.T) {
	disc := NewDiscovery()

	assert.Equal(t, domain.TableRoleEmployee, disc.classifyTable("employees"))
	assert.Equal(t, domain.TableRoleEmployee, disc.classifyTable("emp"))
	assert.Equal(t, domain.TableRoleDepartment, disc.classifyTable("departments"))
	assert.Equal(t, domain.TableRoleDepartment, disc.classifyTable("org_units"))
	assert.Equal(t, "", disc.classifyTable("audit_log"))
	assert.Equal(t, "", disc.classifyTable("projects"))
}
