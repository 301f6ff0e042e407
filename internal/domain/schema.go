package domain

// Dialect identifiers for supported relational backends.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Table roles assigned by schema discovery.
const (
	TableRoleEmployee   = "employee"
	TableRoleDepartment = "department"
)

// Column roles assigned by schema discovery.
const (
	RoleName           = "name"
	RoleSalary         = "salary"
	RoleDepartmentRef  = "department_ref"
	RoleDepartmentName = "department_name"
	RoleHireDate       = "hire_date"
	RolePosition       = "position"
	RoleLocation       = "location"
	RoleManager        = "manager"
)

// ColumnInfo describes a single column of an introspected table.
type ColumnInfo struct {
	Name       string `json:"name"`
	DataType   string `json:"data_type"`
	Nullable   bool   `json:"nullable"`
	PrimaryKey bool   `json:"primary_key"`
}

// ForeignKey describes a foreign-key relationship discovered via metadata.
type ForeignKey struct {
	Column    string `json:"column"`
	RefTable  string `json:"ref_table"`
	RefColumn string `json:"ref_column"`
}

// TableInfo holds the raw introspection result for one table.
type TableInfo struct {
	Name        string           `json:"name"`
	Columns     []ColumnInfo     `json:"columns"`
	ForeignKeys []ForeignKey     `json:"foreign_keys,omitempty"`
	RowCount    int64            `json:"row_count"`
	Samples     []map[string]any `json:"samples,omitempty"`
}

// ColumnRoles maps semantic roles (RoleSalary, RoleHireDate, ...) to the
// concrete column name that plays that role in one table.
type ColumnRoles map[string]string

// SchemaHints carries the discovery verdicts layered on top of raw metadata.
type SchemaHints struct {
	EmployeeTables   []string               `json:"employee_tables"`
	DepartmentTables []string               `json:"department_tables"`
	ColumnRoles      map[string]ColumnRoles `json:"column_roles"`
}

// DatabaseSchema is the full discovery result for a connected database.
type DatabaseSchema struct {
	Dialect string               `json:"dialect"`
	Tables  map[string]TableInfo `json:"tables"`
	Hints   SchemaHints          `json:"hints"`
}
