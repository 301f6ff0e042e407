package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/arturoeanton/go-nlq-employee-ollama/internal/adapter/store"
	"github.com/arturoeanton/go-nlq-employee-ollama/internal/domain"
	"github.com/arturoeanton/go-nlq-employee-ollama/internal/schema"
)

var (
	yearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	topNRe = regexp.MustCompile(`\b(?:top|first)\s+(\d{1,3})\b`)
	// captures the word after "in"/"from", e.g. "employees in Engineering"
	deptTermRe = regexp.MustCompile(`(?i)\b(?:in|from)\s+(?:the\s+)?([a-zA-Z][a-zA-Z&-]+)`)
	// captures the word after "named"/"called", e.g. "employees named alice"
	nameTermRe = regexp.MustCompile(`(?i)\b(?:named|called)\s+([a-zA-Z][a-zA-Z'-]*)`)
)

// deptStopwords are words deptTermRe may capture that never name a department.
var deptStopwords = map[string]bool{
	"company": true, "database": true, "office": true, "org": true,
	"organization": true, "total": true, "order": true, "system": true,
	"last": true, "each": true, "every": true, "all": true,
}

// generateSQL renders one of a fixed set of SQL templates against the
// mapped schema. Identifiers come from introspection only; all values are
// bound parameters. Non-aggregate statements always carry a row limit, and
// offset > 0 paginates them.
func generateSQL(query string, m *schema.Mapping, dialect string, limit, offset int) (string, []any) {
	q := strings.ToLower(query)
	emp := store.QuoteIdent(m.Table)

	salaryCol := m.Roles[domain.RoleSalary]
	hireCol := m.Roles[domain.RoleHireDate]

	// Count
	if strings.Contains(q, "how many") || strings.Contains(q, "count") {
		return fmt.Sprintf(`SELECT COUNT(*) AS count FROM %s`, emp), nil
	}

	// Aggregate salary (optionally grouped by department)
	if salaryCol != "" && (strings.Contains(q, "average") || strings.Contains(q, "avg") || strings.Contains(q, "mean")) {
		agg := fmt.Sprintf("AVG(e.%s)", store.QuoteIdent(salaryCol))
		alias := "avg_salary"
		if wantsDeptGrouping(q) && m.HasDeptJoin() {
			return fmt.Sprintf(
				`SELECT d.%[1]s AS department, %[2]s AS %[3]s FROM %[4]s e JOIN %[5]s d ON e.%[6]s = d.%[7]s GROUP BY d.%[1]s ORDER BY %[3]s DESC`,
				store.QuoteIdent(m.DeptNameCol), agg, alias, emp,
				store.QuoteIdent(m.DeptTable), store.QuoteIdent(m.JoinLocalCol), store.QuoteIdent(m.JoinRefCol),
			), nil
		}
		return fmt.Sprintf(`SELECT %s AS %s FROM %s e`, agg, alias, emp), nil
	}

	// Top-N / highest / lowest by salary
	if salaryCol != "" && (strings.Contains(q, "top") || strings.Contains(q, "highest") || strings.Contains(q, "lowest") || strings.Contains(q, "best paid")) {
		n := 5
		if match := topNRe.FindStringSubmatch(q); match != nil {
			if parsed, err := strconv.Atoi(match[1]); err == nil && parsed > 0 {
				n = parsed
			}
		}
		if n > limit {
			n = limit
		}
		dir := "DESC"
		if strings.Contains(q, "lowest") {
			dir = "ASC"
		}
		stmt := fmt.Sprintf(`SELECT * FROM %s ORDER BY %s %s LIMIT %s`,
			emp, store.QuoteIdent(salaryCol), dir, store.Placeholder(dialect, 1))
		if offset > 0 {
			stmt += fmt.Sprintf(" OFFSET %d", offset)
		}
		return stmt, []any{n}
	}

	// Hire-date filter
	if hireCol != "" && (strings.Contains(q, "hired") || strings.Contains(q, "joined") || strings.Contains(q, "since")) {
		if match := yearRe.FindString(q); match != "" {
			year, _ := strconv.Atoi(match)
			col := store.QuoteIdent(hireCol)
			switch {
			case strings.Contains(q, "before"):
				return fmt.Sprintf(`SELECT * FROM %s WHERE %s < %s %s`,
					emp, col, store.Placeholder(dialect, 1), pageClause(limit, offset)), []any{fmt.Sprintf("%04d-01-01", year)}
			case strings.Contains(q, "after") || strings.Contains(q, "since"):
				return fmt.Sprintf(`SELECT * FROM %s WHERE %s >= %s %s`,
					emp, col, store.Placeholder(dialect, 1), pageClause(limit, offset)), []any{fmt.Sprintf("%04d-01-01", year)}
			default: // hired in that year
				return fmt.Sprintf(`SELECT * FROM %s WHERE %s >= %s AND %s < %s %s`,
						emp, col, store.Placeholder(dialect, 1), col, store.Placeholder(dialect, 2), pageClause(limit, offset)),
					[]any{fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-01-01", year+1)}
			}
		}
	}

	// Department filter ("employees in Engineering")
	if m.HasDeptJoin() {
		if term := extractDeptTerm(query); term != "" {
			return fmt.Sprintf(
				`SELECT e.* FROM %s e JOIN %s d ON e.%s = d.%s WHERE LOWER(d.%s) = LOWER(%s) %s`,
				emp, store.QuoteIdent(m.DeptTable),
				store.QuoteIdent(m.JoinLocalCol), store.QuoteIdent(m.JoinRefCol),
				store.QuoteIdent(m.DeptNameCol), store.Placeholder(dialect, 1), pageClause(limit, offset),
			), []any{term}
		}
	}

	// Name / department token filter ("employees named Alice", "who is Bob")
	if nameCol := m.Roles[domain.RoleName]; nameCol != "" {
		if terms := extractNameTerms(query); len(terms) > 0 {
			var (
				conds []string
				args  []any
			)
			for _, term := range terms {
				pattern := "%" + strings.ToLower(term) + "%"
				conds = append(conds, fmt.Sprintf("LOWER(e.%s) LIKE %s",
					store.QuoteIdent(nameCol), store.Placeholder(dialect, len(args)+1)))
				args = append(args, pattern)
				if m.HasDeptJoin() {
					conds = append(conds, fmt.Sprintf("LOWER(d.%s) LIKE %s",
						store.QuoteIdent(m.DeptNameCol), store.Placeholder(dialect, len(args)+1)))
					args = append(args, pattern)
				}
			}
			where := strings.Join(conds, " OR ")
			if m.HasDeptJoin() {
				return fmt.Sprintf(`SELECT e.* FROM %s e JOIN %s d ON e.%s = d.%s WHERE %s %s`,
					emp, store.QuoteIdent(m.DeptTable),
					store.QuoteIdent(m.JoinLocalCol), store.QuoteIdent(m.JoinRefCol),
					where, pageClause(limit, offset)), args
			}
			return fmt.Sprintf(`SELECT * FROM %s e WHERE %s %s`, emp, where, pageClause(limit, offset)), args
		}
	}

	// Fallback: plain listing
	return fmt.Sprintf(`SELECT * FROM %s %s`, emp, pageClause(limit, offset)), nil
}

func pageClause(limit, offset int) string {
	if offset > 0 {
		return fmt.Sprintf("LIMIT %d OFFSET %d", limit, offset)
	}
	return fmt.Sprintf("LIMIT %d", limit)
}

func wantsDeptGrouping(q string) bool {
	return strings.Contains(q, "by department") ||
		strings.Contains(q, "per department") ||
		strings.Contains(q, "each department") ||
		strings.Contains(q, "by team") ||
		strings.Contains(q, "by division")
}

// extractDeptTerm pulls a department name candidate out of phrases like
// "employees in Engineering" or "people from the HR department".
func extractDeptTerm(query string) string {
	match := deptTermRe.FindStringSubmatch(query)
	if match == nil {
		return ""
	}
	term := strings.TrimSpace(match[1])
	if deptStopwords[strings.ToLower(term)] {
		return ""
	}
	return term
}

// extractNameTerms pulls person-name candidates: words after "named"/"called"
// plus capitalized words past the first position of the query.
func extractNameTerms(query string) []string {
	var terms []string
	seen := make(map[string]bool)
	add := func(term string) {
		lower := strings.ToLower(term)
		if len(term) < 2 || seen[lower] || deptStopwords[lower] {
			return
		}
		seen[lower] = true
		terms = append(terms, term)
	}

	for _, match := range nameTermRe.FindAllStringSubmatch(query, -1) {
		add(match[1])
	}

	for i, word := range strings.Fields(query) {
		if i == 0 {
			continue // sentence-start capitalization carries no signal
		}
		word = strings.Trim(word, `.,!?"'`)
		runes := []rune(word)
		if len(runes) == 0 || !unicode.IsUpper(runes[0]) {
			continue
		}
		add(word)
	}
	return terms
}
