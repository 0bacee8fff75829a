package repository

import (
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching term anywhere in a column.
// Use it with the condition returned by containsClause.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// containsClause is a substring condition on column for the current
// dialect. ILIKE on postgres ignores case in every script; sqlite's LIKE
// ignores ASCII case only and compares other letters as stored.
func containsClause(db *gorm.DB, column string) string {
	if db.Dialector.Name() == "postgres" {
		return column + ` ILIKE ? ESCAPE '\'`
	}
	return column + ` LIKE ? ESCAPE '\'`
}

type countRow struct {
	ID    int
	Total int64
}

func countsByID(rows []countRow) map[int]int64 {
	counts := make(map[int]int64, len(rows))
	for _, r := range rows {
		counts[r.ID] = r.Total
	}
	return counts
}
