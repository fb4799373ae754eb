package postgres

import (
	"fmt"
	"strings"

	"github.com/phrazzld/users-api/internal/domain"
	"github.com/phrazzld/users-api/internal/store"
)

// userColumns is the projection shared by every statement returning users.
const userColumns = "id, name, email, age, created_at, updated_at"

// likeEscaper escapes LIKE metacharacters so filter input matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns an ILIKE pattern matching s anywhere in the column.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// argList accumulates positional parameters and hands out their $n placeholders.
type argList struct {
	args []any
}

func (a *argList) add(v any) string {
	a.args = append(a.args, v)
	return fmt.Sprintf("$%d", len(a.args))
}

// buildUserFilter returns the WHERE clause (empty when unfiltered) and its
// arguments for a listing. Conditions are AND-combined.
func buildUserFilter(p store.ListParams) (string, []any) {
	var (
		a     argList
		conds []string
	)

	if p.Name != "" {
		conds = append(conds, fmt.Sprintf(`name ILIKE %s ESCAPE '\'`, a.add(containsPattern(p.Name))))
	}
	if p.Email != "" {
		conds = append(conds, fmt.Sprintf(`email ILIKE %s ESCAPE '\'`, a.add(containsPattern(p.Email))))
	}
	if p.MinAge != nil {
		conds = append(conds, "age >= "+a.add(*p.MinAge))
	}
	if p.MaxAge != nil {
		conds = append(conds, "age <= "+a.add(*p.MaxAge))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), a.args
}

// buildListQuery returns the page query and the count query for p, which
// must already be normalized. Sort column and direction come from a closed
// set of constants, never from raw input; id breaks ties so paging is stable.
func buildListQuery(p store.ListParams) (listSQL string, listArgs []any, countSQL string, countArgs []any) {
	where, args := buildUserFilter(p)

	countSQL = "SELECT COUNT(*) FROM users" + where
	countArgs = args

	a := argList{args: append([]any(nil), args...)}
	limit := a.add(p.Limit)
	offset := a.add(p.Offset())

	listSQL = fmt.Sprintf(
		"SELECT %s FROM users%s ORDER BY %s %s, id %s LIMIT %s OFFSET %s",
		userColumns, where, p.SortBy, p.SortOrder, p.SortOrder, limit, offset,
	)
	return listSQL, a.args, countSQL, countArgs
}

// buildUpdateQuery returns an UPDATE touching only the fields present in
// patch. updated_at is always refreshed.
func buildUpdateQuery(id int64, patch domain.UserPatch) (string, []any) {
	var (
		a    argList
		sets []string
	)

	if patch.Name != nil {
		sets = append(sets, "name = "+a.add(*patch.Name))
	}
	if patch.Email != nil {
		sets = append(sets, "email = "+a.add(*patch.Email))
	}
	if patch.SetAge {
		var age any
		if patch.Age != nil {
			age = *patch.Age
		}
		sets = append(sets, "age = "+a.add(age))
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(
		"UPDATE users SET %s WHERE id = %s RETURNING %s",
		strings.Join(sets, ", "), a.add(id), userColumns,
	)
	return query, a.args
}
