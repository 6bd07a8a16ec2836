package repository

import (
	"fmt"
	"strings"
)

// argList accumulates positional arguments and hands out their $n placeholders.
type argList struct {
	args []interface{}
}

func (a *argList) add(v interface{}) string {
	a.args = append(a.args, v)
	return fmt.Sprintf("$%d", len(a.args))
}

// assignments builds the SET list of a partial UPDATE.
type assignments struct {
	argList
	sets []string
}

func (s *assignments) set(column string, v interface{}) {
	s.sets = append(s.sets, column+" = "+s.add(v))
}

func (s *assignments) clause() string {
	return strings.Join(s.sets, ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns a search term into an ILIKE pattern matching it as a
// literal substring.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
