package postgres

import (
	"encoding/json"
	"fmt"
	"strings"

	"hermes/internal/repository"
)

// column maps a filter key onto a table column. Array columns are JSONB
// arrays of strings and match by containment.
type column struct {
	name  string
	array bool
}

// where renders filters as SQL conditions, numbering placeholders after
// the args already collected.
func where(filters []repository.Filter, columns map[string]column, args []any) ([]string, []any, error) {
	conds := make([]string, 0, len(filters))
	for _, f := range filters {
		col, ok := columns[f.Key]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q", repository.ErrInvalidFilter, f.Key)
		}
		args = append(args, f.Value)
		if col.array {
			conds = append(conds, fmt.Sprintf("%s @> jsonb_build_array($%d::text)", col.name, len(args)))
		} else {
			conds = append(conds, fmt.Sprintf("%s = $%d", col.name, len(args)))
		}
	}
	return conds, args, nil
}

func textMatch(text string, args []any) (string, []any) {
	args = append(args, text)
	return fmt.Sprintf("title ILIKE '%%' || $%d || '%%'", len(args)), args
}

func whereSQL(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func orderSQL(ascending bool, tiebreak string) string {
	if ascending {
		return " ORDER BY modified_time ASC, " + tiebreak + " ASC"
	}
	return " ORDER BY modified_time DESC, " + tiebreak + " DESC"
}

// jsonList encodes a string list for a JSONB column. nil becomes [].
func jsonList(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func scanList(raw []byte, dst *[]string) error {
	if len(raw) == 0 {
		return nil
	}
	var v []string
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("decode json list: %w", err)
	}
	if len(v) > 0 {
		*dst = v
	}
	return nil
}
