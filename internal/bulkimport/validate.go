package bulkimport

import (
	"fmt"

	"github.com/grabsync/admin-bot/internal/grab"
)

// RequiredCategoryFields are the columns every category row must fill.
var RequiredCategoryFields = []string{"category_code", "name"}

// RejectedRow is a row that failed validation, with the 1-based line of the
// uploaded file it came from (line 1 is the header).
type RejectedRow struct {
	Line     int
	Row      Row
	Messages []string
}

// Validate checks every row for the required fields. The batch is atomic: a
// single rejected row invalidates the whole upload, and callers must not
// submit anything when rejected is non-empty.
func Validate(rows []Row, required []string) (valid []Row, rejected []RejectedRow) {
	for i, row := range rows {
		var messages []string
		for _, field := range required {
			if row[field] == "" {
				messages = append(messages, fmt.Sprintf("Missing field: %s", field))
			}
		}
		if len(messages) > 0 {
			rejected = append(rejected, RejectedRow{Line: i + 2, Row: row, Messages: messages})
		} else {
			valid = append(valid, row)
		}
	}
	return valid, rejected
}

// Order maps validated rows to the batch create shape, parents before
// children. Rows without a parent code go first, keeping their file order;
// remaining rows are emitted once their parent has been emitted or is not
// part of the batch at all (the parent then already exists server-side).
// A leftover row whose parent never materializes is appended as-is and left
// for the connector to reject with a per-row reason.
func Order(rows []Row) []grab.NewCategory {
	out := make([]grab.NewCategory, 0, len(rows))
	inBatch := make(map[string]bool, len(rows))
	for _, row := range rows {
		inBatch[row["category_code"]] = true
	}

	emitted := make(map[string]bool, len(rows))
	var pending []Row
	for _, row := range rows {
		if row["parent_category_code"] == "" {
			out = append(out, toNewCategory(row))
			emitted[row["category_code"]] = true
		} else {
			pending = append(pending, row)
		}
	}

	for len(pending) > 0 {
		var next []Row
		progressed := false
		for _, row := range pending {
			parent := row["parent_category_code"]
			if emitted[parent] || !inBatch[parent] {
				out = append(out, toNewCategory(row))
				emitted[row["category_code"]] = true
				progressed = true
			} else {
				next = append(next, row)
			}
		}
		if !progressed {
			// Cycle or self-reference among the remaining rows.
			for _, row := range next {
				out = append(out, toNewCategory(row))
			}
			break
		}
		pending = next
	}

	return out
}

func toNewCategory(row Row) grab.NewCategory {
	c := grab.NewCategory{
		Code:     row["category_code"],
		Name:     row["name"],
		IsActive: 1,
	}
	if parent := row["parent_category_code"]; parent != "" {
		c.ParentCode = &parent
	}
	return c
}
