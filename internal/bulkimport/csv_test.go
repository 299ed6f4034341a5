package bulkimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	result := Parse("category_code, parent_category_code, name\ndrinks,,Drinks\nsoda, drinks , Soda\n")

	assert.Equal(t, []string{"category_code", "parent_category_code", "name"}, result.Headers)
	assert.Len(t, result.Rows, 2)
	assert.Equal(t, Row{
		"category_code":        "drinks",
		"parent_category_code": "",
		"name":                 "Drinks",
	}, result.Rows[0])
	assert.Equal(t, Row{
		"category_code":        "soda",
		"parent_category_code": "drinks",
		"name":                 "Soda",
	}, result.Rows[1])
}

func TestParseShortRowPadsEmptyStrings(t *testing.T) {
	result := Parse("category_code,parent_category_code,name\ndrinks")

	assert.Len(t, result.Rows, 1)
	assert.Equal(t, "drinks", result.Rows[0]["category_code"])
	assert.Equal(t, "", result.Rows[0]["parent_category_code"])
	assert.Equal(t, "", result.Rows[0]["name"])
}

func TestParseHeaderOnly(t *testing.T) {
	result := Parse("category_code,parent_category_code,name")

	assert.Len(t, result.Headers, 3)
	assert.Empty(t, result.Rows)
}

func TestParseEveryHeaderKeyPresent(t *testing.T) {
	result := Parse("a,b,c\n1\n1,2\n1,2,3,4")

	assert.Len(t, result.Rows, 3)
	for _, row := range result.Rows {
		for _, h := range result.Headers {
			_, ok := row[h]
			assert.True(t, ok)
		}
	}
}
