package schema_test

import (
	"sort"
	"testing"

	"github.com/D-Sketon/warehouse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileSortOrdersByFieldSequence(t *testing.T) {
	s := newEmployeeSchema(t)
	cs, err := s.CompileSort(schema.SortSpec{
		{Path: "age", Order: -1},
		{Path: "name", Order: 1},
	})
	require.NoError(t, err)

	docs := []schema.Doc{
		{"name": "Grace", "age": 30.0},
		{"name": "Ada", "age": 30.0},
		{"name": "Edsger", "age": 45.0},
	}
	sort.Slice(docs, func(i, j int) bool { return cs.Less(docs[i], docs[j]) })

	assert.Equal(t, "Edsger", docs[0]["name"])
	assert.Equal(t, "Ada", docs[1]["name"])
	assert.Equal(t, "Grace", docs[2]["name"])
}

func TestCompileSortEmptySpecIsTotalAndStable(t *testing.T) {
	s := newEmployeeSchema(t)
	cs, err := s.CompileSort(nil)
	require.NoError(t, err)

	assert.Equal(t, 0, cs.Compare(schema.Doc{"name": "Ada"}, schema.Doc{"name": "Grace"}))
}
