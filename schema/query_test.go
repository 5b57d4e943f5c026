package schema_test

import (
	"testing"

	"github.com/D-Sketon/warehouse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmployeeSchema(t *testing.T) *schema.Schema {
	s, err := schema.NewSchema(map[string]any{
		"name":   map[string]any{"type": schema.NewStringType},
		"age":    map[string]any{"type": schema.NewNumberType},
		"active": map[string]any{"type": schema.NewBooleanType},
	})
	require.NoError(t, err)
	return s
}

func TestCompileQueryBareEquality(t *testing.T) {
	s := newEmployeeSchema(t)
	q, err := s.CompileQuery(schema.Doc{"name": "Ada"})
	require.NoError(t, err)

	assert.True(t, q.Match(schema.Doc{"name": "Ada"}))
	assert.False(t, q.Match(schema.Doc{"name": "Grace"}))
}

func TestCompileQueryOperatorMap(t *testing.T) {
	s := newEmployeeSchema(t)
	q, err := s.CompileQuery(schema.Doc{"age": map[string]any{"$gte": 30.0}})
	require.NoError(t, err)

	assert.True(t, q.Match(schema.Doc{"age": 35.0}))
	assert.False(t, q.Match(schema.Doc{"age": 25.0}))
}

func TestCompileQueryAndOrNorDuality(t *testing.T) {
	s := newEmployeeSchema(t)

	and, err := s.CompileQuery(schema.Doc{"$and": []any{
		map[string]any{"active": true},
		map[string]any{"age": map[string]any{"$gte": 18.0}},
	}})
	require.NoError(t, err)
	assert.True(t, and.Match(schema.Doc{"active": true, "age": 20.0}))
	assert.False(t, and.Match(schema.Doc{"active": false, "age": 20.0}))

	or, err := s.CompileQuery(schema.Doc{"$or": []any{
		map[string]any{"active": true},
		map[string]any{"age": map[string]any{"$gte": 65.0}},
	}})
	require.NoError(t, err)
	assert.True(t, or.Match(schema.Doc{"active": false, "age": 70.0}))

	nor, err := s.CompileQuery(schema.Doc{"$nor": []any{
		map[string]any{"active": true},
		map[string]any{"age": map[string]any{"$gte": 65.0}},
	}})
	require.NoError(t, err)
	assert.True(t, nor.Match(schema.Doc{"active": false, "age": 20.0}))
	assert.False(t, nor.Match(schema.Doc{"active": true, "age": 20.0}))
}

func TestCompileQueryNot(t *testing.T) {
	s := newEmployeeSchema(t)
	q, err := s.CompileQuery(schema.Doc{"$not": map[string]any{"active": true}})
	require.NoError(t, err)

	assert.True(t, q.Match(schema.Doc{"active": false}))
	assert.False(t, q.Match(schema.Doc{"active": true}))
}

func TestCompileQueryWhereExpression(t *testing.T) {
	s := newEmployeeSchema(t)
	q, err := s.CompileQuery(schema.Doc{"$where": "age >= 18 && active == true"})
	require.NoError(t, err)

	assert.True(t, q.Match(schema.Doc{"age": 25.0, "active": true}))
	assert.False(t, q.Match(schema.Doc{"age": 12.0, "active": true}))
}

func TestCompileQueryLeadingDotFix(t *testing.T) {
	s := newEmployeeSchema(t)
	q, err := s.CompileQuery(schema.Doc{"$and": []any{
		map[string]any{"name": "Ada"},
	}})
	require.NoError(t, err)
	assert.True(t, q.Match(schema.Doc{"name": "Ada"}))
}

func TestCompileQueryUnknownOperatorErrors(t *testing.T) {
	s := newEmployeeSchema(t)
	_, err := s.CompileQuery(schema.Doc{"name": map[string]any{"$bogus": 1}})
	require.Error(t, err)
}

func TestCompileQueryNestedObjectRecursesToFieldEquality(t *testing.T) {
	s, err := schema.NewSchema(map[string]any{
		"name": map[string]any{"type": schema.NewStringType},
		"address": map[string]any{
			"city": map[string]any{"type": schema.NewStringType},
			"zip":  map[string]any{"type": schema.NewStringType},
		},
	})
	require.NoError(t, err)

	q, err := s.CompileQuery(schema.Doc{"address": map[string]any{"city": "NYC"}})
	require.NoError(t, err)

	assert.True(t, q.Match(schema.Doc{"address": schema.Doc{"city": "NYC", "zip": "10001"}}))
	assert.False(t, q.Match(schema.Doc{"address": schema.Doc{"city": "Boston", "zip": "02108"}}))
}
