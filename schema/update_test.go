package schema_test

import (
	"testing"

	"github.com/D-Sketon/warehouse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileUpdateInlineForm(t *testing.T) {
	s := newEmployeeSchema(t)
	u, err := s.CompileUpdate(schema.Doc{"$set": map[string]any{"name": "Ada"}})
	require.NoError(t, err)

	doc := schema.Doc{"name": "Grace"}
	require.NoError(t, u.Apply(doc, s))
	assert.Equal(t, "Ada", doc["name"])
}

func TestCompileUpdateFirstClassForm(t *testing.T) {
	s := newEmployeeSchema(t)
	u, err := s.CompileUpdate(schema.Doc{"age": map[string]any{"$inc": 1.0}})
	require.NoError(t, err)

	doc := schema.Doc{"age": 29.0}
	require.NoError(t, u.Apply(doc, s))
	assert.Equal(t, 30.0, doc["age"])
}

func TestCompileUpdateBareAssignment(t *testing.T) {
	s := newEmployeeSchema(t)
	u, err := s.CompileUpdate(schema.Doc{"active": true})
	require.NoError(t, err)

	doc := schema.Doc{"active": false}
	require.NoError(t, u.Apply(doc, s))
	assert.Equal(t, true, doc["active"])
}

func TestCompileUpdateUnset(t *testing.T) {
	s := newEmployeeSchema(t)
	u, err := s.CompileUpdate(schema.Doc{"$unset": map[string]any{"age": ""}})
	require.NoError(t, err)

	doc := schema.Doc{"age": 30.0}
	require.NoError(t, u.Apply(doc, s))
	_, ok := doc["age"]
	assert.False(t, ok)
}

func TestCompileUpdateNestedObjectRecursesToFieldSet(t *testing.T) {
	s, err := schema.NewSchema(map[string]any{
		"name": map[string]any{"type": schema.NewStringType},
		"address": map[string]any{
			"city": map[string]any{"type": schema.NewStringType},
			"zip":  map[string]any{"type": schema.NewStringType},
		},
	})
	require.NoError(t, err)

	u, err := s.CompileUpdate(schema.Doc{"address": map[string]any{"city": "Boston"}})
	require.NoError(t, err)

	doc := schema.Doc{"address": schema.Doc{"city": "NYC", "zip": "10001"}}
	require.NoError(t, u.Apply(doc, s))

	addr, _ := doc["address"].(schema.Doc)
	assert.Equal(t, "Boston", addr["city"])
	assert.Equal(t, "10001", addr["zip"])
}

func TestCompileUpdateRename(t *testing.T) {
	s := newEmployeeSchema(t)
	u, err := s.CompileUpdate(schema.Doc{"$rename": map[string]any{"name": "fullName"}})
	require.NoError(t, err)

	doc := schema.Doc{"name": "Ada"}
	require.NoError(t, u.Apply(doc, s))
	_, hasOld := doc["name"]
	assert.False(t, hasOld)
	assert.Equal(t, "Ada", doc["fullName"])
}
