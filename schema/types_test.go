package schema_test

import (
	"testing"

	"github.com/D-Sketon/warehouse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringTypeCast(t *testing.T) {
	typ := schema.NewStringType(schema.TypeOptions{})
	assert.Equal(t, "42", typ.Cast(42.0, schema.Doc{}))
	assert.Equal(t, "hello", typ.Cast("hello", schema.Doc{}))
}

func TestNumberTypeDefault(t *testing.T) {
	typ := schema.NewNumberType(schema.TypeOptions{Default: 7.0})
	assert.Equal(t, 7.0, typ.Cast(nil, schema.Doc{}))
}

func TestNumberTypeRequiredValidation(t *testing.T) {
	typ := schema.NewNumberType(schema.TypeOptions{Required: true})
	_, err := typ.Validate(nil, schema.Doc{})
	require.Error(t, err)
	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestNumberTypeIncUpdateOp(t *testing.T) {
	typ := schema.NewNumberType(schema.TypeOptions{})
	op, ok := typ.UpdateOp("inc")
	require.True(t, ok)

	result, kind, err := op(10.0, 5.0, schema.Doc{}, "count")
	require.NoError(t, err)
	assert.Equal(t, schema.ResultSet, kind)
	assert.Equal(t, 15.0, result)
}

func TestBooleanTypeCast(t *testing.T) {
	typ := schema.NewBooleanType(schema.TypeOptions{})
	assert.Equal(t, true, typ.Cast("true", schema.Doc{}))
	assert.Equal(t, false, typ.Cast("0", schema.Doc{}))
	assert.Equal(t, true, typ.Cast(1.0, schema.Doc{}))
}

func TestArrayTypePushAndPull(t *testing.T) {
	child := schema.NewNumberType(schema.TypeOptions{})
	typ := schema.NewArrayType(child, schema.TypeOptions{})

	push, ok := typ.UpdateOp("push")
	require.True(t, ok)
	result, kind, err := push([]any{1.0, 2.0}, 3.0, schema.Doc{}, "tags")
	require.NoError(t, err)
	assert.Equal(t, schema.ResultSet, kind)
	assert.Equal(t, []any{1.0, 2.0, 3.0}, result)

	pull, ok := typ.UpdateOp("pull")
	require.True(t, ok)
	result, kind, err = pull([]any{1.0, 2.0, 3.0}, 2.0, schema.Doc{}, "tags")
	require.NoError(t, err)
	assert.Equal(t, schema.ResultSet, kind)
	assert.Equal(t, []any{1.0, 3.0}, result)
}

func TestArrayTypeSizeAndAllQueryOps(t *testing.T) {
	child := schema.NewNumberType(schema.TypeOptions{})
	typ := schema.NewArrayType(child, schema.TypeOptions{})

	sizeOp, ok := typ.QueryOp("size")
	require.True(t, ok)
	assert.True(t, sizeOp([]any{1.0, 2.0}, 2.0, schema.Doc{}))
	assert.False(t, sizeOp([]any{1.0}, 2.0, schema.Doc{}))

	allOp, ok := typ.QueryOp("all")
	require.True(t, ok)
	assert.True(t, allOp([]any{1.0, 2.0, 3.0}, []any{1.0, 3.0}, schema.Doc{}))
	assert.False(t, allOp([]any{1.0, 2.0}, []any{1.0, 3.0}, schema.Doc{}))
}

func TestIdTypeGeneratesDefault(t *testing.T) {
	typ := schema.NewIdType(schema.TypeOptions{})
	id1 := typ.Cast(nil, schema.Doc{})
	id2 := typ.Cast(nil, schema.Doc{})
	assert.NotEmpty(t, id1)
	assert.NotEqual(t, id1, id2)
}

func TestVirtualTypeNeverExports(t *testing.T) {
	v := schema.NewVirtualType(func(doc schema.Doc) any {
		first, _ := doc["first"].(string)
		last, _ := doc["last"].(string)
		return first + " " + last
	})
	doc := schema.Doc{"first": "Ada", "last": "Lovelace"}
	assert.Equal(t, "Ada Lovelace", v.Cast(nil, doc))
	assert.True(t, schema.IsUndefined(v.Value(nil, doc)))
}
