package schema_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/D-Sketon/warehouse/schema"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserSchema(t *testing.T) *schema.Schema {
	s, err := schema.NewSchema(map[string]any{
		"name": map[string]any{"type": schema.NewStringType, "required": true},
		"age":  map[string]any{"type": schema.NewNumberType, "default": 0.0},
		"address": map[string]any{
			"city": map[string]any{"type": schema.NewStringType},
			"zip":  map[string]any{"type": schema.NewStringType},
		},
		"tags": []any{map[string]any{"type": schema.NewStringType}},
	})
	require.NoError(t, err)
	return s
}

func TestSchemaCompilesNestedObjectPreorder(t *testing.T) {
	s := newUserSchema(t)
	assert.Equal(t, "String", s.TypeAt("name").Name())
	assert.Equal(t, "Object", s.TypeAt("address").Name())
	assert.Equal(t, "String", s.TypeAt("address.city").Name())
	assert.Equal(t, "Array", s.TypeAt("tags").Name())
}

func TestSchemaUnknownPathSynthesizesBaseType(t *testing.T) {
	s := newUserSchema(t)
	typ := s.TypeAt("does.not.exist")
	assert.Equal(t, 0, typ.Compare("a", "a"))
}

func TestApplyGettersSubstitutesDefault(t *testing.T) {
	s := newUserSchema(t)
	doc := schema.Doc{"name": "Ada"}
	require.NoError(t, s.ApplyGetters(doc))
	assert.Equal(t, 0.0, doc["age"])
}

func TestApplySettersRejectsMissingRequired(t *testing.T) {
	s := newUserSchema(t)
	doc := schema.Doc{}
	err := s.ApplySetters(doc)
	require.Error(t, err)

	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Path)
}

func TestExportDatabaseDropsVirtualAndUndefined(t *testing.T) {
	s := newUserSchema(t)
	s.Virtual("fullName", func(doc schema.Doc) any {
		name, _ := doc["name"].(string)
		return name
	})

	doc := schema.Doc{"name": "Ada", "age": 30.0}
	require.NoError(t, s.ApplyGetters(doc))
	exported := s.ExportDatabase(doc)

	_, hasVirtual := exported["fullName"]
	assert.False(t, hasVirtual)
	assert.Equal(t, "Ada", exported["name"])
}

func TestImportExportRoundTrip(t *testing.T) {
	s := newUserSchema(t)
	original := schema.Doc{"name": "Grace", "age": 40.0, "address": schema.Doc{"city": "NYC"}}
	require.NoError(t, s.ApplyGetters(original))
	require.NoError(t, s.ApplySetters(original))
	exported := s.ExportDatabase(original)
	parsed := s.ParseDatabase(exported)

	assert.Equal(t, "Grace", parsed["name"])
	assert.Equal(t, 40.0, parsed["age"])

	roundTripped := s.ParseDatabase(s.ExportDatabase(parsed))
	if diff := cmp.Diff(exported, roundTripped); diff != "" {
		t.Errorf("second export/parse cycle drifted from the first (-want +got):\n%s", diff)
	}
}

func TestExportDatabaseDoesNotMutateNestedInput(t *testing.T) {
	s, err := schema.NewSchema(map[string]any{
		"name": map[string]any{"type": schema.NewStringType},
		"meta": map[string]any{
			"postedAt": map[string]any{"type": schema.NewDateType},
		},
	})
	require.NoError(t, err)

	when := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	meta := schema.Doc{"postedAt": when}
	doc := schema.Doc{"name": "Ada", "meta": meta}

	exported := s.ExportDatabase(doc)

	assert.Equal(t, when, meta["postedAt"], "original nested document must not be rewritten by export")

	exportedMeta, ok := exported["meta"].(schema.Doc)
	require.True(t, ok)
	assert.Equal(t, when.UTC().Format(time.RFC3339Nano), exportedMeta["postedAt"])
}

func TestRunPreLogsWithAttachedLogger(t *testing.T) {
	s := newUserSchema(t)
	var buf bytes.Buffer
	s.SetLogger(zerolog.New(&buf))
	require.NoError(t, s.RunPre(schema.HookSave, schema.Doc{}))
	assert.Contains(t, buf.String(), "schema hook")
}

func TestHooksRunInRegistrationOrder(t *testing.T) {
	s := newUserSchema(t)
	var order []string
	require.NoError(t, s.Pre(schema.HookSave, func(doc schema.Doc) error {
		order = append(order, "pre1")
		return nil
	}))
	require.NoError(t, s.Pre(schema.HookSave, func(doc schema.Doc) error {
		order = append(order, "pre2")
		return nil
	}))

	require.NoError(t, s.RunPre(schema.HookSave, schema.Doc{}))
	assert.Equal(t, []string{"pre1", "pre2"}, order)
}

func TestMethodsAndStatics(t *testing.T) {
	s := newUserSchema(t)
	require.NoError(t, s.Method("greet", func(doc schema.Doc, args ...any) any {
		return "hello " + doc["name"].(string)
	}))
	require.NoError(t, s.Static("ping", func(args ...any) any {
		return "pong"
	}))

	result, err := s.CallMethod("greet", schema.Doc{"name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "hello Ada", result)

	result, err = s.CallStatic("ping")
	require.NoError(t, err)
	assert.Equal(t, "pong", result)

	_, err = s.CallMethod("missing", schema.Doc{})
	require.Error(t, err)
}
