package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/D-Sketon/warehouse/schema"
	"github.com/D-Sketon/warehouse/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionInsertEmitsEventInsert(t *testing.T) {
	received := make(chan storage.InsertPayload, 1)
	storage.On(storage.EventInsert, func(payload any) {
		if p, ok := payload.(storage.InsertPayload); ok {
			received <- p
		}
	})

	ctx := context.Background()
	c := newUsersCollection(t)
	require.NoError(t, c.Insert(ctx, schema.Doc{"name": "Ada", "age": 30.0}))

	select {
	case p := <-received:
		assert.Equal(t, "users", p.Collection)
		assert.Len(t, p.Docs, 1)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for EventInsert")
	}
}
