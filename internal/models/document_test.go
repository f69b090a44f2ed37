package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newObject(id string) *Object {
	return &Object{Common: Common{ID: id, Variant: "file_object", Family: FamilyUnix, Version: 1}}
}

func TestDocumentAddRejectsDuplicatePerKind(t *testing.T) {
	doc := NewDocument(Generator{})

	require.NoError(t, doc.Add(newObject("oval:x:obj:1")))
	err := doc.Add(newObject("oval:x:obj:1"))
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Len(t, doc.Objects, 1)

	// the same id in another container is allowed
	require.NoError(t, doc.Add(&State{Common: Common{ID: "oval:x:obj:1", Variant: "file_state"}}))
}

func TestDocumentRemoveAndLookup(t *testing.T) {
	doc := NewDocument(Generator{})
	for _, id := range []string{"oval:x:obj:1", "oval:x:obj:2", "oval:x:obj:3"} {
		require.NoError(t, doc.Add(newObject(id)))
	}

	require.NoError(t, doc.Remove(KindObject, "oval:x:obj:2"))
	_, ok := doc.Lookup(KindObject, "oval:x:obj:2")
	assert.False(t, ok)

	var ids []string
	for _, e := range doc.Entities(KindObject) {
		ids = append(ids, e.Base().ID)
	}
	assert.Equal(t, []string{"oval:x:obj:1", "oval:x:obj:3"}, ids)

	assert.ErrorIs(t, doc.Remove(KindObject, "oval:x:obj:2"), ErrNotFound)
	assert.ErrorIs(t, doc.Remove(KindTest, "oval:x:obj:1"), ErrNotFound)
}

func TestDocumentDefinitions(t *testing.T) {
	doc := NewDocument(Generator{})
	require.NoError(t, doc.AddDefinition(&Definition{ID: "oval:x:def:1"}))
	assert.ErrorIs(t, doc.AddDefinition(&Definition{ID: "oval:x:def:1"}), ErrDuplicateID)

	def, ok := doc.Definition("oval:x:def:1")
	require.True(t, ok)
	assert.Equal(t, "oval:x:def:1", def.ID)

	require.NoError(t, doc.RemoveDefinition("oval:x:def:1"))
	assert.ErrorIs(t, doc.RemoveDefinition("oval:x:def:1"), ErrNotFound)
}

func TestDocumentNextID(t *testing.T) {
	doc := NewDocument(Generator{})
	assert.Equal(t, "oval:x:obj:1", doc.NextID("x", KindObject.IDTag()))

	require.NoError(t, doc.Add(newObject("oval:x:obj:7")))
	require.NoError(t, doc.Add(newObject("oval:x:obj:3")))
	require.NoError(t, doc.Add(newObject("oval:other:obj:40")))
	require.NoError(t, doc.Add(newObject("oval:x:obj:not-a-number")))

	assert.Equal(t, "oval:x:obj:8", doc.NextID("x", "obj"))
	assert.Equal(t, "oval:x:tst:1", doc.NextID("x", "tst"))

	require.NoError(t, doc.AddDefinition(&Definition{ID: "oval:x:def:2"}))
	assert.Equal(t, "oval:x:def:3", doc.NextID("x", "def"))
}

func TestDocumentIndex(t *testing.T) {
	doc := NewDocument(Generator{})
	require.NoError(t, doc.Add(newObject("oval:x:obj:1")))
	require.NoError(t, doc.Add(&Test{Common: Common{ID: "oval:x:tst:1", Variant: "file_test"}}))
	require.NoError(t, doc.AddDefinition(&Definition{ID: "oval:x:def:1"}))

	idx := doc.Index()
	assert.True(t, idx.Has(KindObject, "oval:x:obj:1"))
	assert.True(t, idx.Has(KindTest, "oval:x:tst:1"))
	assert.False(t, idx.Has(KindState, "oval:x:obj:1"))
	assert.Contains(t, idx.Definitions, "oval:x:def:1")
}
