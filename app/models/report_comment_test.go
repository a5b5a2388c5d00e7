package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v uint) *uint { return &v }

func TestBuildCommentTree(t *testing.T) {
	flat := []ReportComment{
		{ID: 1, Content: "root one"},
		{ID: 2, ParentID: ptr(1), Content: "reply to one"},
		{ID: 3, ParentID: ptr(2), Content: "nested reply"},
		{ID: 4, Content: "root two"},
	}

	tree := BuildCommentTree(flat)
	require.Len(t, tree, 2)

	assert.Equal(t, uint(1), tree[0].ID)
	require.Len(t, tree[0].Replies, 1)
	require.Len(t, tree[0].Replies[0].Replies, 1)
	assert.Equal(t, uint(3), tree[0].Replies[0].Replies[0].ID)
	assert.Equal(t, uint(4), tree[1].ID)
}

func TestBuildCommentTreeOrphanPromotion(t *testing.T) {
	flat := []ReportComment{
		{ID: 5, ParentID: ptr(999), Content: "parent was deleted"},
	}

	tree := BuildCommentTree(flat)
	require.Len(t, tree, 1)
	assert.Equal(t, uint(5), tree[0].ID)
}

func TestBuildCommentTreeEmpty(t *testing.T) {
	assert.Empty(t, BuildCommentTree(nil))
}
