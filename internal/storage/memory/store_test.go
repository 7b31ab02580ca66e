package memory

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aliasgate/backend/internal/domain"
	"aliasgate/backend/internal/storage"
)

func newAlias(local, domainName string) *domain.Alias {
	return &domain.Alias{
		ID:        local + "-id",
		Alias:     local,
		Domain:    domainName,
		CreatedAt: time.Now().UTC(),
		Active:    true,
	}
}

func TestStore_InsertAndFind(t *testing.T) {
	store := NewStore()

	t.Run("插入后可以查到", func(t *testing.T) {
		err := store.InsertAlias(newAlias("foo-bar-baz", "example.com"))
		require.NoError(t, err)

		record, err := store.FindAlias("foo-bar-baz", "example.com")
		assert.NoError(t, err)
		assert.Equal(t, "foo-bar-baz", record.Alias)
		assert.Equal(t, "example.com", record.Domain)
		assert.True(t, record.Active)

		exists, err := store.AliasExists("foo-bar-baz", "example.com")
		assert.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("重复插入返回冲突", func(t *testing.T) {
		err := store.InsertAlias(newAlias("foo-bar-baz", "example.com"))
		assert.ErrorIs(t, err, storage.ErrAliasExists)
	})

	t.Run("不同域名互不影响", func(t *testing.T) {
		exists, err := store.AliasExists("foo-bar-baz", "other.com")
		assert.NoError(t, err)
		assert.False(t, exists)

		_, err = store.FindAlias("foo-bar-baz", "other.com")
		assert.ErrorIs(t, err, storage.ErrAliasNotFound)
	})

	t.Run("返回的是副本", func(t *testing.T) {
		record, err := store.FindAlias("foo-bar-baz", "example.com")
		require.NoError(t, err)
		record.Active = false

		again, err := store.FindAlias("foo-bar-baz", "example.com")
		require.NoError(t, err)
		assert.True(t, again.Active)
	})
}

func TestStore_DeleteIdempotent(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.InsertAlias(newAlias("one-two-three", "example.com")))

	assert.NoError(t, store.DeleteAlias("one-two-three", "example.com"))

	exists, err := store.AliasExists("one-two-three", "example.com")
	assert.NoError(t, err)
	assert.False(t, exists)

	// 再次删除同一键不报错
	assert.NoError(t, store.DeleteAlias("one-two-three", "example.com"))
	assert.NoError(t, store.DeleteAlias("never-was-here", "example.com"))
}

func TestStore_ListAliases(t *testing.T) {
	store := NewStore()
	for i := 0; i < 25; i++ {
		local := fmt.Sprintf("word%d-word%d-word%d", i, i, i)
		require.NoError(t, store.InsertAlias(newAlias(local, "example.com")))
	}
	// 其他域名的记录不应出现在结果里
	require.NoError(t, store.InsertAlias(newAlias("other-domain-alias", "other.com")))

	t.Run("第一页返回前10条", func(t *testing.T) {
		page, err := store.ListAliases("example.com", 10, 0)
		require.NoError(t, err)
		require.Len(t, page, 10)
		assert.Equal(t, "word0-word0-word0", page[0].Alias)
		assert.Equal(t, "word9-word9-word9", page[9].Alias)
	})

	t.Run("第二页返回10到20条", func(t *testing.T) {
		page, err := store.ListAliases("example.com", 10, 10)
		require.NoError(t, err)
		require.Len(t, page, 10)
		assert.Equal(t, "word10-word10-word10", page[0].Alias)
		assert.Equal(t, "word19-word19-word19", page[9].Alias)
	})

	t.Run("最后一页不足10条", func(t *testing.T) {
		page, err := store.ListAliases("example.com", 10, 20)
		require.NoError(t, err)
		assert.Len(t, page, 5)
	})

	t.Run("越界偏移返回空", func(t *testing.T) {
		page, err := store.ListAliases("example.com", 10, 100)
		require.NoError(t, err)
		assert.Empty(t, page)
	})

	t.Run("删除后顺序保持稳定", func(t *testing.T) {
		require.NoError(t, store.DeleteAlias("word0-word0-word0", "example.com"))

		page, err := store.ListAliases("example.com", 10, 0)
		require.NoError(t, err)
		require.Len(t, page, 10)
		assert.Equal(t, "word1-word1-word1", page[0].Alias)
	})
}
