package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aliasgate/backend/internal/config"
	"aliasgate/backend/internal/domain"
	"aliasgate/backend/internal/storage/memory"
)

func newTestRouter(t *testing.T) (*MailRouter, *memory.Store) {
	t.Helper()

	cfg := &config.GatewayConfig{
		Domain:       "example.com",
		TargetEmails: []string{"first@dest.com", "second@dest.com"},
	}
	store := memory.NewStore()
	return NewMailRouter(store, cfg), store
}

func TestMailRouter_Route(t *testing.T) {
	router, store := newTestRouter(t)

	require.NoError(t, store.InsertAlias(&domain.Alias{
		ID:     "id-1",
		Alias:  "red-panda-mail",
		Domain: "example.com",
		Active: true,
	}))
	require.NoError(t, store.InsertAlias(&domain.Alias{
		ID:     "id-2",
		Alias:  "gray-heron-nest",
		Domain: "example.com",
		Active: false,
	}))

	t.Run("有效别名按配置顺序返回目标", func(t *testing.T) {
		targets, err := router.Route("red-panda-mail@example.com")
		require.NoError(t, err)
		assert.Equal(t, []string{"first@dest.com", "second@dest.com"}, targets)
	})

	t.Run("尖括号与大小写被规范化", func(t *testing.T) {
		targets, err := router.Route("<Red-Panda-Mail@EXAMPLE.COM>")
		require.NoError(t, err)
		assert.Len(t, targets, 2)
	})

	t.Run("返回的目标是副本", func(t *testing.T) {
		targets, err := router.Route("red-panda-mail@example.com")
		require.NoError(t, err)
		targets[0] = "mutated@dest.com"

		again, err := router.Route("red-panda-mail@example.com")
		require.NoError(t, err)
		assert.Equal(t, "first@dest.com", again[0])
	})

	t.Run("外部域名拒绝", func(t *testing.T) {
		_, err := router.Route("red-panda-mail@other.com")
		assert.ErrorIs(t, err, ErrInvalidRecipient)
	})

	t.Run("形状不符拒绝", func(t *testing.T) {
		_, err := router.Route("admin@example.com")
		assert.ErrorIs(t, err, ErrInvalidRecipient)
	})

	t.Run("不存在的别名拒绝", func(t *testing.T) {
		_, err := router.Route("never-was-here@example.com")
		assert.ErrorIs(t, err, ErrInvalidRecipient)
	})

	t.Run("停用的别名拒绝", func(t *testing.T) {
		_, err := router.Route("gray-heron-nest@example.com")
		assert.ErrorIs(t, err, ErrInvalidRecipient)
	})

	t.Run("畸形地址拒绝", func(t *testing.T) {
		for _, addr := range []string{"", "no-at-sign", "@example.com", "red-panda-mail@"} {
			_, err := router.Route(addr)
			assert.ErrorIs(t, err, ErrInvalidRecipient, "addr: %q", addr)
		}
	})
}

func TestMailRouter_StorageFailure(t *testing.T) {
	cfg := &config.GatewayConfig{
		Domain:       "example.com",
		TargetEmails: []string{"inbox@dest.com"},
	}
	router := NewMailRouter(&failingRepo{}, cfg)

	_, err := router.Route("red-panda-mail@example.com")
	require.Error(t, err)
	// 存储故障是临时错误，不能当成拒收
	assert.NotErrorIs(t, err, ErrInvalidRecipient)
}

type failingRepo struct{ stubRepo }

func (f *failingRepo) FindAlias(alias, domainName string) (*domain.Alias, error) {
	return nil, errors.New("connection refused")
}
