package storage

import (
	"errors"

	"aliasgate/backend/internal/domain"
)

var (
	// ErrAliasNotFound 别名未找到错误
	ErrAliasNotFound = errors.New("alias not found")
	// ErrAliasExists 别名已存在错误（含并发插入撞名的情况）
	ErrAliasExists = errors.New("alias already exists")
)

// AliasRepository 定义别名数据存取操作。
// 所有实现都直接读写持久化状态，不做任何进程内缓存。
type AliasRepository interface {
	FindAlias(alias, domainName string) (*domain.Alias, error)
	AliasExists(alias, domainName string) (bool, error)
	InsertAlias(alias *domain.Alias) error
	// DeleteAlias 幂等：删除不存在的 (alias, domain) 不算错误。
	DeleteAlias(alias, domainName string) error
	// ListAliases 按插入顺序返回指定域名下的别名，用于分页。
	ListAliases(domainName string, limit, offset int) ([]domain.Alias, error)
}

// Store 定义完整的存储接口。
type Store interface {
	AliasRepository

	Close() error
	Health() error
}
