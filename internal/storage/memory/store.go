package memory

import (
	"sync"

	"aliasgate/backend/internal/domain"
	"aliasgate/backend/internal/storage"
)

// Store 使用内存保存别名数据，主要用于开发验证与测试。
type Store struct {
	mu      sync.RWMutex
	aliases map[string]*domain.Alias // alias@domain -> 记录
	order   []string                 // 插入顺序，保证分页稳定
}

// NewStore 创建一个内存存储实例。
func NewStore() *Store {
	return &Store{
		aliases: make(map[string]*domain.Alias),
		order:   make([]string, 0),
	}
}

func key(alias, domainName string) string {
	return alias + "@" + domainName
}

// FindAlias 根据 (alias, domain) 获取别名记录。
func (s *Store) FindAlias(alias, domainName string) (*domain.Alias, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.aliases[key(alias, domainName)]
	if !ok {
		return nil, storage.ErrAliasNotFound
	}
	copied := *record
	return &copied, nil
}

// AliasExists 判断 (alias, domain) 是否已被占用。
func (s *Store) AliasExists(alias, domainName string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.aliases[key(alias, domainName)]
	return ok, nil
}

// InsertAlias 保存新的别名记录；键已存在时返回 ErrAliasExists。
func (s *Store) InsertAlias(alias *domain.Alias) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(alias.Alias, alias.Domain)
	if _, ok := s.aliases[k]; ok {
		return storage.ErrAliasExists
	}

	copied := *alias
	s.aliases[k] = &copied
	s.order = append(s.order, k)
	return nil
}

// DeleteAlias 删除 (alias, domain) 对应的记录，幂等。
func (s *Store) DeleteAlias(alias, domainName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(alias, domainName)
	if _, ok := s.aliases[k]; !ok {
		return nil
	}

	delete(s.aliases, k)
	for i, existing := range s.order {
		if existing == k {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// ListAliases 按插入顺序返回指定域名下的别名。
func (s *Store) ListAliases(domainName string, limit, offset int) ([]domain.Alias, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.Alias, 0)
	for _, k := range s.order {
		record := s.aliases[k]
		if record.Domain == domainName {
			matched = append(matched, *record)
		}
	}

	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return []domain.Alias{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

// Close 关闭存储（内存实现为空操作）。
func (s *Store) Close() error {
	return nil
}

// Health 检查存储健康状态。
func (s *Store) Health() error {
	return nil
}
