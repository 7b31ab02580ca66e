package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"aliasgate/backend/internal/domain"
	"aliasgate/backend/internal/storage"
)

// Store 数据库存储实现（支持 PostgreSQL 和 MySQL）。
//
// (alias, domain) 上的复合唯一索引是并发分配竞争的最终裁决：
// 两个请求同时通过存在性检查时，后插入的一方会收到 storage.ErrAliasExists。
type Store struct {
	db *gorm.DB
}

// Options 数据库连接池参数。
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewStore 创建 PostgreSQL 存储实例。
func NewStore(dsn string, opts Options) (*Store, error) {
	return NewStoreWithDialector(postgres.Open(dsn), opts)
}

// NewMySQLStore 创建 MySQL 存储实例。
func NewMySQLStore(dsn string, opts Options) (*Store, error) {
	return NewStoreWithDialector(mysql.Open(dsn), opts)
}

// NewStoreWithDialector 使用指定的 GORM dialector 创建存储实例。
func NewStoreWithDialector(dialector gorm.Dialector, opts Options) (*Store, error) {
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		// 把方言各异的唯一键冲突翻译成 gorm.ErrDuplicatedKey
		TranslateError: true,
	}

	db, err := gorm.Open(dialector, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 25
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = 5
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = 5 * time.Minute
	}

	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate 自动迁移数据库表结构。
func (s *Store) migrate() error {
	return s.db.AutoMigrate(&domain.Alias{})
}

// FindAlias 根据 (alias, domain) 获取别名记录。
func (s *Store) FindAlias(alias, domainName string) (*domain.Alias, error) {
	var record domain.Alias
	err := s.db.Where("alias = ? AND domain = ?", alias, domainName).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrAliasNotFound
		}
		return nil, err
	}
	return &record, nil
}

// AliasExists 判断 (alias, domain) 是否已被占用。
func (s *Store) AliasExists(alias, domainName string) (bool, error) {
	var count int64
	err := s.db.Model(&domain.Alias{}).
		Where("alias = ? AND domain = ?", alias, domainName).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertAlias 保存新的别名记录；唯一键冲突时返回 storage.ErrAliasExists。
func (s *Store) InsertAlias(alias *domain.Alias) error {
	err := s.db.Create(alias).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return storage.ErrAliasExists
	}
	return err
}

// DeleteAlias 删除 (alias, domain) 对应的记录，幂等。
func (s *Store) DeleteAlias(alias, domainName string) error {
	return s.db.Where("alias = ? AND domain = ?", alias, domainName).
		Delete(&domain.Alias{}).Error
}

// ListAliases 按创建顺序返回指定域名下的别名。
func (s *Store) ListAliases(domainName string, limit, offset int) ([]domain.Alias, error) {
	var aliases []domain.Alias
	err := s.db.Where("domain = ?", domainName).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&aliases).Error
	return aliases, err
}

// Close 关闭数据库连接。
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Health 检查数据库连接健康状态。
func (s *Store) Health() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
