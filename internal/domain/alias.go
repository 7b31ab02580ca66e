package domain

import "time"

// Alias 表示一个一次性转发别名。
// (Alias, Domain) 在全部记录中唯一；发往激活别名的邮件会被转发到固定的目标邮箱列表。
type Alias struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`                              // 别名唯一标识
	Alias     string    `json:"alias" gorm:"type:varchar(255);uniqueIndex:idx_alias_domain;not null"` // 本地部分，如 foo-bar-baz
	Domain    string    `json:"domain" gorm:"type:varchar(100);uniqueIndex:idx_alias_domain;not null"` // 网关配置的域名
	CreatedAt time.Time `json:"createdAt"`                                                          // 创建时间
	Active    bool      `json:"active"`                                                             // 是否接收邮件
	Hostname  *string   `json:"hostname,omitempty" gorm:"type:varchar(255)"`                        // 生成别名时的来源站点（可选）
}

// Address 返回完整的别名地址，如 foo-bar-baz@example.com。
func (a *Alias) Address() string {
	return a.Alias + "@" + a.Domain
}
