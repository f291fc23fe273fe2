package model

import (
	"time"

	"gorm.io/gorm"
)

// Session 服务端保存的浏览器会话，sid 放在 cookie 里
type Session struct {
	ID        string    `gorm:"type:varchar(64);primaryKey"`
	Token     string    `gorm:"type:text;not null"`
	ExpiresAt time.Time `gorm:"index"` // 零值表示不过期
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName 定义映射表名
func (Session) TableName() string {
	return "web_sessions"
}

func AutoMigrate(db *gorm.DB) error {
	if db.Dialector.Name() == "mysql" {
		db = db.Set("gorm:table_options", "COMMENT='前端会话表'")
	}
	return db.AutoMigrate(&Session{})
}
