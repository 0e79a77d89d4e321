package models

// Отправители сообщений. Поле Sender не ограничено перечислением,
// но на практике встречаются только эти два значения.
const (
	SenderUser   = "user"
	SenderSystem = "system"
)

type Message struct {
	ID      uint   `gorm:"primaryKey"`
	Content string `gorm:"not null"`
	Sender  string `gorm:"index;not null"`
}
