package domain

// ChatType definition chat type
type ChatType string

const (
	//ChatTypeGroup definition chat for a whole group, never auto-deleted
	ChatTypeGroup ChatType = "GROUP"
	//ChatTypePrivate definition chat 1 on 1, deleted once empty
	ChatTypePrivate ChatType = "PRIVATE"
)

// PrivateChatCapacity membership cap of a PRIVATE chat
const PrivateChatCapacity = 2

// Chat definition chat room
type Chat struct {
	ID      string   `gorm:"primaryKey;column:id" json:"id"`
	Type    ChatType `gorm:"column:type" json:"type"`
	Country *string  `gorm:"column:country" json:"country,omitempty"`
	Name    string   `gorm:"column:name" json:"name"`
}

// TableName gorm table name
func (Chat) TableName() string { return "chats" }

// HasCountry chat belongs to a country
func (c *Chat) HasCountry() bool {
	return c.Country != nil && *c.Country != ""
}

// UserChat join record, unique per (user, chat)
type UserChat struct {
	UserID            string  `gorm:"primaryKey;column:user_id" json:"user_id"`
	ChatID            string  `gorm:"primaryKey;column:chat_id" json:"chat_id"`
	LastReadMessageID *string `gorm:"column:last_read_message_id" json:"last_read_message_id,omitempty"`
}

// TableName gorm table name
func (UserChat) TableName() string { return "user_chats" }

// UserCountry rollup record, exists iff the user holds at least one
// membership in a chat of that country
type UserCountry struct {
	UserID      string `gorm:"primaryKey;column:user_id" json:"user_id"`
	CountryName string `gorm:"primaryKey;column:country_name" json:"country_name"`
}

// TableName gorm table name
func (UserCountry) TableName() string { return "user_countries" }
