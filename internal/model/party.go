package model

import (
	"time"

	"github.com/google/uuid"
)

// lawyers — минимальная карточка юриста. Полноценный CRUD профилей
// живёт в соседнем сервисе; здесь нужны контакты для напоминаний.
type Lawyer struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	DisplayName  string `gorm:"type:varchar(255);not null"`
	ContactEmail string `gorm:"type:varchar(255)"`
	ContactPhone string `gorm:"type:varchar(32)"`

	// Специализация, используется внешними фильтрами каталога.
	Specialty string `gorm:"type:varchar(128);index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

// clients
type Client struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	DisplayName  string `gorm:"type:varchar(255);not null"`
	ContactEmail string `gorm:"type:varchar(255)"`
	ContactPhone string `gorm:"type:varchar(32)"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

// cases — минимальная запись дела для связи case_id.
type Case struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	LawyerID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ClientID *uuid.UUID `gorm:"type:uuid;index"`

	Title string `gorm:"type:varchar(255);not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Lawyer *Lawyer `gorm:"foreignKey:LawyerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Client *Client `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}
