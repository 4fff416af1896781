package models

import (
	"time"

	"github.com/lib/pq"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"   json:"id"`
	Username     string    `gorm:"unique;not null"            json:"username"`
	Email        string    `gorm:"unique;not null"            json:"email"`
	PasswordHash string    `gorm:"not null"                   json:"-"`
	Name         string    `json:"name"`
	Role         string    `gorm:"not null;default:customer"  json:"role"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	Bio          string    `json:"bio"`
	ProfileImage string    `json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
}

type Category struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"unique;not null"          json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type Product struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"not null"                 json:"name"`
	Slug        string         `gorm:"unique;not null"          json:"slug"`
	Description string         `json:"description"`
	Price       float64        `gorm:"not null"                 json:"price"`
	Unit        string         `json:"unit"`
	Image       string         `json:"image"`
	Stock       uint           `json:"stock"`
	FarmerID    uint           `gorm:"index;not null"           json:"farmer_id"`
	CategoryID  uint           `gorm:"index;not null"           json:"category_id"`
	IsOrganic   bool           `json:"is_organic"`
	IsFeatured  bool           `json:"is_featured"`
	Tags        pq.StringArray `gorm:"type:text[]"              json:"tags"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Cart is created lazily on the first add-to-cart action and persists
// across sessions. One cart per user.
type Cart struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null"     json:"user_id"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
}

// CartItem.Price is a snapshot taken at add time; later product price
// changes do not touch existing lines.
type CartItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"                    json:"id"`
	CartID    uint    `gorm:"uniqueIndex:idx_cart_product;not null"       json:"cart_id"`
	ProductID uint    `gorm:"uniqueIndex:idx_cart_product;not null"       json:"product_id"`
	Quantity  uint    `gorm:"default:1;check:quantity>0"                  json:"quantity"`
	Price     float64 `gorm:"not null"                                    json:"price"`
}

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

type Order struct {
	ID        uint        `gorm:"primaryKey;autoIncrement"        json:"id"`
	UserID    uint        `gorm:"index;not null"                  json:"user_id"`
	Status    string      `gorm:"not null;default:pending"        json:"status"`
	Total     float64     `gorm:"not null"                        json:"total"`
	Address   string      `gorm:"not null"                        json:"address"`
	Phone     string      `json:"phone"`
	Items     []OrderItem `gorm:"foreignKey:OrderID"              json:"items"`
	CreatedAt time.Time   `json:"created_at"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint    `gorm:"index;not null"           json:"order_id"`
	ProductID uint    `gorm:"not null"                 json:"product_id"`
	FarmerID  uint    `gorm:"index;not null"           json:"farmer_id"`
	Quantity  uint    `gorm:"not null"                 json:"quantity"`
	Price     float64 `gorm:"not null"                 json:"price"`
}

type Review struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null"           json:"user_id"`
	ProductID uint      `gorm:"index;not null"           json:"product_id"`
	Rating    int       `gorm:"not null;check:rating>=1 AND rating<=5" json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	Role      string `json:"role"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}
