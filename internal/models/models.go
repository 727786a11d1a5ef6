package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

type StockChangeType string

const (
	StockChangeIn     StockChangeType = "in"
	StockChangeOut    StockChangeType = "out"
	StockChangeAdjust StockChangeType = "adjust"
	StockChangeCreate StockChangeType = "create"
	StockChangeImport StockChangeType = "import"
)

type ClothingItem struct {
	ID       uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name     string          `gorm:"type:text;not null"`
	Category string          `gorm:"type:text;not null;index"`
	Size     string          `gorm:"type:text;not null"`
	Quantity int             `gorm:"not null;default:0"` // CHECK quantity >= 0 added in migration
	Price    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Image    *string         `gorm:"type:text"`
	Barcode  *string         `gorm:"type:text"`
	QRCode   *string         `gorm:"type:text;column:qrcode"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (ClothingItem) TableName() string { return "clothing" }

type ClothingImage struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ClothingID uuid.UUID `gorm:"type:uuid;not null;index"`
	Image      string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"not null;default:now()"`
}

func (ClothingImage) TableName() string { return "clothing_images" }

type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"type:text;not null;uniqueIndex"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null;default:now()"`
}

func (Category) TableName() string { return "categories" }

type Customer struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name    string    `gorm:"type:text;not null"`
	Email   string    `gorm:"type:text;not null;uniqueIndex"`
	Phone   string    `gorm:"type:text"`
	Address string    `gorm:"type:text"`
	City    string    `gorm:"type:text"`
	State   string    `gorm:"type:text"`
	ZipCode string    `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (Customer) TableName() string { return "customers" }

type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber     string          `gorm:"type:text;not null;uniqueIndex"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Status          OrderStatus     `gorm:"type:text;not null;default:'pending';index"`
	PaymentStatus   PaymentStatus   `gorm:"type:text;not null;default:'unpaid'"`
	ShippingAddress string          `gorm:"type:text"`
	Notes           string          `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClothingID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Size       string          `gorm:"type:text;not null"`
	Quantity   int             `gorm:"not null"` // CHECK quantity > 0 added in migration
	Price      decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (OrderItem) TableName() string { return "order_items" }

// StockLog is append-only: one row per quantity change, written in the
// same transaction as the change itself. Rows are never updated or deleted.
type StockLog struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ClothingID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ChangeType StockChangeType `gorm:"type:text;not null"`
	QtyChange  int             `gorm:"not null"`
	Note       string          `gorm:"type:text"`
	Actor      string          `gorm:"type:text;not null"`
	CreatedAt  time.Time       `gorm:"not null;default:now();index"`
}

func (StockLog) TableName() string { return "stock_logs" }

// NotificationRecipientAdmin is the recipient value for admin-facing
// notifications; customer notifications carry the customer id instead.
const NotificationRecipientAdmin = "admin"

type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Type      string     `gorm:"type:text;not null"`
	Recipient string     `gorm:"type:text;not null;index"`
	Title     string     `gorm:"type:text;not null"`
	Message   string     `gorm:"type:text;not null"`
	Read      bool       `gorm:"not null;default:false"`
	OrderID   *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time  `gorm:"not null;default:now();index"`
}

func (Notification) TableName() string { return "notifications" }

type CartLine struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID  string    `gorm:"type:text;not null;index;uniqueIndex:ux_cart_session_item_size"`
	ClothingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_cart_session_item_size"`
	Size       string    `gorm:"type:text;not null;uniqueIndex:ux_cart_session_item_size"`
	Quantity   int       `gorm:"not null"`
	AddedAt    time.Time `gorm:"not null;default:now()"`
}

func (CartLine) TableName() string { return "cart_lines" }

type Role string

const (
	RoleStaff      Role = "staff"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

type Admin struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Username     string    `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:text;not null"`
	Role         Role      `gorm:"type:text;not null;default:'staff'"`
	CreatedAt    time.Time `gorm:"not null;default:now()"`
}

func (Admin) TableName() string { return "admins" }

type AdminSession struct {
	Token      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AdminID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt  time.Time `gorm:"not null;default:now()"`
	LastSeenAt time.Time `gorm:"not null;default:now()"`
	Revoked    bool      `gorm:"not null;default:false"`
}

func (AdminSession) TableName() string { return "admin_sessions" }

type ActivityLog struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Action    string    `gorm:"type:text;not null"`
	Details   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null;default:now();index"`
}

func (ActivityLog) TableName() string { return "activity_logs" }
