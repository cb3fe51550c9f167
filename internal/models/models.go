package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/hash"
)

type Brand struct {
	ID        uint      `gorm:"column:brand_id;primaryKey;autoIncrement"  json:"brand_id"`
	Name      string    `gorm:"column:brand_name;size:80;uniqueIndex;not null" json:"brand_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Category struct {
	ID        uint      `gorm:"column:category_id;primaryKey;autoIncrement" json:"category_id"`
	Name      string    `gorm:"column:category_name;size:80;uniqueIndex;not null" json:"category_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string { return "categories" }

// Brand and Category are belongs-to by naming convention. An explicit
// foreignKey tag would also match brands.brand_id and flip the relation.
type Product struct {
	ID         uint      `gorm:"column:product_id;primaryKey;autoIncrement" json:"product_id"`
	Name       string    `gorm:"column:product_name;size:255;not null;index" json:"product_name"`
	BrandID    *uint     `gorm:"column:brand_id;index"                       json:"brand_id"`
	Brand      *Brand    `gorm:"constraint:OnDelete:RESTRICT"                json:"-"`
	CategoryID *uint     `gorm:"column:category_id;index"                    json:"category_id"`
	Category   *Category `gorm:"constraint:OnDelete:RESTRICT"                json:"-"`
	ModelYear  int       `gorm:"column:model_year;not null;check:model_year BETWEEN 1900 AND 2100" json:"model_year"`
	ListPrice  float64   `gorm:"column:list_price;type:numeric(10,2);not null;check:list_price >= 0" json:"list_price"`
}

// ProductRow is the listing projection of a product joined with its brand and category names.
type ProductRow struct {
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	BrandID      *uint   `json:"brand_id"`
	BrandName    *string `json:"brand_name"`
	CategoryID   *uint   `json:"category_id"`
	CategoryName *string `json:"category_name"`
	ModelYear    int     `json:"model_year"`
	ListPrice    float64 `json:"list_price"`
}

type Customer struct {
	ID              uint    `gorm:"column:customer_id;primaryKey;autoIncrement" json:"customer_id"`
	UserName        string  `gorm:"column:user_name;size:150;uniqueIndex;not null" json:"user_name"`
	Password        string  `gorm:"size:128;not null"           json:"-"`
	FirstName       string  `gorm:"size:50;not null;default:''" json:"first_name"`
	LastName        *string `gorm:"size:50"                     json:"last_name"`
	Phone           *string `gorm:"size:20;index"               json:"phone"`
	Email           *string `gorm:"size:254;index"              json:"email"`
	Street          *string `gorm:"size:255"                    json:"street"`
	City            *string `gorm:"size:100"                    json:"city"`
	State           *string `gorm:"size:100"                    json:"state"`
	ZipCode         *string `gorm:"size:20"                     json:"zip_code"`
	IsEmailVerified bool    `gorm:"not null"                    json:"is_email_verified"`
}

func (c *Customer) BeforeSave(*gorm.DB) error {
	return hashIfPlain(&c.Password)
}

func (c *Customer) CheckPassword(raw string) bool {
	return hash.CheckPassword(c.Password, raw)
}

// EmailValue returns the email or "" when unset.
func (c *Customer) EmailValue() string {
	if c.Email == nil {
		return ""
	}
	return *c.Email
}

type Staff struct {
	ID        uint    `gorm:"column:staff_id;primaryKey;autoIncrement" json:"staff_id"`
	Username  string  `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Password  string  `gorm:"size:128;not null"             json:"-"`
	FirstName string  `gorm:"size:50;not null;default:''"   json:"first_name"`
	LastName  *string `gorm:"size:50"                       json:"last_name"`
	Email     *string `gorm:"size:254;index"                json:"email"`
	Phone     *string `gorm:"size:20;index"                 json:"phone"`
	Active    bool    `gorm:"not null;index"                json:"active"`
	StoreID   *int    `gorm:"column:store_id"               json:"store_id"`
	ManagerID *uint   `gorm:"column:manager_id;index"       json:"manager_id"`
	Manager   *Staff  `gorm:"foreignKey:ManagerID;references:ID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Staff) TableName() string { return "staff" }

func (s *Staff) BeforeSave(*gorm.DB) error {
	return hashIfPlain(&s.Password)
}

type RevokedAuthToken struct {
	ID          uint      `gorm:"primaryKey"                 json:"id"`
	Fingerprint string    `gorm:"size:64;uniqueIndex;not null" json:"fingerprint"`
	ExpiresAt   time.Time `gorm:"index;not null"             json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func (RevokedAuthToken) TableName() string { return "revoked_tokens" }

func hashIfPlain(pw *string) error {
	if *pw == "" || hash.IsHash(*pw) {
		return nil
	}
	h, err := hash.HashPassword(*pw)
	if err != nil {
		return err
	}
	*pw = h
	return nil
}
