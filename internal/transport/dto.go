package transport

import "github.com/Skotchmaster/storefront/internal/models"

// Pointer fields distinguish "absent" from "empty" for partial updates.

type BrandRequest struct {
	BrandName *string `json:"brand_name"`
}

type CategoryRequest struct {
	CategoryName *string `json:"category_name"`
}

type ProductRequest struct {
	ProductName *string    `json:"product_name"`
	BrandID     NullableID `json:"brand_id"`
	CategoryID  NullableID `json:"category_id"`
	ModelYear   *int       `json:"model_year"`
	ListPrice   *float64   `json:"list_price"`
}

// CustomerRequest is used by registration and by the admin create/update endpoints.
type CustomerRequest struct {
	UserName  *string `json:"user_name"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	Street    *string `json:"street"`
	City      *string `json:"city"`
	State     *string `json:"state"`
	ZipCode   *string `json:"zip_code"`
}

type StaffRequest struct {
	Username  *string    `json:"username"`
	Password  *string    `json:"password"`
	FirstName *string    `json:"first_name"`
	LastName  *string    `json:"last_name"`
	Email     *string    `json:"email"`
	Phone     *string    `json:"phone"`
	Active    *bool      `json:"active"`
	StoreID   *int       `json:"store_id"`
	ManagerID NullableID `json:"manager_id"`
}

type LoginRequest struct {
	UserName string `json:"user_name"`
	Password string `json:"password"`
}

// AccountLookupRequest identifies an account by user name or, failing that, by email.
type AccountLookupRequest struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
}

type PasswordResetConfirmRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
	PasswordConfirm string `json:"password_confirm"`
}

type DetailResponse struct {
	Detail string `json:"detail"`
}

type RegisterResponse struct {
	CustomerID      uint    `json:"customer_id"`
	UserName        string  `json:"user_name"`
	FirstName       string  `json:"first_name"`
	LastName        *string `json:"last_name"`
	Email           *string `json:"email"`
	IsEmailVerified bool    `json:"is_email_verified"`
	Detail          string  `json:"detail"`
}

type LoginResponse struct {
	Token          string           `json:"token"`
	TokenExpiresIn int64            `json:"token_expires_in"`
	Customer       *models.Customer `json:"customer"`
}

// Str returns the trimmed value of p, or "" when p is nil.
func Str(p *string) string {
	if p == nil {
		return ""
	}
	return trim(*p)
}
