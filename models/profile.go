package models

import "time"

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
	RoleDriver   UserRole = "driver"
)

type Profile struct {
	ID                string    `db:"id" json:"id"`
	Email             string    `db:"email" json:"email"`
	PasswordHash      string    `db:"password_hash" json:"-"`
	FullName          *string   `db:"full_name" json:"full_name"`
	Phone             *string   `db:"phone" json:"phone"`
	Role              UserRole  `db:"role" json:"role"`
	AgeVerified       bool      `db:"age_verified" json:"age_verified"`
	LoyaltyPoints     int       `db:"loyalty_points" json:"loyalty_points"`
	NotificationEmail bool      `db:"notification_email" json:"notification_email"`
	NotificationSMS   bool      `db:"notification_sms" json:"notification_sms"`
	MarketingEmails   bool      `db:"marketing_emails" json:"marketing_emails"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

type SavedAddress struct {
	ID                   string    `db:"id" json:"id"`
	UserID               string    `db:"user_id" json:"user_id"`
	Label                string    `db:"label" json:"label"`
	Street               string    `db:"street" json:"street"`
	Apt                  *string   `db:"apt" json:"apt"`
	City                 string    `db:"city" json:"city"`
	State                string    `db:"state" json:"state"`
	Zip                  string    `db:"zip" json:"zip"`
	DeliveryInstructions *string   `db:"delivery_instructions" json:"delivery_instructions"`
	IsDefault            bool      `db:"is_default" json:"is_default"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}
