package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"net/mail"
	"time"

	"github.com/dankdeals/dankdeals-backend-go/database"
	"github.com/dankdeals/dankdeals-backend-go/models"
	"github.com/dankdeals/dankdeals-backend-go/utils"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

type signUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	Phone       string `json:"phone"`
	AgeVerified bool   `json:"age_verified"`
}

func SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	if !isValidEmail(req.Email) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid email format"})
	}
	if len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Password must be at least 8 characters"})
	}
	if len(req.FullName) < 2 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Name must be at least 2 characters"})
	}
	if req.Phone != "" && !utils.ValidatePhoneNumber(req.Phone) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Please enter a valid phone number"})
	}
	if !req.AgeVerified {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "You must confirm you are 21 or older"})
	}

	ctx := c.Request().Context()

	var exists bool
	err := database.DB.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM profiles WHERE email = $1)`, req.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create account"})
	}
	if exists {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Email already registered"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to process password"})
	}

	now := time.Now()
	profile := models.Profile{
		ID:                uuid.New().String(),
		Email:             req.Email,
		PasswordHash:      string(hashedPassword),
		FullName:          &req.FullName,
		Role:              models.RoleCustomer,
		AgeVerified:       req.AgeVerified,
		NotificationEmail: true,
		NotificationSMS:   true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if req.Phone != "" {
		profile.Phone = &req.Phone
	}

	_, err = database.DB.NamedExecContext(ctx, `
		INSERT INTO profiles (
			id, email, password_hash, full_name, phone, role, age_verified,
			loyalty_points, notification_email, notification_sms, marketing_emails,
			created_at, updated_at
		) VALUES (
			:id, :email, :password_hash, :full_name, :phone, :role, :age_verified,
			:loyalty_points, :notification_email, :notification_sms, :marketing_emails,
			:created_at, :updated_at
		)`, profile)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create account"})
	}

	return c.JSON(http.StatusCreated, profile)
}

func LoginUser(c echo.Context) error {
	var loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&loginRequest); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	var profile models.Profile
	err := database.DB.GetContext(c.Request().Context(), &profile,
		`SELECT * FROM profiles WHERE email = $1`, loginRequest.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to sign in"})
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(loginRequest.Password)) != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
	}

	token, err := utils.GenerateJWT(profile.ID, profile.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate token"})
	}

	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}
