package http

import (
	"strings"
	"time"

	"github.com/vibast-solutions/ms-go-contacts/app/dto"
)

const DateLayout = "2006-01-02"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

func (r *RegisterRequest) Validate() error {
	return validateStruct(r)
}

// TokenRequest is the OAuth2 password grant form; username carries the email.
type TokenRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

func (r *TokenRequest) Validate() error {
	return validateStruct(r)
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token" query:"refresh_token" validate:"required"`
}

func (r *RefreshTokenRequest) Validate() error {
	return validateStruct(r)
}

type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *ResendVerificationRequest) Validate() error {
	return validateStruct(r)
}

type ContactRequest struct {
	FirstName      string  `json:"first_name" validate:"required,max=100"`
	LastName       string  `json:"last_name" validate:"required,max=100"`
	Email          string  `json:"email" validate:"required,email,max=255"`
	PhoneNumber    string  `json:"phone_number" validate:"required,max=32"`
	Birthday       string  `json:"birthday" validate:"required,datetime=2006-01-02"`
	AdditionalInfo *string `json:"additional_info" validate:"omitempty,max=1000"`
}

func (r *ContactRequest) Validate() error {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	return validateStruct(r)
}

// ToInput must be called after Validate.
func (r *ContactRequest) ToInput() dto.ContactInput {
	birthday, _ := time.Parse(DateLayout, r.Birthday)
	return dto.ContactInput{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		PhoneNumber:    r.PhoneNumber,
		Birthday:       birthday,
		AdditionalInfo: r.AdditionalInfo,
	}
}
