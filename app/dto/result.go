package dto

import "time"

const TokenTypeBearer = "bearer"

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int64
}

type AvatarResult struct {
	PublicID string
	URL      string
}

// ContactInput carries the writable contact fields for create and update.
type ContactInput struct {
	FirstName      string
	LastName       string
	Email          string
	PhoneNumber    string
	Birthday       time.Time
	AdditionalInfo *string
}

