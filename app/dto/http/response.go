package http

import (
	"github.com/vibast-solutions/ms-go-contacts/app/dto"
	"github.com/vibast-solutions/ms-go-contacts/app/entity"
)

type RoleResponse struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type UserResponse struct {
	ID       uint64        `json:"id"`
	Email    string        `json:"email"`
	IsActive bool          `json:"is_active"`
	Avatar   *string       `json:"avatar"`
	Role     *RoleResponse `json:"role"`
}

func NewUserResponse(user *entity.User) UserResponse {
	resp := UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		IsActive: user.IsActive,
	}
	if user.Avatar.Valid {
		avatar := user.Avatar.String
		resp.Avatar = &avatar
	}
	if role, ok := user.Role.Get(); ok {
		resp.Role = &RoleResponse{ID: role.ID, Name: string(role.Name)}
	}
	return resp
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func NewTokenResponse(pair *dto.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
	}
}

type ContactResponse struct {
	ID             uint64  `json:"id"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email"`
	PhoneNumber    string  `json:"phone_number"`
	Birthday       string  `json:"birthday"`
	AdditionalInfo *string `json:"additional_info"`
}

func NewContactResponse(contact *entity.Contact) ContactResponse {
	resp := ContactResponse{
		ID:          contact.ID,
		FirstName:   contact.FirstName,
		LastName:    contact.LastName,
		Email:       contact.Email,
		PhoneNumber: contact.PhoneNumber,
		Birthday:    contact.Birthday.Format(DateLayout),
	}
	if contact.AdditionalInfo.Valid {
		info := contact.AdditionalInfo.String
		resp.AdditionalInfo = &info
	}
	return resp
}

func NewContactListResponse(contacts []*entity.Contact) []ContactResponse {
	resp := make([]ContactResponse, 0, len(contacts))
	for _, contact := range contacts {
		resp = append(resp, NewContactResponse(contact))
	}
	return resp
}

type AvatarResponse struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// MessageResponse matches the {"msg": ...} bodies of the verification endpoints.
type MessageResponse struct {
	Msg string `json:"msg"`
}

type DetailResponse struct {
	Detail string `json:"detail"`
}

type PingResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
