package dto

import (
	"strings"

	"github.com/google/uuid"

	"fleet/infras/jwt"
	userModel "fleet/internal/domains/user/model"
	"fleet/shared/constant"
	gModel "fleet/shared/model"
	"fleet/shared/timezone"
)

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Phone    string `json:"phone"    validate:"omitempty,max=20"`
}

// ToUserModel builds the user record. Emails are stored lowercased and new
// accounts always start as customers.
func (r *RegisterRequest) ToUserModel(hashedPassword string) userModel.User {
	var phone *string
	if r.Phone != constant.Empty {
		phone = &r.Phone
	}

	return userModel.User{
		ID:       uuid.NewString(),
		Name:     r.Name,
		Email:    strings.ToLower(r.Email),
		Password: hashedPassword,
		Phone:    phone,
		Role:     constant.RoleCustomer,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  constant.ContextSystem,
			ModifiedBy: constant.ContextSystem,
		},
	}
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (r *LoginResponse) FromTokenPair(pair *jwt.TokenPair) {
	r.AccessToken = pair.AccessToken
	r.RefreshToken = pair.RefreshToken
	r.TokenType = pair.TokenType
	r.ExpiresIn = pair.ExpiresIn
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (r *RefreshTokenResponse) FromTokenPair(pair *jwt.TokenPair) {
	r.AccessToken = pair.AccessToken
	r.RefreshToken = pair.RefreshToken
	r.TokenType = pair.TokenType
	r.ExpiresIn = pair.ExpiresIn
}
