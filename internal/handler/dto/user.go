// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"github.com/samber/lo"

	"github.com/chatboard/chatboard/internal/model"
)

// CreateUserRequest represents the request body for creating a user.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// StatusResponse carries a confirmation message.
type StatusResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Message string   `json:"message"`
	Code    string   `json:"code"`
	Fields  []string `json:"fields,omitempty"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

// ToUserListResponse converts users to a JSON array, never null.
func ToUserListResponse(users []*model.User) []UserResponse {
	return lo.Map(users, func(user *model.User, _ int) UserResponse {
		return *ToUserResponse(user)
	})
}
