// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"io"

	"tradeport/internal/domain/entity"
)

// FileUpload carries one uploaded file into a use case. The content is
// streamed into the blob store, never buffered by the business layer.
type FileUpload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// --- Input DTOs ---

// SignupInput defines the data required to register a manufacturer account.
type SignupInput struct {
	Name     string
	Email    string
	MobileNo string
	Password string
	Folder   string
	Image    *FileUpload
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// ForgotPasswordInput identifies the trader account to recover.
type ForgotPasswordInput struct {
	Email string
}

// --- Output DTOs ---

// AuthOutput returns the signed token and the authenticated user.
type AuthOutput struct {
	Token string
	User  *entity.User
}

// ForgotPasswordOutput carries the regenerated plaintext credential, returned
// exactly once.
type ForgotPasswordOutput struct {
	NewPassword string
}

// UserUsecase defines the interface for account and credential operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	Signup(ctx context.Context, input *SignupInput) (*AuthOutput, error)
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)
	ForgotPassword(ctx context.Context, input *ForgotPasswordInput) (*ForgotPasswordOutput, error)
	ListUsers(ctx context.Context) ([]*entity.User, error)
}
