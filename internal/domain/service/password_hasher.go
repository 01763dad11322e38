// Package service defines contracts for domain services whose concrete
// implementations live in the infrastructure layer.
package service

// PasswordHasher abstracts the credential hashing primitive.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext credential.
	Hash(password string) (string, error)

	// Check compares a plaintext credential with a stored hash.
	Check(password, hash string) bool
}
