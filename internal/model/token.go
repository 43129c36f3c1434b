package model

// TokenManager issues and validates service bearer tokens.
type TokenManager interface {
	GenerateServiceToken(subject string) (string, error)
	ParseServiceToken(token string) (subject string, err error)
}
