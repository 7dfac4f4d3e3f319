package types

// TokenClaims carries the identity extracted from a verified JWT.
type TokenClaims struct {
	UserID uint
}
