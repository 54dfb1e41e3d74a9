package port

type TokenPayload struct {
	UserID string
}

//go:generate mockgen -source=auth.go -destination=mock/auth.go -package=mock
type TokenService interface {
	CreateToken(userID string) (string, error)
	VerifyToken(token string) (*TokenPayload, error)
}
