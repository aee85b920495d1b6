package common

import (
	"family-hub-go/internal/auth"
	userdomain "family-hub-go/internal/domain/user"
	"family-hub-go/pkg/logger"
)

type TokenIssuer interface {
	Issue(userID string) (auth.Token, error)
}

type Handlers struct {
	Users  *userdomain.Service
	Tokens TokenIssuer
	log    logger.Logger
}

func New(users *userdomain.Service, tokens TokenIssuer, log logger.Logger) *Handlers {
	return &Handlers{
		Users:  users,
		Tokens: tokens,
		log:    log,
	}
}
