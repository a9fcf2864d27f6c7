package handler

import (
	"github.com/clientspot/clientspot/backend/internal/service"
	"github.com/clientspot/clientspot/shared/config"
	mw "github.com/clientspot/clientspot/shared/middleware"
)

type Handler struct {
	account service.AccountService
	company service.CompanyService
	session *mw.Auth
	health  []Dependency
	cfg     *config.Config
}

func New(account service.AccountService, company service.CompanyService, session *mw.Auth, cfg *config.Config, health ...Dependency) *Handler {
	return &Handler{
		account: account,
		company: company,
		session: session,
		health:  health,
		cfg:     cfg,
	}
}
