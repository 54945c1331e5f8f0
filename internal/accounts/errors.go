package accounts

import "errors"

// Erros sentinela do ciclo de vida de contas. Os handlers traduzem para HTTP;
// ErrInvalidToken e ErrExpiredToken compartilham a mesma mensagem voltada ao
// usuário, e ErrUserNotFound nunca é exposto (evita enumeração de contas).
var (
	ErrDuplicateEmail   = errors.New("an account with that email address already exists")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("expired token")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrUserNotFound     = errors.New("user not found")
)
