package diagnosing

import "errors"

var (
	// ErrMissingAccountID é retornado antes de qualquer avaliação quando o
	// identificador da conta não foi informado.
	ErrMissingAccountID = errors.New("o identificador da conta é obrigatório")

	// ErrAccountNotFound é retornado quando a conta não existe no cadastro.
	ErrAccountNotFound = errors.New("conta não encontrada")

	// ErrInvalidMode é retornado quando o modo de comparação não é reconhecido.
	ErrInvalidMode = errors.New("modo de comparação inválido")
)
