package inquiry

import "fmt"

// ValidationError rejects a submission before anything is stored.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// PersistenceError means the inquiry was not recorded. Nothing downstream
// of the store ran.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("Erro ao salvar: %v", e.Err) }

func (e *PersistenceError) Unwrap() error { return e.Err }

// NotificationError is a warning: the inquiry is recorded but the owner
// was not emailed. Reason is the delivery failure text, unaltered.
type NotificationError struct {
	Reason string
}

func (e *NotificationError) Error() string { return "Mensagem salva. E-mail não enviado: " + e.Reason }
