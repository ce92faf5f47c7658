package models

// Field names the API reports validation errors under. Anything the
// server sends outside this set is folded into FieldGeneral.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldPasswordConfirm = "password_confirm"
	FieldFirstName       = "first_name"
	FieldLastName        = "last_name"
	FieldCPF             = "cpf"
	FieldPhone           = "phone"
	FieldRole            = "role"
	FieldCNHNumero       = "cnh_numero"
	FieldCNHCategoria    = "cnh_categoria"
	FieldCNHValidade     = "cnh_validade"
	FieldCode            = "code"
	FieldNewPassword     = "new_password"
	FieldConfirmPassword = "confirm_password"

	// Buckets for non-field failures.
	FieldCredentials = "credentials"
	FieldNetwork     = "network"
	FieldGeneral     = "general"
)

var knownFields = map[string]bool{
	FieldEmail:           true,
	FieldPassword:        true,
	FieldPasswordConfirm: true,
	FieldFirstName:       true,
	FieldLastName:        true,
	FieldCPF:             true,
	FieldPhone:           true,
	FieldRole:            true,
	FieldCNHNumero:       true,
	FieldCNHCategoria:    true,
	FieldCNHValidade:     true,
	FieldCode:            true,
	FieldNewPassword:     true,
	FieldConfirmPassword: true,
	FieldCredentials:     true,
	FieldNetwork:         true,
	FieldGeneral:         true,
}

type FieldErrors map[string][]string

// Normalize remaps unknown field names into the general bucket so the
// UI never has to deal with arbitrary server keys.
func (fe FieldErrors) Normalize() FieldErrors {
	if fe == nil {
		return nil
	}
	out := make(FieldErrors, len(fe))
	for field, msgs := range fe {
		if knownFields[field] {
			out[field] = append(out[field], msgs...)
		} else {
			out[FieldGeneral] = append(out[FieldGeneral], msgs...)
		}
	}
	return out
}

func (fe FieldErrors) First(field string) string {
	if msgs := fe[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// General returns the messages not tied to a specific input: the
// general, network and credentials buckets, in that order.
func (fe FieldErrors) General() []string {
	var out []string
	out = append(out, fe[FieldGeneral]...)
	out = append(out, fe[FieldNetwork]...)
	out = append(out, fe[FieldCredentials]...)
	return out
}

// Result is the normalized outcome every session operation returns.
// Expected failures (bad credentials, validation, network) come back
// as Success=false with Errors populated, never as a Go error.
type Result[T any] struct {
	Success bool
	Message string
	Data    *T
	Errors  FieldErrors
}

func OK[T any](message string, data *T) Result[T] {
	return Result[T]{Success: true, Message: message, Data: data}
}

func Fail[T any](message string, errs FieldErrors) Result[T] {
	return Result[T]{Success: false, Message: message, Errors: errs.Normalize()}
}

func FailField[T any](message, field string, fieldMsgs ...string) Result[T] {
	return Result[T]{
		Success: false,
		Message: message,
		Errors:  FieldErrors{field: fieldMsgs},
	}
}

// None is the data type for operations that return no payload.
type None struct{}
