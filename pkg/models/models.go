package models

import "encoding/json"

// Role values accepted by the LogiTrack API.
const (
	RoleDriver    = "driver"
	RoleLogistics = "logistics"
	RoleAdmin     = "admin"
)

type User struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Role       string `json:"role"`
	CPF        string `json:"cpf"`
	Phone      string `json:"phone,omitempty"`
	IsActive   bool   `json:"is_active"`
	DateJoined string `json:"date_joined"`

	// Driver license fields, present only when Role == RoleDriver.
	CNHNumero    string `json:"cnh_numero,omitempty"`
	CNHCategoria string `json:"cnh_categoria,omitempty"`
	CNHValidade  string `json:"cnh_validade,omitempty"`

	FotoPerfil string `json:"foto_perfil,omitempty"`
}

func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

func (u *User) IsDriver() bool { return u.Role == RoleDriver }

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type LoginCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterData struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	CPF             string `json:"cpf"`
	Phone           string `json:"phone,omitempty"`
	Role            string `json:"role"`
	CNHNumero       string `json:"cnh_numero,omitempty"`
	CNHCategoria    string `json:"cnh_categoria,omitempty"`
	CNHValidade     string `json:"cnh_validade,omitempty"`
}

type PasswordResetConfirm struct {
	Code            string `json:"code"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// AuthPayload is the data section of login/register responses.
type AuthPayload struct {
	User   User      `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

// Envelope is the wire shape every LogiTrack API response uses.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Errors  FieldErrors     `json:"errors,omitempty"`
}
