package domain

import "time"

// LocationKind é a tag da união fechada de participantes de localização.
// Cada movimento referencia atores por (id, tag); a tag decide em qual tabela
// o id é resolvido em tempo de leitura.
type LocationKind string

const (
	LocationSupplier LocationKind = "supplier"
	LocationClient   LocationKind = "client"
	LocationUser     LocationKind = "user"
)

// Valid informa se a tag é uma das três reconhecidas.
// Tags desconhecidas são erro de validação, nunca um null silencioso.
func (k LocationKind) Valid() bool {
	switch k {
	case LocationSupplier, LocationClient, LocationUser:
		return true
	}
	return false
}

// ActorRef é a referência polimórfica {Supplier(id) | Client(id) | User(id)}.
type ActorRef struct {
	ID   string       `json:"id"`
	Kind LocationKind `json:"kind"`
}

// Empty informa se a referência está ausente (id ou tag faltando).
// Referências vazias são legítimas: entrada pura não tem origem.
func (r ActorRef) Empty() bool {
	return r.ID == "" || r.Kind == ""
}

// ActorIdentity é a identidade de exibição de um ator resolvido.
type ActorIdentity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Supplier representa um fornecedor da clínica.
type Supplier struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CNPJ      string    `json:"cnpj"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Client representa um cliente/paciente da clínica.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CPF       string    `json:"cpf"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
