package domain

// Store is a physical outlet. Managers are scoped to exactly one store,
// admins see all of them.
type Store struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// CreateStore is the payload for creating or updating a store.
type CreateStore struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}
