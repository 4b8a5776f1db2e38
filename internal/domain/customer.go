package domain

import "time"

type Address struct {
	Street       string
	Number       string
	Neighborhood string
	City         string
	State        string
	PostalCode   string
	Complement   *string
}

// Customer identity and address data. Derived debt totals never live here;
// they are computed from the customer's notes at query time.
type Customer struct {
	ID   int64
	Name string

	// Document is the tax id (CPF/CNPJ). Checksum validation happens in the
	// calling layer; the core stores it as an opaque string.
	Document string

	Address Address
	Remarks *string

	CreatedAt *time.Time
}
