package registry

// Record is the registry payload for a legal entity. Decoding is tolerant:
// fields absent from the response stay zero-valued and degrade to "N/A" in
// presentation. No schema validation happens beyond structural JSON parsing.
type Record struct {
	TaxID          string         `json:"taxId"`
	Alias          string         `json:"alias"`
	Founded        string         `json:"founded"` // YYYY-MM-DD
	Status         Status         `json:"status"`
	Company        Company        `json:"company"`
	Address        Address        `json:"address"`
	MainActivity   Activity       `json:"mainActivity"`
	SideActivities []Activity     `json:"sideActivities"`
	Registrations  []Registration `json:"registrations"`
}

// Status holds the registration status text ("Ativa", "Baixada", ...).
type Status struct {
	Text string `json:"text"`
}

// Company holds the legal entity's corporate data.
type Company struct {
	Name    string   `json:"name"`
	Equity  float64  `json:"equity"`
	Members []Member `json:"members"`
}

// Member is one entry in the company's membership board.
type Member struct {
	Person Person `json:"person"`
	Role   Role   `json:"role"`
}

// Person identifies a member by name.
type Person struct {
	Name string `json:"name"`
}

// Role is a member's role text ("Sócio-Administrador", ...).
type Role struct {
	Text string `json:"text"`
}

// Address is the registered address.
type Address struct {
	Street   string `json:"street"`
	Number   string `json:"number"`
	District string `json:"district"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
}

// Activity is a CNAE economic activity entry.
type Activity struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// Registration is a state-level tax registration.
type Registration struct {
	Number  string `json:"number"`
	State   string `json:"state"`
	Enabled bool   `json:"enabled"`
}
