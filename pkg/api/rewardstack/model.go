package rewardstack

type CreateParticipantRequest struct {
	FirstName    string
	LastName     string
	Email        string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	ZipCode      string
	Country      string
	Phone        string
}

type Participant struct {
	ID     string
	Status string
}

type CreateTransactionRequest struct {
	ParticipantID string
	Type          string
	Amount        int64
	SkuID         string

	// Shipping is required for SKU orders only.
	Shipping *ShippingAddress
}

type ShippingAddress struct {
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	ZipCode      string
	Country      string
	Phone        string
}

type Transaction struct {
	TransactionID string
	AdjustmentID  string
	Status        string
}

// Error is a failure reported by the provider itself, carrying its
// human-readable message. Network and decoding failures are returned as plain
// errors instead.
type Error struct {
	Code    int
	Message string
}

func (e Error) Error() string {
	return e.Message
}
