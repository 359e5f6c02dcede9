package cryptofolio

// Exchange references the platform a trade was executed on, and the
// identifier of the trade there.
type Exchange struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Transaction string `json:"transaction"`
}

// NewExchange returns the reference of transaction on the platform id/name.
func NewExchange(id, name, transaction string) Exchange {
	return Exchange{ID: id, Name: name, Transaction: transaction}
}

// WithTransaction returns a copy of e referencing another transaction.
func (e Exchange) WithTransaction(transaction string) Exchange {
	e.Transaction = transaction
	return e
}
