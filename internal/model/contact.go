package model

// Contact is a transfer recipient derived from the newest outgoing transfer to them.
type Contact struct {
	Name       string `json:"name"`
	Account    string `json:"account"`
	Bank       string `json:"bank"`
	LastDate   string `json:"last_transfer_date"`
	LastMemo   string `json:"last_memo,omitempty"`
	LastAmount int64  `json:"last_transfer_amount"`
}

// ContactsFromTransfers builds de-duplicated contacts from records sorted
// newest first. The first record seen for a name wins.
func ContactsFromTransfers(sorted []Transaction, limit int) []Contact {
	seen := make(map[string]bool)
	var contacts []Contact
	for _, txn := range sorted {
		if !txn.IsTransfer() {
			continue
		}
		name := txn.Counterparty.Name
		if seen[name] {
			continue
		}
		seen[name] = true
		amount := txn.Amount
		if amount < 0 {
			amount = -amount
		}
		contacts = append(contacts, Contact{
			Name:       name,
			Account:    txn.Counterparty.Account,
			Bank:       txn.Counterparty.Bank,
			LastDate:   txn.DateString(),
			LastMemo:   txn.Memo,
			LastAmount: amount,
		})
		if limit > 0 && len(contacts) == limit {
			break
		}
	}
	return contacts
}
