package domain

import "context"

// ReceiptRepository is the abstraction for any kind of database intended to
// persist the journal of ledger receipts.
type ReceiptRepository interface {
	// AddReceipt adds the provided receipt to the journal.
	AddReceipt(ctx context.Context, receipt Receipt) error
	// GetReceiptsForOwner returns the receipts of the given owner, most
	// recent first. A nil page returns the entire list.
	GetReceiptsForOwner(
		ctx context.Context, owner string, page *Page,
	) ([]Receipt, error)
}
