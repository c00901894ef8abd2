package review

import "context"

// Repository is the storage contract for reviews.
type Repository interface {
	CreateReview(ctx context.Context, rv *Review) error
	ListApprovedByProduct(ctx context.Context, productID string) ([]Review, Summary, error)
	ListAll(ctx context.Context, approved *bool) ([]Review, error)
	GetReviewByID(ctx context.Context, id string) (*Review, error)
	SetApproved(ctx context.Context, id string, approved bool) error
	DeleteReview(ctx context.Context, id string) error

	// HasPurchased reports whether the email has an order containing a
	// variant of the product, and returns the matching order id.
	HasPurchased(ctx context.Context, email, productID string) (bool, string, error)
	// HasReviewed reports whether the email already reviewed the product.
	HasReviewed(ctx context.Context, email, productID string) (bool, error)
}
