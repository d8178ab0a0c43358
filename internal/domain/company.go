package domain

import "time"

type ClientVerificationStatus string

const (
	ClientVerificationPending  ClientVerificationStatus = "PENDING"
	ClientVerificationAccepted ClientVerificationStatus = "ACCEPTED"
	ClientVerificationRejected ClientVerificationStatus = "REJECTED"
)

// Client is a renter. UserID links to the identity collaborator's account;
// lifecycle operations resolve the authenticated actor to a Client through it.
type Client struct {
	ID                 int32                    `json:"id"`
	UserID             int32                    `json:"user_id"`
	FirstName          string                   `json:"first_name"`
	LastName           string                   `json:"last_name"`
	VerificationStatus ClientVerificationStatus `json:"verification_status"`
	CreatedOn          time.Time                `json:"created_on"`
}

// Company owns cars and a wallet. The platform operator is itself a company,
// identified by a reserved tax number; commission income is credited to its
// wallet on every rental completion.
type Company struct {
	ID        int32     `json:"id"`
	UserID    int32     `json:"user_id"`
	TradeName string    `json:"trade_name"`
	TaxNumber string    `json:"tax_number"`
	CreatedOn time.Time `json:"created_on"`
}
