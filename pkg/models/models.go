// Package models contains shared data types used across the client packages.
package models

import "time"

// Role is the access role carried by a login response.
type Role string

const (
	// RoleClientUser is an end client of the platform.
	RoleClientUser Role = "CLIENT_USER"
	// RoleCAAccountant is an accountant of the chartered-accountancy firm.
	RoleCAAccountant Role = "CA_ACCOUNTANT"
)

// RootID is the id of the synthetic root folder of a document tree.
// It never appears in the flat record list returned by the server.
const RootID = "root"

// Entry represents a folder or document in the virtual document tree.
// The server returns entries as flat records; Children is populated only
// by tree.Build and is never part of the wire format.
type Entry struct {
	ID       string `json:"id"`
	ParentID string `json:"parent_id,omitempty"`
	Name     string `json:"name"`
	IsFolder bool   `json:"is_folder"`
	FileType string `json:"file_type,omitempty"`
	Size     int64  `json:"size,omitempty"`

	Children []*Entry `json:"-"`
}

// Entity is an organizational unit a client user may act on behalf of.
type Entity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Principal is the authenticated user's identity as the profile endpoint
// reports it. The organization fields back the entity fallback for users
// with no entity memberships.
type Principal struct {
	Sub              string `json:"sub"`
	Name             string `json:"name"`
	Role             Role   `json:"role"`
	Is2FAEnabled     bool   `json:"is_2fa_enabled"`
	OrganizationID   string `json:"organization_id,omitempty"`
	OrganizationName string `json:"organization_name,omitempty"`
}

// Session holds everything the client keeps about an authenticated user.
type Session struct {
	Principal
	AccessToken string   `json:"access_token"`
	Entities    []Entity `json:"entities"`
}

// Beneficiary is a payee record.
type Beneficiary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// BankAccount is a bank account owned by a beneficiary or by the organisation.
type BankAccount struct {
	ID            string `json:"id"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	IFSCCode      string `json:"ifsc_code,omitempty"`
	AccountHolder string `json:"account_holder,omitempty"`
}

// Invoice is an entity-scoped invoice record.
type Invoice struct {
	ID            string    `json:"id"`
	EntityID      string    `json:"entity_id"`
	InvoiceNumber string    `json:"invoice_number"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status,omitempty"`
	FileName      string    `json:"file_name,omitempty"`
	CreatedDate   time.Time `json:"created_date"`
}

// Voucher is an entity-scoped payment voucher.
type Voucher struct {
	ID              string    `json:"id"`
	EntityID        string    `json:"entity_id"`
	BeneficiaryID   string    `json:"beneficiary_id,omitempty"`
	BeneficiaryName string    `json:"beneficiaryName,omitempty"`
	Amount          float64   `json:"amount"`
	VoucherType     string    `json:"voucher_type"`
	PaymentType     string    `json:"payment_type"`
	FromAccountID   string    `json:"from_account_id,omitempty"`
	ToAccountID     string    `json:"to_account_id,omitempty"`
	Remarks         string    `json:"remarks,omitempty"`
	CreatedDate     time.Time `json:"created_date"`
}

// DashboardData is the entity-scoped dashboard summary.
type DashboardData struct {
	TotalInvoices      int     `json:"total_invoices"`
	TotalVouchers      int     `json:"total_vouchers"`
	TotalBeneficiaries int     `json:"total_beneficiaries"`
	TotalDocuments     int     `json:"total_documents"`
	InvoiceAmount      float64 `json:"invoice_amount"`
	VoucherAmount      float64 `json:"voucher_amount"`
}

// CacheEntry represents a downloaded document cached on the client.
type CacheEntry struct {
	DocumentID string    `json:"document_id"`
	LocalPath  string    `json:"local_path"`
	Size       int64     `json:"size"`
	LastAccess time.Time `json:"last_access"`
}
