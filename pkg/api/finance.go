package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/Logesh-Devops/caconnect-clientui/pkg/models"
)

// GetEntities fetches the entities the user may act on behalf of.
// A 404 means the user has no entity memberships and yields an empty list.
func (c *Client) GetEntities(ctx context.Context) ([]models.Entity, error) {
	var result []models.Entity
	err := c.getJSON(ctx, c.financeURL+"/api/entities/", &result)
	if IsNotFound(err) {
		return []models.Entity{}, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetDashboard fetches the entity-scoped dashboard summary.
func (c *Client) GetDashboard(ctx context.Context, entityID string) (*models.DashboardData, error) {
	var result models.DashboardData
	u := c.financeURL + "/api/dashboard/?entity_id=" + url.QueryEscape(entityID)
	if err := c.getJSON(ctx, u, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// BeneficiaryInput is the payload for AddBeneficiary.
type BeneficiaryInput struct {
	Name  string `validate:"required"`
	Email string `validate:"omitempty,email"`
	Phone string `validate:"omitempty,min=7"`
}

// GetBeneficiaries lists all beneficiary records.
func (c *Client) GetBeneficiaries(ctx context.Context) ([]models.Beneficiary, error) {
	var result []models.Beneficiary
	if err := c.getJSON(ctx, c.financeURL+"/finance/beneficiaries/", &result); err != nil {
		return nil, err
	}
	return result, nil
}

// AddBeneficiary creates a beneficiary record.
func (c *Client) AddBeneficiary(ctx context.Context, in BeneficiaryInput) (*models.Beneficiary, error) {
	if err := c.checkStruct(in); err != nil {
		return nil, err
	}

	form := url.Values{
		"name":  {in.Name},
		"email": {in.Email},
		"phone": {in.Phone},
	}
	var result models.Beneficiary
	if err := c.sendForm(ctx, "POST", c.financeURL+"/finance/beneficiaries/", form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteBeneficiary removes a beneficiary record.
func (c *Client) DeleteBeneficiary(ctx context.Context, beneficiaryID string) error {
	return c.del(ctx, c.financeURL+"/finance/beneficiaries/"+url.PathEscape(beneficiaryID))
}

// BankAccountInput is the payload for the bank-account create calls.
type BankAccountInput struct {
	BankName      string `json:"bank_name" validate:"required"`
	AccountNumber string `json:"account_number" validate:"required,numeric"`
	IFSCCode      string `json:"ifsc_code" validate:"omitempty,alphanum"`
	AccountHolder string `json:"account_holder" validate:"required"`
}

// GetBankAccounts lists a beneficiary's bank accounts.
func (c *Client) GetBankAccounts(ctx context.Context, beneficiaryID string) ([]models.BankAccount, error) {
	var result []models.BankAccount
	u := c.financeURL + "/finance/beneficiaries/" + url.PathEscape(beneficiaryID) + "/bank_accounts"
	if err := c.getJSON(ctx, u, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// AddBankAccount attaches a bank account to a beneficiary. Unlike the other
// create calls this endpoint takes a JSON body.
func (c *Client) AddBankAccount(ctx context.Context, beneficiaryID string, in BankAccountInput) (*models.BankAccount, error) {
	if err := c.checkStruct(in); err != nil {
		return nil, err
	}

	var result models.BankAccount
	u := c.financeURL + "/finance/beneficiaries/" + url.PathEscape(beneficiaryID) + "/bank_accounts"
	if err := c.sendJSON(ctx, "POST", u, in, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteBankAccount removes a beneficiary's bank account.
func (c *Client) DeleteBankAccount(ctx context.Context, beneficiaryID, accountID string) error {
	u := c.financeURL + "/finance/beneficiaries/" + url.PathEscape(beneficiaryID) +
		"/bank_accounts/" + url.PathEscape(accountID)
	return c.del(ctx, u)
}

// GetOrganisationBankAccounts lists the organisation's bank accounts for an entity.
func (c *Client) GetOrganisationBankAccounts(ctx context.Context, entityID string) ([]models.BankAccount, error) {
	var result []models.BankAccount
	u := c.financeURL + "/finance/bank_accounts/?entity_id=" + url.QueryEscape(entityID)
	if err := c.getJSON(ctx, u, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// AddOrganisationBankAccount creates an organisation bank account.
func (c *Client) AddOrganisationBankAccount(ctx context.Context, entityID string, in BankAccountInput) (*models.BankAccount, error) {
	if err := c.checkStruct(in); err != nil {
		return nil, err
	}

	form := url.Values{
		"entity_id":      {entityID},
		"bank_name":      {in.BankName},
		"account_number": {in.AccountNumber},
		"ifsc_code":      {in.IFSCCode},
		"account_holder": {in.AccountHolder},
	}
	var result models.BankAccount
	if err := c.sendForm(ctx, "POST", c.financeURL+"/finance/bank_accounts/", form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteOrganisationBankAccount removes an organisation bank account.
func (c *Client) DeleteOrganisationBankAccount(ctx context.Context, accountID string) error {
	return c.del(ctx, c.financeURL+"/finance/bank_accounts/"+url.PathEscape(accountID))
}

// GetInvoices lists an entity's invoices.
func (c *Client) GetInvoices(ctx context.Context, entityID string) ([]models.Invoice, error) {
	var result []models.Invoice
	u := c.financeURL + "/finance/invoices/?entity_id=" + url.QueryEscape(entityID)
	if err := c.getJSON(ctx, u, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteInvoice removes an invoice.
func (c *Client) DeleteInvoice(ctx context.Context, entityID, invoiceID string) error {
	u := c.financeURL + "/finance/invoices/" + url.PathEscape(invoiceID) +
		"?entity_id=" + url.QueryEscape(entityID)
	return c.del(ctx, u)
}

// VoucherInput is the payload for AddVoucher.
type VoucherInput struct {
	EntityID      string  `validate:"required"`
	BeneficiaryID string  `validate:"required"`
	Amount        float64 `validate:"required,gt=0"`
	VoucherType   string  `validate:"required,oneof=payment receipt"`
	PaymentType   string  `validate:"required,oneof=cash bank"`
	FromAccountID string  `validate:"required_if=PaymentType bank"`
	ToAccountID   string  `validate:"required_if=PaymentType bank"`
	Remarks       string
}

// GetVouchers lists an entity's vouchers.
func (c *Client) GetVouchers(ctx context.Context, entityID string) ([]models.Voucher, error) {
	var result []models.Voucher
	u := c.financeURL + "/finance/vouchers/?entity_id=" + url.QueryEscape(entityID)
	if err := c.getJSON(ctx, u, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// AddVoucher creates a voucher.
func (c *Client) AddVoucher(ctx context.Context, in VoucherInput) (*models.Voucher, error) {
	if err := c.checkStruct(in); err != nil {
		return nil, err
	}

	form := url.Values{
		"entity_id":       {in.EntityID},
		"beneficiary_id":  {in.BeneficiaryID},
		"amount":          {strconv.FormatFloat(in.Amount, 'f', 2, 64)},
		"voucher_type":    {in.VoucherType},
		"payment_type":    {in.PaymentType},
		"from_account_id": {in.FromAccountID},
		"to_account_id":   {in.ToAccountID},
		"remarks":         {in.Remarks},
	}
	var result models.Voucher
	if err := c.sendForm(ctx, "POST", c.financeURL+"/finance/vouchers/", form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteVoucher removes a voucher.
func (c *Client) DeleteVoucher(ctx context.Context, entityID, voucherID string) error {
	u := c.financeURL + "/finance/vouchers/" + url.PathEscape(voucherID) +
		"?entity_id=" + url.QueryEscape(entityID)
	return c.del(ctx, u)
}
