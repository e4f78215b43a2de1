package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/Logesh-Devops/caconnect-clientui/pkg/models"
)

// GetDocuments fetches the flat document records for an entity. The result
// feeds tree.Build; it carries no nesting.
func (c *Client) GetDocuments(ctx context.Context, entityID string) ([]*models.Entry, error) {
	var result []*models.Entry
	u := c.financeURL + "/finance/documents/?entity_id=" + url.QueryEscape(entityID)
	if err := c.getJSON(ctx, u, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateFolder creates a folder record. The synthetic root is client-side
// only, so a root parent is simply omitted from the request.
func (c *Client) CreateFolder(ctx context.Context, name, entityID, parentID string) (*models.Entry, error) {
	if err := c.checkVar("folder_name", name, "required"); err != nil {
		return nil, err
	}

	u := c.financeURL + "/finance/documents/folder?folder_name=" + url.QueryEscape(name) +
		"&entity_id=" + url.QueryEscape(entityID)
	if parentID != "" && parentID != models.RootID {
		u += "&parent_id=" + url.QueryEscape(parentID)
	}

	var result models.Entry
	if err := c.post(ctx, u, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UploadFile uploads a document into a folder as multipart form data.
func (c *Client) UploadFile(ctx context.Context, folderID, entityID, filename string, content io.Reader) (*models.Entry, error) {
	if filename == "" || content == nil {
		return nil, &ValidationError{Field: "file", Detail: "no file selected"}
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if err := mw.WriteField("entity_id", entityID); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	u := c.financeURL + "/finance/documents/?folder_id=" + url.QueryEscape(folderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result models.Entry
	if resp.StatusCode == http.StatusNoContent {
		return &result, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &result, nil
}

// DeleteDocument removes a document or folder record.
func (c *Client) DeleteDocument(ctx context.Context, documentID string) error {
	return c.del(ctx, c.financeURL+"/finance/documents/"+url.PathEscape(documentID))
}

// ShareDocument shares a document with an email address.
func (c *Client) ShareDocument(ctx context.Context, documentID, email string) error {
	if err := c.checkVar("email", email, "required,email"); err != nil {
		return err
	}

	u := c.financeURL + "/finance/documents/" + url.PathEscape(documentID) +
		"/share?email=" + url.QueryEscape(email)
	return c.post(ctx, u, nil)
}

// ViewFile fetches a document's content as a binary stream. The caller must
// close the returned reader.
func (c *Client) ViewFile(ctx context.Context, documentID string) (io.ReadCloser, int64, error) {
	u := c.financeURL + "/finance/documents/" + url.PathEscape(documentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "*/*")
	c.applyAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request GET %s: %w", req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, 0, decodeError(resp)
	}
	return resp.Body, resp.ContentLength, nil
}

// InvoiceInput is the payload for AddInvoice.
type InvoiceInput struct {
	EntityID      string  `validate:"required"`
	InvoiceNumber string  `validate:"required"`
	Amount        float64 `validate:"required,gt=0"`
	FileName      string  `validate:"required"`
}

// AddInvoice creates an invoice with its file attached as multipart form data.
func (c *Client) AddInvoice(ctx context.Context, in InvoiceInput, content io.Reader) (*models.Invoice, error) {
	if err := c.checkStruct(in); err != nil {
		return nil, err
	}
	if content == nil {
		return nil, &ValidationError{Field: "file", Detail: "no file selected"}
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", in.FileName)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	fields := map[string]string{
		"entity_id":      in.EntityID,
		"invoice_number": in.InvoiceNumber,
		"amount":         fmt.Sprintf("%.2f", in.Amount),
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.financeURL+"/finance/invoices/", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result models.Invoice
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &result, nil
}
