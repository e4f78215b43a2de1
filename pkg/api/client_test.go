package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Logesh-Devops/caconnect-clientui/pkg/models"
)

// newTestClient points both service URLs at one test server.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{
		IdentityURL: srv.URL,
		FinanceURL:  srv.URL,
		Timeout:     5 * time.Second,
	})
}

func TestLoginSendsFormCredentials(t *testing.T) {
	var gotEmail, gotPassword string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login/", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotEmail = r.PostForm.Get("email")
		gotPassword = r.PostForm.Get("password")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"access_token":"tok-1","token_type":"bearer","role":"CLIENT_USER"}`)
	}))

	resp, err := c.Login(context.Background(), "user@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", gotEmail)
	assert.Equal(t, "secret", gotPassword)
	assert.Equal(t, "tok-1", resp.AccessToken)
	assert.Equal(t, models.RoleClientUser, resp.Role)
	assert.Empty(t, c.AuthToken(), "login must not store the token itself")
}

func TestLoginValidatesLocally(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should reach the server")
	}))

	_, err := c.Login(context.Background(), "not-an-email", "pw")
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "email", ve.Field)

	_, err = c.Login(context.Background(), "user@example.com", "")
	_, ok = AsValidationError(err)
	assert.True(t, ok)
}

func TestBearerTokenApplied(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"sub":"user@example.com","name":"Asha","role":"CLIENT_USER"}`)
	}))

	c.SetAuthToken("tok-1")
	_, err := c.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", gotAuth)
}

func TestGetProfileDecodesOrganization(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"sub":"user@example.com","name":"Asha","role":"CLIENT_USER",
			"organization_id":"org-1","organization_name":"Acme Holdings"}`)
	}))

	profile, err := c.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "org-1", profile.OrganizationID)
	assert.Equal(t, "Acme Holdings", profile.OrganizationName)
}

func TestErrorDetailDecoded(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"detail":"Incorrect email or password"}`)
	}))

	_, err := c.GetProfile(context.Background())
	ae, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, ae.Status)
	assert.Equal(t, "Incorrect email or password", ae.Detail)
}

func TestErrorFallbackMessage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "<html>bad gateway</html>")
	}))

	_, err := c.GetProfile(context.Background())
	ae, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "HTTP error! status: 502", ae.Detail)
}

func TestGetEntitiesNotFoundIsEmpty(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"No entities"}`, http.StatusNotFound)
	}))

	entities, err := c.GetEntities(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entities)
}

func TestGetDocumentsFlatRecords(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "e1", r.URL.Query().Get("entity_id"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"id":"f1","name":"Reports","is_folder":true},
			{"id":"d1","parent_id":"f1","name":"q1.pdf","is_folder":false,"size":1024}
		]`)
	}))

	records, err := c.GetDocuments(context.Background(), "e1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].IsFolder)
	assert.Equal(t, "f1", records[1].ParentID)
	assert.Nil(t, records[1].Children)
}

func TestCreateFolderOmitsRootParent(t *testing.T) {
	var gotQuery map[string][]string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"f2","name":"Taxes","is_folder":true}`)
	}))

	_, err := c.CreateFolder(context.Background(), "Taxes", "e1", models.RootID)
	require.NoError(t, err)
	assert.Equal(t, "Taxes", gotQuery["folder_name"][0])
	assert.NotContains(t, gotQuery, "parent_id")

	_, err = c.CreateFolder(context.Background(), "Taxes", "e1", "f1")
	require.NoError(t, err)
	assert.Equal(t, "f1", gotQuery["parent_id"][0])
}

func TestUploadFileMultipart(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "e1", r.FormValue("entity_id"))
		assert.Equal(t, "f1", r.URL.Query().Get("folder_id"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "q1.pdf", header.Filename)
		data, _ := io.ReadAll(file)
		assert.Equal(t, "pdf bytes", string(data))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"d1","parent_id":"f1","name":"q1.pdf"}`)
	}))

	doc, err := c.UploadFile(context.Background(), "f1", "e1", "q1.pdf", strings.NewReader("pdf bytes"))
	require.NoError(t, err)
	assert.Equal(t, "d1", doc.ID)
}

func TestUploadFileRejectsEmptySelection(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should reach the server")
	}))

	_, err := c.UploadFile(context.Background(), "f1", "e1", "", nil)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "file", ve.Field)
}

func TestViewFileStreamsBinary(t *testing.T) {
	payload := bytes.Repeat([]byte{0xde, 0xad}, 512)
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/finance/documents/d1", r.URL.Path)
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(payload)
	}))

	body, size, err := c.ViewFile(context.Background(), "d1")
	require.NoError(t, err)
	defer body.Close()

	got, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, int64(len(payload)), size)
}

func TestAddVoucherValidation(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should reach the server")
	}))

	// Bank payments need both account ids.
	_, err := c.AddVoucher(context.Background(), VoucherInput{
		EntityID:      "e1",
		BeneficiaryID: "b1",
		Amount:        100,
		VoucherType:   "payment",
		PaymentType:   "bank",
	})
	_, ok := AsValidationError(err)
	assert.True(t, ok)

	_, err = c.AddVoucher(context.Background(), VoucherInput{
		EntityID:      "e1",
		BeneficiaryID: "b1",
		Amount:        100,
		VoucherType:   "loan",
		PaymentType:   "cash",
	})
	_, ok = AsValidationError(err)
	assert.True(t, ok)
}

func TestAddVoucherCashSkipsAccounts(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "cash", r.PostForm.Get("payment_type"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"v1","entity_id":"e1","amount":100,"voucher_type":"payment","payment_type":"cash","created_date":"2026-08-01T00:00:00Z"}`)
	}))

	v, err := c.AddVoucher(context.Background(), VoucherInput{
		EntityID:      "e1",
		BeneficiaryID: "b1",
		Amount:        100,
		VoucherType:   "payment",
		PaymentType:   "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, "v1", v.ID)
}

func TestUpdatePasswordMismatch(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should reach the server")
	}))

	err := c.UpdatePassword(context.Background(), "old", "newpassword", "different")
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "confirm_password", ve.Field)
}

func TestContextCancellation(t *testing.T) {
	block := make(chan struct{})
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetProfile(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&APIError{Status: http.StatusNotFound}))
	assert.False(t, IsNotFound(&APIError{Status: http.StatusInternalServerError}))
	assert.False(t, IsNotFound(nil))
}
