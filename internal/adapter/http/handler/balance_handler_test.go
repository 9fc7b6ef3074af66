package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayansteel/ledger/internal/adapter/http/dto"
)

func TestBalanceHandler_CompanyBalance_CreatesCompanyOnFirstUse(t *testing.T) {
	f := newHandlerFixture(t)
	h := NewBalanceHandler(f.partyUC, f.balanceUC, f.auditUC)

	req := httptest.NewRequest(http.MethodGet, "/company-balance", nil)
	rec := httptest.NewRecorder()

	h.CompanyBalance(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.BalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.PartyID == "" {
		t.Fatal("expected company party to be created")
	}
	if !resp.Balance.IsZero() {
		t.Fatalf("expected zero balance for fresh company, got %s", resp.Balance)
	}
}

func TestBalanceHandler_VerifyAll(t *testing.T) {
	f := newHandlerFixture(t, clientParty("c1"), supplierParty("s1"))
	h := NewBalanceHandler(f.partyUC, f.balanceUC, f.auditUC)

	f.post(t, "inv-1", "c1", 100)

	req := httptest.NewRequest(http.MethodPost, "/company-balance/verify", nil)
	rec := httptest.NewRecorder()

	h.VerifyAll(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var results []*dto.VerifyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.OK {
			t.Fatalf("expected clean verify for %s, drift %s", r.PartyID, r.Drift)
		}
	}
}
