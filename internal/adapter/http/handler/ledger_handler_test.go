package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ayansteel/ledger/internal/adapter/http/dto"
)

func newLedgerHandler(f *handlerFixture) *LedgerHandler {
	return NewLedgerHandler(f.postingUC, f.balanceUC, f.auditUC)
}

func TestLedgerHandler_Post_Success(t *testing.T) {
	f := newHandlerFixture(t, clientParty("c1"))
	h := newLedgerHandler(f)

	body, _ := json.Marshal(dto.PostLedgerRequest{
		Kind:           "sale",
		IdempotencyKey: "inv-1001",
		Legs:           []dto.LegItem{{PartyID: "c1", Amount: decimal.NewFromInt(250)}},
	})

	req := httptest.NewRequest(http.MethodPost, "/ledger", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Post(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.PostingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Kind != "sale" || len(resp.Entries) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !resp.Balances["c1"].Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected balance 250, got %s", resp.Balances["c1"])
	}
}

func TestLedgerHandler_Post_ReplayAnswers200(t *testing.T) {
	f := newHandlerFixture(t, clientParty("c1"))
	h := newLedgerHandler(f)

	body, _ := json.Marshal(dto.PostLedgerRequest{
		Kind:           "sale",
		IdempotencyKey: "inv-1001",
		Legs:           []dto.LegItem{{PartyID: "c1", Amount: decimal.NewFromInt(250)}},
	})

	for i, want := range []int{http.StatusCreated, http.StatusOK} {
		req := httptest.NewRequest(http.MethodPost, "/ledger", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		h.Post(rec, req)
		if rec.Code != want {
			t.Fatalf("attempt %d: expected %d, got %d", i+1, want, rec.Code)
		}
	}
}

func TestLedgerHandler_Post_InvalidBody(t *testing.T) {
	f := newHandlerFixture(t)
	h := newLedgerHandler(f)

	req := httptest.NewRequest(http.MethodPost, "/ledger", bytes.NewBufferString("{bad json"))
	rec := httptest.NewRecorder()

	h.Post(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLedgerHandler_Post_ValidationErrors(t *testing.T) {
	f := newHandlerFixture(t, clientParty("c1"))
	h := newLedgerHandler(f)

	tests := []struct {
		name string
		req  dto.PostLedgerRequest
		want int
	}{
		{
			name: "missing idempotency key",
			req: dto.PostLedgerRequest{
				Kind: "sale",
				Legs: []dto.LegItem{{PartyID: "c1", Amount: decimal.NewFromInt(10)}},
			},
			want: http.StatusBadRequest,
		},
		{
			name: "zero amount",
			req: dto.PostLedgerRequest{
				Kind:           "sale",
				IdempotencyKey: "k-zero",
				Legs:           []dto.LegItem{{PartyID: "c1", Amount: decimal.Zero}},
			},
			want: http.StatusBadRequest,
		},
		{
			name: "unknown party",
			req: dto.PostLedgerRequest{
				Kind:           "sale",
				IdempotencyKey: "k-ghost",
				Legs:           []dto.LegItem{{PartyID: "ghost", Amount: decimal.NewFromInt(10)}},
			},
			want: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.req)
			req := httptest.NewRequest(http.MethodPost, "/ledger", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			h.Post(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestLedgerHandler_GetPosting(t *testing.T) {
	f := newHandlerFixture(t, clientParty("c1"))
	h := newLedgerHandler(f)

	posted := f.post(t, "inv-1", "c1", 100)

	req := httptest.NewRequest(http.MethodGet, "/ledger/postings/"+posted.Posting.ID, nil)
	req = setChiURLParam(req, "id", posted.Posting.ID)
	rec := httptest.NewRecorder()

	h.GetPosting(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.PostingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != posted.Posting.ID || len(resp.Entries) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestLedgerHandler_GetPosting_NotFound(t *testing.T) {
	f := newHandlerFixture(t)
	h := newLedgerHandler(f)

	req := httptest.NewRequest(http.MethodGet, "/ledger/postings/nope", nil)
	req = setChiURLParam(req, "id", "nope")
	rec := httptest.NewRecorder()

	h.GetPosting(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestLedgerHandler_History(t *testing.T) {
	f := newHandlerFixture(t, clientParty("c1"))
	h := newLedgerHandler(f)

	f.post(t, "inv-1", "c1", 100)
	f.post(t, "inv-2", "c1", 200)

	req := httptest.NewRequest(http.MethodGet, "/ledger/c1?limit=10", nil)
	req = setChiURLParam(req, "id", "c1")
	rec := httptest.NewRecorder()

	h.History(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var entries []*dto.EntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if !entries[0].Amount.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected newest entry first, got %s", entries[0].Amount)
	}
}

func TestLedgerHandler_Reverse(t *testing.T) {
	f := newHandlerFixture(t, clientParty("c1"))
	h := newLedgerHandler(f)

	posted := f.post(t, "inv-1", "c1", 100)

	body, _ := json.Marshal(dto.ReversePostingRequest{Reason: "entered twice"})
	req := httptest.NewRequest(http.MethodPost, "/ledger/"+posted.Posting.ID+"/reverse", bytes.NewReader(body))
	req = setChiURLParam(req, "id", posted.Posting.ID)
	rec := httptest.NewRecorder()

	h.Reverse(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.PostingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Kind != "reversal" {
		t.Fatalf("expected reversal posting, got %s", resp.Kind)
	}
	if !resp.Balances["c1"].IsZero() {
		t.Fatalf("expected balance back to zero, got %s", resp.Balances["c1"])
	}
}

func TestLedgerHandler_Reverse_NotFound(t *testing.T) {
	f := newHandlerFixture(t)
	h := newLedgerHandler(f)

	req := httptest.NewRequest(http.MethodPost, "/ledger/nope/reverse", nil)
	req = setChiURLParam(req, "id", "nope")
	rec := httptest.NewRecorder()

	h.Reverse(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestLedgerHandler_Verify(t *testing.T) {
	f := newHandlerFixture(t, clientParty("c1"))
	h := newLedgerHandler(f)

	f.post(t, "inv-1", "c1", 100)

	req := httptest.NewRequest(http.MethodGet, "/ledger/c1/verify", nil)
	req = setChiURLParam(req, "id", "c1")
	rec := httptest.NewRecorder()

	h.Verify(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.VerifyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.OK || !resp.Drift.IsZero() {
		t.Fatalf("expected clean verify, got %+v", resp)
	}
}
