package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yousiff139-lang/aqua-dent-link-main/internal/session"
)

func testHandler(t *testing.T) (*Handler, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	m := testMachine(&fakeDirectory{}, &fakeResolver{}, newFakeGateway())
	return NewHandler(m, store, 30*time.Minute, nil, nil), store
}

func postChat(t *testing.T, h *Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)
	return rec
}

func TestChatStartsSessionWhenIDOmitted(t *testing.T) {
	h, store := testHandler(t)

	rec := postChat(t, h, ChatRequest{Text: "I want to book an appointment"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp ChatResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.SessionID == "" {
		t.Error("response carries no session_id")
	}
	if resp.State != string(StepCollectName) {
		t.Errorf("state = %q, want %s", resp.State, StepCollectName)
	}

	// The new session was persisted and the next turn resumes it.
	if store.Len() != 1 {
		t.Fatalf("store holds %d sessions, want 1", store.Len())
	}
	rec = postChat(t, h, ChatRequest{SessionID: resp.SessionID, Text: "Jane Doe"})
	if rec.Code != http.StatusOK {
		t.Fatalf("second turn status = %d: %s", rec.Code, rec.Body.String())
	}
	var second ChatResponse
	if err := json.NewDecoder(rec.Body).Decode(&second); err != nil {
		t.Fatal(err)
	}
	if second.State != string(StepCollectEmail) {
		t.Errorf("state = %q, want %s", second.State, StepCollectEmail)
	}
	if store.Len() != 1 {
		t.Errorf("store holds %d sessions after resume, want 1", store.Len())
	}
}

func TestChatUnknownSessionReturns404(t *testing.T) {
	h, _ := testHandler(t)

	rec := postChat(t, h, ChatRequest{SessionID: "nope", Text: "hello"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Code != string(KindSessionNotFound) {
		t.Errorf("code = %q, want %s", resp.Code, KindSessionNotFound)
	}
}

func TestChatEmptyTextReturns400(t *testing.T) {
	h, _ := testHandler(t)

	rec := postChat(t, h, ChatRequest{Text: ""})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Code != string(KindValidation) {
		t.Errorf("code = %q, want %s", resp.Code, KindValidation)
	}
}

func TestChatMalformedBodyReturns400(t *testing.T) {
	h, _ := testHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestChatUpstreamFailureLeavesSessionStepUnchanged(t *testing.T) {
	store := session.NewMemoryStore()
	dir := &fakeDirectory{err: errTimeout{}}
	m := testMachine(dir, &fakeResolver{}, newFakeGateway())
	h := NewHandler(m, store, 30*time.Minute, nil, nil)

	// Walk to COLLECT_SYMPTOMS.
	var id string
	for _, text := range []string{"book", "Jane Doe", "jane@example.com", "5551234567"} {
		rec := postChat(t, h, ChatRequest{SessionID: id, Text: text})
		if rec.Code != http.StatusOK {
			t.Fatalf("setup turn %q: status %d: %s", text, rec.Code, rec.Body.String())
		}
		var resp ChatResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		id = resp.SessionID
	}

	rec := postChat(t, h, ChatRequest{SessionID: id, Text: "tooth pain"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503: %s", rec.Code, rec.Body.String())
	}

	stored, err := store.FindByID(context.Background(), id)
	if err != nil || stored == nil {
		t.Fatalf("reloading session: %v", err)
	}
	if stored.Step != string(StepCollectSymptoms) {
		t.Errorf("stored step = %s, want COLLECT_SYMPTOMS", stored.Step)
	}
}

type errTimeout struct{}

func (errTimeout) Error() string { return "upstream timeout" }
