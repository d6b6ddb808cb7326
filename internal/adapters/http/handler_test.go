package httpadapter_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/PabloGalante/shopchat/internal/adapters/http"
	"github.com/PabloGalante/shopchat/internal/adapters/catalog"
	"github.com/PabloGalante/shopchat/internal/adapters/llm"
	"github.com/PabloGalante/shopchat/internal/adapters/storage/memory"
	"github.com/PabloGalante/shopchat/internal/app/conversation"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	mock := llm.NewMockLLM()
	convSvc := conversation.NewService(
		memory.NewSessionStore(),
		catalog.Demo(),
		mock,
		mock,
		conversation.Options{StoreDomain: "demo-store.myshopify.com"},
	)

	return httpadapter.NewServer(convSvc)
}

func do(t *testing.T, srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body=%s", w.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDIsPropagated(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestChatConversation(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/chat", `{"chatInput":"Show me dresses","sessionId":"web-1"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	out := decode(t, w)
	assert.Equal(t, "web-1", out["sessionId"])
	assert.Contains(t, out["output"], "Floral Summer Dress")

	w = do(t, srv, http.MethodPost, "/chat", `{"chatInput":"add the first one","sessionId":"web-1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	result := decode(t, w)["result"].(map[string]any)
	assert.Equal(t, "item_added", result["kind"])

	w = do(t, srv, http.MethodPost, "/chat", `{"chatInput":"checkout","sessionId":"web-1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	result = decode(t, w)["result"].(map[string]any)
	assert.Equal(t, "https://demo-store.myshopify.com/cart/44444444444444:1", result["checkout_url"])
}

func TestChatAssignsSessionID(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/chat", `{"chatInput":"jackets"}`)
	require.Equal(t, http.StatusOK, w.Code)

	id, _ := decode(t, w)["sessionId"].(string)
	require.NotEmpty(t, id)

	w = do(t, srv, http.MethodGet, "/sessions/"+id, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChatRejectsBadInput(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/chat", `{"chatInput":"  "}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/chat", `not json`).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, srv, http.MethodGet, "/chat", "").Code)
}

func TestIntentsAndSessionInspection(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/sessions/s1/intents", `{"intent":"search","searchQuery":"shirt party"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode(t, w)["result"].(map[string]any)
	assert.Equal(t, "products", result["kind"])

	w = do(t, srv, http.MethodPost, "/sessions/s1/intents",
		`{"intent":"add_to_cart","productReference":"white party shirt","quantity":2,"message":"add 2 of the white shirt"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Added 2 x White Party Shirt to the cart.", decode(t, w)["summary"])

	w = do(t, srv, http.MethodGet, "/sessions/s1", "")
	require.Equal(t, http.StatusOK, w.Code)
	sess := decode(t, w)
	assert.Equal(t, "s1", sess["id"])
	assert.Len(t, sess["history"], 2)
	assert.NotEmpty(t, sess["known_products"])
	cart := sess["cart"].(map[string]any)
	assert.Equal(t, "79.98", cart["total"])

	w = do(t, srv, http.MethodGet, "/sessions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"s1"}, decode(t, w)["sessions"])
}

func TestIntentRejectsBadInput(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/sessions/s1/intents", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest,
		do(t, srv, http.MethodPost, "/sessions/s1/intents", `{"intent":"add_to_cart","quantity":-1}`).Code)
}

func TestGetUnknownSession(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/sessions/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Inspection never creates a session.
	w = do(t, srv, http.MethodGet, "/sessions", "")
	assert.Empty(t, decode(t, w)["sessions"])
}

func TestUnknownRoutes(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/sessions/s1/other", "").Code)
	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodOptions, "/chat", "").Code)
}
