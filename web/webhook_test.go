package web_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/textforge/humanizer/lemonsqueezy"
	"github.com/textforge/humanizer/tlmt/gonoop"
	"github.com/textforge/humanizer/web"
)

type fakeSubscriptions struct {
	events []*lemonsqueezy.WebhookEvent
}

func (f *fakeSubscriptions) ProcessWebhookEvent(_ context.Context, event *lemonsqueezy.WebhookEvent) {
	f.events = append(f.events, event)
}

func newWebhookRouter(subs *fakeSubscriptions, secret string) *mux.Router {
	router := mux.NewRouter()
	web.NewWebhookHandler(subs, secret, gonoop.New(), nopLogger{}).RegisterRoutes(router)

	return router
}

func signBody(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)

	return hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(router *mux.Router, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/lemonsqueezy", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set(lemonsqueezy.SignatureHeader, signature)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestWebhookValidSignature(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{
		"meta": {"event_name": "subscription_created", "custom_data": {"user_id": "u1"}},
		"data": {"id": "sub_1", "attributes": {"status": "active"}}
	}`)

	subs := &fakeSubscriptions{}
	router := newWebhookRouter(subs, secret)

	rec := postWebhook(router, body, signBody(body, secret))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", rec.Body.String())

	require.Len(t, subs.events, 1)
	require.Equal(t, "subscription_created", subs.events[0].EventName)
	require.Equal(t, "u1", subs.events[0].UserID)
	require.Equal(t, "sub_1", subs.events[0].SubscriptionID)
	require.Equal(t, "active", subs.events[0].Status)
}

func TestWebhookInvalidSignature(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"meta":{"event_name":"subscription_created","custom_data":{"user_id":"u1"}}}`)

	subs := &fakeSubscriptions{}
	router := newWebhookRouter(subs, secret)

	tampered := append([]byte(nil), body...)
	tampered[len(tampered)-2] ^= 0x01

	rec := postWebhook(router, tampered, signBody(body, secret))

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Empty(t, subs.events)
}

func TestWebhookMissingSignatureHeader(t *testing.T) {
	body := []byte(`{"meta":{"event_name":"subscription_created","custom_data":{"user_id":"u1"}}}`)

	subs := &fakeSubscriptions{}
	router := newWebhookRouter(subs, "whsec_test")

	rec := postWebhook(router, body, "")

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Empty(t, subs.events)
}

func TestWebhookNoSecretAcceptsUnsigned(t *testing.T) {
	body := []byte(`{
		"meta": {"event_name": "subscription_cancelled", "custom_data": {"user_id": "u1"}},
		"data": {"id": "sub_1", "attributes": {"status": "cancelled"}}
	}`)

	subs := &fakeSubscriptions{}
	router := newWebhookRouter(subs, "")

	rec := postWebhook(router, body, "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, subs.events, 1)
}

func TestWebhookMissingUserID(t *testing.T) {
	body := []byte(`{
		"meta": {"event_name": "subscription_expired", "custom_data": {}},
		"data": {"id": "sub_1", "attributes": {"status": "expired"}}
	}`)

	subs := &fakeSubscriptions{}
	router := newWebhookRouter(subs, "")

	rec := postWebhook(router, body, "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, subs.events)
}

func TestWebhookUnparsablePayload(t *testing.T) {
	subs := &fakeSubscriptions{}
	router := newWebhookRouter(subs, "")

	rec := postWebhook(router, []byte("not json"), "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Empty(t, subs.events)
}
