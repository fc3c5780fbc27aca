package handler

import (
	"net/http"
	"testing"
)

func TestCreateAccountForbiddenForAgency(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()
	fx := seedHandlerFixture(t, api)

	w := performAs(t, fx.author, nil, http.MethodPost, "/seo-accounts", map[string]any{
		"accountName":      "Rogue Account",
		"domain":           "rogue.example.com",
		"assignedAgencyId": fx.agency.ID,
	}, api.CreateAccount)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
}

func TestGetAccountsScopedToCaller(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()
	fx := seedHandlerFixture(t, api)

	w := performAs(t, fx.client, nil, http.MethodGet, "/seo-accounts", nil, api.GetAccounts)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	resp := decodeBody(t, w)
	accounts, ok := resp["accounts"].([]any)
	if !ok || len(accounts) != 1 {
		t.Fatalf("expected client to see exactly one account, got %v", resp["accounts"])
	}
}

func TestGetUsersRequiresElevatedRole(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()
	fx := seedHandlerFixture(t, api)

	w := performAs(t, fx.author, nil, http.MethodGet, "/users", nil, api.GetUsers)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}

	w = performAs(t, fx.admin, nil, http.MethodGet, "/users", nil, api.GetUsers)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	resp := decodeBody(t, w)
	users, ok := resp["users"].([]any)
	if !ok || len(users) != 3 {
		t.Fatalf("expected three seeded users, got %v", resp["users"])
	}
}

func TestCreateBacklinkForAccount(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()
	fx := seedHandlerFixture(t, api)

	w := performAs(t, fx.author, idParam(fx.account.ID), http.MethodPost, "/seo-accounts/1/backlinks", map[string]any{
		"sourceUrl":    "https://linker.example.org/roundup",
		"targetUrl":    "https://acme.example.com/",
		"anchorText":   "acme",
		"domainRating": 38,
	}, api.CreateBacklink)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := decodeBody(t, w)
	backlink, ok := resp["backlink"].(map[string]any)
	if !ok {
		t.Fatalf("expected backlink in response")
	}
	if backlink["Status"] != "pending" {
		t.Fatalf("expected default pending status, got %v", backlink["Status"])
	}
}
