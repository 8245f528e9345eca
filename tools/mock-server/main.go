// Package main implements a mock eBay Sell API server for local development.
// It simulates the OAuth token endpoint and the Inventory API endpoints the
// lister uses, keeping created items and offers in memory so the full
// publish sequence can be exercised without real eBay credentials.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"
)

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	state := newSellState()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /identity/v1/oauth2/token", tokenHandler(logger))
	mux.HandleFunc("PUT /sell/inventory/v1/inventory_item/{sku}", state.upsertItemHandler(logger))
	mux.HandleFunc("POST /sell/inventory/v1/offer", state.createOfferHandler(logger))
	mux.HandleFunc("POST /sell/inventory/v1/offer/{id}/publish", state.publishHandler(logger))
	mux.HandleFunc("POST /sell/inventory/v1/location/{key}", state.createLocationHandler(logger))
	mux.HandleFunc("GET /sell/account/v1/business_policy", policiesHandler(logger))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock eBay Sell API server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// sellState holds the in-memory marketplace: items by SKU, offers by ID,
// locations by key.
type sellState struct {
	mu        sync.Mutex
	items     map[string]json.RawMessage
	offers    map[string]map[string]any
	locations map[string]bool
	nextOffer int
	nextList  int
}

func newSellState() *sellState {
	return &sellState{
		items:     make(map[string]json.RawMessage),
		offers:    make(map[string]map[string]any),
		locations: make(map[string]bool),
		nextOffer: 1000,
		nextList:  5000,
	}
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(body)
}

func apiError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"errors": []map[string]string{{"message": msg, "longMessage": msg}},
	})
}

func tokenHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Validate Basic Auth header is present (don't verify creds).
		if _, _, ok := r.BasicAuth(); !ok {
			logger.Warn("token request missing Basic Auth header")
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error":             "invalid_client",
				"error_description": "client authentication failed",
			})
			return
		}

		grant := r.PostFormValue("grant_type")
		switch grant {
		case "authorization_code":
			if r.PostFormValue("code") == "" {
				writeJSON(w, http.StatusBadRequest, map[string]string{
					"error":             "invalid_request",
					"error_description": "missing authorization code",
				})
				return
			}
		case "refresh_token":
			if r.PostFormValue("refresh_token") == "" {
				writeJSON(w, http.StatusBadRequest, map[string]string{
					"error":             "invalid_grant",
					"error_description": "missing refresh token",
				})
				return
			}
		default:
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error":             "unsupported_grant_type",
				"error_description": grant,
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"access_token":             "mock-access-" + strconv.FormatInt(time.Now().Unix(), 16),
			"refresh_token":            "mock-refresh-" + strconv.FormatInt(int64(os.Getpid()), 16),
			"expires_in":               7200,
			"refresh_token_expires_in": 47304000,
			"token_type":               "User Access Token",
		})
		logger.Info("issued mock token", "grant_type", grant)
	}
}

func (s *sellState) upsertItemHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sku := r.PathValue("sku")
		var body json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			apiError(w, http.StatusBadRequest, "invalid inventory item body")
			return
		}

		s.mu.Lock()
		_, existed := s.items[sku]
		s.items[sku] = body
		s.mu.Unlock()

		// 204 on replace, 201 on create, matching the real API.
		if existed {
			w.WriteHeader(http.StatusNoContent)
		} else {
			w.WriteHeader(http.StatusCreated)
		}
		logger.Info("inventory item upserted", "sku", sku, "existed", existed)
	}
}

func (s *sellState) createOfferHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var offer map[string]any
		if err := json.NewDecoder(r.Body).Decode(&offer); err != nil {
			apiError(w, http.StatusBadRequest, "invalid offer body")
			return
		}

		sku, _ := offer["sku"].(string)
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.items[sku]; !ok {
			apiError(w, http.StatusBadRequest, "no inventory item for sku "+sku)
			return
		}

		s.nextOffer++
		offerID := strconv.Itoa(s.nextOffer)
		s.offers[offerID] = offer

		resp := map[string]any{"offerId": offerID}
		if start, ok := offer["listingStartDate"]; ok {
			resp["listingStartDate"] = start
		}
		writeJSON(w, http.StatusCreated, resp)
		logger.Info("offer created", "sku", sku, "offer_id", offerID)
	}
}

func (s *sellState) publishHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offerID := r.PathValue("id")

		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.offers[offerID]; !ok {
			apiError(w, http.StatusNotFound, "offer "+offerID+" not found")
			return
		}

		s.nextList++
		listingID := strconv.Itoa(s.nextList)
		writeJSON(w, http.StatusOK, map[string]any{"listingId": listingID})
		logger.Info("offer published", "offer_id", offerID, "listing_id", listingID)
	}
}

func (s *sellState) createLocationHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.PathValue("key")

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.locations[key] {
			apiError(w, http.StatusConflict, "A location with this key already exists.")
			return
		}
		s.locations[key] = true

		w.WriteHeader(http.StatusNoContent)
		logger.Info("location created", "key", key)
	}
}

func policiesHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"paymentPolicies": []map[string]string{
				{"paymentPolicyId": "mock-pay-1", "name": "Default Payment"},
			},
			"fulfillmentPolicies": []map[string]string{
				{"fulfillmentPolicyId": "mock-ship-1", "name": "Default Shipping"},
			},
			"returnPolicies": []map[string]string{
				{"returnPolicyId": "mock-ret-1", "name": "30 Day Returns"},
			},
		})
		logger.Info("served business policies")
	}
}
