package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"feeScope/internal/claim"
	"feeScope/internal/model"
)

type tokensResponse struct {
	Tokens         []model.RewardAsset      `json:"tokens"`
	TotalClaimable *model.ClaimableSnapshot `json:"totalClaimable"`
}

type invalidateRequest struct {
	WalletAddress string `json:"walletAddress"`
}

type buildClaimRequest struct {
	WalletAddress  string   `json:"walletAddress"`
	TokenAddresses []string `json:"tokenAddresses"`
}

type appendClaimRequest struct {
	WalletAddress  string   `json:"walletAddress"`
	TxHash         string   `json:"txHash"`
	TokenAddresses []string `json:"tokenAddresses"`
}

// handleTokens serves GET /api/tokens?wallet=<address>&refresh=<bool>.
// A missing or malformed wallet yields an empty snapshot, never an error
// status.
func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	wallet := r.URL.Query().Get("wallet")
	if !common.IsHexAddress(wallet) {
		writeJSON(w, http.StatusOK, tokensResponse{
			Tokens:         []model.RewardAsset{},
			TotalClaimable: model.EmptySnapshot(),
		})
		return
	}

	force, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))

	snapshot, err := s.svc.Snapshot(r.Context(), common.HexToAddress(wallet), force)
	if err != nil {
		s.logger.Error("snapshot failed", zap.String("wallet", wallet), zap.Error(err))
		http.Error(w, "snapshot failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, tokensResponse{
		Tokens:         snapshot.Rewards,
		TotalClaimable: snapshot,
	})
}

// handleInvalidate serves POST /api/cache/invalidate. Idempotent: evicting a
// missing or malformed wallet still succeeds.
func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req invalidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if common.IsHexAddress(req.WalletAddress) {
		s.svc.Invalidate(common.HexToAddress(req.WalletAddress))
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleBuildClaim serves POST /api/claim/build, returning the encoded
// batched-claim payload for the external wallet provider to sign.
func (s *Server) handleBuildClaim(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req buildClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !common.IsHexAddress(req.WalletAddress) {
		http.Error(w, "invalid wallet address", http.StatusBadRequest)
		return
	}

	tokens := make([]common.Address, 0, len(req.TokenAddresses))
	for _, addr := range req.TokenAddresses {
		if !common.IsHexAddress(addr) {
			http.Error(w, "invalid token address: "+addr, http.StatusBadRequest)
			return
		}
		tokens = append(tokens, common.HexToAddress(addr))
	}

	payload, err := claim.BuildClaimCall(s.distributor, common.HexToAddress(req.WalletAddress), tokens)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, payload)
}

// handleClaims serves the claim history: POST appends a confirmed claim, GET
// lists an owner's recent claims.
func (s *Server) handleClaims(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.appendClaim(w, r)
	case http.MethodGet:
		s.listClaims(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) appendClaim(w http.ResponseWriter, r *http.Request) {
	var req appendClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !common.IsHexAddress(req.WalletAddress) {
		http.Error(w, "invalid wallet address", http.StatusBadRequest)
		return
	}
	if req.TxHash == "" {
		http.Error(w, "txHash is required", http.StatusBadRequest)
		return
	}

	rec := model.ClaimRecord{
		Owner:     common.HexToAddress(req.WalletAddress).Hex(),
		TxHash:    req.TxHash,
		Tokens:    req.TokenAddresses,
		ClaimedAt: time.Now().UTC(),
	}
	if err := s.claims.AppendClaim(r.Context(), rec); err != nil {
		s.logger.Error("append claim failed", zap.String("wallet", req.WalletAddress), zap.Error(err))
		http.Error(w, "store claim failed", http.StatusInternalServerError)
		return
	}

	// A confirmed claim makes the cached snapshot stale.
	s.svc.Invalidate(common.HexToAddress(req.WalletAddress))

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) listClaims(w http.ResponseWriter, r *http.Request) {
	wallet := r.URL.Query().Get("wallet")
	if !common.IsHexAddress(wallet) {
		writeJSON(w, http.StatusOK, map[string][]model.ClaimRecord{"claims": {}})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := s.claims.ListClaims(r.Context(), common.HexToAddress(wallet).Hex(), limit)
	if err != nil {
		s.logger.Error("list claims failed", zap.String("wallet", wallet), zap.Error(err))
		http.Error(w, "list claims failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]model.ClaimRecord{"claims": records})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
