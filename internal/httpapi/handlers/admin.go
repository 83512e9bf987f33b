package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/marketsafe/bot/internal/auth"
	"github.com/marketsafe/bot/internal/common"
	"github.com/marketsafe/bot/internal/entitlement"
)

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks the operator password against the configured bcrypt hash and
// issues a short-lived token. There is a single operator account.
func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	if req.Username == "" || req.Password == "" {
		common.Fail(c, http.StatusBadRequest, 10002, "username and password required")
		return
	}
	if h.Cfg.AdminPasswordHash == "" || !auth.CheckPassword(h.Cfg.AdminPasswordHash, req.Password) {
		common.Fail(c, http.StatusUnauthorized, 10003, "invalid credentials")
		return
	}
	token, err := auth.SignJWT(req.Username, h.Cfg.JWTSecret, 24*time.Hour)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "failed to sign token")
		return
	}
	common.OK(c, gin.H{"token": token})
}

// GetEntitlement reports a user's premium status and expiry.
func (h *Handler) GetEntitlement(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		common.Fail(c, http.StatusBadRequest, 10010, "invalid user id")
		return
	}

	active := h.Ledger.IsActive(c.Request.Context(), userID)
	resp := gin.H{"user_id": userID, "active": active}
	if exp, ok := h.Ledger.ExpiresAt(c.Request.Context(), userID); ok {
		resp["expires_at"] = exp.UTC().Format(time.RFC3339)
	}
	common.OK(c, resp)
}

type grantReq struct {
	UserID int64 `json:"user_id"`
	Days   int   `json:"days"`
}

// GrantEntitlement manually grants premium, e.g. as compensation after a
// payment issue. Days defaults to the standard grant length.
func (h *Handler) GrantEntitlement(c *gin.Context) {
	var req grantReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	if req.UserID <= 0 {
		common.Fail(c, http.StatusBadRequest, 10010, "invalid user id")
		return
	}
	duration := entitlement.PremiumDuration
	if req.Days > 0 {
		duration = time.Duration(req.Days) * 24 * time.Hour
	}
	if err := h.Ledger.Grant(c.Request.Context(), req.UserID, duration); err != nil {
		common.Fail(c, http.StatusInternalServerError, 20010, "failed to grant")
		return
	}
	exp, _ := h.Ledger.ExpiresAt(c.Request.Context(), req.UserID)
	common.OK(c, gin.H{"user_id": req.UserID, "expires_at": exp.UTC().Format(time.RFC3339)})
}
