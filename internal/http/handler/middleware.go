package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"devhubtrader.app/forge/common/id"
	"devhubtrader.app/forge/common/logger"
	"github.com/gin-gonic/gin"
)

const (
	AccountHeader = "X-Account-ID"
	accountKey    = "account_id"
)

// RequireAccount resolves the caller's account from the X-Account-ID header.
// Authentication happens upstream; this only trusts the forwarded id.
func RequireAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(AccountHeader))
		if raw == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing account"})
			c.Abort()
			return
		}

		accountID, err := id.Parse(raw)
		if err != nil || accountID <= 0 {
			slog.WarnContext(c.Request.Context(), "invalid account header", "value", raw)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid account"})
			c.Abort()
			return
		}

		c.Set(accountKey, accountID)
		ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{AccountID: &accountID})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func accountID(c *gin.Context) int64 {
	return c.GetInt64(accountKey)
}

// pathID parses an id path parameter, answering 400 when it is malformed.
func pathID(c *gin.Context, name string) (int64, bool) {
	v, err := id.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return v, true
}
