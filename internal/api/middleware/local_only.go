package middleware

import (
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// LocalOnly restricts the operational reconciliation endpoints to
// loopback callers. These endpoints carry no operator token and must
// never be reachable from outside the host. Both the peer address and
// any browser-supplied Origin must resolve to localhost.
func LocalOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := net.ParseIP(c.ClientIP())
		if ip == nil || !ip.IsLoopback() {
			rejectNonLocal(c)
			return
		}
		if origin := c.GetHeader("Origin"); origin != "" && !localOrigin(origin) {
			rejectNonLocal(c)
			return
		}
		c.Next()
	}
}

func rejectNonLocal(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error":   "this endpoint only accepts local requests",
	})
}

func localOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
