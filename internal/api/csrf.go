package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/axellelanca/adtracker/internal/logger"
)

// Double-submit token: the cookie and the form field (or header) must carry the same value.
const (
	CSRFCookieName = "csrf_token"
	CSRFFieldName  = "csrf_token"
	CSRFHeaderName = "X-CSRF-Token"
	csrfKey        = "csrf_token"
)

const (
	MsgCSRFMissing  = "The CSRF token is missing."
	MsgCSRFMismatch = "The CSRF tokens do not match."
)

// CSRF issues a token cookie on safe requests and refuses unsafe ones whose submitted
// token does not match the cookie.
func CSRF(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(CSRFCookieName)

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			if cookie == "" {
				cookie = uuid.NewString()
				c.SetSameSite(http.SameSiteLaxMode)
				c.SetCookie(CSRFCookieName, cookie, 0, "/", "", secure, true)
			}
			c.Set(csrfKey, cookie)
			c.Header(CSRFHeaderName, cookie)
			c.Next()
			return
		}

		submitted := c.GetHeader(CSRFHeaderName)
		if submitted == "" {
			submitted = c.PostForm(CSRFFieldName)
		}
		if cookie == "" || submitted == "" {
			logger.Log.Warn("csrf token missing", zap.String("path", c.Request.URL.Path))
			abort(c, http.StatusForbidden, MsgCSRFMissing)
			return
		}
		if subtle.ConstantTimeCompare([]byte(cookie), []byte(submitted)) != 1 {
			logger.Log.Warn("csrf token mismatch", zap.String("path", c.Request.URL.Path))
			abort(c, http.StatusForbidden, MsgCSRFMismatch)
			return
		}
		c.Set(csrfKey, cookie)
		c.Next()
	}
}

// csrfData is the payload of form pages: the token to submit back.
func csrfData(c *gin.Context) gin.H {
	return gin.H{CSRFFieldName: c.GetString(csrfKey)}
}
