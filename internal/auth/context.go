package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxEmail       = "email"
)

// SetUser records the caller identity for downstream handlers. An empty
// email is not stored.
func SetUser(c *gin.Context, uid, email string) {
	c.Set(CtxFirebaseUID, strings.TrimSpace(uid))
	if email = strings.TrimSpace(email); email != "" {
		c.Set(CtxEmail, email)
	}
}

func UserFirebaseUID(c *gin.Context) string {
	return c.GetString(CtxFirebaseUID)
}

func UserEmail(c *gin.Context) string {
	return c.GetString(CtxEmail)
}
