package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"go.uber.org/zap"

	"github.com/fatflowers/paygate/pkg/logctx"
	"github.com/fatflowers/paygate/pkg/response"
)

// CallbackClaims are the claims the PIX arranger signs. PaymentID, when set,
// must match the payment in the URL.
type CallbackClaims struct {
	PaymentID string `json:"paymentId,omitempty"`
	jwt.StandardClaims
}

// CallbackAuthMiddleware checks an HS256 bearer token signed with secret.
// An empty secret disables the check.
func CallbackAuthMiddleware(secret string, base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		if err := verifyCallbackToken(c.GetHeader("Authorization"), secret, c.Param("id")); err != nil {
			logctx.FromGin(c, base).Warnw("pix_callback_unauthorized", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.Fail(response.APIResponseCodeUnauthorized, response.ErrorCodeUnauthorized, "invalid or missing callback token", nil))
			return
		}
		c.Next()
	}
}

func verifyCallbackToken(header, secret, paymentID string) error {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return fmt.Errorf("missing bearer token")
	}
	claims := &CallbackClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}
	if claims.PaymentID != "" && claims.PaymentID != paymentID {
		return fmt.Errorf("token issued for payment %s", claims.PaymentID)
	}
	return nil
}
