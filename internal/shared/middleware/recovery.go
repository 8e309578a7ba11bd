package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/humanmade/authorship/internal/shared/response"
	"github.com/humanmade/authorship/pkg/logger"
)

// Recovery turns panics into the standard error envelope so a broken
// handler cannot tear down the connection or leak a stack to the client.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(
					fmt.Sprintf("panic recovered (request_id=%s %s %s)",
						c.GetString("request_id"), c.Request.Method, c.Request.URL.Path),
					fmt.Errorf("%v", r),
				)

				response.InternalServerError(c, "internal server error")
				c.Abort()
			}
		}()

		c.Next()
	}
}
