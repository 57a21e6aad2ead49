package helper

import (
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/adapter/http/validation"
)

// BindParams decodes the request body (JSON or form, by Content-Type) and
// runs the struct's validate tags.
func BindParams[T any](c *gin.Context) (T, error) {
	var params T

	if err := c.ShouldBind(&params); err != nil {
		return params, err
	}

	if err := validation.Validator.Struct(params); err != nil {
		return params, err
	}

	return params, nil
}

// BindQuery is BindParams for query strings.
func BindQuery[T any](c *gin.Context) (T, error) {
	var params T

	if err := c.ShouldBindQuery(&params); err != nil {
		return params, err
	}

	if err := validation.Validator.Struct(params); err != nil {
		return params, err
	}

	return params, nil
}

func GetClientIP(c *gin.Context) string {
	if ip := c.GetHeader("X-Forwarded-For"); ip != "" {
		ips := strings.Split(ip, ",")
		return strings.TrimSpace(ips[0])
	}

	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}

	ip := c.ClientIP()

	if ip == "" {
		return "unknown"
	}

	return ip
}
