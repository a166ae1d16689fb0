package i

import "github.com/gin-gonic/gin"

// Controller registers a group of related routes on the observer API.
type Controller interface {
	RegisterRoutes(route *gin.RouterGroup)
}
