package utils

import "github.com/gin-gonic/gin"

// JSONSuccess writes the standard success envelope.
func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

// JSONMessage writes a plain {"message": ...} body for delete/ack responses.
func JSONMessage(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"message": message})
}

// JSONError writes the structured error envelope shared by every handler.
func JSONError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
