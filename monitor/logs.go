package monitor

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

const maxLogBytes = 1 << 20

// LogsHandler serves the tail of the service log file as plain text.
// Mount it behind admin-only middleware.
func LogsHandler(logPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logData, err := os.ReadFile(logPath)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to read log"})
			return
		}
		if len(logData) > maxLogBytes {
			logData = logData[len(logData)-maxLogBytes:]
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", logData)
	}
}
