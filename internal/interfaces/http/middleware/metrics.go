package middleware

import "github.com/gin-gonic/gin"

// unmatchedRoute labels requests that hit no registered route so that
// arbitrary paths can not blow up series cardinality
const unmatchedRoute = "unmatched"

// RequestRecorder is satisfied by telemetry.Metrics
type RequestRecorder interface {
	RequestStarted() func(method, route string, status int)
}

// Metrics records latency, count and in-flight gauge per route template
func Metrics(recorder RequestRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		done := recorder.RequestStarted()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		done(c.Request.Method, route, c.Writer.Status())
	}
}
