// utils/safelog.go
// ============================================================================
// SAFE LOGGING - masks credentials in production logs
// ============================================================================
// Levelled wrappers around the standard logger. Upstream URLs may carry API
// keys and admin calls carry bearer tokens; both are masked when running in
// production.
// ============================================================================

package utils

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"time"
)

// ============================================================================
// CONFIGURATION
// ============================================================================

var (
	// IsProduction enables masking of sensitive values.
	IsProduction = os.Getenv("GIN_MODE") == "release" ||
		os.Getenv("ENVIRONMENT") == "production" ||
		os.Getenv("ENV") == "production"

	// LogLevel filters messages (DEBUG, INFO, WARN, ERROR).
	LogLevel = getLogLevel()
)

const (
	LogLevelDebug = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func getLogLevel() int {
	return parseLogLevel(os.Getenv("LOG_LEVEL"))
}

func parseLogLevel(level string) int {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return LogLevelDebug
	case "WARN", "WARNING":
		return LogLevelWarn
	case "ERROR":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// SetLogLevel overrides the level read from LOG_LEVEL.
func SetLogLevel(level string) {
	LogLevel = parseLogLevel(level)
}

// ============================================================================
// MASKING PATTERNS
// ============================================================================

var (
	emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// key=..., token=..., api_key=... in query strings
	secretParamRegex = regexp.MustCompile(`(?i)\b(api_?key|key|token|access_token|secret)=([^&\s]+)`)

	bearerRegex = regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9\-_.]+`)

	jwtRegex = regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`)
)

// ============================================================================
// MASKING
// ============================================================================

// MaskString masks credentials and emails in production.
func MaskString(input string) string {
	if !IsProduction {
		return input
	}
	return maskAlways(input)
}

func maskAlways(input string) string {
	result := emailRegex.ReplaceAllString(input, "***@***.***")
	result = secretParamRegex.ReplaceAllString(result, "$1=***")
	result = bearerRegex.ReplaceAllString(result, "Bearer ***")
	result = jwtRegex.ReplaceAllString(result, "***.jwt.***")
	return result
}

// MaskID keeps the first 8 characters of an id in production.
func MaskID(id string) string {
	if !IsProduction {
		return id
	}
	if len(id) <= 8 {
		return "***"
	}
	return id[:8] + "..."
}

// ============================================================================
// LEVELLED LOGGING
// ============================================================================

func SafeLog(format string, args ...interface{}) {
	log.Print(MaskString(fmt.Sprintf(format, args...)))
}

func SafeDebug(format string, args ...interface{}) {
	if LogLevel > LogLevelDebug {
		return
	}
	log.Printf("[DEBUG] %s", MaskString(fmt.Sprintf(format, args...)))
}

func SafeInfo(format string, args ...interface{}) {
	if LogLevel > LogLevelInfo {
		return
	}
	log.Printf("[INFO] %s", MaskString(fmt.Sprintf(format, args...)))
}

func SafeWarn(format string, args ...interface{}) {
	if LogLevel > LogLevelWarn {
		return
	}
	log.Printf("[WARN] %s", MaskString(fmt.Sprintf(format, args...)))
}

func SafeError(format string, args ...interface{}) {
	log.Printf("[ERROR] %s", MaskString(fmt.Sprintf(format, args...)))
}

// ============================================================================
// DOMAIN LOGGERS
// ============================================================================

// LogCatalogFetch logs one upstream catalog load.
func LogCatalogFetch(category string, source string, count int, duration time.Duration) {
	SafeInfo("[Catalog] %s loaded from %s - Products: %d Duration: %v", category, source, count, duration)
}

// LogFeatureClick logs a feature chip click beacon.
func LogFeatureClick(deviceType string, featureID string) {
	SafeDebug("[Features] click - Device: %s Feature: %s", deviceType, featureID)
}

// LogAPIRequest logs a served request.
func LogAPIRequest(method string, path string, clientIP string, statusCode int, duration time.Duration) {
	if IsProduction {
		clientIP = MaskID(clientIP)
	}
	log.Printf("[API] %s %s - Client: %s Status: %d Duration: %v",
		method,
		MaskString(path),
		clientIP,
		statusCode,
		duration)
}

// LogWebSocket logs a websocket lifecycle event.
func LogWebSocket(action string, category string) {
	log.Printf("[WS] %s - Category: %s", action, category)
}

// GetEnvMode returns "production" or "development".
func GetEnvMode() string {
	if IsProduction {
		return "production"
	}
	return "development"
}

// LogStartup prints the startup banner.
func LogStartup(appName string, version string, port string) {
	log.Printf("🚀 %s v%s starting...", appName, version)
	log.Printf("   Mode: %s", GetEnvMode())
	log.Printf("   Port: %s", port)
	log.Printf("   Log Level: %d", LogLevel)
	if IsProduction {
		log.Printf("   ⚠️  Production mode: credentials will be masked in logs")
	}
}
