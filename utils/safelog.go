// utils/safelog.go
// Logging helpers that mask personal and financial data in production.
// Development keeps everything readable; release builds never write raw
// amounts, emails or full record ids to the logs.

package utils

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
)

var (
	// IsProduction gates masking. Any of the usual release markers count.
	IsProduction = os.Getenv("GIN_MODE") == "release" ||
		os.Getenv("ENVIRONMENT") == "production" ||
		os.Getenv("ENV") == "production"

	LogLevel = getLogLevel()
)

const (
	LogLevelDebug = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func getLogLevel() int {
	level := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	switch level {
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

var (
	emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// Decimal numbers that look like monetary amounts.
	amountRegex = regexp.MustCompile(`\b\d{2,}([.,]\d{1,2})?\b`)

	uuidRegex = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
)

// MaskString masks sensitive data inside a free-form message.
func MaskString(input string) string {
	if !IsProduction {
		return input
	}

	result := input
	result = emailRegex.ReplaceAllString(result, "***@***.***")
	result = uuidRegex.ReplaceAllStringFunc(result, func(id string) string {
		return id[:8] + "..."
	})
	result = amountRegex.ReplaceAllString(result, "***")

	return result
}

// MaskAmount masks a monetary amount.
func MaskAmount(amount float64) string {
	if IsProduction {
		return "***"
	}
	return fmt.Sprintf("%.2f", amount)
}

// MaskID keeps the first 8 characters of a record id.
func MaskID(id string) string {
	if !IsProduction {
		return id
	}
	if len(id) <= 8 {
		return "***"
	}
	return id[:8] + "..."
}

// MaskEmail masks an email address.
func MaskEmail(email string) string {
	if !IsProduction {
		return email
	}
	return "***@***.***"
}

// SafeLog logs a message with sensitive data masked.
func SafeLog(format string, args ...interface{}) {
	log.Print(MaskString(fmt.Sprintf(format, args...)))
}

func SafeDebug(format string, args ...interface{}) {
	if LogLevel <= LogLevelDebug {
		SafeLog("[DEBUG] "+format, args...)
	}
}

func SafeInfo(format string, args ...interface{}) {
	if LogLevel <= LogLevelInfo {
		SafeLog("[INFO] "+format, args...)
	}
}

func SafeWarn(format string, args ...interface{}) {
	if LogLevel <= LogLevelWarn {
		SafeLog("[WARN] "+format, args...)
	}
}

func SafeError(format string, args ...interface{}) {
	if LogLevel <= LogLevelError {
		SafeLog("[ERROR] "+format, args...)
	}
}

// LogAuthAction records login/signup attempts without leaking the email
// in production.
func LogAuthAction(action string, email string, success bool) {
	status := "✅"
	if !success {
		status = "❌"
	}
	SafeInfo("%s Auth %s for %s", status, action, MaskEmail(email))
}

// LogAIRequest records an outbound LLM call.
func LogAIRequest(feature string, userID string, tokens int) {
	SafeInfo("🤖 AI %s for user %s (%d tokens)", feature, MaskID(userID), tokens)
}

func LogStartup(appName string, version string, port string) {
	mode := "development"
	if IsProduction {
		mode = "production"
	}
	log.Printf("🚀 %s v%s starting on port %s (%s)", appName, version, port, mode)
}
