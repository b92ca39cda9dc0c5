package config

import (
	"os"
	"strconv"
	"strings"
)

var (
	TLS_DOMAINS     = ""            // e.g. "example.com,example2.com"
	MYSQL_DSN       = ""            // MySQL will be used if this is set
	SQLITE_FILE     = "sharehub.db" // SQLite will be used if MYSQL_DSN is not configured
	BIND_ADDRESS    = "0.0.0.0:8080"
	DEBUG_MODE      = true
	ADMIN_LOGIN     = "admin" // Initial administrator account, created at startup if missing
	ADMIN_NAME      = "Administrator"
	ADMIN_PASSWORD  = "" // Login for the initial admin is disabled until this is set
	SESSION_KEY     = "change me in production"
	SESSION_MAX_AGE = 30 * 86400 // 30 days
)

func init() {
	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvString("ADMIN_LOGIN", &ADMIN_LOGIN)
	readEnvString("ADMIN_NAME", &ADMIN_NAME)
	readEnvString("ADMIN_PASSWORD", &ADMIN_PASSWORD)
	readEnvString("SESSION_KEY", &SESSION_KEY)
	readEnvInt("SESSION_MAX_AGE", &SESSION_MAX_AGE)
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}
