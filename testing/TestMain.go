// Package testing switches binaries into test mode when blank-imported by
// test packages.
package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

// testEnv is applied before any test runs. Existing values win except for
// the test mode flag itself.
var testEnv = map[string]string{
	"LOG_FORMAT":     "json",
	"LOG_LEVEL":      "warn",
	"ADMIN_TOKEN":    "test-token",
	"ADMIN_PASSWORD": "test-password",
	"REDIS_ADDR":     "",
}

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv("INVENTORY_TEST_MODE", "1")
		for key, value := range testEnv {
			if _, ok := os.LookupEnv(key); !ok {
				_ = os.Setenv(key, value)
			}
		}
	})
}

func init() {
	ensureTestMode()
}

// TestMain runs m with the test environment in place.
func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
