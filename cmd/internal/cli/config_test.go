package cli

import (
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReadFunctionConfigDefaults(t *testing.T) {
	cfg := ReadFunctionConfig(MapEnv{}, SetupLogger("", "", io.Discard))

	assert.Equal(t, "test", cfg.FunctionName)
	assert.Equal(t, "$LATEST", cfg.FunctionVersion)
	assert.Equal(t, int64(1536), cfg.MemorySize)
	assert.Equal(t, 300*time.Second, cfg.Timeout)
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, "/var/task", cfg.TaskRoot)
	assert.Regexp(t, regexp.MustCompile(`^[0-9]{12}$`), cfg.AccountID)
}

func TestReadFunctionConfigFromEnv(t *testing.T) {
	env := MapEnv{
		EnvFunctionName:    "fn",
		EnvFunctionVersion: "7",
		EnvMemorySize:      "128",
		EnvTimeout:         "3",
		EnvDefaultRegion:   "eu-west-1",
		EnvAccountID:       "123456789012",
		EnvTaskRoot:        "/opt/task",
	}
	cfg := ReadFunctionConfig(env, SetupLogger("", "", io.Discard))

	assert.Equal(t, "fn", cfg.FunctionName)
	assert.Equal(t, "7", cfg.FunctionVersion)
	assert.Equal(t, int64(128), cfg.MemorySize)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, "123456789012", cfg.AccountID)
	assert.Equal(t, "/opt/task", cfg.TaskRoot)

	env[EnvRegion] = "ap-south-1"
	cfg = ReadFunctionConfig(env, SetupLogger("", "", io.Discard))
	assert.Equal(t, "ap-south-1", cfg.Region)
}

func TestReadFunctionConfigBadNumbers(t *testing.T) {
	env := MapEnv{
		EnvMemorySize: "lots",
		EnvTimeout:    "-1",
	}
	cfg := ReadFunctionConfig(env, SetupLogger("", "", io.Discard))
	assert.Equal(t, DefaultConfig.MemorySize, cfg.MemorySize)
	assert.Equal(t, DefaultConfig.Timeout, cfg.Timeout)
}
