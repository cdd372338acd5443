package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrEthical07/scmsauth/password"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, env map[string]string, stdin string, args ...string) result {
	t.Helper()

	var out, errOut bytes.Buffer
	code := run(context.Background(), args, envOf(env), streams{
		in:  bufio.NewReader(strings.NewReader(stdin)),
		out: &out,
		err: &errOut,
	})
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func fileEnv(t *testing.T) map[string]string {
	return map[string]string{
		"SCMS_SLOT":      slotFile,
		"SCMS_SLOT_PATH": filepath.Join(t.TempDir(), "session.json"),
		"SCMS_LOG_LEVEL": "error",
	}
}

func TestLoginPersistsAcrossRuns(t *testing.T) {
	env := fileEnv(t)

	res := runCLI(t, env, "password123\n", "login", "-email", "teacher@example.com")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "signed in as")
	assert.Contains(t, res.stdout, "(teacher)")

	res = runCLI(t, env, "", "whoami")
	require.Equal(t, 0, res.code, res.stderr)
	var acc struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &acc))
	assert.Equal(t, "teacher@example.com", acc.Email)
	assert.Equal(t, "teacher", acc.Role)

	res = runCLI(t, env, "", "nav")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "/reports")
	assert.NotContains(t, res.stdout, "/users")

	res = runCLI(t, env, "", "logout")
	require.Equal(t, 0, res.code, res.stderr)

	res = runCLI(t, env, "", "whoami")
	require.Equal(t, 0, res.code)
	assert.Equal(t, "anonymous\n", res.stdout)
}

func TestLoginPromptsForEmail(t *testing.T) {
	env := fileEnv(t)

	res := runCLI(t, env, "student@example.com\npassword123\n", "login")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "(student)")
}

func TestLoginWrongSecret(t *testing.T) {
	env := fileEnv(t)

	res := runCLI(t, env, "nope\n", "login", "-email", "admin@example.com")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "invalid credentials")

	res = runCLI(t, env, "", "whoami")
	assert.Equal(t, "anonymous\n", res.stdout)
}

func TestLoginOverSQLiteSlot(t *testing.T) {
	env := map[string]string{
		"SCMS_SLOT":      slotSQLite,
		"SCMS_SLOT_PATH": filepath.Join(t.TempDir(), "slot.db"),
		"SCMS_LOG_LEVEL": "error",
	}

	res := runCLI(t, env, "password123\n", "login", "-email", "admin@example.com")
	require.Equal(t, 0, res.code, res.stderr)

	res = runCLI(t, env, "", "whoami")
	assert.Contains(t, res.stdout, "admin@example.com")
}

func TestLoginOverRedisSlot(t *testing.T) {
	mr := miniredis.RunT(t)
	env := map[string]string{
		"SCMS_SLOT":       slotRedis,
		"SCMS_REDIS_ADDR": mr.Addr(),
		"SCMS_LOG_LEVEL":  "error",
	}

	res := runCLI(t, env, "password123\n", "login", "-email", "student@example.com")
	require.Equal(t, 0, res.code, res.stderr)
	assert.True(t, mr.Exists("scms:scms_user"))

	res = runCLI(t, env, "", "whoami")
	assert.Contains(t, res.stdout, "student@example.com")
}

func TestCan(t *testing.T) {
	env := map[string]string{"SCMS_SLOT": slotMemory}

	res := runCLI(t, env, "", "can", "admin", "users")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "allowed\n", res.stdout)

	res = runCLI(t, env, "", "can", "student", "reports")
	assert.Equal(t, 1, res.code)
	assert.Equal(t, "denied\n", res.stdout)

	res = runCLI(t, env, "", "can", "student")
	assert.Equal(t, 2, res.code)
}

func TestNavRequiresSession(t *testing.T) {
	res := runCLI(t, map[string]string{"SCMS_SLOT": slotMemory}, "", "nav")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "not signed in")
}

func TestReport(t *testing.T) {
	res := runCLI(t, map[string]string{"SCMS_SLOT": slotMemory}, "", "report")
	require.Equal(t, 0, res.code, res.stderr)

	var r struct {
		SlotBackend      string
		PlaintextSecrets int
		Warnings         []string
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &r))
	assert.Equal(t, "memory", r.SlotBackend)
	assert.Equal(t, 3, r.PlaintextSecrets)
	assert.Contains(t, r.Warnings, "plaintext_secrets")
}

func TestHashSecret(t *testing.T) {
	res := runCLI(t, map[string]string{"SCMS_SLOT": slotMemory}, "correct horse\n", "hash-secret")
	require.Equal(t, 0, res.code, res.stderr)

	hash := strings.TrimSpace(res.stdout)
	assert.True(t, password.IsHash(hash))
}

func TestUnknownCommand(t *testing.T) {
	res := runCLI(t, nil, "", "-slot", "memory", "teleport")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, "unknown command")

	res = runCLI(t, nil, "", "-slot", "memory")
	assert.Equal(t, 2, res.code)
}
