package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/smartest/internal/problemgen"
)

// run executes the root command. Cobra keeps flag values between runs, so
// callers pass every flag they rely on.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SMARTEST_SIMILARITY_BACKEND", "none")
	t.Setenv("SMARTEST_SESSION_BACKEND", "memory")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "smartest (devel)\n", out)
}

func TestGenerate_SeededJSONIsStable(t *testing.T) {
	first, err := run(t, "generate", "minmax", "--seed", "7", "--json=true")
	require.NoError(t, err)
	second, err := run(t, "generate", "minmax", "--seed", "7", "--json=true")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var p problemgen.Payload
	require.NoError(t, json.Unmarshal([]byte(first), &p))
	assert.Equal(t, problemgen.DomainMinMax, p.Domain)
	assert.NotNil(t, p.MinMax)
}

func TestGenerate_TextAndErrors(t *testing.T) {
	out, err := run(t, "generate", "csp", "--seed", "3", "--json=false")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "CSP-"), out)

	_, err = run(t, "generate", "chess", "--seed", "3", "--json=false")
	assert.ErrorIs(t, err, problemgen.ErrUnknownDomain)

	_, err = run(t, "generate", "nash", "--seed", "-4", "--json=false")
	assert.Error(t, err)
}

func TestGradeRoundTrip(t *testing.T) {
	out, err := run(t, "generate", "nash", "--seed", "11", "--json=true")
	require.NoError(t, err)
	var p problemgen.Payload
	require.NoError(t, json.Unmarshal([]byte(out), &p))

	file := filepath.Join(t.TempDir(), "nash.json")
	require.NoError(t, os.WriteFile(file, []byte(out), 0o600))

	answer := "none"
	if eq := p.Solution.Equilibria; len(eq) > 0 {
		parts := make([]string, len(eq))
		for i, c := range eq {
			parts[i] = fmt.Sprintf("(%d,%d)", c[0], c[1])
		}
		answer = strings.Join(parts, " ")
	}

	out, err = run(t, "grade", "nash", "--payload", file, "--answer", answer, "--solution=true")
	require.NoError(t, err)
	assert.Contains(t, out, "Score: 100%")
	assert.Contains(t, out, "Solution:")

	_, err = run(t, "grade", "minmax", "--payload", file, "--answer", answer, "--solution=false")
	assert.ErrorContains(t, err, "payload domain")
}

func TestTopics(t *testing.T) {
	out, err := run(t, "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "Difficulty")
	assert.Greater(t, strings.Count(out, "\n"), 2)
}

func TestNLP(t *testing.T) {
	out, err := run(t, "nlp", "sim", "alpha beta", "alpha beta")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "1.000"), out)

	out, err = run(t, "nlp", "status", "--load=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Backend:     none")
}

func TestResetNeedsPersistentBackend(t *testing.T) {
	_, err := run(t, "reset", "web-1")
	assert.ErrorContains(t, err, "memory session backend")
}
