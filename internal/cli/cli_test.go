package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/scripthub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const definitions = `
script "hello" {
  name   = "Hello"
  kind   = "shell"
  source = "Scripts/hello.sh"
  group  = "basics"

  parameter "who" {
    default = "world"
  }
}

script "fail" {
  name   = "Fail"
  kind   = "shell"
  source = "Scripts/fail.sh"
}

group "basics" {
  name = "Basics"
}

workflow "greet" {
  name = "Greet"
  node "a" {
    script = "hello"
  }
}

workflow "broken" {
  name = "Broken"
  node "a" {
    script = "hello"
  }
  node "b" {
    script = "fail"
  }
  connection {
    from = "a"
    to   = "b"
  }
}

workflow "loop" {
  name = "Loop"
  node "a" {
    script = "hello"
  }
  connection {
    from = "a"
    to   = "a"
  }
}
`

// project writes a small project and returns the flags that point at it.
func project(t *testing.T) []string {
	t.Helper()
	testutil.RequireBinary(t, testutil.Shell)

	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		"scripthub/defs.hcl": definitions,
		"scripthub.yaml":     "runtimes:\n  shell: " + testutil.Shell + "\nlog:\n  level: warn\n",
	})
	testutil.WriteScript(t, root, "Scripts/hello.sh", `echo "hello $1"`)
	testutil.WriteScript(t, root, "Scripts/fail.sh", `echo broken >&2; exit 4`)

	return []string{"--config", filepath.Join(root, "scripthub.yaml"), "--project-root", root}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := Execute(context.Background(), args, &out, &errOut)
	return out.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected *ExitError, got %v", err)
	return exitErr.Code
}

func TestRunCommand(t *testing.T) {
	flags := project(t)

	out, err := execute(t, append(flags, "run", "greet")...)
	require.NoError(t, err)
	assert.Contains(t, out, "hello world")
	assert.Contains(t, out, "🎉 Workflow completed!")

	out, err = execute(t, append(flags, "run", "broken")...)
	assert.Equal(t, ExitFailed, exitCode(t, err))
	assert.EqualError(t, err, "node Fail failed")
	assert.Contains(t, out, "❌ Node failed (exit code: 4)")

	_, err = execute(t, append(flags, "run", "loop")...)
	assert.Equal(t, ExitCycle, exitCode(t, err))

	_, err = execute(t, append(flags, "run", "nope")...)
	assert.Equal(t, ExitUsage, exitCode(t, err))
}

func TestExecCommand(t *testing.T) {
	flags := project(t)

	out, err := execute(t, append(flags, "exec", "hello", "who=there")...)
	require.NoError(t, err)
	assert.Contains(t, out, "hello there\n")

	_, err = execute(t, append(flags, "exec", "fail")...)
	assert.Equal(t, ExitFailed, exitCode(t, err))
	assert.EqualError(t, err, "script exited with code 4")

	_, err = execute(t, append(flags, "exec", "hello", "oops")...)
	assert.Equal(t, ExitUsage, exitCode(t, err))
}

func TestOrderCommand(t *testing.T) {
	flags := project(t)

	out, err := execute(t, append(flags, "order", "broken")...)
	require.NoError(t, err)
	assert.Equal(t, "1. a\n2. b\n", out)

	_, err = execute(t, append(flags, "order", "loop")...)
	assert.Equal(t, ExitCycle, exitCode(t, err))
}

func TestListCommands(t *testing.T) {
	flags := project(t)

	out, err := execute(t, append(flags, "scripts")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Basics\n")
	assert.Contains(t, out, "Ungrouped\n")
	assert.Regexp(t, `hello\s+Hello\s+shell\s+1 params`, out)
	assert.Regexp(t, `fail\s+Fail\s+shell\s+0 params`, out)

	out, err = execute(t, append(flags, "workflows")...)
	require.NoError(t, err)
	assert.Regexp(t, `greet\s+Greet\s+1 nodes`, out)
	assert.Regexp(t, `broken\s+Broken\s+2 nodes`, out)
}

func TestValidateCommand(t *testing.T) {
	flags := project(t)

	out, err := execute(t, append(flags, "validate")...)
	require.NoError(t, err)
	assert.Contains(t, out, `workflow "loop": dependency cycle among nodes [a]`)
}

func TestVersionAndUsage(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "scripthub dev\n", out)

	_, err = execute(t, "run")
	assert.Equal(t, ExitUsage, exitCode(t, err))

	_, err = execute(t, "--no-such-flag")
	assert.Equal(t, ExitUsage, exitCode(t, err))
}

func TestParseValues(t *testing.T) {
	values, err := parseValues([]string{"a=1", "b=x=y", "c="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "x=y", "c": ""}, values)

	_, err = parseValues([]string{"=v"})
	assert.Error(t, err)
}
