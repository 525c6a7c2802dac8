package runner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/specialistvlad/scripthub/internal/model"
	"github.com/specialistvlad/scripthub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shellExecutor(t *testing.T) *Executor {
	t.Helper()
	testutil.RequireBinary(t, testutil.Shell)
	return NewWithRuntimes(NewShell(testutil.Shell), NewInterpreted(testutil.Shell))
}

func TestExecutorRun(t *testing.T) {
	ctx, _ := testutil.Context(t)
	exec := shellExecutor(t)
	dir := t.TempDir()

	t.Run("captures output and exit code", func(t *testing.T) {
		src := testutil.WriteScript(t, dir, "echo.sh", `echo "first=$1"; echo "second=$2"; echo oops >&2; exit 3`)
		script := &model.Script{ID: "echo", Kind: model.RuntimeShell, Source: src}

		res := exec.Run(ctx, script, []string{"a b", "c"})
		assert.Equal(t, "first=a b\nsecond=c\n", res.Stdout)
		assert.Equal(t, "oops\n", res.Stderr)
		assert.Equal(t, int32(3), res.ExitCode)
	})

	t.Run("interpreted kind passes source first", func(t *testing.T) {
		src := testutil.WriteScript(t, dir, "args.sh", `printf '%s|' "$0" "$@"`)
		script := &model.Script{ID: "args", Kind: model.RuntimeInterpreted, Source: src}

		res := exec.Run(ctx, script, []string{"x", "y"})
		assert.Equal(t, src+"|x|y|", res.Stdout)
		assert.Zero(t, res.ExitCode)
	})

	t.Run("invalid utf8 is replaced", func(t *testing.T) {
		src := testutil.WriteScript(t, dir, "bytes.sh", `printf 'ok\377\376done'`)
		script := &model.Script{ID: "bytes", Kind: model.RuntimeShell, Source: src}

		res := exec.Run(ctx, script, nil)
		assert.True(t, strings.HasPrefix(res.Stdout, "ok"))
		assert.True(t, strings.HasSuffix(res.Stdout, "done"))
		assert.Contains(t, res.Stdout, "�")
		assert.Zero(t, res.ExitCode)
	})

	t.Run("missing binary is a launch failure", func(t *testing.T) {
		e := NewWithRuntimes(NewShell(filepath.Join(dir, "no-such-shell")))
		script := &model.Script{ID: "x", Kind: model.RuntimeShell, Source: "whatever.sh"}

		res := e.Run(ctx, script, nil)
		assert.Equal(t, LaunchFailedCode, res.ExitCode)
		assert.Contains(t, res.Stderr, "failed to launch")
		assert.Empty(t, res.Stdout)
	})

	t.Run("unsupported kind", func(t *testing.T) {
		script := &model.Script{ID: "rb", Kind: model.RuntimeKind("ruby")}
		res := exec.Run(ctx, script, nil)
		assert.Equal(t, LaunchFailedCode, res.ExitCode)
		assert.Equal(t, "unsupported script type: ruby", res.Stderr)
	})
}

func TestExecutorStreamMatchesRun(t *testing.T) {
	ctx, _ := testutil.Context(t)
	exec := shellExecutor(t)
	src := testutil.WriteScript(t, t.TempDir(), "mixed.sh", `
i=0
while [ $i -lt 50 ]; do
  echo "line $i ✓"
  echo "err $i" >&2
  i=$((i+1))
done
exit 2
`)
	script := &model.Script{ID: "mixed", Kind: model.RuntimeShell, Source: src}

	var mu sync.Mutex
	var streamed [2]strings.Builder
	sink := func(s Stream, chunk string) {
		mu.Lock()
		defer mu.Unlock()
		streamed[s].WriteString(chunk)
	}

	streamRes := exec.Stream(ctx, script, nil, sink)
	blockRes := exec.Run(ctx, script, nil)

	assert.Equal(t, blockRes, streamRes)
	assert.Equal(t, int32(2), streamRes.ExitCode)
	assert.Equal(t, streamRes.Stdout, streamed[Stdout].String())
	assert.Equal(t, streamRes.Stderr, streamed[Stderr].String())
	assert.Contains(t, streamRes.Stdout, "line 49 ✓\n")
}

func TestExecutorCancellation(t *testing.T) {
	base, _ := testutil.Context(t)
	exec := shellExecutor(t)
	src := testutil.WriteScript(t, t.TempDir(), "sleep.sh", `echo started; sleep 30; echo never`)
	script := &model.Script{ID: "sleep", Kind: model.RuntimeShell, Source: src}

	ctx, cancel := context.WithTimeout(base, 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	res := exec.Run(ctx, script, nil)
	assert.Less(t, time.Since(start), 10*time.Second)
	assert.NotZero(t, res.ExitCode)
	assert.NotContains(t, res.Stdout, "never")
}

func TestCompiled(t *testing.T) {
	testutil.RequireBinary(t, testutil.Shell)
	ctx, _ := testutil.Context(t)
	root := t.TempDir()
	calls := filepath.Join(root, "calls.log")

	// The fake compiler records its arguments and writes the artifact named
	// by the source file into the -d directory.
	compiler := testutil.WriteScript(t, root, "bin/javac", `#!/bin/sh
echo "javac $*" >> "`+calls+`"
[ -n "$FAIL_BUILD" ] && { echo "Hello.java:1: error" >&2; exit 4; }
mkdir -p "$2"
name=$(basename "$3" .java)
touch "$2/$name.class"
echo built
`)
	runtime := testutil.WriteScript(t, root, "bin/java", `#!/bin/sh
echo "java $*" >> "`+calls+`"
printf '%s ' "$@"
`)

	cfg := Config{ProjectRoot: root, Compiler: compiler, CompiledRuntime: runtime}
	c := NewCompiled(cfg)
	exec := NewWithRuntimes(c)
	script := &model.Script{ID: "hello", Kind: model.RuntimeCompiled, Entry: "Hello"}

	buildDir := filepath.Join(root, DefaultBuildDir)
	assert.Equal(t, buildDir, c.BuildDir())
	assert.Equal(t, filepath.Join(root, "src", "Hello.java"), c.SourceFile(script))
	assert.Equal(t, filepath.Join(buildDir, "Hello.class"), c.Artifact(script))

	t.Run("build failure aborts", func(t *testing.T) {
		t.Setenv("FAIL_BUILD", "1")
		res := exec.Run(ctx, script, []string{"a"})
		assert.Equal(t, int32(4), res.ExitCode)
		assert.Contains(t, res.Stderr, "Hello.java:1: error")
		assert.Contains(t, res.Stderr, "compilation failed")
		assert.True(t, c.NeedsBuild(script))
	})

	t.Run("builds once then runs", func(t *testing.T) {
		_ = os.Remove(calls)

		res := exec.Run(ctx, script, []string{"a", `"b c"`})
		require.Zero(t, res.ExitCode, res.Stderr)
		assert.Equal(t, "-cp "+buildDir+` Hello a "b c" `, res.Stdout)
		assert.False(t, c.NeedsBuild(script))

		res = exec.Run(ctx, script, nil)
		require.Zero(t, res.ExitCode)

		log, err := os.ReadFile(calls)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(log)), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "javac -d "+buildDir+" "+filepath.Join(root, "src", "Hello.java"), lines[0])
		assert.True(t, strings.HasPrefix(lines[1], "java -cp "+buildDir+" Hello a"))
		assert.Equal(t, "java -cp "+buildDir+" Hello", lines[2])
	})

	t.Run("explicit source path wins", func(t *testing.T) {
		s := &model.Script{ID: "x", Kind: model.RuntimeCompiled, Entry: "pkg.Tool", Source: "/abs/Tool.java"}
		assert.Equal(t, "/abs/Tool.java", c.SourceFile(s))
		assert.Equal(t, filepath.Join(buildDir, "pkg", "Tool.class"), c.Artifact(s))
	})
}

func TestSplitComplete(t *testing.T) {
	check := []byte("✓") // three bytes
	tests := []struct {
		name  string
		in    []byte
		ready string
		rest  string
	}{
		{"ascii", []byte("abc"), "abc", ""},
		{"complete multibyte", append([]byte("a"), check...), "a✓", ""},
		{"cut after first byte", append([]byte("a"), check[:1]...), "a", string(check[:1])},
		{"cut after second byte", append([]byte("a"), check[:2]...), "a", string(check[:2])},
		{"empty", nil, "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ready, rest := splitComplete(tc.in)
			assert.Equal(t, tc.ready, string(ready))
			assert.Equal(t, tc.rest, string(rest))
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, DefaultCompiler, cfg.Compiler)
	assert.Equal(t, DefaultCompiledRuntime, cfg.CompiledRuntime)
	assert.Equal(t, DefaultInterpreter, cfg.Interpreter)
	assert.Equal(t, DefaultShell, cfg.Shell)
	assert.Equal(t, "rel", cfg.resolve("rel"))
	assert.Equal(t, "/abs", Config{ProjectRoot: "/root"}.resolve("/abs"))
}
