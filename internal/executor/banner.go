package executor

import (
	"fmt"
	"strings"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"

// Terminal error messages.
const (
	errCycle     = "workflow contains a dependency cycle"
	errCancelled = "run cancelled"
)

func nodeFailedError(scriptName string) string {
	return fmt.Sprintf("node %s failed", scriptName)
}

func startLine(name string, nodes int) string {
	return fmt.Sprintf("🚀 Starting workflow: %s (%d nodes)\n", name, nodes)
}

func orderLine(order []string) string {
	return fmt.Sprintf("Execution order: %s\n\n", strings.Join(order, " → "))
}

func nodeBanner(scriptName string) string {
	return rule + fmt.Sprintf("▶️  Running: %s\n", scriptName) + rule + "\n"
}

func nodeBody(stdout, stderr string) string {
	var b strings.Builder
	if stdout != "" {
		b.WriteString(stdout)
		b.WriteString("\n")
	}
	if stderr != "" {
		b.WriteString("⚠️ stderr:\n")
		b.WriteString(stderr)
		b.WriteString("\n")
	}
	return b.String()
}

func nodeSucceeded() string {
	return "✅ Node succeeded\n\n"
}

func nodeFailed(code int32) string {
	return fmt.Sprintf("\n❌ Node failed (exit code: %d)\n⏸️  Workflow stopped\n", code)
}

func cycleRejected() string {
	return "❌ " + errCycle + "\n"
}

func cancelledLine() string {
	return "\n⏹️  Run cancelled\n"
}

func completed() string {
	return rule + "🎉 Workflow completed!\n" + rule
}
