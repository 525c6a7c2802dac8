package executor

import (
	"context"
	"strings"
	"sync"

	"github.com/specialistvlad/scripthub/internal/ctxlog"
	"github.com/specialistvlad/scripthub/internal/dag"
	"github.com/specialistvlad/scripthub/internal/model"
	"github.com/specialistvlad/scripthub/internal/nodestore"
)

// Run is the handle of one workflow run.
type Run struct {
	id       string
	ctrl     *Controller
	ctx      context.Context
	cancel   context.CancelFunc
	workflow *model.Workflow
	store    nodestore.Store
	done     chan struct{}

	// log is only touched by the run goroutine (and begin, before it starts).
	log     strings.Builder
	workDir string

	mu   sync.RWMutex
	snap Snapshot
}

// ID returns the run's unique id.
func (r *Run) ID() string {
	return r.id
}

// Snapshot returns the current state of the run.
func (r *Run) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap.clone()
}

// Done is closed once the run reaches a terminal state.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run ends or ctx is done, and returns the latest
// snapshot.
func (r *Run) Wait(ctx context.Context) (Snapshot, error) {
	select {
	case <-r.done:
		return r.Snapshot(), nil
	case <-ctx.Done():
		return r.Snapshot(), ctx.Err()
	}
}

// Cancel asks the run to stop. It is safe to call at any time.
func (r *Run) Cancel() {
	r.cancel()
}

// update applies fn to the run state and publishes the result.
func (r *Run) update(fn func(s *Snapshot)) {
	r.mu.Lock()
	fn(&r.snap)
	r.snap.Log = r.log.String()
	published := r.snap.clone()
	r.mu.Unlock()

	r.ctrl.observers.Publish(published)
}

// begin resets the run state and publishes the first snapshot.
func (r *Run) begin() {
	logger := ctxlog.FromContext(r.ctx)
	_ = r.store.Reset(r.ctx)
	r.workDir = r.ctrl.workingDirectory(r.ctx)

	r.log.WriteString(startLine(r.workflow.Name, len(r.workflow.Nodes)))
	r.update(func(s *Snapshot) {
		*s = Snapshot{
			RunID:        r.id,
			WorkflowID:   r.workflow.ID,
			WorkflowName: r.workflow.Name,
			State:        StateRunning,
			Running:      true,
			StartedAt:    r.ctrl.now(),
		}
	})
	logger.Info("🚀 Starting workflow run", "nodes", len(r.workflow.Nodes))
}

// execute is the run goroutine.
func (r *Run) execute() {
	defer close(r.done)
	defer r.cancel()

	ctx := r.ctx
	logger := ctxlog.FromContext(ctx)

	g, skipped := dag.FromWorkflow(r.workflow)
	for _, c := range skipped {
		logger.Warn("Ignoring connection with unknown endpoint.", "from", c.From, "to", c.To)
	}
	order, err := g.Order()
	if err != nil {
		logger.Error("Workflow rejected.", "error", err)
		r.log.WriteString(cycleRejected())
		r.finish(StateCycleRejected, errCycle, false)
		return
	}
	logger.Debug("Execution order computed.", "order", order)
	r.log.WriteString(orderLine(order))
	r.update(func(s *Snapshot) { s.Order = order })

	for _, nodeID := range order {
		if ctx.Err() != nil {
			r.cancelled()
			return
		}

		node := r.workflow.Node(nodeID)
		if node == nil {
			r.skip(nodeID, "node not found")
			continue
		}
		script, ok := r.ctrl.registry.Lookup(node.ScriptID)
		if !ok {
			r.skip(nodeID, "script not found", "script", node.ScriptID)
			continue
		}

		out := r.runNode(node, script)

		if ctx.Err() != nil {
			r.cancelled()
			return
		}
		if !out.Succeeded() {
			logger.Error("Node failed, stopping workflow.", "node", nodeID, "script", script.ID, "exit_code", out.ExitCode)
			r.log.WriteString(nodeFailed(out.ExitCode))
			r.finish(StateFailed, nodeFailedError(script.Name), false)
			return
		}
		r.log.WriteString(nodeSucceeded())
		r.update(func(*Snapshot) {})
	}

	r.log.WriteString(completed())
	r.finish(StateSucceeded, "", true)
	logger.Info("🏁 Workflow run finished")
}

// runNode executes one node and records its output.
func (r *Run) runNode(node *model.WorkflowNode, script *model.Script) model.NodeOutput {
	ctx := r.ctx
	logger := ctxlog.FromContext(ctx).With("node", node.ID, "script", script.ID)

	_ = r.store.SetStatus(ctx, node.ID, nodestore.StatusRunning)
	r.log.WriteString(nodeBanner(script.Name))
	r.update(func(s *Snapshot) {
		s.CurrentNodeID = node.ID
		s.Statuses = r.statuses()
	})
	logger.Info("▶️ Running node")

	outputs, err := r.store.Outputs(ctx)
	if err != nil {
		logger.Warn("Cannot read recorded outputs.", "error", err)
	}
	args := r.ctrl.resolver.Resolve(node, script, outputs)
	logger.Debug("Arguments resolved.", "args", args)

	res := r.ctrl.runner.Run(ctx, script, args)
	out := model.NodeOutput{
		Stdout:           res.Stdout,
		Stderr:           res.Stderr,
		ExitCode:         res.ExitCode,
		WorkingDirectory: r.workDir,
	}

	status := nodestore.StatusSucceeded
	if !out.Succeeded() {
		status = nodestore.StatusFailed
	}
	if err := r.store.SetOutput(ctx, node.ID, out); err != nil {
		logger.Error("Cannot record node output.", "error", err)
	}
	_ = r.store.SetStatus(ctx, node.ID, status)

	r.log.WriteString(nodeBody(out.Stdout, out.Stderr))
	r.update(func(s *Snapshot) {
		s.Outputs = r.outputs()
		s.Statuses = r.statuses()
	})
	logger.Debug("Node finished.", "exit_code", out.ExitCode)
	return out
}

// skip tolerates a stale reference: the node is marked skipped and the run
// continues.
func (r *Run) skip(nodeID, reason string, args ...any) {
	ctxlog.FromContext(r.ctx).Warn("Skipping node: "+reason+".", append([]any{"node", nodeID}, args...)...)
	_ = r.store.SetStatus(r.ctx, nodeID, nodestore.StatusSkipped)
	r.update(func(s *Snapshot) { s.Statuses = r.statuses() })
}

func (r *Run) cancelled() {
	ctxlog.FromContext(r.ctx).Warn("Workflow run cancelled.")
	r.log.WriteString(cancelledLine())
	r.finish(StateCancelled, errCancelled, false)
}

// finish publishes the terminal snapshot.
func (r *Run) finish(state State, errMsg string, clearCurrent bool) {
	r.update(func(s *Snapshot) {
		s.State = state
		s.Running = false
		s.Error = errMsg
		if clearCurrent {
			s.CurrentNodeID = ""
		}
		s.Outputs = r.outputs()
		s.Statuses = r.statuses()
		s.FinishedAt = r.ctrl.now()
	})
}

func (r *Run) outputs() map[string]model.NodeOutput {
	out, _ := r.store.Outputs(r.ctx)
	return out
}

func (r *Run) statuses() map[string]nodestore.Status {
	st, _ := r.store.Statuses(r.ctx)
	return st
}
