package config

import (
	"fmt"

	"github.com/specialistvlad/scripthub/internal/dag"
	"github.com/specialistvlad/scripthub/internal/model"
)

// Problem is one finding of Validate.
type Problem struct {
	// Subject names the offending definition, e.g. `workflow "deploy"`.
	Subject string
	Message string
}

func (p Problem) Error() string {
	return fmt.Sprintf("%s: %s", p.Subject, p.Message)
}

// Validate checks the definitions for problems a run would otherwise
// tolerate silently or trip over: duplicate ids, unknown enum values, and
// references to scripts or nodes that do not exist. It never mutates d.
func (d *Definitions) Validate() []Problem {
	var problems []Problem
	add := func(subject, format string, args ...any) {
		problems = append(problems, Problem{Subject: subject, Message: fmt.Sprintf(format, args...)})
	}

	scripts := make(map[string]*model.Script, len(d.Scripts))
	for _, s := range d.Scripts {
		subject := fmt.Sprintf("script %q", s.ID)
		if _, dup := scripts[s.ID]; dup {
			add(subject, "duplicate script id")
		}
		scripts[s.ID] = s

		if !s.Kind.Valid() {
			add(subject, "unknown runtime kind %q", s.Kind)
		}
		if s.Kind == model.RuntimeCompiled && s.Entry == "" {
			add(subject, "compiled script has no entry")
		}
		if s.Kind != model.RuntimeCompiled && s.Source == "" {
			add(subject, "script has no source path")
		}
		seen := make(map[string]struct{}, len(s.Parameters))
		for _, p := range s.Parameters {
			if _, dup := seen[p.Name]; dup {
				add(subject, "duplicate parameter %q", p.Name)
			}
			seen[p.Name] = struct{}{}
			if !p.Type.Valid() {
				add(subject, "parameter %q has unknown type %q", p.Name, p.Type)
			}
			if p.Type == model.ParamChoice && len(p.Options) == 0 {
				add(subject, "choice parameter %q has no options", p.Name)
			}
		}
	}

	groups := make(map[string]struct{}, len(d.Groups))
	for _, g := range d.Groups {
		subject := fmt.Sprintf("group %q", g.ID)
		if _, dup := groups[g.ID]; dup {
			add(subject, "duplicate group id")
		}
		groups[g.ID] = struct{}{}
		for _, id := range g.ScriptIDs {
			if _, ok := scripts[id]; !ok {
				add(subject, "references unknown script %q", id)
			}
		}
	}

	workflows := make(map[string]struct{}, len(d.Workflows))
	for _, w := range d.Workflows {
		subject := fmt.Sprintf("workflow %q", w.ID)
		if _, dup := workflows[w.ID]; dup {
			add(subject, "duplicate workflow id")
		}
		workflows[w.ID] = struct{}{}
		problems = append(problems, validateWorkflow(subject, w, scripts)...)
	}

	return problems
}

func validateWorkflow(subject string, w *model.Workflow, scripts map[string]*model.Script) []Problem {
	var problems []Problem
	add := func(format string, args ...any) {
		problems = append(problems, Problem{Subject: subject, Message: fmt.Sprintf(format, args...)})
	}

	nodes := make(map[string]*model.WorkflowNode, len(w.Nodes))
	for _, n := range w.Nodes {
		if _, dup := nodes[n.ID]; dup {
			add("duplicate node id %q", n.ID)
		}
		nodes[n.ID] = n
	}

	for _, c := range w.Connections {
		if _, ok := nodes[c.From]; !ok {
			add("connection %s -> %s: unknown source node", c.From, c.To)
		}
		if _, ok := nodes[c.To]; !ok {
			add("connection %s -> %s: unknown target node", c.From, c.To)
		}
		if c.Channel != "" && !c.Channel.Valid() {
			add("connection %s -> %s: unknown channel %q", c.From, c.To, c.Channel)
		}
	}

	order, err := dag.OrderWorkflow(w)
	if err != nil {
		add("%v", err)
	}
	position := make(map[string]int, len(order))
	for i, id := range order {
		position[id] = i
	}

	for _, n := range w.Nodes {
		script, ok := scripts[n.ScriptID]
		if !ok {
			add("node %q references unknown script %q", n.ID, n.ScriptID)
		}
		for name, m := range n.Mappings {
			if script != nil {
				if _, declared := script.Parameter(name); !declared {
					add("node %q maps undeclared parameter %q", n.ID, name)
				}
			}
			fo, ok := m.(model.FromOutput)
			if !ok {
				continue
			}
			if !fo.Channel.Valid() {
				add("node %q parameter %q reads unknown channel %q", n.ID, name, fo.Channel)
			}
			if _, exists := nodes[fo.SourceNodeID]; !exists {
				add("node %q parameter %q reads unknown node %q", n.ID, name, fo.SourceNodeID)
				continue
			}
			if err == nil && position[fo.SourceNodeID] >= position[n.ID] {
				add("node %q parameter %q reads node %q, which does not run before it", n.ID, name, fo.SourceNodeID)
			}
		}
	}
	return problems
}
