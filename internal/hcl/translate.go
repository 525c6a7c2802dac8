// This file translates the decoded HCL blocks into the format-agnostic
// definitions model.

package hcl

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/scripthub/internal/config"
	"github.com/specialistvlad/scripthub/internal/ctxlog"
	"github.com/specialistvlad/scripthub/internal/model"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

func translate(ctx context.Context, root *fileRoot) (*config.Definitions, error) {
	defs := &config.Definitions{}
	for _, s := range root.Scripts {
		script, err := translateScript(ctx, s)
		if err != nil {
			return nil, err
		}
		defs.Scripts = append(defs.Scripts, script)
	}
	for _, g := range root.Groups {
		defs.Groups = append(defs.Groups, model.ScriptGroup{
			ID:        g.ID,
			Name:      g.Name,
			Icon:      g.Icon,
			ScriptIDs: g.Scripts,
		})
	}
	for _, w := range root.Workflows {
		wf, err := translateWorkflow(ctx, w)
		if err != nil {
			return nil, err
		}
		defs.Workflows = append(defs.Workflows, wf)
	}
	return defs, nil
}

// translateScript converts a script block. Enum values are copied as written;
// config.Definitions.Validate reports unknown ones.
func translateScript(ctx context.Context, s *scriptBlock) (*model.Script, error) {
	logger := ctxlog.FromContext(ctx).With("script", s.ID)
	logger.Debug("Translating HCL script to internal model.", "parameters", len(s.Parameters))

	script := &model.Script{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Kind:        model.RuntimeKind(s.Kind),
		Source:      s.Source,
		Entry:       s.Entry,
		Icon:        s.Icon,
		Group:       s.Group,
		Warnings:    s.Warnings,
		Parameters:  make([]model.Parameter, 0, len(s.Parameters)),
	}
	for _, p := range s.Parameters {
		param := model.Parameter{
			Name:        p.Name,
			Label:       p.Label,
			Type:        model.ParamType(p.Type),
			Required:    p.Required,
			Description: p.Description,
			Options:     p.Options,
		}
		if param.Type == "" {
			param.Type = model.ParamText
		}
		if param.Label == "" {
			param.Label = p.Name
		}
		def, err := defaultString(p)
		if err != nil {
			return nil, fmt.Errorf("in script '%s', parameter '%s': %w", s.ID, p.Name, err)
		}
		param.Default = def
		script.Parameters = append(script.Parameters, param)
	}
	return script, nil
}

// defaultString evaluates a parameter default and renders it as the string
// passed on the command line. Numbers and booleans are accepted; a missing
// or null default yields nil.
func defaultString(p *parameterBlock) (*string, error) {
	if p.Default == nil {
		return nil, nil
	}
	val, diags := p.Default.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	str, err := convert.Convert(val, cty.String)
	if err != nil {
		return nil, fmt.Errorf("default must be a string, number or bool: %w", err)
	}
	if !str.IsKnown() || str.IsNull() {
		return nil, nil
	}
	out := str.AsString()
	return &out, nil
}

func translateWorkflow(ctx context.Context, w *workflowBlock) (*model.Workflow, error) {
	logger := ctxlog.FromContext(ctx).With("workflow", w.ID)
	logger.Debug("Translating HCL workflow to internal model.", "nodes", len(w.Nodes), "connections", len(w.Connections))

	wf := &model.Workflow{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		Icon:        w.Icon,
	}
	var err error
	if wf.CreatedAt, err = parseTime(w.CreatedAt); err != nil {
		return nil, fmt.Errorf("in workflow '%s', created_at: %w", w.ID, err)
	}
	if wf.ModifiedAt, err = parseTime(w.ModifiedAt); err != nil {
		return nil, fmt.Errorf("in workflow '%s', modified_at: %w", w.ID, err)
	}

	for _, n := range w.Nodes {
		node := &model.WorkflowNode{
			ID:       n.ID,
			ScriptID: n.Script,
			Position: model.Position{X: n.X, Y: n.Y},
			Mappings: make(map[string]model.ParameterMapping, len(n.Mappings)),
		}
		for _, m := range n.Mappings {
			mapping, err := translateMapping(m)
			if err != nil {
				return nil, fmt.Errorf("in workflow '%s', node '%s': %w", w.ID, n.ID, err)
			}
			node.Mappings[m.Param] = mapping
		}
		wf.Nodes = append(wf.Nodes, node)
	}

	for _, c := range w.Connections {
		conn := model.Connection{
			ID:      c.ID,
			From:    c.From,
			To:      c.To,
			Channel: model.OutputChannel(c.Channel),
		}
		if conn.ID == "" {
			conn.ID = uuid.NewString()
		}
		if conn.Channel == "" {
			conn.Channel = model.ChannelStdout
		}
		wf.Connections = append(wf.Connections, conn)
	}
	return wf, nil
}

func translateMapping(m *mappingBlock) (model.ParameterMapping, error) {
	set := 0
	if m.Constant != nil {
		set++
	}
	if m.Node != "" {
		set++
	}
	if m.UserInput {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("map '%s' must set exactly one of constant, node or user_input", m.Param)
	}
	if m.Channel != "" && m.Node == "" {
		return nil, fmt.Errorf("map '%s': channel requires node", m.Param)
	}

	switch {
	case m.Constant != nil:
		return model.Constant{Value: *m.Constant}, nil
	case m.Node != "":
		ch := model.OutputChannel(m.Channel)
		if ch == "" {
			ch = model.ChannelStdout
		}
		return model.FromOutput{SourceNodeID: m.Node, Channel: ch}, nil
	default:
		return model.UserInput{}, nil
	}
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}
