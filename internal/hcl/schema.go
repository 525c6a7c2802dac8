package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot is used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Scripts   []*scriptBlock   `hcl:"script,block"`
	Groups    []*groupBlock    `hcl:"group,block"`
	Workflows []*workflowBlock `hcl:"workflow,block"`
	Remain    hcl.Body         `hcl:",remain"`
}

type scriptBlock struct {
	ID          string            `hcl:"id,label"`
	Name        string            `hcl:"name"`
	Description string            `hcl:"description,optional"`
	Kind        string            `hcl:"kind"`
	Source      string            `hcl:"source,optional"`
	Entry       string            `hcl:"entry,optional"`
	Icon        string            `hcl:"icon,optional"`
	Group       string            `hcl:"group,optional"`
	Warnings    []string          `hcl:"warnings,optional"`
	Parameters  []*parameterBlock `hcl:"parameter,block"`
}

type parameterBlock struct {
	Name        string         `hcl:"name,label"`
	Label       string         `hcl:"label,optional"`
	Type        string         `hcl:"type,optional"`
	Required    bool           `hcl:"required,optional"`
	Default     hcl.Expression `hcl:"default,optional"`
	Description string         `hcl:"description,optional"`
	Options     []string       `hcl:"options,optional"`
}

type groupBlock struct {
	ID      string   `hcl:"id,label"`
	Name    string   `hcl:"name"`
	Icon    string   `hcl:"icon,optional"`
	Scripts []string `hcl:"scripts,optional"`
}

type workflowBlock struct {
	ID          string             `hcl:"id,label"`
	Name        string             `hcl:"name"`
	Description string             `hcl:"description,optional"`
	Icon        string             `hcl:"icon,optional"`
	CreatedAt   string             `hcl:"created_at,optional"`
	ModifiedAt  string             `hcl:"modified_at,optional"`
	Nodes       []*nodeBlock       `hcl:"node,block"`
	Connections []*connectionBlock `hcl:"connection,block"`
}

type nodeBlock struct {
	ID       string          `hcl:"id,label"`
	Script   string          `hcl:"script"`
	X        float64         `hcl:"x,optional"`
	Y        float64         `hcl:"y,optional"`
	Mappings []*mappingBlock `hcl:"map,block"`
}

// mappingBlock sets exactly one of constant, node (with an optional channel)
// or user_input.
type mappingBlock struct {
	Param     string  `hcl:"param,label"`
	Constant  *string `hcl:"constant,optional"`
	Node      string  `hcl:"node,optional"`
	Channel   string  `hcl:"channel,optional"`
	UserInput bool    `hcl:"user_input,optional"`
}

type connectionBlock struct {
	ID      string `hcl:"id,optional"`
	From    string `hcl:"from"`
	To      string `hcl:"to"`
	Channel string `hcl:"channel,optional"`
}
