package config

import (
	"github.com/specialistvlad/scripthub/internal/model"
)

// Definitions is everything a loader produced.
type Definitions struct {
	Scripts   []*model.Script
	Groups    []model.ScriptGroup
	Workflows []*model.Workflow
}

// Merge appends other's definitions to d.
func (d *Definitions) Merge(other *Definitions) {
	if other == nil {
		return
	}
	d.Scripts = append(d.Scripts, other.Scripts...)
	d.Groups = append(d.Groups, other.Groups...)
	d.Workflows = append(d.Workflows, other.Workflows...)
}
