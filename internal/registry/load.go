package registry

import (
	"context"

	"github.com/specialistvlad/scripthub/internal/config"
	"github.com/specialistvlad/scripthub/internal/ctxlog"
)

// PopulateFromDefinitions registers every script and group of defs.
// Scripts that declare a group are appended to that group's members.
func (r *Memory) PopulateFromDefinitions(ctx context.Context, defs *config.Definitions) error {
	logger := ctxlog.FromContext(ctx)

	if err := r.Register(defs.Scripts...); err != nil {
		return err
	}

	groups := append(defs.Groups[:0:0], defs.Groups...)
	index := make(map[string]int, len(groups))
	for i := range groups {
		groups[i].ScriptIDs = append([]string(nil), groups[i].ScriptIDs...)
		index[groups[i].ID] = i
	}
	for _, s := range defs.Scripts {
		if s.Group == "" {
			continue
		}
		i, ok := index[s.Group]
		if !ok {
			logger.Warn("Script names an unknown group.", "script", s.ID, "group", s.Group)
			continue
		}
		if !contains(groups[i].ScriptIDs, s.ID) {
			groups[i].ScriptIDs = append(groups[i].ScriptIDs, s.ID)
		}
	}
	r.AddGroups(groups...)

	logger.Debug("Registry populated.", "scripts", len(defs.Scripts), "groups", len(groups))
	return nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
