package resolver

import (
	"testing"

	"github.com/specialistvlad/scripthub/internal/model"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func testScript() *model.Script {
	return &model.Script{
		ID:   "copy",
		Name: "Copy",
		Kind: model.RuntimeShell,
		Parameters: []model.Parameter{
			{Name: "path", Type: model.ParamDirectory, Default: strPtr("/srv/in")},
			{Name: "label", Type: model.ParamText},
			{Name: "count", Type: model.ParamInteger, Default: strPtr("3")},
		},
	}
}

func TestResolve(t *testing.T) {
	script := testScript()
	outputs := map[string]model.NodeOutput{
		"n1": {Stdout: "\n  /tmp/out dir \n", Stderr: " warn\n", ExitCode: 7, WorkingDirectory: "/work"},
	}

	t.Run("defaults in declared order", func(t *testing.T) {
		node := &model.WorkflowNode{ID: "n2", Mappings: map[string]model.ParameterMapping{}}
		assert.Equal(t, []string{"/srv/in", "", "3"}, Resolve(node, script, nil))
	})

	t.Run("constant wins over default", func(t *testing.T) {
		node := &model.WorkflowNode{ID: "n2", Mappings: map[string]model.ParameterMapping{
			"count": model.Constant{Value: "10"},
		}}
		assert.Equal(t, []string{"/srv/in", "", "10"}, Resolve(node, script, outputs))
	})

	t.Run("output channels", func(t *testing.T) {
		node := &model.WorkflowNode{ID: "n2", Mappings: map[string]model.ParameterMapping{
			"path":  model.FromOutput{SourceNodeID: "n1", Channel: model.ChannelStdout},
			"label": model.FromOutput{SourceNodeID: "n1", Channel: model.ChannelStderr},
			"count": model.FromOutput{SourceNodeID: "n1", Channel: model.ChannelExitCode},
		}}
		assert.Equal(t, []string{`"/tmp/out dir"`, "warn", "7"}, Resolve(node, script, outputs))
	})

	t.Run("missing source falls back to default", func(t *testing.T) {
		node := &model.WorkflowNode{ID: "n2", Mappings: map[string]model.ParameterMapping{
			"path":  model.FromOutput{SourceNodeID: "ghost", Channel: model.ChannelStdout},
			"label": model.FromOutput{SourceNodeID: "ghost", Channel: model.ChannelWorkingDirectory},
		}}
		assert.Equal(t, []string{"/srv/in", "", "3"}, Resolve(node, script, outputs))
	})

	t.Run("user input uses default policy", func(t *testing.T) {
		node := &model.WorkflowNode{ID: "n2", Mappings: map[string]model.ParameterMapping{
			"count": model.UserInput{},
			"label": model.UserInput{},
		}}
		assert.Equal(t, []string{"/srv/in", "", "3"}, Resolve(node, script, outputs))
	})

	t.Run("user input hook", func(t *testing.T) {
		r := New(WithUserInput(func(_ *model.WorkflowNode, p model.Parameter, fallback string) string {
			return p.Name + "=" + fallback
		}))
		node := &model.WorkflowNode{ID: "n2", Mappings: map[string]model.ParameterMapping{
			"count": model.UserInput{},
		}}
		assert.Equal(t, []string{"/srv/in", "", "count=3"}, r.Resolve(node, script, outputs))
	})

	t.Run("is pure", func(t *testing.T) {
		node := &model.WorkflowNode{ID: "n2", Mappings: map[string]model.ParameterMapping{
			"path": model.FromOutput{SourceNodeID: "n1", Channel: model.ChannelWorkingDirectory},
		}}
		first := Resolve(node, script, outputs)
		second := Resolve(node, script, outputs)
		assert.Equal(t, first, second)
		assert.Equal(t, []string{"/work", "", "3"}, first)
		assert.Len(t, outputs, 1)
	})
}

func TestValues(t *testing.T) {
	node := &model.WorkflowNode{ID: "n2", Mappings: map[string]model.ParameterMapping{
		"path": model.Constant{Value: "/a b"},
	}}
	values := New().Values(node, testScript(), nil)
	assert.Equal(t, map[string]string{"path": "/a b", "label": "", "count": "3"}, values)
}

func TestChannelValue(t *testing.T) {
	out := model.NodeOutput{Stdout: "x\n", ExitCode: -1, WorkingDirectory: " /w "}

	v, ok := ChannelValue(out, model.ChannelExitCode)
	assert.True(t, ok)
	assert.Equal(t, "-1", v)

	v, ok = ChannelValue(out, model.ChannelWorkingDirectory)
	assert.True(t, ok)
	assert.Equal(t, " /w ", v)

	_, ok = ChannelValue(out, model.OutputChannel("bogus"))
	assert.False(t, ok)
}

func TestQuoteArgument(t *testing.T) {
	tests := []struct {
		name  string
		typ   model.ParamType
		value string
		want  string
	}{
		{"directory with space", model.ParamDirectory, "/tmp/out dir", `"/tmp/out dir"`},
		{"file with space", model.ParamFile, "my file.txt", `"my file.txt"`},
		{"directory without space", model.ParamDirectory, "/tmp/out", "/tmp/out"},
		{"text with space", model.ParamText, "hello world", "hello world"},
		{"choice with space", model.ParamChoice, "a b", "a b"},
		{"surrounding blanks dropped", model.ParamDirectory, "  /tmp/x\t", "/tmp/x"},
		{"empty", model.ParamFile, "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, QuoteArgument(model.Parameter{Type: tc.typ}, tc.value))
		})
	}
}

func TestArguments(t *testing.T) {
	args := Arguments(testScript(), map[string]string{"path": "/my dir", "label": "x"})
	assert.Equal(t, []string{`"/my dir"`, "x", "3"}, args)
}
