package metadata

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
)

// Expression is a compiled CEL predicate over a field, e.g.
//
//	field.type == "select" && field.options > 2
//
// Variables: field.type, field.meta_key, field.taxonomy, field.kind,
// field.name, field.options (option count), field.generated.
type Expression struct {
	source  string
	program cel.Program
}

var (
	fieldEnvOnce sync.Once
	fieldEnv     *cel.Env
	fieldEnvErr  error

	programCache sync.Map // source -> cel.Program
)

func newFieldEnv() (*cel.Env, error) {
	fieldEnvOnce.Do(func() {
		fieldEnv, fieldEnvErr = cel.NewEnv(cel.Variable("field", cel.MapType(cel.StringType, cel.DynType)))
	})
	return fieldEnv, fieldEnvErr
}

// CompileExpression parses and type-checks src.
func CompileExpression(src string) (*Expression, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, errors.New("expression required")
	}
	if cached, ok := programCache.Load(src); ok {
		return &Expression{source: src, program: cached.(cel.Program)}, nil
	}

	env, err := newFieldEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(src)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", src, issues.Err())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", src, err)
	}
	programCache.Store(src, program)
	return &Expression{source: src, program: program}, nil
}

// String returns the expression source.
func (e *Expression) String() string {
	return e.source
}

// Match evaluates the expression against def. Non-boolean results are errors.
func (e *Expression) Match(def FieldDefinition) (bool, error) {
	out, _, err := e.program.Eval(map[string]any{"field": fieldVars(def)})
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", e.source, err)
	}
	v, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("eval %q: result is %T, want bool", e.source, out.Value())
	}
	return v, nil
}

func fieldVars(def FieldDefinition) map[string]any {
	return map[string]any{
		"type":      string(def.Type),
		"meta_key":  def.MetaKey,
		"taxonomy":  def.Taxonomy,
		"kind":      string(def.Kind),
		"name":      def.Name,
		"options":   int64(len(def.Options)),
		"generated": def.Generated,
	}
}
