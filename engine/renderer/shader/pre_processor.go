// pre_processor.go implements the WGSL include pre-processor. Lines of the form
// `//@include <name>` are replaced with a registered WGSL snippet, which lets shaders
// share the Go-side uniform struct definitions instead of repeating them.
package shader

import (
	"fmt"
	"strings"
)

// includePrefix marks an include directive inside a WGSL line comment.
const includePrefix = "//@include"

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// includes maps include names to the WGSL text injected for them.
	includes map[string]string
}

// PreProcessor expands include directives in WGSL source.
type PreProcessor interface {
	// Register adds or replaces a named snippet.
	//
	// Parameters:
	//   - name: the include name used after //@include
	//   - source: the WGSL text to inject
	Register(name, source string)

	// Process replaces every include line with its registered snippet. Each name is
	// injected at most once; repeated includes of the same name expand to nothing.
	//
	// Parameters:
	//   - source: the raw WGSL source
	//
	// Returns:
	//   - string: the expanded source
	//   - error: an error if an include is malformed or not registered
	Process(source string) (string, error)
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with no registered snippets.
//
// Returns:
//   - PreProcessor: the empty pre-processor
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		includes: make(map[string]string),
	}
}

func (p *preProcessor) Register(name, source string) {
	p.includes[name] = source
}

func (p *preProcessor) Process(source string) (string, error) {
	var sb strings.Builder
	sb.Grow(len(source))
	seen := make(map[string]bool)

	for i, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, includePrefix) {
			sb.WriteString(line)
			sb.WriteByte('\n')
			continue
		}

		fields := strings.Fields(strings.TrimPrefix(trimmed, includePrefix))
		if len(fields) != 1 {
			return "", fmt.Errorf("line %d: include expects exactly one name, got %q", i+1, trimmed)
		}
		name := fields[0]
		snippet, ok := p.includes[name]
		if !ok {
			return "", fmt.Errorf("line %d: unknown include %q", i+1, name)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		sb.WriteString(strings.TrimRight(snippet, "\n"))
		sb.WriteByte('\n')
	}

	return strings.TrimSuffix(sb.String(), "\n"), nil
}
