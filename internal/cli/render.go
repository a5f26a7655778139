package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mitranim/sqli"
)

// QueryDoc is a query document loaded by the render command:
//
//	text: select * from users /**where**/ order by id
//	where:
//	  - text: age > {0}
//	    args: [18]
//	  - or:
//	      - text: name = '{0}'
//	        args: [Alice]
//	      - text: name = '{0}'
//	        args: [Bob]
type QueryDoc struct {
	Text  string      `yaml:"text"`
	Args  []any       `yaml:"args"`
	Op    string      `yaml:"op"` // joins top-level filters: "and" (default) | "or"
	Where []FilterDoc `yaml:"where"`
}

// FilterDoc is one node of the filter tree. Exactly one of Text, And, Or
// must be set.
type FilterDoc struct {
	Text string      `yaml:"text"`
	Args []any       `yaml:"args"`
	And  []FilterDoc `yaml:"and"`
	Or   []FilterDoc `yaml:"or"`
}

// ErrInvalidDoc reports a malformed query document.
var ErrInvalidDoc = errors.New("invalid query document")

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <file.yaml>",
		Short: "Build a query from a YAML document with a filter tree",
		Long: `Build a query from a YAML document: a template with optional arguments,
and a tree of "and"/"or" filter groups. Filters are substituted into the
"/**where**/", "{where}", "/**filters**/" or "{filters}" marker of the
template, or appended as a WHERE clause. Use "-" to read from stdin.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(rootOpts, cmd, args[0])
		},
	}

	return cmd
}

func runRender(opts *RootOptions, cmd *cobra.Command, path string) error {
	log := opts.Logger()

	src, err := readSource(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	doc, err := ParseQueryDoc(src)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	log.Debug("query document loaded", "path", path, "filters", len(doc.Where))

	query, err := BuildQuery(doc, sqli.Compiler{Prefix: opts.Prefix})
	if err != nil {
		return fmt.Errorf("building query from %s: %w", path, err)
	}

	var text string
	if err := sqli.Catch(func() { text = query.String() }); err != nil {
		return fmt.Errorf("rendering query: %w", err)
	}

	log.Debug("query rendered", "params", query.Params.Len())
	return newFormatter(opts, cmd).Statement(text, query.Params)
}

func readSource(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		src, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return src, nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return src, nil
}

// ParseQueryDoc decodes a query document, rejecting unknown fields.
func ParseQueryDoc(src []byte) (*QueryDoc, error) {
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)

	var doc QueryDoc
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDoc)
		}
		return nil, err
	}
	return &doc, nil
}

// BuildQuery compiles the document's template and filters with the given
// compiler. Template errors such as out-of-range placeholders are returned as
// errors matching the sqli error variables.
func BuildQuery(doc *QueryDoc, compiler sqli.Compiler) (query *sqli.Query, err error) {
	op, err := parseOp(doc.Op)
	if err != nil {
		return nil, err
	}

	query = &sqli.Query{}
	query.Compiler = compiler
	query.Filters.Op = op

	panicErr := sqli.Catch(func() {
		query.Append(doc.Text, doc.Args...)
		for i, node := range doc.Where {
			var filter sqli.Filter
			filter, err = buildFilter(compiler, node, fmt.Sprintf("where[%d]", i))
			if err != nil {
				return
			}
			query.WhereFilter(filter)
		}
	})
	if panicErr != nil {
		return nil, panicErr
	}
	if err != nil {
		return nil, err
	}
	return query, nil
}

func buildFilter(compiler sqli.Compiler, doc FilterDoc, path string) (sqli.Filter, error) {
	set := 0
	if doc.Text != "" {
		set++
	}
	if doc.And != nil {
		set++
	}
	if doc.Or != nil {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("%w: %s must have exactly one of text, and, or", ErrInvalidDoc, path)
	}

	if doc.Text != "" {
		return sqli.LeafOf(compiler.Compile(sqli.F(doc.Text, doc.Args...))), nil
	}
	if len(doc.Args) > 0 {
		return nil, fmt.Errorf("%w: %s has args without text", ErrInvalidDoc, path)
	}

	group := sqli.And()
	children, key := doc.And, "and"
	if doc.Or != nil {
		group = sqli.Or()
		children, key = doc.Or, "or"
	}

	for i, child := range children {
		filter, err := buildFilter(compiler, child, fmt.Sprintf("%s.%s[%d]", path, key, i))
		if err != nil {
			return nil, err
		}
		group.Add(filter)
	}
	return group, nil
}

func parseOp(val string) (sqli.Op, error) {
	switch strings.ToLower(val) {
	case "", "and":
		return sqli.OpAnd, nil
	case "or":
		return sqli.OpOr, nil
	default:
		return "", fmt.Errorf("%w: unknown op %q", ErrInvalidDoc, val)
	}
}
