// Package export renders chains in external formats for inspection.
//
// The only format today is Graphviz DOT: each step becomes a box node
// labeled with its name and carrying its type labels as a tooltip, with
// edges following execution order. Node fills are interpolated along a
// color gradient so long chains read as a progression. Rendering never
// touches the chain itself.
package export

import (
	"fmt"
	"io"
	"text/template"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	colors "gopkg.in/go-playground/colors.v1"

	"github.com/zoobzio/chainz"
)

// RGB is a gradient endpoint.
type RGB struct {
	R, G, B uint8
}

// DOTOption adjusts how a chain is rendered.
type DOTOption func(*dotConfig)

type dotConfig struct {
	from, to RGB
	attrs    map[string]string
}

// WithGradient sets the node fill gradient endpoints. The first step is
// filled with from, the last with to, and steps between are interpolated
// linearly.
func WithGradient(from, to RGB) DOTOption {
	return func(cfg *dotConfig) {
		cfg.from, cfg.to = from, to
	}
}

// WithGraphAttribute sets a top-level graph attribute such as rankdir or
// bgcolor.
func WithGraphAttribute(key, value string) DOTOption {
	return func(cfg *dotConfig) {
		cfg.attrs[key] = value
	}
}

// DOT writes c as a Graphviz digraph to w.
func DOT(w io.Writer, c *chainz.Chain, opts ...DOTOption) error {
	if c == nil {
		return errors.New("no chain to render")
	}
	cfg := dotConfig{
		from:  RGB{R: 141, G: 211, B: 255},
		to:    RGB{R: 152, G: 251, B: 152},
		attrs: map[string]string{"rankdir": "LR"},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	g := graph.New(graph.StringHash, graph.Directed())

	total := c.Len()
	keys := make([]string, 0, total)
	i := 0
	for step := range c.Steps() {
		key := fmt.Sprintf("%d_%s", i, step.String())
		fill, err := blend(cfg.from, cfg.to, i, total)
		if err != nil {
			return err
		}
		err = g.AddVertex(key,
			graph.VertexAttribute("label", step.String()),
			graph.VertexAttribute("shape", "box"),
			graph.VertexAttribute("style", "filled"),
			graph.VertexAttribute("fillcolor", fill),
			graph.VertexAttribute("tooltip", fmt.Sprintf("%s -> %s", step.InputLabel(), step.OutputLabel())),
		)
		if err != nil {
			return errors.Wrapf(err, "unable to add vertex %s", key)
		}
		if i > 0 {
			if err := g.AddEdge(keys[i-1], key); err != nil {
				return errors.Wrapf(err, "unable to add edge from %s to %s", keys[i-1], key)
			}
		}
		keys = append(keys, key)
		i++
	}

	doc, err := generateDOT(g, keys, cfg.attrs)
	if err != nil {
		return err
	}
	return renderDOT(w, doc)
}

// blend interpolates between the gradient endpoints for step i of total.
func blend(from, to RGB, i, total int) (string, error) {
	fraction := 0.0
	if total > 1 {
		fraction = float64(i) / float64(total-1)
	}
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*fraction)
	}
	rgb, err := colors.RGB(mix(from.R, to.R), mix(from.G, to.G), mix(from.B, to.B))
	if err != nil {
		return "", errors.Wrap(err, "unable to get colour")
	}
	return rgb.ToHEX().String(), nil
}

type document struct {
	Attributes map[string]string
	Statements []statement
}

type statement struct {
	Source     string
	Target     string
	Attributes map[string]string
}

// generateDOT flattens the graph into ordered statements: one vertex
// statement per step in execution order, each followed by its outgoing
// edge. Walking keys rather than the adjacency map keeps the output
// deterministic.
func generateDOT(g graph.Graph[string, string], keys []string, attrs map[string]string) (document, error) {
	doc := document{
		Attributes: attrs,
		Statements: make([]statement, 0, len(keys)*2),
	}

	adjacency, err := g.AdjacencyMap()
	if err != nil {
		return doc, errors.Wrap(err, "unable to get adjacency map")
	}

	for _, key := range keys {
		_, properties, err := g.VertexWithProperties(key)
		if err != nil {
			return doc, errors.Wrapf(err, "unable to get vertex properties for %s", key)
		}
		doc.Statements = append(doc.Statements, statement{
			Source:     key,
			Attributes: properties.Attributes,
		})
		for target := range adjacency[key] {
			doc.Statements = append(doc.Statements, statement{
				Source: key,
				Target: target,
			})
		}
	}

	return doc, nil
}

const dotTemplate = `strict digraph {
{{- range $k, $v := .Attributes}}
	{{$k}}="{{$v}}";
{{- end}}
{{- range $s := .Statements}}
{{- if $s.Target}}
	"{{$s.Source}}" -> "{{$s.Target}}";
{{- else}}
	"{{$s.Source}}" [ {{range $k, $v := $s.Attributes}}{{$k}}="{{$v}}", {{end}}];
{{- end}}
{{- end}}
}
`

func renderDOT(w io.Writer, doc document) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	if err := tpl.Execute(w, doc); err != nil {
		return errors.Wrap(err, "unable to execute template")
	}
	return nil
}
