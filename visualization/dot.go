package visualization

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/anggasct/statechart"
)

// DOTGenerator generates Graphviz DOT format representations of charts
type DOTGenerator struct {
	def     *statechart.Definition
	options DOTOptions
}

// DOTOptions configures the DOT generation
type DOTOptions struct {
	ShowGuardConditions bool
	ShowActions         bool
	ShowPseudostates    bool
	RankDirection       string // "TB", "LR", "BT", "RL"
	NodeShape           string
	PseudostateShape    string
	StateColor          string
	ActiveColor         string
	CompositeColor      string
	ParallelColor       string
}

// DefaultDOTOptions returns sensible default options for DOT generation
func DefaultDOTOptions() DOTOptions {
	return DOTOptions{
		ShowGuardConditions: true,
		ShowActions:         true,
		ShowPseudostates:    true,
		RankDirection:       "TB",
		NodeShape:           "box",
		PseudostateShape:    "circle",
		StateColor:          "lightblue",
		ActiveColor:         "lightgreen",
		CompositeColor:      "lightcyan",
		ParallelColor:       "lavender",
	}
}

// NewDOTGenerator creates a new DOT generator for the given definition
func NewDOTGenerator(def *statechart.Definition, options ...DOTOptions) *DOTGenerator {
	opts := DefaultDOTOptions()
	if len(options) > 0 {
		opts = options[0]
	}

	return &DOTGenerator{
		def:     def,
		options: opts,
	}
}

// Generate creates a DOT representation of the chart topology
func (g *DOTGenerator) Generate() (string, error) {
	return g.generate(nil)
}

// GenerateActive creates a DOT representation with the active configuration of
// chart highlighted. The chart must run the generator's definition.
func (g *DOTGenerator) GenerateActive(chart *statechart.Statechart) (string, error) {
	if chart.Definition() != g.def {
		return "", fmt.Errorf("chart %s does not run definition %s", chart.ID(), g.def.Name())
	}
	return g.generate(chart)
}

func (g *DOTGenerator) generate(chart *statechart.Statechart) (string, error) {
	if g.def == nil {
		return "", fmt.Errorf("no definition to render")
	}
	var dot strings.Builder

	dot.WriteString(fmt.Sprintf("digraph %q {\n", g.def.Name()))
	dot.WriteString("  compound=true;\n")
	dot.WriteString(fmt.Sprintf("  rankdir=%s;\n", g.options.RankDirection))
	dot.WriteString(fmt.Sprintf("  node [shape=%s];\n", g.options.NodeShape))
	dot.WriteString("  edge [fontsize=10];\n\n")

	dot.WriteString("  // States\n")
	for _, child := range g.def.Children(statechart.RootID) {
		g.generateState(&dot, chart, child, "  ")
	}

	dot.WriteString("\n  // Transitions\n")
	for id := 0; id < g.def.Len(); id++ {
		for _, t := range g.def.Transitions(statechart.StateID(id)) {
			g.generateTransition(&dot, t)
		}
	}

	dot.WriteString("}\n")
	return dot.String(), nil
}

func nodeID(id statechart.StateID) string {
	return fmt.Sprintf("s%d", int(id))
}

func clusterID(id statechart.StateID) string {
	return fmt.Sprintf("cluster_%d", int(id))
}

func isComposite(kind statechart.Kind) bool {
	return kind == statechart.KindHierarchical || kind == statechart.KindConcurrent
}

// generateState writes a node, or a cluster holding the children of a composite
func (g *DOTGenerator) generateState(dot *strings.Builder, chart *statechart.Statechart, id statechart.StateID, indent string) {
	kind := g.def.StateKind(id)
	name := g.def.StateName(id)
	active := chart != nil && chart.IsActive(id)

	if isComposite(kind) {
		color := g.options.CompositeColor
		style := "rounded,filled"
		if kind == statechart.KindConcurrent {
			color = g.options.ParallelColor
		}
		if g.def.Parent(id) != statechart.RootID && g.def.StateKind(g.def.Parent(id)) == statechart.KindConcurrent {
			style = "dashed,filled"
		}
		if active {
			color = g.options.ActiveColor
		}

		dot.WriteString(fmt.Sprintf("%ssubgraph %s {\n", indent, clusterID(id)))
		dot.WriteString(fmt.Sprintf("%s  label=%q;\n", indent, name))
		dot.WriteString(fmt.Sprintf("%s  style=%q;\n", indent, style))
		dot.WriteString(fmt.Sprintf("%s  fillcolor=%s;\n", indent, color))
		// edges attach to the anchor and are clipped at the cluster border
		dot.WriteString(fmt.Sprintf("%s  %s [shape=point style=invis];\n", indent, nodeID(id)))
		for _, child := range g.def.Children(id) {
			g.generateState(dot, chart, child, indent+"  ")
		}
		dot.WriteString(fmt.Sprintf("%s}\n", indent))
		return
	}

	if kind.IsPseudostate() {
		if !g.options.ShowPseudostates && kind != statechart.KindEnd {
			return
		}
		shape := g.options.PseudostateShape
		switch kind {
		case statechart.KindStart:
			shape = "point"
		case statechart.KindEnd:
			shape = "doublecircle"
		}
		color := "lightyellow"
		if active {
			color = g.options.ActiveColor
		}
		dot.WriteString(fmt.Sprintf("%s%s [shape=%s style=\"filled\" fillcolor=%s label=%q xlabel=%q];\n",
			indent, nodeID(id), shape, color, "", fmt.Sprintf("[%s]", kind)))
		return
	}

	color := g.options.StateColor
	if active {
		color = g.options.ActiveColor
	}
	dot.WriteString(fmt.Sprintf("%s%s [style=\"filled\" fillcolor=%s label=%q];\n", indent, nodeID(id), color, name))
}

// generateTransition writes one edge labelled "event [guard] / action"
func (g *DOTGenerator) generateTransition(dot *strings.Builder, t *statechart.Transition) {
	from, to := t.Source(), t.Target()
	if !g.options.ShowPseudostates {
		if k := g.def.StateKind(from); k == statechart.KindStart || k == statechart.KindHistory {
			return
		}
		if k := g.def.StateKind(to); k == statechart.KindStart || k == statechart.KindHistory {
			return
		}
	}

	var attrs []string
	if label := g.transitionLabel(t); label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", label))
	}
	if isComposite(g.def.StateKind(from)) {
		attrs = append(attrs, "ltail="+clusterID(from))
	}
	if isComposite(g.def.StateKind(to)) && from != to {
		attrs = append(attrs, "lhead="+clusterID(to))
	}

	dot.WriteString(fmt.Sprintf("  %s -> %s", nodeID(from), nodeID(to)))
	if len(attrs) > 0 {
		dot.WriteString(" [" + strings.Join(attrs, " ") + "]")
	}
	dot.WriteString(";\n")
}

func (g *DOTGenerator) transitionLabel(t *statechart.Transition) string {
	var parts []string
	if event, ok := t.Event(); ok {
		parts = append(parts, string(event))
	}
	if g.options.ShowGuardConditions && t.Guarded() {
		parts = append(parts, "[guard]")
	}
	if g.options.ShowActions && t.HasAction() {
		parts = append(parts, "/ "+t.Name())
	}
	return strings.Join(parts, " ")
}

// GenerateToFile writes the DOT representation to a file
func (g *DOTGenerator) GenerateToFile(filename string) error {
	content, err := g.Generate()
	if err != nil {
		return err
	}

	return os.WriteFile(filename, []byte(content), 0644)
}

// SVGGenerator generates SVG representations by calling Graphviz
type SVGGenerator struct {
	dotGenerator *DOTGenerator
}

// NewSVGGenerator creates a new SVG generator
func NewSVGGenerator(def *statechart.Definition, options ...DOTOptions) *SVGGenerator {
	return &SVGGenerator{
		dotGenerator: NewDOTGenerator(def, options...),
	}
}

// Generate creates an SVG representation of the chart
func (g *SVGGenerator) Generate() (string, error) {
	dotContent, err := g.dotGenerator.Generate()
	if err != nil {
		return "", err
	}

	cmd := exec.Command("dot", "-Tsvg")
	cmd.Stdin = strings.NewReader(dotContent)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to execute dot command: %w (make sure Graphviz is installed)", err)
	}

	return out.String(), nil
}

// GenerateSVG creates an SVG representation of the chart
func (g *DOTGenerator) GenerateSVG() (string, error) {
	svgGen := &SVGGenerator{dotGenerator: g}
	return svgGen.Generate()
}
