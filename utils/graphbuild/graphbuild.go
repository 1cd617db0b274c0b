// Package graphbuild builds the hierarchical cluster graph a compiled
// workflow tree produces: one subcluster per sub-workflow, edges added
// at the LCA cluster of their endpoints, siblings inserted in reverse
// declaration order -- a layout-engine quirk working around graphviz's
// bottom-up rendering of repeated subgraph inserts.
//
// gonum.org/v1/gonum's graph/encoding/dot encoder has no notion of
// nested clusters, so ClusterGraph keeps one gonum simple.DirectedGraph
// per cluster and assembles the final nested "subgraph cluster_x { ... }"
// text itself; this string assembly is plain stdlib-adjacent code
// because no library in the retrieved corpus emits nested-cluster DOT.
package graphbuild

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// Node is one graphviz node: an atomic tool step, a workflow input, or a
// workflow output, depending on color.
type Node struct {
	ID    int64
	Label string
	Color string // "", "green" (input), or "yellow" (output)
}

// edgeKey identifies one directed edge by its endpoint node ids, used
// to look up the display label gonum's plain graph.Edge doesn't carry.
type edgeKey struct{ from, to int64 }

// Cluster is one subgraph in the hierarchy, keyed by its namespace path
// joined with "/". The root cluster has an empty Path. g is the actual
// node/edge topology -- AddNode and AddEdge mutate it directly, and
// rendering reads edges back out of it via Edges(), rather than
// maintaining a parallel adjacency list -- edgeLabels supplements it
// with the one thing gonum's graph.Edge doesn't carry, a display label.
type Cluster struct {
	Path       string // "" for root, else "parent/child/..."
	Label      string
	g          *simple.DirectedGraph
	nodes      map[string]int64
	labels     map[int64]Node
	edgeLabels map[edgeKey]string
	// childOrder records the order children were first registered in;
	// rendering reverses it per the layout quirk above.
	childOrder []string
}

// ClusterGraph is the full hierarchy, one Cluster per compiled namespace.
type ClusterGraph struct {
	clusters map[string]*Cluster
	rootPath string
	nextID   int64
}

func New() *ClusterGraph {
	cg := &ClusterGraph{clusters: map[string]*Cluster{}}
	cg.cluster("")
	return cg
}

func (cg *ClusterGraph) cluster(path string) *Cluster {
	if c, ok := cg.clusters[path]; ok {
		return c
	}
	c := &Cluster{
		Path:   path,
		g:      simple.NewDirectedGraph(),
		nodes:  map[string]int64{},
		labels: map[int64]Node{},
	}
	cg.clusters[path] = c
	if path != "" {
		parent := parentPath(path)
		pc := cg.cluster(parent)
		pc.childOrder = append(pc.childOrder, path)
	}
	return c
}

func parentPath(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return ""
	}
	return path[:idx]
}

// AddSubworkflow registers a new cluster for a sub-workflow at
// namespace path ("/"-joined), so that later AddNode/AddEdge calls can
// target it. Label is the subgraph's display label, typically the
// sub-workflow's filename; the renderer always emits it quoted.
func (cg *ClusterGraph) AddSubworkflow(namespace []string, label string) {
	path := strings.Join(namespace, "/")
	c := cg.cluster(path)
	c.Label = label
}

// AddNode adds a node to the cluster at namespace path. Returns the
// node's graph-local id for edge bookkeeping.
func (cg *ClusterGraph) AddNode(namespace []string, label, color string) int64 {
	c := cg.cluster(strings.Join(namespace, "/"))
	return cg.ensureNode(c, label, color)
}

// ensureNode returns label's existing node id in c, or registers it (in
// both c.g and the label index) and returns the new id.
func (cg *ClusterGraph) ensureNode(c *Cluster, label, color string) int64 {
	if id, ok := c.nodes[label]; ok {
		return id
	}
	id := cg.nextID
	cg.nextID++
	c.g.AddNode(simple.Node(id))
	c.nodes[label] = id
	c.labels[id] = Node{ID: id, Label: label, Color: color}
	return id
}

// AddEdge adds an edge between two node labels, at the cluster
// identified by lcaNamespace -- the caller (the compiler, via
// utils/lca) determines that cluster as the lowest common ancestor of
// the edge's two endpoints. Either endpoint is registered as a plain,
// uncolored node first if AddNode hasn't already been called for it.
func (cg *ClusterGraph) AddEdge(lcaNamespace []string, from, to, label string) {
	c := cg.cluster(strings.Join(lcaNamespace, "/"))
	fromID := cg.ensureNode(c, from, "")
	toID := cg.ensureNode(c, to, "")
	c.g.SetEdge(simple.Edge{F: simple.Node(fromID), T: simple.Node(toID)})
	if c.edgeLabels == nil {
		c.edgeLabels = map[edgeKey]string{}
	}
	c.edgeLabels[edgeKey{fromID, toID}] = label
}

// RenderDOT serializes the full hierarchy as a single DOT digraph with
// nested "subgraph cluster_<n>" blocks, labelEdges controlling whether
// edge labels are emitted (the GraphLabelEdges option).
func (cg *ClusterGraph) RenderDOT(labelEdges bool) string {
	var b strings.Builder
	b.WriteString("digraph workflow {\n")
	cg.renderCluster(&b, "", 1, labelEdges)
	b.WriteString("}\n")
	return b.String()
}

func (cg *ClusterGraph) renderCluster(b *strings.Builder, path string, indent int, labelEdges bool) {
	c := cg.clusters[path]
	pad := strings.Repeat("  ", indent)

	if path != "" {
		fmt.Fprintf(b, "%ssubgraph \"cluster_%s\" {\n", pad, sanitize(path))
		fmt.Fprintf(b, "%s  label=%s;\n", pad, quoteLabel(c.Label))
	}

	inner := indent
	if path != "" {
		inner++
	}
	innerPad := strings.Repeat("  ", inner)

	// Emit this cluster's own nodes in id order for determinism.
	ids := make([]int64, 0, len(c.labels))
	for id := range c.labels {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		n := c.labels[id]
		attrs := ""
		if n.Color != "" {
			attrs = fmt.Sprintf(" [style=filled,fillcolor=%s]", n.Color)
		}
		fmt.Fprintf(b, "%s%s%s;\n", innerPad, quoteID(n.Label), attrs)
	}

	// Reverse-insert sibling subclusters: a layout quirk carried over
	// from the original compiler, which relies on later graphviz
	// versions rendering repeated subgraph inserts bottom-up.
	for i := len(c.childOrder) - 1; i >= 0; i-- {
		cg.renderCluster(b, c.childOrder[i], inner, labelEdges)
	}

	for _, ek := range sortedEdgeKeys(c.g.Edges()) {
		fromLabel := c.labels[ek.from].Label
		toLabel := c.labels[ek.to].Label
		label := c.edgeLabels[ek]
		if labelEdges && label != "" {
			fmt.Fprintf(b, "%s%s -> %s [label=%s];\n", innerPad, quoteID(fromLabel), quoteID(toLabel), quoteLabel(label))
		} else {
			fmt.Fprintf(b, "%s%s -> %s;\n", innerPad, quoteID(fromLabel), quoteID(toLabel))
		}
	}

	// Rank-alignment: align first-step nodes of sibling subclusters by
	// emitting a `{rank=same; a; b; c}` directive so the first step of
	// each sibling sub-workflow lines up visually.
	if len(c.childOrder) > 1 {
		firsts := make([]string, 0, len(c.childOrder))
		for _, childPath := range c.childOrder {
			child := cg.clusters[childPath]
			if first, ok := firstNodeLabel(child); ok {
				firsts = append(firsts, quoteID(first))
			}
		}
		if len(firsts) > 1 {
			fmt.Fprintf(b, "%s{ rank=same; %s; }\n", innerPad, strings.Join(firsts, "; "))
		}
	}

	if path != "" {
		fmt.Fprintf(b, "%s}\n", pad)
	}
}

// sortedEdgeKeys drains a gonum edge iterator into a deterministically
// ordered slice, since map-backed graph.Edges() iteration order isn't
// stable across runs and DOT output must be reproducible.
func sortedEdgeKeys(it graph.Edges) []edgeKey {
	keys := make([]edgeKey, 0, it.Len())
	for it.Next() {
		e := it.Edge()
		keys = append(keys, edgeKey{from: e.From().ID(), to: e.To().ID()})
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].from != keys[j].from {
			return keys[i].from < keys[j].from
		}
		return keys[i].to < keys[j].to
	})
	return keys
}

func firstNodeLabel(c *Cluster) (string, bool) {
	best := int64(-1)
	label := ""
	for id, n := range c.labels {
		if best == -1 || id < best {
			best = id
			label = n.Label
		}
	}
	return label, best != -1
}

func sanitize(path string) string {
	return strings.NewReplacer("/", "_", ".", "_").Replace(path)
}

func quoteID(label string) string {
	return strconv.Quote(label)
}

// quoteLabel quotes a cluster label, handling the special case of
// subgraph labels that start with a period (".yml"-named sub-workflows),
// though here every label is quoted unconditionally since Go's DOT
// writer has no bare-identifier fast path worth keeping.
func quoteLabel(label string) string {
	return strconv.Quote(label)
}
