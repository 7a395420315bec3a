// Package cfg builds control-flow graphs over lowered bodies.
package cfg

import (
	"fmt"
	"io"
	"strings"

	"delta/interpreter-go/pkg/bound"
	"delta/interpreter-go/pkg/lowerer"
	"delta/interpreter-go/pkg/runtime"
	"delta/interpreter-go/pkg/symbols"
)

// BasicBlock is a run of statements with no internal jumps or jump targets.
type BasicBlock struct {
	ID         int
	IsStart    bool
	IsEnd      bool
	Statements []bound.Statement
	Incoming   []*BranchEdge
	Outgoing   []*BranchEdge
}

func (b *BasicBlock) String() string {
	switch {
	case b.IsStart:
		return "<Start>"
	case b.IsEnd:
		return "<End>"
	}
	var sb strings.Builder
	for _, stmt := range b.Statements {
		sb.WriteString(strings.TrimSpace(bound.Format(stmt)))
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}

// BranchEdge connects two blocks. Condition is nil for unconditional edges.
type BranchEdge struct {
	From      *BasicBlock
	To        *BasicBlock
	Condition bound.Expression
}

func (e *BranchEdge) String() string {
	if e.Condition == nil {
		return ""
	}
	return bound.FormatExpression(e.Condition)
}

// Graph is the control-flow graph of one body.
type Graph struct {
	Start  *BasicBlock
	End    *BasicBlock
	Blocks []*BasicBlock
	Edges  []*BranchEdge
}

// AllPathsReturn reports whether every path from the start of a lowered body
// to its end passes through a return statement.
func AllPathsReturn(body *bound.BlockStatement) bool {
	g := Build(body)
	for _, edge := range g.End.Incoming {
		stmts := edge.From.Statements
		if len(stmts) == 0 {
			return false
		}
		if _, ok := stmts[len(stmts)-1].(*bound.ReturnStatement); !ok {
			return false
		}
	}
	return true
}

// Build partitions a lowered, flattened body into basic blocks, connects
// them and removes blocks that cannot be reached.
func Build(body *bound.BlockStatement) *Graph {
	blocks := partition(body.Statements)
	g := &graphBuilder{
		graph: &Graph{
			Start: &BasicBlock{IsStart: true},
			End:   &BasicBlock{IsEnd: true},
		},
		byLabel: make(map[*symbols.LabelSymbol]*BasicBlock),
	}
	return g.build(blocks)
}

func partition(stmts []bound.Statement) []*BasicBlock {
	var blocks []*BasicBlock
	var current []bound.Statement
	flush := func() {
		if len(current) == 0 {
			return
		}
		blocks = append(blocks, &BasicBlock{Statements: current})
		current = nil
	}
	for _, stmt := range stmts {
		switch stmt.(type) {
		case *bound.LabelStatement:
			flush()
			current = append(current, stmt)
		case *bound.GotoStatement, *bound.ConditionalGotoStatement, *bound.ReturnStatement:
			current = append(current, stmt)
			flush()
		case *bound.VariableDeclaration, *bound.ExpressionStatement, *bound.ErrorStatement:
			current = append(current, stmt)
		default:
			panic(fmt.Sprintf("cfg: unexpected statement %T in lowered body", stmt))
		}
	}
	flush()
	return blocks
}

type graphBuilder struct {
	graph   *Graph
	byLabel map[*symbols.LabelSymbol]*BasicBlock
}

func (g *graphBuilder) build(blocks []*BasicBlock) *Graph {
	for i, block := range blocks {
		block.ID = i + 1
		if label, ok := block.Statements[0].(*bound.LabelStatement); ok {
			g.byLabel[label.Label] = block
		}
	}

	if len(blocks) == 0 {
		g.connect(g.graph.Start, g.graph.End, nil)
	} else {
		g.connect(g.graph.Start, blocks[0], nil)
	}

	for i, block := range blocks {
		next := g.graph.End
		if i+1 < len(blocks) {
			next = blocks[i+1]
		}
		last := block.Statements[len(block.Statements)-1]
		switch s := last.(type) {
		case *bound.GotoStatement:
			g.connect(block, g.target(s.Label), nil)
		case *bound.ConditionalGotoStatement:
			thenCond := s.Condition
			elseCond := negate(s.Condition)
			if !s.JumpIfTrue {
				thenCond, elseCond = elseCond, thenCond
			}
			g.connect(block, g.target(s.Label), thenCond)
			g.connect(block, next, elseCond)
		case *bound.ReturnStatement:
			g.connect(block, g.graph.End, nil)
		default:
			g.connect(block, next, nil)
		}
	}

	g.graph.Blocks = blocks
	g.prune()

	g.graph.Start.ID = 0
	g.graph.End.ID = len(blocks) + 1
	return g.graph
}

func (g *graphBuilder) target(label *symbols.LabelSymbol) *BasicBlock {
	block, ok := g.byLabel[label]
	if !ok {
		panic(fmt.Sprintf("cfg: jump to unknown label %s", label.Name()))
	}
	return block
}

func (g *graphBuilder) connect(from, to *BasicBlock, cond bound.Expression) {
	edge := &BranchEdge{From: from, To: to, Condition: cond}
	from.Outgoing = append(from.Outgoing, edge)
	to.Incoming = append(to.Incoming, edge)
	g.graph.Edges = append(g.graph.Edges, edge)
}

// prune removes blocks without incoming edges until none remain, since
// removing one block can orphan its successors.
func (g *graphBuilder) prune() {
	for {
		removed := false
		kept := g.graph.Blocks[:0]
		for _, block := range g.graph.Blocks {
			if len(block.Incoming) > 0 {
				kept = append(kept, block)
				continue
			}
			removed = true
			for _, edge := range block.Outgoing {
				edge.To.Incoming = removeEdge(edge.To.Incoming, edge)
				g.graph.Edges = removeEdge(g.graph.Edges, edge)
			}
		}
		g.graph.Blocks = kept
		if !removed {
			return
		}
	}
}

func removeEdge(edges []*BranchEdge, target *BranchEdge) []*BranchEdge {
	out := edges[:0]
	for _, edge := range edges {
		if edge != target {
			out = append(out, edge)
		}
	}
	return out
}

func negate(cond bound.Expression) bound.Expression {
	if value, ok := lowerer.ConstantBool(cond); ok {
		return bound.NewLiteral(cond.Span(), runtime.BoolValue{Val: !value})
	}
	op := bound.MustUnaryOperator("!", symbols.Bool)
	return bound.NewUnaryExpression(cond.Span(), op, cond)
}

// WriteDOT renders the graph in Graphviz format.
func (g *Graph) WriteDOT(w io.Writer) error {
	var b strings.Builder
	b.WriteString("digraph G {\n")
	all := append([]*BasicBlock{g.Start}, g.Blocks...)
	all = append(all, g.End)
	ids := make(map[*BasicBlock]string, len(all))
	for i, block := range all {
		id := fmt.Sprintf("N%d", i)
		ids[block] = id
		fmt.Fprintf(&b, "    %s [label = \"%s\", shape = box]\n", id, dotEscape(block.String()))
	}
	for _, edge := range g.Edges {
		fmt.Fprintf(&b, "    %s -> %s [label = \"%s\"]\n", ids[edge.From], ids[edge.To], dotEscape(edge.String()))
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func dotEscape(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, `"`, `\"`)
	return strings.ReplaceAll(text, "\n", `\l`)
}
