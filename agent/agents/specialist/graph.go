package specialist

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
)

const (
	nodeLookupCache = "lookup_cache"
	nodeCachedReply = "cached_reply"
	nodeExtract     = "extract_query"
	nodeGenerate    = "generate"
	nodeFinalize    = "finalize"
)

// compileAnsweringGraph wires the answer pipeline. A cache hit short-circuits
// straight to cached_reply.
func compileAnsweringGraph(
	ctx context.Context,
	a *answeringAgent,
) (compose.Runnable[*answerRequest, contractx.AgentResponse], error) {
	graph := compose.NewGraph[*answerRequest, contractx.AgentResponse]()

	if err := graph.AddLambdaNode(nodeLookupCache, compose.InvokableLambda(a.lookupCache)); err != nil {
		return nil, fmt.Errorf("add answering lookup node: %w", err)
	}
	if err := graph.AddLambdaNode(nodeCachedReply, compose.InvokableLambda(a.cachedReply)); err != nil {
		return nil, fmt.Errorf("add answering cached reply node: %w", err)
	}
	if err := graph.AddLambdaNode(nodeExtract, compose.InvokableLambda(a.extractQuery)); err != nil {
		return nil, fmt.Errorf("add answering extract node: %w", err)
	}
	if err := graph.AddLambdaNode(nodeGenerate, compose.InvokableLambda(a.generate)); err != nil {
		return nil, fmt.Errorf("add answering generate node: %w", err)
	}
	if err := graph.AddLambdaNode(nodeFinalize, compose.InvokableLambda(a.finalize)); err != nil {
		return nil, fmt.Errorf("add answering finalize node: %w", err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *answerState) (string, error) {
			if in == nil {
				return "", fmt.Errorf("%w: answer state is nil", contractx.ErrValidation)
			}
			if in.Cached != "" {
				return nodeCachedReply, nil
			}
			return nodeExtract, nil
		},
		map[string]bool{
			nodeCachedReply: true,
			nodeExtract:     true,
		},
	)

	if err := graph.AddEdge(compose.START, nodeLookupCache); err != nil {
		return nil, fmt.Errorf("add answering edge start->lookup: %w", err)
	}
	if err := graph.AddBranch(nodeLookupCache, branch); err != nil {
		return nil, fmt.Errorf("add answering cache branch: %w", err)
	}
	if err := graph.AddEdge(nodeCachedReply, compose.END); err != nil {
		return nil, fmt.Errorf("add answering edge cached->end: %w", err)
	}
	if err := graph.AddEdge(nodeExtract, nodeGenerate); err != nil {
		return nil, fmt.Errorf("add answering edge extract->generate: %w", err)
	}
	if err := graph.AddEdge(nodeGenerate, nodeFinalize); err != nil {
		return nil, fmt.Errorf("add answering edge generate->finalize: %w", err)
	}
	if err := graph.AddEdge(nodeFinalize, compose.END); err != nil {
		return nil, fmt.Errorf("add answering edge finalize->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("specialist.answering_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile answering graph: %w", err)
	}
	return runner, nil
}
