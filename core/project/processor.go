package project

import (
	"context"
	"fmt"

	"github.com/odpf/salt/log"

	"github.com/ethan-root/Dataworks/core/node"
	"github.com/ethan-root/Dataworks/ext/dataworks"
	"github.com/ethan-root/Dataworks/internal/errors"
	"github.com/ethan-root/Dataworks/internal/jsondiff"
	"github.com/ethan-root/Dataworks/internal/models"
)

type Client interface {
	FindNode(ctx context.Context, name string) (*dataworks.NodeSummary, error)
	CreateNode(ctx context.Context, spec string) (dataworks.ID, error)
	GetNode(ctx context.Context, id dataworks.ID) (*dataworks.Node, error)
	UpdateNode(ctx context.Context, id dataworks.ID, spec string) error
}

type Outcome string

const (
	Created Outcome = "created"
	Updated Outcome = "updated"
	Skipped Outcome = "skipped"
	Failed  Outcome = "failed"
)

// Result is the outcome of one node
type Result struct {
	NodeName    string
	NodeID      dataworks.ID
	Outcome     Outcome
	Differences jsondiff.Differences
	Err         error
}

type Stats struct {
	Created int
	Updated int
	Skipped int
	Failed  int
}

func (s *Stats) Add(outcome Outcome) {
	switch outcome {
	case Created:
		s.Created++
	case Updated:
		s.Updated++
	case Skipped:
		s.Skipped++
	case Failed:
		s.Failed++
	}
}

func (s Stats) Total() int {
	return s.Created + s.Updated + s.Skipped + s.Failed
}

func (s Stats) String() string {
	return fmt.Sprintf("Created=%d | Updated=%d | Skipped=%d | Failed=%d", s.Created, s.Updated, s.Skipped, s.Failed)
}

// Processor creates or updates the nodes of a project one by one
type Processor struct {
	client Client
	logger log.Logger
}

func NewProcessor(client Client, logger log.Logger) *Processor {
	return &Processor{
		client: client,
		logger: logger,
	}
}

// Process handles every node, a failing node does not stop the remaining ones. The
// returned error collects the failures.
func (p *Processor) Process(ctx context.Context, projectName string, nodes []models.NodeConfig) (Stats, []Result, error) {
	p.logger.Info("project: %s (%d node(s))", projectName, len(nodes))

	stats := Stats{}
	results := make([]Result, 0, len(nodes))
	me := errors.NewMultiError(fmt.Sprintf("errors processing project %s", projectName))
	for i, cfg := range nodes {
		if err := ctx.Err(); err != nil {
			me.Append(err)
			break
		}
		p.logger.Info("[%d/%d] %s", i+1, len(nodes), cfg.NodeName)
		result := p.ProcessNode(ctx, cfg)
		stats.Add(result.Outcome)
		results = append(results, result)
		me.Append(result.Err)
	}
	p.logger.Info("done: %s", stats)
	return stats, results, errors.MultiToError(me)
}

// ProcessNode creates the node when no node has its name and updates it when the remote
// spec differs on a path the local spec declares
func (p *Processor) ProcessNode(ctx context.Context, cfg models.NodeConfig) Result {
	result := Result{NodeName: cfg.NodeName}

	spec, err := node.Build(cfg)
	if err != nil {
		return p.fail(result, err)
	}
	content, err := spec.Marshal()
	if err != nil {
		return p.fail(result, errors.InvalidArgument(cfg.NodeName, "error encoding spec: "+err.Error()))
	}

	existing, err := p.client.FindNode(ctx, cfg.NodeName)
	if err != nil {
		p.logger.Warn("  ListNodes failed for %s, treating as not found: %s", cfg.NodeName, err)
		existing = nil
	}
	if existing == nil {
		return p.create(ctx, result, string(content))
	}

	result.NodeID = existing.ID
	diffs, err := p.remoteDifferences(ctx, existing.ID, spec)
	if err != nil {
		p.logger.Warn("  %s, updating without comparison", err)
	} else if len(diffs) == 0 {
		p.logger.Info("  unchanged (NodeId: %s), skipping", existing.ID)
		result.Outcome = Skipped
		return result
	}
	result.Differences = diffs
	if len(diffs) > 0 {
		p.logger.Debug(diffs.Tree(cfg.NodeName).String())
	}

	if err := p.client.UpdateNode(ctx, existing.ID, string(content)); err != nil {
		return p.fail(result, errors.Wrap(cfg.NodeName, "failed to update node", err))
	}
	p.logger.Info("  updated (NodeId: %s, %d change(s))", existing.ID, len(diffs))
	result.Outcome = Updated
	return result
}

func (p *Processor) create(ctx context.Context, result Result, content string) Result {
	id, err := p.client.CreateNode(ctx, content)
	if err != nil {
		if errors.IsAlreadyExists(err) {
			p.logger.Warn("  node %s already exists, skipping", result.NodeName)
			result.Outcome = Skipped
			return result
		}
		return p.fail(result, errors.Wrap(result.NodeName, "failed to create node", err))
	}
	p.logger.Info("  created (NodeId: %s)", id)
	result.NodeID = id
	result.Outcome = Created
	return result
}

func (p *Processor) remoteDifferences(ctx context.Context, id dataworks.ID, local *node.Spec) (jsondiff.Differences, error) {
	remote, err := p.client.GetNode(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetNode failed for %s: %w", id, err)
	}
	if remote.Spec == "" {
		return nil, fmt.Errorf("node %s has no remote spec", id)
	}
	diffs, err := jsondiff.Diff(local, []byte(remote.Spec))
	if err != nil {
		return nil, fmt.Errorf("remote spec of %s is not comparable: %w", id, err)
	}
	return diffs.Declared(), nil
}

func (p *Processor) fail(result Result, err error) Result {
	p.logger.Error("  failed: %s", err)
	result.Outcome = Failed
	result.Err = err
	return result
}
