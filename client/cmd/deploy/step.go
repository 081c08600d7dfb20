package deploy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ethan-root/Dataworks/client/cmd/datasource"
	"github.com/ethan-root/Dataworks/client/cmd/internal"
	"github.com/ethan-root/Dataworks/client/cmd/internal/logger"
	provision "github.com/ethan-root/Dataworks/core/datasource"
	"github.com/ethan-root/Dataworks/core/node"
	"github.com/ethan-root/Dataworks/core/project"
	"github.com/ethan-root/Dataworks/internal/models"
)

const (
	stepCheckCLI         = "check_cli"
	stepCheckDatasources = "check_datasources"
	stepCreateOSS        = "create_oss_ds"
	stepCreateODPS       = "create_odps_ds"
	stepCreateNode       = "create_node"

	githubOutputNodeID = "node_id"
)

type stepFunc func(d *deployCommand, ctx context.Context) error

var steps = map[string]stepFunc{
	stepCheckCLI:         (*deployCommand).checkCLI,
	stepCheckDatasources: (*deployCommand).checkDatasources,
	stepCreateOSS: func(d *deployCommand, ctx context.Context) error {
		return d.createDatasource(ctx, models.DatasourceOSS)
	},
	stepCreateODPS: func(d *deployCommand, ctx context.Context) error {
		return d.createDatasource(ctx, models.DatasourceODPS)
	},
	stepCreateNode: (*deployCommand).createNode,
}

func stepNames() string {
	names := make([]string, 0, len(steps))
	for name := range steps {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func (d *deployCommand) runStep(ctx context.Context, name string) error {
	step, ok := steps[name]
	if !ok {
		return fmt.Errorf("unknown step %q, expected one of %s", name, stepNames())
	}
	return step(d, ctx)
}

func (d *deployCommand) checkCLI(ctx context.Context) error {
	d.logger.Info("Testing DataWorks connection ...")
	groups, err := d.client.ListResourceGroups(ctx)
	if err != nil {
		return err
	}
	d.logger.Info("Connection OK, %d resource group(s) found.", len(groups))
	if len(groups) > 0 {
		d.logger.Info(logger.StringifyResourceGroups(groups))
	}
	return nil
}

func (d *deployCommand) checkDatasources(ctx context.Context) error {
	provisioner := provision.NewProvisioner(d.client, d.logger)
	statuses, err := datasource.Check(ctx, provisioner, d.loader, d.projectDir)
	if err != nil {
		return err
	}
	datasource.PrintStatuses(d.logger, statuses)
	return nil
}

func (d *deployCommand) createDatasource(ctx context.Context, dsType models.DatasourceType) error {
	provisioner := provision.NewProvisioner(d.client, d.logger)
	outcome, err := datasource.Ensure(ctx, provisioner, d.loader, dsType, d.projectDir, d.dwConfig)
	if err != nil {
		return err
	}
	d.logger.Info("%s datasource %s", dsType, outcome)
	return nil
}

// createNode deploys the node of the first table and hands its id to the workflow
func (d *deployCommand) createNode(ctx context.Context) error {
	_, nodes, err := d.loader.LoadDeployUnits(d.projectDir)
	if err != nil {
		return err
	}
	cfg := nodes[0]
	d.logger.Info("Creating Node: %s", cfg.NodeName)

	spec, err := node.Build(cfg)
	if err != nil {
		return err
	}
	if content, err := spec.Marshal(); err == nil {
		pretty := &bytes.Buffer{}
		if json.Indent(pretty, content, "", "  ") == nil {
			d.logger.Info("Node spec:\n%s", pretty.String())
		}
	}

	processor := project.NewProcessor(d.client, d.logger)
	result := processor.ProcessNode(ctx, cfg)
	if result.Outcome == project.Failed {
		return result.Err
	}
	if result.NodeID == "" {
		d.logger.Warn("Node %s was %s without an id, nothing written to the workflow output", cfg.NodeName, result.Outcome)
		return nil
	}
	d.logger.Info("Node %s %s, NodeId = %s", cfg.NodeName, result.Outcome, result.NodeID)

	written, err := internal.WriteGithubOutput(d.fs, githubOutputNodeID, result.NodeID.String())
	if err != nil {
		return fmt.Errorf("failed to write workflow output: %w", err)
	}
	if written {
		d.logger.Debug("%s=%s written to the workflow output", githubOutputNodeID, result.NodeID)
	}
	return nil
}
