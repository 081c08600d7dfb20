package deployment

import (
	"context"
	"fmt"

	"github.com/odpf/salt/log"

	"github.com/ethan-root/Dataworks/ext/dataworks"
	"github.com/ethan-root/Dataworks/internal/errors"
)

type Client interface {
	StatusClient
	SubmitFile(ctx context.Context, fileID int64) (int64, error)
	DeployFile(ctx context.Context, fileID int64) (int64, error)
	FindFile(ctx context.Context, name string) (*dataworks.File, error)
}

// Publisher submits a file to the scheduler and deploys it to production
type Publisher struct {
	client Client
	poller *Poller
	logger log.Logger
}

func NewPublisher(client Client, poller *Poller, logger log.Logger) *Publisher {
	return &Publisher{
		client: client,
		poller: poller,
		logger: logger,
	}
}

// ResolveFileID returns the id of the file named exactly name
func (p *Publisher) ResolveFileID(ctx context.Context, name string) (int64, error) {
	file, err := p.client.FindFile(ctx, name)
	if err != nil {
		return 0, errors.Wrap(name, "failed to look up file", err)
	}
	if file == nil {
		return 0, errors.NotFound(name, "no file named "+name)
	}
	return file.FileID, nil
}

// Publish runs SubmitFile and, unless skipDeploy, DeployFile, waiting for each deployment
func (p *Publisher) Publish(ctx context.Context, fileID int64, skipDeploy bool) error {
	p.logger.Info("Submitting file %d ...", fileID)
	deploymentID, err := p.client.SubmitFile(ctx, fileID)
	if err != nil {
		return errors.Wrap(fmt.Sprintf("file %d", fileID), "failed to submit file", err)
	}
	if err := p.poller.Wait(ctx, deploymentID); err != nil {
		return err
	}
	p.logger.Info("File %d submitted", fileID)

	if skipDeploy {
		return nil
	}

	p.logger.Info("Deploying file %d to production ...", fileID)
	deploymentID, err = p.client.DeployFile(ctx, fileID)
	if err != nil {
		return errors.Wrap(fmt.Sprintf("file %d", fileID), "failed to deploy file", err)
	}
	if err := p.poller.Wait(ctx, deploymentID); err != nil {
		return err
	}
	p.logger.Info("File %d deployed to production", fileID)
	return nil
}
