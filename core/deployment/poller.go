package deployment

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/odpf/salt/log"

	"github.com/ethan-root/Dataworks/ext/dataworks"
	"github.com/ethan-root/Dataworks/internal/errors"
)

const (
	DefaultTimeout      = time.Minute * 30
	DefaultPollInterval = time.Second * 15

	entityDeployment = "deployment"
)

var ErrDeploymentFailed = stdErrors.New("deployment failed")

type StatusClient interface {
	GetDeployment(ctx context.Context, deploymentID int64) (*dataworks.Deployment, error)
}

// Poller waits for a deployment to leave the pending state
type Poller struct {
	client   StatusClient
	logger   log.Logger
	interval time.Duration
	timeout  time.Duration
}

func NewPoller(client StatusClient, logger log.Logger, interval, timeout time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Poller{
		client:   client,
		logger:   logger,
		interval: interval,
		timeout:  timeout,
	}
}

// Wait polls the status at a fixed interval. A failed status, a status request error, the
// timeout and a cancelled context all end the wait with an error. The timeout also bounds
// every status request.
func (p *Poller) Wait(ctx context.Context, deploymentID int64) error {
	waitCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	for attempt := 1; ; attempt++ {
		deployment, err := p.client.GetDeployment(waitCtx, deploymentID)
		if err != nil {
			if ctx.Err() == nil && waitCtx.Err() != nil {
				p.logger.Error("Get deployment status took too long, timing out")
				return p.timedOut(deploymentID)
			}
			return errors.Wrap(entityDeployment, fmt.Sprintf("getting status of deployment %d failed", deploymentID), err)
		}

		switch deployment.Status {
		case dataworks.DeploymentPending:
			p.logger.Info("Deployment %d is pending (check %d)...", deploymentID, attempt)
		case dataworks.DeploymentSuccess:
			p.logger.Info("Deployment %d succeeded", deploymentID)
			return nil
		case dataworks.DeploymentFailed:
			p.logger.Error("Deployment %d failed: %s", deploymentID, deployment.ErrorMessage)
			return fmt.Errorf("%w: deployment %d: %s", ErrDeploymentFailed, deploymentID, deployment.ErrorMessage)
		default:
			p.logger.Warn("Deployment %d reported unknown status %d, still waiting", deploymentID, deployment.Status)
		}

		wait := time.NewTimer(p.interval)
		select {
		case <-waitCtx.Done():
			wait.Stop()
			if err := ctx.Err(); err != nil {
				return err
			}
			return p.timedOut(deploymentID)
		case <-wait.C:
		}
	}
}

func (p *Poller) timedOut(deploymentID int64) error {
	return errors.Timeout(entityDeployment, fmt.Sprintf("deployment %d still pending after %s", deploymentID, p.timeout))
}
