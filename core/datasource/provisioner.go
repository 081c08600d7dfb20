package datasource

import (
	"context"
	"encoding/json"

	"github.com/odpf/salt/log"

	"github.com/ethan-root/Dataworks/ext/dataworks"
	"github.com/ethan-root/Dataworks/internal/errors"
)

type Client interface {
	FindDataSource(ctx context.Context, name string) (*dataworks.DataSource, error)
	CreateDataSource(ctx context.Context, req dataworks.CreateDataSourceRequest) (dataworks.ID, error)
}

type Outcome string

const (
	Created Outcome = "created"
	Existed Outcome = "existed"
)

type Provisioner struct {
	client Client
	logger log.Logger
}

func NewProvisioner(client Client, logger log.Logger) *Provisioner {
	return &Provisioner{
		client: client,
		logger: logger,
	}
}

// Exists looks the datasource up by exact name, a lookup error is logged and reported
// as absent
func (p *Provisioner) Exists(ctx context.Context, name string) bool {
	ds, err := p.client.FindDataSource(ctx, name)
	if err != nil {
		p.logger.Warn("ListDataSources failed for %s, treating as not found: %s", name, err)
		return false
	}
	return ds != nil
}

// Create issues CreateDataSource without looking the datasource up first
func (p *Provisioner) Create(ctx context.Context, def Definition) (dataworks.ID, error) {
	req, err := def.Request()
	if err != nil {
		return "", err
	}
	if redacted, err := json.Marshal(def.Redacted()); err == nil {
		p.logger.Debug("connection properties of %s: %s", def.Name, string(redacted))
	}

	p.logger.Info("creating %s datasource %s", def.Type, def.Name)
	id, err := p.client.CreateDataSource(ctx, req)
	if err != nil {
		if errors.IsAlreadyExists(err) {
			return "", errors.Wrap(def.Name, "datasource already exists", errors.AlreadyExists(def.Name, err.Error()))
		}
		return "", errors.Wrap(def.Name, "failed to create datasource", err)
	}
	p.logger.Info("datasource %s created with id %s", def.Name, id)
	return id, nil
}

// Ensure creates the datasource when it is absent
func (p *Provisioner) Ensure(ctx context.Context, def Definition) (Outcome, error) {
	if p.Exists(ctx, def.Name) {
		p.logger.Info("datasource %s exists", def.Name)
		return Existed, nil
	}
	if _, err := p.Create(ctx, def); err != nil {
		if errors.IsErrorType(err, errors.ErrAlreadyExists) {
			return Existed, nil
		}
		return "", err
	}
	return Created, nil
}
