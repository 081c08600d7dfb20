package connection

import (
	"github.com/odpf/salt/log"

	"github.com/ethan-root/Dataworks/config"
	"github.com/ethan-root/Dataworks/ext/dataworks"
	"github.com/ethan-root/Dataworks/ext/maxcompute"
)

// NewDataWorks validates the DataWorks environment and builds the workspace client.
// Nothing is sent over the network until the first call.
func NewDataWorks(l log.Logger) (*dataworks.Client, *config.DataWorks, error) {
	cfg, err := config.LoadDataWorksConfig()
	if err != nil {
		return nil, nil, err
	}
	transport, err := dataworks.NewTransport(cfg)
	if err != nil {
		return nil, nil, err
	}
	l.Debug("DataWorks endpoint %s, workspace %d", cfg.Endpoint(), cfg.ProjectID)
	return dataworks.NewClient(transport, cfg.ProjectID, l), cfg, nil
}

// NewMaxCompute validates the MaxCompute environment and builds the table store
func NewMaxCompute(l log.Logger) (*maxcompute.Store, *config.MaxCompute, error) {
	cfg, err := config.LoadMaxComputeConfig()
	if err != nil {
		return nil, nil, err
	}
	l.Debug("MaxCompute endpoint %s, project %s", cfg.Endpoint, cfg.Project)
	return maxcompute.NewStore(maxcompute.NewEngine(cfg), l), cfg, nil
}
