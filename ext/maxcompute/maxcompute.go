package maxcompute

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/aliyun/aliyun-odps-go-sdk/odps"
	"github.com/aliyun/aliyun-odps-go-sdk/odps/account"
	"github.com/odpf/salt/log"

	"github.com/ethan-root/Dataworks/config"
	"github.com/ethan-root/Dataworks/internal/errors"
)

const store = "MaxComputeStore"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Table is the listing view of a table, CreatedAt is zero when the service did not report it
type Table struct {
	Name      string
	CreatedAt time.Time
}

// Engine is the subset of the odps SDK the store relies on
type Engine interface {
	ExecSQL(sql string) error
	ListTables() ([]Table, error)
}

type Store struct {
	engine Engine
	logger log.Logger
}

func NewStore(engine Engine, logger log.Logger) *Store {
	return &Store{
		engine: engine,
		logger: logger,
	}
}

// ExecSQL runs the statement and waits for the instance to succeed
func (s *Store) ExecSQL(ctx context.Context, sql string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.Debug("executing sql: %s", sql)
	if err := s.engine.ExecSQL(sql); err != nil {
		return errors.RemoteCall(store, "failed to execute sql", err)
	}
	return nil
}

func (s *Store) ListTables(ctx context.Context) ([]Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tables, err := s.engine.ListTables()
	if err != nil {
		return nil, errors.RemoteCall(store, "failed to list tables", err)
	}
	return tables, nil
}

// DropTable drops the table if it exists, names outside [A-Za-z0-9_] are refused
func (s *Store) DropTable(ctx context.Context, name string) error {
	if !tableNamePattern.MatchString(name) {
		return errors.InvalidArgument(store, fmt.Sprintf("invalid table name %q", name))
	}
	return s.ExecSQL(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s;", name))
}

type odpsEngine struct {
	odps *odps.Odps
}

// NewEngine connects to the project with an access key pair
func NewEngine(cfg *config.MaxCompute) Engine {
	acc := account.NewAliyunAccount(cfg.AccessKeyID, cfg.AccessKeySecret)
	conn := odps.NewOdps(acc, cfg.Endpoint)
	conn.SetDefaultProjectName(cfg.Project)
	return &odpsEngine{odps: conn}
}

func (e *odpsEngine) ExecSQL(sql string) error {
	instance, err := e.odps.ExecSQl(sql)
	if err != nil {
		return err
	}
	return instance.WaitForSuccess()
}

func (e *odpsEngine) ListTables() ([]Table, error) {
	var (
		tables  []Table
		listErr error
	)
	e.odps.Tables().List(func(t *odps.Table, err error) {
		if err != nil {
			listErr = err
			return
		}
		created := t.CreatedTime()
		if created.IsZero() {
			if err := t.Load(); err == nil {
				created = t.CreatedTime()
			}
		}
		tables = append(tables, Table{Name: t.Name(), CreatedAt: created})
	}, odps.TableFilter.Extended())
	if listErr != nil {
		return nil, listErr
	}
	return tables, nil
}
