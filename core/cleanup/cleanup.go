package cleanup

import (
	"context"
	"fmt"
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/odpf/salt/log"

	"github.com/ethan-root/Dataworks/ext/maxcompute"
	"github.com/ethan-root/Dataworks/internal/errors"
	"github.com/ethan-root/Dataworks/utils"
)

const DefaultRetentionDays = 30

// DefaultWhitelist are tables that are never dropped
var DefaultWhitelist = []string{"product_dim", "user_dim", "core_metrics"}

type Store interface {
	ListTables(ctx context.Context) ([]maxcompute.Table, error)
	DropTable(ctx context.Context, name string) error
}

type Action string

const (
	Dropped     Action = "dropped"
	WouldDrop   Action = "would drop"
	Kept        Action = "kept"
	Whitelisted Action = "whitelisted"
	Failed      Action = "failed"
)

type Decision struct {
	Table     string
	CreatedAt time.Time
	Action    Action
	Reason    string
}

type Options struct {
	Days    int
	Execute bool
	// Whitelist protects tables in addition to DefaultWhitelist
	Whitelist []string
}

// ProtectedTables is DefaultWhitelist joined with the extra whitelist, sorted and without duplicates
func (o Options) ProtectedTables() []string {
	protected := make([]string, 0, len(DefaultWhitelist)+len(o.Whitelist))
	for _, name := range append(append([]string{}, DefaultWhitelist...), o.Whitelist...) {
		if name != "" && !utils.ContainsString(protected, name) {
			protected = append(protected, name)
		}
	}
	sort.Strings(protected)
	return protected
}

func (o Options) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Days, validation.Required, validation.Min(1)),
	)
}

// Summary counts tables dropped (or to drop in dry-run), kept, whitelisted and failed
type Summary struct {
	Threshold   time.Time
	Executed    bool
	Deleted     int
	Kept        int
	Whitelisted int
	Failed      int
	Decisions   []Decision
}

func (s *Summary) add(d Decision) {
	switch d.Action {
	case Dropped, WouldDrop:
		s.Deleted++
	case Kept:
		s.Kept++
	case Whitelisted:
		s.Whitelisted++
	case Failed:
		s.Failed++
	}
	s.Decisions = append(s.Decisions, d)
}

type Cleaner struct {
	store  Store
	logger log.Logger
	now    func() time.Time
}

func NewCleaner(store Store, logger log.Logger, now func() time.Time) *Cleaner {
	if now == nil {
		now = time.Now
	}
	return &Cleaner{
		store:  store,
		logger: logger,
		now:    now,
	}
}

// Clean drops the tables created before the retention threshold. Without Execute nothing is
// dropped and the tables are only reported. A failed drop does not stop the sweep.
func (c *Cleaner) Clean(ctx context.Context, opts Options) (Summary, error) {
	if err := opts.Validate(); err != nil {
		return Summary{}, errors.InvalidArgument("cleanup", err.Error())
	}
	whitelist := opts.ProtectedTables()

	summary := Summary{
		Threshold: c.now().AddDate(0, 0, -opts.Days),
		Executed:  opts.Execute,
	}
	c.logger.Info("Threshold date: %s (%d days ago)", summary.Threshold.Format("2006-01-02 15:04:05"), opts.Days)
	c.logger.Info("Whitelist tables (will not be deleted): %v", whitelist)

	tables, err := c.store.ListTables(ctx)
	if err != nil {
		return summary, err
	}
	sort.Slice(tables, func(i, j int) bool {
		return tables[i].Name < tables[j].Name
	})

	me := errors.NewMultiError("errors dropping tables")
	for _, table := range tables {
		if err := ctx.Err(); err != nil {
			me.Append(err)
			break
		}
		decision := c.decide(ctx, table, whitelist, summary.Threshold, opts.Execute)
		if decision.Action == Failed {
			me.Append(fmt.Errorf("table %s: %s", decision.Table, decision.Reason))
		}
		summary.add(decision)
	}

	if !opts.Execute {
		c.logger.Info("This was a dry-run, pass --execute to drop the tables")
	}
	return summary, errors.MultiToError(me)
}

func (c *Cleaner) decide(ctx context.Context, table maxcompute.Table, whitelist []string, threshold time.Time, execute bool) Decision {
	decision := Decision{Table: table.Name, CreatedAt: table.CreatedAt}
	switch {
	case utils.ContainsString(whitelist, table.Name):
		c.logger.Info("[SKIP] %s is in whitelist", table.Name)
		decision.Action = Whitelisted
	case table.CreatedAt.IsZero():
		c.logger.Info("[SKIP] %s has no creation time", table.Name)
		decision.Action = Kept
		decision.Reason = "no creation time"
	case !table.CreatedAt.Before(threshold):
		decision.Action = Kept
	case !execute:
		c.logger.Info("[DRY-RUN] would drop %s (created %s)", table.Name, table.CreatedAt.Format(time.RFC3339))
		decision.Action = WouldDrop
	default:
		c.logger.Info("[DELETE] dropping %s (created %s)", table.Name, table.CreatedAt.Format(time.RFC3339))
		if err := c.store.DropTable(ctx, table.Name); err != nil {
			c.logger.Error("failed to drop %s: %s", table.Name, err)
			decision.Action = Failed
			decision.Reason = err.Error()
			return decision
		}
		decision.Action = Dropped
	}
	return decision
}
