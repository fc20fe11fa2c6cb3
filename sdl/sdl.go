// Package sdl maintains the roster of known "defence league" accounts:
// a plain durable list with chain-backed validation on insert, used by the
// front end for exports and delegation tracking.
package sdl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/steemflagrewards/sfrbot/steem"
)

var (
	ErrAlreadyListed = errors.New("account already in the roster")
	ErrNotListed     = errors.New("account not in the roster")
)

// Entry is one roster row. Delegation records whether the account held
// received vesting shares when last checked.
type Entry struct {
	ID         uint64    `gorm:"column:id;primarykey"`
	Name       string    `gorm:"column:name;uniqueIndex;not null"`
	Created    time.Time `gorm:"column:created"`
	Delegation bool      `gorm:"column:delegation;default:false"`
}

func (Entry) TableName() string {
	return "sdl_entry"
}

type Roster struct {
	db     *gorm.DB
	ledger steem.Gateway
	logger *slog.Logger
}

func NewRoster(db *gorm.DB, ledger steem.Gateway, logger *slog.Logger) (*Roster, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Roster{db: db, ledger: ledger, logger: logger}, nil
}

// Add validates the account on chain, records its creation time and whether
// it currently holds an incoming delegation.
func (r *Roster) Add(ctx context.Context, name string) (*Entry, error) {
	acc, err := r.ledger.GetAccount(ctx, name)
	if err != nil {
		return nil, err
	}
	entry := &Entry{
		Name:       acc.Name,
		Created:    acc.Created,
		Delegation: acc.ReceivedVests.IsPositive(),
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(entry)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyListed, acc.Name)
	}
	r.logger.Info("roster entry added", "name", acc.Name, "delegation", entry.Delegation)
	return entry, nil
}

func (r *Roster) Remove(ctx context.Context, name string) error {
	res := r.db.WithContext(ctx).Where("name = ?", name).Delete(&Entry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotListed, name)
	}
	return nil
}

// List returns the roster, delegated accounts first, names ascending within
// each group.
func (r *Roster) List(ctx context.Context) ([]Entry, error) {
	var out []Entry
	err := r.db.WithContext(ctx).
		Order("delegation DESC").
		Order("name ASC").
		Find(&out).Error
	return out, err
}

// RefreshDelegations re-checks every delegated entry against the chain and
// clears the flag for accounts whose delegation was withdrawn. Returns the
// names that were cleared.
func (r *Roster) RefreshDelegations(ctx context.Context) ([]string, error) {
	var delegated []Entry
	if err := r.db.WithContext(ctx).Where("delegation = ?", true).Find(&delegated).Error; err != nil {
		return nil, err
	}
	var cleared []string
	for _, e := range delegated {
		acc, err := r.ledger.GetAccount(ctx, e.Name)
		if err != nil {
			if errors.Is(err, steem.ErrNotFound) {
				r.logger.Warn("roster entry vanished from chain", "name", e.Name)
				continue
			}
			return cleared, err
		}
		if acc.ReceivedVests.IsPositive() {
			continue
		}
		if err := r.db.WithContext(ctx).Model(&Entry{}).
			Where("name = ?", e.Name).
			Update("delegation", false).Error; err != nil {
			return cleared, err
		}
		cleared = append(cleared, e.Name)
	}
	return cleared, nil
}

// Export renders the roster as newline-separated account names, ascending.
func (r *Roster) Export(ctx context.Context) (string, error) {
	var names []string
	if err := r.db.WithContext(ctx).Model(&Entry{}).
		Order("name ASC").
		Pluck("name", &names).Error; err != nil {
		return "", err
	}
	var b strings.Builder
	for _, n := range names {
		b.WriteString(n)
		b.WriteByte('\n')
	}
	return b.String(), nil
}
