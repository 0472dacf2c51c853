// Package journal persists the pool's event stream to sqlite so a
// restarted node can still serve funding timelines and leaderboards
// reconstructed from history.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	_ "modernc.org/sqlite"

	"github.com/Creova-Group/Creova-sub000/pool"
)

// Journal is an append-only sqlite-backed pool.EventSink.
type Journal struct {
	db *sql.DB
}

// Open creates or opens the journal database under dir.
func Open(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	dbPath := filepath.Join(dir, "events.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	j := &Journal{db: db}
	if err := j.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init journal schema: %w", err)
	}
	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		seq INTEGER PRIMARY KEY,
		kind TEXT NOT NULL,
		campaign_id INTEGER NOT NULL,
		milestone_idx INTEGER NOT NULL,
		actor TEXT NOT NULL,
		amount TEXT,
		fee TEXT,
		note TEXT,
		ts INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_campaign ON events(campaign_id);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Append stores one committed event. Amounts are stored as decimal
// strings; wei does not fit sqlite integers.
func (j *Journal) Append(ev pool.Event) error {
	_, err := j.db.Exec(
		`INSERT INTO events (seq, kind, campaign_id, milestone_idx, actor, amount, fee, note, ts)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.Seq, string(ev.Kind), ev.CampaignID, ev.MilestoneIndex, ev.Actor.Hex(),
		decOrNull(ev.Amount), decOrNull(ev.Fee), ev.Note, ev.Time,
	)
	if err != nil {
		return fmt.Errorf("append event %d: %w", ev.Seq, err)
	}
	return nil
}

// ByCampaign returns a campaign's events in sequence order.
func (j *Journal) ByCampaign(campaignID uint64) ([]pool.Event, error) {
	rows, err := j.db.Query(
		`SELECT seq, kind, campaign_id, milestone_idx, actor, amount, fee, note, ts
		 FROM events WHERE campaign_id = ? ORDER BY seq`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// Replay streams the whole journal in sequence order into fn, stopping
// on the first error fn returns.
func (j *Journal) Replay(fn func(pool.Event) error) error {
	rows, err := j.db.Query(
		`SELECT seq, kind, campaign_id, milestone_idx, actor, amount, fee, note, ts
		 FROM events ORDER BY seq`)
	if err != nil {
		return fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()
	evs, err := scanEvents(rows)
	if err != nil {
		return err
	}
	for _, ev := range evs {
		if err := fn(ev); err != nil {
			return err
		}
	}
	return nil
}

func scanEvents(rows *sql.Rows) ([]pool.Event, error) {
	var out []pool.Event
	for rows.Next() {
		var (
			ev          pool.Event
			kind, actor string
			amount, fee sql.NullString
		)
		if err := rows.Scan(&ev.Seq, &kind, &ev.CampaignID, &ev.MilestoneIndex,
			&actor, &amount, &fee, &ev.Note, &ev.Time); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = pool.EventKind(kind)
		ev.Actor = common.HexToAddress(actor)
		var err error
		if ev.Amount, err = parseDec(amount); err != nil {
			return nil, err
		}
		if ev.Fee, err = parseDec(fee); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func decOrNull(a *uint256.Int) any {
	if a == nil {
		return nil
	}
	return a.Dec()
}

func parseDec(s sql.NullString) (*uint256.Int, error) {
	if !s.Valid {
		return nil, nil
	}
	v, err := uint256.FromDecimal(s.String)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", s.String, err)
	}
	return v, nil
}
