// 输出模块，将完成的出行与强制恢复记录写入SQLite
package output

import (
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS trips (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	agent_id INTEGER NOT NULL,
	goal TEXT NOT NULL,
	mode TEXT NOT NULL,
	departure REAL NOT NULL,
	arrival REAL NOT NULL,
	length REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS recoveries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	agent_id INTEGER NOT NULL,
	reason TEXT NOT NULL,
	goal TEXT NOT NULL,
	state TEXT NOT NULL,
	t REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trips_agent ON trips(agent_id);
CREATE INDEX IF NOT EXISTS idx_recoveries_agent ON recoveries(agent_id);
`

type tripRow struct {
	AgentID   int32   `db:"agent_id"`
	Goal      string  `db:"goal"`
	Mode      string  `db:"mode"`
	Departure float64 `db:"departure"`
	Arrival   float64 `db:"arrival"`
	Length    float64 `db:"length"`
}

type recoveryRow struct {
	AgentID int32   `db:"agent_id"`
	Reason  string  `db:"reason"`
	Goal    string  `db:"goal"`
	State   string  `db:"state"`
	T       float64 `db:"t"`
}

// Recorder SQLite输出
// 功能：缓存出行与恢复记录，由主循环按flush_interval周期性写入
// 说明：Record*方法线程安全，可在并行更新阶段调用
type Recorder struct {
	db *sqlx.DB

	mtx        sync.Mutex
	trips      []tripRow
	recoveries []recoveryRow
}

// Open 打开或创建SQLite文件并建表
func Open(path string) (*Recorder, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Recorder{db: db}, nil
}

func (r *Recorder) RecordTrip(t entity.TripRecord) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.trips = append(r.trips, tripRow{
		AgentID:   t.AgentID,
		Goal:      t.Goal,
		Mode:      t.Mode.String(),
		Departure: t.Departure,
		Arrival:   t.Arrival,
		Length:    t.Length,
	})
}

func (r *Recorder) RecordRecovery(rr entity.RecoveryRecord) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.recoveries = append(r.recoveries, recoveryRow(rr))
}

// Flush 将缓存的记录写入数据库
// 功能：取出缓存后在一个事务中批量插入，失败时记录被丢弃
func (r *Recorder) Flush() error {
	r.mtx.Lock()
	trips, recoveries := r.trips, r.recoveries
	r.trips, r.recoveries = nil, nil
	r.mtx.Unlock()
	if len(trips) == 0 && len(recoveries) == 0 {
		return nil
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if len(trips) > 0 {
		if _, err := tx.NamedExec(`INSERT INTO trips (agent_id, goal, mode, departure, arrival, length)
			VALUES (:agent_id, :goal, :mode, :departure, :arrival, :length)`, trips); err != nil {
			return fmt.Errorf("insert trips: %w", err)
		}
	}
	if len(recoveries) > 0 {
		if _, err := tx.NamedExec(`INSERT INTO recoveries (agent_id, reason, goal, state, t)
			VALUES (:agent_id, :reason, :goal, :state, :t)`, recoveries); err != nil {
			return fmt.Errorf("insert recoveries: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Debugf("flushed %d trips, %d recoveries", len(trips), len(recoveries))
	return nil
}

// Close 写入剩余记录并关闭数据库
func (r *Recorder) Close() error {
	if err := r.Flush(); err != nil {
		log.Errorf("flush on close: %v", err)
	}
	return r.db.Close()
}
