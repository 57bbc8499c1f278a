package session

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"

	"github.com/marcboeker/go-duckdb"
	"github.com/press-analyzer/backend/internal/models"
	"github.com/rs/zerolog/log"
)

// sampleBatchSize is how many samples are buffered before an Appender
// flush. Sensor exports run to millions of rows; row-at-a-time inserts
// are far too slow.
const sampleBatchSize = 50000

// SampleStore keeps a reconstructed sample series in a temporary DuckDB
// file so series larger than comfortable RAM can still be paged to the
// client. The file is removed on Close.
type SampleStore struct {
	db     *sql.DB
	dbPath string
	count  int
	batch  []models.SimulationSample
}

// NewSampleStore creates a DuckDB-backed store for one session.
func NewSampleStore(tempDir, sessionID string) (*SampleStore, error) {
	dbPath := filepath.Join(tempDir, fmt.Sprintf("session_%s.duckdb", sessionID))

	connector, err := duckdb.NewConnector(dbPath, func(execer driver.ExecerContext) error {
		pragmas := []string{
			"PRAGMA memory_limit='512MB'",
			"PRAGMA threads=2",
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)
	_, err = db.Exec(`
		CREATE TABLE samples (
			idx              BIGINT PRIMARY KEY,
			t                DOUBLE NOT NULL,
			position         DOUBLE NOT NULL,
			velocity         DOUBLE NOT NULL,
			flow             DOUBLE NOT NULL,
			pressure_cap     DOUBLE NOT NULL,
			pressure_rod     DOUBLE NOT NULL,
			phase            VARCHAR NOT NULL,
			motor_power      DOUBLE NOT NULL,
			actuator_power   DOUBLE NOT NULL,
			pump_input_power DOUBLE NOT NULL,
			actual_motor_power DOUBLE NOT NULL,
			actuator_output_power DOUBLE NOT NULL,
			ideal_motor_power DOUBLE NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		os.Remove(dbPath)
		return nil, fmt.Errorf("creating samples table: %w", err)
	}

	log.Debug().Str("path", dbPath).Msg("sample store created")

	return &SampleStore{
		db:     db,
		dbPath: dbPath,
		batch:  make([]models.SimulationSample, 0, sampleBatchSize),
	}, nil
}

// Append buffers a sample for insertion. Call Finalize when the series
// is complete.
func (st *SampleStore) Append(s models.SimulationSample) error {
	st.batch = append(st.batch, s)
	st.count++
	if len(st.batch) >= sampleBatchSize {
		return st.flush()
	}
	return nil
}

// AppendAll buffers a whole series.
func (st *SampleStore) AppendAll(series []models.SimulationSample) error {
	for _, s := range series {
		if err := st.Append(s); err != nil {
			return err
		}
	}
	return nil
}

// flush writes the buffered batch through DuckDB's Appender API.
func (st *SampleStore) flush() error {
	if len(st.batch) == 0 {
		return nil
	}

	conn, err := st.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("getting connection: %w", err)
	}
	defer conn.Close()

	err = conn.Raw(func(driverConn interface{}) error {
		dConn, ok := driverConn.(*duckdb.Conn)
		if !ok {
			return fmt.Errorf("unexpected driver connection type %T", driverConn)
		}

		appender, err := duckdb.NewAppenderFromConn(dConn, "", "samples")
		if err != nil {
			return fmt.Errorf("creating appender: %w", err)
		}
		defer appender.Close()

		baseIdx := st.count - len(st.batch)
		for i, s := range st.batch {
			err := appender.AppendRow(
				int64(baseIdx+i),
				s.Time,
				s.Position,
				s.Velocity,
				s.Flow,
				s.PressureCap,
				s.PressureRod,
				s.PhaseLabel,
				s.MotorPower,
				s.ActuatorPower,
				s.PumpInputPower,
				s.ActualMotorInputPower,
				s.ActuatorOutputPower,
				s.IdealMotorInputPower,
			)
			if err != nil {
				return fmt.Errorf("appending row %d: %w", i, err)
			}
		}
		return appender.Flush()
	})
	if err != nil {
		return err
	}

	st.batch = st.batch[:0]
	return nil
}

// Finalize flushes any remaining buffered samples.
func (st *SampleStore) Finalize() error {
	return st.flush()
}

// Len returns the number of stored samples, including buffered ones.
func (st *SampleStore) Len() int {
	return st.count
}

// Page returns samples [start, end) ordered by insertion index.
func (st *SampleStore) Page(ctx context.Context, start, end int) ([]models.SimulationSample, error) {
	if end-start <= 0 {
		return []models.SimulationSample{}, nil
	}

	rows, err := st.db.QueryContext(ctx, `
		SELECT t, position, velocity, flow, pressure_cap, pressure_rod, phase,
		       motor_power, actuator_power, pump_input_power,
		       actual_motor_power, actuator_output_power, ideal_motor_power
		FROM samples WHERE idx >= ? AND idx < ? ORDER BY idx
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	samples := make([]models.SimulationSample, 0, end-start)
	for rows.Next() {
		var s models.SimulationSample
		err := rows.Scan(
			&s.Time, &s.Position, &s.Velocity, &s.Flow,
			&s.PressureCap, &s.PressureRod, &s.PhaseLabel,
			&s.MotorPower, &s.ActuatorPower, &s.PumpInputPower,
			&s.ActualMotorInputPower, &s.ActuatorOutputPower, &s.IdealMotorInputPower,
		)
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// All reads the full series back, in order.
func (st *SampleStore) All(ctx context.Context) ([]models.SimulationSample, error) {
	return st.Page(ctx, 0, st.count)
}

// Close closes the database and removes its file.
func (st *SampleStore) Close() error {
	if st.db != nil {
		st.db.Close()
	}
	if st.dbPath != "" {
		if err := os.Remove(st.dbPath); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", st.dbPath).Msg("failed to remove sample store file")
		}
	}
	return nil
}
