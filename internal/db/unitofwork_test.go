package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/trek/internal/db"
)

const seedTrip = `INSERT INTO trips (id, name, location, start_date, end_date, days, budget, created_at, updated_at)
	VALUES ('t1', '台東2日遊', '台東', '2025-11-27', '2025-11-28', 2, 10000, '2025-11-20', '2025-11-20')`

func newUoW(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	_, err = database.Exec(seedTrip)
	require.NoError(t, err)
	return db.NewSQLiteUnitOfWork(database)
}

// spendInTx records a spend and its log entry the way the trip service does.
func spendInTx(ctx context.Context, tx db.DBTX, amount int) error {
	if _, err := tx.ExecContext(ctx, `UPDATE trips SET spent = spent + ? WHERE id = 't1'`, amount); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO trip_adjustments (id, trip_id, kind, amount, created_at) VALUES (?, 't1', 'spend', ?, '2025-11-21')`,
		"a-"+string(rune('0'+amount%10)), amount)
	return err
}

func state(t *testing.T, uow *db.SQLiteUnitOfWork) (spent, entries int) {
	t.Helper()
	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := tx.QueryRowContext(ctx, `SELECT spent FROM trips WHERE id = 't1'`).Scan(&spent); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM trip_adjustments WHERE trip_id = 't1'`).Scan(&entries)
	})
	require.NoError(t, err)
	return spent, entries
}

func TestWithinTx_CommitsSpendAndLogTogether(t *testing.T) {
	uow := newUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return spendInTx(ctx, tx, 1200)
	})
	require.NoError(t, err)

	spent, entries := state(t, uow)
	assert.Equal(t, 1200, spent)
	assert.Equal(t, 1, entries)
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	uow := newUoW(t)
	errAbort := errors.New("abort")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := spendInTx(ctx, tx, 500); err != nil {
			return err
		}
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	spent, entries := state(t, uow)
	assert.Zero(t, spent)
	assert.Zero(t, entries)
}

func TestWithinTx_RollsBackOnConstraintViolation(t *testing.T) {
	uow := newUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := spendInTx(ctx, tx, 300); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `UPDATE trips SET spent = -1 WHERE id = 't1'`)
		return err
	})
	require.Error(t, err)

	spent, entries := state(t, uow)
	assert.Zero(t, spent)
	assert.Zero(t, entries)
}

func TestWithinTx_RollsBackOnPanic(t *testing.T) {
	uow := newUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = spendInTx(ctx, tx, 700)
			panic("boom")
		})
	})

	spent, entries := state(t, uow)
	assert.Zero(t, spent)
	assert.Zero(t, entries)
}

func TestWithinTx_SequentialTransactionsOnMemoryStore(t *testing.T) {
	uow := newUoW(t)
	for _, amount := range []int{100, 201, 302} {
		err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			return spendInTx(ctx, tx, amount)
		})
		require.NoError(t, err)
	}

	spent, entries := state(t, uow)
	assert.Equal(t, 603, spent)
	assert.Equal(t, 3, entries)
}
