package cli

import (
	"context"
	"regexp"
	"testing"
	"time"

	"merch-nexus/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoCatalog_IsStableAndValid(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	first, second := demoCatalog(now), demoCatalog(now.Add(time.Hour))
	require.Len(t, second, len(first))

	seen := make(map[string]bool)
	for i, p := range first {
		assert.Equal(t, p.ID, second[i].ID, "ids are derived from the ASIN")
		assert.False(t, seen[p.ASIN], p.ASIN)
		seen[p.ASIN] = true

		require.NotNil(t, p.CompetitionLevel)
		assert.True(t, p.CompetitionLevel.Valid())
		assert.Greater(t, p.Price, 0.0)
		if i > 0 {
			assert.True(t, p.CreatedAt.After(first[i-1].CreatedAt))
		}
	}

	// Each product keeps its own rating pointer.
	assert.NotSame(t, first[0].Rating, first[1].Rating)
}

func TestSeed_SkipsExistingRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repos := repository.NewRepositories(sqlx.NewDb(db, "pgx"))
	now := time.Now().UTC()
	users, products := demoUsers(now), demoCatalog(now)

	userExists := regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`)
	productExists := regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`)

	// The first user is already present, the second is new.
	mock.ExpectQuery(userExists).WithArgs(users[0].ID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(userExists).WithArgs(users[1].ID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(0, 1))

	for _, p := range products {
		mock.ExpectQuery(productExists).WithArgs(p.ID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("INSERT INTO products").WillReturnResult(sqlmock.NewResult(0, 1))
	}

	report, err := seed(context.Background(), repos, now)
	require.NoError(t, err)
	assert.Equal(t, seedReport{Users: 1, Products: len(products), Skipped: 1}, report)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRootCommand_Tree(t *testing.T) {
	root := RootCommand()

	for _, path := range [][]string{{"migrate", "up"}, {"migrate", "status"}, {"migrate", "down"}, {"seed"}} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}

	flag := root.PersistentFlags().Lookup("migrations")
	require.NotNil(t, flag)
	assert.Equal(t, "migrations", flag.DefValue)
}
