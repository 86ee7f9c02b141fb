package db_test

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/tasklist-go/db"
	"github.com/user/tasklist-go/db/dbtest"
	"github.com/user/tasklist-go/todos"
	"github.com/user/tasklist-go/users"
)

var testDB *dbtest.Database

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	var err error
	testDB, err = dbtest.Start(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start postgres: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if err := testDB.Close(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop postgres: %v\n", err)
	}
	os.Exit(code)
}

func setup(t *testing.T) (*users.Repository, *todos.Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	require.NoError(t, testDB.Truncate(context.Background()))
	return users.NewRepository(testDB.Pool), todos.NewRepository(testDB.Pool)
}

func createUser(t *testing.T, repo *users.Repository, username string) *users.User {
	t.Helper()
	user := &users.User{ID: uuid.New(), Username: username, Name: username, PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestUsersRepository(t *testing.T) {
	userRepo, _ := setup(t)
	ctx := context.Background()

	alice := createUser(t, userRepo, "alice")
	assert.False(t, alice.CreatedAt.IsZero())

	byID, err := userRepo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
	assert.Equal(t, "hash", byID.PasswordHash)

	byName, err := userRepo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)

	_, err = userRepo.GetByUsername(ctx, "ALICE")
	assert.ErrorIs(t, err, users.ErrNotFound, "lookup is case-sensitive")

	_, err = userRepo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, users.ErrNotFound)

	err = userRepo.Create(ctx, &users.User{ID: uuid.New(), Username: "alice", Name: "Other", PasswordHash: "x"})
	assert.ErrorIs(t, err, users.ErrDuplicateUsername)
}

func TestTodosRepository(t *testing.T) {
	userRepo, todoRepo := setup(t)
	ctx := context.Background()
	alice := createUser(t, userRepo, "alice")
	bob := createUser(t, userRepo, "bob")

	first := &todos.Todo{ID: uuid.New(), Title: "buy milk", UserID: alice.ID}
	require.NoError(t, todoRepo.Create(ctx, first))
	time.Sleep(time.Millisecond)
	second := &todos.Todo{ID: uuid.New(), Title: "walk dog", UserID: alice.ID}
	require.NoError(t, todoRepo.Create(ctx, second))

	list, err := todoRepo.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
	assert.False(t, list[0].Completed)

	empty, err := todoRepo.ListByUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	done := true
	updated, err := todoRepo.Update(ctx, first.ID, alice.ID, todos.Patch{Completed: &done})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "buy milk", updated.Title)

	_, err = todoRepo.Update(ctx, first.ID, bob.ID, todos.Patch{Completed: &done})
	assert.ErrorIs(t, err, todos.ErrNotFound, "update is owner-scoped")

	deleted, err := todoRepo.Delete(ctx, first.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, deleted, "delete is owner-scoped")

	deleted, err = todoRepo.Delete(ctx, first.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = todoRepo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, todos.ErrNotFound)
}

func TestMigrationsRoundTrip(t *testing.T) {
	setup(t)

	require.NoError(t, db.RollbackMigrations(testDB.DSN, 2))
	require.NoError(t, db.RunMigrations(testDB.DSN))

	_, err := testDB.Pool.Exec(context.Background(), "SELECT 1 FROM todos LIMIT 1")
	assert.NoError(t, err)
}
