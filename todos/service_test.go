package todos_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/tasklist-go/apperror"
	"github.com/user/tasklist-go/auth"
	"github.com/user/tasklist-go/todos"
	"github.com/user/tasklist-go/todos/todostest"
	"github.com/user/tasklist-go/users"
)

func userContext(username string) context.Context {
	return auth.NewContextWithUser(context.Background(), &users.User{ID: uuid.New(), Username: username})
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestService_RequiresCaller(t *testing.T) {
	store := todostest.NewStore()
	svc := todos.NewService(store)
	ctx := context.Background()

	_, err := svc.List(ctx)
	assert.True(t, apperror.IsUnauthenticated(err))

	_, err = svc.Add(ctx, todos.AddTodoInput{Title: "buy milk"})
	assert.True(t, apperror.IsUnauthenticated(err))

	err = svc.Delete(ctx, uuid.NewString())
	assert.True(t, apperror.IsUnauthenticated(err))

	_, err = svc.Update(ctx, todos.UpdateTodoInput{TodoID: uuid.NewString(), Completed: boolPtr(true)})
	assert.True(t, apperror.IsUnauthenticated(err))

	assert.Zero(t, store.Calls(), "no store access before the caller check")
}

func TestService_AddAndList(t *testing.T) {
	svc := todos.NewService(todostest.NewStore())
	ctx := userContext("alice")

	empty, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	todo, err := svc.Add(ctx, todos.AddTodoInput{Title: "buy milk"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, todo.ID)
	assert.Equal(t, "buy milk", todo.Title)
	assert.False(t, todo.Completed)

	caller, _ := auth.UserFromContext(ctx)
	assert.Equal(t, caller.ID, todo.UserID)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, todo.ID, list[0].ID)
}

func TestService_AddValidatesTitle(t *testing.T) {
	svc := todos.NewService(todostest.NewStore())
	ctx := userContext("alice")

	for _, title := range []string{"", "   ", strings.Repeat("x", 501)} {
		_, err := svc.Add(ctx, todos.AddTodoInput{Title: title})
		require.Error(t, err)
		assert.True(t, apperror.Is(err, apperror.ValidationError))
	}
}

func TestService_ListIsOwnerScoped(t *testing.T) {
	svc := todos.NewService(todostest.NewStore())
	alice := userContext("alice")
	bob := userContext("bob")

	_, err := svc.Add(alice, todos.AddTodoInput{Title: "alice's"})
	require.NoError(t, err)

	list, err := svc.List(bob)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestService_Delete(t *testing.T) {
	svc := todos.NewService(todostest.NewStore())
	ctx := userContext("alice")

	todo, err := svc.Add(ctx, todos.AddTodoInput{Title: "buy milk"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, todo.ID.String()))

	err = svc.Delete(ctx, todo.ID.String())
	assert.True(t, apperror.IsNotFound(err), "second delete is NotFound")

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestService_DeleteMissingOrInvalidID(t *testing.T) {
	svc := todos.NewService(todostest.NewStore())
	ctx := userContext("alice")

	assert.True(t, apperror.IsNotFound(svc.Delete(ctx, uuid.NewString())))
	assert.True(t, apperror.IsNotFound(svc.Delete(ctx, "42")))
}

func TestService_DeleteOtherOwnersTodo(t *testing.T) {
	svc := todos.NewService(todostest.NewStore())
	alice := userContext("alice")
	bob := userContext("bob")

	todo, err := svc.Add(alice, todos.AddTodoInput{Title: "buy milk"})
	require.NoError(t, err)

	err = svc.Delete(bob, todo.ID.String())
	assert.True(t, apperror.IsForbidden(err))

	list, err := svc.List(alice)
	require.NoError(t, err)
	assert.Len(t, list, 1, "todo survives a foreign delete")
}

func TestService_UpdatePartial(t *testing.T) {
	svc := todos.NewService(todostest.NewStore())
	ctx := userContext("alice")

	todo, err := svc.Add(ctx, todos.AddTodoInput{Title: "buy milk"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, todos.UpdateTodoInput{TodoID: todo.ID.String(), Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "buy milk", updated.Title)

	updated, err = svc.Update(ctx, todos.UpdateTodoInput{TodoID: todo.ID.String(), Title: strPtr("buy oat milk")})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "buy oat milk", updated.Title)

	unchanged, err := svc.Update(ctx, todos.UpdateTodoInput{TodoID: todo.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, updated.Title, unchanged.Title)
	assert.Equal(t, updated.Completed, unchanged.Completed)
}

func TestService_UpdateErrors(t *testing.T) {
	svc := todos.NewService(todostest.NewStore())
	alice := userContext("alice")
	bob := userContext("bob")

	todo, err := svc.Add(alice, todos.AddTodoInput{Title: "buy milk"})
	require.NoError(t, err)

	_, err = svc.Update(alice, todos.UpdateTodoInput{TodoID: uuid.NewString(), Completed: boolPtr(true)})
	assert.True(t, apperror.IsNotFound(err))

	_, err = svc.Update(alice, todos.UpdateTodoInput{TodoID: "not-a-uuid", Completed: boolPtr(true)})
	assert.True(t, apperror.IsNotFound(err))

	_, err = svc.Update(bob, todos.UpdateTodoInput{TodoID: todo.ID.String(), Completed: boolPtr(true)})
	assert.True(t, apperror.IsForbidden(err))

	_, err = svc.Update(alice, todos.UpdateTodoInput{TodoID: todo.ID.String(), Title: strPtr(" ")})
	assert.True(t, apperror.Is(err, apperror.ValidationError))

	list, err := svc.List(alice)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Completed)
	assert.Equal(t, "buy milk", list[0].Title)
}

func TestService_StoreFailure(t *testing.T) {
	store := todostest.NewStore()
	svc := todos.NewService(store)
	ctx := userContext("alice")

	todo, err := svc.Add(ctx, todos.AddTodoInput{Title: "buy milk"})
	require.NoError(t, err)

	store.SetErr(errors.New("connection refused"))

	_, err = svc.List(ctx)
	assert.True(t, apperror.Is(err, apperror.StoreUnavailable))

	_, err = svc.Add(ctx, todos.AddTodoInput{Title: "x"})
	assert.True(t, apperror.Is(err, apperror.StoreUnavailable))

	err = svc.Delete(ctx, todo.ID.String())
	assert.True(t, apperror.Is(err, apperror.StoreUnavailable))

	_, err = svc.Update(ctx, todos.UpdateTodoInput{TodoID: todo.ID.String(), Completed: boolPtr(true)})
	assert.True(t, apperror.Is(err, apperror.StoreUnavailable))
}
