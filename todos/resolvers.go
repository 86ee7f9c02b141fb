package todos

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/user/tasklist-go/schema"
)

// Fragment is the todo part of the API.
var Fragment = schema.Fragment{
	Types: `
input AddTodoInput {
  title: String!
}

input UpdateTodoInput {
  todoId: ID!
  title: String
  completed: Boolean
}

type Todo {
  id: ID!
  title: String!
  completed: Boolean!
}
`,
	Queries: `
todos: [Todo!]!
`,
	Mutations: `
addTodo(input: AddTodoInput!): Todo
deleteTodo(todoId: ID!): Status
updateTodo(input: UpdateTodoInput!): Status
`,
}

// TaskResolvers resolves the todo fields of Query and Mutation.
type TaskResolvers struct {
	service *Service
}

// NewTaskResolvers creates resolvers that delegate to service.
func NewTaskResolvers(service *Service) *TaskResolvers {
	return &TaskResolvers{service: service}
}

func (r *TaskResolvers) Todos(ctx context.Context) ([]*TodoResolver, error) {
	list, err := r.service.List(ctx)
	if err != nil {
		return nil, schema.ToGraphQL(ctx, err)
	}
	resolvers := make([]*TodoResolver, 0, len(list))
	for i := range list {
		resolvers = append(resolvers, &TodoResolver{todo: &list[i]})
	}
	return resolvers, nil
}

func (r *TaskResolvers) AddTodo(ctx context.Context, args struct{ Input AddTodoInput }) (*TodoResolver, error) {
	todo, err := r.service.Add(ctx, args.Input)
	if err != nil {
		return nil, schema.ToGraphQL(ctx, err)
	}
	return &TodoResolver{todo: todo}, nil
}

func (r *TaskResolvers) DeleteTodo(ctx context.Context, args struct{ TodoID graphql.ID }) (*schema.StatusResolver, error) {
	if err := r.service.Delete(ctx, string(args.TodoID)); err != nil {
		return nil, schema.ToGraphQL(ctx, err)
	}
	return schema.Success(), nil
}

type updateTodoArgs struct {
	TodoID    graphql.ID
	Title     *string
	Completed *bool
}

func (r *TaskResolvers) UpdateTodo(ctx context.Context, args struct{ Input updateTodoArgs }) (*schema.StatusResolver, error) {
	_, err := r.service.Update(ctx, UpdateTodoInput{
		TodoID:    string(args.Input.TodoID),
		Title:     args.Input.Title,
		Completed: args.Input.Completed,
	})
	if err != nil {
		return nil, schema.ToGraphQL(ctx, err)
	}
	if args.Input.Title == nil && args.Input.Completed == nil {
		return schema.SuccessWithMessage("nothing to update"), nil
	}
	return schema.Success(), nil
}

type TodoResolver struct {
	todo *Todo
}

func (r *TodoResolver) ID() graphql.ID {
	return graphql.ID(r.todo.ID.String())
}

func (r *TodoResolver) Title() string {
	return r.todo.Title
}

func (r *TodoResolver) Completed() bool {
	return r.todo.Completed
}
