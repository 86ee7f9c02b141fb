package auth

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/user/tasklist-go/schema"
	"github.com/user/tasklist-go/users"
)

// Fragment is the account part of the API.
var Fragment = schema.Fragment{
	Types: `
input SignupUserInput {
  username: String!
  name: String!
  password: String!
}

type User {
  id: ID!
  username: String!
  name: String!
}
`,
	Queries: `
currentUser: User
`,
	Mutations: `
signupUser(input: SignupUserInput!): Status
loginUser(username: String!, password: String!): Token
`,
}

// AccountResolvers resolves the account fields of Query and Mutation.
type AccountResolvers struct {
	service *Service
}

// NewAccountResolvers creates resolvers that delegate to service.
func NewAccountResolvers(service *Service) *AccountResolvers {
	return &AccountResolvers{service: service}
}

func (r *AccountResolvers) CurrentUser(ctx context.Context) (*UserResolver, error) {
	user, err := r.service.CurrentUser(ctx)
	if err != nil {
		return nil, schema.ToGraphQL(ctx, err)
	}
	return &UserResolver{user: user}, nil
}

func (r *AccountResolvers) SignupUser(ctx context.Context, args struct{ Input SignupInput }) (*schema.StatusResolver, error) {
	if _, err := r.service.Signup(ctx, args.Input); err != nil {
		return nil, schema.ToGraphQL(ctx, err)
	}
	return schema.Success(), nil
}

func (r *AccountResolvers) LoginUser(ctx context.Context, args struct {
	Username string
	Password string
}) (*TokenResolver, error) {
	token, err := r.service.Login(ctx, args.Username, args.Password)
	if err != nil {
		return nil, schema.ToGraphQL(ctx, err)
	}
	return &TokenResolver{token: token}, nil
}

// UserResolver exposes a user without its password hash.
type UserResolver struct {
	user *users.User
}

func (r *UserResolver) ID() graphql.ID {
	return graphql.ID(r.user.ID.String())
}

func (r *UserResolver) Username() string {
	return r.user.Username
}

func (r *UserResolver) Name() string {
	return r.user.Name
}

type TokenResolver struct {
	token string
}

func (r *TokenResolver) Token() *string {
	if r.token == "" {
		return nil
	}
	return &r.token
}
