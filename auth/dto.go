package auth

// SignupInput is the signupUser mutation input. Its fields double as the
// GraphQL SignupUserInput arguments.
type SignupInput struct {
	Username string `json:"username" validate:"required,max=64"`
	Name     string `json:"name" validate:"required,max=128"`
	Password string `json:"password" validate:"required,max=72"`
}
