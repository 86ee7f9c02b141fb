// Package schema holds the GraphQL pieces shared by every module: the
// fragment type each module exports, the composer that merges fragments into
// one SDL document, the Status payload and the error mapping.
package schema

import "strings"

// Fragment is one module's contribution to the API: type definitions plus the
// fields it adds to Query and Mutation.
type Fragment struct {
	Types     string
	Queries   string
	Mutations string
}

// baseTypes are the payloads shared across modules.
const baseTypes = `
type Status {
  status: String!
  message: String
}

type Token {
  token: String
}
`

// Compose merges the shared types and the given fragments into a single
// schema document. Fragments are emitted in argument order.
func Compose(fragments ...Fragment) string {
	var b strings.Builder
	b.WriteString("schema {\n  query: Query\n  mutation: Mutation\n}\n")
	b.WriteString(baseTypes)

	var queries, mutations []string
	for _, f := range fragments {
		if t := strings.TrimSpace(f.Types); t != "" {
			b.WriteString("\n")
			b.WriteString(t)
			b.WriteString("\n")
		}
		if q := strings.TrimSpace(f.Queries); q != "" {
			queries = append(queries, q)
		}
		if m := strings.TrimSpace(f.Mutations); m != "" {
			mutations = append(mutations, m)
		}
	}

	writeRoot(&b, "Query", queries)
	writeRoot(&b, "Mutation", mutations)
	return b.String()
}

func writeRoot(b *strings.Builder, name string, fields []string) {
	b.WriteString("\ntype ")
	b.WriteString(name)
	b.WriteString(" {\n")
	for _, f := range fields {
		for _, line := range strings.Split(f, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				b.WriteString("  ")
				b.WriteString(line)
				b.WriteString("\n")
			}
		}
	}
	b.WriteString("}\n")
}

// StatusResolver resolves the Status payload returned by mutations that
// produce no entity.
type StatusResolver struct {
	status  string
	message *string
}

// Success is the acknowledgment returned by a mutation that went through.
func Success() *StatusResolver {
	return &StatusResolver{status: "success"}
}

// SuccessWithMessage is Success with an informational message.
func SuccessWithMessage(message string) *StatusResolver {
	return &StatusResolver{status: "success", message: &message}
}

func (r *StatusResolver) Status() string {
	return r.status
}

func (r *StatusResolver) Message() *string {
	return r.message
}
