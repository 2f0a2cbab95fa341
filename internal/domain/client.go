package domain

import "strings"

// UnnamedClient is the display fallback for clients without a name.
const UnnamedClient = "Unnamed Client"

// Client represents client data used by this package.
type Client struct {
	ID                string
	Name              string
	Address           string
	ProjectsTotal     int
	ProjectsCompleted int
}

// NewClient constructs a new value for this package.
func NewClient(id, name, address string, projectsTotal, projectsCompleted int) (Client, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Client{}, ErrInvalidID
	}
	if projectsTotal < 0 || projectsCompleted < 0 {
		return Client{}, ErrInvalidCount
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = UnnamedClient
	}

	return Client{
		ID:                id,
		Name:              name,
		Address:           strings.TrimSpace(address),
		ProjectsTotal:     projectsTotal,
		ProjectsCompleted: projectsCompleted,
	}, nil
}
