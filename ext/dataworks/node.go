package dataworks

import (
	"context"
	"strconv"
)

type NodeSummary struct {
	ID   ID     `json:"Id"`
	Name string `json:"Name"`
}

type Node struct {
	ID   ID     `json:"Id"`
	Name string `json:"Name"`
	// Spec is the JSON encoded scheduling envelope
	Spec string `json:"Spec"`
}

// ListNodes returns the workspace nodes matching name, the filter is a substring match
func (c *Client) ListNodes(ctx context.Context, name string) ([]NodeSummary, error) {
	var resp struct {
		PagingInfo struct {
			Nodes []NodeSummary `json:"Nodes"`
		} `json:"PagingInfo"`
	}
	err := c.call(ctx, APIVersion, "ListNodes", map[string]string{
		"Name":       name,
		"Scene":      SceneProject,
		"PageNumber": "1",
		"PageSize":   strconv.Itoa(defaultPageSize),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.PagingInfo.Nodes, nil
}

// CreateNode creates a node from its encoded spec and returns its id
func (c *Client) CreateNode(ctx context.Context, spec string) (ID, error) {
	var resp struct {
		ID ID `json:"Id"`
	}
	err := c.call(ctx, APIVersion, "CreateNode", map[string]string{
		"Scene": SceneProject,
		"Spec":  spec,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *Client) GetNode(ctx context.Context, id ID) (*Node, error) {
	var resp struct {
		Node Node `json:"Node"`
	}
	if err := c.call(ctx, APIVersion, "GetNode", map[string]string{"Id": id.String()}, &resp); err != nil {
		return nil, err
	}
	return &resp.Node, nil
}

// UpdateNode replaces the spec of an existing node
func (c *Client) UpdateNode(ctx context.Context, id ID, spec string) error {
	return c.call(ctx, APIVersion, "UpdateNode", map[string]string{
		"Id":   id.String(),
		"Spec": spec,
	}, nil)
}

// FindNode returns the node named exactly name, nil when there is none
func (c *Client) FindNode(ctx context.Context, name string) (*NodeSummary, error) {
	nodes, err := c.ListNodes(ctx, name)
	if err != nil {
		return nil, err
	}
	for i := range nodes {
		if nodes[i].Name == name {
			return &nodes[i], nil
		}
	}
	return nil, nil
}
