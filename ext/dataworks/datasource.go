package dataworks

import (
	"context"
	"strconv"
)

// ConnectionModeURL configures a datasource from explicit connection properties
const ConnectionModeURL = "UrlMode"

type DataSource struct {
	ID   ID     `json:"Id"`
	Name string `json:"Name"`
	Type string `json:"Type"`
}

type CreateDataSourceRequest struct {
	Name                     string
	Type                     string
	Description              string
	ConnectionPropertiesMode string
	// ConnectionProperties is the JSON encoded connection property object
	ConnectionProperties string
}

// ListDataSources returns the datasources matching name, the filter is a substring match
func (c *Client) ListDataSources(ctx context.Context, name string) ([]DataSource, error) {
	var resp struct {
		PagingInfo struct {
			DataSources []DataSource `json:"DataSources"`
		} `json:"PagingInfo"`
	}
	err := c.call(ctx, APIVersion, "ListDataSources", map[string]string{
		"Name":       name,
		"PageNumber": "1",
		"PageSize":   strconv.Itoa(defaultPageSize),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.PagingInfo.DataSources, nil
}

// CreateDataSource returns the id of the new datasource
func (c *Client) CreateDataSource(ctx context.Context, req CreateDataSourceRequest) (ID, error) {
	var resp struct {
		ID ID `json:"Id"`
	}
	err := c.call(ctx, APIVersion, "CreateDataSource", map[string]string{
		"Name":                     req.Name,
		"Type":                     req.Type,
		"Description":              req.Description,
		"ConnectionPropertiesMode": req.ConnectionPropertiesMode,
		"ConnectionProperties":     req.ConnectionProperties,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

// FindDataSource returns the datasource named exactly name, nil when there is none
func (c *Client) FindDataSource(ctx context.Context, name string) (*DataSource, error) {
	sources, err := c.ListDataSources(ctx, name)
	if err != nil {
		return nil, err
	}
	for i := range sources {
		if sources[i].Name == name {
			return &sources[i], nil
		}
	}
	return nil, nil
}
