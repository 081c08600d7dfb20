package dataworks

import (
	"context"
	"strconv"
)

const (
	DeploymentPending = 0
	DeploymentSuccess = 1
	DeploymentFailed  = 2
)

type File struct {
	FileID   int64  `json:"FileId"`
	FileName string `json:"FileName"`
}

type Deployment struct {
	Status       int    `json:"Status"`
	ErrorMessage string `json:"ErrorMessage"`
	Name         string `json:"Name"`
}

type deploymentResponse struct {
	Data int64 `json:"Data"`
}

// SubmitFile submits the file to the scheduling system and returns the deployment id
func (c *Client) SubmitFile(ctx context.Context, fileID int64) (int64, error) {
	var resp deploymentResponse
	err := c.call(ctx, LegacyAPIVersion, "SubmitFile", map[string]string{
		"FileId": strconv.FormatInt(fileID, 10),
	}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.Data, nil
}

// DeployFile publishes a submitted file to production and returns the deployment id
func (c *Client) DeployFile(ctx context.Context, fileID int64) (int64, error) {
	var resp deploymentResponse
	err := c.call(ctx, LegacyAPIVersion, "DeployFile", map[string]string{
		"FileId": strconv.FormatInt(fileID, 10),
	}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.Data, nil
}

func (c *Client) GetDeployment(ctx context.Context, deploymentID int64) (*Deployment, error) {
	var resp struct {
		Data struct {
			Deployment Deployment `json:"Deployment"`
		} `json:"Data"`
	}
	err := c.call(ctx, LegacyAPIVersion, "GetDeployment", map[string]string{
		"DeploymentId": strconv.FormatInt(deploymentID, 10),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Data.Deployment, nil
}

// ListFiles returns the files matching keyword, the filter is a substring match
func (c *Client) ListFiles(ctx context.Context, keyword string) ([]File, error) {
	var resp struct {
		Data struct {
			Files []File `json:"Files"`
		} `json:"Data"`
	}
	err := c.call(ctx, LegacyAPIVersion, "ListFiles", map[string]string{
		"Keyword":    keyword,
		"PageNumber": "1",
		"PageSize":   strconv.Itoa(defaultPageSize),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Data.Files, nil
}

// FindFile returns the file named exactly name, nil when there is none
func (c *Client) FindFile(ctx context.Context, name string) (*File, error) {
	files, err := c.ListFiles(ctx, name)
	if err != nil {
		return nil, err
	}
	for i := range files {
		if files[i].FileName == name {
			return &files[i], nil
		}
	}
	return nil, nil
}
