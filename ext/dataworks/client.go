package dataworks

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"

	"github.com/odpf/salt/log"

	"github.com/ethan-root/Dataworks/internal/errors"
)

const (
	entityDataWorks = "dataworks"

	// SceneProject places nodes in the workspace folder tree
	SceneProject = "DATAWORKS_PROJECT"

	defaultPageSize = 100
)

// ID is returned as a number by some calls and as a string by others
type ID string

func (i *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*i = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*i = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*i = ID(n.String())
	return nil
}

func (i ID) String() string {
	return string(i)
}

// Int64 parses the id for the calls that take a numeric identifier
func (i ID) Int64() (int64, error) {
	return strconv.ParseInt(string(i), 10, 64)
}

// envelope is the part every response shares, Success is only sent by some calls
type envelope struct {
	RequestID    string `json:"RequestId"`
	Success      *bool  `json:"Success"`
	ErrorCode    string `json:"ErrorCode"`
	ErrorMessage string `json:"ErrorMessage"`
}

// Client exposes one method per DataWorks OpenAPI operation used by the tooling
type Client struct {
	transport Transport
	projectID int64
	logger    log.Logger
}

func NewClient(transport Transport, projectID int64, logger log.Logger) *Client {
	return &Client{
		transport: transport,
		projectID: projectID,
		logger:    logger,
	}
}

func (c *Client) ProjectID() int64 {
	return c.projectID
}

func (c *Client) call(ctx context.Context, version, action string, params map[string]string, out interface{}) error {
	if params == nil {
		params = map[string]string{}
	}
	params["ProjectId"] = strconv.FormatInt(c.projectID, 10)

	c.logger.Debug("calling %s (%s)", action, version)
	body, err := c.transport.Call(ctx, version, action, params)
	if err != nil {
		return errors.RemoteCall(action, "request failed", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return errors.RemoteCall(action, "invalid response body", err)
	}
	if env.Success != nil && !*env.Success {
		return errors.RemoteCall(action, "request unsuccessful",
			errors.NewError(errors.ErrRemoteCall, action, env.ErrorCode+": "+env.ErrorMessage))
	}
	c.logger.Debug("%s completed, request id %s", action, env.RequestID)

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.RemoteCall(action, "invalid response body", err)
	}
	return nil
}
