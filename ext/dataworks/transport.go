package dataworks

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/aliyun/alibaba-cloud-sdk-go/sdk"
	sdkErrors "github.com/aliyun/alibaba-cloud-sdk-go/sdk/errors"
	"github.com/aliyun/alibaba-cloud-sdk-go/sdk/requests"

	"github.com/ethan-root/Dataworks/config"
	"github.com/ethan-root/Dataworks/internal/errors"
)

const (
	// APIVersion is the node and datasource API generation
	APIVersion = "2024-05-18"
	// LegacyAPIVersion still serves the file based publishing calls
	LegacyAPIVersion = "2020-05-18"
)

// Transport issues one signed RPC call and returns the raw response body
type Transport interface {
	Call(ctx context.Context, version, action string, params map[string]string) ([]byte, error)
}

type sdkTransport struct {
	client *sdk.Client
	domain string
}

// NewTransport builds an access key authenticated transport for the regional endpoint
func NewTransport(cfg *config.DataWorks) (Transport, error) {
	client, err := sdk.NewClientWithAccessKey(cfg.Region, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, errors.RemoteCall(entityDataWorks, "failed to create client", err)
	}
	return &sdkTransport{
		client: client,
		domain: cfg.Endpoint(),
	}, nil
}

func (t *sdkTransport) Call(ctx context.Context, version, action string, params map[string]string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	request := requests.NewCommonRequest()
	request.Method = requests.POST
	request.Scheme = requests.HTTPS
	request.Domain = t.domain
	request.Version = version
	request.ApiName = action
	for key, value := range params {
		request.FormParams[key] = value
	}

	// the sdk request is not context aware, a cancelled ctx abandons it
	done := make(chan callResult, 1)
	go func() {
		response, err := t.client.ProcessCommonRequest(request)
		if err != nil {
			done <- callResult{err: err}
			return
		}
		done <- callResult{body: response.GetHttpContentBytes()}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", action, ctx.Err())
	case result := <-done:
		var serverErr *sdkErrors.ServerError
		if stdErrors.As(result.err, &serverErr) {
			return nil, fmt.Errorf("%s: %s (status %d)", serverErr.ErrorCode(), serverErr.Message(), serverErr.HttpStatus())
		}
		return result.body, result.err
	}
}

type callResult struct {
	body []byte
	err  error
}
