package deployment_test

import (
	"context"
	stdErrors "errors"
	"testing"
	"time"

	"github.com/odpf/salt/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ethan-root/Dataworks/core/deployment"
	"github.com/ethan-root/Dataworks/ext/dataworks"
	"github.com/ethan-root/Dataworks/internal/errors"
)

const (
	testInterval = time.Millisecond
	testTimeout  = time.Second * 5
)

func pending() *dataworks.Deployment {
	return &dataworks.Deployment{Status: dataworks.DeploymentPending}
}

func TestPoller(t *testing.T) {
	ctx := context.Background()
	logger := log.NewNoop()

	t.Run("returns nil once the deployment succeeds", func(t *testing.T) {
		client := new(mockClient)
		defer client.AssertExpectations(t)
		client.On("GetDeployment", mock.Anything, int64(9001)).Return(pending(), nil).Twice()
		client.On("GetDeployment", mock.Anything, int64(9001)).Return(&dataworks.Deployment{Status: dataworks.DeploymentSuccess}, nil).Once()

		err := deployment.NewPoller(client, logger, testInterval, testTimeout).Wait(ctx, 9001)

		assert.Nil(t, err)
	})
	t.Run("returns the failure message of a failed deployment", func(t *testing.T) {
		client := new(mockClient)
		client.On("GetDeployment", mock.Anything, int64(9001)).
			Return(&dataworks.Deployment{Status: dataworks.DeploymentFailed, ErrorMessage: "node check failed"}, nil)

		err := deployment.NewPoller(client, logger, testInterval, testTimeout).Wait(ctx, 9001)

		assert.ErrorIs(t, err, deployment.ErrDeploymentFailed)
		assert.Contains(t, err.Error(), "node check failed")
	})
	t.Run("returns status request errors without retrying", func(t *testing.T) {
		client := new(mockClient)
		client.On("GetDeployment", mock.Anything, int64(9001)).Return(nil, stdErrors.New("Forbidden")).Once()

		err := deployment.NewPoller(client, logger, testInterval, testTimeout).Wait(ctx, 9001)

		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "Forbidden")
		client.AssertNumberOfCalls(t, "GetDeployment", 1)
	})
	t.Run("keeps polling an unknown status", func(t *testing.T) {
		client := new(mockClient)
		client.On("GetDeployment", mock.Anything, int64(9001)).Return(&dataworks.Deployment{Status: 7}, nil).Once()
		client.On("GetDeployment", mock.Anything, int64(9001)).Return(&dataworks.Deployment{Status: dataworks.DeploymentSuccess}, nil).Once()

		err := deployment.NewPoller(client, logger, testInterval, testTimeout).Wait(ctx, 9001)

		assert.Nil(t, err)
	})
	t.Run("times out while pending", func(t *testing.T) {
		client := new(mockClient)
		client.On("GetDeployment", mock.Anything, int64(9001)).Return(pending(), nil)

		err := deployment.NewPoller(client, logger, time.Millisecond*5, time.Millisecond*30).Wait(ctx, 9001)

		assert.True(t, errors.IsErrorType(err, errors.ErrTimeout))
	})
	t.Run("bounds a hanging status request by the timeout", func(t *testing.T) {
		client := new(mockClient)
		client.On("GetDeployment", mock.MatchedBy(func(c context.Context) bool {
			_, ok := c.Deadline()
			return ok
		}), int64(9001)).Return(nil, context.DeadlineExceeded).Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).Once()

		started := time.Now()
		err := deployment.NewPoller(client, logger, time.Second, time.Millisecond*30).Wait(ctx, 9001)

		assert.True(t, errors.IsErrorType(err, errors.ErrTimeout))
		assert.Less(t, time.Since(started), testTimeout)
		client.AssertExpectations(t)
	})
	t.Run("stops when the context is cancelled", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		client := new(mockClient)
		client.On("GetDeployment", mock.Anything, int64(9001)).Return(pending(), nil).Run(func(mock.Arguments) {
			cancel()
		})

		err := deployment.NewPoller(client, logger, time.Second, testTimeout).Wait(cancelled, 9001)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestPublisher(t *testing.T) {
	ctx := context.Background()
	logger := log.NewNoop()
	success := &dataworks.Deployment{Status: dataworks.DeploymentSuccess}

	t.Run("Publish", func(t *testing.T) {
		t.Run("submits then deploys waiting for both deployments", func(t *testing.T) {
			client := new(mockClient)
			defer client.AssertExpectations(t)
			client.On("SubmitFile", ctx, int64(501)).Return(int64(9001), nil)
			client.On("GetDeployment", mock.Anything, int64(9001)).Return(success, nil)
			client.On("DeployFile", ctx, int64(501)).Return(int64(9002), nil)
			client.On("GetDeployment", mock.Anything, int64(9002)).Return(success, nil)

			poller := deployment.NewPoller(client, logger, testInterval, testTimeout)
			err := deployment.NewPublisher(client, poller, logger).Publish(ctx, 501, false)

			assert.Nil(t, err)
		})
		t.Run("stops after submit when deploy is skipped", func(t *testing.T) {
			client := new(mockClient)
			client.On("SubmitFile", ctx, int64(501)).Return(int64(9001), nil)
			client.On("GetDeployment", mock.Anything, int64(9001)).Return(success, nil)

			poller := deployment.NewPoller(client, logger, testInterval, testTimeout)
			err := deployment.NewPublisher(client, poller, logger).Publish(ctx, 501, true)

			assert.Nil(t, err)
			client.AssertNotCalled(t, "DeployFile", mock.Anything, mock.Anything)
		})
		t.Run("does not deploy when the submission fails", func(t *testing.T) {
			client := new(mockClient)
			client.On("SubmitFile", ctx, int64(501)).Return(int64(9001), nil)
			client.On("GetDeployment", mock.Anything, int64(9001)).
				Return(&dataworks.Deployment{Status: dataworks.DeploymentFailed, ErrorMessage: "syntax"}, nil)

			poller := deployment.NewPoller(client, logger, testInterval, testTimeout)
			err := deployment.NewPublisher(client, poller, logger).Publish(ctx, 501, false)

			assert.ErrorIs(t, err, deployment.ErrDeploymentFailed)
			client.AssertNotCalled(t, "DeployFile", mock.Anything, mock.Anything)
		})
		t.Run("returns submit request errors", func(t *testing.T) {
			client := new(mockClient)
			client.On("SubmitFile", ctx, int64(501)).Return(int64(0), stdErrors.New("File.NotExist"))

			poller := deployment.NewPoller(client, logger, testInterval, testTimeout)
			err := deployment.NewPublisher(client, poller, logger).Publish(ctx, 501, false)

			assert.NotNil(t, err)
			assert.Contains(t, err.Error(), "File.NotExist")
		})
	})
	t.Run("ResolveFileID", func(t *testing.T) {
		t.Run("returns the id of the named file", func(t *testing.T) {
			client := new(mockClient)
			client.On("FindFile", ctx, "Gucci_t1").Return(&dataworks.File{FileID: 501, FileName: "Gucci_t1"}, nil)

			id, err := deployment.NewPublisher(client, nil, logger).ResolveFileID(ctx, "Gucci_t1")

			assert.Nil(t, err)
			assert.Equal(t, int64(501), id)
		})
		t.Run("returns not found without a match", func(t *testing.T) {
			client := new(mockClient)
			client.On("FindFile", ctx, "Gucci_t1").Return(nil, nil)

			_, err := deployment.NewPublisher(client, nil, logger).ResolveFileID(ctx, "Gucci_t1")

			assert.True(t, errors.IsErrorType(err, errors.ErrNotFound))
		})
	})
}

type mockClient struct {
	mock.Mock
}

func (m *mockClient) GetDeployment(ctx context.Context, deploymentID int64) (*dataworks.Deployment, error) {
	args := m.Called(ctx, deploymentID)
	var d *dataworks.Deployment
	if args.Get(0) != nil {
		d = args.Get(0).(*dataworks.Deployment)
	}
	return d, args.Error(1)
}

func (m *mockClient) SubmitFile(ctx context.Context, fileID int64) (int64, error) {
	args := m.Called(ctx, fileID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockClient) DeployFile(ctx context.Context, fileID int64) (int64, error) {
	args := m.Called(ctx, fileID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockClient) FindFile(ctx context.Context, name string) (*dataworks.File, error) {
	args := m.Called(ctx, name)
	var f *dataworks.File
	if args.Get(0) != nil {
		f = args.Get(0).(*dataworks.File)
	}
	return f, args.Error(1)
}
