package internal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	smtypes "github.com/aws/aws-sdk-go-v2/service/sagemaker/types"
	"github.com/aws/smithy-go"
	"github.com/cenkalti/backoff/v5"
	"github.com/coder/quartz"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// SageMakerAPI is the part of the SageMaker client the fetcher uses.
type SageMakerAPI interface {
	ListEndpoints(ctx context.Context, params *sagemaker.ListEndpointsInput, optFns ...func(*sagemaker.Options)) (*sagemaker.ListEndpointsOutput, error)
	DescribeEndpoint(ctx context.Context, params *sagemaker.DescribeEndpointInput, optFns ...func(*sagemaker.Options)) (*sagemaker.DescribeEndpointOutput, error)
	ListTags(ctx context.Context, params *sagemaker.ListTagsInput, optFns ...func(*sagemaker.Options)) (*sagemaker.ListTagsOutput, error)
}

// RetryPolicy bounds retries of transport-level failures.
type RetryPolicy struct {
	MaxTries        uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxTries:        DefaultFetchMaxTries,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

// Fetcher lists endpoints using an elevated Session.
type Fetcher struct {
	newClient func(*Session) SageMakerAPI
	retry     RetryPolicy
	clock     quartz.Clock
	logger    log.Logger
}

type FetcherOption func(*Fetcher)

// WithSageMakerClient replaces the SageMaker client constructor.
func WithSageMakerClient(fn func(*Session) SageMakerAPI) FetcherOption {
	return func(f *Fetcher) { f.newClient = fn }
}

func WithRetryPolicy(p RetryPolicy) FetcherOption {
	return func(f *Fetcher) { f.retry = p }
}

func WithFetcherClock(c quartz.Clock) FetcherOption {
	return func(f *Fetcher) { f.clock = c }
}

func WithFetcherLogger(l log.Logger) FetcherOption {
	return func(f *Fetcher) { f.logger = l }
}

func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		newClient: func(s *Session) SageMakerAPI {
			// Retries are owned by RetryPolicy, not the SDK.
			return sagemaker.NewFromConfig(s.AWSConfig(), func(o *sagemaker.Options) {
				o.RetryMaxAttempts = 1
			})
		},
		retry:  DefaultRetryPolicy(),
		clock:  quartz.NewReal(),
		logger: log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ListEndpoints returns the first page of endpoints sorted by creation time,
// newest first. A continuation token is dropped.
func (f *Fetcher) ListEndpoints(ctx context.Context, sess *Session) (*Listing, error) {
	if sess == nil {
		return nil, ErrNotAuthenticated
	}
	client := f.newClient(sess)

	out, err := withRetry(ctx, f, "list endpoints", func() (*sagemaker.ListEndpointsOutput, error) {
		return client.ListEndpoints(ctx, &sagemaker.ListEndpointsInput{
			SortBy:    smtypes.EndpointSortKeyCreationTime,
			SortOrder: smtypes.OrderKeyDescending,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list endpoints: %w", ErrFetch, err)
	}

	if out.NextToken != nil {
		level.Debug(f.logger).Log("msg", "listing truncated to first page", "endpoints", len(out.Endpoints))
	}

	listing := &Listing{
		Endpoints: make([]Endpoint, 0, len(out.Endpoints)),
		FetchedAt: f.clock.Now(),
	}
	for _, e := range out.Endpoints {
		listing.Endpoints = append(listing.Endpoints, Endpoint{
			Name:             aws.ToString(e.EndpointName),
			Arn:              aws.ToString(e.EndpointArn),
			Status:           e.EndpointStatus,
			CreationTime:     aws.ToTime(e.CreationTime),
			LastModifiedTime: aws.ToTime(e.LastModifiedTime),
		})
	}
	return listing, nil
}

// DescribeEndpoint fetches one endpoint along with its failure reason and tags.
func (f *Fetcher) DescribeEndpoint(ctx context.Context, sess *Session, name string) (*Endpoint, error) {
	if sess == nil {
		return nil, ErrNotAuthenticated
	}
	client := f.newClient(sess)

	out, err := withRetry(ctx, f, "describe endpoint", func() (*sagemaker.DescribeEndpointOutput, error) {
		return client.DescribeEndpoint(ctx, &sagemaker.DescribeEndpointInput{EndpointName: &name})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: describe endpoint %s: %w", ErrFetch, name, err)
	}

	ep := &Endpoint{
		Name:             aws.ToString(out.EndpointName),
		Arn:              aws.ToString(out.EndpointArn),
		Status:           out.EndpointStatus,
		CreationTime:     aws.ToTime(out.CreationTime),
		LastModifiedTime: aws.ToTime(out.LastModifiedTime),
		FailureReason:    aws.ToString(out.FailureReason),
	}

	tags, err := withRetry(ctx, f, "list tags", func() (*sagemaker.ListTagsOutput, error) {
		return client.ListTags(ctx, &sagemaker.ListTagsInput{ResourceArn: out.EndpointArn})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list tags %s: %w", ErrFetch, name, err)
	}
	if len(tags.Tags) > 0 {
		ep.Tags = make(map[string]string, len(tags.Tags))
		for _, t := range tags.Tags {
			ep.Tags[aws.ToString(t.Key)] = aws.ToString(t.Value)
		}
	}
	return ep, nil
}

func withRetry[T any](ctx context.Context, f *Fetcher, op string, call func() (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.retry.InitialInterval
	b.MaxInterval = f.retry.MaxInterval

	tries := f.retry.MaxTries
	if tries == 0 {
		tries = 1
	}

	return backoff.Retry(ctx, func() (T, error) {
		res, err := call()
		if err != nil && !isTransient(err) {
			return res, backoff.Permanent(err)
		}
		return res, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(tries),
		backoff.WithNotify(func(err error, next time.Duration) {
			level.Warn(f.logger).Log("msg", "retrying after transport error", "op", op, "next", next, "err", err)
		}),
	)
}

// isTransient is true for transport-level failures only. Anything the
// service answered with, such as AccessDenied or Validation, is final.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr smithy.APIError
	return !errors.As(err, &apiErr)
}
