package internal

import (
	"time"

	smtypes "github.com/aws/aws-sdk-go-v2/service/sagemaker/types"
)

// Session is an elevated, role-scoped AWS session obtained through STS.
type Session struct {
	AccessKey    string
	SecretKey    string
	SessionToken string
	Expiration   time.Time

	Region      string
	Account     string
	RoleArn     string
	SessionName string
}

// Expired reports whether the session is past its expiry, minus skew.
// A zero Expiration never expires.
func (s *Session) Expired(now time.Time, skew time.Duration) bool {
	if s.Expiration.IsZero() {
		return false
	}
	return !now.Before(s.Expiration.Add(-skew))
}

// Endpoint is one deployed SageMaker endpoint as returned by the API.
type Endpoint struct {
	Name             string                 `json:"EndpointName"`
	Arn              string                 `json:"EndpointArn"`
	Status           smtypes.EndpointStatus `json:"EndpointStatus"`
	CreationTime     time.Time              `json:"CreationTime"`
	LastModifiedTime time.Time              `json:"LastModifiedTime"`

	// Only populated by DescribeEndpoint.
	FailureReason string            `json:"FailureReason,omitempty"`
	Tags          map[string]string `json:"Tags,omitempty"`
}

// Listing is the first page of endpoints, newest first.
type Listing struct {
	Endpoints []Endpoint `json:"Endpoints"`
	FetchedAt time.Time  `json:"-"`
}

// Row maps a column title to its display value.
type Row map[string]string

type Table struct {
	Columns []string
	Rows    []Row
}

// View is what the presentation layer renders for one pass.
type View struct {
	Listing *Listing
	Table   *Table
	Empty   bool
}
