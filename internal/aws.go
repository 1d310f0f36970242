package internal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/coder/quartz"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// STSAPI is the part of the STS client the elevator needs.
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
	AssumeRole(ctx context.Context, params *sts.AssumeRoleInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleOutput, error)
}

// Elevator turns the base credentials in Config into an assumed-role Session.
type Elevator struct {
	cfg    Config
	logger log.Logger
	newSTS func(aws.Config) STSAPI
}

type ElevatorOption func(*Elevator)

// WithSTSClient replaces the STS client constructor.
func WithSTSClient(fn func(aws.Config) STSAPI) ElevatorOption {
	return func(e *Elevator) { e.newSTS = fn }
}

func WithElevatorLogger(l log.Logger) ElevatorOption {
	return func(e *Elevator) { e.logger = l }
}

func NewElevator(cfg Config, opts ...ElevatorOption) *Elevator {
	e := &Elevator{
		cfg:    cfg,
		logger: log.NewNopLogger(),
		newSTS: func(c aws.Config) STSAPI { return sts.NewFromConfig(c) },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Establish resolves the caller's account and assumes <role-name> in it.
// Nothing is retried and the base credentials are never used past STS.
func (e *Elevator) Establish(ctx context.Context) (*Session, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(e.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			e.cfg.AccessKeyID,
			e.cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load base config: %w", ErrConfiguration, err)
	}

	svc := e.newSTS(awsCfg)

	ident, err := svc.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, fmt.Errorf("%w: get caller identity: %w", ErrAuthorization, err)
	}
	account := aws.ToString(ident.Account)
	if account == "" {
		return nil, fmt.Errorf("%w: caller identity returned no account", ErrAuthorization)
	}

	roleArn := e.cfg.RoleArn(account)
	sessionName := e.cfg.SessionName()
	input := &sts.AssumeRoleInput{
		RoleArn:         &roleArn,
		RoleSessionName: &sessionName,
	}
	if e.cfg.SessionDuration > 0 {
		input.DurationSeconds = aws.Int32(int32(e.cfg.SessionDuration / time.Second))
	}

	out, err := svc.AssumeRole(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("%w: assume role %s: %w", ErrAuthorization, roleArn, err)
	}
	if out.Credentials == nil {
		return nil, fmt.Errorf("%w: assume role %s returned no credentials", ErrAuthorization, roleArn)
	}

	s := &Session{
		AccessKey:    aws.ToString(out.Credentials.AccessKeyId),
		SecretKey:    aws.ToString(out.Credentials.SecretAccessKey),
		SessionToken: aws.ToString(out.Credentials.SessionToken),
		Expiration:   aws.ToTime(out.Credentials.Expiration),
		Region:       e.cfg.Region,
		Account:      account,
		RoleArn:      roleArn,
		SessionName:  sessionName,
	}
	level.Debug(e.logger).Log("msg", "assumed role", "role_arn", roleArn, "session", sessionName, "expires", s.Expiration)
	return s, nil
}

// AWSConfig builds an SDK config that signs with the elevated credentials.
func (s *Session) AWSConfig() aws.Config {
	return aws.Config{
		Region:      s.Region,
		Credentials: credentials.NewStaticCredentialsProvider(s.AccessKey, s.SecretKey, s.SessionToken),
	}
}

// SessionRefreshSkew is how long before expiry a session is replaced.
const SessionRefreshSkew = time.Minute

// SessionProvider holds one session and re-establishes it after it expires.
type SessionProvider struct {
	mu       sync.Mutex
	elevator Establisher
	clock    quartz.Clock
	current  *Session
}

// Establisher is satisfied by *Elevator.
type Establisher interface {
	Establish(ctx context.Context) (*Session, error)
}

func NewSessionProvider(e Establisher, clock quartz.Clock) *SessionProvider {
	return &SessionProvider{elevator: e, clock: clock}
}

func (p *SessionProvider) Session(ctx context.Context) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil && !p.current.Expired(p.clock.Now(), SessionRefreshSkew) {
		return p.current, nil
	}

	s, err := p.elevator.Establish(ctx)
	if err != nil {
		return nil, err
	}
	p.current = s
	return s, nil
}
