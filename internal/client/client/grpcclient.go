package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/jobassist/internal/common"
	"github.com/dmitrijs2005/jobassist/internal/rpcapi"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	api         *rpcapi.Client

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewJobAssistClient connects lazily to endpointURL. Every call gets the
// given timeout unless the caller's context expires sooner. Extra dial
// options are appended after the defaults.
func NewJobAssistClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.api = rpcapi.NewClient(conn)
	return c, nil
}

func (s *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *GRPCClient) LoggedIn() bool {
	return s.token() != ""
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Register(ctx context.Context, email, password, name string) (*rpcapi.AuthResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.api.Register(ctx, &rpcapi.RegisterRequest{Email: email, Password: password, Name: name})
	if err != nil {
		return nil, s.mapError(err)
	}

	s.setToken(resp.Token)
	return resp, nil
}

func (s *GRPCClient) Login(ctx context.Context, email, password string) (*rpcapi.AuthResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.api.Login(ctx, &rpcapi.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}

	s.setToken(resp.Token)
	return resp, nil
}

// Logout ends the server session and forgets the token even when the
// server could not be reached.
func (s *GRPCClient) Logout(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	defer s.setToken("")

	if err := s.api.Logout(ctx); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.api.Ping(ctx)
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil
}

func (s *GRPCClient) Apply(ctx context.Context, req *rpcapi.ApplyRequest) (*rpcapi.ApplyResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.api.Apply(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Transition(ctx context.Context, req *rpcapi.TransitionRequest) (*rpcapi.Application, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.api.TransitionStatus(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Application, nil
}

func (s *GRPCClient) Get(ctx context.Context, id string) (*rpcapi.Application, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.api.GetApplication(ctx, &rpcapi.GetApplicationRequest{ApplicationID: id})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Application, nil
}

func (s *GRPCClient) List(ctx context.Context, status string) (*rpcapi.ListApplicationsResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.api.ListApplications(ctx, &rpcapi.ListApplicationsRequest{Status: status})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Stats(ctx context.Context) (rpcapi.Stats, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.api.GetStats(ctx)
	if err != nil {
		return rpcapi.Stats{}, s.mapError(err)
	}
	return resp.Stats, nil
}

func (s *GRPCClient) Reconcile(ctx context.Context) (*rpcapi.ReconcileResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.api.Reconcile(ctx)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidInput, st.Message())
	case codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", ErrInvalidTransition, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
